package tables

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/serum-errors/go-serum"

	"github.com/shelftools/datashelf/dsapi"
)

const (
	// TableNameFormat constrains table names to snake_case so that the name
	// can double as a filesystem-safe base name on every platform we care about.
	TableNameFormat    = `^[a-z_][a-z0-9_]*$`
	tableNameMaxLength = 63 // keep base names comfortably inside filesystem limits
)

var reTableName = regexp.MustCompile(TableNameFormat)

// ValidateTableName checks a table name for use as a base filename.
//
// Table names have the following rules:
//    - Name MUST start with a lowercase ASCII letter or underscore.
//    - Name MUST contain only lowercase ASCII letters, digits, and underscores.
//    - Name MUST be 63 characters or less.
//
// Errors:
//
//    - datashelf-error-table-name -- when the table name is invalid
func ValidateTableName(name string) error {
	if !reTableName.MatchString(name) {
		return serum.Error(dsapi.ECodeTableName,
			serum.WithMessageLiteral("table name must start with a lowercase letter or underscore and consist of lowercase letters, digits, and underscores"),
			serum.WithDetail("name", strconv.Quote(name)),
		)
	}
	if len(name) > tableNameMaxLength {
		return serum.Errorf(dsapi.ECodeTableName, "table name may not be longer than %d characters", tableNameMaxLength)
	}
	return nil
}

// Table is a named tabular data unit: one arrow record batch plus the
// metadata document that travels in the table's sidecar file.
// The name is the table's identity within a dataset; the on-disk format
// (feather or csv) is a storage detail and not part of the identity.
type Table struct {
	meta dsapi.TableMeta
	rec  arrow.Record
}

// New creates a table over a record batch.
// The table retains the record; callers that no longer need their own
// reference should release it as usual.
//
// Errors:
//
//    - datashelf-error-table-name -- when the table name is invalid
func New(name string, rec arrow.Record) (*Table, error) {
	if err := ValidateTableName(name); err != nil {
		return nil, err
	}
	rec.Retain()
	return &Table{
		meta: dsapi.TableMeta{ShortName: name},
		rec:  rec,
	}, nil
}

// Name returns the table's validated name.
func (t *Table) Name() string {
	return t.meta.ShortName
}

// Meta returns the table's metadata document for reading and mutation.
func (t *Table) Meta() *dsapi.TableMeta {
	return &t.meta
}

// Record returns the underlying arrow record batch.
func (t *Table) Record() arrow.Record {
	return t.rec
}

// NumRows returns the number of rows in the table.
func (t *Table) NumRows() int64 {
	return t.rec.NumRows()
}

// NumCols returns the number of columns in the table.
func (t *Table) NumCols() int64 {
	return t.rec.NumCols()
}

// SetVariable attaches metadata to the named column.
//
// Errors:
//
//    - datashelf-error-invalid -- when the table has no such column
func (t *Table) SetVariable(column string, v dsapi.VariableMeta) error {
	if !t.rec.Schema().HasField(column) {
		return dsapi.ErrorInvalid(
			fmt.Sprintf("table %q has no column named %q", t.Name(), column),
			[2]string{"table", t.Name()},
			[2]string{"column", column},
		)
	}
	t.meta.SetVariable(column, v)
	return nil
}

// Variable returns the metadata recorded for the named column,
// or the zero document when none was recorded.
func (t *Table) Variable(column string) dsapi.VariableMeta {
	return t.meta.Variables.Values[column]
}

// Equal reports whether two tables have the same name and identical data.
func (t *Table) Equal(other *Table) bool {
	if t.Name() != other.Name() {
		return false
	}
	return array.RecordEqual(t.rec, other.rec)
}

// Release releases the table's hold on the underlying record batch.
func (t *Table) Release() {
	t.rec.Release()
}
