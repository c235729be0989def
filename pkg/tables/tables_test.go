package tables_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	qt "github.com/frankban/quicktest"
	"github.com/serum-errors/go-serum"
	"github.com/warpfork/go-testmark"

	"github.com/shelftools/datashelf/dsapi"
	"github.com/shelftools/datashelf/pkg/tables"
)

func TestValidateTableName_Testmark(t *testing.T) {
	filename := "../../examples/110-table-names/table-names.md"
	t.Logf("file://%s", filename)
	doc, err := testmark.ReadFile(filename)
	qt.Assert(t, err, qt.IsNil)

	for _, hunk := range doc.DataHunks {
		hunk := hunk
		t.Run(hunk.Name, func(t *testing.T) {
			lines := strings.Split(string(hunk.Body), "\n")
			for idx, line := range lines {
				if line == "" {
					continue
				}
				line := line
				tname := fmt.Sprintf(":%d/%s", hunk.LineStart+3+idx, line)
				t.Run(tname, func(t *testing.T) {
					err := tables.ValidateTableName(line)
					if strings.HasPrefix(hunk.Name, "valid/") {
						qt.Assert(t, err, qt.IsNil)
						return
					}
					qt.Assert(t, err, qt.IsNotNil)
				})
			}
		})
	}
}

// These tests should expand on checks in the testmark tests
func TestValidateTableName(t *testing.T) {
	for _, testcase := range []struct {
		name    string // if left empty will use the value name
		value   string
		checker qt.Checker
	}{
		{"", "dog", qt.IsNil},
		{"", "birth_rate", qt.IsNil},
		{"", "_x", qt.IsNil},
		{"", "a1", qt.IsNil},
		{"", "", qt.IsNotNil},
		{"", "2020", qt.IsNotNil},
		{"", "Dog", qt.IsNotNil},
		{"", "birth-rate", qt.IsNotNil},
		{"", "birth rate", qt.IsNotNil},
		{"", "dog.csv", qt.IsNotNil},
		{"", "dog/cat", qt.IsNotNil},
		{"", "..", qt.IsNotNil},
		{"", "dog\n", qt.IsNotNil},
		{"63 chars", strings.Repeat("a", 63), qt.IsNil},
		{"64 chars", strings.Repeat("a", 64), qt.IsNotNil},
	} {
		testcase := testcase
		name := testcase.name
		if name == "" {
			name = fmt.Sprintf("%#v", testcase.value)
		}
		t.Run(name, func(t *testing.T) {
			result := tables.ValidateTableName(testcase.value)
			qt.Assert(t, result, testcase.checker)
		})
	}
}

func TestNewRejectsInvalidName(t *testing.T) {
	rec := buildRecord(t)
	defer rec.Release()
	_, err := tables.New("Not A Name", rec)
	qt.Assert(t, err, qt.IsNotNil)
	qt.Assert(t, serum.Code(err), qt.Equals, dsapi.ECodeTableName)
}

func TestVariableMetadata(t *testing.T) {
	rec := buildRecord(t)
	defer rec.Release()
	tbl, err := tables.New("population", rec)
	qt.Assert(t, err, qt.IsNil)
	defer tbl.Release()

	err = tbl.SetVariable("population", dsapi.VariableMeta{Title: "Population", Unit: "people"})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, tbl.Variable("population").Unit, qt.Equals, "people")

	err = tbl.SetVariable("no_such_column", dsapi.VariableMeta{})
	qt.Assert(t, err, qt.IsNotNil)
	qt.Assert(t, serum.Code(err), qt.Equals, dsapi.ECodeInvalid)
}

func TestTableEqual(t *testing.T) {
	rec := buildRecord(t)
	defer rec.Release()
	a, err := tables.New("dog", rec)
	qt.Assert(t, err, qt.IsNil)
	defer a.Release()
	b, err := tables.New("dog", rec)
	qt.Assert(t, err, qt.IsNil)
	defer b.Release()
	c, err := tables.New("cat", rec)
	qt.Assert(t, err, qt.IsNil)
	defer c.Release()

	qt.Assert(t, a.Equal(b), qt.IsTrue)
	qt.Assert(t, a.Equal(c), qt.IsFalse)
}

// buildRecord makes a small two-column record batch for tests.
func buildRecord(t *testing.T) arrow.Record {
	t.Helper()
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "year", Type: arrow.PrimitiveTypes.Int64},
		{Name: "population", Type: arrow.PrimitiveTypes.Int64},
	}, nil)
	b := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer b.Release()
	b.Field(0).(*array.Int64Builder).AppendValues([]int64{2000, 2010, 2020}, nil)
	b.Field(1).(*array.Int64Builder).AppendValues([]int64{6_144_000, 6_957_000, 7_795_000}, nil)
	return b.NewRecord()
}
