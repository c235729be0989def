package dsapi

import (
	"errors"
	"io/fs"
	"os"
	"reflect"

	"github.com/ipld/go-ipld-prime"
	"github.com/ipld/go-ipld-prime/codec/json"
	"github.com/ipld/go-ipld-prime/schema"
)

func init() {
	TypeSystem.Accumulate(schema.SpawnStruct("DatasetMeta",
		[]schema.StructField{
			schema.SpawnStructField("namespace", "String", false, false),
			schema.SpawnStructField("shortName", "String", false, false),
			schema.SpawnStructField("title", "String", false, false),
			schema.SpawnStructField("description", "String", false, false),
			schema.SpawnStructField("version", "String", false, false),
			schema.SpawnStructField("sources", "List__Source", false, false),
			schema.SpawnStructField("licenses", "List__License", false, false),
			schema.SpawnStructField("sourceChecksum", "String", true, false),
		},
		schema.SpawnStructRepresentationMap(nil)))
	TypeSystem.Accumulate(schema.SpawnStruct("Source",
		[]schema.StructField{
			schema.SpawnStructField("name", "String", false, false),
			schema.SpawnStructField("description", "String", false, false),
			schema.SpawnStructField("url", "String", false, false),
		},
		schema.SpawnStructRepresentationMap(nil)))
	TypeSystem.Accumulate(schema.SpawnStruct("License",
		[]schema.StructField{
			schema.SpawnStructField("name", "String", false, false),
			schema.SpawnStructField("url", "String", false, false),
		},
		schema.SpawnStructRepresentationMap(nil)))
	TypeSystem.Accumulate(schema.SpawnList("List__Source", "Source", false))
	TypeSystem.Accumulate(schema.SpawnList("List__License", "License", false))

	TypeSystem.Accumulate(schema.SpawnStruct("TableMeta",
		[]schema.StructField{
			schema.SpawnStructField("shortName", "String", false, false),
			schema.SpawnStructField("title", "String", false, false),
			schema.SpawnStructField("description", "String", false, false),
			schema.SpawnStructField("primaryKey", "List__String", false, false),
			schema.SpawnStructField("variables", "Map__String__VariableMeta", false, false),
		},
		schema.SpawnStructRepresentationMap(nil)))
	TypeSystem.Accumulate(schema.SpawnStruct("VariableMeta",
		[]schema.StructField{
			schema.SpawnStructField("title", "String", false, false),
			schema.SpawnStructField("description", "String", false, false),
			schema.SpawnStructField("unit", "String", false, false),
			schema.SpawnStructField("shortUnit", "String", false, false),
			schema.SpawnStructField("displayName", "String", false, false),
		},
		schema.SpawnStructRepresentationMap(nil)))
	TypeSystem.Accumulate(schema.SpawnList("List__String", "String", false))
	TypeSystem.Accumulate(schema.SpawnMap("Map__String__VariableMeta",
		"String", "VariableMeta", false))
}

// DatasetMeta is the metadata document describing a whole dataset.
// It is stored at the dataset's index file and owned exclusively by the
// Dataset handle while the dataset is open.
//
// The zero value is the well-defined empty document; a freshly created
// dataset persists exactly that.
type DatasetMeta struct {
	Namespace      string
	ShortName      string
	Title          string
	Description    string
	Version        string
	Sources        []Source
	Licenses       []License
	SourceChecksum *string
}

// Source describes where the data in a dataset came from.
type Source struct {
	Name        string
	Description string
	Url         string
}

// License describes the terms the data is distributed under.
type License struct {
	Name string
	Url  string
}

// TableMeta is the per-table metadata document, stored in the table's
// sidecar file next to its data file.
type TableMeta struct {
	ShortName   string
	Title       string
	Description string
	PrimaryKey  []string
	Variables   struct {
		Keys   []string
		Values map[string]VariableMeta
	}
}

// VariableMeta carries metadata for a single column of a table.
type VariableMeta struct {
	Title       string
	Description string
	Unit        string
	ShortUnit   string
	DisplayName string
}

// Equal reports whether two dataset metadata documents hold the same values.
func (m *DatasetMeta) Equal(other *DatasetMeta) bool {
	return reflect.DeepEqual(m, other)
}

// LoadDatasetMeta reads and parses a dataset metadata document from a file.
//
// Errors:
//
//    - datashelf-error-missing -- when no document exists at the path
//    - datashelf-error-io -- when reading the document fails
//    - datashelf-error-serialization -- when parsing the document fails
func LoadDatasetMeta(path string) (*DatasetMeta, error) {
	const situation = "loading dataset metadata"
	bs, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrorMissing("dataset index", path)
		}
		return nil, ErrorIo(situation, path, err)
	}
	meta := DatasetMeta{}
	if _, err := ipld.Unmarshal(bs, json.Decode, &meta, TypeSystem.TypeByName("DatasetMeta")); err != nil {
		return nil, ErrorSerialization(situation, err)
	}
	return &meta, nil
}

// Save persists the document to a file, overwriting any previous content.
//
// Errors:
//
//    - datashelf-error-io -- when writing the document fails
//    - datashelf-error-serialization -- when encoding the document fails
func (m *DatasetMeta) Save(path string) error {
	const situation = "saving dataset metadata"
	bs, err := ipld.Marshal(json.Encode, m, TypeSystem.TypeByName("DatasetMeta"))
	if err != nil {
		return ErrorSerialization(situation, err)
	}
	if err := os.WriteFile(path, bs, 0644); err != nil {
		return ErrorIo(situation, path, err)
	}
	return nil
}

// LoadTableMeta reads and parses a table metadata sidecar document.
//
// Errors:
//
//    - datashelf-error-missing -- when no document exists at the path
//    - datashelf-error-io -- when reading the document fails
//    - datashelf-error-serialization -- when parsing the document fails
func LoadTableMeta(path string) (*TableMeta, error) {
	const situation = "loading table metadata"
	bs, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrorMissing("table metadata sidecar", path)
		}
		return nil, ErrorIo(situation, path, err)
	}
	meta := TableMeta{}
	if _, err := ipld.Unmarshal(bs, json.Decode, &meta, TypeSystem.TypeByName("TableMeta")); err != nil {
		return nil, ErrorSerialization(situation, err)
	}
	return &meta, nil
}

// Save persists the sidecar document to a file, overwriting any previous content.
//
// Errors:
//
//    - datashelf-error-io -- when writing the document fails
//    - datashelf-error-serialization -- when encoding the document fails
func (m *TableMeta) Save(path string) error {
	const situation = "saving table metadata"
	bs, err := ipld.Marshal(json.Encode, m, TypeSystem.TypeByName("TableMeta"))
	if err != nil {
		return ErrorSerialization(situation, err)
	}
	if err := os.WriteFile(path, bs, 0644); err != nil {
		return ErrorIo(situation, path, err)
	}
	return nil
}

// SetVariable records metadata for the named column, preserving insertion
// order of the keys the way the serial form does.
func (m *TableMeta) SetVariable(name string, v VariableMeta) {
	if m.Variables.Values == nil {
		m.Variables.Values = map[string]VariableMeta{}
	}
	if _, exists := m.Variables.Values[name]; !exists {
		m.Variables.Keys = append(m.Variables.Keys, name)
	}
	m.Variables.Values[name] = v
}
