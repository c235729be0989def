package tables

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/csv"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/serum-errors/go-serum"

	"github.com/shelftools/datashelf/dsapi"
)

// Format selects the on-disk encoding of a table's data file.
type Format string

const (
	// FormatFeather is the arrow IPC file encoding, and the preferred format.
	FormatFeather Format = "feather"
	// FormatCSV is the row-oriented fallback encoding.
	FormatCSV Format = "csv"

	// SidecarSuffix is the suffix of the per-table metadata file that shares
	// the data file's base name.
	SidecarSuffix = ".meta.json"
)

// SearchOrder is the order in which lookups probe formats.
// Feather comes first: when both files exist for one name, the feather copy
// wins and the csv copy is invisible until the feather file is removed.
// Consumers depend on this order; keep it explicit.
var SearchOrder = []Format{FormatFeather, FormatCSV}

// ValidFormat reports whether f is one of the supported storage formats.
func ValidFormat(f Format) bool {
	switch f {
	case FormatFeather, FormatCSV:
		return true
	}
	return false
}

// DataFilename returns the file name a table's data file has in format f.
func DataFilename(name string, f Format) string {
	return name + "." + string(f)
}

// SidecarPath returns the path of the metadata sidecar belonging to a data
// file: same base name, SidecarSuffix instead of the format extension.
func SidecarPath(dataPath string) string {
	return strings.TrimSuffix(dataPath, filepath.Ext(dataPath)) + SidecarSuffix
}

// Write saves the table's data file into dir in the given format, and its
// metadata sidecar next to it.
//
// Errors:
//
//    - datashelf-error-invalid -- when the format is not supported
//    - datashelf-error-io -- when writing either file fails
//    - datashelf-error-serialization -- when encoding fails
func Write(t *Table, dir string, f Format) error {
	if !ValidFormat(f) {
		return dsapi.ErrorInvalid(fmt.Sprintf("format %q is not supported", f),
			[2]string{"format", string(f)})
	}
	dataPath := filepath.Join(dir, DataFilename(t.Name(), f))
	var err error
	switch f {
	case FormatFeather:
		err = writeFeather(t.rec, dataPath)
	case FormatCSV:
		err = writeCSV(t.rec, dataPath)
	}
	if err != nil {
		return err
	}
	return t.meta.Save(SidecarPath(dataPath))
}

// Read loads a table from a data file in the given format.
// The sidecar is loaded when present; a table read from a bare data file
// gets a default metadata document. (Strictness about missing sidecars
// belongs to dataset checksumming, not to reads.)
//
// Errors:
//
//    - datashelf-error-missing -- when no data file exists at the path
//    - datashelf-error-invalid -- when the format is not supported
//    - datashelf-error-io -- when reading fails
//    - datashelf-error-serialization -- when decoding fails
func Read(path string, f Format) (*Table, error) {
	rec, err := ReadRecord(path, f)
	if err != nil {
		return nil, err
	}
	defer rec.Release()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	t, err := New(name, rec)
	if err != nil {
		return nil, err
	}
	meta, err := dsapi.LoadTableMeta(SidecarPath(path))
	switch {
	case err == nil:
		t.meta = *meta
	case serum.Code(err) == dsapi.ECodeMissing:
		// no sidecar; keep the default document.
	default:
		t.Release()
		return nil, err
	}
	return t, nil
}

// ReadRecord decodes just a data file into a record batch, with no sidecar
// handling and no table naming. Most callers want Read; this is for callers
// bringing their own name, like csv import.
//
// Errors:
//
//    - datashelf-error-missing -- when no data file exists at the path
//    - datashelf-error-invalid -- when the format is not supported
//    - datashelf-error-io -- when reading fails
//    - datashelf-error-serialization -- when decoding fails
func ReadRecord(path string, f Format) (arrow.Record, error) {
	switch f {
	case FormatFeather:
		return readFeather(path)
	case FormatCSV:
		return readCSV(path)
	}
	return nil, dsapi.ErrorInvalid(fmt.Sprintf("format %q is not supported", f),
		[2]string{"format", string(f)})
}

func writeFeather(rec arrow.Record, path string) error {
	const situation = "writing feather data"
	f, err := os.Create(path)
	if err != nil {
		return dsapi.ErrorIo(situation, path, err)
	}
	defer f.Close()
	w, err := ipc.NewFileWriter(f, ipc.WithSchema(rec.Schema()), ipc.WithAllocator(memory.DefaultAllocator))
	if err != nil {
		return dsapi.ErrorSerialization(situation, err)
	}
	if err := w.Write(rec); err != nil {
		w.Close()
		return dsapi.ErrorSerialization(situation, err)
	}
	if err := w.Close(); err != nil {
		return dsapi.ErrorSerialization(situation, err)
	}
	if err := f.Close(); err != nil {
		return dsapi.ErrorIo(situation, path, err)
	}
	return nil
}

func readFeather(path string) (arrow.Record, error) {
	const situation = "reading feather data"
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, dsapi.ErrorMissing("table data file", path)
		}
		return nil, dsapi.ErrorIo(situation, path, err)
	}
	defer f.Close()
	r, err := ipc.NewFileReader(f, ipc.WithAllocator(memory.DefaultAllocator))
	if err != nil {
		return nil, dsapi.ErrorSerialization(situation, err)
	}
	defer r.Close()
	var recs []arrow.Record
	defer func() {
		for _, rec := range recs {
			rec.Release()
		}
	}()
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, dsapi.ErrorSerialization(situation, err)
		}
		rec.Retain()
		recs = append(recs, rec)
	}
	if len(recs) == 0 {
		return nil, dsapi.ErrorSerialization(situation, errors.New("file contains no record batches"))
	}
	if len(recs) == 1 {
		recs[0].Retain()
		return recs[0], nil
	}
	return mergeRecords(r.Schema(), recs)
}

// mergeRecords flattens a multi-batch file into a single record,
// so that a Table is always one batch regardless of how it was written.
func mergeRecords(schema *arrow.Schema, recs []arrow.Record) (arrow.Record, error) {
	mem := memory.DefaultAllocator
	nrows := int64(0)
	for _, rec := range recs {
		nrows += rec.NumRows()
	}
	cols := make([]arrow.Array, len(schema.Fields()))
	defer func() {
		for _, col := range cols {
			if col != nil {
				col.Release()
			}
		}
	}()
	for i := range cols {
		parts := make([]arrow.Array, len(recs))
		for j, rec := range recs {
			parts[j] = rec.Column(i)
		}
		col, err := array.Concatenate(parts, mem)
		if err != nil {
			return nil, dsapi.ErrorSerialization("merging record batches", err)
		}
		cols[i] = col
	}
	return array.NewRecord(schema, cols, nrows), nil
}

func writeCSV(rec arrow.Record, path string) error {
	const situation = "writing csv data"
	f, err := os.Create(path)
	if err != nil {
		return dsapi.ErrorIo(situation, path, err)
	}
	defer f.Close()
	w := csv.NewWriter(f, rec.Schema(), csv.WithHeader(true))
	if err := w.Write(rec); err != nil {
		return dsapi.ErrorSerialization(situation, err)
	}
	if err := w.Flush(); err != nil {
		return dsapi.ErrorSerialization(situation, err)
	}
	if err := f.Close(); err != nil {
		return dsapi.ErrorIo(situation, path, err)
	}
	return nil
}

func readCSV(path string) (arrow.Record, error) {
	const situation = "reading csv data"
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, dsapi.ErrorMissing("table data file", path)
		}
		return nil, dsapi.ErrorIo(situation, path, err)
	}
	defer f.Close()
	r := csv.NewInferringReader(f,
		csv.WithHeader(true),
		csv.WithChunk(-1), // one record batch for the whole file
		csv.WithAllocator(memory.DefaultAllocator),
	)
	defer r.Release()
	if !r.Next() {
		if err := r.Err(); err != nil {
			return nil, dsapi.ErrorSerialization(situation, err)
		}
		return nil, dsapi.ErrorSerialization(situation, errors.New("file contains no rows"))
	}
	rec := r.Record()
	rec.Retain()
	return rec, nil
}
