package tables_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/array"
	qt "github.com/frankban/quicktest"
	"github.com/serum-errors/go-serum"

	"github.com/shelftools/datashelf/dsapi"
	"github.com/shelftools/datashelf/pkg/tables"
	"github.com/shelftools/datashelf/pkg/testutil"
)

func TestSidecarPath(t *testing.T) {
	for _, tt := range []struct {
		dataPath string
		expect   string
	}{
		{"dog.feather", "dog.meta.json"},
		{"dog.csv", "dog.meta.json"},
		{"/data/owid/dog.feather", "/data/owid/dog.meta.json"},
	} {
		qt.Assert(t, tables.SidecarPath(tt.dataPath), qt.Equals, tt.expect)
	}
}

func TestFeatherRoundTrip(t *testing.T) {
	dir := testutil.TempDir(t)
	rec := buildRecord(t)
	defer rec.Release()
	tbl, err := tables.New("population", rec)
	qt.Assert(t, err, qt.IsNil)
	defer tbl.Release()
	err = tbl.SetVariable("population", dsapi.VariableMeta{Title: "Population", Unit: "people"})
	qt.Assert(t, err, qt.IsNil)

	err = tables.Write(tbl, dir, tables.FormatFeather)
	qt.Assert(t, err, qt.IsNil)

	// Both the data file and the sidecar must exist.
	_, err = os.Stat(filepath.Join(dir, "population.feather"))
	qt.Assert(t, err, qt.IsNil)
	_, err = os.Stat(filepath.Join(dir, "population.meta.json"))
	qt.Assert(t, err, qt.IsNil)

	got, err := tables.Read(filepath.Join(dir, "population.feather"), tables.FormatFeather)
	qt.Assert(t, err, qt.IsNil)
	defer got.Release()

	qt.Assert(t, got.Name(), qt.Equals, "population")
	qt.Assert(t, got.Equal(tbl), qt.IsTrue)
	qt.Assert(t, got.Variable("population").Unit, qt.Equals, "people")
}

func TestCSVRoundTrip(t *testing.T) {
	dir := testutil.TempDir(t)
	rec := buildRecord(t)
	defer rec.Release()
	tbl, err := tables.New("population", rec)
	qt.Assert(t, err, qt.IsNil)
	defer tbl.Release()

	err = tables.Write(tbl, dir, tables.FormatCSV)
	qt.Assert(t, err, qt.IsNil)

	got, err := tables.Read(filepath.Join(dir, "population.csv"), tables.FormatCSV)
	qt.Assert(t, err, qt.IsNil)
	defer got.Release()

	// csv loses the exact schema (the reader re-infers types), so compare
	// shape and values rather than full record equality.
	qt.Assert(t, got.NumRows(), qt.Equals, int64(3))
	qt.Assert(t, got.NumCols(), qt.Equals, int64(2))
	qt.Assert(t, got.Record().ColumnName(0), qt.Equals, "year")
	qt.Assert(t, got.Record().ColumnName(1), qt.Equals, "population")
	years := got.Record().Column(0).(*array.Int64)
	qt.Assert(t, years.Value(0), qt.Equals, int64(2000))
	qt.Assert(t, years.Value(2), qt.Equals, int64(2020))
}

func TestReadWithoutSidecar(t *testing.T) {
	dir := testutil.TempDir(t)
	rec := buildRecord(t)
	defer rec.Release()
	tbl, err := tables.New("dog", rec)
	qt.Assert(t, err, qt.IsNil)
	defer tbl.Release()

	err = tables.Write(tbl, dir, tables.FormatFeather)
	qt.Assert(t, err, qt.IsNil)
	err = os.Remove(filepath.Join(dir, "dog.meta.json"))
	qt.Assert(t, err, qt.IsNil)

	// Reads stay tolerant of a missing sidecar; only checksumming is strict.
	got, err := tables.Read(filepath.Join(dir, "dog.feather"), tables.FormatFeather)
	qt.Assert(t, err, qt.IsNil)
	defer got.Release()
	qt.Assert(t, got.Meta().ShortName, qt.Equals, "dog")
}

func TestReadMissingFile(t *testing.T) {
	dir := testutil.TempDir(t)
	_, err := tables.Read(filepath.Join(dir, "nope.feather"), tables.FormatFeather)
	qt.Assert(t, err, qt.IsNotNil)
	qt.Assert(t, serum.Code(err), qt.Equals, dsapi.ECodeMissing)
}

func TestWriteRejectsUnknownFormat(t *testing.T) {
	dir := testutil.TempDir(t)
	rec := buildRecord(t)
	defer rec.Release()
	tbl, err := tables.New("dog", rec)
	qt.Assert(t, err, qt.IsNil)
	defer tbl.Release()

	err = tables.Write(tbl, dir, tables.Format("parquet"))
	qt.Assert(t, err, qt.IsNotNil)
	qt.Assert(t, serum.Code(err), qt.Equals, dsapi.ECodeInvalid)
}
