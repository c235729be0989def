package dsapi_test

import (
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/serum-errors/go-serum"

	"github.com/shelftools/datashelf/dsapi"
)

func TestDatasetMetaDefaultRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	empty := dsapi.DatasetMeta{}
	err := empty.Save(path)
	qt.Assert(t, err, qt.IsNil)

	loaded, err := dsapi.LoadDatasetMeta(path)
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, loaded.Title, qt.Equals, "")
	qt.Assert(t, loaded.SourceChecksum, qt.IsNil)

	// A loaded document saved again must reload equal to itself.
	err = loaded.Save(path)
	qt.Assert(t, err, qt.IsNil)
	again, err := dsapi.LoadDatasetMeta(path)
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, again.Equal(loaded), qt.IsTrue)
}

func TestLoadDatasetMetaMissing(t *testing.T) {
	_, err := dsapi.LoadDatasetMeta(filepath.Join(t.TempDir(), "index.json"))
	qt.Assert(t, err, qt.IsNotNil)
	qt.Assert(t, serum.Code(err), qt.Equals, dsapi.ECodeMissing)
}

func TestTableMetaVariableOrder(t *testing.T) {
	meta := dsapi.TableMeta{ShortName: "population"}
	meta.SetVariable("year", dsapi.VariableMeta{Title: "Year"})
	meta.SetVariable("population", dsapi.VariableMeta{Title: "Population", Unit: "people"})
	meta.SetVariable("year", dsapi.VariableMeta{Title: "Calendar year"})

	// Re-setting a key updates in place without duplicating it.
	qt.Assert(t, meta.Variables.Keys, qt.DeepEquals, []string{"year", "population"})
	qt.Assert(t, meta.Variables.Values["year"].Title, qt.Equals, "Calendar year")

	path := filepath.Join(t.TempDir(), "population.meta.json")
	err := meta.Save(path)
	qt.Assert(t, err, qt.IsNil)
	loaded, err := dsapi.LoadTableMeta(path)
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, loaded.Variables.Keys, qt.DeepEquals, []string{"year", "population"})
	qt.Assert(t, loaded.Variables.Values["population"].Unit, qt.Equals, "people")
}
