package dataset

import (
	"reflect"
	"sync"

	"github.com/ipld/go-ipld-prime/schema"
	"github.com/serum-errors/go-serum"

	"github.com/shelftools/datashelf/dsapi"
)

// Every field of the metadata document is exposed directly on the Dataset
// through the typed accessors below, so callers can read and write metadata
// without reaching through Metadata(). The registration table maps each
// schema field to its accessor pair; Init checks the table against both the
// schema and the Dataset method set, so a field whose accessor would shadow
// a store built-in is a fatal configuration error at startup, not a silent
// call-time surprise.
var metaAccessors = map[string][2]string{
	"namespace":      {"Namespace", "SetNamespace"},
	"shortName":      {"ShortName", "SetShortName"},
	"title":          {"Title", "SetTitle"},
	"description":    {"Description", "SetDescription"},
	"version":        {"Version", "SetVersion"},
	"sources":        {"Sources", "SetSources"},
	"licenses":       {"Licenses", "SetLicenses"},
	"sourceChecksum": {"SourceChecksum", "SetSourceChecksum"},
}

var (
	initOnce sync.Once
	initErr  error
)

// Init validates the metadata accessor registration once per process.
// It is idempotent and called implicitly by Open and CreateEmpty, so library
// users cannot skip it; commands may call it up front to fail early.
//
// Errors:
//
//    - datashelf-error-invalid -- when a metadata field has no registered
//        accessor, or its accessor name collides with a Dataset built-in
func Init() error {
	initOnce.Do(func() {
		initErr = checkAccessorCollisions()
	})
	return initErr
}

func checkAccessorCollisions() error {
	accessorNames := map[string]struct{}{}
	for _, pair := range metaAccessors {
		accessorNames[pair[0]] = struct{}{}
		accessorNames[pair[1]] = struct{}{}
	}

	// Reserved names are every exported method of Dataset that is not itself
	// a registered accessor.
	reserved := map[string]struct{}{}
	t := reflect.TypeOf((*Dataset)(nil))
	for i := 0; i < t.NumMethod(); i++ {
		name := t.Method(i).Name
		if _, isAccessor := accessorNames[name]; isAccessor {
			continue
		}
		reserved[name] = struct{}{}
	}

	typ, ok := dsapi.TypeSystem.TypeByName("DatasetMeta").(*schema.TypeStruct)
	if !ok {
		return serum.Errorf(dsapi.ECodeInvalid, "metadata schema does not define a DatasetMeta struct")
	}
	for _, field := range typ.Fields() {
		pair, ok := metaAccessors[field.Name()]
		if !ok {
			return serum.Errorf(dsapi.ECodeInvalid,
				"metadata field %q has no registered accessor on Dataset", field.Name())
		}
		for _, name := range pair {
			if _, clash := reserved[name]; clash {
				return serum.Errorf(dsapi.ECodeInvalid,
					"metadata field %q would overwrite a Dataset built-in: %s", field.Name(), name)
			}
		}
	}
	return nil
}

// Namespace returns the metadata namespace field.
func (d *Dataset) Namespace() string { return d.meta.Namespace }

// SetNamespace sets the metadata namespace field.
func (d *Dataset) SetNamespace(v string) { d.meta.Namespace = v }

// ShortName returns the metadata shortName field.
func (d *Dataset) ShortName() string { return d.meta.ShortName }

// SetShortName sets the metadata shortName field.
func (d *Dataset) SetShortName(v string) { d.meta.ShortName = v }

// Title returns the metadata title field.
func (d *Dataset) Title() string { return d.meta.Title }

// SetTitle sets the metadata title field.
func (d *Dataset) SetTitle(v string) { d.meta.Title = v }

// Description returns the metadata description field.
func (d *Dataset) Description() string { return d.meta.Description }

// SetDescription sets the metadata description field.
func (d *Dataset) SetDescription(v string) { d.meta.Description = v }

// Version returns the metadata version field.
func (d *Dataset) Version() string { return d.meta.Version }

// SetVersion sets the metadata version field.
func (d *Dataset) SetVersion(v string) { d.meta.Version = v }

// Sources returns the metadata sources field.
func (d *Dataset) Sources() []dsapi.Source { return d.meta.Sources }

// SetSources sets the metadata sources field.
func (d *Dataset) SetSources(v []dsapi.Source) { d.meta.Sources = v }

// Licenses returns the metadata licenses field.
func (d *Dataset) Licenses() []dsapi.License { return d.meta.Licenses }

// SetLicenses sets the metadata licenses field.
func (d *Dataset) SetLicenses(v []dsapi.License) { d.meta.Licenses = v }

// SourceChecksum returns the metadata sourceChecksum field, or the empty
// string when unset.
func (d *Dataset) SourceChecksum() string {
	if d.meta.SourceChecksum == nil {
		return ""
	}
	return *d.meta.SourceChecksum
}

// SetSourceChecksum sets the metadata sourceChecksum field.
func (d *Dataset) SetSourceChecksum(v string) { d.meta.SourceChecksum = &v }
