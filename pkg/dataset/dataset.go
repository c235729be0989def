package dataset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shelftools/datashelf/dsapi"
	"github.com/shelftools/datashelf/pkg/tables"
)

// IndexFilename is the well-known name of the metadata index file.
// A directory is a valid dataset iff this file exists directly inside it.
const IndexFilename = "index.json"

// Dataset is a directory full of data tables, with metadata available at
// the index file. It is a stateless handle to the directory plus the
// metadata document cached at open time; there is no close.
//
// Datasets are built for single-writer, synchronous use. Nothing here locks;
// independent processes touching the same directory must be serialized
// externally.
type Dataset struct {
	path string // dataset root directory; the semantic identity of the store.
	meta *dsapi.DatasetMeta
}

// Open returns a handle to the dataset at the given directory.
// The metadata index is loaded eagerly and held in memory until Save.
//
// Errors:
//
//    - datashelf-error-missing -- when the directory has no index file (which
//        also rejects directories that are not datasets at all)
//    - datashelf-error-io -- when reading the index fails
//    - datashelf-error-serialization -- when parsing the index fails
//    - datashelf-error-invalid -- when accessor registration is misconfigured
func Open(path string) (*Dataset, error) {
	if err := Init(); err != nil {
		return nil, err
	}
	path = filepath.Clean(path)
	meta, err := dsapi.LoadDatasetMeta(filepath.Join(path, IndexFilename))
	if err != nil {
		return nil, err
	}
	return &Dataset{path: path, meta: meta}, nil
}

// CreateEmpty makes a fresh, empty dataset at the given directory and
// returns an open handle to it.
//
// If the directory already holds a valid dataset it is destroyed and
// recreated empty: creating over your own dataset is an explicit reset.
// A directory that exists but is NOT a recognized dataset is refused;
// this must never be able to delete arbitrary non-dataset directories.
//
// The parent directory must already exist. A nil meta writes the default
// empty document.
//
// Errors:
//
//    - datashelf-error-conflict -- when the target exists but is not a dataset
//    - datashelf-error-io -- when directory or index manipulation fails
//    - datashelf-error-serialization -- when encoding the index fails
//    - datashelf-error-invalid -- when accessor registration is misconfigured
func CreateEmpty(path string, meta *dsapi.DatasetMeta) (*Dataset, error) {
	if err := Init(); err != nil {
		return nil, err
	}
	path = filepath.Clean(path)
	fi, err := os.Stat(path)
	switch {
	case err == nil && fi.IsDir():
		if _, err := os.Stat(filepath.Join(path, IndexFilename)); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, dsapi.ErrorConflict(path, "directory exists but contains no dataset index")
			}
			return nil, dsapi.ErrorIo("probing for dataset index", path, err)
		}
		if err := os.RemoveAll(path); err != nil {
			return nil, dsapi.ErrorIo("resetting dataset directory", path, err)
		}
	case err == nil:
		return nil, dsapi.ErrorConflict(path, "path exists and is not a directory")
	case !errors.Is(err, fs.ErrNotExist):
		return nil, dsapi.ErrorIo("probing dataset directory", path, err)
	}

	if err := os.Mkdir(path, 0755); err != nil {
		return nil, dsapi.ErrorIo("creating dataset directory", path, err)
	}
	if meta == nil {
		meta = &dsapi.DatasetMeta{}
	}
	if err := meta.Save(filepath.Join(path, IndexFilename)); err != nil {
		return nil, err
	}
	return Open(path)
}

// Path returns the dataset's root directory.
func (d *Dataset) Path() string {
	return d.path
}

// Metadata returns the in-memory metadata document for reading and mutation.
// Mutations become durable only on Save.
func (d *Dataset) Metadata() *dsapi.DatasetMeta {
	return d.meta
}

// Save persists the in-memory metadata document back to the index file,
// overwriting it. Last writer wins; there is no partial-write protection
// beyond what the document codec provides.
//
// Errors:
//
//    - datashelf-error-io -- when writing the index fails
//    - datashelf-error-serialization -- when encoding the index fails
func (d *Dataset) Save() error {
	return d.meta.Save(d.indexFile())
}

// Add saves the table into the dataset's directory in the preferred
// (feather) format, along with its metadata sidecar.
//
// Errors:
//
//    - datashelf-error-io -- when writing fails
//    - datashelf-error-serialization -- when encoding fails
func (d *Dataset) Add(t *tables.Table) error {
	return d.AddAs(t, tables.FormatFeather)
}

// AddAs saves the table into the dataset's directory in the given format,
// along with its metadata sidecar.
//
// AddAs does not check for an existing file of the *other* format under the
// same name: adding a table as feather and as csv leaves two physical files,
// and the feather copy shadows the csv one for Get and Contains until the
// feather file is removed. Existing datasets depend on this; do not "fix" it
// by deleting the sibling.
//
// Errors:
//
//    - datashelf-error-invalid -- when the format is not supported
//    - datashelf-error-io -- when writing fails
//    - datashelf-error-serialization -- when encoding fails
func (d *Dataset) AddAs(t *tables.Table, format tables.Format) error {
	if !tables.ValidFormat(format) {
		return dsapi.ErrorInvalid(fmt.Sprintf("format %q is not supported", format),
			[2]string{"format", string(format)})
	}
	return tables.Write(t, d.path, format)
}

// Get loads the named table from the dataset.
// Formats are probed in search order (feather before csv) and the first hit
// is decoded; see AddAs for the shadowing consequences.
//
// Errors:
//
//    - datashelf-error-missing -- when no data file exists for the name
//    - datashelf-error-io -- when reading fails
//    - datashelf-error-serialization -- when decoding fails
//    - datashelf-error-table-name -- when a data file carries an invalid name
func (d *Dataset) Get(name string) (*tables.Table, error) {
	for _, format := range tables.SearchOrder {
		path := filepath.Join(d.path, tables.DataFilename(name, format))
		if _, err := os.Stat(path); err == nil {
			return tables.Read(path, format)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, dsapi.ErrorIo("probing for table data", path, err)
		}
	}
	return nil, dsapi.ErrorMissing("table "+name, d.path)
}

// Contains reports whether the dataset holds a table under the given name
// in any format. It is a pure existence probe in the same search order as
// Get; no file contents are read and no directory scan happens.
func (d *Dataset) Contains(name string) bool {
	for _, format := range tables.SearchOrder {
		if _, err := os.Stat(filepath.Join(d.path, tables.DataFilename(name, format))); err == nil {
			return true
		}
	}
	return false
}

// Len returns the number of data files in the dataset (both formats),
// without decoding any of them.
//
// Errors:
//
//    - datashelf-error-io -- when listing the directory fails
func (d *Dataset) Len() (int, error) {
	files, err := d.dataFiles()
	if err != nil {
		return 0, err
	}
	return len(files), nil
}

// Iter returns an iterator over the dataset's tables in lexicographic
// filename order. Decoding happens lazily, one table per Next call; the
// index file and sidecars are not part of the sequence. Call Iter again for
// a fresh pass.
//
// Errors:
//
//    - datashelf-error-io -- when listing the directory fails
func (d *Dataset) Iter() (*Iterator, error) {
	files, err := d.dataFiles()
	if err != nil {
		return nil, err
	}
	return &Iterator{files: files}, nil
}

// Iterator walks the tables of a dataset in sorted filename order.
type Iterator struct {
	files []string
	idx   int
}

// Next decodes and returns the next table, or (nil, nil) when the sequence
// is exhausted. Each data file is decoded according to its own extension.
//
// Errors:
//
//    - datashelf-error-io -- when reading a data file fails
//    - datashelf-error-serialization -- when decoding a data file fails
//    - datashelf-error-table-name -- when a data file carries an invalid name
func (it *Iterator) Next() (*tables.Table, error) {
	if it.idx >= len(it.files) {
		return nil, nil
	}
	path := it.files[it.idx]
	it.idx++
	format := tables.Format(strings.TrimPrefix(filepath.Ext(path), "."))
	return tables.Read(path, format)
}

// Names returns the table names present in the dataset, sorted, without
// decoding anything. A name stored in both formats appears once.
//
// Errors:
//
//    - datashelf-error-io -- when listing the directory fails
func (d *Dataset) Names() ([]string, error) {
	files, err := d.dataFiles()
	if err != nil {
		return nil, err
	}
	seen := map[string]struct{}{}
	var names []string
	for _, file := range files {
		base := filepath.Base(file)
		name := strings.TrimSuffix(base, filepath.Ext(base))
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (d *Dataset) indexFile() string {
	return filepath.Join(d.path, IndexFilename)
}

// dataFiles lists the dataset's data files (both formats) sorted
// lexicographically by filename. Sorting matters: filesystem enumeration
// order is unspecified, and both iteration and checksumming promise an
// order that is a pure function of directory contents.
func (d *Dataset) dataFiles() ([]string, error) {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return nil, dsapi.ErrorIo("listing dataset directory", d.path, err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := tables.Format(strings.TrimPrefix(filepath.Ext(entry.Name()), "."))
		if tables.ValidFormat(ext) {
			files = append(files, filepath.Join(d.path, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
