package dataset

import (
	"crypto/md5"
	"encoding/hex"
	"io"
	"os"

	"github.com/shelftools/datashelf/dsapi"
	"github.com/shelftools/datashelf/pkg/tables"
)

// checksumChunkSize bounds the memory used when digesting a single file,
// regardless of file size.
const checksumChunkSize = 1 << 20 // 1 MiB

// Checksum returns an MD5 checksum of all data and metadata in the dataset,
// as a lowercase hex string.
//
// The digest is seeded with the raw digest of the index file, then folds in,
// for each data file in sorted filename order, the raw digest of the data
// file followed by the raw digest of its metadata sidecar. The sidecar is
// always read: a table without one fails the whole computation rather than
// being skipped. Two directories with byte-identical contents therefore
// always produce the same checksum, and any single-byte change to any
// constituent file changes it.
//
// The computation is all-or-nothing; there is no partial checksum.
//
// Errors:
//
//    - datashelf-error-io -- when any constituent file cannot be read,
//        including a missing per-table metadata sidecar
func (d *Dataset) Checksum() (string, error) {
	h := md5.New()
	digest, err := checksumFile(d.indexFile())
	if err != nil {
		return "", err
	}
	h.Write(digest)

	files, err := d.dataFiles()
	if err != nil {
		return "", err
	}
	for _, file := range files {
		digest, err := checksumFile(file)
		if err != nil {
			return "", err
		}
		h.Write(digest)

		digest, err = checksumFile(tables.SidecarPath(file))
		if err != nil {
			return "", err
		}
		h.Write(digest)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// checksumFile returns the raw MD5 digest of a file, reading it in fixed
// size chunks.
func checksumFile(path string) ([]byte, error) {
	const situation = "checksumming file"
	f, err := os.Open(path)
	if err != nil {
		return nil, dsapi.ErrorIo(situation, path, err)
	}
	defer f.Close()
	h := md5.New()
	buf := make([]byte, checksumChunkSize)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return nil, dsapi.ErrorIo(situation, path, err)
	}
	return h.Sum(nil), nil
}
