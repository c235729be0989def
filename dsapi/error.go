package dsapi

import (
	"github.com/serum-errors/go-serum"
)

const (
	ECodeMissing       = "datashelf-error-missing"
	ECodeConflict      = "datashelf-error-conflict"
	ECodeInvalid       = "datashelf-error-invalid"
	ECodeTableName     = "datashelf-error-table-name"
	ECodeIo            = "datashelf-error-io"
	ECodeSerialization = "datashelf-error-serialization"
)

// ErrorMissing is used when an expected file or table does not exist.
//
// Errors:
//
//    - datashelf-error-missing --
func ErrorMissing(what string, path string) error {
	return serum.Error(ECodeMissing,
		serum.WithMessageTemplate("{{what}} not found at path: {{path|q}}"),
		serum.WithDetail("what", what),
		serum.WithDetail("path", path),
	)
}

// ErrorConflict is returned when an operation refuses to touch a directory
// it does not recognize as a dataset.
//
// Errors:
//
//    - datashelf-error-conflict --
func ErrorConflict(path string, reason string) error {
	return serum.Error(ECodeConflict,
		serum.WithMessageTemplate("refusing to overwrite {{path|q}}: {{reason}}"),
		serum.WithDetail("path", path),
		serum.WithDetail("reason", reason),
	)
}

// ErrorInvalid is returned when something is invalid.
// The caller must format the message string.
//
// Errors:
//
//    - datashelf-error-invalid --
func ErrorInvalid(message string, deets ...[2]string) error {
	opts := make([]serum.WithConstruction, 0, len(deets)+1)
	for _, d := range deets {
		opts = append(opts, serum.WithDetail(d[0], d[1]))
	}
	opts = append(opts, serum.WithMessageLiteral(message))
	return serum.Error(ECodeInvalid, opts...)
}

// ErrorIo wraps generic I/O errors from the Go stdlib.
//
// Errors:
//
//    - datashelf-error-io --
func ErrorIo(context string, path string, cause error) error {
	result := serum.Errorf(ECodeIo, "io error: %s: %w", context, cause)
	addDetails(result, [][2]string{{"context", context}, {"path", path}})
	return result
}

// ErrorSerialization is returned when encoding or decoding a document fails.
//
// Errors:
//
//    - datashelf-error-serialization --
func ErrorSerialization(context string, cause error) error {
	result := serum.Errorf(ECodeSerialization,
		"serialization error: %s: %w", context, cause)
	addDetails(result, [][2]string{
		{"context", context},
	})
	return result
}

// addDetails is a helper method to get around the fact that doing a type coercion within
// an exported function is not currently allowed by serum.
// We won't need this if serum supports an equivalent to %w in message templates OR
// supports adding details when using serum.Errorf
func addDetails(err error, details [][2]string) {
	s := err.(*serum.ErrorValue)
	s.Data.Details = append(s.Data.Details, details...)
}
