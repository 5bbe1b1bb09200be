package importer

import "errors"

var (
	// ErrUnsupportedFormat means no parser is registered for a (bank, extension) pair.
	ErrUnsupportedFormat = errors.New("unsupported bank or file format")

	// ErrFileNotFound means the statement path does not name a regular file.
	ErrFileNotFound = errors.New("statement file not found")

	// ErrStructureNotRecognized means the mandatory fields could not be
	// located in the statement.
	ErrStructureNotRecognized = errors.New("statement structure not recognized")
)
