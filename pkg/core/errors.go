package core

import "errors"

// Common errors.
var (
	// ErrMalformedDocument marks a source that is empty, unparseable or not an object.
	ErrMalformedDocument = errors.New("malformed document")
	// ErrDuplicateID marks a document whose derived id is already taken.
	ErrDuplicateID = errors.New("duplicate artifact id")
	// ErrTemplate marks an underscore-prefixed template document.
	ErrTemplate = errors.New("document is a template")
	// ErrCorpusNotFound is fatal: the corpus root does not exist.
	ErrCorpusNotFound = errors.New("artifacts directory not found")
)
