package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrDocumentNotFound signals a missing document.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrInvalidArgument signals input rejected before any store call.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidFilter signals a filter incompatible with the store's query language.
	ErrInvalidFilter = errors.New("invalid filter")
)
