package types

import "errors"

// Backend lifecycle errors.
var (
	ErrDetached        = errors.New("backend is detached")
	ErrAlreadyAttached = errors.New("backend is already attached")
)

// Lookup errors returned by collaborators resolving user references.
var (
	ErrNotFound  = errors.New("entity not found")
	ErrAmbiguous = errors.New("reference matches more than one entity")
)
