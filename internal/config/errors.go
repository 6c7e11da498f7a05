package config

import "errors"

var (
	// ErrImportCycle is returned by LoadWithImports when a document's
	// imports array forms a cycle back to a document already being
	// loaded.
	ErrImportCycle = errors.New("config: import cycle detected")

	// ErrInvalidPath is returned by GetByPath and the underlying table
	// navigation helpers when a dot-path does not resolve to a value.
	ErrInvalidPath = errors.New("config: invalid path")

	// ErrInvalidPattern is returned by Subscribe when a glob pattern is
	// malformed (currently: empty).
	ErrInvalidPattern = errors.New("config: invalid pattern")
)
