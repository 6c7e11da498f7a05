package config

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

const importsKey = "imports"

// Document is a parsed, import-resolved configuration: the typed Config
// view plus the generic table it was built from, so a Store can
// re-project SetByPath edits without reparsing from disk.
type Document struct {
	Config Config
	table  table
}

// LoadWithImports reads the TOML document at mainPath, resolves every
// `@<relative-path>` entry in its top-level `imports` array relative to
// the document's own directory (missing .toml suffixes are defaulted),
// deep-merges the imports in order and the main document on top of them,
// and decodes the result into a typed Config.
//
// A missing mainPath is not an error: it yields the default Config, the
// same fallback config.toml's absence gets at first run.
func LoadWithImports(mainPath string) (*Document, error) {
	t, err := loadDocument(mainPath, map[string]bool{})
	if err != nil {
		return nil, err
	}
	if t == nil {
		def, err := toGeneric(Default())
		if err != nil {
			return nil, err
		}
		return &Document{Config: Default(), table: def}, nil
	}
	cfg, err := fromGeneric(t)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", mainPath, err)
	}
	return &Document{Config: cfg, table: t}, nil
}

// loadDocument resolves path and its transitive imports, returning the
// fully merged generic table, or nil if path does not exist.
func loadDocument(path string, inProgress map[string]bool) (table, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	if inProgress[abs] {
		return nil, fmt.Errorf("%w: %s", ErrImportCycle, abs)
	}

	data, err := os.ReadFile(abs)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", abs, err)
	}

	var doc table
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", abs, err)
	}

	inProgress[abs] = true
	defer delete(inProgress, abs)

	dir := filepath.Dir(abs)
	merged := table{}
	for _, importRef := range importPaths(doc) {
		importPath := resolveImportPath(dir, importRef)
		imported, err := loadDocument(importPath, inProgress)
		if err != nil {
			return nil, err
		}
		if imported != nil {
			merged = deepMerge(merged, imported)
		}
	}

	return deepMerge(merged, doc), nil
}

// importPaths extracts the `@`-prefixed entries of the top-level
// imports array, ignoring anything malformed rather than failing the
// whole load.
func importPaths(doc table) []string {
	raw, ok := doc[importsKey]
	if !ok {
		return nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range list {
		s, ok := item.(string)
		if !ok || len(s) == 0 || s[0] != '@' {
			continue
		}
		out = append(out, s[1:])
	}
	return out
}

func resolveImportPath(dir, ref string) string {
	if filepath.Ext(ref) == "" {
		ref += ".toml"
	}
	return filepath.Join(dir, ref)
}

// ensureImport appends `@name` to the document's top-level imports
// array if it is not already present, and returns the updated table.
// Duplicates already in the array are left as they are.
func ensureImport(doc table, name string) table {
	entry := "@" + name
	existing := importPaths(doc)
	for _, e := range existing {
		if e == name {
			return doc
		}
	}
	raw, _ := doc[importsKey].([]any)
	doc[importsKey] = append(raw, entry)
	return doc
}
