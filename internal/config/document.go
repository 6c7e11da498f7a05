package config

import (
	"fmt"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// table is the generic, engine-agnostic shape a TOML document takes once
// decoded: nested maps of scalars, slices, and further maps. All of the
// path navigation, merge, flatten, and diff logic operates on this shape
// rather than on the typed Config, mirroring the reference
// implementation's use of toml::Value as its working representation.
type table = map[string]any

// toGeneric round-trips a Config through TOML to obtain its generic
// table form, the same trick the reference implementation plays with
// `toml::Value::try_from(config.clone())`.
func toGeneric(cfg Config) (table, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	var t table
	if err := toml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("unmarshal config to generic table: %w", err)
	}
	return t, nil
}

// fromGeneric converts a generic table back into a typed Config.
func fromGeneric(t table) (Config, error) {
	data, err := toml.Marshal(t)
	if err != nil {
		return Config{}, fmt.Errorf("marshal generic table: %w", err)
	}
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal generic table to config: %w", err)
	}
	return cfg, nil
}

// navigatePath walks a dot-separated path through t and returns the
// value found there.
func navigatePath(t table, path string) (any, error) {
	if path == "" {
		return t, nil
	}
	segments := strings.Split(path, ".")
	var cur any = t
	for i, seg := range segments {
		m, ok := cur.(table)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrInvalidPath, path)
		}
		v, ok := m[seg]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrInvalidPath, path)
		}
		if i == len(segments)-1 {
			return v, nil
		}
		cur = v
	}
	return nil, fmt.Errorf("%w: %s", ErrInvalidPath, path)
}

// setValueAtPath writes value at the dot-separated path, creating
// intermediate tables as needed.
func setValueAtPath(t table, path string, value any) error {
	if path == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	segments := strings.Split(path, ".")
	cur := t
	for i, seg := range segments {
		if i == len(segments)-1 {
			cur[seg] = value
			return nil
		}
		next, ok := cur[seg]
		if !ok {
			nt := table{}
			cur[seg] = nt
			cur = nt
			continue
		}
		nt, ok := next.(table)
		if !ok {
			nt = table{}
			cur[seg] = nt
		}
		cur = nt
	}
	return nil
}

// deepMerge merges overlay on top of base: tables merge key-wise
// recursively, and any non-table value in overlay replaces whatever base
// had at that key wholesale. base is not mutated; the result is a new
// table. Matches merge_two_toml_values in the reference implementation:
// overlay keys win, base keys not present in overlay are preserved.
func deepMerge(base, overlay table) table {
	result := make(table, len(overlay)+len(base))
	for k, v := range overlay {
		result[k] = v
	}
	for k, baseVal := range base {
		overlayVal, present := result[k]
		if !present {
			result[k] = baseVal
			continue
		}
		baseTable, baseIsTable := baseVal.(table)
		overlayTable, overlayIsTable := overlayVal.(table)
		if baseIsTable && overlayIsTable {
			result[k] = deepMerge(baseTable, overlayTable)
		}
		// else: overlay's non-table value already stands (wholesale replace).
	}
	return result
}

// flattenToPaths walks t and writes every leaf value into out keyed by
// its dot-separated path, used to turn the nested runtime.toml overlay
// document into the flat path->value map SetByPath operates on.
func flattenToPaths(t table, prefix string, out map[string]any) {
	for k, v := range t {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		if nested, ok := v.(table); ok {
			flattenToPaths(nested, path, out)
			continue
		}
		out[path] = v
	}
}

// unflattenPaths is the inverse of flattenToPaths: projects a flat
// path->value map back into nested table form, the shape runtime.toml is
// serialized in.
func unflattenPaths(paths map[string]any) table {
	result := table{}
	for path, value := range paths {
		_ = setValueAtPath(result, path, value)
	}
	return result
}
