package config

import (
	"reflect"
	"sync"
	"time"
)

// ConfigChange describes a single field that differs between two
// configuration snapshots.
type ConfigChange struct {
	Path      string
	Old       any
	New       any
	Timestamp time.Time
}

var defaultTable = sync.OnceValue(func() table {
	t, err := toGeneric(Default())
	if err != nil {
		// Default() is a fixed, known-good struct; toGeneric over it
		// cannot fail in practice. Fall back to an empty table rather
		// than panicking if it somehow does.
		return table{}
	}
	return t
})

// diffTables recurses over old and new, emitting one ConfigChange per
// leaf that differs. Both sides present and both tables recurse; both
// present and either a leaf emits iff the values differ; only-old emits
// new = the default config's value at that path; only-new emits
// old = nil.
func diffTables(old, new table, prefix string, at time.Time) []ConfigChange {
	var changes []ConfigChange
	keys := map[string]struct{}{}
	for k := range old {
		keys[k] = struct{}{}
	}
	for k := range new {
		keys[k] = struct{}{}
	}

	for k := range keys {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		oldVal, oldOK := old[k]
		newVal, newOK := new[k]

		switch {
		case oldOK && newOK:
			oldTable, oldIsTable := oldVal.(table)
			newTable, newIsTable := newVal.(table)
			if oldIsTable && newIsTable {
				changes = append(changes, diffTables(oldTable, newTable, path, at)...)
				continue
			}
			if !reflect.DeepEqual(oldVal, newVal) {
				changes = append(changes, ConfigChange{Path: path, Old: oldVal, New: newVal, Timestamp: at})
			}
		case oldOK && !newOK:
			fallback, _ := navigatePath(defaultTable(), path)
			changes = append(changes, ConfigChange{Path: path, Old: oldVal, New: fallback, Timestamp: at})
		case !oldOK && newOK:
			changes = append(changes, ConfigChange{Path: path, Old: nil, New: newVal, Timestamp: at})
		}
	}
	return changes
}

// DiffConfigs computes the field-level changes between two Configs by
// round-tripping both through their generic table form and recursing.
func DiffConfigs(old, new Config, at time.Time) ([]ConfigChange, error) {
	oldTable, err := toGeneric(old)
	if err != nil {
		return nil, err
	}
	newTable, err := toGeneric(new)
	if err != nil {
		return nil, err
	}
	return diffTables(oldTable, newTable, "", at), nil
}
