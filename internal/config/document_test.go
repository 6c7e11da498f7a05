package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToGenericFromGeneric_RoundTrips(t *testing.T) {
	cfg := Default()
	t1, err := toGeneric(cfg)
	require.NoError(t, err)

	back, err := fromGeneric(t1)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}

func TestNavigatePath_ResolvesNestedValue(t *testing.T) {
	doc := table{
		"general": table{"log_level": "debug"},
	}
	v, err := navigatePath(doc, "general.log_level")
	require.NoError(t, err)
	assert.Equal(t, "debug", v)
}

func TestNavigatePath_UnknownPathErrors(t *testing.T) {
	doc := table{"general": table{"log_level": "debug"}}
	_, err := navigatePath(doc, "general.missing")
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestSetValueAtPath_CreatesIntermediateTables(t *testing.T) {
	doc := table{}
	require.NoError(t, setValueAtPath(doc, "modules.clock.format", "%H:%M:%S"))

	v, err := navigatePath(doc, "modules.clock.format")
	require.NoError(t, err)
	assert.Equal(t, "%H:%M:%S", v)
}

func TestDeepMerge_OverlayWinsTablesRecurse(t *testing.T) {
	base := table{
		"general": table{"log_level": "info"},
		"modules": table{"clock": table{"enabled": true, "format": "%H:%M"}},
	}
	overlay := table{
		"general": table{"log_level": "debug"},
		"modules": table{"clock": table{"format": "%H:%M:%S"}},
	}
	merged := deepMerge(base, overlay)

	v, err := navigatePath(merged, "general.log_level")
	require.NoError(t, err)
	assert.Equal(t, "debug", v)

	v, err = navigatePath(merged, "modules.clock.enabled")
	require.NoError(t, err)
	assert.Equal(t, true, v, "keys not touched by the overlay must survive the merge")

	v, err = navigatePath(merged, "modules.clock.format")
	require.NoError(t, err)
	assert.Equal(t, "%H:%M:%S", v)
}

func TestDeepMerge_NonTableReplacesWholesale(t *testing.T) {
	base := table{"modules": table{"clock": table{"enabled": true}}}
	overlay := table{"modules": "disabled-for-now"}

	merged := deepMerge(base, overlay)
	assert.Equal(t, "disabled-for-now", merged["modules"])
}

func TestDeepMerge_IsIdempotent(t *testing.T) {
	base := table{"general": table{"log_level": "info"}}
	overlay := table{"general": table{"log_level": "debug"}}

	once := deepMerge(base, overlay)
	twice := deepMerge(once, overlay)
	assert.Equal(t, once, twice)
}

func TestFlattenUnflatten_RoundTrips(t *testing.T) {
	doc := table{
		"general": table{"log_level": "debug"},
		"modules": table{"clock": table{"format": "%H:%M:%S"}},
	}
	flat := map[string]any{}
	flattenToPaths(doc, "", flat)

	assert.Equal(t, "debug", flat["general.log_level"])
	assert.Equal(t, "%H:%M:%S", flat["modules.clock.format"])

	back := unflattenPaths(flat)
	assert.Equal(t, doc, back)
}
