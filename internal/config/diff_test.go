package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffConfigs_LeafChangeEmitted(t *testing.T) {
	old := Default()
	new := Default()
	new.General.LogLevel = "debug"

	changes, err := DiffConfigs(old, new, time.Now())
	require.NoError(t, err)

	require.Len(t, changes, 1)
	assert.Equal(t, "general.log_level", changes[0].Path)
	assert.Equal(t, "info", changes[0].Old)
	assert.Equal(t, "debug", changes[0].New)
}

func TestDiffConfigs_IdenticalConfigsProduceNoChanges(t *testing.T) {
	cfg := Default()
	changes, err := DiffConfigs(cfg, cfg, time.Now())
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestDiffConfigs_RemovedFieldFallsBackToDefault(t *testing.T) {
	old := Default()
	new := Default()
	new.Modules.Clock = nil

	changes, err := DiffConfigs(old, new, time.Now())
	require.NoError(t, err)

	var found *ConfigChange
	for i := range changes {
		if changes[i].Path == "modules.clock" {
			found = &changes[i]
		}
	}
	require.NotNil(t, found, "removing a field must still produce a change for its table path")
	assert.NotNil(t, found.New, "a removed table falls back to the default config's value at that path")
	assert.Equal(t, old.Modules.Clock.Enabled, found.New.(table)["enabled"])
}

func TestDiffConfigs_AddedFieldHasNilOld(t *testing.T) {
	old := Default()
	old.Modules.Clock = nil
	new := Default()

	changes, err := DiffConfigs(old, new, time.Now())
	require.NoError(t, err)

	var found *ConfigChange
	for i := range changes {
		if changes[i].Path == "modules.clock" {
			found = &changes[i]
		}
	}
	require.NotNil(t, found)
	assert.Nil(t, found.Old)
	assert.Equal(t, true, found.New.(table)["enabled"])
}
