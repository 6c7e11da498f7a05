package mpris

import (
	"context"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/haldis-dev/deskd/internal/runtimestate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestManager(t *testing.T, client *fakeDBusClient, ignored []string) (*Manager, *runtimestate.Store) {
	t.Helper()
	state := runtimestate.New(t.TempDir())
	m := NewManager(zap.NewNop(), client, state, ignored)
	return m, state
}

func defaultPlayerProps() map[string]any {
	return map[string]any{
		"PlaybackStatus": "Playing",
		"LoopStatus":     "None",
		"Shuffle":        false,
		"Volume":         1.0,
		"CanPlay":        true,
		"CanGoNext":      true,
		"CanGoPrevious":  true,
		"CanSeek":        true,
		"CanControl":     true,
	}
}

func TestManager_StartDiscoversExistingPlayers(t *testing.T) {
	client := newFakeDBusClient()
	client.addPlayer("org.mpris.MediaPlayer2.demo", ":1.1", defaultPlayerProps())

	m, _ := newTestManager(t, client, nil)
	sub := m.Events()
	defer sub.Unsubscribe()

	require.NoError(t, m.Start(context.Background()))
	defer m.Stop()

	select {
	case ev := <-sub.Events():
		assert.Equal(t, Added{BusName: "org.mpris.MediaPlayer2.demo"}, ev)
	case <-time.After(time.Second):
		t.Fatal("expected an Added event")
	}

	assert.Equal(t, []string{"org.mpris.MediaPlayer2.demo"}, m.Players())

	player, err := m.GetPlayer("org.mpris.MediaPlayer2.demo")
	require.NoError(t, err)
	assert.Equal(t, PlaybackPlaying, player.Playback.Get())
}

func TestManager_IgnoredPlayerNotAdded(t *testing.T) {
	client := newFakeDBusClient()
	client.addPlayer("org.mpris.MediaPlayer2.kdeconnect.phone", ":1.2", defaultPlayerProps())

	m, _ := newTestManager(t, client, []string{"kdeconnect"})
	require.NoError(t, m.Start(context.Background()))
	defer m.Stop()

	assert.Empty(t, m.Players())
	_, err := m.GetPlayer("org.mpris.MediaPlayer2.kdeconnect.phone")
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestManager_ActivePlayerPersistsAndFallsBackOnRemoval(t *testing.T) {
	client := newFakeDBusClient()
	client.addPlayer("org.mpris.MediaPlayer2.demo", ":1.1", defaultPlayerProps())

	m, state := newTestManager(t, client, nil)
	require.NoError(t, m.Start(context.Background()))
	defer m.Stop()

	assert.Equal(t, "org.mpris.MediaPlayer2.demo", m.ActivePlayer())
	persisted, err := state.ActivePlayer()
	require.NoError(t, err)
	require.NotNil(t, persisted)
	assert.Equal(t, "org.mpris.MediaPlayer2.demo", *persisted)

	client.emit(&dbus.Signal{
		Name:   nameOwnerChanged,
		Sender: "org.freedesktop.DBus",
		Body:   []any{"org.mpris.MediaPlayer2.demo", ":1.1", ""},
	})

	require.Eventually(t, func() bool {
		return len(m.Players()) == 0
	}, time.Second, 10*time.Millisecond)

	assert.Equal(t, "", m.ActivePlayer())
	persisted, err = state.ActivePlayer()
	require.NoError(t, err)
	assert.Nil(t, persisted)
}

func TestManager_RestoreFallsBackWhenPersistedPlayerAbsent(t *testing.T) {
	client := newFakeDBusClient()
	client.addPlayer("org.mpris.MediaPlayer2.live", ":1.3", defaultPlayerProps())

	state := runtimestate.New(t.TempDir())
	gone := "org.mpris.MediaPlayer2.gone"
	require.NoError(t, state.SetActivePlayer(&gone))

	m := NewManager(zap.NewNop(), client, state, nil)
	require.NoError(t, m.Start(context.Background()))
	defer m.Stop()

	assert.Equal(t, "org.mpris.MediaPlayer2.live", m.ActivePlayer())
}

func TestManager_NewPlayerArrivalViaNameOwnerChanged(t *testing.T) {
	client := newFakeDBusClient()
	m, _ := newTestManager(t, client, nil)
	require.NoError(t, m.Start(context.Background()))
	defer m.Stop()

	client.addPlayer("org.mpris.MediaPlayer2.later", ":1.9", defaultPlayerProps())
	client.emit(&dbus.Signal{
		Name:   nameOwnerChanged,
		Sender: "org.freedesktop.DBus",
		Body:   []any{"org.mpris.MediaPlayer2.later", "", ":1.9"},
	})

	require.Eventually(t, func() bool {
		return len(m.Players()) == 1
	}, time.Second, 10*time.Millisecond)

	assert.Equal(t, "org.mpris.MediaPlayer2.later", m.ActivePlayer())
}
