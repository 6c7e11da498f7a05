package mpris

import (
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/haldis-dev/deskd/internal/reactive/entityref"
	"github.com/haldis-dev/deskd/internal/reactive/monitor"
)

// fetchSnapshot reads every MPRIS property this package tracks for a
// freshly discovered player. A failure to read PlaybackStatus is fatal
// (the bus name may have vanished between enumeration and the read);
// every other property degrades to a documented default rather than
// failing the whole construction, since many compliant players simply
// omit optional properties.
func (m *Manager) fetchSnapshot(busName string) (snapshot, error) {
	statusVariant, err := m.client.GetProperty(busName, mprisObjectPath, playerIface+".PlaybackStatus")
	if err != nil {
		return snapshot{}, fmt.Errorf("read PlaybackStatus: %w", err)
	}
	status, _ := statusVariant.Value().(string)

	s := snapshot{
		playback: parsePlaybackState(status),
		loop:     LoopUnsupported,
		shuffle:  ShuffleUnsupported,
		volume:   1.0,
	}

	if v, err := m.client.GetProperty(busName, mprisObjectPath, playerIface+".LoopStatus"); err == nil {
		if str, ok := v.Value().(string); ok {
			s.loop = parseLoopMode(str)
		}
	}
	if v, err := m.client.GetProperty(busName, mprisObjectPath, playerIface+".Shuffle"); err == nil {
		if on, ok := v.Value().(bool); ok {
			s.shuffle = shuffleFromBool(on)
		}
	}
	if v, err := m.client.GetProperty(busName, mprisObjectPath, playerIface+".Volume"); err == nil {
		if vol, ok := v.Value().(float64); ok {
			s.volume = vol
		}
	}
	if v, err := m.client.GetProperty(busName, mprisObjectPath, playerIface+".Metadata"); err == nil {
		if raw, ok := v.Value().(map[string]dbus.Variant); ok {
			s.metadata = parseMetadata(raw)
		}
	}
	s.capabilities = m.fetchCapabilities(busName)

	return s, nil
}

func (m *Manager) fetchCapabilities(busName string) Capabilities {
	var c Capabilities
	get := func(name string) bool {
		v, err := m.client.GetProperty(busName, mprisObjectPath, playerIface+"."+name)
		if err != nil {
			return false
		}
		b, _ := v.Value().(bool)
		return b
	}
	c.CanPlay = get("CanPlay")
	c.CanGoNext = get("CanGoNext")
	c.CanGoPrevious = get("CanGoPrevious")
	c.CanSeek = get("CanSeek")
	c.CanControl = get("CanControl")
	// MPRIS has no CanLoop/CanShuffle properties; a player that exposes
	// LoopStatus/Shuffle at all is treated as capable of them.
	if _, err := m.client.GetProperty(busName, mprisObjectPath, playerIface+".LoopStatus"); err == nil {
		c.CanLoop = true
	}
	if _, err := m.client.GetProperty(busName, mprisObjectPath, playerIface+".Shuffle"); err == nil {
		c.CanShuffle = true
	}
	return c
}

// runPlayerMonitor is the monitor task for one player: it fans the
// player's demuxed PropertiesChanged signal stream through
// internal/reactive/monitor.Run, terminating once the owning handle is
// gone or the signal channel is closed.
func (m *Manager) runPlayerMonitor(weak entityref.Weak[Player], busName string, sigCh chan *dbus.Signal) {
	source := monitor.NewSource("propertiesChanged", sigCh, func(sig *dbus.Signal) {
		m.applySignal(weak, busName, sig)
	})
	monitor.Run(weak, []monitor.Source{source})
}

func (m *Manager) applySignal(weak entityref.Weak[Player], busName string, sig *dbus.Signal) {
	if sig.Name != propertiesIface+".PropertiesChanged" {
		return
	}
	if len(sig.Body) < 2 {
		return
	}
	iface, _ := sig.Body[0].(string)
	if iface != playerIface {
		return
	}
	changed, ok := sig.Body[1].(map[string]dbus.Variant)
	if !ok {
		return
	}

	player, ok := weak.Upgrade()
	if !ok {
		return
	}

	if v, ok := changed["PlaybackStatus"]; ok {
		if str, ok := v.Value().(string); ok {
			state := parsePlaybackState(str)
			player.Playback.Set(state)
			m.events.Publish(PlaybackStateChanged{BusName: busName, State: state})
		}
	}
	if v, ok := changed["LoopStatus"]; ok {
		if str, ok := v.Value().(string); ok {
			player.Loop.Set(parseLoopMode(str))
		}
	}
	if v, ok := changed["Shuffle"]; ok {
		if on, ok := v.Value().(bool); ok {
			player.Shuffle.Set(shuffleFromBool(on))
		}
	}
	if v, ok := changed["Volume"]; ok {
		if vol, ok := v.Value().(float64); ok {
			player.Volume.Set(vol)
		}
	}
	if v, ok := changed["Metadata"]; ok {
		if raw, ok := v.Value().(map[string]dbus.Variant); ok {
			meta := parseMetadata(raw)
			player.Metadata.Set(meta)
			m.events.Publish(MetadataChanged{BusName: busName, Metadata: meta})
		}
	}
}

func parsePlaybackState(status string) PlaybackState {
	switch status {
	case "Playing":
		return PlaybackPlaying
	case "Paused":
		return PlaybackPaused
	default:
		return PlaybackStopped
	}
}

func parseLoopMode(status string) LoopMode {
	switch status {
	case "None":
		return LoopNone
	case "Track":
		return LoopTrack
	case "Playlist":
		return LoopPlaylist
	default:
		return LoopUnsupported
	}
}

func shuffleFromBool(on bool) ShuffleMode {
	if on {
		return ShuffleOn
	}
	return ShuffleOff
}

// parseMetadata decodes an MPRIS metadata dictionary into TrackMetadata,
// tolerating the type inconsistencies real-world players exhibit (e.g.
// xesam:artist as a bare string instead of an array).
func parseMetadata(raw map[string]dbus.Variant) TrackMetadata {
	var meta TrackMetadata

	if v, ok := raw["xesam:title"]; ok {
		if s, ok := v.Value().(string); ok {
			meta.Title = s
		}
	}
	if v, ok := raw["xesam:artist"]; ok {
		switch artists := v.Value().(type) {
		case []string:
			if len(artists) > 0 {
				meta.Artist = artists[0]
			}
		case string:
			meta.Artist = artists
		}
	}
	if v, ok := raw["xesam:album"]; ok {
		if s, ok := v.Value().(string); ok {
			meta.Album = s
		}
	}
	if v, ok := raw["xesam:albumArtist"]; ok {
		switch artists := v.Value().(type) {
		case []string:
			if len(artists) > 0 {
				meta.AlbumArtist = artists[0]
			}
		case string:
			meta.AlbumArtist = artists
		}
	}
	if v, ok := raw["mpris:length"]; ok {
		switch l := v.Value().(type) {
		case int64:
			d := time.Duration(l) * time.Microsecond
			meta.Length = &d
		case uint64:
			d := time.Duration(l) * time.Microsecond
			meta.Length = &d
		}
	}
	if v, ok := raw["mpris:artUrl"]; ok {
		if s, ok := v.Value().(string); ok && s != "" {
			meta.ArtURL = &s
		}
	}
	if v, ok := raw["mpris:trackid"]; ok {
		switch id := v.Value().(type) {
		case string:
			meta.TrackID = &id
		case dbus.ObjectPath:
			s := string(id)
			meta.TrackID = &s
		}
	}

	return meta
}
