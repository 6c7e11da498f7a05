package mpris

import "github.com/haldis-dev/deskd/internal/reactive"

// Player is the reactive entity mirroring one MPRIS session-bus player.
// Only the monitor task that owns it (and, for the initial snapshot, the
// manager's discovery factory) writes to its properties; control
// operations never touch them directly — they mutate the backend and
// let the monitor observe the result.
type Player struct {
	busName string

	Playback     *reactive.Property[PlaybackState]
	Loop         *reactive.Property[LoopMode]
	Shuffle      *reactive.Property[ShuffleMode]
	Volume       *reactive.Property[float64]
	Capabilities *reactive.ObjectProperty[Capabilities]
	Metadata     *reactive.ObjectProperty[TrackMetadata]
}

// BusName returns this player's service bus name, its identifier.
func (p *Player) BusName() string { return p.busName }

// snapshot is the initial state a discovery factory reads from the bus
// before constructing a Player.
type snapshot struct {
	playback     PlaybackState
	loop         LoopMode
	shuffle      ShuffleMode
	volume       float64
	capabilities Capabilities
	metadata     TrackMetadata
}

func newPlayer(busName string, s snapshot) *Player {
	return &Player{
		busName:      busName,
		Playback:     reactive.NewProperty(s.playback),
		Loop:         reactive.NewProperty(s.loop),
		Shuffle:      reactive.NewProperty(s.shuffle),
		Volume:       reactive.NewProperty(s.volume),
		Capabilities: reactive.NewObjectProperty(s.capabilities),
		Metadata:     reactive.NewObjectProperty(s.metadata),
	}
}
