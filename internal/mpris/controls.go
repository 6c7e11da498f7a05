package mpris

import (
	"time"

	"github.com/godbus/dbus/v5"
)

// Controls is the mutation facade over the live player set: every
// method looks the player up, checks the relevant capability flag, and
// issues the backend call. It never writes to a Player's properties
// directly — the monitor task observes the backend's resulting state
// change and updates them.
type Controls struct {
	manager *Manager
	client  DBusClient
}

// NewControls builds a Controls facade over manager's live player set.
func NewControls(manager *Manager, client DBusClient) *Controls {
	return &Controls{manager: manager, client: client}
}

func (c *Controls) player(busName string) (*Player, error) {
	return c.manager.GetPlayer(busName)
}

func (c *Controls) call(busName, method string, args ...any) error {
	call := c.client.Call(busName, mprisObjectPath, playerIface+"."+method, args...)
	return call.Err
}

// PlayPause toggles play/pause on busName.
func (c *Controls) PlayPause(busName string) error {
	p, err := c.player(busName)
	if err != nil {
		return err
	}
	if !p.Capabilities.Get().CanPlay {
		return &OperationNotSupportedError{Op: "PlayPause"}
	}
	return c.call(busName, "PlayPause")
}

// Next skips to the following track.
func (c *Controls) Next(busName string) error {
	p, err := c.player(busName)
	if err != nil {
		return err
	}
	if !p.Capabilities.Get().CanGoNext {
		return &OperationNotSupportedError{Op: "Next"}
	}
	return c.call(busName, "Next")
}

// Previous skips to the preceding track.
func (c *Controls) Previous(busName string) error {
	p, err := c.player(busName)
	if err != nil {
		return err
	}
	if !p.Capabilities.Get().CanGoPrevious {
		return &OperationNotSupportedError{Op: "Previous"}
	}
	return c.call(busName, "Previous")
}

// Seek moves the current track to position, rejecting positions beyond
// the track's known length.
func (c *Controls) Seek(busName string, position time.Duration) error {
	p, err := c.player(busName)
	if err != nil {
		return err
	}
	if !p.Capabilities.Get().CanSeek {
		return &OperationNotSupportedError{Op: "Seek"}
	}
	meta := p.Metadata.Get()
	if length := meta.Length; length != nil && position > *length {
		return &InvalidSeekPositionError{Position: int64(position / time.Microsecond), Length: int64(*length / time.Microsecond)}
	}
	trackID := dbus.ObjectPath("/")
	if meta.TrackID != nil {
		trackID = dbus.ObjectPath(*meta.TrackID)
	}
	return c.call(busName, "SetPosition", trackID, int64(position/time.Microsecond))
}

// ToggleLoop cycles the player's loop mode None -> Track -> Playlist ->
// None.
func (c *Controls) ToggleLoop(busName string) error {
	p, err := c.player(busName)
	if err != nil {
		return err
	}
	if !p.Capabilities.Get().CanLoop {
		return &OperationNotSupportedError{Op: "SetLoopMode"}
	}
	next := p.Loop.Get().Next()
	return c.client.SetProperty(busName, mprisObjectPath, playerIface+".LoopStatus", string(next))
}

// ToggleShuffle toggles the player's shuffle mode Off <-> On.
func (c *Controls) ToggleShuffle(busName string) error {
	p, err := c.player(busName)
	if err != nil {
		return err
	}
	if !p.Capabilities.Get().CanShuffle {
		return &OperationNotSupportedError{Op: "SetShuffle"}
	}
	next := p.Shuffle.Get().Next()
	return c.client.SetProperty(busName, mprisObjectPath, playerIface+".Shuffle", next == ShuffleOn)
}

// SetVolume writes level unchanged as the player's single scalar Volume
// property.
func (c *Controls) SetVolume(busName string, level float64) error {
	if _, err := c.player(busName); err != nil {
		return err
	}
	return c.client.SetProperty(busName, mprisObjectPath, playerIface+".Volume", level)
}
