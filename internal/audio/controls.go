package audio

// DeviceControls issues device-scoped mutation commands onto the
// coordinator's dedicated backend goroutine.
type DeviceControls struct {
	coordinator *Coordinator
}

// NewDeviceControls builds a DeviceControls facade.
func NewDeviceControls(coordinator *Coordinator) *DeviceControls {
	return &DeviceControls{coordinator: coordinator}
}

func (c *DeviceControls) send(cmd externalCommand) error {
	select {
	case c.coordinator.external <- cmd:
		return nil
	default:
		return errCommandQueueFull
	}
}

// SetVolume replaces key's average volume level, replicated across its
// channel count on the backend side.
func (c *DeviceControls) SetVolume(key DeviceKey, level float64) error {
	if _, err := c.coordinator.Device(key); err != nil {
		return err
	}
	return c.send(cmdSetDeviceVolume{key: key, volume: NewVolume(level)})
}

// SetMute sets key's mute state.
func (c *DeviceControls) SetMute(key DeviceKey, muted bool) error {
	if _, err := c.coordinator.Device(key); err != nil {
		return err
	}
	return c.send(cmdSetDeviceMute{key: key, muted: muted})
}

// SetDefaultOutput makes key the system default sink.
func (c *DeviceControls) SetDefaultOutput(key DeviceKey) error {
	if _, err := c.coordinator.Device(key); err != nil {
		return err
	}
	return c.send(cmdSetDefaultOutput{key: key})
}

// SetDefaultInput makes key the system default source.
func (c *DeviceControls) SetDefaultInput(key DeviceKey) error {
	if _, err := c.coordinator.Device(key); err != nil {
		return err
	}
	return c.send(cmdSetDefaultInput{key: key})
}

// StreamControls issues stream-scoped mutation commands onto the
// coordinator's dedicated backend goroutine.
type StreamControls struct {
	coordinator *Coordinator
}

// NewStreamControls builds a StreamControls facade.
func NewStreamControls(coordinator *Coordinator) *StreamControls {
	return &StreamControls{coordinator: coordinator}
}

func (c *StreamControls) send(cmd externalCommand) error {
	select {
	case c.coordinator.external <- cmd:
		return nil
	default:
		return errCommandQueueFull
	}
}

// SetVolume replaces key's average volume level.
func (c *StreamControls) SetVolume(key StreamKey, level float64) error {
	if _, err := c.coordinator.Stream(key); err != nil {
		return err
	}
	return c.send(cmdSetStreamVolume{key: key, volume: NewVolume(level)})
}

// SetMute sets key's mute state.
func (c *StreamControls) SetMute(key StreamKey, muted bool) error {
	if _, err := c.coordinator.Stream(key); err != nil {
		return err
	}
	return c.send(cmdSetStreamMute{key: key, muted: muted})
}

// Move reassigns the stream at key to play through/record from device.
func (c *StreamControls) Move(key StreamKey, device DeviceKey) error {
	if _, err := c.coordinator.Stream(key); err != nil {
		return err
	}
	return c.send(cmdMoveStream{key: key, deviceKey: device})
}
