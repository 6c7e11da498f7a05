package audio

import (
	"context"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/haldis-dev/deskd/internal/reactive/bus"
)

const commandBuffer = 32

// Coordinator owns one dedicated OS thread running the PulseAudio/
// PipeWire native-protocol client. All reads and writes against the
// client happen on that thread; everything else talks to it through the
// external and internal command channels.
type Coordinator struct {
	logger *zap.Logger
	client PulseClient
	events *bus.Bus[Event]

	external chan externalCommand
	internal chan internalCommand

	mu            sync.RWMutex
	devices       map[DeviceKey]*Device
	streams       map[StreamKey]*Stream
	defaultOutput string
	defaultInput  string

	wg sync.WaitGroup
}

// NewCoordinator builds a Coordinator over client. Run must be called to
// start the dedicated backend goroutine.
func NewCoordinator(logger *zap.Logger, client PulseClient) *Coordinator {
	return &Coordinator{
		logger:   logger,
		client:   client,
		events:   bus.New[Event](),
		external: make(chan externalCommand, commandBuffer),
		internal: make(chan internalCommand, commandBuffer),
		devices:  make(map[DeviceKey]*Device),
		streams:  make(map[StreamKey]*Stream),
	}
}

// Events returns a subscription to the coordinator's domain event bus.
func (c *Coordinator) Events() *bus.Subscription[Event] { return c.events.Subscribe() }

// Run pins a goroutine to its OS thread and drives the command loop
// until ctx is canceled. It enqueues an initial full discovery pass and
// returns without waiting for it; the pass runs on that goroutine.
func (c *Coordinator) Run(ctx context.Context) error {
	updates, err := c.client.Updates()
	if err != nil {
		return err
	}

	c.internal <- refreshDevices
	c.internal <- refreshStreams
	c.internal <- refreshServerInfo

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		c.loop(ctx, updates)
	}()
	return nil
}

// Stop requests the backend goroutine to exit and waits for it.
func (c *Coordinator) Stop() {
	select {
	case c.external <- cmdShutdown{}:
	default:
	}
	c.wg.Wait()
	c.client.Close()
}

func (c *Coordinator) loop(ctx context.Context, updates <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case cmd, ok := <-c.external:
			if !ok {
				return
			}
			if _, isShutdown := cmd.(cmdShutdown); isShutdown {
				return
			}
			c.handleExternal(cmd)
		case cmd := <-c.internal:
			c.handleInternal(cmd)
		case _, ok := <-updates:
			if !ok {
				return
			}
			// The native protocol's update channel does not carry a
			// (facility, operation, index) triple the way libpulse's
			// subscribe callback does, so every tick enqueues every
			// refresh; each refresh still diffs against the live map
			// before publishing anything.
			c.internal <- refreshDevices
			c.internal <- refreshStreams
			c.internal <- refreshServerInfo
		}
	}
}

func (c *Coordinator) handleInternal(cmd internalCommand) {
	switch cmd {
	case refreshDevices:
		c.refreshDevices()
	case refreshStreams:
		c.refreshStreams()
	case refreshServerInfo:
		c.refreshServerInfo()
	}
}

func (c *Coordinator) handleExternal(cmd externalCommand) {
	switch cmd := cmd.(type) {
	case cmdSetDeviceVolume:
		c.setDeviceVolume(cmd.key, cmd.volume)
	case cmdSetDeviceMute:
		c.setDeviceMute(cmd.key, cmd.muted)
	case cmdSetDefaultOutput:
		c.setDefaultOutput(cmd.key)
	case cmdSetDefaultInput:
		c.setDefaultInput(cmd.key)
	case cmdSetStreamVolume:
		c.setStreamVolume(cmd.key, cmd.volume)
	case cmdSetStreamMute:
		c.setStreamMute(cmd.key, cmd.muted)
	case cmdMoveStream:
		c.moveStream(cmd.key, cmd.deviceKey)
	}
}

func (c *Coordinator) setDeviceVolume(key DeviceKey, volume Volume) {
	c.mu.RLock()
	device, ok := c.devices[key]
	c.mu.RUnlock()
	if !ok {
		return
	}
	channels := device.Volume.Get().Channels()
	if channels == 0 {
		channels = 1
	}
	vol := replicateAverage(volume, channels)
	switch key.Direction {
	case DirectionOutput:
		_ = c.client.SetSinkVolume(key.Index, vol)
	case DirectionInput:
		_ = c.client.SetSourceVolume(key.Index, vol)
	}
}

func (c *Coordinator) setDeviceMute(key DeviceKey, muted bool) {
	switch key.Direction {
	case DirectionOutput:
		_ = c.client.SetSinkMute(key.Index, muted)
	case DirectionInput:
		_ = c.client.SetSourceMute(key.Index, muted)
	}
}

func (c *Coordinator) setDefaultOutput(key DeviceKey) {
	c.mu.RLock()
	device, ok := c.devices[key]
	c.mu.RUnlock()
	if !ok {
		return
	}
	_ = c.client.SetDefaultSink(device.Name)
}

func (c *Coordinator) setDefaultInput(key DeviceKey) {
	c.mu.RLock()
	device, ok := c.devices[key]
	c.mu.RUnlock()
	if !ok {
		return
	}
	_ = c.client.SetDefaultSource(device.Name)
}

func (c *Coordinator) setStreamVolume(key StreamKey, volume Volume) {
	c.mu.RLock()
	stream, ok := c.streams[key]
	c.mu.RUnlock()
	if !ok {
		return
	}
	channels := stream.Volume.Get().Channels()
	if channels == 0 {
		channels = 1
	}
	vol := replicateAverage(volume, channels)
	switch key.Type {
	case StreamPlayback:
		_ = c.client.SetSinkInputVolume(key.Index, vol)
	case StreamRecord:
		_ = c.client.SetSourceOutputVolume(key.Index, vol)
	}
}

func (c *Coordinator) setStreamMute(key StreamKey, muted bool) {
	switch key.Type {
	case StreamPlayback:
		_ = c.client.SetSinkInputMute(key.Index, muted)
	case StreamRecord:
		_ = c.client.SetSourceOutputMute(key.Index, muted)
	}
}

func (c *Coordinator) moveStream(key StreamKey, deviceKey DeviceKey) {
	switch key.Type {
	case StreamPlayback:
		_ = c.client.MoveSinkInput(key.Index, deviceKey.Index)
	case StreamRecord:
		_ = c.client.MoveSourceOutput(key.Index, deviceKey.Index)
	}
}

// Devices returns every currently known device key.
func (c *Coordinator) Devices() []DeviceKey {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]DeviceKey, 0, len(c.devices))
	for k := range c.devices {
		out = append(out, k)
	}
	return out
}

// Device returns the device at key.
func (c *Coordinator) Device(key DeviceKey) (*Device, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.devices[key]
	if !ok {
		return nil, ErrDeviceNotFound
	}
	return d, nil
}

// Streams returns every currently known stream key.
func (c *Coordinator) Streams() []StreamKey {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]StreamKey, 0, len(c.streams))
	for k := range c.streams {
		out = append(out, k)
	}
	return out
}

// Stream returns the stream at key.
func (c *Coordinator) Stream(key StreamKey) (*Stream, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.streams[key]
	if !ok {
		return nil, ErrStreamNotFound
	}
	return s, nil
}
