package audio

import "github.com/the-jonsey/pulseaudio"

// sinkInfo, sourceInfo, sinkInputInfo and sourceOutputInfo are the raw
// shapes PulseClient returns, decoupled from the vendor library's own
// types so the rest of this package never imports it directly.
type sinkInfo struct {
	index       uint32
	name        string
	description string
	muted       bool
	volume      []uint32
	activePort  string
}

type sourceInfo struct {
	index       uint32
	name        string
	description string
	muted       bool
	volume      []uint32
	activePort  string
}

type sinkInputInfo struct {
	index           uint32
	name            string
	applicationName string
	sinkIndex       uint32
	muted           bool
	volume          []uint32
}

type sourceOutputInfo struct {
	index           uint32
	name            string
	applicationName string
	sourceIndex     uint32
	muted           bool
	volume          []uint32
}

type serverInfo struct {
	defaultSinkName   string
	defaultSourceName string
}

// PulseClient is the native-protocol surface Coordinator depends on; the
// real implementation wraps github.com/the-jonsey/pulseaudio's Client
// over a Unix socket, and a test fake implements it in memory.
type PulseClient interface {
	Close()

	// Updates returns a channel that receives one tick per backend state
	// change. The native protocol this client speaks does not expose
	// libpulse's per-facility/per-operation subscribe callback, so every
	// tick triggers a full refresh-and-diff pass rather than a
	// fine-grained dispatch by facility.
	Updates() (<-chan struct{}, error)

	SinkList() ([]sinkInfo, error)
	SourceList() ([]sourceInfo, error)
	SinkInputList() ([]sinkInputInfo, error)
	SourceOutputList() ([]sourceOutputInfo, error)
	ServerInfo() (serverInfo, error)

	SetSinkVolume(index uint32, volume []uint32) error
	SetSinkMute(index uint32, mute bool) error
	SetSourceVolume(index uint32, volume []uint32) error
	SetSourceMute(index uint32, mute bool) error
	SetSinkInputVolume(index uint32, volume []uint32) error
	SetSinkInputMute(index uint32, mute bool) error
	MoveSinkInput(index, sinkIndex uint32) error
	SetSourceOutputVolume(index uint32, volume []uint32) error
	SetSourceOutputMute(index uint32, mute bool) error
	MoveSourceOutput(index, sourceIndex uint32) error
	SetDefaultSink(name string) error
	SetDefaultSource(name string) error
}

// stdPulseClient adapts github.com/the-jonsey/pulseaudio's Client to
// PulseClient. It is the only file in this package that imports the
// vendor library, so a future protocol version only needs a change
// here.
type stdPulseClient struct {
	client *pulseaudio.Client
}

// NewStdPulseClient dials the PulseAudio/PipeWire native protocol server
// over its default Unix-domain socket.
func NewStdPulseClient() (PulseClient, error) {
	client, err := pulseaudio.NewClient()
	if err != nil {
		return nil, err
	}
	return &stdPulseClient{client: client}, nil
}

func (c *stdPulseClient) Close() { c.client.Close() }

func (c *stdPulseClient) Updates() (<-chan struct{}, error) {
	return c.client.Updates()
}

func (c *stdPulseClient) SinkList() ([]sinkInfo, error) {
	sinks, err := c.client.SinkList()
	if err != nil {
		return nil, err
	}
	out := make([]sinkInfo, len(sinks))
	for i, s := range sinks {
		out[i] = sinkInfo{
			index:       s.SinkIndex,
			name:        s.Name,
			description: s.Device,
			muted:       s.Mute,
			volume:      append([]uint32(nil), s.Volume.Values...),
			activePort:  s.ActivePortName,
		}
	}
	return out, nil
}

func (c *stdPulseClient) SourceList() ([]sourceInfo, error) {
	sources, err := c.client.SourceList()
	if err != nil {
		return nil, err
	}
	out := make([]sourceInfo, len(sources))
	for i, s := range sources {
		out[i] = sourceInfo{
			index:       s.SourceIndex,
			name:        s.Name,
			description: s.Device,
			muted:       s.Mute,
			volume:      append([]uint32(nil), s.Volume.Values...),
			activePort:  s.ActivePortName,
		}
	}
	return out, nil
}

func (c *stdPulseClient) SinkInputList() ([]sinkInputInfo, error) {
	inputs, err := c.client.PlaybackStreamList()
	if err != nil {
		return nil, err
	}
	out := make([]sinkInputInfo, len(inputs))
	for i, s := range inputs {
		out[i] = sinkInputInfo{
			index:           s.Index,
			name:            s.Name,
			applicationName: s.ApplicationName,
			sinkIndex:       s.DeviceIndex,
			muted:           s.Mute,
			volume:          append([]uint32(nil), s.Volume.Values...),
		}
	}
	return out, nil
}

func (c *stdPulseClient) SourceOutputList() ([]sourceOutputInfo, error) {
	outputs, err := c.client.RecordStreamList()
	if err != nil {
		return nil, err
	}
	out := make([]sourceOutputInfo, len(outputs))
	for i, s := range outputs {
		out[i] = sourceOutputInfo{
			index:           s.Index,
			name:            s.Name,
			applicationName: s.ApplicationName,
			sourceIndex:     s.DeviceIndex,
			muted:           s.Mute,
			volume:          append([]uint32(nil), s.Volume.Values...),
		}
	}
	return out, nil
}

func (c *stdPulseClient) ServerInfo() (serverInfo, error) {
	info, err := c.client.ServerInfo()
	if err != nil {
		return serverInfo{}, err
	}
	return serverInfo{defaultSinkName: info.DefaultSinkName, defaultSourceName: info.DefaultSourceName}, nil
}

func (c *stdPulseClient) SetSinkVolume(index uint32, volume []uint32) error {
	return c.client.SetSinkVolume(index, volume)
}

func (c *stdPulseClient) SetSinkMute(index uint32, mute bool) error {
	return c.client.SetSinkMute(index, mute)
}

func (c *stdPulseClient) SetSourceVolume(index uint32, volume []uint32) error {
	return c.client.SetSourceVolume(index, volume)
}

func (c *stdPulseClient) SetSourceMute(index uint32, mute bool) error {
	return c.client.SetSourceMute(index, mute)
}

func (c *stdPulseClient) SetSinkInputVolume(index uint32, volume []uint32) error {
	return c.client.SetPlaybackStreamVolume(index, volume)
}

func (c *stdPulseClient) SetSinkInputMute(index uint32, mute bool) error {
	return c.client.SetPlaybackStreamMute(index, mute)
}

func (c *stdPulseClient) MoveSinkInput(index, sinkIndex uint32) error {
	return c.client.MovePlaybackStream(index, sinkIndex)
}

func (c *stdPulseClient) SetSourceOutputVolume(index uint32, volume []uint32) error {
	return c.client.SetRecordStreamVolume(index, volume)
}

func (c *stdPulseClient) SetSourceOutputMute(index uint32, mute bool) error {
	return c.client.SetRecordStreamMute(index, mute)
}

func (c *stdPulseClient) MoveSourceOutput(index, sourceIndex uint32) error {
	return c.client.MoveRecordStream(index, sourceIndex)
}

func (c *stdPulseClient) SetDefaultSink(name string) error {
	return c.client.SetDefaultSink(name)
}

func (c *stdPulseClient) SetDefaultSource(name string) error {
	return c.client.SetDefaultSource(name)
}
