package audio

import "sync"

// fakePulseClient is an in-memory PulseClient used to drive Coordinator
// through deterministic discovery and control scenarios.
type fakePulseClient struct {
	mu sync.Mutex

	sinks   []sinkInfo
	sources []sourceInfo
	inputs  []sinkInputInfo
	outputs []sourceOutputInfo
	server  serverInfo

	updates chan struct{}
	closed  bool

	setSinkVolumeCalls    []fakeVolumeCall
	setSinkMuteCalls      []fakeMuteCall
	setSourceVolumeCalls  []fakeVolumeCall
	setSourceMuteCalls    []fakeMuteCall
	setSinkInputVolume    []fakeVolumeCall
	setSinkInputMute      []fakeMuteCall
	moveSinkInputCalls    []fakeMoveCall
	setSourceOutputVolume []fakeVolumeCall
	setSourceOutputMute   []fakeMuteCall
	moveSourceOutputCalls []fakeMoveCall
	defaultSink           []string
	defaultSource         []string
}

type fakeVolumeCall struct {
	index  uint32
	volume []uint32
}

type fakeMuteCall struct {
	index uint32
	mute  bool
}

type fakeMoveCall struct {
	index, target uint32
}

func newFakePulseClient() *fakePulseClient {
	return &fakePulseClient{updates: make(chan struct{}, 8)}
}

func (c *fakePulseClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *fakePulseClient) Updates() (<-chan struct{}, error) { return c.updates, nil }

func (c *fakePulseClient) tick() { c.updates <- struct{}{} }

func (c *fakePulseClient) SinkList() ([]sinkInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]sinkInfo(nil), c.sinks...), nil
}

func (c *fakePulseClient) SourceList() ([]sourceInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]sourceInfo(nil), c.sources...), nil
}

func (c *fakePulseClient) SinkInputList() ([]sinkInputInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]sinkInputInfo(nil), c.inputs...), nil
}

func (c *fakePulseClient) SourceOutputList() ([]sourceOutputInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]sourceOutputInfo(nil), c.outputs...), nil
}

func (c *fakePulseClient) ServerInfo() (serverInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.server, nil
}

func (c *fakePulseClient) SetSinkVolume(index uint32, volume []uint32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setSinkVolumeCalls = append(c.setSinkVolumeCalls, fakeVolumeCall{index, volume})
	return nil
}

func (c *fakePulseClient) SetSinkMute(index uint32, mute bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setSinkMuteCalls = append(c.setSinkMuteCalls, fakeMuteCall{index, mute})
	return nil
}

func (c *fakePulseClient) SetSourceVolume(index uint32, volume []uint32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setSourceVolumeCalls = append(c.setSourceVolumeCalls, fakeVolumeCall{index, volume})
	return nil
}

func (c *fakePulseClient) SetSourceMute(index uint32, mute bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setSourceMuteCalls = append(c.setSourceMuteCalls, fakeMuteCall{index, mute})
	return nil
}

func (c *fakePulseClient) SetSinkInputVolume(index uint32, volume []uint32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setSinkInputVolume = append(c.setSinkInputVolume, fakeVolumeCall{index, volume})
	return nil
}

func (c *fakePulseClient) SetSinkInputMute(index uint32, mute bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setSinkInputMute = append(c.setSinkInputMute, fakeMuteCall{index, mute})
	return nil
}

func (c *fakePulseClient) MoveSinkInput(index, sinkIndex uint32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.moveSinkInputCalls = append(c.moveSinkInputCalls, fakeMoveCall{index, sinkIndex})
	return nil
}

func (c *fakePulseClient) SetSourceOutputVolume(index uint32, volume []uint32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setSourceOutputVolume = append(c.setSourceOutputVolume, fakeVolumeCall{index, volume})
	return nil
}

func (c *fakePulseClient) SetSourceOutputMute(index uint32, mute bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setSourceOutputMute = append(c.setSourceOutputMute, fakeMuteCall{index, mute})
	return nil
}

func (c *fakePulseClient) MoveSourceOutput(index, sourceIndex uint32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.moveSourceOutputCalls = append(c.moveSourceOutputCalls, fakeMoveCall{index, sourceIndex})
	return nil
}

func (c *fakePulseClient) SetDefaultSink(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.defaultSink = append(c.defaultSink, name)
	return nil
}

func (c *fakePulseClient) SetDefaultSource(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.defaultSource = append(c.defaultSource, name)
	return nil
}
