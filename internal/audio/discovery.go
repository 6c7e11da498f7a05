package audio

import "go.uber.org/zap"

func (c *Coordinator) refreshDevices() {
	snapshots := make([]deviceSnapshot, 0, 16)

	if sinks, err := c.client.SinkList(); err == nil {
		for _, s := range sinks {
			snapshots = append(snapshots, deviceSnapshot{
				key:         DeviceKey{Index: s.index, Direction: DirectionOutput},
				name:        s.name,
				description: s.description,
				muted:       s.muted,
				volume:      volumeFromPulse(s.volume),
				activePort:  s.activePort,
			})
		}
	} else {
		c.logger.Warn("sink list failed", zap.Error(err))
	}

	if sources, err := c.client.SourceList(); err == nil {
		for _, s := range sources {
			snapshots = append(snapshots, deviceSnapshot{
				key:         DeviceKey{Index: s.index, Direction: DirectionInput},
				name:        s.name,
				description: s.description,
				muted:       s.muted,
				volume:      volumeFromPulse(s.volume),
				activePort:  s.activePort,
			})
		}
	} else {
		c.logger.Warn("source list failed", zap.Error(err))
	}

	seen := make(map[DeviceKey]bool, len(snapshots))
	for _, snap := range snapshots {
		seen[snap.key] = true
		c.applyDeviceSnapshot(snap)
	}

	c.mu.Lock()
	var removed []DeviceKey
	for key := range c.devices {
		if !seen[key] {
			removed = append(removed, key)
		}
	}
	for _, key := range removed {
		delete(c.devices, key)
	}
	c.mu.Unlock()

	for _, key := range removed {
		c.events.Publish(DeviceRemoved{Key: key})
	}
}

func (c *Coordinator) applyDeviceSnapshot(snap deviceSnapshot) {
	c.mu.Lock()
	device, exists := c.devices[snap.key]
	if !exists {
		device = newDevice(snap.key, snap.name)
		c.devices[snap.key] = device
	}
	c.mu.Unlock()

	oldVolume := device.Volume.Get()
	oldMuted := device.Muted.Get()

	device.Description.Set(snap.description)
	device.Muted.Set(snap.muted)
	device.Volume.Set(snap.volume)
	device.ActivePort.Set(snap.activePort)

	if !exists {
		c.events.Publish(DeviceAdded{Key: snap.key})
		return
	}
	if !oldVolume.Equal(snap.volume) {
		c.events.Publish(DeviceVolumeChanged{Key: snap.key, Volume: snap.volume})
	}
	if oldMuted != snap.muted {
		c.events.Publish(DeviceMuteChanged{Key: snap.key, Muted: snap.muted})
	}
}

func (c *Coordinator) refreshStreams() {
	snapshots := make([]streamSnapshot, 0, 16)

	if inputs, err := c.client.SinkInputList(); err == nil {
		for _, s := range inputs {
			snapshots = append(snapshots, streamSnapshot{
				key:             StreamKey{Index: s.index, Type: StreamPlayback},
				applicationName: s.applicationName,
				name:            s.name,
				deviceIndex:     s.sinkIndex,
				muted:           s.muted,
				volume:          volumeFromPulse(s.volume),
			})
		}
	} else {
		c.logger.Warn("sink input list failed", zap.Error(err))
	}

	if outputs, err := c.client.SourceOutputList(); err == nil {
		for _, s := range outputs {
			snapshots = append(snapshots, streamSnapshot{
				key:             StreamKey{Index: s.index, Type: StreamRecord},
				applicationName: s.applicationName,
				name:            s.name,
				deviceIndex:     s.sourceIndex,
				muted:           s.muted,
				volume:          volumeFromPulse(s.volume),
			})
		}
	} else {
		c.logger.Warn("source output list failed", zap.Error(err))
	}

	seen := make(map[StreamKey]bool, len(snapshots))
	for _, snap := range snapshots {
		seen[snap.key] = true
		c.applyStreamSnapshot(snap)
	}

	c.mu.Lock()
	var removed []StreamKey
	for key := range c.streams {
		if !seen[key] {
			removed = append(removed, key)
		}
	}
	for _, key := range removed {
		delete(c.streams, key)
	}
	c.mu.Unlock()

	for _, key := range removed {
		c.events.Publish(StreamRemoved{Key: key})
	}
}

func (c *Coordinator) applyStreamSnapshot(snap streamSnapshot) {
	c.mu.Lock()
	stream, exists := c.streams[snap.key]
	if !exists {
		stream = newStream(snap.key, snap.applicationName)
		c.streams[snap.key] = stream
	}
	c.mu.Unlock()

	oldVolume := stream.Volume.Get()
	oldMuted := stream.Muted.Get()

	stream.Name.Set(snap.name)
	stream.DeviceIndex.Set(snap.deviceIndex)
	stream.Muted.Set(snap.muted)
	stream.Volume.Set(snap.volume)

	if !exists {
		c.events.Publish(StreamAdded{Key: snap.key})
		return
	}
	if !oldVolume.Equal(snap.volume) {
		c.events.Publish(StreamVolumeChanged{Key: snap.key, Volume: snap.volume})
	}
	if oldMuted != snap.muted {
		c.events.Publish(StreamMuteChanged{Key: snap.key, Muted: snap.muted})
	}
}

func (c *Coordinator) refreshServerInfo() {
	info, err := c.client.ServerInfo()
	if err != nil {
		c.logger.Warn("server info failed", zap.Error(err))
		return
	}

	c.mu.Lock()
	changedOutput := info.defaultSinkName != c.defaultOutput
	changedInput := info.defaultSourceName != c.defaultInput
	c.defaultOutput = info.defaultSinkName
	c.defaultInput = info.defaultSourceName

	var outputKey, inputKey DeviceKey
	var haveOutput, haveInput bool
	for key, d := range c.devices {
		if key.Direction == DirectionOutput && d.Name == info.defaultSinkName {
			outputKey, haveOutput = key, true
		}
		if key.Direction == DirectionInput && d.Name == info.defaultSourceName {
			inputKey, haveInput = key, true
		}
	}
	c.mu.Unlock()

	if changedOutput && haveOutput {
		c.events.Publish(DefaultOutputChanged{Key: outputKey})
	}
	if changedInput && haveInput {
		c.events.Publish(DefaultInputChanged{Key: inputKey})
	}
}
