// Package audio mirrors the live PulseAudio/PipeWire device and stream
// set as reactive domain objects, driven from one dedicated OS thread
// that owns the native-protocol client connection.
package audio

import (
	"github.com/haldis-dev/deskd/internal/domain"
	"github.com/haldis-dev/deskd/internal/reactive"
)

// Direction distinguishes a playback sink from a capture source; device
// indices are not unique across the two, so every device key carries
// one.
type Direction string

const (
	DirectionOutput Direction = "output"
	DirectionInput  Direction = "input"
)

// StreamType distinguishes a sink-input (playback) stream from a
// source-output (record) stream; indices are not unique across the two.
type StreamType string

const (
	StreamPlayback StreamType = "playback"
	StreamRecord   StreamType = "record"
)

// DeviceKey identifies a device uniquely across both directions.
type DeviceKey struct {
	Index     uint32
	Direction Direction
}

// StreamKey identifies a stream uniquely across both stream types.
type StreamKey struct {
	Index uint32
	Type  StreamType
}

// Volume is the per-channel level vector shared across every backend
// service; see domain.Volume.
type Volume = domain.Volume

// NewVolume builds a Volume from per-channel levels.
func NewVolume(levels ...float64) Volume {
	return domain.NewVolume(levels)
}

// Device is a reactive mirror of one PulseAudio sink or source.
type Device struct {
	Key         DeviceKey
	Name        string // identity, fixed for the device's lifetime
	Description *reactive.Property[string]
	Muted       *reactive.Property[bool]
	Volume      *reactive.ObjectProperty[Volume]
	ActivePort  *reactive.Property[string]
}

func newDevice(key DeviceKey, name string) *Device {
	return &Device{
		Key:         key,
		Name:        name,
		Description: reactive.NewProperty(""),
		Muted:       reactive.NewProperty(false),
		Volume:      reactive.NewObjectProperty(NewVolume()),
		ActivePort:  reactive.NewProperty(""),
	}
}

// Stream is a reactive mirror of one PulseAudio sink-input or
// source-output.
type Stream struct {
	Key             StreamKey
	ApplicationName string // identity, fixed for the stream's lifetime
	Name            *reactive.Property[string]
	DeviceIndex     *reactive.Property[uint32]
	Muted           *reactive.Property[bool]
	Volume          *reactive.ObjectProperty[Volume]
}

func newStream(key StreamKey, applicationName string) *Stream {
	return &Stream{
		Key:             key,
		ApplicationName: applicationName,
		Name:            reactive.NewProperty(""),
		DeviceIndex:     reactive.NewProperty[uint32](0),
		Muted:           reactive.NewProperty(false),
		Volume:          reactive.NewObjectProperty(NewVolume()),
	}
}

// deviceSnapshot and streamSnapshot are the plain-data forms of a Device
// or Stream fetched from the backend in one discovery pass, before being
// diffed against the live registry.
type deviceSnapshot struct {
	key         DeviceKey
	name        string
	description string
	muted       bool
	volume      Volume
	activePort  string
}

type streamSnapshot struct {
	key             StreamKey
	applicationName string
	name            string
	deviceIndex     uint32
	muted           bool
	volume          Volume
}
