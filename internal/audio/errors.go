package audio

import "errors"

// ErrDeviceNotFound is returned when a device key is not in the live set.
var ErrDeviceNotFound = errors.New("audio: device not found")

// ErrStreamNotFound is returned when a stream key is not in the live set.
var ErrStreamNotFound = errors.New("audio: stream not found")

// errCommandQueueFull is returned when the coordinator's external command
// channel is saturated and a control facade cannot enqueue a command.
var errCommandQueueFull = errors.New("audio: command queue full")
