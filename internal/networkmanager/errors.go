package networkmanager

import (
	"errors"
	"fmt"
)

// ErrDeviceNotFound is returned when a device path is not in the live set.
var ErrDeviceNotFound = errors.New("networkmanager: device not found")

// ErrAccessPointNotFound is returned when an access point path is not in
// the live set.
var ErrAccessPointNotFound = errors.New("networkmanager: access point not found")

// ErrInvalidPath is returned when an object path string is malformed.
var ErrInvalidPath = errors.New("networkmanager: invalid object path")

// ErrNotWifi is returned when a wifi-only operation targets a non-wifi
// device.
var ErrNotWifi = errors.New("networkmanager: device is not a wifi device")

// OperationNotSupportedError reports a control call rejected because the
// target device or connection does not support it.
type OperationNotSupportedError struct {
	Op string
}

func (e *OperationNotSupportedError) Error() string {
	return fmt.Sprintf("networkmanager: operation not supported: %s", e.Op)
}
