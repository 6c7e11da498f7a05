package networkmanager

import "github.com/godbus/dbus/v5"

// Event is the sum type broadcast on a Service's event bus.
type Event interface{ isEvent() }

// DeviceAdded announces a newly discovered device.
type DeviceAdded struct{ Path dbus.ObjectPath }

// DeviceRemoved announces a device leaving the live set.
type DeviceRemoved struct{ Path dbus.ObjectPath }

// DeviceStateChanged announces a device's State property changing.
type DeviceStateChanged struct {
	Path  dbus.ObjectPath
	State DeviceState
}

// AccessPointAdded announces a newly scanned access point.
type AccessPointAdded struct{ Path dbus.ObjectPath }

// AccessPointRemoved announces an access point aging out of scan results.
type AccessPointRemoved struct{ Path dbus.ObjectPath }

// AccessPointSecurityChanged announces an access point's derived
// Security field changing, e.g. after a flags update.
type AccessPointSecurityChanged struct {
	Path     dbus.ObjectPath
	Security SecurityType
}

func (DeviceAdded) isEvent()                 {}
func (DeviceRemoved) isEvent()                {}
func (DeviceStateChanged) isEvent()           {}
func (AccessPointAdded) isEvent()             {}
func (AccessPointRemoved) isEvent()           {}
func (AccessPointSecurityChanged) isEvent()   {}
