// Package networkmanager mirrors the live org.freedesktop.NetworkManager
// object tree — devices, access points, active and settings connections,
// IP/DHCP configs — as reactive domain objects, and exposes connect/
// disconnect control facades over them.
package networkmanager

import (
	"slices"

	"github.com/godbus/dbus/v5"
	"github.com/haldis-dev/deskd/internal/reactive"
)

// PathSet is a slice of D-Bus object paths with value equality, letting
// it back a reactive.ObjectProperty.
type PathSet []dbus.ObjectPath

func (s PathSet) Equal(other PathSet) bool { return slices.Equal(s, other) }

// StringList is a slice of strings with value equality, letting it back
// a reactive.ObjectProperty (IP addresses, nameservers, search domains).
type StringList []string

func (s StringList) Equal(other StringList) bool { return slices.Equal(s, other) }

// StringMap is a map of strings with value equality, used for DHCP lease
// option dumps.
type StringMap map[string]string

func (m StringMap) Equal(other StringMap) bool {
	if len(m) != len(other) {
		return false
	}
	for k, v := range m {
		if ov, ok := other[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// Device is the common surface shared by every NetworkManager device,
// regardless of transport. Wifi and Wired extend it by embedding.
type Device struct {
	Path       dbus.ObjectPath
	DeviceType DeviceType // identity, fixed for the device's lifetime

	Interface        *reactive.Property[string]
	Driver           *reactive.Property[string]
	FirmwareVersion  *reactive.Property[string]
	State            *reactive.Property[DeviceState]
	HwAddress        *reactive.Property[string]
	Mtu              *reactive.Property[uint32]
	Managed          *reactive.Property[bool]
	Autoconnect      *reactive.Property[bool]
	Metered          *reactive.Property[Metered]
	ActiveConnection *reactive.Property[dbus.ObjectPath]
	IP4Config        *reactive.Property[dbus.ObjectPath]
	IP6Config        *reactive.Property[dbus.ObjectPath]
	Dhcp4Config      *reactive.Property[dbus.ObjectPath]
	Dhcp6Config      *reactive.Property[dbus.ObjectPath]
}

func newDevice(path dbus.ObjectPath, devType DeviceType) *Device {
	return &Device{
		Path:             path,
		DeviceType:       devType,
		Interface:        reactive.NewProperty(""),
		Driver:           reactive.NewProperty(""),
		FirmwareVersion:  reactive.NewProperty(""),
		State:            reactive.NewProperty(DeviceStateUnknown),
		HwAddress:        reactive.NewProperty(""),
		Mtu:              reactive.NewProperty[uint32](0),
		Managed:          reactive.NewProperty(false),
		Autoconnect:      reactive.NewProperty(false),
		Metered:          reactive.NewProperty(MeteredUnknown),
		ActiveConnection: reactive.NewProperty[dbus.ObjectPath](""),
		IP4Config:        reactive.NewProperty[dbus.ObjectPath](""),
		IP6Config:        reactive.NewProperty[dbus.ObjectPath](""),
		Dhcp4Config:      reactive.NewProperty[dbus.ObjectPath](""),
		Dhcp6Config:      reactive.NewProperty[dbus.ObjectPath](""),
	}
}

// Wifi is a wireless NetworkManager device.
type Wifi struct {
	*Device
	PermHwAddress string // identity, fixed

	Mode              *reactive.Property[string]
	Bitrate           *reactive.Property[uint32]
	ActiveAccessPoint *reactive.Property[dbus.ObjectPath]
	AccessPoints      *reactive.ObjectProperty[PathSet]
	LastScan          *reactive.Property[int64]
}

func newWifi(base *Device, permHwAddress string) *Wifi {
	return &Wifi{
		Device:            base,
		PermHwAddress:     permHwAddress,
		Mode:              reactive.NewProperty(""),
		Bitrate:           reactive.NewProperty[uint32](0),
		ActiveAccessPoint: reactive.NewProperty[dbus.ObjectPath](""),
		AccessPoints:      reactive.NewObjectProperty[PathSet](nil),
		LastScan:          reactive.NewProperty[int64](-1),
	}
}

// Wired is an ethernet-family NetworkManager device.
type Wired struct {
	*Device
	PermHwAddress string // identity, fixed

	Speed *reactive.Property[uint32] // design speed, Mbps
}

func newWired(base *Device, permHwAddress string) *Wired {
	return &Wired{
		Device:        base,
		PermHwAddress: permHwAddress,
		Speed:         reactive.NewProperty[uint32](0),
	}
}

// AccessPoint is a scanned or connected WiFi access point. Security and
// IsHidden are derived fields recomputed from Flags/WpaFlags/RsnFlags
// and SSID respectively whenever those inputs change.
type AccessPoint struct {
	Path     dbus.ObjectPath
	SSIDRaw  []byte // identity as broadcast; may be empty for a hidden AP
	BSSID    string // identity, fixed

	Flags      *reactive.Property[NM80211ApFlags]
	WpaFlags   *reactive.Property[NM80211ApSecurityFlags]
	RsnFlags   *reactive.Property[NM80211ApSecurityFlags]
	Frequency  *reactive.Property[uint32]
	Mode       *reactive.Property[string]
	MaxBitrate *reactive.Property[uint32]
	Strength   *reactive.Property[uint8]
	LastSeen   *reactive.Property[int32]
	Security   *reactive.Property[SecurityType]
	IsHidden   *reactive.Property[bool]
}

// SSID returns a best-effort UTF-8 view of the access point's raw SSID
// bytes; invalid sequences are replaced per the standard library's usual
// string(byteSlice) conversion.
func (ap *AccessPoint) SSID() string { return string(ap.SSIDRaw) }

func newAccessPoint(path dbus.ObjectPath, ssidRaw []byte, bssid string) *AccessPoint {
	return &AccessPoint{
		Path:       path,
		SSIDRaw:    ssidRaw,
		BSSID:      bssid,
		Flags:      reactive.NewProperty(ApFlagsNone),
		WpaFlags:   reactive.NewProperty(ApSecNone),
		RsnFlags:   reactive.NewProperty(ApSecNone),
		Frequency:  reactive.NewProperty[uint32](0),
		Mode:       reactive.NewProperty(""),
		MaxBitrate: reactive.NewProperty[uint32](0),
		Strength:   reactive.NewProperty[uint8](0),
		LastSeen:   reactive.NewProperty[int32](-1),
		Security:   reactive.NewProperty(SecurityOpen),
		IsHidden:   reactive.NewProperty(len(ssidRaw) == 0),
	}
}

// recomputeDerived recalculates Security and IsHidden from the access
// point's current flags and SSID, per spec: "Derived fields (security,
// is_hidden) are recomputed whenever their inputs change."
func (ap *AccessPoint) recomputeDerived() {
	ap.Security.Set(deriveSecurityType(ap.Flags.Get(), ap.WpaFlags.Get(), ap.RsnFlags.Get()))
	ap.IsHidden.Set(len(ap.SSIDRaw) == 0)
}

// ActiveConnection mirrors org.freedesktop.NetworkManager.Connection.Active.
type ActiveConnection struct {
	Path dbus.ObjectPath

	ID             *reactive.Property[string]
	UUID           *reactive.Property[string]
	Type           *reactive.Property[string]
	State          *reactive.Property[uint32]
	Default        *reactive.Property[bool]
	Default6       *reactive.Property[bool]
	Devices        *reactive.ObjectProperty[PathSet]
	SpecificObject *reactive.Property[dbus.ObjectPath]
	IP4Config      *reactive.Property[dbus.ObjectPath]
	IP6Config      *reactive.Property[dbus.ObjectPath]
	Dhcp4Config    *reactive.Property[dbus.ObjectPath]
	Dhcp6Config    *reactive.Property[dbus.ObjectPath]
}

func newActiveConnection(path dbus.ObjectPath) *ActiveConnection {
	return &ActiveConnection{
		Path:           path,
		ID:             reactive.NewProperty(""),
		UUID:           reactive.NewProperty(""),
		Type:           reactive.NewProperty(""),
		State:          reactive.NewProperty[uint32](0),
		Default:        reactive.NewProperty(false),
		Default6:       reactive.NewProperty(false),
		Devices:        reactive.NewObjectProperty[PathSet](nil),
		SpecificObject: reactive.NewProperty[dbus.ObjectPath](""),
		IP4Config:      reactive.NewProperty[dbus.ObjectPath](""),
		IP6Config:      reactive.NewProperty[dbus.ObjectPath](""),
		Dhcp4Config:    reactive.NewProperty[dbus.ObjectPath](""),
		Dhcp6Config:    reactive.NewProperty[dbus.ObjectPath](""),
	}
}

// SettingsConnection mirrors org.freedesktop.NetworkManager.Settings.Connection.
type SettingsConnection struct {
	Path dbus.ObjectPath

	ID         *reactive.Property[string]
	UUID       *reactive.Property[string]
	Type       *reactive.Property[string]
	Autoconnect *reactive.Property[bool]
}

func newSettingsConnection(path dbus.ObjectPath) *SettingsConnection {
	return &SettingsConnection{
		Path:        path,
		ID:          reactive.NewProperty(""),
		UUID:        reactive.NewProperty(""),
		Type:        reactive.NewProperty(""),
		Autoconnect: reactive.NewProperty(false),
	}
}

// IP4Config mirrors org.freedesktop.NetworkManager.IP4Config.
type IP4Config struct {
	Path dbus.ObjectPath

	Addresses   *reactive.ObjectProperty[StringList]
	Gateway     *reactive.Property[string]
	Nameservers *reactive.ObjectProperty[StringList]
	Domains     *reactive.ObjectProperty[StringList]
}

func newIP4Config(path dbus.ObjectPath) *IP4Config {
	return &IP4Config{
		Path:        path,
		Addresses:   reactive.NewObjectProperty[StringList](nil),
		Gateway:     reactive.NewProperty(""),
		Nameservers: reactive.NewObjectProperty[StringList](nil),
		Domains:     reactive.NewObjectProperty[StringList](nil),
	}
}

// IP6Config mirrors org.freedesktop.NetworkManager.IP6Config.
type IP6Config struct {
	Path dbus.ObjectPath

	Addresses   *reactive.ObjectProperty[StringList]
	Gateway     *reactive.Property[string]
	Nameservers *reactive.ObjectProperty[StringList]
	Domains     *reactive.ObjectProperty[StringList]
}

func newIP6Config(path dbus.ObjectPath) *IP6Config {
	return &IP6Config{
		Path:        path,
		Addresses:   reactive.NewObjectProperty[StringList](nil),
		Gateway:     reactive.NewProperty(""),
		Nameservers: reactive.NewObjectProperty[StringList](nil),
		Domains:     reactive.NewObjectProperty[StringList](nil),
	}
}

// DHCP4Config mirrors org.freedesktop.NetworkManager.DHCP4Config.
type DHCP4Config struct {
	Path    dbus.ObjectPath
	Options *reactive.ObjectProperty[StringMap]
}

func newDHCP4Config(path dbus.ObjectPath) *DHCP4Config {
	return &DHCP4Config{Path: path, Options: reactive.NewObjectProperty[StringMap](nil)}
}

// DHCP6Config mirrors org.freedesktop.NetworkManager.DHCP6Config.
type DHCP6Config struct {
	Path    dbus.ObjectPath
	Options *reactive.ObjectProperty[StringMap]
}

func newDHCP6Config(path dbus.ObjectPath) *DHCP6Config {
	return &DHCP6Config{Path: path, Options: reactive.NewObjectProperty[StringMap](nil)}
}
