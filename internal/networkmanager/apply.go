package networkmanager

import "github.com/godbus/dbus/v5"

func variantString(v dbus.Variant) string {
	s, _ := v.Value().(string)
	return s
}

func variantUint32(v dbus.Variant) uint32 {
	switch n := v.Value().(type) {
	case uint32:
		return n
	case int32:
		return uint32(n)
	default:
		return 0
	}
}

func variantInt32(v dbus.Variant) int32 {
	switch n := v.Value().(type) {
	case int32:
		return n
	case uint32:
		return int32(n)
	default:
		return 0
	}
}

func variantInt64(v dbus.Variant) int64 {
	switch n := v.Value().(type) {
	case int64:
		return n
	case uint64:
		return int64(n)
	default:
		return 0
	}
}

func variantByte(v dbus.Variant) uint8 {
	switch n := v.Value().(type) {
	case byte:
		return n
	case uint32:
		return uint8(n)
	default:
		return 0
	}
}

func variantBool(v dbus.Variant) bool {
	b, _ := v.Value().(bool)
	return b
}

func variantBytes(v dbus.Variant) []byte {
	b, _ := v.Value().([]byte)
	return b
}

func variantPath(v dbus.Variant) dbus.ObjectPath {
	p, _ := v.Value().(dbus.ObjectPath)
	return p
}

func variantPaths(v dbus.Variant) PathSet {
	switch ps := v.Value().(type) {
	case []dbus.ObjectPath:
		out := make(PathSet, len(ps))
		copy(out, ps)
		return out
	default:
		return nil
	}
}

func variantStrings(v dbus.Variant) StringList {
	ss, _ := v.Value().([]string)
	if ss == nil {
		return nil
	}
	out := make(StringList, len(ss))
	copy(out, ss)
	return out
}

// applyDeviceProps applies a PropertiesChanged diff from
// org.freedesktop.NetworkManager.Device to a Device's reactive fields.
func applyDeviceProps(d *Device, changed map[string]dbus.Variant) {
	if v, ok := changed["Interface"]; ok {
		d.Interface.Set(variantString(v))
	}
	if v, ok := changed["Driver"]; ok {
		d.Driver.Set(variantString(v))
	}
	if v, ok := changed["FirmwareVersion"]; ok {
		d.FirmwareVersion.Set(variantString(v))
	}
	if v, ok := changed["State"]; ok {
		d.State.Set(DeviceState(variantUint32(v)))
	}
	if v, ok := changed["HwAddress"]; ok {
		d.HwAddress.Set(variantString(v))
	}
	if v, ok := changed["Mtu"]; ok {
		d.Mtu.Set(variantUint32(v))
	}
	if v, ok := changed["Managed"]; ok {
		d.Managed.Set(variantBool(v))
	}
	if v, ok := changed["Autoconnect"]; ok {
		d.Autoconnect.Set(variantBool(v))
	}
	if v, ok := changed["Metered"]; ok {
		d.Metered.Set(Metered(variantUint32(v)))
	}
	if v, ok := changed["ActiveConnection"]; ok {
		d.ActiveConnection.Set(variantPath(v))
	}
	if v, ok := changed["Ip4Config"]; ok {
		d.IP4Config.Set(variantPath(v))
	}
	if v, ok := changed["Ip6Config"]; ok {
		d.IP6Config.Set(variantPath(v))
	}
	if v, ok := changed["Dhcp4Config"]; ok {
		d.Dhcp4Config.Set(variantPath(v))
	}
	if v, ok := changed["Dhcp6Config"]; ok {
		d.Dhcp6Config.Set(variantPath(v))
	}
}

// applyWifiProps applies a PropertiesChanged diff from
// org.freedesktop.NetworkManager.Device.Wireless to a Wifi's fields not
// covered by applyDeviceProps.
func applyWifiProps(w *Wifi, changed map[string]dbus.Variant) {
	if v, ok := changed["Mode"]; ok {
		w.Mode.Set(variantString(v))
	}
	if v, ok := changed["Bitrate"]; ok {
		w.Bitrate.Set(variantUint32(v))
	}
	if v, ok := changed["ActiveAccessPoint"]; ok {
		w.ActiveAccessPoint.Set(variantPath(v))
	}
	if v, ok := changed["AccessPoints"]; ok {
		w.AccessPoints.Set(variantPaths(v))
	}
	if v, ok := changed["LastScan"]; ok {
		w.LastScan.Set(variantInt64(v))
	}
}

// applyWiredProps applies a PropertiesChanged diff from
// org.freedesktop.NetworkManager.Device.Wired to a Wired's fields not
// covered by applyDeviceProps.
func applyWiredProps(w *Wired, changed map[string]dbus.Variant) {
	if v, ok := changed["Speed"]; ok {
		w.Speed.Set(variantUint32(v))
	}
}

// applyAccessPointProps applies a PropertiesChanged diff from
// org.freedesktop.NetworkManager.AccessPoint, then recomputes the
// derived Security/IsHidden fields.
func applyAccessPointProps(ap *AccessPoint, changed map[string]dbus.Variant) {
	touched := false
	if v, ok := changed["Flags"]; ok {
		ap.Flags.Set(NM80211ApFlags(variantUint32(v)))
		touched = true
	}
	if v, ok := changed["WpaFlags"]; ok {
		ap.WpaFlags.Set(NM80211ApSecurityFlags(variantUint32(v)))
		touched = true
	}
	if v, ok := changed["RsnFlags"]; ok {
		ap.RsnFlags.Set(NM80211ApSecurityFlags(variantUint32(v)))
		touched = true
	}
	if v, ok := changed["Frequency"]; ok {
		ap.Frequency.Set(variantUint32(v))
	}
	if v, ok := changed["Mode"]; ok {
		ap.Mode.Set(variantString(v))
	}
	if v, ok := changed["MaxBitrate"]; ok {
		ap.MaxBitrate.Set(variantUint32(v))
	}
	if v, ok := changed["Strength"]; ok {
		ap.Strength.Set(variantByte(v))
	}
	if v, ok := changed["LastSeen"]; ok {
		ap.LastSeen.Set(variantInt32(v))
	}
	if v, ok := changed["Ssid"]; ok {
		ap.SSIDRaw = variantBytes(v)
		touched = true
	}
	if touched {
		ap.recomputeDerived()
	}
}

func applyIP4ConfigProps(c *IP4Config, changed map[string]dbus.Variant) {
	if v, ok := changed["Gateway"]; ok {
		c.Gateway.Set(variantString(v))
	}
	if v, ok := changed["Domains"]; ok {
		c.Domains.Set(variantStrings(v))
	}
}

func applyIP6ConfigProps(c *IP6Config, changed map[string]dbus.Variant) {
	if v, ok := changed["Gateway"]; ok {
		c.Gateway.Set(variantString(v))
	}
	if v, ok := changed["Domains"]; ok {
		c.Domains.Set(variantStrings(v))
	}
}

func applyActiveConnectionProps(c *ActiveConnection, changed map[string]dbus.Variant) {
	if v, ok := changed["State"]; ok {
		c.State.Set(variantUint32(v))
	}
	if v, ok := changed["Default"]; ok {
		c.Default.Set(variantBool(v))
	}
	if v, ok := changed["Default6"]; ok {
		c.Default6.Set(variantBool(v))
	}
	if v, ok := changed["Devices"]; ok {
		c.Devices.Set(variantPaths(v))
	}
	if v, ok := changed["Ip4Config"]; ok {
		c.IP4Config.Set(variantPath(v))
	}
	if v, ok := changed["Ip6Config"]; ok {
		c.IP6Config.Set(variantPath(v))
	}
}
