package networkmanager

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

func (s *Service) fetchDevice(path dbus.ObjectPath) (*Device, error) {
	props, err := s.client.GetAllProperties(busName, path, deviceIface)
	if err != nil {
		return nil, fmt.Errorf("networkmanager: get device properties %s: %w", path, err)
	}
	d := newDevice(path, DeviceType(variantUint32(props["DeviceType"])))
	applyDeviceProps(d, props)
	return d, nil
}

func (s *Service) fetchWifiExtra(path dbus.ObjectPath) (permHwAddress string, props map[string]dbus.Variant, err error) {
	props, err = s.client.GetAllProperties(busName, path, wirelessIface)
	if err != nil {
		return "", nil, fmt.Errorf("networkmanager: get wireless properties %s: %w", path, err)
	}
	return variantString(props["PermHwAddress"]), props, nil
}

func (s *Service) fetchWiredExtra(path dbus.ObjectPath) (permHwAddress string, props map[string]dbus.Variant, err error) {
	props, err = s.client.GetAllProperties(busName, path, wiredIface)
	if err != nil {
		return "", nil, fmt.Errorf("networkmanager: get wired properties %s: %w", path, err)
	}
	return variantString(props["PermHwAddress"]), props, nil
}

func (s *Service) fetchAccessPoint(path dbus.ObjectPath) (*AccessPoint, error) {
	props, err := s.client.GetAllProperties(busName, path, accessPointIface)
	if err != nil {
		return nil, fmt.Errorf("networkmanager: get access point properties %s: %w", path, err)
	}
	ssid := variantBytes(props["Ssid"])
	bssid := variantString(props["HwAddress"])
	ap := newAccessPoint(path, ssid, bssid)
	applyAccessPointProps(ap, props)
	return ap, nil
}

func (s *Service) fetchActiveConnection(path dbus.ObjectPath) (*ActiveConnection, error) {
	props, err := s.client.GetAllProperties(busName, path, activeConnIface)
	if err != nil {
		return nil, fmt.Errorf("networkmanager: get active connection properties %s: %w", path, err)
	}
	c := newActiveConnection(path)
	c.ID.Set(variantString(props["Id"]))
	c.UUID.Set(variantString(props["Uuid"]))
	c.Type.Set(variantString(props["Type"]))
	c.SpecificObject.Set(variantPath(props["SpecificObject"]))
	applyActiveConnectionProps(c, props)
	return c, nil
}

func (s *Service) fetchSettingsConnection(path dbus.ObjectPath) (*SettingsConnection, error) {
	var settings map[string]map[string]dbus.Variant
	call := s.client.Call(busName, path, settingsConnIface+".GetSettings")
	if err := call.Store(&settings); err != nil {
		return nil, fmt.Errorf("networkmanager: get settings %s: %w", path, err)
	}
	conn := settings["connection"]
	sc := newSettingsConnection(path)
	sc.ID.Set(variantString(conn["id"]))
	sc.UUID.Set(variantString(conn["uuid"]))
	sc.Type.Set(variantString(conn["type"]))
	sc.Autoconnect.Set(variantBool(conn["autoconnect"]))
	return sc, nil
}

func (s *Service) fetchIP4Config(path dbus.ObjectPath) (*IP4Config, error) {
	props, err := s.client.GetAllProperties(busName, path, ip4ConfigIface)
	if err != nil {
		return nil, fmt.Errorf("networkmanager: get ip4 config %s: %w", path, err)
	}
	c := newIP4Config(path)
	applyIP4ConfigProps(c, props)
	c.Addresses.Set(addressDataToStrings(props["AddressData"]))
	c.Nameservers.Set(variantStrings(props["Nameservers"]))
	return c, nil
}

func (s *Service) fetchIP6Config(path dbus.ObjectPath) (*IP6Config, error) {
	props, err := s.client.GetAllProperties(busName, path, ip6ConfigIface)
	if err != nil {
		return nil, fmt.Errorf("networkmanager: get ip6 config %s: %w", path, err)
	}
	c := newIP6Config(path)
	applyIP6ConfigProps(c, props)
	c.Addresses.Set(addressDataToStrings(props["AddressData"]))
	return c, nil
}

func (s *Service) fetchDHCP4Config(path dbus.ObjectPath) (*DHCP4Config, error) {
	props, err := s.client.GetAllProperties(busName, path, dhcp4ConfigIface)
	if err != nil {
		return nil, fmt.Errorf("networkmanager: get dhcp4 config %s: %w", path, err)
	}
	c := newDHCP4Config(path)
	c.Options.Set(variantOptions(props["Options"]))
	return c, nil
}

func (s *Service) fetchDHCP6Config(path dbus.ObjectPath) (*DHCP6Config, error) {
	props, err := s.client.GetAllProperties(busName, path, dhcp6ConfigIface)
	if err != nil {
		return nil, fmt.Errorf("networkmanager: get dhcp6 config %s: %w", path, err)
	}
	c := newDHCP6Config(path)
	c.Options.Set(variantOptions(props["Options"]))
	return c, nil
}

// addressDataToStrings flattens NetworkManager's "a{sv}" AddressData
// array (each entry has "address" and "prefix" keys) into "addr/prefix"
// strings.
func addressDataToStrings(v dbus.Variant) StringList {
	entries, ok := v.Value().([]map[string]dbus.Variant)
	if !ok {
		return nil
	}
	out := make(StringList, 0, len(entries))
	for _, e := range entries {
		addr := variantString(e["address"])
		prefix := variantUint32(e["prefix"])
		out = append(out, fmt.Sprintf("%s/%d", addr, prefix))
	}
	return out
}

func variantOptions(v dbus.Variant) StringMap {
	raw, ok := v.Value().(map[string]dbus.Variant)
	if !ok {
		return nil
	}
	out := make(StringMap, len(raw))
	for k, val := range raw {
		out[k] = variantString(val)
	}
	return out
}
