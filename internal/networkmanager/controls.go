package networkmanager

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/godbus/dbus/v5"
)

// manufacturerDefaultSSIDs lists SSIDs that ship as a router's unchanged
// factory default. Connecting to one of these by SSID alone risks
// joining a neighbor's access point with the same default name, so
// WifiControls pins the resulting profile to the specific AP's BSSID
// instead of leaving it SSID-only.
var manufacturerDefaultSSIDs = []string{
	"linksys", "linksys-a", "linksys-g", "default", "belkin54g",
	"NETGEAR", "o2DSL", "WLAN", "ALICE-WLAN",
}

func isManufacturerDefaultSSID(ssid string) bool {
	for _, s := range manufacturerDefaultSSIDs {
		if s == ssid {
			return true
		}
	}
	return false
}

// WifiControls builds and activates wifi connection profiles.
type WifiControls struct {
	service *Service
	client  DBusClient
}

// NewWifiControls builds a WifiControls facade.
func NewWifiControls(service *Service, client DBusClient) *WifiControls {
	return &WifiControls{service: service, client: client}
}

// Connect derives a connection profile for the access point at apPath
// and activates it on device devicePath. A manufacturer-default SSID is
// pinned to the AP's BSSID to avoid joining a neighbor's AP with the
// same default name; any other SSID is left unpinned so NetworkManager
// can roam between the access points of a single ESS. An empty password
// yields an open-network profile; a non-empty one selects WPA-PSK key
// management.
func (c *WifiControls) Connect(devicePath, apPath dbus.ObjectPath, password string) (dbus.ObjectPath, error) {
	ap, err := c.service.AccessPoint(apPath)
	if err != nil {
		return "", err
	}

	wirelessSettings := map[string]dbus.Variant{
		"ssid": dbus.MakeVariant(ap.SSIDRaw),
	}
	if isManufacturerDefaultSSID(ap.SSID()) {
		mac, err := macBytes(ap.BSSID)
		if err != nil {
			return "", fmt.Errorf("networkmanager: parse bssid %q: %w", ap.BSSID, err)
		}
		wirelessSettings["bssid"] = dbus.MakeVariant(mac)
	}

	settings := map[string]map[string]dbus.Variant{
		"connection": {
			"type": dbus.MakeVariant("802-11-wireless"),
		},
		"802-11-wireless": wirelessSettings,
	}

	if password != "" {
		settings["802-11-wireless"]["security"] = dbus.MakeVariant("802-11-wireless-security")
		settings["802-11-wireless-security"] = map[string]dbus.Variant{
			"key-mgmt": dbus.MakeVariant("wpa-psk"),
			"psk":      dbus.MakeVariant(password),
		}
	}

	var connPath, activePath dbus.ObjectPath
	call := c.client.Call(busName, nmPath, nmIface+".AddAndActivateConnection", settings, devicePath, apPath)
	if err := call.Store(&connPath, &activePath); err != nil {
		return "", err
	}
	return activePath, nil
}

// macBytes parses a colon-separated MAC address (as NetworkManager reports
// BSSIDs, e.g. "AA:BB:CC:DD:EE:FF") into the 6 raw bytes the "bssid" setting
// key requires; it is declared as a D-Bus byte array (ay), never the
// textual form.
func macBytes(bssid string) ([]byte, error) {
	parts := strings.Split(bssid, ":")
	if len(parts) != 6 {
		return nil, fmt.Errorf("expected 6 colon-separated octets, got %d", len(parts))
	}
	out := make([]byte, 6)
	for i, part := range parts {
		b, err := strconv.ParseUint(part, 16, 8)
		if err != nil {
			return nil, fmt.Errorf("octet %d: %w", i, err)
		}
		out[i] = byte(b)
	}
	return out, nil
}

// DeviceControls issues device-scoped connection lifecycle calls.
type DeviceControls struct {
	client DBusClient
}

// NewDeviceControls builds a DeviceControls facade.
func NewDeviceControls(client DBusClient) *DeviceControls {
	return &DeviceControls{client: client}
}

// Disconnect deactivates whatever connection is currently active on
// devicePath.
func (c *DeviceControls) Disconnect(devicePath dbus.ObjectPath) error {
	call := c.client.Call(busName, devicePath, deviceIface+".Disconnect")
	return call.Err
}

// ConnectionControls issues active/settings-connection lifecycle calls.
type ConnectionControls struct {
	client DBusClient
}

// NewConnectionControls builds a ConnectionControls facade.
func NewConnectionControls(client DBusClient) *ConnectionControls {
	return &ConnectionControls{client: client}
}

// Activate brings up an already-defined settings connection on devicePath.
func (c *ConnectionControls) Activate(connPath, devicePath dbus.ObjectPath) (dbus.ObjectPath, error) {
	var activePath dbus.ObjectPath
	call := c.client.Call(busName, nmPath, nmIface+".ActivateConnection", connPath, devicePath, dbus.ObjectPath("/"))
	if err := call.Store(&activePath); err != nil {
		return "", err
	}
	return activePath, nil
}

// Deactivate tears down the active connection at activePath.
func (c *ConnectionControls) Deactivate(activePath dbus.ObjectPath) error {
	call := c.client.Call(busName, nmPath, nmIface+".DeactivateConnection", activePath)
	return call.Err
}

// Delete removes a settings connection profile permanently.
func (c *ConnectionControls) Delete(connPath dbus.ObjectPath) error {
	call := c.client.Call(busName, connPath, settingsConnIface+".Delete")
	return call.Err
}

// UpdateSettings replaces a settings connection's configuration.
func (c *ConnectionControls) UpdateSettings(connPath dbus.ObjectPath, settings map[string]map[string]dbus.Variant) error {
	call := c.client.Call(busName, connPath, settingsConnIface+".Update", settings)
	return call.Err
}
