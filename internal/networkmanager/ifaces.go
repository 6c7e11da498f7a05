package networkmanager

import "github.com/godbus/dbus/v5"

const (
	nmIface        = "org.freedesktop.NetworkManager"
	nmPath         = dbus.ObjectPath("/org/freedesktop/NetworkManager")
	nmSettingsIface = "org.freedesktop.NetworkManager.Settings"
	nmSettingsPath  = dbus.ObjectPath("/org/freedesktop/NetworkManager/Settings")

	deviceIface       = "org.freedesktop.NetworkManager.Device"
	wirelessIface     = "org.freedesktop.NetworkManager.Device.Wireless"
	wiredIface        = "org.freedesktop.NetworkManager.Device.Wired"
	accessPointIface  = "org.freedesktop.NetworkManager.AccessPoint"
	activeConnIface   = "org.freedesktop.NetworkManager.Connection.Active"
	settingsConnIface = "org.freedesktop.NetworkManager.Settings.Connection"
	ip4ConfigIface    = "org.freedesktop.NetworkManager.IP4Config"
	ip6ConfigIface    = "org.freedesktop.NetworkManager.IP6Config"
	dhcp4ConfigIface  = "org.freedesktop.NetworkManager.DHCP4Config"
	dhcp6ConfigIface  = "org.freedesktop.NetworkManager.DHCP6Config"
)
