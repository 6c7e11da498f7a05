package networkmanager

import (
	"context"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func startedServiceWithWifiAP(t *testing.T, ssid string) (*Service, *fakeDBusClient) {
	t.Helper()
	client := newFakeDBusClient()
	client.addDevice("/device/0", deviceIface, defaultWifiDeviceProps())
	client.addDevice("/device/0", wirelessIface, map[string]any{
		"PermHwAddress": "x",
		"AccessPoints":  []dbus.ObjectPath{"/ap/0"},
	})
	client.addAccessPoint("/ap/0", map[string]any{
		"Ssid":      []byte(ssid),
		"HwAddress": "11:22:33:44:55:66",
	})

	s := NewService(zap.NewNop(), client)
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(func() { s.Stop() })
	return s, client
}

func TestWifiControls_Connect_PinsBSSIDForManufacturerDefaultSSID(t *testing.T) {
	s, client := startedServiceWithWifiAP(t, "NETGEAR")
	controls := NewWifiControls(s, client)

	active, err := controls.Connect("/device/0", "/ap/0", "")
	require.NoError(t, err)
	assert.Equal(t, dbus.ObjectPath("/active/0"), active)

	call := client.calls[len(client.calls)-1]
	assert.Equal(t, nmIface+".AddAndActivateConnection", call.method)
	settings := call.args[0].(map[string]map[string]dbus.Variant)
	bssid, pinned := settings["802-11-wireless"]["bssid"]
	require.True(t, pinned, "manufacturer-default SSID must be pinned to BSSID")
	assert.Equal(t, []byte{0x11, 0x22, 0x33, 0x44, 0x55, 0x66}, bssid.Value())
	_, hasSecurity := settings["802-11-wireless-security"]
	assert.False(t, hasSecurity, "empty password must yield an open profile")
}

func TestMacBytes_ParsesColonSeparatedHex(t *testing.T) {
	b, err := macBytes("AA:BB:CC:DD:EE:FF")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF}, b)
}

func TestMacBytes_RejectsMalformedInput(t *testing.T) {
	_, err := macBytes("not-a-mac")
	assert.Error(t, err)
}

func TestWifiControls_Connect_LeavesCustomSSIDUnpinned(t *testing.T) {
	s, client := startedServiceWithWifiAP(t, "MyHomeNetwork")
	controls := NewWifiControls(s, client)

	_, err := controls.Connect("/device/0", "/ap/0", "hunter2")
	require.NoError(t, err)

	call := client.calls[len(client.calls)-1]
	settings := call.args[0].(map[string]map[string]dbus.Variant)
	_, pinned := settings["802-11-wireless"]["bssid"]
	assert.False(t, pinned, "non-default SSID must not be pinned")
	security := settings["802-11-wireless-security"]
	require.NotNil(t, security)
	keyMgmt, _ := security["key-mgmt"].Value().(string)
	assert.Equal(t, "wpa-psk", keyMgmt)
}

func TestWifiControls_Connect_UnknownAccessPointErrors(t *testing.T) {
	s, client := startedServiceWithWifiAP(t, "home")
	controls := NewWifiControls(s, client)

	_, err := controls.Connect("/device/0", "/ap/missing", "")
	assert.ErrorIs(t, err, ErrAccessPointNotFound)
}

func TestConnectionControls_DeactivateIssuesCorrectCall(t *testing.T) {
	client := newFakeDBusClient()
	controls := NewConnectionControls(client)

	require.NoError(t, controls.Deactivate("/active/0"))
	require.Len(t, client.calls, 1)
	assert.Equal(t, nmIface+".DeactivateConnection", client.calls[0].method)
}

func TestConnectionControls_DeleteIssuesCorrectCall(t *testing.T) {
	client := newFakeDBusClient()
	controls := NewConnectionControls(client)

	require.NoError(t, controls.Delete("/conn/0"))
	require.Len(t, client.calls, 1)
	assert.Equal(t, settingsConnIface+".Delete", client.calls[0].method)
	assert.Equal(t, dbus.ObjectPath("/conn/0"), client.calls[0].path)
}

func TestDeviceControls_DisconnectIssuesCorrectCall(t *testing.T) {
	client := newFakeDBusClient()
	controls := NewDeviceControls(client)

	require.NoError(t, controls.Disconnect("/device/0"))
	require.Len(t, client.calls, 1)
	assert.Equal(t, deviceIface+".Disconnect", client.calls[0].method)
}
