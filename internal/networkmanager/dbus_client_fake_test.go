package networkmanager

import (
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
)

// fakeDBusClient is a hand-written in-memory stand-in for DBusClient,
// keyed by object path and interface, driving discovery and control
// tests without a real system bus.
type fakeDBusClient struct {
	mu         sync.Mutex
	devicePaths []dbus.ObjectPath
	props      map[dbus.ObjectPath]map[string]map[string]dbus.Variant
	settings   map[dbus.ObjectPath]map[string]map[string]dbus.Variant
	signalCh   chan<- *dbus.Signal
	calls      []fakeCall
	closed     bool
}

type fakeCall struct {
	path   dbus.ObjectPath
	method string
	args   []any
}

func newFakeDBusClient() *fakeDBusClient {
	return &fakeDBusClient{
		props:    make(map[dbus.ObjectPath]map[string]map[string]dbus.Variant),
		settings: make(map[dbus.ObjectPath]map[string]map[string]dbus.Variant),
	}
}

func (f *fakeDBusClient) addDevice(path dbus.ObjectPath, iface string, props map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.devicePaths = append(f.devicePaths, path)
	f.setProps(path, iface, props)
}

func (f *fakeDBusClient) setProps(path dbus.ObjectPath, iface string, props map[string]any) {
	if f.props[path] == nil {
		f.props[path] = make(map[string]map[string]dbus.Variant)
	}
	converted := make(map[string]dbus.Variant, len(props))
	for k, v := range props {
		converted[k] = dbus.MakeVariant(v)
	}
	f.props[path][iface] = converted
}

func (f *fakeDBusClient) addAccessPoint(path dbus.ObjectPath, props map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setProps(path, accessPointIface, props)
}

func (f *fakeDBusClient) emit(sig *dbus.Signal) {
	f.mu.Lock()
	ch := f.signalCh
	f.mu.Unlock()
	if ch != nil {
		ch <- sig
	}
}

func (f *fakeDBusClient) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeDBusClient) AddMatchSignal(options ...dbus.MatchOption) error { return nil }

func (f *fakeDBusClient) Signal(ch chan<- *dbus.Signal) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signalCh = ch
}

func (f *fakeDBusClient) GetProperty(target string, path dbus.ObjectPath, iface, prop string) (dbus.Variant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ifaceProps, ok := f.props[path][iface]
	if !ok {
		return dbus.Variant{}, fmt.Errorf("no such path/iface %s/%s", path, iface)
	}
	v, ok := ifaceProps[prop]
	if !ok {
		return dbus.Variant{}, fmt.Errorf("no such property %s", prop)
	}
	return v, nil
}

func (f *fakeDBusClient) GetAllProperties(target string, path dbus.ObjectPath, iface string) (map[string]dbus.Variant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	props, ok := f.props[path][iface]
	if !ok {
		return map[string]dbus.Variant{}, nil
	}
	out := make(map[string]dbus.Variant, len(props))
	for k, v := range props {
		out[k] = v
	}
	return out, nil
}

func (f *fakeDBusClient) SetProperty(target string, path dbus.ObjectPath, iface, prop string, value any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.props[path] == nil {
		f.props[path] = make(map[string]map[string]dbus.Variant)
	}
	if f.props[path][iface] == nil {
		f.props[path][iface] = make(map[string]dbus.Variant)
	}
	f.props[path][iface][prop] = dbus.MakeVariant(value)
	return nil
}

func (f *fakeDBusClient) Call(target string, path dbus.ObjectPath, method string, args ...any) *dbus.Call {
	f.mu.Lock()
	f.calls = append(f.calls, fakeCall{path: path, method: method, args: args})
	f.mu.Unlock()

	switch method {
	case nmIface + ".GetDevices":
		return &dbus.Call{Body: []any{f.devicePaths}, Err: nil}
	case nmIface + ".AddAndActivateConnection":
		return &dbus.Call{Body: []any{dbus.ObjectPath("/conn/0"), dbus.ObjectPath("/active/0")}, Err: nil}
	case nmIface + ".ActivateConnection":
		return &dbus.Call{Body: []any{dbus.ObjectPath("/active/0")}, Err: nil}
	case settingsConnIface + ".GetSettings":
		f.mu.Lock()
		s := f.settings[path]
		f.mu.Unlock()
		return &dbus.Call{Body: []any{s}, Err: nil}
	default:
		return &dbus.Call{Body: nil, Err: nil}
	}
}
