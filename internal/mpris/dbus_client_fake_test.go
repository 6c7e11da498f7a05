package mpris

import (
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
)

// fakeDBusClient is a hand-written in-memory stand-in for DBusClient,
// driving discovery and monitor tests without a real session bus.
type fakeDBusClient struct {
	mu         sync.Mutex
	names      []string
	owners     map[string]string // well-known name -> unique owner
	properties map[string]map[string]dbus.Variant
	signalCh   chan<- *dbus.Signal
	setCalls   []setPropCall
	methodCall []methodCall
	closed     bool
}

type setPropCall struct {
	busName, prop string
	value         any
}

type methodCall struct {
	busName, method string
	args            []any
}

func newFakeDBusClient() *fakeDBusClient {
	return &fakeDBusClient{
		owners:     make(map[string]string),
		properties: make(map[string]map[string]dbus.Variant),
	}
}

func (f *fakeDBusClient) addPlayer(busName, unique string, props map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.names = append(f.names, busName)
	f.owners[busName] = unique
	converted := make(map[string]dbus.Variant, len(props))
	for k, v := range props {
		converted[k] = dbus.MakeVariant(v)
	}
	f.properties[busName] = converted
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

func (f *fakeDBusClient) ListNames() ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.names))
	copy(out, f.names)
	return out, nil
}

func (f *fakeDBusClient) GetNameOwner(name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	owner, ok := f.owners[name]
	if !ok {
		return "", fmt.Errorf("no owner for %s", name)
	}
	return owner, nil
}

func (f *fakeDBusClient) GetProperty(busName, path, prop string) (dbus.Variant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	props, ok := f.properties[busName]
	if !ok {
		return dbus.Variant{}, fmt.Errorf("unknown player %s", busName)
	}
	// prop arrives as "iface.Name"; stored keys are the bare MPRIS name.
	name := prop
	for i := len(prop) - 1; i >= 0; i-- {
		if prop[i] == '.' {
			name = prop[i+1:]
			break
		}
	}
	v, ok := props[name]
	if !ok {
		return dbus.Variant{}, fmt.Errorf("no such property %s on %s", name, busName)
	}
	return v, nil
}

func (f *fakeDBusClient) SetProperty(busName, path, prop string, value any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setCalls = append(f.setCalls, setPropCall{busName: busName, prop: prop, value: value})
	return nil
}

func (f *fakeDBusClient) Call(busName, path, method string, args ...any) *dbus.Call {
	f.mu.Lock()
	f.methodCall = append(f.methodCall, methodCall{busName: busName, method: method, args: args})
	f.mu.Unlock()
	return &dbus.Call{Err: nil}
}
