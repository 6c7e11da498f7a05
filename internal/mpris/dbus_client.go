package mpris

import (
	"github.com/godbus/dbus/v5"
)

// DBusClient abstracts the session-bus operations the MPRIS manager and
// per-player monitor need, so D-Bus can be faked in tests.
//
//go:generate mockgen -destination=mocks/dbus_client_mock.go -package=mocks github.com/haldis-dev/deskd/internal/mpris DBusClient
type DBusClient interface {
	Close() error
	AddMatchSignal(options ...dbus.MatchOption) error
	Signal(ch chan<- *dbus.Signal)
	ListNames() ([]string, error)
	GetNameOwner(name string) (string, error)
	GetProperty(busName, path, prop string) (dbus.Variant, error)
	SetProperty(busName, path, prop string, value any) error
	Call(busName, path, method string, args ...any) *dbus.Call
}

// StdDBusClient is the real implementation, backed by the session bus.
type StdDBusClient struct {
	conn *dbus.Conn
}

// NewStdDBusClient connects to the session bus (where MPRIS players live).
func NewStdDBusClient() (*StdDBusClient, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, err
	}
	return &StdDBusClient{conn: conn}, nil
}

func (c *StdDBusClient) Close() error { return c.conn.Close() }

func (c *StdDBusClient) AddMatchSignal(options ...dbus.MatchOption) error {
	return c.conn.AddMatchSignal(options...)
}

func (c *StdDBusClient) Signal(ch chan<- *dbus.Signal) { c.conn.Signal(ch) }

func (c *StdDBusClient) ListNames() ([]string, error) {
	var names []string
	err := c.conn.BusObject().Call("org.freedesktop.DBus.ListNames", 0).Store(&names)
	return names, err
}

func (c *StdDBusClient) GetNameOwner(name string) (string, error) {
	var owner string
	err := c.conn.BusObject().Call("org.freedesktop.DBus.GetNameOwner", 0, name).Store(&owner)
	return owner, err
}

func (c *StdDBusClient) GetProperty(busName, path, prop string) (dbus.Variant, error) {
	obj := c.conn.Object(busName, dbus.ObjectPath(path))
	return obj.GetProperty(prop)
}

func (c *StdDBusClient) SetProperty(busName, path, prop string, value any) error {
	obj := c.conn.Object(busName, dbus.ObjectPath(path))
	return obj.SetProperty(prop, value)
}

func (c *StdDBusClient) Call(busName, path, method string, args ...any) *dbus.Call {
	obj := c.conn.Object(busName, dbus.ObjectPath(path))
	return obj.Call(method, 0, args...)
}
