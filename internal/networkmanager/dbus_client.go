package networkmanager

import "github.com/godbus/dbus/v5"

// DBusClient is the system-bus surface Service depends on; a real
// implementation wraps dbus.SystemBus(), and a test fake implements it
// in memory.
type DBusClient interface {
	Close() error
	AddMatchSignal(options ...dbus.MatchOption) error
	Signal(ch chan<- *dbus.Signal)

	// Call invokes a method on path/iface.method via busName (always
	// org.freedesktop.NetworkManager on the system bus).
	Call(busName string, path dbus.ObjectPath, method string, args ...any) *dbus.Call

	// GetProperty reads a single org.freedesktop.DBus.Properties value.
	GetProperty(busName string, path dbus.ObjectPath, iface, prop string) (dbus.Variant, error)

	// GetAllProperties reads every property of iface on path in one call.
	GetAllProperties(busName string, path dbus.ObjectPath, iface string) (map[string]dbus.Variant, error)

	// SetProperty writes a single org.freedesktop.DBus.Properties value.
	SetProperty(busName string, path dbus.ObjectPath, iface, prop string, value any) error
}

const busName = "org.freedesktop.NetworkManager"

// StdDBusClient is the production DBusClient backed by the system bus.
type StdDBusClient struct {
	conn *dbus.Conn
}

// NewStdDBusClient dials the system message bus.
func NewStdDBusClient() (*StdDBusClient, error) {
	conn, err := dbus.SystemBus()
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

func (c *StdDBusClient) Call(target string, path dbus.ObjectPath, method string, args ...any) *dbus.Call {
	return c.conn.Object(target, path).Call(method, 0, args...)
}

func (c *StdDBusClient) GetProperty(target string, path dbus.ObjectPath, iface, prop string) (dbus.Variant, error) {
	var v dbus.Variant
	err := c.conn.Object(target, path).Call("org.freedesktop.DBus.Properties.Get", 0, iface, prop).Store(&v)
	return v, err
}

func (c *StdDBusClient) GetAllProperties(target string, path dbus.ObjectPath, iface string) (map[string]dbus.Variant, error) {
	var props map[string]dbus.Variant
	err := c.conn.Object(target, path).Call("org.freedesktop.DBus.Properties.GetAll", 0, iface).Store(&props)
	return props, err
}

func (c *StdDBusClient) SetProperty(target string, path dbus.ObjectPath, iface, prop string, value any) error {
	return c.conn.Object(target, path).Call("org.freedesktop.DBus.Properties.Set", 0, iface, prop, dbus.MakeVariant(value)).Err
}
