package networkmanager

import (
	"context"
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"

	"github.com/haldis-dev/deskd/internal/reactive/bus"
	"github.com/haldis-dev/deskd/internal/reactive/entityref"
)

// deviceEntry is the registry's per-device bookkeeping: the common
// Device view plus whichever subtype (at most one of wifi/wired) the
// device turned out to be.
type deviceEntry struct {
	owner *entityref.Owner[Device]
	wifi  *entityref.Owner[Wifi]
	wired *entityref.Owner[Wired]
	sigCh chan *dbus.Signal
}

// Service is the discovery and lifecycle manager for the live
// NetworkManager object tree: devices (wifi/wired), access points, and
// lazily-fetched connection/IP/DHCP config mirrors.
type Service struct {
	logger *zap.Logger
	client DBusClient
	events *bus.Bus[Event]

	mu      sync.RWMutex
	devices map[dbus.ObjectPath]*deviceEntry
	order   []dbus.ObjectPath

	apMu sync.RWMutex
	aps  map[dbus.ObjectPath]*accessPointEntry

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type accessPointEntry struct {
	owner *entityref.Owner[AccessPoint]
	sigCh chan *dbus.Signal
}

// NewService constructs a Service over client. Start must be called to
// begin discovery.
func NewService(logger *zap.Logger, client DBusClient) *Service {
	return &Service{
		logger:  logger,
		client:  client,
		events:  bus.New[Event](),
		devices: make(map[dbus.ObjectPath]*deviceEntry),
		aps:     make(map[dbus.ObjectPath]*accessPointEntry),
	}
}

// Events returns a subscription to the service's domain event bus.
func (s *Service) Events() *bus.Subscription[Event] { return s.events.Subscribe() }

// Start enumerates the current device set and begins listening for
// devices arriving and departing, and for wifi access point scan
// results.
func (s *Service) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	var paths []dbus.ObjectPath
	call := s.client.Call(busName, nmPath, nmIface+".GetDevices")
	if err := call.Store(&paths); err != nil {
		return fmt.Errorf("networkmanager: GetDevices: %w", err)
	}

	for _, p := range paths {
		if err := s.addDevice(runCtx, p); err != nil {
			s.logger.Warn("add device failed", zap.String("path", string(p)), zap.Error(err))
		}
	}

	if err := s.client.AddMatchSignal(
		dbus.WithMatchInterface(nmIface),
		dbus.WithMatchMember("DeviceAdded"),
	); err != nil {
		s.logger.Warn("add match DeviceAdded failed", zap.Error(err))
	}
	if err := s.client.AddMatchSignal(
		dbus.WithMatchInterface(nmIface),
		dbus.WithMatchMember("DeviceRemoved"),
	); err != nil {
		s.logger.Warn("add match DeviceRemoved failed", zap.Error(err))
	}

	signals := make(chan *dbus.Signal, 32)
	s.client.Signal(signals)

	s.wg.Add(1)
	go s.dispatchLoop(runCtx, signals)

	return nil
}

// Stop cancels every in-flight monitor and closes the backend client.
func (s *Service) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}

	s.mu.Lock()
	for _, e := range s.devices {
		e.owner.Close()
		if e.wifi != nil {
			e.wifi.Close()
		}
		if e.wired != nil {
			e.wired.Close()
		}
		close(e.sigCh)
	}
	s.mu.Unlock()

	s.apMu.Lock()
	for _, e := range s.aps {
		e.owner.Close()
		close(e.sigCh)
	}
	s.apMu.Unlock()

	s.wg.Wait()
	return s.client.Close()
}

func (s *Service) dispatchLoop(ctx context.Context, signals chan *dbus.Signal) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case sig, ok := <-signals:
			if !ok {
				return
			}
			s.route(ctx, sig)
		}
	}
}

func (s *Service) route(ctx context.Context, sig *dbus.Signal) {
	switch sig.Name {
	case nmIface + ".DeviceAdded":
		if len(sig.Body) < 1 {
			return
		}
		if path, ok := sig.Body[0].(dbus.ObjectPath); ok {
			if err := s.addDevice(ctx, path); err != nil {
				s.logger.Warn("device added but fetch failed", zap.String("path", string(path)), zap.Error(err))
			}
		}
	case nmIface + ".DeviceRemoved":
		if len(sig.Body) < 1 {
			return
		}
		if path, ok := sig.Body[0].(dbus.ObjectPath); ok {
			s.removeDevice(path)
		}
	case wirelessIface + ".AccessPointAdded":
		if len(sig.Body) < 1 {
			return
		}
		if path, ok := sig.Body[0].(dbus.ObjectPath); ok {
			if err := s.addAccessPoint(ctx, path); err != nil {
				s.logger.Warn("access point added but fetch failed", zap.String("path", string(path)), zap.Error(err))
			}
		}
	case wirelessIface + ".AccessPointRemoved":
		if len(sig.Body) < 1 {
			return
		}
		if path, ok := sig.Body[0].(dbus.ObjectPath); ok {
			s.removeAccessPoint(path)
		}
	default:
		s.forwardToOwner(sig)
	}
}

// forwardToOwner demultiplexes a PropertiesChanged signal to whichever
// per-device or per-access-point signal channel matches its sender
// object path.
func (s *Service) forwardToOwner(sig *dbus.Signal) {
	s.mu.RLock()
	entry, ok := s.devices[sig.Path]
	s.mu.RUnlock()
	if ok {
		select {
		case entry.sigCh <- sig:
		default:
		}
		return
	}

	s.apMu.RLock()
	apEntry, ok := s.aps[sig.Path]
	s.apMu.RUnlock()
	if ok {
		select {
		case apEntry.sigCh <- sig:
		default:
		}
	}
}

func (s *Service) addDevice(ctx context.Context, path dbus.ObjectPath) error {
	s.mu.RLock()
	_, exists := s.devices[path]
	s.mu.RUnlock()
	if exists {
		return nil
	}

	device, err := s.fetchDevice(path)
	if err != nil {
		return err
	}

	entry := &deviceEntry{
		owner: entityref.New(device),
		sigCh: make(chan *dbus.Signal, 16),
	}

	if err := s.client.AddMatchSignal(
		dbus.WithMatchObjectPath(path),
		dbus.WithMatchInterface(propertiesChangedIface()),
		dbus.WithMatchMember("PropertiesChanged"),
	); err != nil {
		s.logger.Warn("add match PropertiesChanged failed", zap.String("path", string(path)), zap.Error(err))
	}

	switch device.DeviceType {
	case DeviceTypeWifi:
		permHw, props, werr := s.fetchWifiExtra(path)
		if werr != nil {
			s.logger.Warn("fetch wireless properties failed", zap.String("path", string(path)), zap.Error(werr))
		} else {
			wifi := newWifi(device, permHw)
			applyWifiProps(wifi, props)
			entry.wifi = entityref.New(wifi)
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				runPropertyMonitor(entry.wifi.Weak(), entry.sigCh, func(w *Wifi, changed map[string]dbus.Variant) {
					applyDeviceProps(w.Device, changed)
					applyWifiProps(w, changed)
				})
			}()
			if err := s.client.AddMatchSignal(
				dbus.WithMatchObjectPath(path),
				dbus.WithMatchInterface(wirelessIface),
			); err != nil {
				s.logger.Warn("add match wireless signals failed", zap.String("path", string(path)), zap.Error(err))
			}
			s.discoverAccessPoints(ctx, wifi)
		}
	case DeviceTypeEthernet:
		permHw, props, werr := s.fetchWiredExtra(path)
		if werr != nil {
			s.logger.Warn("fetch wired properties failed", zap.String("path", string(path)), zap.Error(werr))
		} else {
			wired := newWired(device, permHw)
			applyWiredProps(wired, props)
			entry.wired = entityref.New(wired)
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				runPropertyMonitor(entry.wired.Weak(), entry.sigCh, func(w *Wired, changed map[string]dbus.Variant) {
					applyDeviceProps(w.Device, changed)
					applyWiredProps(w, changed)
				})
			}()
		}
	default:
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			runPropertyMonitor(entry.owner.Weak(), entry.sigCh, applyDeviceProps)
		}()
	}

	s.mu.Lock()
	s.devices[path] = entry
	s.order = append(s.order, path)
	s.mu.Unlock()

	s.events.Publish(DeviceAdded{Path: path})
	return nil
}

func (s *Service) removeDevice(path dbus.ObjectPath) {
	s.mu.Lock()
	entry, ok := s.devices[path]
	if ok {
		delete(s.devices, path)
		for i, p := range s.order {
			if p == path {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
	s.mu.Unlock()
	if !ok {
		return
	}

	entry.owner.Close()
	if entry.wifi != nil {
		entry.wifi.Close()
	}
	if entry.wired != nil {
		entry.wired.Close()
	}
	close(entry.sigCh)
	s.events.Publish(DeviceRemoved{Path: path})
}

func (s *Service) discoverAccessPoints(ctx context.Context, wifi *Wifi) {
	for _, p := range wifi.AccessPoints.Get() {
		if err := s.addAccessPoint(ctx, p); err != nil {
			s.logger.Warn("access point fetch failed", zap.String("path", string(p)), zap.Error(err))
		}
	}
}

func (s *Service) addAccessPoint(ctx context.Context, path dbus.ObjectPath) error {
	s.apMu.RLock()
	_, exists := s.aps[path]
	s.apMu.RUnlock()
	if exists {
		return nil
	}

	ap, err := s.fetchAccessPoint(path)
	if err != nil {
		return err
	}

	entry := &accessPointEntry{owner: entityref.New(ap), sigCh: make(chan *dbus.Signal, 8)}

	if err := s.client.AddMatchSignal(
		dbus.WithMatchObjectPath(path),
		dbus.WithMatchInterface(propertiesChangedIface()),
		dbus.WithMatchMember("PropertiesChanged"),
	); err != nil {
		s.logger.Warn("add match ap PropertiesChanged failed", zap.String("path", string(path)), zap.Error(err))
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		runPropertyMonitor(entry.owner.Weak(), entry.sigCh, func(a *AccessPoint, changed map[string]dbus.Variant) {
			applyAccessPointProps(a, changed)
		})
	}()

	s.apMu.Lock()
	s.aps[path] = entry
	s.apMu.Unlock()

	s.events.Publish(AccessPointAdded{Path: path})
	return nil
}

func (s *Service) removeAccessPoint(path dbus.ObjectPath) {
	s.apMu.Lock()
	entry, ok := s.aps[path]
	if ok {
		delete(s.aps, path)
	}
	s.apMu.Unlock()
	if !ok {
		return
	}
	entry.owner.Close()
	close(entry.sigCh)
	s.events.Publish(AccessPointRemoved{Path: path})
}

// Devices returns every currently known device path, in discovery order.
func (s *Service) Devices() []dbus.ObjectPath {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]dbus.ObjectPath, len(s.order))
	copy(out, s.order)
	return out
}

// Device returns the common view of the device at path.
func (s *Service) Device(path dbus.ObjectPath) (*Device, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.devices[path]
	if !ok {
		return nil, ErrDeviceNotFound
	}
	return entry.owner.Value(), nil
}

// Wifi returns the wifi view of the device at path, or ErrNotWifi if it
// isn't a wireless device.
func (s *Service) Wifi(path dbus.ObjectPath) (*Wifi, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.devices[path]
	if !ok {
		return nil, ErrDeviceNotFound
	}
	if entry.wifi == nil {
		return nil, ErrNotWifi
	}
	return entry.wifi.Value(), nil
}

// AccessPoint returns the access point at path.
func (s *Service) AccessPoint(path dbus.ObjectPath) (*AccessPoint, error) {
	s.apMu.RLock()
	defer s.apMu.RUnlock()
	entry, ok := s.aps[path]
	if !ok {
		return nil, ErrAccessPointNotFound
	}
	return entry.owner.Value(), nil
}

// ActiveConnection fetches a one-shot snapshot of the active connection
// at path. Per the "look the peer up through the service when needed"
// graph-traversal rule, devices only ever store this path, never a
// strong reference to the connection itself.
func (s *Service) ActiveConnection(path dbus.ObjectPath) (*ActiveConnection, error) {
	if path == "" || path == "/" {
		return nil, ErrInvalidPath
	}
	return s.fetchActiveConnection(path)
}

// SettingsConnection fetches a one-shot snapshot of the settings
// connection at path.
func (s *Service) SettingsConnection(path dbus.ObjectPath) (*SettingsConnection, error) {
	if path == "" || path == "/" {
		return nil, ErrInvalidPath
	}
	return s.fetchSettingsConnection(path)
}

// IP4Config fetches a one-shot snapshot of the IP4 config at path.
func (s *Service) IP4Config(path dbus.ObjectPath) (*IP4Config, error) {
	if path == "" || path == "/" {
		return nil, ErrInvalidPath
	}
	return s.fetchIP4Config(path)
}

// IP6Config fetches a one-shot snapshot of the IP6 config at path.
func (s *Service) IP6Config(path dbus.ObjectPath) (*IP6Config, error) {
	if path == "" || path == "/" {
		return nil, ErrInvalidPath
	}
	return s.fetchIP6Config(path)
}

// DHCP4Config fetches a one-shot snapshot of the DHCP4 lease at path.
func (s *Service) DHCP4Config(path dbus.ObjectPath) (*DHCP4Config, error) {
	if path == "" || path == "/" {
		return nil, ErrInvalidPath
	}
	return s.fetchDHCP4Config(path)
}

// DHCP6Config fetches a one-shot snapshot of the DHCP6 lease at path.
func (s *Service) DHCP6Config(path dbus.ObjectPath) (*DHCP6Config, error) {
	if path == "" || path == "/" {
		return nil, ErrInvalidPath
	}
	return s.fetchDHCP6Config(path)
}

func propertiesChangedIface() string { return "org.freedesktop.DBus.Properties" }
