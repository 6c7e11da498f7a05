package mpris

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/haldis-dev/deskd/internal/reactive/bus"
	"github.com/haldis-dev/deskd/internal/reactive/entityref"
	"github.com/haldis-dev/deskd/internal/runtimestate"
	"go.uber.org/zap"
)

const (
	playerPrefix     = "org.mpris.MediaPlayer2."
	mprisObjectPath  = "/org/mpris/MediaPlayer2"
	playerIface      = "org.mpris.MediaPlayer2.Player"
	propertiesIface  = "org.freedesktop.DBus.Properties"
	nameOwnerChanged = "org.freedesktop.DBus.NameOwnerChanged"
)

// Manager discovers MPRIS players on the session bus, maintains the live
// set as reactive Player entities, and persists/restores the active
// player selection across restarts.
type Manager struct {
	logger *zap.Logger
	client DBusClient
	state  *runtimestate.Store
	events *bus.Bus[Event]

	mu          sync.RWMutex
	order       []string
	owners      map[string]*entityref.Owner[Player]
	sigChans    map[string]chan *dbus.Signal
	uniqueNames map[string]string // unique bus name -> well-known name

	ignoreMu sync.RWMutex
	ignored  []string

	activeMu sync.Mutex
	active   string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewManager constructs a Manager. ignoredPatterns is the initial
// substring blocklist matched against candidate bus names; it can be
// mutated afterward with SetIgnoredPatterns.
func NewManager(logger *zap.Logger, client DBusClient, state *runtimestate.Store, ignoredPatterns []string) *Manager {
	return &Manager{
		logger:      logger,
		client:      client,
		state:       state,
		events:      bus.New[Event](),
		owners:      make(map[string]*entityref.Owner[Player]),
		sigChans:    make(map[string]chan *dbus.Signal),
		uniqueNames: make(map[string]string),
		ignored:     append([]string(nil), ignoredPatterns...),
	}
}

// Events returns a subscription to the manager's coarse and fine-grained
// player events.
func (m *Manager) Events() *bus.Subscription[Event] { return m.events.Subscribe() }

// SetIgnoredPatterns replaces the ignored-substring list. Already
// admitted players are not retroactively removed; the new list takes
// effect on subsequent discoveries only.
func (m *Manager) SetIgnoredPatterns(patterns []string) {
	m.ignoreMu.Lock()
	defer m.ignoreMu.Unlock()
	m.ignored = append([]string(nil), patterns...)
}

func (m *Manager) isIgnored(busName string) bool {
	m.ignoreMu.RLock()
	defer m.ignoreMu.RUnlock()
	for _, pattern := range m.ignored {
		if strings.Contains(busName, pattern) {
			return true
		}
	}
	return false
}

// Start enumerates the currently running players, installs the D-Bus
// match rules for dynamic tracking, and restores the persisted active
// player selection. The persisted selection is read before enumeration,
// since adding the first player auto-selects and persists it. It returns
// once startup enumeration is complete; the signal dispatch loop
// continues running on a background goroutine until Stop is called.
func (m *Manager) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel

	persisted, err := m.state.ActivePlayer()
	if err != nil {
		m.logger.Warn("mpris: failed to load persisted active player", zap.Error(err))
		persisted = nil
	}

	names, err := m.client.ListNames()
	if err != nil {
		cancel()
		return fmt.Errorf("mpris: list bus names: %w", err)
	}
	for _, name := range names {
		if strings.HasPrefix(name, playerPrefix) {
			m.addPlayer(name)
		}
	}

	if err := m.client.AddMatchSignal(
		dbus.WithMatchObjectPath(mprisObjectPath),
		dbus.WithMatchInterface(propertiesIface),
		dbus.WithMatchMember("PropertiesChanged"),
	); err != nil {
		m.logger.Error("failed to add PropertiesChanged match rule", zap.Error(err))
	}
	if err := m.client.AddMatchSignal(
		dbus.WithMatchInterface("org.freedesktop.DBus"),
		dbus.WithMatchMember("NameOwnerChanged"),
	); err != nil {
		m.logger.Warn("failed to add NameOwnerChanged match rule, dynamic tracking disabled", zap.Error(err))
	}

	signals := make(chan *dbus.Signal, 16)
	m.client.Signal(signals)

	m.wg.Add(1)
	go m.dispatchLoop(runCtx, signals)

	m.restoreActivePlayer(persisted)
	return nil
}

// Stop cancels the signal dispatch loop and every per-player monitor
// task, and waits for them to exit.
func (m *Manager) Stop() error {
	if m.cancel != nil {
		m.cancel()
	}
	m.mu.Lock()
	for _, owner := range m.owners {
		owner.Close()
	}
	for _, ch := range m.sigChans {
		close(ch)
	}
	m.sigChans = make(map[string]chan *dbus.Signal)
	m.mu.Unlock()

	m.wg.Wait()
	return m.client.Close()
}

func (m *Manager) dispatchLoop(ctx context.Context, signals chan *dbus.Signal) {
	defer m.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case sig, ok := <-signals:
			if !ok {
				return
			}
			if sig == nil {
				continue
			}
			if sig.Name == nameOwnerChanged {
				m.handleNameOwnerChanged(sig)
				continue
			}
			m.forwardToPlayer(sig)
		}
	}
}

func (m *Manager) handleNameOwnerChanged(sig *dbus.Signal) {
	if len(sig.Body) < 3 {
		return
	}
	name, _ := sig.Body[0].(string)
	if !strings.HasPrefix(name, playerPrefix) {
		return
	}
	oldOwner, _ := sig.Body[1].(string)
	newOwner, _ := sig.Body[2].(string)

	switch {
	case newOwner != "" && oldOwner == "":
		m.mu.Lock()
		m.uniqueNames[newOwner] = name
		m.mu.Unlock()
		m.addPlayer(name)
	case newOwner == "" && oldOwner != "":
		m.mu.Lock()
		delete(m.uniqueNames, oldOwner)
		m.mu.Unlock()
		m.removePlayer(name)
	case newOwner != "" && oldOwner != "":
		m.mu.Lock()
		delete(m.uniqueNames, oldOwner)
		m.uniqueNames[newOwner] = name
		m.mu.Unlock()
	}
}

func (m *Manager) forwardToPlayer(sig *dbus.Signal) {
	m.mu.RLock()
	busName, ok := m.uniqueNames[sig.Sender]
	if !ok {
		busName = sig.Sender
	}
	ch, chOK := m.sigChans[busName]
	m.mu.RUnlock()
	if !chOK {
		return
	}
	select {
	case ch <- sig:
	default:
	}
}

func (m *Manager) addPlayer(busName string) {
	if m.isIgnored(busName) {
		return
	}

	m.mu.Lock()
	if _, exists := m.owners[busName]; exists {
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	if uniqueName, err := m.client.GetNameOwner(busName); err == nil {
		m.mu.Lock()
		m.uniqueNames[uniqueName] = busName
		m.mu.Unlock()
	}

	snap, err := m.fetchSnapshot(busName)
	if err != nil {
		m.logger.Warn("mpris: failed to fetch initial player snapshot", zap.String("player", busName), zap.Error(err))
		return
	}

	player := newPlayer(busName, snap)
	owner := entityref.New(player)
	sigCh := make(chan *dbus.Signal, 8)

	m.mu.Lock()
	m.owners[busName] = owner
	m.order = append(m.order, busName)
	m.sigChans[busName] = sigCh
	m.mu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.runPlayerMonitor(owner.Weak(), busName, sigCh)
	}()

	m.events.Publish(Added{BusName: busName})

	if m.ActivePlayer() == "" {
		if err := m.SetActivePlayer(busName); err != nil {
			m.logger.Warn("mpris: failed to persist newly active player", zap.String("player", busName), zap.Error(err))
		}
	}
}

func (m *Manager) removePlayer(busName string) {
	m.mu.Lock()
	owner, ok := m.owners[busName]
	if !ok {
		m.mu.Unlock()
		return
	}
	delete(m.owners, busName)
	for i, n := range m.order {
		if n == busName {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	if ch, ok := m.sigChans[busName]; ok {
		close(ch)
		delete(m.sigChans, busName)
	}
	m.mu.Unlock()

	owner.Close()
	m.events.Publish(Removed{BusName: busName})
	m.handlePossibleActiveRemoval(busName)
}

// Players returns the bus names of every live player, in discovery
// order — the deterministic order the selection-fallback rule uses.
func (m *Manager) Players() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// GetPlayer returns the live Player for busName, or ErrPlayerNotFound.
func (m *Manager) GetPlayer(busName string) (*Player, error) {
	m.mu.RLock()
	owner, ok := m.owners[busName]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, busName)
	}
	return owner.Value(), nil
}

// ActivePlayer returns the currently selected active player's bus name,
// or "" if none.
func (m *Manager) ActivePlayer() string {
	m.activeMu.Lock()
	defer m.activeMu.Unlock()
	return m.active
}

// SetActivePlayer selects busName as active and persists the choice.
// Passing "" clears the selection.
func (m *Manager) SetActivePlayer(busName string) error {
	m.activeMu.Lock()
	m.active = busName
	m.activeMu.Unlock()

	var id *string
	if busName != "" {
		id = &busName
	}
	return m.state.SetActivePlayer(id)
}

// restoreActivePlayer applies invariant 4 to the selection persisted
// before enumeration: if the named player is absent from the live set,
// fall back to the first entity in discovery order, or none, and
// re-persist immediately.
func (m *Manager) restoreActivePlayer(persisted *string) {
	live := m.Players()
	candidate := ""
	if persisted != nil {
		for _, name := range live {
			if name == *persisted {
				candidate = name
				break
			}
		}
	}
	if candidate == "" && len(live) > 0 {
		candidate = live[0]
	}

	if err := m.SetActivePlayer(candidate); err != nil {
		m.logger.Warn("mpris: failed to persist restored active player", zap.Error(err))
	}
}

func (m *Manager) handlePossibleActiveRemoval(busName string) {
	if m.ActivePlayer() != busName {
		return
	}
	live := m.Players()
	fallback := ""
	if len(live) > 0 {
		fallback = live[0]
	}
	if err := m.SetActivePlayer(fallback); err != nil {
		m.logger.Warn("mpris: failed to persist active-player fallback", zap.Error(err))
	}
}
