package config

import (
	"fmt"
	"os"
	"sync"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
)

// Subscription is a live registration for ConfigChange events matching a
// single glob pattern. Obtain one via Store.Subscribe.
type Subscription struct {
	id      uint64
	pattern string
	ch      chan ConfigChange
	store   *Store
}

// Events returns the channel ConfigChange events matching this
// subscription's pattern are delivered on.
func (s *Subscription) Events() <-chan ConfigChange { return s.ch }

// Unsubscribe stops delivery and closes the Events channel. Idempotent.
func (s *Subscription) Unsubscribe() {
	s.store.unsubscribe(s.id)
}

// Store is the authoritative in-memory configuration view: a base
// document with imports resolved, overlaid with the runtime.toml
// machine overlay, reachable and mutable via dot-paths. All mutation
// goes through SetByPath, which persists the overlay atomically and
// broadcasts a ConfigChange per pattern-matching subscriber.
type Store struct {
	logger *zap.Logger
	paths  Paths

	mu      sync.RWMutex
	cfg     Config
	base    table // main document + imports, no overlay applied
	overlay map[string]any

	subMu  sync.Mutex
	subs   map[uint64]*Subscription
	nextID uint64
}

// NewStore loads config.toml (with imports) and runtime.toml from paths,
// projects the overlay over the base document, and returns a ready
// Store. Missing files are not an error: Default() and an empty overlay
// apply.
func NewStore(paths Paths, logger *zap.Logger) (*Store, error) {
	doc, err := LoadWithImports(paths.MainConfig())
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", paths.MainConfig(), err)
	}

	overlay, err := loadOverlay(paths.RuntimeConfig())
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", paths.RuntimeConfig(), err)
	}

	s := &Store{
		logger:  logger,
		paths:   paths,
		base:    doc.table,
		overlay: overlay,
		subs:    make(map[uint64]*Subscription),
	}
	if err := s.reproject(); err != nil {
		return nil, err
	}
	return s, nil
}

// loadOverlay reads runtime.toml, if present, and flattens its nested
// table form into a dot-path -> value map.
func loadOverlay(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, err
	}
	var t table
	if err := toml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	flat := map[string]any{}
	flattenToPaths(t, "", flat)
	return flat, nil
}

// reproject recomputes cfg from base merged with the current overlay.
// Caller must hold s.mu for writing.
func (s *Store) reproject() error {
	merged := deepMerge(s.base, unflattenPaths(s.overlay))
	cfg, err := fromGeneric(merged)
	if err != nil {
		return fmt.Errorf("decode merged config: %w", err)
	}
	s.cfg = cfg
	return nil
}

// Config returns the current in-memory configuration.
func (s *Store) Config() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// GetByPath returns the value at path in the current merged document.
func (s *Store) GetByPath(path string) (any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	merged := deepMerge(s.base, unflattenPaths(s.overlay))
	return navigatePath(merged, path)
}

// SetByPath updates path in the runtime overlay, re-projects the
// in-memory Config, persists the overlay atomically, ensures config.toml
// imports @runtime, and publishes a ConfigChange to matching
// subscribers — in that order, so a concurrent reader between the lock
// release and the broadcast may observe the new value ahead of its
// event.
func (s *Store) SetByPath(path string, value any) error {
	old, _ := s.GetByPath(path)

	s.mu.Lock()
	s.overlay[path] = value
	if err := s.reproject(); err != nil {
		s.mu.Unlock()
		return err
	}
	overlaySnapshot := make(map[string]any, len(s.overlay))
	for k, v := range s.overlay {
		overlaySnapshot[k] = v
	}
	s.mu.Unlock()

	if err := s.persistOverlay(overlaySnapshot); err != nil {
		return err
	}
	if err := s.ensureRuntimeImport(); err != nil {
		return err
	}

	s.publish(ConfigChange{Path: path, Old: old, New: value, Timestamp: time.Now()})
	return nil
}

func (s *Store) persistOverlay(overlay map[string]any) error {
	if err := s.paths.EnsureDir(); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := toml.Marshal(unflattenPaths(overlay))
	if err != nil {
		return fmt.Errorf("marshal runtime overlay: %w", err)
	}
	tmp := s.paths.RuntimeConfig() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write runtime overlay tempfile: %w", err)
	}
	if err := os.Rename(tmp, s.paths.RuntimeConfig()); err != nil {
		return fmt.Errorf("rename runtime overlay into place: %w", err)
	}
	return nil
}

// ensureRuntimeImport appends @runtime to config.toml's imports array if
// absent, rewriting the file atomically. A config.toml that doesn't
// exist yet is created with just the imports array.
func (s *Store) ensureRuntimeImport() error {
	s.mu.Lock()
	s.base = ensureImport(s.base, "runtime")
	base := s.base
	s.mu.Unlock()

	if err := s.paths.EnsureDir(); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := toml.Marshal(base)
	if err != nil {
		return fmt.Errorf("marshal config document: %w", err)
	}
	tmp := s.paths.MainConfig() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write config tempfile: %w", err)
	}
	if err := os.Rename(tmp, s.paths.MainConfig()); err != nil {
		return fmt.Errorf("rename config into place: %w", err)
	}
	return nil
}

// Subscribe registers interest in ConfigChange events whose Path matches
// pattern (`*` matches exactly one dot-segment). Filtering happens at
// publish time, before delivery, so a noisy unrelated path never wakes
// this subscriber.
func (s *Store) Subscribe(pattern string) (*Subscription, error) {
	if pattern == "" {
		return nil, ErrInvalidPattern
	}
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.nextID++
	sub := &Subscription{
		id:      s.nextID,
		pattern: pattern,
		ch:      make(chan ConfigChange, 8),
		store:   s,
	}
	s.subs[sub.id] = sub
	return sub, nil
}

func (s *Store) unsubscribe(id uint64) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	sub, ok := s.subs[id]
	if !ok {
		return
	}
	delete(s.subs, id)
	close(sub.ch)
}

func (s *Store) publish(change ConfigChange) {
	s.subMu.Lock()
	var targets []chan ConfigChange
	for _, sub := range s.subs {
		if matchPattern(sub.pattern, change.Path) {
			targets = append(targets, sub.ch)
		}
	}
	s.subMu.Unlock()

	for _, ch := range targets {
		select {
		case ch <- change:
		default:
		}
	}
}

// reload replaces the base document (e.g. after a hot-reload re-read),
// re-projects the Config, and publishes one ConfigChange per differing
// field relative to the previous Config.
func (s *Store) reload(newBase table) error {
	s.mu.Lock()
	oldCfg := s.cfg
	s.base = newBase
	if err := s.reproject(); err != nil {
		s.mu.Unlock()
		return err
	}
	newCfg := s.cfg
	s.mu.Unlock()

	changes, err := DiffConfigs(oldCfg, newCfg, time.Now())
	if err != nil {
		return err
	}
	for _, c := range changes {
		s.publish(c)
	}
	return nil
}
