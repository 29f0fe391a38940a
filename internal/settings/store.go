// Package settings keeps the local mirror of the backend's persisted
// settings and reconciles user edits against the backend's acknowledgement.
//
// An edit is applied locally first so the UI reflects it at once. The merged
// object is then sent to the backend. The store remembers the last object the
// backend accepted; when an edit is rejected (error or a false result) the
// local copy is rebuilt from that baseline plus the edits still in flight, so
// a rejected value never lingers. A rejected edit whose key was already
// overwritten by a newer in-flight edit is superseded instead.
package settings

import (
	"context"
	"fmt"
	"sync"

	"github.com/netsentinel/netsentinel/internal/backend"
	"github.com/netsentinel/netsentinel/internal/errors"
	"github.com/netsentinel/netsentinel/internal/logger"
)

// Outcome is how a proposed change was reconciled with the backend.
type Outcome int

const (
	// Committed means the backend acknowledged the change.
	Committed Outcome = iota
	// Reverted means the backend rejected the change and the previous
	// settings were restored.
	Reverted
	// Superseded means the backend rejected the change but a newer edit was
	// already applied locally, so the local state was left alone.
	Superseded
)

func (o Outcome) String() string {
	switch o {
	case Committed:
		return "committed"
	case Reverted:
		return "reverted"
	case Superseded:
		return "superseded"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Change is a tentative edit returned by Apply. It carries the full merged
// object to persist.
type Change struct {
	Key   string
	Value interface{}

	version uint64
	merged  backend.Settings
}

// Merged returns the complete settings object that will be persisted.
func (c Change) Merged() backend.Settings {
	return c.merged.Clone()
}

// Ack is the backend's answer to a persisted Change.
type Ack struct {
	Change Change
	OK     bool
	Err    error
}

// Store holds the current settings. All methods are safe for concurrent use.
type Store struct {
	mu     sync.Mutex
	client backend.Backend
	// current is base with every pending edit applied in order.
	current backend.Settings
	// base is the last object the backend accepted or reported.
	base    backend.Settings
	pending []Change
	version uint64
	loaded  bool
	log     logger.Logger
}

// New creates an empty store backed by client.
func New(client backend.Backend, log logger.Logger) *Store {
	if log == nil {
		log = logger.Noop()
	}
	return &Store{client: client, current: backend.Settings{}, base: backend.Settings{}, log: log}
}

// Load fetches the persisted settings and replaces the local copy. On failure
// the previous copy is kept.
func (s *Store) Load(ctx context.Context) (backend.Settings, error) {
	remote, err := s.client.GetSettings(ctx)
	if err != nil {
		s.log.Warn("settings: load failed: %v", err)
		return s.Snapshot(), errors.WrapWithCode(err, errors.ErrSettings,
			"Couldn't load settings from the backend",
			"Check that the backend is running: netsentinel status")
	}
	s.Replace(remote)
	return s.Snapshot(), nil
}

// Replace installs a settings object fetched elsewhere (e.g. by the
// dashboard's bootstrap). Any in-flight change becomes stale.
func (s *Store) Replace(remote backend.Settings) {
	if remote == nil {
		remote = backend.Settings{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.base = remote.Clone()
	s.current = remote.Clone()
	s.pending = nil
	s.version++
	s.loaded = true
}

// Loaded reports whether settings have been fetched at least once.
func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Snapshot returns a copy of the current settings.
func (s *Store) Snapshot() backend.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

// Apply tentatively sets key to value and returns the change to persist.
func (s *Store) Apply(key string, value interface{}) Change {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = s.current.With(key, value)
	s.version++

	c := Change{
		Key:     key,
		Value:   value,
		version: s.version,
		merged:  s.current.Clone(),
	}
	s.pending = append(s.pending, c)
	return c
}

// Persist sends the change's merged object to the backend. It does not touch
// local state and may be called from any goroutine.
func (s *Store) Persist(ctx context.Context, c Change) Ack {
	ok, err := s.client.UpdateSettings(ctx, c.merged)
	if err != nil {
		err = errors.WrapWithCode(err, errors.ErrSettings,
			fmt.Sprintf("Couldn't save %s", c.Key), "")
	}
	return Ack{Change: c, OK: ok && err == nil, Err: err}
}

// Settle reconciles an acknowledgement with the local state.
func (s *Store) Settle(ack Ack) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := ack.Change
	if !s.dropPending(c.version) {
		// Replaced since the change was applied; the newer object stands.
		if ack.OK {
			return Committed
		}
		s.log.Warn("settings: %s rejected but superseded by a reload", c.Key)
		return Superseded
	}

	if ack.OK {
		s.base = c.merged.Clone()
		s.rebuild()
		return Committed
	}

	s.rebuild()
	if s.pendingKey(c.Key) {
		s.log.Warn("settings: %s rejected but superseded by a newer edit", c.Key)
		return Superseded
	}
	if ack.Err != nil {
		s.log.Warn("settings: %s reverted: %v", c.Key, ack.Err)
	} else {
		s.log.Warn("settings: %s reverted: backend declined the update", c.Key)
	}
	return Reverted
}

// dropPending removes the pending change with the given version.
func (s *Store) dropPending(version uint64) bool {
	for i, p := range s.pending {
		if p.version == version {
			s.pending = append(s.pending[:i:i], s.pending[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Store) pendingKey(key string) bool {
	for _, p := range s.pending {
		if p.Key == key {
			return true
		}
	}
	return false
}

// rebuild recomputes current from base and the pending edits.
func (s *Store) rebuild() {
	cur := s.base.Clone()
	for _, p := range s.pending {
		cur[p.Key] = p.Value
	}
	s.current = cur
	s.version++
}

// Update applies, persists and settles in one step. Used by the CLI, where
// there's no render loop to show the tentative state.
func (s *Store) Update(ctx context.Context, key string, value interface{}) (Outcome, error) {
	ack := s.Persist(ctx, s.Apply(key, value))
	outcome := s.Settle(ack)
	if outcome == Committed {
		return outcome, nil
	}
	if ack.Err != nil {
		return outcome, ack.Err
	}
	return outcome, errors.New(errors.ErrSettings,
		fmt.Sprintf("The backend declined to save %s", key),
		"Check the backend logs for the rejected value")
}
