// Package store keeps completed scan sessions in a keyed blob store with
// bounded retention. Only completed and aborted sessions belong here; the
// caller filters with Session.Persistable.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/gnana997/figscan/pkg/scan"
)

const (
	sessionPrefix = "session/"
	latestKey     = "latest"

	// DefaultCapacity is how many sessions are retained before eviction.
	DefaultCapacity = 50
)

// ErrNotFound is returned when the requested session is not in the store.
var ErrNotFound = errors.New("session not found")

// Store persists scan sessions. Retention keeps the K most recently captured
// sessions: insertion beyond capacity evicts the session with the earliest
// StartedAt, not the earliest insertion, so re-saving an updated session does
// not count as new. A latest-session pointer is updated on every Put and
// repaired when the pointed-to session is deleted.
type Store struct {
	mu       sync.Mutex
	kv       KV
	capacity int
	log      *slog.Logger
}

// New creates a store over the given KV. capacity <= 0 selects the default.
func New(kv KV, capacity int, logger *slog.Logger) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{kv: kv, capacity: capacity, log: logger.With(slog.String("component", "store"))}
}

// Put saves a session, moves the latest pointer to it, and evicts beyond
// capacity.
func (s *Store) Put(sess *scan.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	if err := s.kv.Set(sessionPrefix+sess.ID, data); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	if err := s.kv.Set(latestKey, []byte(sess.ID)); err != nil {
		return fmt.Errorf("updating latest pointer: %w", err)
	}
	return s.evict()
}

// Get returns one session by id.
func (s *Store) Get(id string) (*scan.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(id)
}

func (s *Store) get(id string) (*scan.Session, error) {
	data, ok, err := s.kv.Get(sessionPrefix + id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	var sess scan.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decoding session %s: %w", id, err)
	}
	return &sess, nil
}

// ListAll returns every stored session, newest StartedAt first.
func (s *Store) ListAll() ([]*scan.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listAll()
}

func (s *Store) listAll() ([]*scan.Session, error) {
	keys, err := s.kv.Keys(sessionPrefix)
	if err != nil {
		return nil, err
	}
	sessions := make([]*scan.Session, 0, len(keys))
	for _, key := range keys {
		sess, err := s.get(strings.TrimPrefix(key, sessionPrefix))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].StartedAt.After(sessions[j].StartedAt)
	})
	return sessions, nil
}

// Latest returns the session the latest pointer names, or ErrNotFound when
// the store is empty.
func (s *Store) Latest() (*scan.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok, err := s.kv.Get(latestKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return s.get(string(id))
}

// Delete removes one session. If it was the latest, the pointer is repaired
// to the newest remaining session, or cleared when none remain.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.get(id); err != nil {
		return err
	}
	if err := s.kv.Delete(sessionPrefix + id); err != nil {
		return err
	}
	return s.repairLatest(id)
}

// Clear removes every stored session and the latest pointer.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys, err := s.kv.Keys(sessionPrefix)
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := s.kv.Delete(key); err != nil {
			return err
		}
	}
	return s.kv.Delete(latestKey)
}

// evict drops the earliest-started sessions until the store is back at
// capacity, repairing the latest pointer if it was evicted.
func (s *Store) evict() error {
	sessions, err := s.listAll()
	if err != nil {
		return err
	}
	for i := len(sessions) - 1; i >= s.capacity; i-- {
		victim := sessions[i]
		if err := s.kv.Delete(sessionPrefix + victim.ID); err != nil {
			return err
		}
		s.log.Debug("session evicted", "session", victim.ID, "started_at", victim.StartedAt)
		if err := s.repairLatest(victim.ID); err != nil {
			return err
		}
	}
	return nil
}

// repairLatest fixes the latest pointer after removedID left the store.
func (s *Store) repairLatest(removedID string) error {
	id, ok, err := s.kv.Get(latestKey)
	if err != nil {
		return err
	}
	if !ok || string(id) != removedID {
		return nil
	}
	remaining, err := s.listAll()
	if err != nil {
		return err
	}
	if len(remaining) == 0 {
		return s.kv.Delete(latestKey)
	}
	return s.kv.Set(latestKey, []byte(remaining[0].ID))
}
