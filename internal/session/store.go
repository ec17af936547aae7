// Package session holds uploaded translation data in memory between HTTP
// requests. Each session owns one Dataset (the current working data) plus a
// bounded history of upload events. There is no persistence: a restart
// clears all sessions, matching the editor's in-browser lifetime.
package session

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sagsagg/translation-tools/internal/core"
)

// ErrNotFound is returned when a session ID does not exist or has expired.
var ErrNotFound = fmt.Errorf("session not found")

// UploadEvent records one file entering a session.
type UploadEvent struct {
	Filename   string          `json:"filename"`
	Format     core.FileFormat `json:"format"`
	Language   string          `json:"language,omitempty"`
	Warning    string          `json:"warning,omitempty"`
	UploadedAt time.Time       `json:"uploadedAt"`
}

// Session is one user's working state. The Data field is replaced
// wholesale on every mutation, never edited in place, so concurrent
// readers holding a snapshot are safe.
type Session struct {
	ID        string        `json:"id"`
	Data      core.Dataset  `json:"data"`
	Uploads   []UploadEvent `json:"uploads"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// Store is a concurrency-safe in-memory session registry.
type Store struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	maxSessions int
	maxUploads  int
	now         func() time.Time
}

// NewStore creates a store holding at most maxSessions sessions, each with
// an upload history capped at maxUploads events. Non-positive limits fall
// back to sensible defaults.
func NewStore(maxSessions, maxUploads int) *Store {
	if maxSessions <= 0 {
		maxSessions = 100
	}
	if maxUploads <= 0 {
		maxUploads = 50
	}
	return &Store{
		sessions:    make(map[string]*Session),
		maxSessions: maxSessions,
		maxUploads:  maxUploads,
		now:         time.Now,
	}
}

// Create registers a new empty session and returns its snapshot. When the
// store is full, the least recently updated session is evicted first.
func (s *Store) Create() Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.sessions) >= s.maxSessions {
		s.evictOldestLocked()
	}

	now := s.now()
	sess := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.sessions[sess.ID] = sess
	return snapshot(sess)
}

// Get returns a snapshot of the session with the given ID.
func (s *Store) Get(id string) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	return snapshot(sess), nil
}

// Replace swaps a session's dataset for a new one and returns the updated
// snapshot.
func (s *Store) Replace(id string, data core.Dataset) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	sess.Data = data
	sess.UpdatedAt = s.now()
	return snapshot(sess), nil
}

// Update applies fn to a copy of the session's dataset and installs the
// result if fn succeeds. fn never sees the stored dataset directly, so a
// failed update leaves the session exactly as it was.
func (s *Store) Update(id string, fn func(core.Dataset) (core.Dataset, error)) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}

	updated, err := fn(cloneDataset(sess.Data))
	if err != nil {
		return Session{}, err
	}

	sess.Data = updated
	sess.UpdatedAt = s.now()
	return snapshot(sess), nil
}

// RecordUpload appends an upload event to the session's history, dropping
// the oldest events beyond the configured cap.
func (s *Store) RecordUpload(id string, event UploadEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return ErrNotFound
	}

	if event.UploadedAt.IsZero() {
		event.UploadedAt = s.now()
	}
	sess.Uploads = append(sess.Uploads, event)
	if over := len(sess.Uploads) - s.maxUploads; over > 0 {
		sess.Uploads = append([]UploadEvent{}, sess.Uploads[over:]...)
	}
	sess.UpdatedAt = s.now()
	return nil
}

// Delete removes a session. Deleting an unknown ID is a no-op.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// IDs returns all session IDs in no particular order except sorted for
// determinism.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// evictOldestLocked removes the least recently updated session. Caller
// holds the write lock.
func (s *Store) evictOldestLocked() {
	var (
		oldestID string
		oldestAt time.Time
	)
	for id, sess := range s.sessions {
		if oldestID == "" || sess.UpdatedAt.Before(oldestAt) {
			oldestID = id
			oldestAt = sess.UpdatedAt
		}
	}
	if oldestID != "" {
		delete(s.sessions, oldestID)
	}
}

// snapshot copies a session so callers never share containers with the
// store.
func snapshot(sess *Session) Session {
	out := *sess
	out.Data = cloneDataset(sess.Data)
	out.Uploads = append([]UploadEvent{}, sess.Uploads...)
	return out
}

// cloneDataset deep-copies the populated representation of a dataset.
func cloneDataset(d core.Dataset) core.Dataset {
	out := core.Dataset{Kind: d.Kind, FlatMapCode: d.FlatMapCode}
	switch d.Kind {
	case core.KindFlatMap:
		out.FlatMap = d.FlatMap.Clone()
	case core.KindTable:
		out.Table = d.Table.Clone()
	case core.KindMultiMap:
		out.MultiMap = d.MultiMap.Clone()
	}
	return out
}
