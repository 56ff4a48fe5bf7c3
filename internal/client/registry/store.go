// Package registry implements the entity store: the single authoritative
// in-memory view of all known file and folder metadata, with versioned
// writes and synchronous change notification.
//
// Everything that mutates client-visible metadata — push events, snapshot
// merges, optimistic mutations and their rollbacks — funnels through Upsert
// and Remove. Writers obtain a stamp from NextVersion and the store rejects
// any write whose stamp is below what it already holds for that id, so
// out-of-order arrival can never regress visible state.
package registry

import (
	"sync"

	"github.com/google/uuid"

	"github.com/riya9927/balkanid-capstone/internal/client/models"
	"github.com/riya9927/balkanid-capstone/internal/observability"
)

// ChangeKind says what happened to a record.
type ChangeKind int

const (
	ChangeUpsert ChangeKind = iota
	ChangeRemove
)

// Change describes one applied store mutation, delivered to subscribers.
type Change struct {
	Kind   ChangeKind
	ID     string
	Folder bool
}

// ChangeFunc receives applied changes. It runs synchronously after the
// mutation, outside the store lock, so it may call Get/List freely.
type ChangeFunc func(Change)

type subscriber struct {
	id string
	fn ChangeFunc
}

// Store holds the merged metadata state. All methods are safe for concurrent
// use; none of them block on I/O.
type Store struct {
	mu      sync.Mutex
	version int64
	files   map[string]models.FileRecord
	folders map[string]models.FolderRecord
	subs    []subscriber

	metrics *observability.RegistryMetrics
}

func NewStore(metrics *observability.RegistryMetrics) *Store {
	return &Store{
		files:   make(map[string]models.FileRecord),
		folders: make(map[string]models.FolderRecord),
		metrics: metrics,
	}
}

// NextVersion reserves the next stamp on the single logical timeline shared
// by every writer. Strictly increasing across the process.
func (s *Store) NextVersion() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.version++
	return s.version
}

// CurrentVersion returns the last stamp handed out.
func (s *Store) CurrentVersion() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Upsert applies rec under the given stamp unless the store already holds a
// newer version for that id. Returns whether the write was applied.
//
// Two merge rules beyond the plain version guard:
//   - an incoming record with an unknown (nil) SharedWith inherits the
//     previously fetched grant list instead of erasing it;
//   - the private/no-token invariant is normalized on the way in.
func (s *Store) Upsert(rec models.FileRecord, sourceVersion int64) bool {
	s.mu.Lock()

	prev, exists := s.files[rec.ID]
	if exists && sourceVersion < prev.Version {
		s.mu.Unlock()
		s.metrics.StaleWrite()
		return false
	}

	rec = rec.Clone()
	rec.Version = sourceVersion
	if rec.Visibility != models.VisibilityPublic {
		rec.PublicToken = ""
	}
	if rec.SharedWith == nil && exists && prev.SharedWith != nil {
		rec.SharedWith = append([]string(nil), prev.SharedWith...)
	}
	s.files[rec.ID] = rec

	subs := s.snapshotSubs()
	s.mu.Unlock()

	s.notify(subs, Change{Kind: ChangeUpsert, ID: rec.ID})
	return true
}

// Remove deletes the record for id. Removing an absent id is a no-op.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	_, exists := s.files[id]
	if !exists {
		s.mu.Unlock()
		return
	}
	delete(s.files, id)
	subs := s.snapshotSubs()
	s.mu.Unlock()

	s.notify(subs, Change{Kind: ChangeRemove, ID: id})
}

// Get returns a copy of the record for id.
func (s *Store) Get(id string) (models.FileRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.files[id]
	if !ok {
		return models.FileRecord{}, false
	}
	return rec.Clone(), true
}

// List returns copies of all records matching pred, in no particular order.
// Never blocks, never touches the network.
func (s *Store) List(pred func(models.FileRecord) bool) []models.FileRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.FileRecord, 0, len(s.files))
	for _, rec := range s.files {
		if pred == nil || pred(rec) {
			out = append(out, rec.Clone())
		}
	}
	return out
}

// UpsertFolder applies a folder write under the same version discipline.
func (s *Store) UpsertFolder(rec models.FolderRecord, sourceVersion int64) bool {
	s.mu.Lock()

	prev, exists := s.folders[rec.ID]
	if exists && sourceVersion < prev.Version {
		s.mu.Unlock()
		s.metrics.StaleWrite()
		return false
	}

	rec.Version = sourceVersion
	if rec.Visibility != models.VisibilityPublic {
		rec.PublicToken = ""
	}
	s.folders[rec.ID] = rec

	subs := s.snapshotSubs()
	s.mu.Unlock()

	s.notify(subs, Change{Kind: ChangeUpsert, ID: rec.ID, Folder: true})
	return true
}

// RemoveFolder deletes the folder for id; absent ids are a no-op.
func (s *Store) RemoveFolder(id string) {
	s.mu.Lock()
	_, exists := s.folders[id]
	if !exists {
		s.mu.Unlock()
		return
	}
	delete(s.folders, id)
	subs := s.snapshotSubs()
	s.mu.Unlock()

	s.notify(subs, Change{Kind: ChangeRemove, ID: id, Folder: true})
}

// GetFolder returns the folder record for id.
func (s *Store) GetFolder(id string) (models.FolderRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.folders[id]
	return rec, ok
}

// ListFolders returns all folder records matching pred.
func (s *Store) ListFolders(pred func(models.FolderRecord) bool) []models.FolderRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.FolderRecord, 0, len(s.folders))
	for _, rec := range s.folders {
		if pred == nil || pred(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// Subscribe registers fn to be called after every applied mutation. The
// returned function unsubscribes; calling it more than once is harmless.
func (s *Store) Subscribe(fn ChangeFunc) func() {
	id := uuid.NewString()
	s.mu.Lock()
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				break
			}
		}
	}
}

// snapshotSubs copies the subscriber list; must be called with mu held.
func (s *Store) snapshotSubs() []subscriber {
	return append([]subscriber(nil), s.subs...)
}

// notify runs callbacks outside the lock so they can read the store.
func (s *Store) notify(subs []subscriber, c Change) {
	for _, sub := range subs {
		sub.fn(c)
	}
}
