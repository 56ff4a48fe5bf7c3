// Package gateway is the single path for user-initiated writes.
//
// Every mutation follows the same protocol: apply the optimistic post-state
// to the store immediately, issue the server request, then either reconcile
// the authoritative response under a fresh stamp or roll back to the captured
// pre-state. The rollback is itself a store write with a new stamp, so a
// stale concurrent event can never shadow it.
//
// Mutations on the same record id are serialized: a second mutation issued
// while one is in flight waits for it, so two optimistic guesses can never
// race each other's rollback.
package gateway

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/riya9927/balkanid-capstone/internal/client/api"
	"github.com/riya9927/balkanid-capstone/internal/client/models"
	"github.com/riya9927/balkanid-capstone/internal/client/registry"
	"github.com/riya9927/balkanid-capstone/internal/common"
	"github.com/riya9927/balkanid-capstone/internal/logging"
	"github.com/riya9927/balkanid-capstone/internal/observability"
)

type Gateway struct {
	store   *registry.Store
	api     api.Client
	log     logging.Logger
	metrics *observability.RegistryMetrics
	locks   idLocks
}

func New(store *registry.Store, client api.Client, log logging.Logger, metrics *observability.RegistryMetrics) *Gateway {
	return &Gateway{
		store:   store,
		api:     client,
		log:     log.With("component", "gateway"),
		metrics: metrics,
		locks:   idLocks{sems: make(map[string]*idSem)},
	}
}

// Delete removes a file. The optimistic step only marks the record as
// pending deletion so views can gray it out; the record leaves the store
// when — and only when — the server confirms.
func (g *Gateway) Delete(ctx context.Context, id string) error {
	unlock, err := g.locks.acquire(ctx, id)
	if err != nil {
		return err
	}
	defer unlock()
	g.metrics.Mutation("delete")

	prev, ok := g.store.Get(id)
	if !ok {
		return fmt.Errorf("delete %s: %w", id, common.ErrNotFound)
	}

	optimistic := prev.Clone()
	optimistic.PendingDeletion = true
	g.store.Upsert(optimistic, g.store.NextVersion())

	if err := g.api.DeleteFile(ctx, id); err != nil {
		g.rollbackFile(ctx, prev)
		return err
	}

	g.store.Remove(id)
	return nil
}

// SetPublic toggles a file between public and private. Making a file public
// leaves the token empty until the server's response supplies it.
func (g *Gateway) SetPublic(ctx context.Context, id string, public bool) error {
	unlock, err := g.locks.acquire(ctx, id)
	if err != nil {
		return err
	}
	defer unlock()
	g.metrics.Mutation("set_public")

	prev, ok := g.store.Get(id)
	if !ok {
		return fmt.Errorf("set public %s: %w", id, common.ErrNotFound)
	}

	optimistic := prev.Clone()
	if public {
		optimistic.Visibility = models.VisibilityPublic
		optimistic.PublicToken = ""
	} else {
		optimistic.Visibility = models.VisibilityPrivate
		optimistic.PublicToken = ""
	}
	g.store.Upsert(optimistic, g.store.NextVersion())

	token, err := g.api.SetFilePublic(ctx, id, public)
	if err != nil {
		g.rollbackFile(ctx, prev)
		return err
	}

	if public && token != "" {
		reconciled := optimistic.Clone()
		reconciled.PublicToken = token
		g.store.Upsert(reconciled, g.store.NextVersion())
	}
	// An empty success body (unshare) leaves the optimistic state as final.
	return nil
}

// ShareWithUser grants one user access to a file. The optimistic step only
// touches SharedWith when the grant list has been fetched: an unknown list
// stays unknown rather than becoming a false "just this one user".
func (g *Gateway) ShareWithUser(ctx context.Context, id, targetUser string) error {
	unlock, err := g.locks.acquire(ctx, id)
	if err != nil {
		return err
	}
	defer unlock()
	g.metrics.Mutation("share_user")

	prev, ok := g.store.Get(id)
	if !ok {
		return fmt.Errorf("share %s: %w", id, common.ErrNotFound)
	}

	optimistic := prev.Clone()
	if optimistic.SharedWithKnown() && !containsUser(optimistic.SharedWith, targetUser) {
		optimistic.SharedWith = append(optimistic.SharedWith, targetUser)
	}
	g.store.Upsert(optimistic, g.store.NextVersion())

	if err := g.api.ShareFileWithUser(ctx, id, targetUser); err != nil {
		g.rollbackFile(ctx, prev)
		return err
	}
	return nil
}

// UnshareUser revokes a per-user grant.
func (g *Gateway) UnshareUser(ctx context.Context, id, targetUser string) error {
	unlock, err := g.locks.acquire(ctx, id)
	if err != nil {
		return err
	}
	defer unlock()
	g.metrics.Mutation("unshare_user")

	prev, ok := g.store.Get(id)
	if !ok {
		return fmt.Errorf("unshare %s: %w", id, common.ErrNotFound)
	}

	optimistic := prev.Clone()
	if optimistic.SharedWithKnown() {
		optimistic.SharedWith = removeUser(optimistic.SharedWith, targetUser)
	}
	g.store.Upsert(optimistic, g.store.NextVersion())

	if err := g.api.UnshareFileWithUser(ctx, id, targetUser); err != nil {
		g.rollbackFile(ctx, prev)
		return err
	}
	return nil
}

// CompleteUpload inserts the freshly uploaded file's record optimistically,
// then reconciles it against the server's authoritative copy. The upload
// itself (content streaming) happened elsewhere; this is only the metadata
// hand-off into the registry.
func (g *Gateway) CompleteUpload(ctx context.Context, rec models.FileRecord) error {
	unlock, err := g.locks.acquire(ctx, rec.ID)
	if err != nil {
		return err
	}
	defer unlock()
	g.metrics.Mutation("complete_upload")

	prev, existed := g.store.Get(rec.ID)
	g.store.Upsert(rec, g.store.NextVersion())

	authoritative, err := g.api.GetFile(ctx, rec.ID)
	if err != nil {
		if existed {
			g.rollbackFile(ctx, prev)
		} else {
			g.metrics.MutationRollback()
			g.log.Warn(ctx, "rolling back optimistic upload", "file_id", rec.ID, "error", err)
			g.store.Remove(rec.ID)
		}
		return err
	}

	g.store.Upsert(authoritative, g.store.NextVersion())
	return nil
}

// CreateFolder creates a folder. The server assigns the id, so the
// optimistic record carries a placeholder id that is swapped out on success
// and removed on failure.
func (g *Gateway) CreateFolder(ctx context.Context, name string) (models.FolderRecord, error) {
	g.metrics.Mutation("create_folder")

	placeholder := models.FolderRecord{
		ID:         "pending-" + uuid.NewString(),
		Name:       name,
		Visibility: models.VisibilityPrivate,
	}
	g.store.UpsertFolder(placeholder, g.store.NextVersion())

	created, err := g.api.CreateFolder(ctx, name)
	if err != nil {
		g.metrics.MutationRollback()
		g.log.Warn(ctx, "rolling back optimistic folder", "name", name, "error", err)
		g.store.RemoveFolder(placeholder.ID)
		return models.FolderRecord{}, err
	}

	g.store.RemoveFolder(placeholder.ID)
	g.store.UpsertFolder(created, g.store.NextVersion())
	return created, nil
}

// rollbackFile restores the captured pre-mutation state under a fresh stamp.
func (g *Gateway) rollbackFile(ctx context.Context, prev models.FileRecord) {
	g.metrics.MutationRollback()
	g.log.Warn(ctx, "rolling back optimistic mutation", "file_id", prev.ID)
	g.store.Upsert(prev, g.store.NextVersion())
}

func containsUser(users []string, target string) bool {
	for _, u := range users {
		if u == target {
			return true
		}
	}
	return false
}

func removeUser(users []string, target string) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		if u != target {
			out = append(out, u)
		}
	}
	return out
}

// idLocks hands out one semaphore per record id. Waiters queue on a channel,
// so mutations on the same id run strictly one at a time while different ids
// proceed independently.
type idLocks struct {
	mu   sync.Mutex
	sems map[string]*idSem
}

type idSem struct {
	ch   chan struct{}
	refs int
}

func (l *idLocks) acquire(ctx context.Context, id string) (func(), error) {
	l.mu.Lock()
	sem, ok := l.sems[id]
	if !ok {
		sem = &idSem{ch: make(chan struct{}, 1)}
		l.sems[id] = sem
	}
	sem.refs++
	l.mu.Unlock()

	select {
	case sem.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(id, sem)
		return nil, fmt.Errorf("%w: %w", common.ErrMutationPending, ctx.Err())
	}

	var once sync.Once
	unlock := func() {
		once.Do(func() {
			<-sem.ch
			l.release(id, sem)
		})
	}
	return unlock, nil
}

func (l *idLocks) release(id string, sem *idSem) {
	l.mu.Lock()
	defer l.mu.Unlock()
	sem.refs--
	if sem.refs == 0 {
		delete(l.sems, id)
	}
}
