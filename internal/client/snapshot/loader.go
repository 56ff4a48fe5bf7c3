// Package snapshot loads full or filtered listings from the backend and
// merges them into the store.
//
// A whole batch shares one version stamp reserved when the fetch is issued,
// so a snapshot uniformly supersedes every event applied before it, while
// events arriving later keep winning. Only full scopes imply deletion:
// a record missing from "all my files" is gone, a record missing from a
// search result is merely filtered out.
package snapshot

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/riya9927/balkanid-capstone/internal/client/api"
	"github.com/riya9927/balkanid-capstone/internal/client/models"
	"github.com/riya9927/balkanid-capstone/internal/client/registry"
	"github.com/riya9927/balkanid-capstone/internal/common"
	"github.com/riya9927/balkanid-capstone/internal/logging"
	"github.com/riya9927/balkanid-capstone/internal/observability"
)

type Loader struct {
	store   *registry.Store
	api     api.Client
	log     logging.Logger
	metrics *observability.RegistryMetrics

	mu   sync.Mutex
	seen map[string]*scopeState // scope key -> last merged full result
}

// scopeState remembers which ids the last merged full listing of a scope
// contained, and under which stamp, so a superseded refresh resolving late
// cannot feed the removal pass with stale absence information.
type scopeState struct {
	stamp int64
	ids   map[string]struct{}
}

func NewLoader(store *registry.Store, client api.Client, log logging.Logger, metrics *observability.RegistryMetrics) *Loader {
	return &Loader{
		store:   store,
		api:     client,
		log:     log.With("component", "snapshot"),
		metrics: metrics,
		seen:    make(map[string]*scopeState),
	}
}

// Refresh fetches the listing described by scope and merges it. On failure
// the store is left untouched and the error is returned to the caller; the
// loader never retries on its own.
func (l *Loader) Refresh(ctx context.Context, scope models.Scope) error {
	// The stamp is reserved when the fetch is issued. Events applied while
	// the request is in flight take higher stamps and keep winning; a second
	// refresh issued later also gets a higher stamp, so if this one resolves
	// after it, every upsert below no-ops.
	stamp := l.store.NextVersion()

	records, err := l.fetch(ctx, scope)
	if err != nil {
		l.metrics.RefreshFailure()
		return fmt.Errorf("refresh %s: %w", scope.Key(), err)
	}

	l.merge(scope, records, stamp)
	l.metrics.Refresh(scope.Key())
	l.log.Debug(ctx, "refresh merged", "scope", scope.Key(), "records", len(records))
	return nil
}

// RefreshFile fetches a single record, the targeted path used when an upload
// event announces a file the client has never seen.
func (l *Loader) RefreshFile(ctx context.Context, id string) error {
	stamp := l.store.NextVersion()

	rec, err := l.api.GetFile(ctx, id)
	if err != nil {
		l.metrics.RefreshFailure()
		return fmt.Errorf("refresh file %s: %w", id, err)
	}

	l.store.Upsert(rec, stamp)
	l.metrics.Refresh("file")
	return nil
}

// RefreshFolders merges the user's folder listing. Folder listings are always
// full for the current user, so omitted folders are removed.
func (l *Loader) RefreshFolders(ctx context.Context) error {
	stamp := l.store.NextVersion()

	folders, err := l.api.ListFolders(ctx)
	if err != nil {
		l.metrics.RefreshFailure()
		return fmt.Errorf("refresh folders: %w", err)
	}

	current := make(map[string]struct{}, len(folders))
	for _, f := range folders {
		current[f.ID] = struct{}{}
		l.store.UpsertFolder(f, stamp)
	}
	for _, f := range l.store.ListFolders(nil) {
		if _, ok := current[f.ID]; !ok {
			l.store.RemoveFolder(f.ID)
		}
	}
	l.metrics.Refresh("folders")
	return nil
}

// RefreshAll fetches the user's files and folders concurrently. Used to close
// the gap after a push-channel reconnect.
func (l *Loader) RefreshAll(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return l.Refresh(gctx, models.UserFilesScope()) })
	g.Go(func() error { return l.RefreshFolders(gctx) })
	return g.Wait()
}

// LoadSharedWith fetches the per-user grant list for one record and merges it
// into that record's SharedWith field only. The rest of the record is taken
// from the store's current state, so this is a partial update, not an
// overwrite.
func (l *Loader) LoadSharedWith(ctx context.Context, id string) error {
	users, err := l.api.ListSharedWith(ctx, id)
	if err != nil {
		return fmt.Errorf("load shared_with %s: %w", id, err)
	}

	rec, ok := l.store.Get(id)
	if !ok {
		return fmt.Errorf("load shared_with %s: %w", id, common.ErrNotFound)
	}
	rec.SharedWith = users
	l.store.Upsert(rec, l.store.NextVersion())
	return nil
}

func (l *Loader) fetch(ctx context.Context, scope models.Scope) ([]models.FileRecord, error) {
	switch scope.Kind {
	case models.ScopeUserFiles:
		return l.api.ListFiles(ctx)
	case models.ScopeAdminFiles:
		return l.api.ListAdminFiles(ctx)
	case models.ScopeSearch:
		return l.api.Search(ctx, scope.Query)
	default:
		return nil, fmt.Errorf("unknown scope %q", scope.Kind)
	}
}

func (l *Loader) merge(scope models.Scope, records []models.FileRecord, stamp int64) {
	current := make(map[string]struct{}, len(records))
	for _, rec := range records {
		current[rec.ID] = struct{}{}
		l.store.Upsert(rec, stamp)
	}

	if scope.Partial() {
		return
	}

	l.mu.Lock()
	previous := l.seen[scope.Key()]
	if previous != nil && previous.stamp > stamp {
		// A newer refresh for this scope already merged; this result's
		// absence information is stale.
		l.mu.Unlock()
		return
	}
	l.seen[scope.Key()] = &scopeState{stamp: stamp, ids: current}
	l.mu.Unlock()

	if previous == nil {
		return
	}
	// A record in the previous full result but not in this one was deleted
	// server-side while we were not looking.
	for id := range previous.ids {
		if _, ok := current[id]; !ok {
			l.store.Remove(id)
		}
	}
}
