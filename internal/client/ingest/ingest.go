// Package ingest turns push-channel messages into store mutations.
//
// The server sends no version numbers, so every applied event is stamped from
// the store's own counter: an event can never be older than whatever a prior
// event wrote, while a snapshot that was issued later still wins. Malformed
// or unknown messages are dropped and counted, never fatal.
package ingest

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/riya9927/balkanid-capstone/internal/client/models"
	"github.com/riya9927/balkanid-capstone/internal/client/registry"
	"github.com/riya9927/balkanid-capstone/internal/client/snapshot"
	"github.com/riya9927/balkanid-capstone/internal/logging"
	"github.com/riya9927/balkanid-capstone/internal/observability"
)

// Ingestor implements realtime.Handler over the store and the snapshot
// loader. One instance serves the whole process.
type Ingestor struct {
	store   *registry.Store
	loader  *snapshot.Loader
	log     logging.Logger
	metrics *observability.RegistryMetrics

	// refetches collapses concurrent targeted refetches for the same file
	// (duplicate upload events are at-least-once, not exactly-once).
	refetches singleflight.Group
}

func New(store *registry.Store, loader *snapshot.Loader, log logging.Logger, metrics *observability.RegistryMetrics) *Ingestor {
	return &Ingestor{
		store:   store,
		loader:  loader,
		log:     log.With("component", "ingest"),
		metrics: metrics,
	}
}

// HandleConnected closes the event gap after every (re)connect: the channel
// replays nothing, so the only way to learn what happened while disconnected
// is a full refresh.
func (i *Ingestor) HandleConnected(ctx context.Context) {
	if _, err, _ := i.refetches.Do("full-refresh", func() (any, error) {
		return nil, i.loader.RefreshAll(ctx)
	}); err != nil {
		// Non-fatal: the store keeps serving its last good data and the next
		// reconnect or manual refresh closes the gap.
		i.log.Warn(ctx, "post-connect refresh failed", "error", err)
	}
}

// HandleMessage applies one raw push message.
func (i *Ingestor) HandleMessage(ctx context.Context, data []byte) {
	ev, err := models.ParseEvent(data)
	if err != nil {
		i.metrics.EventDropped()
		i.log.Debug(ctx, "dropping malformed event", "error", err)
		return
	}
	if !ev.Known() {
		i.metrics.EventDropped()
		i.log.Debug(ctx, "ignoring unknown event type", "type", ev.Type)
		return
	}

	switch ev.Type {
	case models.EventDownload:
		i.applyDownload(ctx, ev)
	case models.EventUpload:
		i.applyUpload(ctx, ev)
	case models.EventShare:
		i.applyShare(ctx, ev)
	case models.EventDelete:
		i.applyDelete(ctx, ev)
	}
}

func (i *Ingestor) applyDownload(ctx context.Context, ev models.Event) {
	rec, ok := i.store.Get(ev.FileID)
	if !ok {
		// Counts for files we have never fetched are useless on their own;
		// the record will arrive complete with the next snapshot.
		i.log.Debug(ctx, "download event for unknown file", "file_id", ev.FileID)
		return
	}

	if rec.DownloadCount == ev.DownloadCount {
		// At-least-once delivery: a replayed event must change nothing.
		return
	}

	// Authoritative counter from the server; the client never increments it.
	rec.DownloadCount = ev.DownloadCount
	if i.store.Upsert(rec, i.store.NextVersion()) {
		i.metrics.EventApplied(string(ev.Type))
	}
}

// applyUpload reacts to "a file became visible to you". The payload is
// deliberately minimal (id and filename), so instead of synthesizing a
// half-empty record the ingestor refetches the real one.
func (i *Ingestor) applyUpload(ctx context.Context, ev models.Event) {
	_, err, _ := i.refetches.Do("file-"+ev.FileID, func() (any, error) {
		return nil, i.loader.RefreshFile(ctx, ev.FileID)
	})
	if err != nil {
		i.log.Warn(ctx, "targeted refetch failed", "file_id", ev.FileID, "error", err)
		return
	}
	i.metrics.EventApplied(string(ev.Type))
}

func (i *Ingestor) applyShare(ctx context.Context, ev models.Event) {
	rec, ok := i.store.Get(ev.FileID)
	if !ok {
		i.log.Debug(ctx, "share event for unknown file", "file_id", ev.FileID)
		return
	}

	if ev.Public == nil {
		i.log.Debug(ctx, "share event without visibility", "file_id", ev.FileID)
		return
	}

	visibility := models.VisibilityPrivate
	token := ""
	if *ev.Public {
		visibility = models.VisibilityPublic
		token = ev.PublicToken
	}
	if rec.Visibility == visibility && rec.PublicToken == token {
		return
	}

	rec.Visibility = visibility
	rec.PublicToken = token
	if i.store.Upsert(rec, i.store.NextVersion()) {
		i.metrics.EventApplied(string(ev.Type))
	}
}

func (i *Ingestor) applyDelete(ctx context.Context, ev models.Event) {
	i.store.Remove(ev.FileID)
	i.metrics.EventApplied(string(ev.Type))
}
