package ingest

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riya9927/balkanid-capstone/internal/client/api"
	"github.com/riya9927/balkanid-capstone/internal/client/models"
	"github.com/riya9927/balkanid-capstone/internal/client/registry"
	"github.com/riya9927/balkanid-capstone/internal/client/snapshot"
	"github.com/riya9927/balkanid-capstone/internal/common"
	"github.com/riya9927/balkanid-capstone/internal/logging"
)

type fakeAPI struct {
	api.Client

	mu           sync.Mutex
	files        []models.FileRecord
	folders      []models.FolderRecord
	fileByID     map[string]models.FileRecord
	getFileCalls int
	fileErr      error
}

func (f *fakeAPI) ListFiles(ctx context.Context) ([]models.FileRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.FileRecord(nil), f.files...), nil
}

func (f *fakeAPI) ListFolders(ctx context.Context) ([]models.FolderRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.FolderRecord(nil), f.folders...), nil
}

func (f *fakeAPI) GetFile(ctx context.Context, id string) (models.FileRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getFileCalls++
	if f.fileErr != nil {
		return models.FileRecord{}, f.fileErr
	}
	rec, ok := f.fileByID[id]
	if !ok {
		return models.FileRecord{}, common.ErrNotFound
	}
	return rec, nil
}

func newIngestor(t *testing.T, fake *fakeAPI) (*Ingestor, *registry.Store) {
	t.Helper()
	store := registry.NewStore(nil)
	loader := snapshot.NewLoader(store, fake, logging.NewDiscardLogger(), nil)
	return New(store, loader, logging.NewDiscardLogger(), nil), store
}

func TestIngestor_MalformedMessage_DroppedSilently(t *testing.T) {
	ing, store := newIngestor(t, &fakeAPI{})
	ctx := context.Background()

	ing.HandleMessage(ctx, []byte("Real-time updates connected"))
	ing.HandleMessage(ctx, []byte(`{"file_id":1}`))
	ing.HandleMessage(ctx, []byte(`{"type":"download","file_id":"zero"}`))

	assert.Empty(t, store.List(nil))

	// Later messages still flow.
	v := store.NextVersion()
	store.Upsert(models.FileRecord{ID: "1", DownloadCount: 1}, v)
	ing.HandleMessage(ctx, []byte(`{"type":"download","file_id":1,"count":2}`))

	rec, _ := store.Get("1")
	assert.Equal(t, int64(2), rec.DownloadCount)
}

func TestIngestor_UnknownEventType_Ignored(t *testing.T) {
	ing, store := newIngestor(t, &fakeAPI{})

	ing.HandleMessage(context.Background(), []byte(`{"type":"quota_warning","file_id":1}`))

	assert.Empty(t, store.List(nil))
}

func TestIngestor_DownloadEvent_AppliesAuthoritativeCount(t *testing.T) {
	ing, store := newIngestor(t, &fakeAPI{})
	ctx := context.Background()

	store.Upsert(models.FileRecord{ID: "1", DownloadCount: 3}, store.NextVersion())
	before, _ := store.Get("1")

	ing.HandleMessage(ctx, []byte(`{"type":"download","file_id":1,"count":4}`))

	rec, _ := store.Get("1")
	assert.Equal(t, int64(4), rec.DownloadCount)
	assert.Greater(t, rec.Version, before.Version)

	// At-least-once delivery: the duplicate changes nothing.
	versionAfterFirst := rec.Version
	ing.HandleMessage(ctx, []byte(`{"type":"download","file_id":1,"count":4}`))
	rec, _ = store.Get("1")
	assert.Equal(t, int64(4), rec.DownloadCount)
	assert.Equal(t, versionAfterFirst, rec.Version)
}

func TestIngestor_DownloadEvent_UnknownFileSkipped(t *testing.T) {
	ing, store := newIngestor(t, &fakeAPI{})

	ing.HandleMessage(context.Background(), []byte(`{"type":"download","file_id":99,"count":1}`))

	_, ok := store.Get("99")
	assert.False(t, ok)
}

func TestIngestor_UploadEvent_TriggersTargetedRefetch(t *testing.T) {
	fake := &fakeAPI{fileByID: map[string]models.FileRecord{
		"7": {ID: "7", Filename: "new.png", ContentType: "image/png"},
	}}
	ing, store := newIngestor(t, fake)

	ing.HandleMessage(context.Background(), []byte(`{"type":"upload","file_id":7,"filename":"new.png"}`))

	rec, ok := store.Get("7")
	require.True(t, ok, "upload event must materialize the record via refetch")
	assert.Equal(t, "image/png", rec.ContentType, "record comes from the fetch, not the minimal payload")
}

func TestIngestor_UploadEvent_RefetchFailureIsNonFatal(t *testing.T) {
	fake := &fakeAPI{fileErr: common.ErrTransientNetwork}
	ing, store := newIngestor(t, fake)

	ing.HandleMessage(context.Background(), []byte(`{"type":"upload","file_id":7}`))

	_, ok := store.Get("7")
	assert.False(t, ok)
}

func TestIngestor_ShareEvent_UpdatesVisibility(t *testing.T) {
	ing, store := newIngestor(t, &fakeAPI{})
	ctx := context.Background()

	store.Upsert(models.FileRecord{ID: "5", Visibility: models.VisibilityPrivate}, store.NextVersion())

	ing.HandleMessage(ctx, []byte(`{"type":"share","file_id":5,"public":true,"public_token":"tok"}`))
	rec, _ := store.Get("5")
	assert.Equal(t, models.VisibilityPublic, rec.Visibility)
	assert.Equal(t, "tok", rec.PublicToken)

	ing.HandleMessage(ctx, []byte(`{"type":"share","file_id":5,"public":false}`))
	rec, _ = store.Get("5")
	assert.Equal(t, models.VisibilityPrivate, rec.Visibility)
	assert.Empty(t, rec.PublicToken)
}

func TestIngestor_DeleteEvent_RemovesRecord(t *testing.T) {
	ing, store := newIngestor(t, &fakeAPI{})
	ctx := context.Background()

	store.Upsert(models.FileRecord{ID: "3"}, store.NextVersion())

	ing.HandleMessage(ctx, []byte(`{"type":"delete","file_id":3}`))
	_, ok := store.Get("3")
	assert.False(t, ok)

	// Duplicate delete is a no-op, not a panic.
	ing.HandleMessage(ctx, []byte(`{"type":"delete","file_id":3}`))
}

func TestIngestor_HandleConnected_ClosesGapWithFullRefresh(t *testing.T) {
	fake := &fakeAPI{
		files:   []models.FileRecord{{ID: "1", Filename: "a"}},
		folders: []models.FolderRecord{{ID: "f1", Name: "docs"}},
	}
	ing, store := newIngestor(t, fake)

	ing.HandleConnected(context.Background())

	_, ok := store.Get("1")
	assert.True(t, ok)
	_, ok = store.GetFolder("f1")
	assert.True(t, ok)
}
