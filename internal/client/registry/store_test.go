package registry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riya9927/balkanid-capstone/internal/client/models"
)

func TestStore_NextVersion_Monotonic(t *testing.T) {
	s := NewStore(nil)

	v1 := s.NextVersion()
	v2 := s.NextVersion()
	assert.Greater(t, v2, v1)
	assert.Equal(t, v2, s.CurrentVersion())
}

func TestStore_Upsert_VersionGuard(t *testing.T) {
	s := NewStore(nil)

	applied := s.Upsert(models.FileRecord{ID: "1", Filename: "a.txt", DownloadCount: 3}, 5)
	require.True(t, applied)

	// A newer stamp wins.
	applied = s.Upsert(models.FileRecord{ID: "1", Filename: "a.txt", DownloadCount: 4}, 6)
	require.True(t, applied)

	// An older stamp is discarded, not an error.
	applied = s.Upsert(models.FileRecord{ID: "1", Filename: "a.txt", DownloadCount: 1}, 4)
	assert.False(t, applied)

	rec, ok := s.Get("1")
	require.True(t, ok)
	assert.Equal(t, int64(4), rec.DownloadCount)
	assert.Equal(t, int64(6), rec.Version)
}

func TestStore_Upsert_EqualVersionIdempotent(t *testing.T) {
	s := NewStore(nil)

	require.True(t, s.Upsert(models.FileRecord{ID: "1", DownloadCount: 4}, 6))
	// Same event delivered twice: applying it again with the same stamp must
	// leave the visible record unchanged.
	require.True(t, s.Upsert(models.FileRecord{ID: "1", DownloadCount: 4}, 6))

	rec, _ := s.Get("1")
	assert.Equal(t, int64(4), rec.DownloadCount)
	assert.Equal(t, int64(6), rec.Version)
}

func TestStore_Upsert_NormalizesPrivateToken(t *testing.T) {
	s := NewStore(nil)

	s.Upsert(models.FileRecord{ID: "1", Visibility: models.VisibilityPrivate, PublicToken: "leftover"}, 1)

	rec, _ := s.Get("1")
	assert.Empty(t, rec.PublicToken)
}

func TestStore_Upsert_PreservesKnownSharedWith(t *testing.T) {
	s := NewStore(nil)

	s.Upsert(models.FileRecord{ID: "1", SharedWith: []string{"bob"}}, 1)

	// A snapshot merge that did not fetch grants must not erase them.
	s.Upsert(models.FileRecord{ID: "1", SharedWith: nil}, 2)
	rec, _ := s.Get("1")
	assert.Equal(t, []string{"bob"}, rec.SharedWith)

	// An explicit empty list is knowledge and does overwrite.
	s.Upsert(models.FileRecord{ID: "1", SharedWith: []string{}}, 3)
	rec, _ = s.Get("1")
	require.NotNil(t, rec.SharedWith)
	assert.Empty(t, rec.SharedWith)
}

func TestStore_Remove_Idempotent(t *testing.T) {
	s := NewStore(nil)
	s.Upsert(models.FileRecord{ID: "1"}, 1)

	s.Remove("1")
	_, ok := s.Get("1")
	assert.False(t, ok)

	// Removing again must not panic or notify.
	calls := 0
	defer s.Subscribe(func(Change) { calls++ })()
	s.Remove("1")
	assert.Zero(t, calls)
}

func TestStore_List_FiltersWithoutBlocking(t *testing.T) {
	s := NewStore(nil)
	s.Upsert(models.FileRecord{ID: "1", ContentType: "image/png"}, 1)
	s.Upsert(models.FileRecord{ID: "2", ContentType: "text/plain"}, 2)

	images := s.List(func(r models.FileRecord) bool {
		return r.ContentType == "image/png"
	})
	require.Len(t, images, 1)
	assert.Equal(t, "1", images[0].ID)

	all := s.List(nil)
	assert.Len(t, all, 2)
}

func TestStore_Subscribe_NotifiesAndUnsubscribes(t *testing.T) {
	s := NewStore(nil)

	var got []Change
	unsub := s.Subscribe(func(c Change) { got = append(got, c) })

	s.Upsert(models.FileRecord{ID: "1"}, 1)
	s.Remove("1")

	require.Len(t, got, 2)
	assert.Equal(t, Change{Kind: ChangeUpsert, ID: "1"}, got[0])
	assert.Equal(t, Change{Kind: ChangeRemove, ID: "1"}, got[1])

	unsub()
	unsub() // double-unsubscribe is harmless
	s.Upsert(models.FileRecord{ID: "2"}, 2)
	assert.Len(t, got, 2)
}

func TestStore_Subscribe_RejectedWriteDoesNotNotify(t *testing.T) {
	s := NewStore(nil)
	s.Upsert(models.FileRecord{ID: "1"}, 5)

	calls := 0
	defer s.Subscribe(func(Change) { calls++ })()

	s.Upsert(models.FileRecord{ID: "1"}, 2)
	assert.Zero(t, calls)
}

func TestStore_CallbackMayReadStore(t *testing.T) {
	s := NewStore(nil)

	var seen models.FileRecord
	defer s.Subscribe(func(c Change) {
		rec, ok := s.Get(c.ID)
		if ok {
			seen = rec
		}
	})()

	s.Upsert(models.FileRecord{ID: "1", Filename: "a.txt"}, 1)
	assert.Equal(t, "a.txt", seen.Filename)
}

func TestStore_Folders_SameDiscipline(t *testing.T) {
	s := NewStore(nil)

	require.True(t, s.UpsertFolder(models.FolderRecord{ID: "f1", Name: "docs"}, 3))
	assert.False(t, s.UpsertFolder(models.FolderRecord{ID: "f1", Name: "old"}, 2))

	rec, ok := s.GetFolder("f1")
	require.True(t, ok)
	assert.Equal(t, "docs", rec.Name)

	s.RemoveFolder("f1")
	_, ok = s.GetFolder("f1")
	assert.False(t, ok)
	s.RemoveFolder("f1") // idempotent
}

func TestStore_Get_ReturnsCopy(t *testing.T) {
	s := NewStore(nil)
	s.Upsert(models.FileRecord{ID: "1", SharedWith: []string{"bob"}}, 1)

	rec, _ := s.Get("1")
	rec.SharedWith[0] = "mallory"

	again, _ := s.Get("1")
	assert.Equal(t, "bob", again.SharedWith[0])
}

func TestStore_ConcurrentWriters_NeverRegress(t *testing.T) {
	s := NewStore(nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v := s.NextVersion()
			s.Upsert(models.FileRecord{ID: "1", DownloadCount: v}, v)
		}()
	}
	wg.Wait()

	rec, ok := s.Get("1")
	require.True(t, ok)
	// Whatever interleaving happened, the surviving record carries the
	// highest applied stamp and its own data.
	assert.Equal(t, rec.Version, rec.DownloadCount)
	assert.Equal(t, s.CurrentVersion(), rec.Version)
}
