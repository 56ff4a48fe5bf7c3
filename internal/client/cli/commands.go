package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/riya9927/balkanid-capstone/internal/client/models"
	"github.com/riya9927/balkanid-capstone/internal/client/projection"
	"github.com/riya9927/balkanid-capstone/internal/common"
)

func lessFor(sortBy string) (projection.Less, error) {
	switch sortBy {
	case "", "name":
		return projection.ByName, nil
	case "size":
		return projection.BySize, nil
	case "date":
		return projection.ByCreatedAt, nil
	case "downloads":
		return projection.ByDownloads, nil
	default:
		return nil, fmt.Errorf("unknown sort order %q", sortBy)
	}
}

// List prints the cached files without touching the network.
func (a *App) List(ctx context.Context, sortBy string) error {
	less, err := lessFor(sortBy)
	if err != nil {
		return err
	}

	records := a.store.List(projection.Visible())
	sort.SliceStable(records, func(i, j int) bool { return less(records[i], records[j]) })
	printlnFn(renderFiles(records))
	return nil
}

// Admin refreshes the admin-wide listing and prints every known file,
// whoever owns it.
func (a *App) Admin(ctx context.Context) error {
	if err := a.loader.Refresh(ctx, models.AdminFilesScope()); err != nil {
		return err
	}
	records := a.store.List(projection.Visible())
	sort.SliceStable(records, func(i, j int) bool { return projection.ByName(records[i], records[j]) })
	printlnFn(renderFiles(records))
	return nil
}

// Search asks the server for matches, merges them into the registry then
// prints the locally filtered result. A failed server call degrades to a
// cache-only search.
func (a *App) Search(ctx context.Context, text string) error {
	q := models.SearchQuery{Text: text}
	if err := a.loader.Refresh(ctx, models.SearchScope(q)); err != nil {
		a.log.Warn(ctx, "server search failed, showing cached matches only", "error", err)
	}

	records := a.store.List(projection.And(projection.Visible(), projection.LocalSearch(q)))
	sort.SliceStable(records, func(i, j int) bool { return projection.ByName(records[i], records[j]) })
	printlnFn(renderFiles(records))
	return nil
}

// Get refetches a single file and prints its details.
func (a *App) Get(ctx context.Context, id string) error {
	if err := a.loader.RefreshFile(ctx, id); err != nil {
		return err
	}
	rec, ok := a.store.Get(id)
	if !ok {
		return common.ErrNotFound
	}
	printlnFn(renderFileDetail(rec))
	return nil
}

// SharedWith lazily loads and prints the users a file is shared with.
func (a *App) SharedWith(ctx context.Context, id string) error {
	if err := a.loader.LoadSharedWith(ctx, id); err != nil {
		return err
	}
	rec, ok := a.store.Get(id)
	if !ok {
		return common.ErrNotFound
	}
	if !rec.SharedWithKnown() {
		printlnFn("Sharing information is not available")
		return nil
	}
	if len(rec.SharedWith) == 0 {
		printlnFn("Not shared with anyone")
		return nil
	}
	printlnFn("Shared with:", strings.Join(rec.SharedWith, ", "))
	return nil
}

// Share makes a file public and prints its link token.
func (a *App) Share(ctx context.Context, id string) error {
	if err := a.gateway.SetPublic(ctx, id, true); err != nil {
		return err
	}
	if rec, ok := a.store.Get(id); ok && rec.PublicToken != "" {
		printlnFn("Public token:", rec.PublicToken)
	}
	return nil
}

// Private makes a file private again.
func (a *App) Private(ctx context.Context, id string) error {
	return a.gateway.SetPublic(ctx, id, false)
}

func (a *App) Grant(ctx context.Context, id, user string) error {
	return a.gateway.ShareWithUser(ctx, id, user)
}

func (a *App) Revoke(ctx context.Context, id, user string) error {
	return a.gateway.UnshareUser(ctx, id, user)
}

func (a *App) Delete(ctx context.Context, id string) error {
	return a.gateway.Delete(ctx, id)
}

// Folders prints the cached folder list.
func (a *App) Folders(ctx context.Context) error {
	folders := a.store.ListFolders(nil)
	sort.SliceStable(folders, func(i, j int) bool {
		return strings.ToLower(folders[i].Name) < strings.ToLower(folders[j].Name)
	})
	for _, f := range folders {
		printlnFn(fmt.Sprintf("%s  %s  %s", f.ID, f.Name, f.Visibility))
	}
	return nil
}

// Mkdir creates a folder and prints its server-assigned id.
func (a *App) Mkdir(ctx context.Context, name string) error {
	folder, err := a.gateway.CreateFolder(ctx, name)
	if err != nil {
		return err
	}
	printlnFn("Created folder", folder.ID)
	return nil
}

// Refresh forces a full snapshot reload.
func (a *App) Refresh(ctx context.Context) error {
	return a.loader.RefreshAll(ctx)
}

// Watch toggles a live view over a MIME category. While active, any change
// to the view is announced with its new size.
func (a *App) Watch(ctx context.Context, prefix string) error {
	if p, ok := a.watches[prefix]; ok {
		p.Close()
		delete(a.watches, prefix)
		printlnFn("Stopped watching", prefix)
		return nil
	}

	p := projection.New(a.store, projection.ByCategory(prefix), projection.ByName)
	p.OnChange(func() {
		printlnFn(fmt.Sprintf("[watch %s] %d files", prefix, len(p.Records())))
	})
	a.watches[prefix] = p
	printlnFn(fmt.Sprintf("Watching %s (%d files)", prefix, len(p.Records())))
	return nil
}
