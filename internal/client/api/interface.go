// Package api implements the REST surface of the vault backend that the
// registry core consumes. Retry and backoff policy are deliberately out of
// scope here; callers decide whether a failure is worth retrying.
package api

import (
	"context"

	"github.com/riya9927/balkanid-capstone/internal/client/models"
)

// Client describes the backend operations the registry depends on.
// The concrete implementation is HTTPClient; tests substitute fakes.
type Client interface {
	// Listings.
	ListFiles(ctx context.Context) ([]models.FileRecord, error)
	ListAdminFiles(ctx context.Context) ([]models.FileRecord, error)
	Search(ctx context.Context, q models.SearchQuery) ([]models.FileRecord, error)
	GetFile(ctx context.Context, id string) (models.FileRecord, error)
	ListFolders(ctx context.Context) ([]models.FolderRecord, error)
	ListSharedWith(ctx context.Context, id string) ([]string, error)

	// Mutations. Endpoints returning no record body return only an error.
	SetFilePublic(ctx context.Context, id string, public bool) (publicToken string, err error)
	ShareFileWithUser(ctx context.Context, id, targetUser string) error
	UnshareFileWithUser(ctx context.Context, id, targetUser string) error
	DeleteFile(ctx context.Context, id string) error
	CreateFolder(ctx context.Context, name string) (models.FolderRecord, error)
}
