package models

import "time"

// FolderRecord mirrors a folder's metadata. Folders follow the same
// versioning discipline as files but are only changed by direct user action,
// never by push events.
type FolderRecord struct {
	ID          string
	Name        string
	Visibility  Visibility
	PublicToken string
	CreatedAt   time.Time
	Version     int64
}

func (f FolderRecord) Public() bool { return f.Visibility == VisibilityPublic }
