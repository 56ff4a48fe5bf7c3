// Package models defines the metadata records, push events, and query types
// shared by the registry components.
package models

import "time"

// Visibility of a file or folder.
type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityPublic  Visibility = "public"
)

// FileRecord is one uploaded file's metadata as known to the client.
//
// Records are values: nothing mutates a FileRecord in place. Every write path
// builds a new value and hands it to the store, which is what makes version
// comparison and rollback possible.
//
// SharedWith is nil until the per-user grant list has been fetched; nil means
// "unknown", an empty non-nil slice means "known to be empty". Callers must
// never conflate the two.
type FileRecord struct {
	ID            string
	Filename      string
	ContentType   string
	SizeBytes     int64
	ContentHash   string
	OwnerUsername string
	DownloadCount int64
	Visibility    Visibility
	PublicToken   string
	SharedWith    []string
	Tags          []string
	CreatedAt     time.Time
	FolderID      string

	// PendingDeletion is set by an optimistic delete so views can gray the
	// record out instead of having it vanish and reappear on failure.
	PendingDeletion bool

	// Version is the store-assigned monotonic stamp, never sent by the server.
	Version int64
}

// Public reports whether the record is publicly visible.
func (r FileRecord) Public() bool { return r.Visibility == VisibilityPublic }

// Clone returns a deep copy. The scalar fields copy by value; the slices are
// the only aliased state.
func (r FileRecord) Clone() FileRecord {
	out := r
	if r.SharedWith != nil {
		out.SharedWith = append([]string(nil), r.SharedWith...)
	}
	if r.Tags != nil {
		out.Tags = append([]string(nil), r.Tags...)
	}
	return out
}

// SharedWithKnown reports whether the grant list has been fetched.
func (r FileRecord) SharedWithKnown() bool { return r.SharedWith != nil }
