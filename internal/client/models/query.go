package models

import "time"

// SearchQuery mirrors the backend's /search parameters. Zero values mean
// "no constraint". Tags and full-text matching are evaluated server-side.
type SearchQuery struct {
	Text      string
	Mime      string
	MinSize   int64
	MaxSize   int64
	StartDate time.Time
	EndDate   time.Time
	Tags      []string
	Uploader  string
}

// ScopeKind identifies which listing a snapshot refresh represents.
type ScopeKind string

const (
	// ScopeUserFiles is the full "all files for the current user" listing.
	ScopeUserFiles ScopeKind = "user"
	// ScopeAdminFiles is the full admin listing of every file.
	ScopeAdminFiles ScopeKind = "admin"
	// ScopeSearch is a server-side filtered listing.
	ScopeSearch ScopeKind = "search"
)

// Scope describes the filter a snapshot fetch represents. Only full scopes
// carry implied-deletion semantics: a record missing from a full listing that
// was present before has been deleted server-side, whereas absence from a
// search result means nothing.
type Scope struct {
	Kind  ScopeKind
	Query SearchQuery
}

func UserFilesScope() Scope  { return Scope{Kind: ScopeUserFiles} }
func AdminFilesScope() Scope { return Scope{Kind: ScopeAdminFiles} }
func SearchScope(q SearchQuery) Scope {
	return Scope{Kind: ScopeSearch, Query: q}
}

// Partial reports whether absence from this scope's result carries no
// deletion information.
func (s Scope) Partial() bool { return s.Kind == ScopeSearch }

// Key identifies the scope for previous-result bookkeeping. Search scopes
// share one key; they never feed the removal pass anyway.
func (s Scope) Key() string { return string(s.Kind) }
