package projection

import (
	"strings"

	"github.com/riya9927/balkanid-capstone/internal/client/models"
)

// The predicates below mirror the screens of the original UI: category tabs,
// the per-user file list, the admin panel, and the local half of search.
// Tags and full-text matching stay server-side; a search screen combines a
// server-side search scope refresh with one of these local filters.

// All admits every record (the admin "all files" view).
func All() Predicate {
	return func(models.FileRecord) bool { return true }
}

// ByCategory matches records whose content type starts with prefix, e.g.
// "image/" or "application/pdf".
func ByCategory(prefix string) Predicate {
	return func(r models.FileRecord) bool {
		return strings.HasPrefix(r.ContentType, prefix)
	}
}

// OwnedBy matches records uploaded by username.
func OwnedBy(username string) Predicate {
	return func(r models.FileRecord) bool {
		return r.OwnerUsername == username
	}
}

// Visible filters out records whose deletion is pending confirmation.
// Screens that prefer graying deletions out use All and inspect the flag.
func Visible() Predicate {
	return func(r models.FileRecord) bool {
		return !r.PendingDeletion
	}
}

// LocalSearch evaluates the locally-checkable parts of a search query:
// filename substring, size range, date range, and uploader. Zero-valued
// constraints are skipped.
func LocalSearch(q models.SearchQuery) Predicate {
	text := strings.ToLower(q.Text)
	return func(r models.FileRecord) bool {
		if text != "" && !strings.Contains(strings.ToLower(r.Filename), text) {
			return false
		}
		if q.Mime != "" && r.ContentType != q.Mime {
			return false
		}
		if q.MinSize > 0 && r.SizeBytes < q.MinSize {
			return false
		}
		if q.MaxSize > 0 && r.SizeBytes > q.MaxSize {
			return false
		}
		if !q.StartDate.IsZero() && r.CreatedAt.Before(q.StartDate) {
			return false
		}
		if !q.EndDate.IsZero() && r.CreatedAt.After(q.EndDate) {
			return false
		}
		if q.Uploader != "" && r.OwnerUsername != q.Uploader {
			return false
		}
		return true
	}
}

// And combines predicates; a record must satisfy all of them.
func And(preds ...Predicate) Predicate {
	return func(r models.FileRecord) bool {
		for _, p := range preds {
			if p != nil && !p(r) {
				return false
			}
		}
		return true
	}
}

// Comparators for the screens' sort orders.

func ByName(a, b models.FileRecord) bool {
	return strings.ToLower(a.Filename) < strings.ToLower(b.Filename)
}

func BySize(a, b models.FileRecord) bool {
	return a.SizeBytes < b.SizeBytes
}

func ByCreatedAt(a, b models.FileRecord) bool {
	return a.CreatedAt.Before(b.CreatedAt)
}

// ByDownloads sorts most-downloaded first, the statistics screen's order.
func ByDownloads(a, b models.FileRecord) bool {
	return a.DownloadCount > b.DownloadCount
}
