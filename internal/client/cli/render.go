package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/riya9927/balkanid-capstone/internal/client/models"
)

// renderFiles formats records as an aligned table. Sizes and upload times are
// humanized, so "4.1 kB" and "2 days ago" instead of raw numbers.
func renderFiles(records []models.FileRecord) string {
	if len(records) == 0 {
		return "No files"
	}

	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSIZE\tTYPE\tDOWNLOADS\tVISIBILITY\tUPLOADED")
	for _, r := range records {
		visibility := string(r.Visibility)
		if r.PendingDeletion {
			visibility = "deleting"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			r.ID, r.Filename, humanize.Bytes(uint64(r.SizeBytes)), r.ContentType,
			r.DownloadCount, visibility, humanize.Time(r.CreatedAt))
	}
	w.Flush()
	return strings.TrimRight(b.String(), "\n")
}

// renderFileDetail formats a single record with every known field.
func renderFileDetail(r models.FileRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ID:         %s\n", r.ID)
	fmt.Fprintf(&b, "Name:       %s\n", r.Filename)
	fmt.Fprintf(&b, "Type:       %s\n", r.ContentType)
	fmt.Fprintf(&b, "Size:       %s\n", humanize.Bytes(uint64(r.SizeBytes)))
	fmt.Fprintf(&b, "Hash:       %s\n", r.ContentHash)
	fmt.Fprintf(&b, "Owner:      %s\n", r.OwnerUsername)
	fmt.Fprintf(&b, "Downloads:  %d\n", r.DownloadCount)
	fmt.Fprintf(&b, "Visibility: %s\n", r.Visibility)
	if r.PublicToken != "" {
		fmt.Fprintf(&b, "Token:      %s\n", r.PublicToken)
	}
	if len(r.Tags) > 0 {
		fmt.Fprintf(&b, "Tags:       %s\n", strings.Join(r.Tags, ", "))
	}
	if r.FolderID != "" {
		fmt.Fprintf(&b, "Folder:     %s\n", r.FolderID)
	}
	fmt.Fprintf(&b, "Uploaded:   %s", humanize.Time(r.CreatedAt))
	return b.String()
}
