package api

import (
	"strconv"
	"strings"
	"time"

	"github.com/riya9927/balkanid-capstone/internal/client/models"
)

// fileDTO matches the backend's JSON for a file record (gorm struct marshaled
// with default field names).
type fileDTO struct {
	ID            uint64    `json:"ID"`
	Filename      string    `json:"Filename"`
	ContentType   string    `json:"ContentType"`
	Size          int64     `json:"Size"`
	Hash          string    `json:"Hash"`
	Public        bool      `json:"Public"`
	PublicToken   *string   `json:"PublicToken"`
	DownloadCount int64     `json:"DownloadCount"`
	CreatedAt     time.Time `json:"CreatedAt"`
	FolderID      *uint64   `json:"FolderID"`
	Tags          string    `json:"Tags"`
	Uploader      *userDTO  `json:"Uploader"`
}

type userDTO struct {
	Username string `json:"Username"`
}

type folderDTO struct {
	ID          uint64    `json:"ID"`
	Name        string    `json:"Name"`
	Public      bool      `json:"Public"`
	PublicToken *string   `json:"PublicToken"`
	CreatedAt   time.Time `json:"CreatedAt"`
}

func (d fileDTO) toRecord() models.FileRecord {
	rec := models.FileRecord{
		ID:            strconv.FormatUint(d.ID, 10),
		Filename:      d.Filename,
		ContentType:   d.ContentType,
		SizeBytes:     d.Size,
		ContentHash:   d.Hash,
		DownloadCount: d.DownloadCount,
		Visibility:    models.VisibilityPrivate,
		CreatedAt:     d.CreatedAt,
	}
	if d.Public {
		rec.Visibility = models.VisibilityPublic
		if d.PublicToken != nil {
			rec.PublicToken = *d.PublicToken
		}
	}
	if d.FolderID != nil {
		rec.FolderID = strconv.FormatUint(*d.FolderID, 10)
	}
	if d.Uploader != nil {
		rec.OwnerUsername = d.Uploader.Username
	}
	if tags := strings.TrimSpace(d.Tags); tags != "" {
		for _, t := range strings.Split(tags, ",") {
			if t = strings.TrimSpace(t); t != "" {
				rec.Tags = append(rec.Tags, t)
			}
		}
	}
	return rec
}

func (d folderDTO) toRecord() models.FolderRecord {
	rec := models.FolderRecord{
		ID:         strconv.FormatUint(d.ID, 10),
		Name:       d.Name,
		Visibility: models.VisibilityPrivate,
		CreatedAt:  d.CreatedAt,
	}
	if d.Public {
		rec.Visibility = models.VisibilityPublic
		if d.PublicToken != nil {
			rec.PublicToken = *d.PublicToken
		}
	}
	return rec
}

func toRecords(dtos []fileDTO) []models.FileRecord {
	out := make([]models.FileRecord, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, d.toRecord())
	}
	return out
}
