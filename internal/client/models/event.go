package models

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/riya9927/balkanid-capstone/internal/common"
)

// EventType classifies a push-channel message.
type EventType string

const (
	EventDownload EventType = "download"
	EventUpload   EventType = "upload"
	EventShare    EventType = "share"
	EventDelete   EventType = "delete"
)

// Event is one decoded push-channel message. The server sends minimal
// payloads; only the fields relevant to the event's type are populated.
type Event struct {
	Type   EventType
	FileID string

	// download
	DownloadCount int64

	// upload
	Filename string

	// share
	Public      *bool
	PublicToken string
}

// eventWire matches the JSON the backend broadcasts, e.g.
// {"type":"download","file_id":12,"count":4}.
type eventWire struct {
	Type        string          `json:"type"`
	FileID      json.Number     `json:"file_id"`
	Count       int64           `json:"count"`
	Filename    string          `json:"filename"`
	Public      *bool           `json:"public"`
	PublicToken string          `json:"public_token"`
	Payload     json.RawMessage `json:"payload"`
}

// ParseEvent decodes a raw push message. Unknown event types come back with
// their type preserved so the caller can count and skip them; undecodable
// JSON or a missing file id yields common.ErrMalformedEvent.
func ParseEvent(data []byte) (Event, error) {
	var w eventWire
	if err := json.Unmarshal(data, &w); err != nil {
		return Event{}, fmt.Errorf("%w: %v", common.ErrMalformedEvent, err)
	}
	if w.Type == "" {
		return Event{}, fmt.Errorf("%w: missing type", common.ErrMalformedEvent)
	}

	ev := Event{Type: EventType(w.Type)}
	if !ev.Known() {
		// Unknown types are tolerated, not errors. The caller skips them.
		return ev, nil
	}

	id, err := w.FileID.Int64()
	if err != nil || id <= 0 {
		return Event{}, fmt.Errorf("%w: bad file_id %q", common.ErrMalformedEvent, w.FileID.String())
	}

	return Event{
		Type:          EventType(w.Type),
		FileID:        strconv.FormatInt(id, 10),
		DownloadCount: w.Count,
		Filename:      w.Filename,
		Public:        w.Public,
		PublicToken:   w.PublicToken,
	}, nil
}

// Known reports whether the event type is one the ingestor understands.
func (e Event) Known() bool {
	switch e.Type {
	case EventDownload, EventUpload, EventShare, EventDelete:
		return true
	}
	return false
}
