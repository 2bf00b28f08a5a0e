package entity

import (
	"time"

	"github.com/google/uuid"
)

type NoteStatus string

const (
	StatusDraft     NoteStatus = "draft"
	StatusPublished NoteStatus = "published"
	StatusArchived  NoteStatus = "archived"
)

// Valid reports enum membership only. Transitions between statuses are
// deliberately unconstrained; any status may be set directly.
func (s NoteStatus) Valid() bool {
	return s == StatusDraft || s == StatusPublished || s == StatusArchived
}

// NoteVersion is one ledger entry: the content snapshot recorded at save
// time together with the acting author.
type NoteVersion struct {
	Id        uuid.UUID `json:"id"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	AuthorId  uuid.UUID `json:"author_id"`
}

type Attachment struct {
	Filename   string    `json:"filename"`
	FileUrl    string    `json:"file_url"`
	FileType   string    `json:"file_type"`
	UploadDate time.Time `json:"upload_date"`
}

type Reference struct {
	Title    string `json:"title"`
	Url      string `json:"url"`
	Citation string `json:"citation"`
}

// NoteMetadata is derived from content and recomputed on every content
// change, never edited directly.
type NoteMetadata struct {
	WordCount      int
	ReadTime       int
	LastSummarized *time.Time
}

type Note struct {
	Id          uuid.UUID
	Title       string
	Content     string
	NotebookId  uuid.UUID
	AuthorId    uuid.UUID
	Tags        []string
	Status      NoteStatus
	Versions    []NoteVersion
	Attachments []Attachment
	References  []Reference
	Metadata    NoteMetadata
	AiSummary   string
	AiInsights  []string

	// LockVersion backs optimistic concurrency on note writes.
	LockVersion int64

	CreatedAt time.Time
	UpdatedAt *time.Time
}

func (n *Note) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
