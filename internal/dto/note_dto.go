package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateNoteRequest struct {
	Title      string    `json:"title" validate:"required,min=1,max=200"`
	Content    string    `json:"content" validate:"required"`
	NotebookId uuid.UUID `json:"notebook_id" validate:"required"`
	Tags       []string  `json:"tags"`
	Status     string    `json:"status" validate:"omitempty,oneof=draft published archived"`
}

type CreateNoteResponse struct {
	Id uuid.UUID `json:"id"`
}

// UpdateNoteRequest is the allow-listed pointer patch for notes.
type UpdateNoteRequest struct {
	Id      uuid.UUID `json:"-"`
	Title   *string   `json:"title"`
	Content *string   `json:"content"`
	Tags    *[]string `json:"tags"`
	Status  *string   `json:"status"`
}

type UpdateNoteResponse struct {
	Id uuid.UUID `json:"id"`
}

type AttachmentPayload struct {
	Filename   string    `json:"filename"`
	FileUrl    string    `json:"file_url"`
	FileType   string    `json:"file_type"`
	UploadDate time.Time `json:"upload_date"`
}

type ReferencePayload struct {
	Title    string `json:"title"`
	Url      string `json:"url"`
	Citation string `json:"citation"`
}

type NoteMetadataPayload struct {
	WordCount      int        `json:"word_count"`
	ReadTime       int        `json:"read_time"`
	LastSummarized *time.Time `json:"last_summarized,omitempty"`
}

type NoteResponse struct {
	Id          uuid.UUID           `json:"id"`
	Title       string              `json:"title"`
	Content     string              `json:"content"`
	NotebookId  uuid.UUID           `json:"notebook_id"`
	AuthorId    uuid.UUID           `json:"author_id"`
	Tags        []string            `json:"tags"`
	Status      string              `json:"status"`
	Attachments []AttachmentPayload `json:"attachments"`
	References  []ReferencePayload  `json:"references"`
	Metadata    NoteMetadataPayload `json:"metadata"`
	AiSummary   string              `json:"ai_summary,omitempty"`
	AiInsights  []string            `json:"ai_insights,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   *time.Time          `json:"updated_at"`
}

type NoteVersionResponse struct {
	Id        uuid.UUID `json:"id"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	AuthorId  uuid.UUID `json:"author_id"`
}

type SearchNoteResponse struct {
	Id         uuid.UUID  `json:"id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	NotebookId uuid.UUID  `json:"notebook_id"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at"`
}

type AddAttachmentRequest struct {
	Filename string `json:"filename" validate:"required"`
	FileUrl  string `json:"file_url" validate:"required"`
	FileType string `json:"file_type"`
}

// SummarizeNoteMessage is the payload placed on the summarize topic
// after a content write.
type SummarizeNoteMessage struct {
	NoteId uuid.UUID `json:"note_id"`
}
