package dto

import (
	"time"

	"github.com/google/uuid"
)

type NotebookSettingsPayload struct {
	IsPublic      bool `json:"is_public"`
	AllowComments bool `json:"allow_comments"`
}

type CollaboratorPayload struct {
	UserId uuid.UUID `json:"user_id"`
	Role   string    `json:"role"`
}

type CreateNotebookRequest struct {
	Title       string                   `json:"title" validate:"required,min=1,max=100"`
	Description string                   `json:"description" validate:"max=500"`
	Color       string                   `json:"color"`
	Tags        []string                 `json:"tags"`
	Settings    *NotebookSettingsPayload `json:"settings"`
}

type CreateNotebookResponse struct {
	Id uuid.UUID `json:"id"`
}

// UpdateNotebookRequest is a pointer patch: only the allow-listed
// fields appear here, and only non-nil ones are applied. Unknown JSON
// keys are dropped at bind time rather than erroring.
type UpdateNotebookRequest struct {
	Id          uuid.UUID                `json:"-"`
	Title       *string                  `json:"title"`
	Description *string                  `json:"description"`
	Color       *string                  `json:"color"`
	Tags        *[]string                `json:"tags"`
	Settings    *NotebookSettingsPayload `json:"settings"`
}

type NotebookResponse struct {
	Id            uuid.UUID               `json:"id"`
	Title         string                  `json:"title"`
	Description   string                  `json:"description"`
	Color         string                  `json:"color"`
	Tags          []string                `json:"tags"`
	IsArchived    bool                    `json:"is_archived"`
	OwnerId       uuid.UUID               `json:"owner_id"`
	Collaborators []CollaboratorPayload   `json:"collaborators"`
	Settings      NotebookSettingsPayload `json:"settings"`
	CreatedAt     time.Time               `json:"created_at"`
	UpdatedAt     *time.Time              `json:"updated_at"`
}

type AddCollaboratorRequest struct {
	UserId uuid.UUID `json:"user_id" validate:"required"`
	Role   string    `json:"role" validate:"required,oneof=reader editor"`
}

type NotebookStatsResponse struct {
	TotalNotes  int64   `json:"total_notes"`
	TotalWords  int64   `json:"total_words"`
	AvgReadTime float64 `json:"avg_read_time"`
}
