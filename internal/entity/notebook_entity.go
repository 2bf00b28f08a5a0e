package entity

import (
	"time"

	"github.com/google/uuid"
)

type CollaboratorRole string

const (
	RoleReader CollaboratorRole = "reader"
	RoleEditor CollaboratorRole = "editor"
)

func (r CollaboratorRole) Valid() bool {
	return r == RoleReader || r == RoleEditor
}

// Collaborator grants a user a role on a notebook. The owner is never
// listed here; ownership supersedes any collaborator role.
type Collaborator struct {
	UserId uuid.UUID        `json:"user_id"`
	Role   CollaboratorRole `json:"role"`
}

type NotebookSettings struct {
	IsPublic      bool `json:"is_public"`
	AllowComments bool `json:"allow_comments"`
}

type Notebook struct {
	Id            uuid.UUID
	Title         string
	Description   string
	Color         string
	Tags          []string
	IsArchived    bool
	OwnerId       uuid.UUID
	Collaborators []Collaborator
	Settings      NotebookSettings
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

// NotebookStats aggregates over the notes owned by a notebook.
type NotebookStats struct {
	TotalNotes  int64   `json:"total_notes"`
	TotalWords  int64   `json:"total_words"`
	AvgReadTime float64 `json:"avg_read_time"`
}
