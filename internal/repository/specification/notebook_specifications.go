package specification

import (
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OwnedBy filters notebooks by their owner.
type OwnedBy struct {
	UserID uuid.UUID
}

func (s OwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("owner_id = ?", s.UserID)
}

// HasCollaborator filters notebooks where the user appears in the
// embedded collaborator documents, any role.
type HasCollaborator struct {
	UserID uuid.UUID
}

func (s HasCollaborator) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("collaborators @> ?", collaboratorProbe(s.UserID))
}

// AccessibleBy selects every notebook the user may at least read:
// owned, shared with them, or public.
type AccessibleBy struct {
	UserID uuid.UUID
}

func (s AccessibleBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where(
		"owner_id = ? OR is_public = ? OR collaborators @> ?",
		s.UserID, true, collaboratorProbe(s.UserID),
	)
}

// collaboratorProbe builds the jsonb containment probe for a user id,
// matching regardless of role.
func collaboratorProbe(userId uuid.UUID) string {
	probe, _ := json.Marshal([]map[string]string{{"user_id": userId.String()}})
	return string(probe)
}

// NotebookTag filters notebooks carrying a tag.
type NotebookTag struct {
	Tag string
}

func (s NotebookTag) Apply(db *gorm.DB) *gorm.DB {
	probe, _ := json.Marshal([]string{s.Tag})
	return db.Where("tags @> ?", string(probe))
}

// Archived filters on the archive flag.
type Archived struct {
	Value bool
}

func (s Archived) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_archived = ?", s.Value)
}
