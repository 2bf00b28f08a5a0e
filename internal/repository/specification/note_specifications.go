package specification

import (
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ByNotebookID filters notes by their parent notebook.
type ByNotebookID struct {
	NotebookID uuid.UUID
}

func (s ByNotebookID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("notebook_id = ?", s.NotebookID)
}

// ByNotebookIDs filters notes by a set of parent notebooks.
type ByNotebookIDs struct {
	NotebookIDs []uuid.UUID
}

func (s ByNotebookIDs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("notebook_id IN ?", s.NotebookIDs)
}

// ByAuthor filters notes by their creator.
type ByAuthor struct {
	UserID uuid.UUID
}

func (s ByAuthor) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("author_id = ?", s.UserID)
}

// HasTag filters notes carrying a tag (jsonb containment).
type HasTag struct {
	Tag string
}

func (s HasTag) Apply(db *gorm.DB) *gorm.DB {
	probe, _ := json.Marshal([]string{s.Tag})
	return db.Where("tags @> ?", string(probe))
}

// TitleOrContentMatch is the substring search over title and content,
// case-insensitive.
type TitleOrContentMatch struct {
	Query string
}

func (s TitleOrContentMatch) Apply(db *gorm.DB) *gorm.DB {
	pattern := "%" + s.Query + "%"
	return db.Where("title ILIKE ? OR content ILIKE ?", pattern, pattern)
}

// OrderByRelevance ranks matches deterministically: a title hit scores
// above a content hit, ties broken by most recent update.
type OrderByRelevance struct {
	Query string
}

func (s OrderByRelevance) Apply(db *gorm.DB) *gorm.DB {
	pattern := "%" + s.Query + "%"
	// DB.Order drops expression arguments, so the scored ordering has to
	// go through an explicit ORDER BY clause.
	return db.Clauses(clause.OrderBy{
		Expression: clause.Expr{
			SQL:  "(CASE WHEN title ILIKE ? THEN 2 ELSE 0 END + CASE WHEN content ILIKE ? THEN 1 ELSE 0 END) DESC, updated_at DESC",
			Vars: []interface{}{pattern, pattern},
		},
	})
}
