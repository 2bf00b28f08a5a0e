package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Note struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title      string    `gorm:"type:varchar(200);not null"`
	Content    string    `gorm:"type:text;not null"`
	NotebookId uuid.UUID `gorm:"type:uuid;not null;index:idx_notes_notebook_updated,priority:1"`
	// The FK makes a note insert racing a notebook delete lose: either
	// the insert fails the reference check or the cascade removes it.
	Notebook *Notebook `gorm:"foreignKey:NotebookId;constraint:OnDelete:CASCADE"`
	AuthorId uuid.UUID `gorm:"type:uuid;not null;index"`

	Tags   datatypes.JSON `gorm:"type:jsonb"`
	Status string         `gorm:"type:varchar(16);not null;default:draft"`

	Versions    datatypes.JSON `gorm:"type:jsonb"`
	Attachments datatypes.JSON `gorm:"type:jsonb"`
	// "references" is reserved in SQL; keep the column name plain.
	References datatypes.JSON `gorm:"column:refs;type:jsonb"`

	WordCount      int `gorm:"not null;default:0"`
	ReadTime       int `gorm:"not null;default:0"`
	LastSummarized *time.Time
	AiSummary      string         `gorm:"type:text"`
	AiInsights     datatypes.JSON `gorm:"type:jsonb"`

	LockVersion int64 `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;index:idx_notes_notebook_updated,priority:2"`
}

func (Note) TableName() string {
	return "notes"
}
