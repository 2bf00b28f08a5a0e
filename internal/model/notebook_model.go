package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Notebook struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Title       string         `gorm:"type:varchar(100);not null;index:idx_notebooks_owner_title,priority:2"`
	Description string         `gorm:"type:varchar(500)"`
	Color       string         `gorm:"type:varchar(32)"`
	Tags        datatypes.JSON `gorm:"type:jsonb"`
	IsArchived  bool           `gorm:"not null;default:false"`
	OwnerId     uuid.UUID      `gorm:"type:uuid;not null;index:idx_notebooks_owner_title,priority:1"`

	// Embedded collaborator documents; a GIN index for containment
	// lookups is created by cmd/migrate.
	Collaborators datatypes.JSON `gorm:"type:jsonb"`

	IsPublic      bool `gorm:"not null;default:false"`
	AllowComments bool `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;index"`
}

func (Notebook) TableName() string {
	return "notebooks"
}
