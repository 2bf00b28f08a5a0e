package mapper

import (
	"time"

	"collabnote-be/internal/entity"
	"collabnote-be/internal/model"
)

type NotebookMapper struct{}

func NewNotebookMapper() *NotebookMapper {
	return &NotebookMapper{}
}

func (m *NotebookMapper) ToEntity(n *model.Notebook) *entity.Notebook {
	if n == nil {
		return nil
	}

	var updatedAt *time.Time
	if !n.UpdatedAt.IsZero() {
		t := n.UpdatedAt
		updatedAt = &t
	}

	var tags []string
	fromJSON(n.Tags, &tags)

	var collaborators []entity.Collaborator
	fromJSON(n.Collaborators, &collaborators)

	return &entity.Notebook{
		Id:            n.Id,
		Title:         n.Title,
		Description:   n.Description,
		Color:         n.Color,
		Tags:          tags,
		IsArchived:    n.IsArchived,
		OwnerId:       n.OwnerId,
		Collaborators: collaborators,
		Settings: entity.NotebookSettings{
			IsPublic:      n.IsPublic,
			AllowComments: n.AllowComments,
		},
		CreatedAt: n.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *NotebookMapper) ToModel(n *entity.Notebook) *model.Notebook {
	if n == nil {
		return nil
	}

	var updatedAt time.Time
	if n.UpdatedAt != nil {
		updatedAt = *n.UpdatedAt
	}

	return &model.Notebook{
		Id:            n.Id,
		Title:         n.Title,
		Description:   n.Description,
		Color:         n.Color,
		Tags:          toJSON(n.Tags),
		IsArchived:    n.IsArchived,
		OwnerId:       n.OwnerId,
		Collaborators: toJSON(n.Collaborators),
		IsPublic:      n.Settings.IsPublic,
		AllowComments: n.Settings.AllowComments,
		CreatedAt:     n.CreatedAt,
		UpdatedAt:     updatedAt,
	}
}

func (m *NotebookMapper) ToEntities(notebooks []*model.Notebook) []*entity.Notebook {
	entities := make([]*entity.Notebook, len(notebooks))
	for i, n := range notebooks {
		entities[i] = m.ToEntity(n)
	}
	return entities
}
