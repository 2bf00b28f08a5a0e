package mapper

import (
	"time"

	"collabnote-be/internal/entity"
	"collabnote-be/internal/model"
)

type NoteMapper struct{}

func NewNoteMapper() *NoteMapper {
	return &NoteMapper{}
}

func (m *NoteMapper) ToEntity(n *model.Note) *entity.Note {
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

	var versions []entity.NoteVersion
	fromJSON(n.Versions, &versions)

	var attachments []entity.Attachment
	fromJSON(n.Attachments, &attachments)

	var references []entity.Reference
	fromJSON(n.References, &references)

	var insights []string
	fromJSON(n.AiInsights, &insights)

	return &entity.Note{
		Id:          n.Id,
		Title:       n.Title,
		Content:     n.Content,
		NotebookId:  n.NotebookId,
		AuthorId:    n.AuthorId,
		Tags:        tags,
		Status:      entity.NoteStatus(n.Status),
		Versions:    versions,
		Attachments: attachments,
		References:  references,
		Metadata: entity.NoteMetadata{
			WordCount:      n.WordCount,
			ReadTime:       n.ReadTime,
			LastSummarized: n.LastSummarized,
		},
		AiSummary:   n.AiSummary,
		AiInsights:  insights,
		LockVersion: n.LockVersion,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *NoteMapper) ToModel(n *entity.Note) *model.Note {
	if n == nil {
		return nil
	}

	var updatedAt time.Time
	if n.UpdatedAt != nil {
		updatedAt = *n.UpdatedAt
	}

	return &model.Note{
		Id:             n.Id,
		Title:          n.Title,
		Content:        n.Content,
		NotebookId:     n.NotebookId,
		AuthorId:       n.AuthorId,
		Tags:           toJSON(n.Tags),
		Status:         string(n.Status),
		Versions:       toJSON(n.Versions),
		Attachments:    toJSON(n.Attachments),
		References:     toJSON(n.References),
		WordCount:      n.Metadata.WordCount,
		ReadTime:       n.Metadata.ReadTime,
		LastSummarized: n.Metadata.LastSummarized,
		AiSummary:      n.AiSummary,
		AiInsights:     toJSON(n.AiInsights),
		LockVersion:    n.LockVersion,
		CreatedAt:      n.CreatedAt,
		UpdatedAt:      updatedAt,
	}
}

func (m *NoteMapper) ToEntities(notes []*model.Note) []*entity.Note {
	entities := make([]*entity.Note, len(notes))
	for i, n := range notes {
		entities[i] = m.ToEntity(n)
	}
	return entities
}
