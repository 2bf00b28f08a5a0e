package testutils

import (
	"time"

	"collabnote-be/internal/entity"

	"github.com/google/uuid"
)

// Stored values are deep-copied on the way in and out so tests never
// observe aliasing that the real database would not produce.

func copyUser(user *entity.User) *entity.User {
	c := *user
	return &c
}

func copyNotebook(notebook *entity.Notebook) *entity.Notebook {
	c := *notebook
	c.Tags = append([]string(nil), notebook.Tags...)
	c.Collaborators = append([]entity.Collaborator(nil), notebook.Collaborators...)
	if notebook.UpdatedAt != nil {
		t := *notebook.UpdatedAt
		c.UpdatedAt = &t
	}
	return &c
}

func copyNote(note *entity.Note) *entity.Note {
	c := *note
	c.Tags = append([]string(nil), note.Tags...)
	c.Versions = append([]entity.NoteVersion(nil), note.Versions...)
	c.Attachments = append([]entity.Attachment(nil), note.Attachments...)
	c.References = append([]entity.Reference(nil), note.References...)
	c.AiInsights = append([]string(nil), note.AiInsights...)
	if note.Metadata.LastSummarized != nil {
		t := *note.Metadata.LastSummarized
		c.Metadata.LastSummarized = &t
	}
	if note.UpdatedAt != nil {
		t := *note.UpdatedAt
		c.UpdatedAt = &t
	}
	return &c
}

func effectiveNotebookTime(notebook *entity.Notebook) time.Time {
	if notebook.UpdatedAt != nil {
		return *notebook.UpdatedAt
	}
	return notebook.CreatedAt
}

func effectiveNoteTime(note *entity.Note) time.Time {
	if note.UpdatedAt != nil {
		return *note.UpdatedAt
	}
	return note.CreatedAt
}

func containsString(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

func containsId(ids []uuid.UUID, want uuid.UUID) bool {
	for _, id := range ids {
		if id == want {
			return true
		}
	}
	return false
}
