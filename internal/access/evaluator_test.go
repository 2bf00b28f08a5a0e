package access

import (
	"testing"

	"collabnote-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestHasAccess(t *testing.T) {
	owner := uuid.New()
	reader := uuid.New()
	editor := uuid.New()
	stranger := uuid.New()

	notebook := &entity.Notebook{
		Id:      uuid.New(),
		Title:   "Shared Research",
		OwnerId: owner,
		Collaborators: []entity.Collaborator{
			{UserId: reader, Role: entity.RoleReader},
			{UserId: editor, Role: entity.RoleEditor},
		},
	}

	tests := []struct {
		name     string
		userId   uuid.UUID
		required entity.CollaboratorRole
		want     bool
	}{
		{"owner can read", owner, entity.RoleReader, true},
		{"owner can write", owner, entity.RoleEditor, true},
		{"reader collaborator can read", reader, entity.RoleReader, true},
		{"reader collaborator cannot write", reader, entity.RoleEditor, false},
		{"editor collaborator can read", editor, entity.RoleReader, true},
		{"editor collaborator can write", editor, entity.RoleEditor, true},
		{"stranger cannot read", stranger, entity.RoleReader, false},
		{"stranger cannot write", stranger, entity.RoleEditor, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasAccess(notebook, tt.userId, tt.required))
		})
	}
}

func TestHasAccessPublicNotebook(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()

	public := &entity.Notebook{
		Id:       uuid.New(),
		Title:    "Open Journal",
		OwnerId:  owner,
		Settings: entity.NotebookSettings{IsPublic: true},
	}

	// Public grants reading to anyone, never writing.
	assert.True(t, CanRead(public, stranger))
	assert.False(t, CanWrite(public, stranger))
	assert.True(t, CanWrite(public, owner))
}

func TestHasAccessNilNotebook(t *testing.T) {
	assert.False(t, HasAccess(nil, uuid.New(), entity.RoleReader))
}

func TestHasAccessOwnerNotInCollaborators(t *testing.T) {
	owner := uuid.New()

	// Even a stale self-entry with a weaker role never downgrades the
	// owner.
	notebook := &entity.Notebook{
		Id:      uuid.New(),
		OwnerId: owner,
		Collaborators: []entity.Collaborator{
			{UserId: owner, Role: entity.RoleReader},
		},
	}

	assert.True(t, CanWrite(notebook, owner))
}
