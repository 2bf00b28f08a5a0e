package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"collabnote-be/internal/dto"
	"collabnote-be/internal/entity"
	"collabnote-be/internal/pkg/apperror"
	"collabnote-be/internal/pkg/statscache"
	"collabnote-be/internal/testutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeMailer struct {
	mu      sync.Mutex
	invites []string
}

func (f *fakeMailer) SendCollaboratorInvite(toEmail, inviterName, notebookTitle, role string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invites = append(f.invites, toEmail)
	return nil
}

func newNotebookServiceForTest(uow *testutils.MemoryUnitOfWork) INotebookService {
	return NewNotebookService(uow.Factory(), &fakeMailer{}, nil, statscache.New(nil, 0))
}

func seedUser(uow *testutils.MemoryUnitOfWork, name string) uuid.UUID {
	id := uuid.New()
	uow.SeedUser(&entity.User{
		Id:        id,
		Email:     name + "@example.com",
		FullName:  name,
		CreatedAt: time.Now(),
	})
	return id
}

func TestNotebookCreateAndShow(t *testing.T) {
	uow := testutils.NewMemoryUnitOfWork()
	svc := newNotebookServiceForTest(uow)
	ctx := context.Background()
	owner := seedUser(uow, "owner")

	created, err := svc.Create(ctx, owner, &dto.CreateNotebookRequest{
		Title:       "Research",
		Description: "Lab notes",
		Color:       "#336699",
		Tags:        []string{"work"},
	})
	assert.NoError(t, err)

	shown, err := svc.Show(ctx, owner, created.Id)
	assert.NoError(t, err)
	assert.Equal(t, "Research", shown.Title)
	assert.Equal(t, owner, shown.OwnerId)
	assert.Empty(t, shown.Collaborators)
	assert.False(t, shown.IsArchived)
}

func TestNotebookShowAccessControl(t *testing.T) {
	uow := testutils.NewMemoryUnitOfWork()
	svc := newNotebookServiceForTest(uow)
	ctx := context.Background()
	owner := seedUser(uow, "owner")
	stranger := seedUser(uow, "stranger")

	created, err := svc.Create(ctx, owner, &dto.CreateNotebookRequest{Title: "Private"})
	assert.NoError(t, err)

	_, err = svc.Show(ctx, stranger, created.Id)
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	_, err = svc.Show(ctx, owner, uuid.New())
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestNotebookUpdateAllowList(t *testing.T) {
	uow := testutils.NewMemoryUnitOfWork()
	svc := newNotebookServiceForTest(uow)
	ctx := context.Background()
	owner := seedUser(uow, "owner")

	created, err := svc.Create(ctx, owner, &dto.CreateNotebookRequest{
		Title:    "Before",
		Settings: &dto.NotebookSettingsPayload{IsPublic: false, AllowComments: true},
	})
	assert.NoError(t, err)

	newTitle := "After"
	newDescription := "now with description"
	updated, err := svc.Update(ctx, owner, &dto.UpdateNotebookRequest{
		Id:          created.Id,
		Title:       &newTitle,
		Description: &newDescription,
	})
	assert.NoError(t, err)
	assert.Equal(t, "After", updated.Title)
	assert.Equal(t, "now with description", updated.Description)
	// Untouched fields stay as they were.
	assert.True(t, updated.Settings.AllowComments)
	assert.Equal(t, owner, updated.OwnerId)

	tooLong := string(make([]byte, 101))
	_, err = svc.Update(ctx, owner, &dto.UpdateNotebookRequest{Id: created.Id, Title: &tooLong})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	empty := ""
	_, err = svc.Update(ctx, owner, &dto.UpdateNotebookRequest{Id: created.Id, Title: &empty})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	longDescription := string(make([]byte, 501))
	_, err = svc.Update(ctx, owner, &dto.UpdateNotebookRequest{Id: created.Id, Description: &longDescription})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestNotebookDeleteCascades(t *testing.T) {
	uow := testutils.NewMemoryUnitOfWork()
	svc := newNotebookServiceForTest(uow)
	ctx := context.Background()
	owner := seedUser(uow, "owner")

	created, err := svc.Create(ctx, owner, &dto.CreateNotebookRequest{Title: "Doomed"})
	assert.NoError(t, err)

	for i := 0; i < 3; i++ {
		uow.SeedNote(&entity.Note{
			Id:         uuid.New(),
			Title:      "note",
			Content:    "content",
			NotebookId: created.Id,
			AuthorId:   owner,
			CreatedAt:  time.Now(),
		})
	}
	assert.Equal(t, 3, uow.NoteCount())

	assert.NoError(t, svc.Delete(ctx, owner, created.Id))
	assert.Equal(t, 0, uow.NoteCount())

	// Once gone, a repeat delete reports the absence.
	err = svc.Delete(ctx, owner, created.Id)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestNotebookDeleteAccessControl(t *testing.T) {
	uow := testutils.NewMemoryUnitOfWork()
	svc := newNotebookServiceForTest(uow)
	ctx := context.Background()
	owner := seedUser(uow, "owner")
	editor := seedUser(uow, "editor")
	reader := seedUser(uow, "reader")
	stranger := seedUser(uow, "stranger")

	created, err := svc.Create(ctx, owner, &dto.CreateNotebookRequest{Title: "Held"})
	assert.NoError(t, err)
	assert.NoError(t, svc.AddCollaborator(ctx, owner, created.Id, &dto.AddCollaboratorRequest{
		UserId: editor, Role: "editor",
	}))
	assert.NoError(t, svc.AddCollaborator(ctx, owner, created.Id, &dto.AddCollaboratorRequest{
		UserId: reader, Role: "reader",
	}))

	err = svc.Delete(ctx, reader, created.Id)
	assert.True(t, apperror.Is(err, apperror.KindForbidden))
	err = svc.Delete(ctx, stranger, created.Id)
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	// Editor-role collaborators may delete, same as notebook writes.
	assert.NoError(t, svc.Delete(ctx, editor, created.Id))

	_, err = svc.Show(ctx, owner, created.Id)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestAddCollaborator(t *testing.T) {
	uow := testutils.NewMemoryUnitOfWork()
	svc := newNotebookServiceForTest(uow)
	ctx := context.Background()
	owner := seedUser(uow, "owner")
	collaborator := seedUser(uow, "collab")

	created, err := svc.Create(ctx, owner, &dto.CreateNotebookRequest{Title: "Shared"})
	assert.NoError(t, err)

	err = svc.AddCollaborator(ctx, owner, created.Id, &dto.AddCollaboratorRequest{
		UserId: collaborator, Role: "reader",
	})
	assert.NoError(t, err)

	// The grant shows up and the invitee can now read.
	shown, err := svc.Show(ctx, collaborator, created.Id)
	assert.NoError(t, err)
	assert.Len(t, shown.Collaborators, 1)
	assert.Equal(t, "reader", shown.Collaborators[0].Role)

	// Duplicates are rejected regardless of role.
	err = svc.AddCollaborator(ctx, owner, created.Id, &dto.AddCollaboratorRequest{
		UserId: collaborator, Role: "editor",
	})
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	// The owner never appears in the collaborator list.
	err = svc.AddCollaborator(ctx, owner, created.Id, &dto.AddCollaboratorRequest{
		UserId: owner, Role: "editor",
	})
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	err = svc.AddCollaborator(ctx, owner, created.Id, &dto.AddCollaboratorRequest{
		UserId: seedUser(uow, "other"), Role: "admin",
	})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	err = svc.AddCollaborator(ctx, owner, created.Id, &dto.AddCollaboratorRequest{
		UserId: uuid.New(), Role: "reader",
	})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	// Reader-role collaborators cannot manage the roster.
	err = svc.AddCollaborator(ctx, collaborator, created.Id, &dto.AddCollaboratorRequest{
		UserId: seedUser(uow, "third"), Role: "reader",
	})
	assert.True(t, apperror.Is(err, apperror.KindForbidden))
}

func TestCollaboratorManagementByEditor(t *testing.T) {
	uow := testutils.NewMemoryUnitOfWork()
	svc := newNotebookServiceForTest(uow)
	ctx := context.Background()
	owner := seedUser(uow, "owner")
	editor := seedUser(uow, "editor")
	invitee := seedUser(uow, "invitee")

	created, err := svc.Create(ctx, owner, &dto.CreateNotebookRequest{Title: "Team"})
	assert.NoError(t, err)
	assert.NoError(t, svc.AddCollaborator(ctx, owner, created.Id, &dto.AddCollaboratorRequest{
		UserId: editor, Role: "editor",
	}))

	// Editor-role collaborators manage the roster like the owner does.
	assert.NoError(t, svc.AddCollaborator(ctx, editor, created.Id, &dto.AddCollaboratorRequest{
		UserId: invitee, Role: "reader",
	}))

	shown, err := svc.Show(ctx, owner, created.Id)
	assert.NoError(t, err)
	assert.Len(t, shown.Collaborators, 2)

	assert.NoError(t, svc.RemoveCollaborator(ctx, editor, created.Id, invitee))

	shown, err = svc.Show(ctx, owner, created.Id)
	assert.NoError(t, err)
	assert.Len(t, shown.Collaborators, 1)
}

func TestRemoveCollaborator(t *testing.T) {
	uow := testutils.NewMemoryUnitOfWork()
	svc := newNotebookServiceForTest(uow)
	ctx := context.Background()
	owner := seedUser(uow, "owner")
	collaborator := seedUser(uow, "collab")

	created, err := svc.Create(ctx, owner, &dto.CreateNotebookRequest{Title: "Shared"})
	assert.NoError(t, err)
	assert.NoError(t, svc.AddCollaborator(ctx, owner, created.Id, &dto.AddCollaboratorRequest{
		UserId: collaborator, Role: "editor",
	}))

	assert.NoError(t, svc.RemoveCollaborator(ctx, owner, created.Id, collaborator))

	shown, err := svc.Show(ctx, owner, created.Id)
	assert.NoError(t, err)
	assert.Empty(t, shown.Collaborators)

	// Removing someone who is not there succeeds quietly.
	assert.NoError(t, svc.RemoveCollaborator(ctx, owner, created.Id, collaborator))
	assert.NoError(t, svc.RemoveCollaborator(ctx, owner, created.Id, uuid.New()))
}

func TestListAccessible(t *testing.T) {
	uow := testutils.NewMemoryUnitOfWork()
	svc := newNotebookServiceForTest(uow)
	ctx := context.Background()
	alice := seedUser(uow, "alice")
	bob := seedUser(uow, "bob")

	base := time.Now()
	oldest := base.Add(-3 * time.Hour)
	older := base.Add(-2 * time.Hour)
	newer := base.Add(-1 * time.Hour)

	uow.SeedNotebook(&entity.Notebook{
		Id: uuid.New(), Title: "Alice old", OwnerId: alice,
		CreatedAt: older, UpdatedAt: &older,
	})
	uow.SeedNotebook(&entity.Notebook{
		Id: uuid.New(), Title: "Alice new", OwnerId: alice,
		CreatedAt: older, UpdatedAt: &newer,
	})
	uow.SeedNotebook(&entity.Notebook{
		Id: uuid.New(), Title: "Bob public", OwnerId: bob,
		Settings: entity.NotebookSettings{IsPublic: true},
		CreatedAt: base, UpdatedAt: &base,
	})
	uow.SeedNotebook(&entity.Notebook{
		Id: uuid.New(), Title: "Bob private", OwnerId: bob,
		CreatedAt: base, UpdatedAt: &base,
	})
	uow.SeedNotebook(&entity.Notebook{
		Id: uuid.New(), Title: "Bob shared", OwnerId: bob,
		Collaborators: []entity.Collaborator{{UserId: alice, Role: entity.RoleReader}},
		CreatedAt:     oldest, UpdatedAt: &oldest,
	})

	result, err := svc.ListAccessible(ctx, alice)
	assert.NoError(t, err)

	titles := make([]string, 0, len(result))
	for _, nb := range result {
		titles = append(titles, nb.Title)
	}
	// Owned, shared and public notebooks, most recently updated first.
	assert.Equal(t, []string{"Bob public", "Alice new", "Alice old", "Bob shared"}, titles)
}

func TestToggleArchive(t *testing.T) {
	uow := testutils.NewMemoryUnitOfWork()
	svc := newNotebookServiceForTest(uow)
	ctx := context.Background()
	owner := seedUser(uow, "owner")

	created, err := svc.Create(ctx, owner, &dto.CreateNotebookRequest{Title: "Boxed"})
	assert.NoError(t, err)

	toggled, err := svc.ToggleArchive(ctx, owner, created.Id)
	assert.NoError(t, err)
	assert.True(t, toggled.IsArchived)

	toggled, err = svc.ToggleArchive(ctx, owner, created.Id)
	assert.NoError(t, err)
	assert.False(t, toggled.IsArchived)
}

func TestNotebookStats(t *testing.T) {
	uow := testutils.NewMemoryUnitOfWork()
	svc := newNotebookServiceForTest(uow)
	ctx := context.Background()
	owner := seedUser(uow, "owner")

	created, err := svc.Create(ctx, owner, &dto.CreateNotebookRequest{Title: "Counted"})
	assert.NoError(t, err)

	// No notes yet: everything zero, not an error.
	stats, err := svc.Stats(ctx, owner, created.Id)
	assert.NoError(t, err)
	assert.Zero(t, stats.TotalNotes)
	assert.Zero(t, stats.TotalWords)
	assert.Zero(t, stats.AvgReadTime)

	uow.SeedNote(&entity.Note{
		Id: uuid.New(), NotebookId: created.Id, AuthorId: owner,
		Metadata:  entity.NoteMetadata{WordCount: 100, ReadTime: 1},
		CreatedAt: time.Now(),
	})
	uow.SeedNote(&entity.Note{
		Id: uuid.New(), NotebookId: created.Id, AuthorId: owner,
		Metadata:  entity.NoteMetadata{WordCount: 500, ReadTime: 3},
		CreatedAt: time.Now(),
	})

	stats, err = svc.Stats(ctx, owner, created.Id)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalNotes)
	assert.Equal(t, int64(600), stats.TotalWords)
	assert.Equal(t, 2.0, stats.AvgReadTime)
}
