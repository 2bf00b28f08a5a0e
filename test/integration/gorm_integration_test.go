package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"collabnote-be/internal/entity"
	"collabnote-be/internal/repository/specification"
	"collabnote-be/internal/repository/unitofwork"
	"collabnote-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.UserRepository())
	assert.NotNil(t, uow.NotebookRepository())
	assert.NotNil(t, uow.NoteRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	t.Run("Check User Repository", func(t *testing.T) {
		count, err := uow.UserRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("User count: %d", count)
	})

	t.Run("Check Notebook Roundtrip", func(t *testing.T) {
		ctx := context.Background()

		user := &entity.User{
			Id:        uuid.New(),
			Email:     "test-integration-" + uuid.New().String() + "@example.com",
			FullName:  "Integration Test User",
			CreatedAt: time.Now(),
		}
		assert.NoError(t, uow.UserRepository().Create(ctx, user))

		notebook := &entity.Notebook{
			Id:      uuid.New(),
			Title:   "Integration Notebook",
			OwnerId: user.Id,
			Tags:    []string{"integration"},
			Collaborators: []entity.Collaborator{
				{UserId: uuid.New(), Role: entity.RoleReader},
			},
			CreatedAt: time.Now(),
		}
		assert.NoError(t, uow.NotebookRepository().Create(ctx, notebook))

		loaded, err := uow.NotebookRepository().FindOne(ctx, specification.ByID{ID: notebook.Id})
		assert.NoError(t, err)
		if assert.NotNil(t, loaded) {
			assert.Equal(t, notebook.Title, loaded.Title)
			assert.Len(t, loaded.Collaborators, 1)
			assert.Equal(t, entity.RoleReader, loaded.Collaborators[0].Role)
		}

		// Cleanup
		assert.NoError(t, uow.NotebookRepository().Delete(ctx, notebook.Id))
	})

	t.Run("Check Note Notebook Constraint", func(t *testing.T) {
		ctx := context.Background()

		// A note referencing a notebook that no longer exists must be
		// rejected by the schema, not silently stored.
		orphan := &entity.Note{
			Id:         uuid.New(),
			Title:      "Orphan Note",
			Content:    "content",
			NotebookId: uuid.New(),
			AuthorId:   uuid.New(),
			Status:     entity.StatusDraft,
			CreatedAt:  time.Now(),
		}
		err := uow.NoteRepository().Create(ctx, orphan)
		assert.Error(t, err)
	})

	t.Run("Check Note Optimistic Lock", func(t *testing.T) {
		ctx := context.Background()

		user := &entity.User{
			Id:        uuid.New(),
			Email:     "test-lock-" + uuid.New().String() + "@example.com",
			FullName:  "Lock Test User",
			CreatedAt: time.Now(),
		}
		assert.NoError(t, uow.UserRepository().Create(ctx, user))

		notebook := &entity.Notebook{
			Id:        uuid.New(),
			Title:     "Lock Notebook",
			OwnerId:   user.Id,
			CreatedAt: time.Now(),
		}
		assert.NoError(t, uow.NotebookRepository().Create(ctx, notebook))

		note := &entity.Note{
			Id:         uuid.New(),
			Title:      "Locked Note",
			Content:    "original",
			NotebookId: notebook.Id,
			AuthorId:   user.Id,
			Status:     entity.StatusDraft,
			CreatedAt:  time.Now(),
		}
		assert.NoError(t, uow.NoteRepository().Create(ctx, note))

		loaded, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: note.Id})
		assert.NoError(t, err)
		assert.NotNil(t, loaded)

		loaded.Content = "changed"
		ok, err := uow.NoteRepository().UpdateLocked(ctx, loaded, loaded.LockVersion)
		assert.NoError(t, err)
		assert.True(t, ok)

		// A second write against the stale lock version must lose.
		loaded.Content = "stale write"
		ok, err = uow.NoteRepository().UpdateLocked(ctx, loaded, 0)
		assert.NoError(t, err)
		assert.False(t, ok)

		// Cleanup
		assert.NoError(t, uow.NoteRepository().Delete(ctx, note.Id))
		assert.NoError(t, uow.NotebookRepository().Delete(ctx, notebook.Id))
	})
}
