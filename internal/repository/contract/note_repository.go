package contract

import (
	"context"

	"collabnote-be/internal/entity"
	"collabnote-be/internal/repository/specification"

	"github.com/google/uuid"
)

type NoteRepository interface {
	Create(ctx context.Context, note *entity.Note) error

	// Update is an unconditional save. UpdateLocked persists only when
	// the stored lock_version still matches expectedLock, bumping it on
	// success; it reports false when another writer got there first.
	Update(ctx context.Context, note *entity.Note) error
	UpdateLocked(ctx context.Context, note *entity.Note, expectedLock int64) (bool, error)

	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByNotebookId(ctx context.Context, notebookId uuid.UUID) error

	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// StatsByNotebookId aggregates note count, summed word count and
	// average read time; all zeroes when the notebook has no notes.
	StatsByNotebookId(ctx context.Context, notebookId uuid.UUID) (*entity.NotebookStats, error)
}
