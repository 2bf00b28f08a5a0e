package unitofwork

import (
	"context"

	"collabnote-be/internal/repository/contract"
)

// UnitOfWork scopes repository access to a single logical operation.
// Begin switches the repositories onto one transaction so multi-entity
// writes (cascade delete in particular) commit or roll back together.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	NotebookRepository() contract.NotebookRepository
	NoteRepository() contract.NoteRepository
}
