// Package testutils provides an in-memory unit of work for service
// tests. It speaks the same repository contracts as the GORM
// implementation and interprets the query specifications directly over
// Go values, so service behavior can be exercised without a database.
package testutils

import (
	"context"
	"sort"
	"strings"
	"sync"

	"collabnote-be/internal/entity"
	"collabnote-be/internal/repository/contract"
	"collabnote-be/internal/repository/specification"
	"collabnote-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type MemoryUnitOfWork struct {
	mu        sync.Mutex
	users     map[uuid.UUID]*entity.User
	notebooks map[uuid.UUID]*entity.Notebook
	notes     map[uuid.UUID]*entity.Note
}

func NewMemoryUnitOfWork() *MemoryUnitOfWork {
	return &MemoryUnitOfWork{
		users:     make(map[uuid.UUID]*entity.User),
		notebooks: make(map[uuid.UUID]*entity.Notebook),
		notes:     make(map[uuid.UUID]*entity.Note),
	}
}

// Factory returns a RepositoryFactory handing out this same store, the
// shape the services expect.
func (u *MemoryUnitOfWork) Factory() unitofwork.RepositoryFactory {
	return memoryFactory{uow: u}
}

type memoryFactory struct {
	uow *MemoryUnitOfWork
}

func (f memoryFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

// The in-memory store applies writes immediately; transactions are
// no-ops here since the tests assert on end states.
func (u *MemoryUnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *MemoryUnitOfWork) Commit() error                   { return nil }
func (u *MemoryUnitOfWork) Rollback() error                 { return nil }

func (u *MemoryUnitOfWork) UserRepository() contract.UserRepository {
	return memoryUserRepository{uow: u}
}

func (u *MemoryUnitOfWork) NotebookRepository() contract.NotebookRepository {
	return memoryNotebookRepository{uow: u}
}

func (u *MemoryUnitOfWork) NoteRepository() contract.NoteRepository {
	return memoryNoteRepository{uow: u}
}

// SeedUser, SeedNotebook and SeedNote install fixtures directly.
func (u *MemoryUnitOfWork) SeedUser(user *entity.User) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.users[user.Id] = copyUser(user)
}

func (u *MemoryUnitOfWork) SeedNotebook(notebook *entity.Notebook) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.notebooks[notebook.Id] = copyNotebook(notebook)
}

func (u *MemoryUnitOfWork) SeedNote(note *entity.Note) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.notes[note.Id] = copyNote(note)
}

// NoteCount reports how many notes are stored, across all notebooks.
func (u *MemoryUnitOfWork) NoteCount() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.notes)
}

// ---- users ----

type memoryUserRepository struct {
	uow *MemoryUnitOfWork
}

func (r memoryUserRepository) Create(ctx context.Context, user *entity.User) error {
	r.uow.mu.Lock()
	defer r.uow.mu.Unlock()
	r.uow.users[user.Id] = copyUser(user)
	return nil
}

func (r memoryUserRepository) Update(ctx context.Context, user *entity.User) error {
	r.uow.mu.Lock()
	defer r.uow.mu.Unlock()
	r.uow.users[user.Id] = copyUser(user)
	return nil
}

func (r memoryUserRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	r.uow.mu.Lock()
	defer r.uow.mu.Unlock()
	for _, user := range r.uow.users {
		if userMatches(user, specs) {
			return copyUser(user), nil
		}
	}
	return nil, nil
}

func (r memoryUserRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.uow.mu.Lock()
	defer r.uow.mu.Unlock()
	var n int64
	for _, user := range r.uow.users {
		if userMatches(user, specs) {
			n++
		}
	}
	return n, nil
}

func userMatches(user *entity.User, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if user.Id != s.ID {
				return false
			}
		case specification.ByEmail:
			if user.Email != s.Email {
				return false
			}
		}
	}
	return true
}

// ---- notebooks ----

type memoryNotebookRepository struct {
	uow *MemoryUnitOfWork
}

func (r memoryNotebookRepository) Create(ctx context.Context, notebook *entity.Notebook) error {
	r.uow.mu.Lock()
	defer r.uow.mu.Unlock()
	r.uow.notebooks[notebook.Id] = copyNotebook(notebook)
	return nil
}

func (r memoryNotebookRepository) Update(ctx context.Context, notebook *entity.Notebook) error {
	r.uow.mu.Lock()
	defer r.uow.mu.Unlock()
	r.uow.notebooks[notebook.Id] = copyNotebook(notebook)
	return nil
}

func (r memoryNotebookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.uow.mu.Lock()
	defer r.uow.mu.Unlock()
	delete(r.uow.notebooks, id)
	return nil
}

func (r memoryNotebookRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Notebook, error) {
	r.uow.mu.Lock()
	defer r.uow.mu.Unlock()
	for _, notebook := range r.uow.notebooks {
		if notebookMatches(notebook, specs) {
			return copyNotebook(notebook), nil
		}
	}
	return nil, nil
}

func (r memoryNotebookRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Notebook, error) {
	r.uow.mu.Lock()
	defer r.uow.mu.Unlock()

	result := make([]*entity.Notebook, 0)
	for _, notebook := range r.uow.notebooks {
		if notebookMatches(notebook, specs) {
			result = append(result, copyNotebook(notebook))
		}
	}

	for _, spec := range specs {
		if s, ok := spec.(specification.OrderBy); ok && s.Field == "updated_at" {
			sort.Slice(result, func(i, j int) bool {
				ti, tj := effectiveNotebookTime(result[i]), effectiveNotebookTime(result[j])
				if s.Desc {
					return ti.After(tj)
				}
				return ti.Before(tj)
			})
		}
	}
	return result, nil
}

func (r memoryNotebookRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

func notebookMatches(notebook *entity.Notebook, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if notebook.Id != s.ID {
				return false
			}
		case specification.OwnedBy:
			if notebook.OwnerId != s.UserID {
				return false
			}
		case specification.HasCollaborator:
			if !hasCollaborator(notebook, s.UserID) {
				return false
			}
		case specification.AccessibleBy:
			if notebook.OwnerId != s.UserID && !notebook.Settings.IsPublic && !hasCollaborator(notebook, s.UserID) {
				return false
			}
		case specification.NotebookTag:
			if !containsString(notebook.Tags, s.Tag) {
				return false
			}
		case specification.Archived:
			if notebook.IsArchived != s.Value {
				return false
			}
		}
	}
	return true
}

func hasCollaborator(notebook *entity.Notebook, userId uuid.UUID) bool {
	for _, collab := range notebook.Collaborators {
		if collab.UserId == userId {
			return true
		}
	}
	return false
}

// ---- notes ----

type memoryNoteRepository struct {
	uow *MemoryUnitOfWork
}

func (r memoryNoteRepository) Create(ctx context.Context, note *entity.Note) error {
	r.uow.mu.Lock()
	defer r.uow.mu.Unlock()
	r.uow.notes[note.Id] = copyNote(note)
	return nil
}

func (r memoryNoteRepository) Update(ctx context.Context, note *entity.Note) error {
	r.uow.mu.Lock()
	defer r.uow.mu.Unlock()
	r.uow.notes[note.Id] = copyNote(note)
	return nil
}

func (r memoryNoteRepository) UpdateLocked(ctx context.Context, note *entity.Note, expectedLock int64) (bool, error) {
	r.uow.mu.Lock()
	defer r.uow.mu.Unlock()

	stored, ok := r.uow.notes[note.Id]
	if !ok || stored.LockVersion != expectedLock {
		return false, nil
	}

	note.LockVersion = expectedLock + 1
	r.uow.notes[note.Id] = copyNote(note)
	return true, nil
}

func (r memoryNoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.uow.mu.Lock()
	defer r.uow.mu.Unlock()
	delete(r.uow.notes, id)
	return nil
}

func (r memoryNoteRepository) DeleteByNotebookId(ctx context.Context, notebookId uuid.UUID) error {
	r.uow.mu.Lock()
	defer r.uow.mu.Unlock()
	for id, note := range r.uow.notes {
		if note.NotebookId == notebookId {
			delete(r.uow.notes, id)
		}
	}
	return nil
}

func (r memoryNoteRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error) {
	r.uow.mu.Lock()
	defer r.uow.mu.Unlock()
	for _, note := range r.uow.notes {
		if noteMatches(note, specs) {
			return copyNote(note), nil
		}
	}
	return nil, nil
}

func (r memoryNoteRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error) {
	r.uow.mu.Lock()
	defer r.uow.mu.Unlock()

	result := make([]*entity.Note, 0)
	for _, note := range r.uow.notes {
		if noteMatches(note, specs) {
			result = append(result, copyNote(note))
		}
	}

	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.OrderBy:
			if s.Field == "updated_at" {
				sort.Slice(result, func(i, j int) bool {
					ti, tj := effectiveNoteTime(result[i]), effectiveNoteTime(result[j])
					if s.Desc {
						return ti.After(tj)
					}
					return ti.Before(tj)
				})
			}
		case specification.OrderByRelevance:
			sort.SliceStable(result, func(i, j int) bool {
				si, sj := relevanceScore(result[i], s.Query), relevanceScore(result[j], s.Query)
				if si != sj {
					return si > sj
				}
				return effectiveNoteTime(result[i]).After(effectiveNoteTime(result[j]))
			})
		}
	}
	return result, nil
}

func (r memoryNoteRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

func (r memoryNoteRepository) StatsByNotebookId(ctx context.Context, notebookId uuid.UUID) (*entity.NotebookStats, error) {
	r.uow.mu.Lock()
	defer r.uow.mu.Unlock()

	stats := &entity.NotebookStats{}
	var readTimeSum int64
	for _, note := range r.uow.notes {
		if note.NotebookId != notebookId {
			continue
		}
		stats.TotalNotes++
		stats.TotalWords += int64(note.Metadata.WordCount)
		readTimeSum += int64(note.Metadata.ReadTime)
	}
	if stats.TotalNotes > 0 {
		stats.AvgReadTime = float64(readTimeSum) / float64(stats.TotalNotes)
	}
	return stats, nil
}

func noteMatches(note *entity.Note, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if note.Id != s.ID {
				return false
			}
		case specification.ByNotebookID:
			if note.NotebookId != s.NotebookID {
				return false
			}
		case specification.ByNotebookIDs:
			if !containsId(s.NotebookIDs, note.NotebookId) {
				return false
			}
		case specification.ByAuthor:
			if note.AuthorId != s.UserID {
				return false
			}
		case specification.HasTag:
			if !containsString(note.Tags, s.Tag) {
				return false
			}
		case specification.TitleOrContentMatch:
			q := strings.ToLower(s.Query)
			if !strings.Contains(strings.ToLower(note.Title), q) &&
				!strings.Contains(strings.ToLower(note.Content), q) {
				return false
			}
		}
	}
	return true
}

func relevanceScore(note *entity.Note, query string) int {
	q := strings.ToLower(query)
	score := 0
	if strings.Contains(strings.ToLower(note.Title), q) {
		score += 2
	}
	if strings.Contains(strings.ToLower(note.Content), q) {
		score += 1
	}
	return score
}
