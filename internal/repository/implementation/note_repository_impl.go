package implementation

import (
	"context"
	"errors"

	"collabnote-be/internal/entity"
	"collabnote-be/internal/mapper"
	"collabnote-be/internal/model"
	"collabnote-be/internal/repository/contract"
	"collabnote-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NoteRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.NoteMapper
}

func NewNoteRepository(db *gorm.DB) contract.NoteRepository {
	return &NoteRepositoryImpl{
		db:     db,
		mapper: mapper.NewNoteMapper(),
	}
}

func (r *NoteRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *NoteRepositoryImpl) Create(ctx context.Context, note *entity.Note) error {
	m := r.mapper.ToModel(note)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*note = *r.mapper.ToEntity(m)
	return nil
}

func (r *NoteRepositoryImpl) Update(ctx context.Context, note *entity.Note) error {
	m := r.mapper.ToModel(note)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*note = *r.mapper.ToEntity(m)
	return nil
}

// UpdateLocked is the conditional write backing versioned saves: the
// row is only replaced when lock_version is still expectedLock, so a
// ledger append can never be lost to a concurrent writer.
func (r *NoteRepositoryImpl) UpdateLocked(ctx context.Context, note *entity.Note, expectedLock int64) (bool, error) {
	note.LockVersion = expectedLock + 1
	m := r.mapper.ToModel(note)

	res := r.db.WithContext(ctx).
		Model(&model.Note{}).
		Where("id = ? AND lock_version = ?", m.Id, expectedLock).
		Select("*").
		Omit("id", "created_at").
		Updates(m)
	if res.Error != nil {
		note.LockVersion = expectedLock
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		note.LockVersion = expectedLock
		return false, nil
	}
	return true, nil
}

func (r *NoteRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Note{}, id).Error
}

func (r *NoteRepositoryImpl) DeleteByNotebookId(ctx context.Context, notebookId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("notebook_id = ?", notebookId).Delete(&model.Note{}).Error
}

func (r *NoteRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error) {
	var m model.Note
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *NoteRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error) {
	var models []*model.Note
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *NoteRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Note{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *NoteRepositoryImpl) StatsByNotebookId(ctx context.Context, notebookId uuid.UUID) (*entity.NotebookStats, error) {
	var stats entity.NotebookStats
	err := r.db.WithContext(ctx).
		Model(&model.Note{}).
		Select("COUNT(*) AS total_notes, COALESCE(SUM(word_count), 0) AS total_words, COALESCE(AVG(read_time), 0) AS avg_read_time").
		Where("notebook_id = ?", notebookId).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
