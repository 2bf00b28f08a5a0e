package service

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"collabnote-be/internal/access"
	"collabnote-be/internal/dto"
	"collabnote-be/internal/entity"
	"collabnote-be/internal/pkg/apperror"
	"collabnote-be/internal/pkg/statscache"
	"collabnote-be/internal/repository/specification"
	"collabnote-be/internal/repository/unitofwork"
	"collabnote-be/internal/versioning"
	"collabnote-be/pkg/events"
	pktNats "collabnote-be/pkg/nats"
	"collabnote-be/pkg/textstat"

	"github.com/google/uuid"
)

// maxLockRetries bounds how often a write is replayed when another
// writer bumps the lock version first.
const maxLockRetries = 3

type INoteService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNoteRequest) (*dto.CreateNoteResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.NoteResponse, error)
	ListByNotebook(ctx context.Context, userId uuid.UUID, notebookId uuid.UUID) ([]*dto.NoteResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateNoteRequest) (*dto.UpdateNoteResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	VersionHistory(ctx context.Context, userId uuid.UUID, id uuid.UUID) ([]*dto.NoteVersionResponse, error)
	RestoreVersion(ctx context.Context, userId uuid.UUID, noteId uuid.UUID, versionId uuid.UUID) (*dto.UpdateNoteResponse, error)
	FindByTag(ctx context.Context, userId uuid.UUID, tag string) ([]*dto.NoteResponse, error)
	Search(ctx context.Context, userId uuid.UUID, query string, notebookId *uuid.UUID) ([]*dto.SearchNoteResponse, error)
	AddAttachment(ctx context.Context, userId uuid.UUID, noteId uuid.UUID, req *dto.AddAttachmentRequest) (*dto.NoteResponse, error)
	RemoveAttachment(ctx context.Context, userId uuid.UUID, noteId uuid.UUID, filename string) (*dto.NoteResponse, error)
}

type noteService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	statsCache       *statscache.StatsCache
	ledger           versioning.Ledger
}

func NewNoteService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	statsCache *statscache.StatsCache,
) INoteService {
	return &noteService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		statsCache:       statsCache,
		ledger:           versioning.NewLedger(versioning.DefaultLimit),
	}
}

func (c *noteService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNoteRequest) (*dto.CreateNoteResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	notebook, err := uow.NotebookRepository().FindOne(ctx, specification.ByID{ID: req.NotebookId})
	if err != nil {
		return nil, err
	}
	if notebook == nil {
		return nil, apperror.NotFound("notebook not found")
	}
	if !access.CanWrite(notebook, userId) {
		return nil, apperror.Forbidden("editor access required")
	}

	status := entity.StatusDraft
	if req.Status != "" {
		status = entity.NoteStatus(req.Status)
		if !status.Valid() {
			return nil, apperror.Validation("status must be draft, published or archived")
		}
	}

	wordCount, readTime := textstat.Derive(req.Content)
	note := entity.Note{
		Id:         uuid.New(),
		Title:      req.Title,
		Content:    req.Content,
		NotebookId: req.NotebookId,
		AuthorId:   userId,
		Tags:       req.Tags,
		Status:     status,
		// The ledger starts empty; the first entry appears on the first
		// content change, not at creation.
		Versions:    make([]entity.NoteVersion, 0),
		Attachments: make([]entity.Attachment, 0),
		References:  make([]entity.Reference, 0),
		Metadata: entity.NoteMetadata{
			WordCount: wordCount,
			ReadTime:  readTime,
		},
		CreatedAt: time.Now(),
	}

	if err := uow.NoteRepository().Create(ctx, &note); err != nil {
		return nil, err
	}

	c.statsCache.Invalidate(ctx, note.NotebookId)
	c.requestSummary(ctx, note.Id)
	c.publishEvent(ctx, events.TypeNoteCreated, map[string]interface{}{
		"note_id":     note.Id,
		"notebook_id": note.NotebookId,
		"title":       note.Title,
		"user_id":     userId,
	})

	return &dto.CreateNoteResponse{
		Id: note.Id,
	}, nil
}

func (c *noteService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.NoteResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	note, _, err := c.findReadable(ctx, uow, userId, id)
	if err != nil {
		return nil, err
	}

	return toNoteResponse(note), nil
}

func (c *noteService) ListByNotebook(ctx context.Context, userId uuid.UUID, notebookId uuid.UUID) ([]*dto.NoteResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	notebook, err := uow.NotebookRepository().FindOne(ctx, specification.ByID{ID: notebookId})
	if err != nil {
		return nil, err
	}
	if notebook == nil {
		return nil, apperror.NotFound("notebook not found")
	}
	if !access.CanRead(notebook, userId) {
		return nil, apperror.Forbidden("no access to this notebook")
	}

	notes, err := uow.NoteRepository().FindAll(ctx,
		specification.ByNotebookID{NotebookID: notebookId},
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.NoteResponse, 0, len(notes))
	for _, note := range notes {
		result = append(result, toNoteResponse(note))
	}
	return result, nil
}

func (c *noteService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateNoteRequest) (*dto.UpdateNoteResponse, error) {
	if req.Title != nil && (len(*req.Title) == 0 || len(*req.Title) > 200) {
		return nil, apperror.Validation("title must be between 1 and 200 characters")
	}
	if req.Status != nil && !entity.NoteStatus(*req.Status).Valid() {
		return nil, apperror.Validation("status must be draft, published or archived")
	}
	if req.Content != nil && *req.Content == "" {
		return nil, apperror.Validation("content cannot be empty")
	}

	contentChanged := false
	note, err := c.saveWithLock(ctx, userId, req.Id, func(note *entity.Note) error {
		if req.Title != nil {
			note.Title = *req.Title
		}
		if req.Tags != nil {
			note.Tags = *req.Tags
		}
		if req.Status != nil {
			note.Status = entity.NoteStatus(*req.Status)
		}
		contentChanged = req.Content != nil && *req.Content != note.Content
		if contentChanged {
			c.recordContent(note, *req.Content, userId)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if contentChanged {
		c.statsCache.Invalidate(ctx, note.NotebookId)
		c.requestSummary(ctx, note.Id)
	}
	c.publishEvent(ctx, events.TypeNoteUpdated, map[string]interface{}{
		"note_id":     note.Id,
		"notebook_id": note.NotebookId,
		"title":       note.Title,
		"user_id":     userId,
	})

	return &dto.UpdateNoteResponse{
		Id: note.Id,
	}, nil
}

func (c *noteService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	note, _, err := c.findWritable(ctx, uow, userId, id)
	if err != nil {
		return err
	}

	if err := uow.NoteRepository().Delete(ctx, id); err != nil {
		return err
	}

	c.statsCache.Invalidate(ctx, note.NotebookId)
	return nil
}

func (c *noteService) VersionHistory(ctx context.Context, userId uuid.UUID, id uuid.UUID) ([]*dto.NoteVersionResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	note, _, err := c.findReadable(ctx, uow, userId, id)
	if err != nil {
		return nil, err
	}

	// Storage order is already oldest first.
	result := make([]*dto.NoteVersionResponse, 0, len(note.Versions))
	for _, v := range note.Versions {
		result = append(result, &dto.NoteVersionResponse{
			Id:        v.Id,
			Content:   v.Content,
			Timestamp: v.Timestamp,
			AuthorId:  v.AuthorId,
		})
	}
	return result, nil
}

func (c *noteService) RestoreVersion(ctx context.Context, userId uuid.UUID, noteId uuid.UUID, versionId uuid.UUID) (*dto.UpdateNoteResponse, error) {
	contentChanged := false
	note, err := c.saveWithLock(ctx, userId, noteId, func(note *entity.Note) error {
		version, ok := c.ledger.Find(note.Versions, versionId)
		if !ok {
			return apperror.NotFound("version not found")
		}
		// Restoring the current content is a no-op, not a new version.
		if version.Content == note.Content {
			return nil
		}
		contentChanged = true
		c.recordContent(note, version.Content, userId)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if contentChanged {
		c.statsCache.Invalidate(ctx, note.NotebookId)
		c.requestSummary(ctx, note.Id)
	}

	return &dto.UpdateNoteResponse{
		Id: note.Id,
	}, nil
}

func (c *noteService) FindByTag(ctx context.Context, userId uuid.UUID, tag string) ([]*dto.NoteResponse, error) {
	if strings.TrimSpace(tag) == "" {
		return nil, apperror.Validation("tag cannot be empty")
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)

	notebookIds, err := c.accessibleNotebookIds(ctx, uow, userId)
	if err != nil {
		return nil, err
	}
	if len(notebookIds) == 0 {
		return []*dto.NoteResponse{}, nil
	}

	notes, err := uow.NoteRepository().FindAll(ctx,
		specification.ByNotebookIDs{NotebookIDs: notebookIds},
		specification.HasTag{Tag: tag},
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.NoteResponse, 0, len(notes))
	for _, note := range notes {
		result = append(result, toNoteResponse(note))
	}
	return result, nil
}

func (c *noteService) Search(ctx context.Context, userId uuid.UUID, query string, notebookId *uuid.UUID) ([]*dto.SearchNoteResponse, error) {
	if strings.TrimSpace(query) == "" {
		return nil, apperror.Validation("search query cannot be empty")
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)

	// Visibility is resolved before matching: the query only ever runs
	// against notebooks the caller can read. A caller-supplied scope is
	// re-validated, never trusted.
	var notebookIds []uuid.UUID
	if notebookId != nil {
		notebook, err := uow.NotebookRepository().FindOne(ctx, specification.ByID{ID: *notebookId})
		if err != nil {
			return nil, err
		}
		if notebook == nil {
			return nil, apperror.NotFound("notebook not found")
		}
		if !access.CanRead(notebook, userId) {
			return nil, apperror.Forbidden("no access to this notebook")
		}
		notebookIds = []uuid.UUID{notebook.Id}
	} else {
		var err error
		notebookIds, err = c.accessibleNotebookIds(ctx, uow, userId)
		if err != nil {
			return nil, err
		}
	}
	if len(notebookIds) == 0 {
		return []*dto.SearchNoteResponse{}, nil
	}

	notes, err := uow.NoteRepository().FindAll(ctx,
		specification.ByNotebookIDs{NotebookIDs: notebookIds},
		specification.TitleOrContentMatch{Query: query},
		specification.OrderByRelevance{Query: query},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.SearchNoteResponse, 0, len(notes))
	for _, note := range notes {
		result = append(result, &dto.SearchNoteResponse{
			Id:         note.Id,
			Title:      note.Title,
			Content:    note.Content,
			NotebookId: note.NotebookId,
			CreatedAt:  note.CreatedAt,
			UpdatedAt:  note.UpdatedAt,
		})
	}
	return result, nil
}

func (c *noteService) AddAttachment(ctx context.Context, userId uuid.UUID, noteId uuid.UUID, req *dto.AddAttachmentRequest) (*dto.NoteResponse, error) {
	note, err := c.saveWithLock(ctx, userId, noteId, func(note *entity.Note) error {
		for _, att := range note.Attachments {
			if att.Filename == req.Filename {
				return apperror.Conflict("attachment %q already exists", req.Filename)
			}
		}
		note.Attachments = append(note.Attachments, entity.Attachment{
			Filename:   req.Filename,
			FileUrl:    req.FileUrl,
			FileType:   req.FileType,
			UploadDate: time.Now(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toNoteResponse(note), nil
}

func (c *noteService) RemoveAttachment(ctx context.Context, userId uuid.UUID, noteId uuid.UUID, filename string) (*dto.NoteResponse, error) {
	note, err := c.saveWithLock(ctx, userId, noteId, func(note *entity.Note) error {
		kept := make([]entity.Attachment, 0, len(note.Attachments))
		for _, att := range note.Attachments {
			if att.Filename != filename {
				kept = append(kept, att)
			}
		}
		if len(kept) == len(note.Attachments) {
			return apperror.NotFound("attachment %q not found", filename)
		}
		note.Attachments = kept
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toNoteResponse(note), nil
}

// recordContent applies a content write: the incoming snapshot goes to
// both the note body and the ledger, and the derived metadata follows.
func (c *noteService) recordContent(note *entity.Note, content string, authorId uuid.UUID) {
	note.Content = content
	note.Versions = c.ledger.Append(note.Versions, entity.NoteVersion{
		Id:        uuid.New(),
		Content:   content,
		Timestamp: time.Now(),
		AuthorId:  authorId,
	})
	note.Metadata.WordCount, note.Metadata.ReadTime = textstat.Derive(content)
}

// saveWithLock runs mutate against a fresh snapshot and persists it
// under the optimistic lock, replaying on contention. Each successful
// save applies the mutation exactly once.
func (c *noteService) saveWithLock(ctx context.Context, userId uuid.UUID, noteId uuid.UUID, mutate func(note *entity.Note) error) (*entity.Note, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	for attempt := 0; attempt < maxLockRetries; attempt++ {
		note, _, err := c.findWritable(ctx, uow, userId, noteId)
		if err != nil {
			return nil, err
		}

		if err := mutate(note); err != nil {
			return nil, err
		}

		now := time.Now()
		note.UpdatedAt = &now

		ok, err := uow.NoteRepository().UpdateLocked(ctx, note, note.LockVersion)
		if err != nil {
			return nil, err
		}
		if ok {
			return note, nil
		}
	}

	return nil, apperror.Storage(nil, "note update lost the write race, retry")
}

// findReadable and findWritable load a note together with its parent
// notebook and enforce the required access tier.
func (c *noteService) findReadable(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, id uuid.UUID) (*entity.Note, *entity.Notebook, error) {
	return c.findWithAccess(ctx, uow, userId, id, entity.RoleReader)
}

func (c *noteService) findWritable(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, id uuid.UUID) (*entity.Note, *entity.Notebook, error) {
	return c.findWithAccess(ctx, uow, userId, id, entity.RoleEditor)
}

func (c *noteService) findWithAccess(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, id uuid.UUID, role entity.CollaboratorRole) (*entity.Note, *entity.Notebook, error) {
	note, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, nil, err
	}
	if note == nil {
		return nil, nil, apperror.NotFound("note not found")
	}

	notebook, err := uow.NotebookRepository().FindOne(ctx, specification.ByID{ID: note.NotebookId})
	if err != nil {
		return nil, nil, err
	}
	if !access.HasAccess(notebook, userId, role) {
		if role == entity.RoleEditor {
			return nil, nil, apperror.Forbidden("editor access required")
		}
		return nil, nil, apperror.Forbidden("no access to this note")
	}
	return note, notebook, nil
}

func (c *noteService) accessibleNotebookIds(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) ([]uuid.UUID, error) {
	notebooks, err := uow.NotebookRepository().FindAll(ctx, specification.AccessibleBy{UserID: userId})
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(notebooks))
	for _, notebook := range notebooks {
		ids = append(ids, notebook.Id)
	}
	return ids, nil
}

func (c *noteService) requestSummary(ctx context.Context, noteId uuid.UUID) {
	payload := dto.SummarizeNoteMessage{
		NoteId: noteId,
	}
	payloadJson, _ := json.Marshal(payload)
	if err := c.publisherService.Publish(ctx, payloadJson); err != nil {
		log.Printf("[WARN] Failed to queue summary for note %s: %v", noteId, err)
	}
}

func (c *noteService) publishEvent(ctx context.Context, eventType string, data map[string]interface{}) {
	if c.eventPublisher == nil {
		return
	}
	evt := events.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
	if err := c.eventPublisher.Publish(ctx, evt); err != nil {
		log.Printf("[WARN] Failed to publish %s event: %v", eventType, err)
	}
}

func toNoteResponse(note *entity.Note) *dto.NoteResponse {
	attachments := make([]dto.AttachmentPayload, 0, len(note.Attachments))
	for _, att := range note.Attachments {
		attachments = append(attachments, dto.AttachmentPayload{
			Filename:   att.Filename,
			FileUrl:    att.FileUrl,
			FileType:   att.FileType,
			UploadDate: att.UploadDate,
		})
	}

	references := make([]dto.ReferencePayload, 0, len(note.References))
	for _, ref := range note.References {
		references = append(references, dto.ReferencePayload{
			Title:    ref.Title,
			Url:      ref.Url,
			Citation: ref.Citation,
		})
	}

	return &dto.NoteResponse{
		Id:          note.Id,
		Title:       note.Title,
		Content:     note.Content,
		NotebookId:  note.NotebookId,
		AuthorId:    note.AuthorId,
		Tags:        note.Tags,
		Status:      string(note.Status),
		Attachments: attachments,
		References:  references,
		Metadata: dto.NoteMetadataPayload{
			WordCount:      note.Metadata.WordCount,
			ReadTime:       note.Metadata.ReadTime,
			LastSummarized: note.Metadata.LastSummarized,
		},
		AiSummary:  note.AiSummary,
		AiInsights: note.AiInsights,
		CreatedAt:  note.CreatedAt,
		UpdatedAt:  note.UpdatedAt,
	}
}
