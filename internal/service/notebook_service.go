package service

import (
	"context"
	"log"
	"time"

	"collabnote-be/internal/access"
	"collabnote-be/internal/dto"
	"collabnote-be/internal/entity"
	"collabnote-be/internal/pkg/apperror"
	"collabnote-be/internal/pkg/mailer"
	"collabnote-be/internal/pkg/statscache"
	"collabnote-be/internal/repository/specification"
	"collabnote-be/internal/repository/unitofwork"
	"collabnote-be/pkg/events"
	pktNats "collabnote-be/pkg/nats"

	"github.com/google/uuid"
)

type INotebookService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNotebookRequest) (*dto.CreateNotebookResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.NotebookResponse, error)
	ListAccessible(ctx context.Context, userId uuid.UUID) ([]*dto.NotebookResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateNotebookRequest) (*dto.NotebookResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	ToggleArchive(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.NotebookResponse, error)
	AddCollaborator(ctx context.Context, userId uuid.UUID, notebookId uuid.UUID, req *dto.AddCollaboratorRequest) error
	RemoveCollaborator(ctx context.Context, userId uuid.UUID, notebookId uuid.UUID, collaboratorId uuid.UUID) error
	Stats(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.NotebookStatsResponse, error)
}

type notebookService struct {
	uowFactory     unitofwork.RepositoryFactory
	emailService   mailer.IEmailService
	eventPublisher *pktNats.Publisher
	statsCache     *statscache.StatsCache
}

func NewNotebookService(
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	eventPublisher *pktNats.Publisher,
	statsCache *statscache.StatsCache,
) INotebookService {
	return &notebookService{
		uowFactory:     uowFactory,
		emailService:   emailService,
		eventPublisher: eventPublisher,
		statsCache:     statsCache,
	}
}

func (c *notebookService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNotebookRequest) (*dto.CreateNotebookResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	notebook := entity.Notebook{
		Id:            uuid.New(),
		Title:         req.Title,
		Description:   req.Description,
		Color:         req.Color,
		Tags:          req.Tags,
		OwnerId:       userId,
		Collaborators: make([]entity.Collaborator, 0),
		CreatedAt:     time.Now(),
	}
	if req.Settings != nil {
		notebook.Settings = entity.NotebookSettings{
			IsPublic:      req.Settings.IsPublic,
			AllowComments: req.Settings.AllowComments,
		}
	}

	if err := uow.NotebookRepository().Create(ctx, &notebook); err != nil {
		return nil, err
	}

	return &dto.CreateNotebookResponse{
		Id: notebook.Id,
	}, nil
}

func (c *notebookService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.NotebookResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	notebook, err := c.findReadable(ctx, uow, userId, id)
	if err != nil {
		return nil, err
	}

	return toNotebookResponse(notebook), nil
}

func (c *notebookService) ListAccessible(ctx context.Context, userId uuid.UUID) ([]*dto.NotebookResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	notebooks, err := uow.NotebookRepository().FindAll(ctx,
		specification.AccessibleBy{UserID: userId},
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.NotebookResponse, 0, len(notebooks))
	for _, notebook := range notebooks {
		result = append(result, toNotebookResponse(notebook))
	}
	return result, nil
}

func (c *notebookService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateNotebookRequest) (*dto.NotebookResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	notebook, err := uow.NotebookRepository().FindOne(ctx, specification.ByID{ID: req.Id})
	if err != nil {
		return nil, err
	}
	if notebook == nil {
		return nil, apperror.NotFound("notebook not found")
	}
	if !access.CanWrite(notebook, userId) {
		return nil, apperror.Forbidden("editor access required")
	}

	// Only the allow-listed fields change; ownership, collaborators and
	// timestamps are never writable through this path.
	if req.Title != nil {
		if len(*req.Title) == 0 || len(*req.Title) > 100 {
			return nil, apperror.Validation("title must be between 1 and 100 characters")
		}
		notebook.Title = *req.Title
	}
	if req.Description != nil {
		if len(*req.Description) > 500 {
			return nil, apperror.Validation("description must be at most 500 characters")
		}
		notebook.Description = *req.Description
	}
	if req.Color != nil {
		notebook.Color = *req.Color
	}
	if req.Tags != nil {
		notebook.Tags = *req.Tags
	}
	if req.Settings != nil {
		notebook.Settings = entity.NotebookSettings{
			IsPublic:      req.Settings.IsPublic,
			AllowComments: req.Settings.AllowComments,
		}
	}

	now := time.Now()
	notebook.UpdatedAt = &now

	if err := uow.NotebookRepository().Update(ctx, notebook); err != nil {
		return nil, err
	}

	return toNotebookResponse(notebook), nil
}

func (c *notebookService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	notebook, err := uow.NotebookRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if notebook == nil {
		return apperror.NotFound("notebook not found")
	}
	if !access.CanWrite(notebook, userId) {
		return apperror.Forbidden("editor access required")
	}

	// Notes and notebook go together or not at all.
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.NoteRepository().DeleteByNotebookId(ctx, id); err != nil {
		return err
	}
	if err := uow.NotebookRepository().Delete(ctx, id); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	c.statsCache.Invalidate(ctx, id)
	c.publishEvent(ctx, events.TypeNotebookDeleted, map[string]interface{}{
		"notebook_id": id,
		"title":       notebook.Title,
		"user_id":     userId,
	})

	return nil
}

func (c *notebookService) ToggleArchive(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.NotebookResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	notebook, err := uow.NotebookRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if notebook == nil {
		return nil, apperror.NotFound("notebook not found")
	}
	if !access.CanWrite(notebook, userId) {
		return nil, apperror.Forbidden("editor access required")
	}

	now := time.Now()
	notebook.IsArchived = !notebook.IsArchived
	notebook.UpdatedAt = &now

	if err := uow.NotebookRepository().Update(ctx, notebook); err != nil {
		return nil, err
	}

	return toNotebookResponse(notebook), nil
}

func (c *notebookService) AddCollaborator(ctx context.Context, userId uuid.UUID, notebookId uuid.UUID, req *dto.AddCollaboratorRequest) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	notebook, err := uow.NotebookRepository().FindOne(ctx, specification.ByID{ID: notebookId})
	if err != nil {
		return err
	}
	if notebook == nil {
		return apperror.NotFound("notebook not found")
	}
	if !access.CanWrite(notebook, userId) {
		return apperror.Forbidden("editor access required")
	}

	role := entity.CollaboratorRole(req.Role)
	if !role.Valid() {
		return apperror.Validation("role must be reader or editor")
	}
	if req.UserId == notebook.OwnerId {
		return apperror.Conflict("the owner cannot be added as a collaborator")
	}
	for _, collab := range notebook.Collaborators {
		if collab.UserId == req.UserId {
			return apperror.Conflict("user is already a collaborator")
		}
	}

	invitee, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: req.UserId})
	if err != nil {
		return err
	}
	if invitee == nil {
		return apperror.NotFound("user not found")
	}

	now := time.Now()
	notebook.Collaborators = append(notebook.Collaborators, entity.Collaborator{
		UserId: req.UserId,
		Role:   role,
	})
	notebook.UpdatedAt = &now

	if err := uow.NotebookRepository().Update(ctx, notebook); err != nil {
		return err
	}

	// The invite email is auxiliary; the grant already happened.
	inviter, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err == nil && inviter != nil {
		go func() {
			if emailErr := c.emailService.SendCollaboratorInvite(invitee.Email, inviter.FullName, notebook.Title, string(role)); emailErr != nil {
				log.Printf("[WARN] Failed to send collaborator invite: %v", emailErr)
			}
		}()
	}

	c.publishEvent(ctx, events.TypeCollaboratorAdded, map[string]interface{}{
		"notebook_id": notebook.Id,
		"title":       notebook.Title,
		"user_id":     req.UserId,
		"role":        string(role),
	})

	return nil
}

func (c *notebookService) RemoveCollaborator(ctx context.Context, userId uuid.UUID, notebookId uuid.UUID, collaboratorId uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	notebook, err := uow.NotebookRepository().FindOne(ctx, specification.ByID{ID: notebookId})
	if err != nil {
		return err
	}
	if notebook == nil {
		return apperror.NotFound("notebook not found")
	}
	if !access.CanWrite(notebook, userId) {
		return apperror.Forbidden("editor access required")
	}

	kept := make([]entity.Collaborator, 0, len(notebook.Collaborators))
	for _, collab := range notebook.Collaborators {
		if collab.UserId != collaboratorId {
			kept = append(kept, collab)
		}
	}
	// Removing an absent collaborator succeeds without a write.
	if len(kept) == len(notebook.Collaborators) {
		return nil
	}

	now := time.Now()
	notebook.Collaborators = kept
	notebook.UpdatedAt = &now

	return uow.NotebookRepository().Update(ctx, notebook)
}

func (c *notebookService) Stats(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.NotebookStatsResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	notebook, err := c.findReadable(ctx, uow, userId, id)
	if err != nil {
		return nil, err
	}

	if cached, ok := c.statsCache.Get(ctx, notebook.Id); ok {
		return toStatsResponse(cached), nil
	}

	stats, err := uow.NoteRepository().StatsByNotebookId(ctx, notebook.Id)
	if err != nil {
		return nil, err
	}
	c.statsCache.Set(ctx, notebook.Id, stats)

	return toStatsResponse(stats), nil
}

// findReadable loads a notebook and enforces reader-level access.
func (c *notebookService) findReadable(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, id uuid.UUID) (*entity.Notebook, error) {
	notebook, err := uow.NotebookRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if notebook == nil {
		return nil, apperror.NotFound("notebook not found")
	}
	if !access.CanRead(notebook, userId) {
		return nil, apperror.Forbidden("no access to this notebook")
	}
	return notebook, nil
}

func (c *notebookService) publishEvent(ctx context.Context, eventType string, data map[string]interface{}) {
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

func toNotebookResponse(notebook *entity.Notebook) *dto.NotebookResponse {
	collaborators := make([]dto.CollaboratorPayload, 0, len(notebook.Collaborators))
	for _, collab := range notebook.Collaborators {
		collaborators = append(collaborators, dto.CollaboratorPayload{
			UserId: collab.UserId,
			Role:   string(collab.Role),
		})
	}

	return &dto.NotebookResponse{
		Id:            notebook.Id,
		Title:         notebook.Title,
		Description:   notebook.Description,
		Color:         notebook.Color,
		Tags:          notebook.Tags,
		IsArchived:    notebook.IsArchived,
		OwnerId:       notebook.OwnerId,
		Collaborators: collaborators,
		Settings: dto.NotebookSettingsPayload{
			IsPublic:      notebook.Settings.IsPublic,
			AllowComments: notebook.Settings.AllowComments,
		},
		CreatedAt: notebook.CreatedAt,
		UpdatedAt: notebook.UpdatedAt,
	}
}

func toStatsResponse(stats *entity.NotebookStats) *dto.NotebookStatsResponse {
	return &dto.NotebookStatsResponse{
		TotalNotes:  stats.TotalNotes,
		TotalWords:  stats.TotalWords,
		AvgReadTime: stats.AvgReadTime,
	}
}
