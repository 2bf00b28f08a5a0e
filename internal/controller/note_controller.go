package controller

import (
	"collabnote-be/internal/dto"
	"collabnote-be/internal/pkg/apperror"
	"collabnote-be/internal/pkg/serverutils"
	"collabnote-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type INoteController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	ListByNotebook(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	VersionHistory(ctx *fiber.Ctx) error
	RestoreVersion(ctx *fiber.Ctx) error
	FindByTag(ctx *fiber.Ctx) error
	Search(ctx *fiber.Ctx) error
	AddAttachment(ctx *fiber.Ctx) error
	RemoveAttachment(ctx *fiber.Ctx) error
}

type noteController struct {
	noteService    service.INoteService
	authMiddleware fiber.Handler
}

func NewNoteController(noteService service.INoteService, authMiddleware fiber.Handler) INoteController {
	return &noteController{
		noteService:    noteService,
		authMiddleware: authMiddleware,
	}
}

func (c *noteController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/note/v1")
	h.Use(c.authMiddleware)
	// Literal prefixes before the :id wildcard.
	h.Get("search", c.Search)
	h.Get("tag/:tag", c.FindByTag)
	h.Get("notebook/:notebookId", c.ListByNotebook)
	h.Post("", c.Create)
	h.Get(":id", c.Show)
	h.Put(":id", c.Update)
	h.Delete(":id", c.Delete)
	h.Get(":id/versions", c.VersionHistory)
	h.Post(":id/versions/:versionId/restore", c.RestoreVersion)
	h.Post(":id/attachments", c.AddAttachment)
	h.Delete(":id/attachments/:filename", c.RemoveAttachment)
}

func currentUserId(ctx *fiber.Ctx) uuid.UUID {
	userIdStr, _ := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	return userId
}

func parseIdParam(ctx *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params(name))
	if err != nil {
		return uuid.Nil, apperror.Validation("invalid %s parameter", name)
	}
	return id, nil
}

func (c *noteController) Create(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	var req dto.CreateNoteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.noteService.Create(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create note", res))
}

func (c *noteController) Show(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	id, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.noteService.Show(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show note", res))
}

func (c *noteController) ListByNotebook(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	notebookId, err := parseIdParam(ctx, "notebookId")
	if err != nil {
		return err
	}

	res, err := c.noteService.ListByNotebook(ctx.Context(), userId, notebookId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list notes", res))
}

func (c *noteController) Update(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	id, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateNoteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("invalid request body")
	}
	req.Id = id

	res, err := c.noteService.Update(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update note", res))
}

func (c *noteController) Delete(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	id, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}

	if err := c.noteService.Delete(ctx.Context(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete note", nil))
}

func (c *noteController) VersionHistory(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	id, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.noteService.VersionHistory(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list note versions", res))
}

func (c *noteController) RestoreVersion(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	id, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}
	versionId, err := parseIdParam(ctx, "versionId")
	if err != nil {
		return err
	}

	res, err := c.noteService.RestoreVersion(ctx.Context(), userId, id, versionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success restore note version", res))
}

func (c *noteController) FindByTag(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	res, err := c.noteService.FindByTag(ctx.Context(), userId, ctx.Params("tag"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success find notes by tag", res))
}

func (c *noteController) Search(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	var notebookId *uuid.UUID
	if scope := ctx.Query("notebook", ""); scope != "" {
		parsed, err := uuid.Parse(scope)
		if err != nil {
			return apperror.Validation("invalid notebook parameter")
		}
		notebookId = &parsed
	}

	res, err := c.noteService.Search(ctx.Context(), userId, ctx.Query("q", ""), notebookId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success search notes", res))
}

func (c *noteController) AddAttachment(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	id, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.AddAttachmentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.noteService.AddAttachment(ctx.Context(), userId, id, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success add attachment", res))
}

func (c *noteController) RemoveAttachment(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	id, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.noteService.RemoveAttachment(ctx.Context(), userId, id, ctx.Params("filename"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success remove attachment", res))
}
