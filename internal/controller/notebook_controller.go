package controller

import (
	"collabnote-be/internal/dto"
	"collabnote-be/internal/pkg/apperror"
	"collabnote-be/internal/pkg/serverutils"
	"collabnote-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type INotebookController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	ListAccessible(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	ToggleArchive(ctx *fiber.Ctx) error
	AddCollaborator(ctx *fiber.Ctx) error
	RemoveCollaborator(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
}

type notebookController struct {
	notebookService service.INotebookService
	authMiddleware  fiber.Handler
}

func NewNotebookController(notebookService service.INotebookService, authMiddleware fiber.Handler) INotebookController {
	return &notebookController{
		notebookService: notebookService,
		authMiddleware:  authMiddleware,
	}
}

func (c *notebookController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/notebook/v1")
	h.Use(c.authMiddleware)
	h.Get("", c.ListAccessible)
	h.Post("", c.Create)
	h.Get(":id", c.Show)
	h.Put(":id", c.Update)
	h.Delete(":id", c.Delete)
	h.Put(":id/archive", c.ToggleArchive)
	h.Post(":id/collaborators", c.AddCollaborator)
	h.Delete(":id/collaborators/:userId", c.RemoveCollaborator)
	h.Get(":id/stats", c.Stats)
}

func (c *notebookController) Create(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	var req dto.CreateNotebookRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.notebookService.Create(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create notebook", res))
}

func (c *notebookController) Show(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	id, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.notebookService.Show(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show notebook", res))
}

func (c *notebookController) ListAccessible(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	res, err := c.notebookService.ListAccessible(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list notebooks", res))
}

func (c *notebookController) Update(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	id, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateNotebookRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("invalid request body")
	}
	req.Id = id

	res, err := c.notebookService.Update(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update notebook", res))
}

func (c *notebookController) Delete(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	id, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}

	if err := c.notebookService.Delete(ctx.Context(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete notebook", nil))
}

func (c *notebookController) ToggleArchive(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	id, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.notebookService.ToggleArchive(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success toggle notebook archive", res))
}

func (c *notebookController) AddCollaborator(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	id, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.AddCollaboratorRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.notebookService.AddCollaborator(ctx.Context(), userId, id, &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success add collaborator", nil))
}

func (c *notebookController) RemoveCollaborator(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	id, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}
	collaboratorId, err := parseIdParam(ctx, "userId")
	if err != nil {
		return err
	}

	if err := c.notebookService.RemoveCollaborator(ctx.Context(), userId, id, collaboratorId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success remove collaborator", nil))
}

func (c *notebookController) Stats(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	id, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.notebookService.Stats(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show notebook stats", res))
}
