package controller

import (
	"collabnote-be/internal/dto"
	"collabnote-be/internal/pkg/apperror"
	"collabnote-be/internal/pkg/serverutils"
	"collabnote-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IUserController interface {
	RegisterRoutes(r fiber.Router)
	Me(ctx *fiber.Ctx) error
	UpdateMe(ctx *fiber.Ctx) error
}

type userController struct {
	userService    service.IUserService
	authMiddleware fiber.Handler
}

func NewUserController(userService service.IUserService, authMiddleware fiber.Handler) IUserController {
	return &userController{
		userService:    userService,
		authMiddleware: authMiddleware,
	}
}

func (c *userController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/user/v1")
	h.Use(c.authMiddleware)
	h.Get("me", c.Me)
	h.Put("me", c.UpdateMe)
}

func (c *userController) Me(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	res, err := c.userService.Show(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show profile", res))
}

func (c *userController) UpdateMe(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	var req dto.UpdateUserRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.userService.UpdateProfile(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update profile", res))
}
