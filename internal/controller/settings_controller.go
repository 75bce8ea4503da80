package controller

import (
	"realty-agent-be/internal/dto"
	"realty-agent-be/internal/pkg/serverutils"
	"realty-agent-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISettingsController interface {
	RegisterRoutes(r fiber.Router)
	Status(ctx *fiber.Ctx) error
	UpdateCredentials(ctx *fiber.Ctx) error
}

type settingsController struct {
	settingsService service.ISettingsService
}

func NewSettingsController(settingsService service.ISettingsService) ISettingsController {
	return &settingsController{
		settingsService: settingsService,
	}
}

func (c *settingsController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/settings")
	h.Get("", c.Status)
	h.Put("/credentials", c.UpdateCredentials)
}

func (c *settingsController) Status(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success show settings", c.settingsService.Status()))
}

func (c *settingsController) UpdateCredentials(ctx *fiber.Ctx) error {
	var req dto.UpdateCredentialsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.settingsService.UpdateCredentials(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Credentials updated", res))
}
