package controller

import (
	"realty-agent-be/internal/dto"
	"realty-agent-be/internal/pkg/serverutils"
	"realty-agent-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IReplicaController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
}

type replicaController struct {
	replicaService service.IReplicaService
}

func NewReplicaController(replicaService service.IReplicaService) IReplicaController {
	return &replicaController{
		replicaService: replicaService,
	}
}

func (c *replicaController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/replicas")
	h.Get("", c.List)
	h.Post("", c.Create)
	h.Get(":id", c.Show)
}

func (c *replicaController) List(ctx *fiber.Ctx) error {
	res, err := c.replicaService.List(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list agents", res))
}

func (c *replicaController) Show(ctx *fiber.Ctx) error {
	res, err := c.replicaService.Get(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show agent", res))
}

func (c *replicaController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateReplicaRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.replicaService.Create(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create agent", res))
}
