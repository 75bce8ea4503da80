package controller

import (
	"mime/multipart"
	"strconv"

	"realty-agent-be/internal/dto"
	"realty-agent-be/internal/pkg/serverutils"
	"realty-agent-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IKnowledgeController interface {
	RegisterRoutes(r fiber.Router)
	Snapshot(ctx *fiber.Ctx) error
	Refresh(ctx *fiber.Ctx) error
	AddText(ctx *fiber.Ctx) error
	AddListing(ctx *fiber.Ctx) error
	AddURL(ctx *fiber.Ctx) error
	AddFile(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Submissions(ctx *fiber.Ctx) error
}

type knowledgeController struct {
	knowledgeService service.IKnowledgeService
}

func NewKnowledgeController(knowledgeService service.IKnowledgeService) IKnowledgeController {
	return &knowledgeController{
		knowledgeService: knowledgeService,
	}
}

func (c *knowledgeController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/replicas/:id/knowledge")
	h.Get("", c.Snapshot)
	h.Post("/refresh", c.Refresh)
	h.Post("/text", c.AddText)
	h.Post("/listing", c.AddListing)
	h.Post("/url", c.AddURL)
	h.Post("/file", c.AddFile)
	h.Delete("/:itemId", c.Delete)

	r.Get("/replicas/:id/submissions", c.Submissions)
}

func (c *knowledgeController) Snapshot(ctx *fiber.Ctx) error {
	res, err := c.knowledgeService.Snapshot(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list knowledge", res))
}

func (c *knowledgeController) Refresh(ctx *fiber.Ctx) error {
	res, err := c.knowledgeService.Refresh(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success refresh knowledge", res))
}

func (c *knowledgeController) AddText(ctx *fiber.Ctx) error {
	var req dto.AddTextKnowledgeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.knowledgeService.AddText(ctx.UserContext(), ctx.Params("id"), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Knowledge accepted", res))
}

func (c *knowledgeController) AddListing(ctx *fiber.Ctx) error {
	var req dto.PropertyListingRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.knowledgeService.AddListing(ctx.UserContext(), ctx.Params("id"), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Listing accepted", res))
}

func (c *knowledgeController) AddURL(ctx *fiber.Ctx) error {
	var req dto.AddURLKnowledgeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.knowledgeService.AddURL(ctx.UserContext(), ctx.Params("id"), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("URL accepted", res))
}

// AddFile reads the multipart upload and streams it through the two-step
// signed URL flow. The file never touches disk here.
func (c *knowledgeController) AddFile(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return serverutils.NewFieldError("file", "A file is required.")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	res, err := c.knowledgeService.AddFile(
		ctx.UserContext(),
		ctx.Params("id"),
		fileHeader.Filename,
		detectContentType(fileHeader),
		ctx.FormValue("title"),
		file,
	)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("File accepted", res))
}

func (c *knowledgeController) Delete(ctx *fiber.Ctx) error {
	itemID, err := strconv.ParseInt(ctx.Params("itemId"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid knowledge item id")
	}

	if err := c.knowledgeService.Delete(ctx.UserContext(), ctx.Params("id"), itemID); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Knowledge removed", nil))
}

func (c *knowledgeController) Submissions(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 50)
	offset := ctx.QueryInt("offset", 0)
	if limit < 1 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	res, err := c.knowledgeService.Submissions(ctx.UserContext(), ctx.Params("id"), limit, offset)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list submissions", res))
}

func detectContentType(fileHeader *multipart.FileHeader) string {
	if ct := fileHeader.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
