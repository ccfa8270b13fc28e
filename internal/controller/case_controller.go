package controller

import (
	"caseflow-be/internal/dto"
	"caseflow-be/internal/pkg/serverutils"
	"caseflow-be/internal/service"
	"caseflow-be/internal/workflow"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ICaseController interface {
	RegisterRoutes(r fiber.Router)
	GetAll(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	GetStatuses(ctx *fiber.Ctx) error
}

type caseController struct {
	service service.ICaseService
}

func NewCaseController(service service.ICaseService) ICaseController {
	return &caseController{service: service}
}

func (c *caseController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/case/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("statuses", c.GetStatuses)
	h.Get("", c.GetAll)
	h.Post("", c.Create)
	h.Get(":id", c.Show)
	h.Put(":id", c.Update)
}

func (c *caseController) GetAll(ctx *fiber.Ctx) error {
	advisorIdStr := ctx.Locals("advisor_id").(string)
	advisorId, _ := uuid.Parse(advisorIdStr)

	status := workflow.Status(ctx.Query("status"))
	search := ctx.Query("search")

	res, err := c.service.List(ctx.Context(), advisorId, status, search)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get all cases", res))
}

func (c *caseController) Create(ctx *fiber.Ctx) error {
	advisorIdStr := ctx.Locals("advisor_id").(string)
	advisorId, _ := uuid.Parse(advisorIdStr)

	var req dto.CreateCaseRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.Context(), advisorId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create case", res))
}

func (c *caseController) Show(ctx *fiber.Ctx) error {
	idParam := ctx.Params("id")
	id, _ := uuid.Parse(idParam)

	res, err := c.service.Show(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show case", res))
}

func (c *caseController) Update(ctx *fiber.Ctx) error {
	advisorIdStr := ctx.Locals("advisor_id").(string)
	advisorId, _ := uuid.Parse(advisorIdStr)
	idParam := ctx.Params("id")
	id, _ := uuid.Parse(idParam)

	var req dto.UpdateCaseRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Id = id

	res, err := c.service.Update(ctx.Context(), advisorId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update case", res))
}

// GetStatuses returns the full lifecycle catalog so clients never hardcode
// labels or next-action guidance.
func (c *caseController) GetStatuses(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success get case statuses", workflow.AllStatuses()))
}
