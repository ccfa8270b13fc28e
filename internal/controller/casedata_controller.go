package controller

import (
	"caseflow-be/internal/dto"
	"caseflow-be/internal/pkg/serverutils"
	"caseflow-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ICaseDataController interface {
	RegisterRoutes(r fiber.Router)
	Show(ctx *fiber.Ctx) error
	Snapshot(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Invalidate(ctx *fiber.Ctx) error
}

type caseDataController struct {
	service service.ISyncService
}

func NewCaseDataController(service service.ISyncService) ICaseDataController {
	return &caseDataController{service: service}
}

func (c *caseDataController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/case-data/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get(":id", c.Show)
	h.Get(":id/snapshot", c.Snapshot)
	h.Patch(":id", c.Update)
	h.Delete(":id/cache", c.Invalidate)
}

// Snapshot exposes the persisted write-behind mirror for support tooling.
func (c *caseDataController) Snapshot(ctx *fiber.Ctx) error {
	idParam := ctx.Params("id")
	id, _ := uuid.Parse(idParam)

	res, err := c.service.Snapshot(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get case data snapshot", res))
}

func (c *caseDataController) Show(ctx *fiber.Ctx) error {
	idParam := ctx.Params("id")
	id, _ := uuid.Parse(idParam)

	res, err := c.service.Fetch(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get case data", res))
}

func (c *caseDataController) Update(ctx *fiber.Ctx) error {
	idParam := ctx.Params("id")
	id, _ := uuid.Parse(idParam)

	var req dto.UpdateCollectedDataRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if req.IsEmpty() {
		return fiber.NewError(fiber.StatusBadRequest, "At least one section is required")
	}

	res, err := c.service.Update(ctx.Context(), id, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update case data", res))
}

// Invalidate drops the local cache entry so the next read goes back to the
// service of record.
func (c *caseDataController) Invalidate(ctx *fiber.Ctx) error {
	idParam := ctx.Params("id")
	id, _ := uuid.Parse(idParam)

	c.service.Invalidate(id)

	return ctx.JSON(serverutils.SuccessResponse[any]("Success invalidate case data cache", nil))
}
