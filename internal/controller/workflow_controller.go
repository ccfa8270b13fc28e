package controller

import (
	"caseflow-be/internal/dto"
	"caseflow-be/internal/pkg/serverutils"
	"caseflow-be/internal/service"
	"caseflow-be/internal/workflow"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IWorkflowController interface {
	RegisterRoutes(r fiber.Router)
	Progress(ctx *fiber.Ctx) error
	Advance(ctx *fiber.Ctx) error
	CompleteStep(ctx *fiber.Ctx) error
	Reset(ctx *fiber.Ctx) error
}

type workflowController struct {
	service service.IProgressService
}

func NewWorkflowController(service service.IProgressService) IWorkflowController {
	return &workflowController{service: service}
}

func (c *workflowController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/workflow/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get(":id/:flow", c.Progress)
	h.Put(":id/:flow/advance", c.Advance)
	h.Post(":id/:flow/steps/:step/complete", c.CompleteStep)
	h.Post(":id/:flow/reset", c.Reset)
}

func (c *workflowController) Progress(ctx *fiber.Ctx) error {
	idParam := ctx.Params("id")
	id, _ := uuid.Parse(idParam)
	flow := ctx.Params("flow")

	res, err := c.service.Progress(ctx.Context(), id, flow)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get progress", res))
}

func (c *workflowController) Advance(ctx *fiber.Ctx) error {
	advisorIdStr := ctx.Locals("advisor_id").(string)
	advisorId, _ := uuid.Parse(advisorIdStr)
	idParam := ctx.Params("id")
	id, _ := uuid.Parse(idParam)
	flow := ctx.Params("flow")

	var req dto.AdvanceStepRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Advance(ctx.Context(), id, advisorId, flow, workflow.StepID(req.Step))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success advance step", res))
}

func (c *workflowController) CompleteStep(ctx *fiber.Ctx) error {
	advisorIdStr := ctx.Locals("advisor_id").(string)
	advisorId, _ := uuid.Parse(advisorIdStr)
	advisorEmail, _ := ctx.Locals("advisor_email").(string)
	idParam := ctx.Params("id")
	id, _ := uuid.Parse(idParam)
	flow := ctx.Params("flow")
	step := workflow.StepID(ctx.Params("step"))

	res, err := c.service.CompleteStep(ctx.Context(), id, advisorId, advisorEmail, flow, step)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success complete step", res))
}

func (c *workflowController) Reset(ctx *fiber.Ctx) error {
	idParam := ctx.Params("id")
	id, _ := uuid.Parse(idParam)
	flow := ctx.Params("flow")

	if err := c.service.Reset(id, flow); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success reset progress", nil))
}
