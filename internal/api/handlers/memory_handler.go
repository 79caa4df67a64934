package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"fridgewise-backend/domain"
	"fridgewise-backend/internal/api/presenters"
	"fridgewise-backend/pkg/memory"
	"fridgewise-backend/pkg/memorystore"
)

type (
	MemoryHandler interface {
		GetProfile(c *fiber.Ctx) error
		ApplyPatch(c *fiber.Ctx) error
		InferPatch(c *fiber.Ctx) error
		GetHistory(c *fiber.Ctx) error
	}

	memoryHandler struct {
		memoryService memorystore.MemoryService
		validator     *validator.Validate
	}
)

func NewMemoryHandler(memoryService memorystore.MemoryService, validator *validator.Validate) MemoryHandler {
	return &memoryHandler{
		memoryService: memoryService,
		validator:     validator,
	}
}

func (h *memoryHandler) GetProfile(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	profile, err := h.memoryService.GetProfile(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetProfile, err)
	}

	return presenters.SuccessResponse(c, profile, fiber.StatusOK, domain.MessageSuccessGetProfile)
}

func (h *memoryHandler) ApplyPatch(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.ApplyPatchRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedApplyPatch, err)
	}

	res, err := h.memoryService.ApplyPatch(c.Context(), userID, memory.Patch{Updates: req.Updates}, req.Source)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedApplyPatch, err)
	}

	message := domain.MessageSuccessApplyPatch
	if res.Applied == 0 {
		message = domain.MessageSuccessNoOpPatch
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, message)
}

func (h *memoryHandler) InferPatch(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.InferPatchRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedInferPatch, err)
	}

	res, err := h.memoryService.InferAndApply(c.Context(), userID, req.Text)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedInferPatch, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessInferPatch)
}

func (h *memoryHandler) GetHistory(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)

	res, err := h.memoryService.GetHistory(c.Context(), userID, page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetHistory, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetHistory)
}
