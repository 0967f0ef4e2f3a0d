package handler

import (
	"database/sql"
	"errors"

	"collections-web/internal/models"
	"collections-web/internal/repository"
	"collections-web/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type PortfolioHandler struct {
	portfolioRepo *repository.PortfolioRepository
	clientRepo    *repository.ClientRepository
}

func NewPortfolioHandler(portfolioRepo *repository.PortfolioRepository, clientRepo *repository.ClientRepository) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioRepo: portfolioRepo,
		clientRepo:    clientRepo,
	}
}

func (h *PortfolioHandler) List(c *fiber.Ctx) error {
	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)

	portfolios, total, err := h.portfolioRepo.FindAll(params.Limit, offset, params.Search)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list portfolios", err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, int64(total))
	return utils.PaginatedResponseBuilder(c, "Portfolios retrieved", portfolios, pagination)
}

func (h *PortfolioHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid portfolio id", err)
	}

	portfolio, err := h.portfolioRepo.FindByID(int64(id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Portfolio not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load portfolio", err)
	}

	return utils.SuccessResponse(c, "Portfolio retrieved", portfolio)
}

func (h *PortfolioHandler) Create(c *fiber.Ctx) error {
	var req models.PortfolioRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if req.ClientID == 0 || req.Name == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "client_id and name are required", nil)
	}

	if _, err := h.clientRepo.FindByID(req.ClientID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Client not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load client", err)
	}

	portfolio := &models.Portfolio{
		ClientID:      req.ClientID,
		Name:          req.Name,
		PortfolioType: req.PortfolioType,
		IsActive:      req.IsActive,
	}
	if err := h.portfolioRepo.Create(portfolio); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create portfolio", err)
	}

	c.Status(fiber.StatusCreated)
	return utils.SuccessResponse(c, "Portfolio created", portfolio)
}

func (h *PortfolioHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid portfolio id", err)
	}

	portfolio, err := h.portfolioRepo.FindByID(int64(id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Portfolio not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load portfolio", err)
	}

	var req models.PortfolioRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if req.ClientID != 0 {
		portfolio.ClientID = req.ClientID
	}
	if req.Name != "" {
		portfolio.Name = req.Name
	}
	if req.PortfolioType != "" {
		portfolio.PortfolioType = req.PortfolioType
	}
	portfolio.IsActive = req.IsActive

	if err := h.portfolioRepo.Update(portfolio); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update portfolio", err)
	}

	return utils.SuccessResponse(c, "Portfolio updated", portfolio)
}

func (h *PortfolioHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid portfolio id", err)
	}

	if err := h.portfolioRepo.Delete(int64(id)); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete portfolio", err)
	}

	return utils.SuccessResponse(c, "Portfolio deleted", nil)
}
