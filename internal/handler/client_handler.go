package handler

import (
	"database/sql"
	"errors"

	"collections-web/internal/models"
	"collections-web/internal/repository"
	"collections-web/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type ClientHandler struct {
	clientRepo *repository.ClientRepository
}

func NewClientHandler(clientRepo *repository.ClientRepository) *ClientHandler {
	return &ClientHandler{clientRepo: clientRepo}
}

func (h *ClientHandler) List(c *fiber.Ctx) error {
	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)

	clients, total, err := h.clientRepo.FindAll(params.Limit, offset)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list clients", err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, int64(total))
	return utils.PaginatedResponseBuilder(c, "Clients retrieved", clients, pagination)
}

func (h *ClientHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid client id", err)
	}

	client, err := h.clientRepo.FindByID(int64(id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Client not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load client", err)
	}

	return utils.SuccessResponse(c, "Client retrieved", client)
}

func (h *ClientHandler) Create(c *fiber.Ctx) error {
	var client models.Client
	if err := c.BodyParser(&client); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if client.Name == "" || client.Code == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "name and code are required", nil)
	}

	if err := h.clientRepo.Create(&client); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create client", err)
	}

	c.Status(fiber.StatusCreated)
	return utils.SuccessResponse(c, "Client created", client)
}
