package handlers

import (
	"fmt"
	"log"
	"strings"

	"userservice/internal/models"
	"userservice/internal/repositories"
	"userservice/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AddressHandler handles HTTP requests for addresses.
type AddressHandler struct {
	service  *services.AddressService
	validate *validator.Validate
}

// NewAddressHandler creates a new AddressHandler.
func NewAddressHandler(service *services.AddressService) *AddressHandler {
	return &AddressHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the address routes with the Fiber app. Mutating
// routes sit behind the auth middleware.
func (h *AddressHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	addressRoutes := router.Group("/addresses")
	addressRoutes.Get("/", h.HandleListAddresses)
	addressRoutes.Post("/", h.HandleCreateAddress)
	addressRoutes.Get("/:id", h.HandleGetAddress)
	addressRoutes.Put("/:id", auth, h.HandleUpdateAddress)
	addressRoutes.Delete("/:id", auth, h.HandleDeleteAddress)
}

// CreateAddressRequest represents the request body for creating an address.
type CreateAddressRequest struct {
	UserID     string  `json:"user_id" validate:"required,uuid"`
	Country    string  `json:"country" validate:"required,min=1,max=60"`
	City       string  `json:"city" validate:"required,min=1,max=60"`
	Street     string  `json:"street" validate:"required,min=1,max=120"`
	PostalCode *string `json:"postal_code" validate:"omitempty,min=3,max=20"`
}

// HandleListAddresses retrieves addresses, optionally filtered by user_id
// (exact), city (substring) and postal_code (exact).
func (h *AddressHandler) HandleListAddresses(c *fiber.Ctx) error {
	filter := repositories.AddressFilter{
		UserID:     c.Query("user_id"),
		City:       c.Query("city"),
		PostalCode: c.Query("postal_code"),
		Limit:      c.QueryInt("limit", 50),
		Offset:     c.QueryInt("offset", 0),
	}

	addresses, err := h.service.ListAddresses(filter)
	if err != nil {
		log.Printf("Error listing addresses: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve addresses",
			"error":   err.Error(),
		})
	}
	return c.JSON(addresses)
}

// HandleCreateAddress creates a new address for an existing user. A missing
// owner is a client error, matching the store's foreign key rejection.
func (h *AddressHandler) HandleCreateAddress(c *fiber.Ctx) error {
	var req CreateAddressRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create address request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	address := &models.Address{
		UserID:     req.UserID,
		Country:    req.Country,
		City:       req.City,
		Street:     req.Street,
		PostalCode: req.PostalCode,
	}

	if err := h.service.CreateAddress(address); err != nil {
		log.Printf("Error creating address: %v", err)
		if strings.Contains(err.Error(), "not found") || strings.Contains(err.Error(), "validation failed") {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Could not create address",
				"error":   err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create address",
			"error":   err.Error(),
		})
	}

	c.Set("Location", fmt.Sprintf("/addresses/%s", address.ID))
	return c.Status(fiber.StatusCreated).JSON(address)
}

// HandleGetAddress retrieves a single address with a Link header pointing at
// its owning user.
func (h *AddressHandler) HandleGetAddress(c *fiber.Ctx) error {
	addressID := c.Params("id")
	address, err := h.service.GetAddressByID(addressID)
	if err != nil {
		log.Printf("Error getting address by ID %s: %v", addressID, err)
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Address with ID %s not found", addressID),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve address",
			"error":   err.Error(),
		})
	}

	c.Set("Link", fmt.Sprintf(
		`</addresses/%s>; rel="self", </addresses>; rel="collection", </users/%s>; rel="user"`,
		address.ID, address.UserID,
	))
	return c.JSON(address)
}

// HandleUpdateAddress applies a partial update to an address.
func (h *AddressHandler) HandleUpdateAddress(c *fiber.Ctx) error {
	addressID := c.Params("id")

	var update models.AddressUpdate
	if err := c.BodyParser(&update); err != nil {
		log.Printf("Error parsing update address request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(update); err != nil {
		return validationErrorResponse(c, err)
	}

	address, err := h.service.UpdateAddress(addressID, &update)
	if err != nil {
		log.Printf("Error updating address %s: %v", addressID, err)
		switch {
		case strings.Contains(err.Error(), "not found"):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Address with ID %s not found", addressID),
			})
		case strings.Contains(err.Error(), "validation failed"):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Validation failed",
				"error":   err.Error(),
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Could not update address",
				"error":   err.Error(),
			})
		}
	}

	return c.JSON(address)
}

// HandleDeleteAddress deletes an address by its ID.
func (h *AddressHandler) HandleDeleteAddress(c *fiber.Ctx) error {
	addressID := c.Params("id")
	if err := h.service.DeleteAddress(addressID); err != nil {
		log.Printf("Error deleting address %s: %v", addressID, err)
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Address with ID %s not found", addressID),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete address",
			"error":   err.Error(),
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
