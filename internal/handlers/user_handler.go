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

// UserHandler handles HTTP requests for users.
type UserHandler struct {
	service  *services.UserService
	validate *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the user routes with the Fiber app. Mutating
// routes sit behind the auth middleware.
func (h *UserHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	userRoutes := router.Group("/users")
	userRoutes.Get("/", h.HandleListUsers)
	userRoutes.Post("/", h.HandleCreateUser)
	userRoutes.Get("/:id", h.HandleGetUser)
	userRoutes.Put("/:id", auth, h.HandleUpdateUser)
	userRoutes.Delete("/:id", auth, h.HandleDeleteUser)
}

// CreateUserRequest represents the request body for creating a user.
type CreateUserRequest struct {
	Email     string  `json:"email" validate:"required,email,max=255"`
	Username  string  `json:"username" validate:"required,min=3,max=30"`
	Password  string  `json:"password" validate:"required,min=8,max=72"`
	FullName  *string `json:"full_name" validate:"omitempty,min=1,max=50"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,url"`
	Phone     *string `json:"phone" validate:"omitempty,min=6,max=30"`
}

// HandleListUsers retrieves users, optionally filtered by email (exact) and
// username (substring).
func (h *UserHandler) HandleListUsers(c *fiber.Ctx) error {
	filter := repositories.UserFilter{
		Email:    c.Query("email"),
		Username: c.Query("username"),
		Limit:    c.QueryInt("limit", 50),
		Offset:   c.QueryInt("offset", 0),
	}

	users, err := h.service.ListUsers(filter)
	if err != nil {
		log.Printf("Error listing users: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve users",
			"error":   err.Error(),
		})
	}
	return c.JSON(users)
}

// HandleCreateUser creates a new user. If the email is already registered
// the existing user is returned with a 200, mirroring the original
// create-or-login behaviour.
func (h *UserHandler) HandleCreateUser(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create user request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	user := &models.User{
		Email:     req.Email,
		Username:  req.Username,
		Password:  req.Password,
		FullName:  req.FullName,
		AvatarURL: req.AvatarURL,
		Phone:     req.Phone,
	}

	result, created, err := h.service.CreateUser(user)
	if err != nil {
		log.Printf("Error creating user: %v", err)
		if strings.Contains(err.Error(), "already taken") {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "Could not create user",
				"error":   err.Error(),
			})
		}
		if strings.Contains(err.Error(), "validation failed") {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Validation failed",
				"error":   err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create user",
			"error":   err.Error(),
		})
	}

	c.Set("Location", fmt.Sprintf("/users/%s", result.ID))
	if !created {
		return c.Status(fiber.StatusOK).JSON(result)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// HandleGetUser retrieves a single user. Responses carry a weak ETag and
// Link headers; a matching If-None-Match short-circuits to 304.
func (h *UserHandler) HandleGetUser(c *fiber.Ctx) error {
	userID := c.Params("id")
	user, err := h.service.GetUserByID(userID)
	if err != nil {
		log.Printf("Error getting user by ID %s: %v", userID, err)
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("User with ID %s not found", userID),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve user",
			"error":   err.Error(),
		})
	}

	etag := userETag(user)
	c.Set("ETag", etag)
	c.Set("Link", userLinkHeader(user.ID))

	if c.Get("If-None-Match") == etag {
		return c.SendStatus(fiber.StatusNotModified)
	}
	return c.JSON(user)
}

// HandleUpdateUser applies a partial update. An If-Match header, when
// present, must match the user's current ETag or the update fails with 412.
func (h *UserHandler) HandleUpdateUser(c *fiber.Ctx) error {
	userID := c.Params("id")

	var update models.UserUpdate
	if err := c.BodyParser(&update); err != nil {
		log.Printf("Error parsing update user request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(update); err != nil {
		return validationErrorResponse(c, err)
	}

	current, err := h.service.GetUserByID(userID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("User with ID %s not found", userID),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve user",
			"error":   err.Error(),
		})
	}

	if ifMatch := c.Get("If-Match"); ifMatch != "" && ifMatch != userETag(current) {
		return c.Status(fiber.StatusPreconditionFailed).JSON(fiber.Map{
			"message": "Precondition Failed (ETag mismatch)",
		})
	}

	updated, err := h.service.UpdateUser(userID, &update)
	if err != nil {
		log.Printf("Error updating user %s: %v", userID, err)
		switch {
		case strings.Contains(err.Error(), "not found"):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("User with ID %s not found", userID),
			})
		case strings.Contains(err.Error(), "already taken"):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "Could not update user",
				"error":   err.Error(),
			})
		case strings.Contains(err.Error(), "validation failed"):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Validation failed",
				"error":   err.Error(),
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Could not update user",
				"error":   err.Error(),
			})
		}
	}

	c.Set("ETag", userETag(updated))
	c.Set("Link", userLinkHeader(updated.ID))
	return c.JSON(updated)
}

// HandleDeleteUser deletes a user. The store cascades the delete to all of
// the user's addresses.
func (h *UserHandler) HandleDeleteUser(c *fiber.Ctx) error {
	userID := c.Params("id")
	if err := h.service.DeleteUser(userID); err != nil {
		log.Printf("Error deleting user %s: %v", userID, err)
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("User with ID %s not found", userID),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete user",
			"error":   err.Error(),
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// userETag builds the weak ETag for a user from its last update time.
func userETag(user *models.User) string {
	return fmt.Sprintf(`W/"user-%s-%d"`, user.ID, user.UpdatedAt.Unix())
}

// userLinkHeader builds the Link header advertising the user's related
// resources.
func userLinkHeader(userID string) string {
	return fmt.Sprintf(
		`</users/%s>; rel="self", </users>; rel="collection", </addresses?user_id=%s>; rel="addresses"`,
		userID, userID,
	)
}

// validationErrorResponse renders validator errors as a field -> message map.
func validationErrorResponse(c *fiber.Ctx, err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}
