package handlers

import (
	"fmt"
	"log"
	"strings"

	"userservice/internal/services"

	"github.com/gofiber/fiber/v2"
)

// JobHandler handles HTTP requests for export jobs.
type JobHandler struct {
	service *services.ExportService
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(service *services.ExportService) *JobHandler {
	return &JobHandler{
		service: service,
	}
}

// RegisterRoutes registers the export and job routes with the Fiber app.
func (h *JobHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/users/:id/export", h.HandleStartExport)
	router.Get("/jobs/:id", h.HandleGetJob)
}

// HandleStartExport starts an asynchronous export of a user and responds
// with 202 and the location of the job to poll.
func (h *JobHandler) HandleStartExport(c *fiber.Ctx) error {
	userID := c.Params("id")
	job, err := h.service.StartExport(userID)
	if err != nil {
		log.Printf("Error starting export for user %s: %v", userID, err)
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("User with ID %s not found", userID),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not start export",
			"error":   err.Error(),
		})
	}

	c.Set("Location", fmt.Sprintf("/jobs/%s", job.ID))
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"job_id": job.ID,
		"status": job.Status,
	})
}

// HandleGetJob returns the current state of an export job.
func (h *JobHandler) HandleGetJob(c *fiber.Ctx) error {
	jobID := c.Params("id")
	job, err := h.service.GetJob(jobID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("Job with ID %s not found", jobID),
		})
	}
	return c.JSON(job)
}
