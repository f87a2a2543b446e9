package services

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"userservice/internal/models"
	"userservice/internal/repositories"

	"github.com/google/uuid"
)

// ExportEventPublisher publishes export-requested events to the message
// broker. The RabbitMQ client satisfies this interface.
type ExportEventPublisher interface {
	PublishUserExportRequested(event map[string]interface{}) error
}

// exportEvent is the wire form of an export request on the queue.
type exportEvent struct {
	JobID  string `json:"job_id"`
	UserID string `json:"user_id"`
}

// ExportService runs asynchronous user exports. Jobs are tracked in a
// process-local registry; the work itself travels through RabbitMQ so a
// consumer can pick it up.
type ExportService struct {
	userRepo  repositories.UserRepository
	publisher ExportEventPublisher

	mu   sync.RWMutex
	jobs map[string]*models.ExportJob
}

// NewExportService creates a new ExportService. The publisher may be nil,
// in which case exports are processed synchronously.
func NewExportService(userRepo repositories.UserRepository, publisher ExportEventPublisher) *ExportService {
	return &ExportService{
		userRepo:  userRepo,
		publisher: publisher,
		jobs:      make(map[string]*models.ExportJob),
	}
}

// StartExport records a pending export job for an existing user and hands it
// to the queue. The job is returned in its pending state; completion is
// observed via GetJob.
func (s *ExportService) StartExport(userID string) (*models.ExportJob, error) {
	if _, err := s.userRepo.GetByID(userID); err != nil {
		return nil, err
	}

	job := &models.ExportJob{
		ID:     uuid.New().String(),
		UserID: userID,
		Status: models.JobStatusPending,
	}
	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()

	if s.publisher == nil {
		// No broker wired (tests, local runs): process inline.
		log.Println("Export publisher is not initialized. Processing export synchronously.")
		s.runExport(job.ID, userID)
		return s.snapshot(job.ID), nil
	}

	event := map[string]interface{}{
		"job_id":  job.ID,
		"user_id": userID,
	}
	if err := s.publisher.PublishUserExportRequested(event); err != nil {
		s.setStatus(job.ID, models.JobStatusFailed, nil)
		return nil, fmt.Errorf("failed to publish export event for job %s: %w", job.ID, err)
	}

	return s.snapshot(job.ID), nil
}

// HandleExportMessage processes one export event from the queue. It is meant
// to be wired as the RabbitMQ consumer handler.
func (s *ExportService) HandleExportMessage(body []byte) error {
	var event exportEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("failed to unmarshal export event: %w", err)
	}

	s.mu.RLock()
	_, ok := s.jobs[event.JobID]
	s.mu.RUnlock()
	if !ok {
		// A job started by another instance; nothing to track here.
		log.Printf("Ignoring export event for unknown job %s", event.JobID)
		return nil
	}

	s.runExport(event.JobID, event.UserID)
	return nil
}

// GetJob returns a copy of a job's current state.
func (s *ExportService) GetJob(id string) (*models.ExportJob, error) {
	job := s.snapshot(id)
	if job == nil {
		return nil, fmt.Errorf("job with ID %s not found", id)
	}
	return job, nil
}

// runExport performs the export work and records the result.
func (s *ExportService) runExport(jobID, userID string) {
	s.setStatus(jobID, models.JobStatusRunning, nil)
	result := map[string]interface{}{
		"user_export_url": fmt.Sprintf("/users/%s", userID),
	}
	s.setStatus(jobID, models.JobStatusCompleted, result)
}

func (s *ExportService) setStatus(jobID, status string, result map[string]interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[jobID]; ok {
		job.Status = status
		if result != nil {
			job.Result = result
		}
	}
}

func (s *ExportService) snapshot(jobID string) *models.ExportJob {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return nil
	}
	copied := *job
	return &copied
}
