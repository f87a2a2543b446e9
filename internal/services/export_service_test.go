package services_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"userservice/internal/models"
	"userservice/internal/repositories"
	"userservice/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capturingPublisher records export events instead of talking to a broker.
type capturingPublisher struct {
	events  []map[string]interface{}
	failing bool
}

func (p *capturingPublisher) PublishUserExportRequested(event map[string]interface{}) error {
	if p.failing {
		return fmt.Errorf("broker unavailable")
	}
	p.events = append(p.events, event)
	return nil
}

func setupExportService(t *testing.T, publisher services.ExportEventPublisher) (*services.ExportService, *models.User) {
	t.Helper()
	userRepo := repositories.NewMockUserRepository()
	user := &models.User{Email: "alice@example.com", Username: "alice_shop", Password: "stored-hash"}
	require.NoError(t, userRepo.Create(user))
	return services.NewExportService(userRepo, publisher), user
}

func TestExportService_StartExport_PublishesEvent(t *testing.T) {
	publisher := &capturingPublisher{}
	exportService, user := setupExportService(t, publisher)

	job, err := exportService.StartExport(user.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.JobStatusPending, job.Status)
	require.Len(t, publisher.events, 1)
	assert.Equal(t, job.ID, publisher.events[0]["job_id"])
	assert.Equal(t, user.ID, publisher.events[0]["user_id"])
}

func TestExportService_HandleExportMessage_CompletesJob(t *testing.T) {
	publisher := &capturingPublisher{}
	exportService, user := setupExportService(t, publisher)

	job, err := exportService.StartExport(user.ID)
	require.NoError(t, err)

	body, err := json.Marshal(publisher.events[0])
	require.NoError(t, err)
	assert.NoError(t, exportService.HandleExportMessage(body))

	done, err := exportService.GetJob(job.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.JobStatusCompleted, done.Status)
	assert.Equal(t, fmt.Sprintf("/users/%s", user.ID), done.Result["user_export_url"])
}

func TestExportService_StartExport_NilPublisherRunsInline(t *testing.T) {
	exportService, user := setupExportService(t, nil)

	job, err := exportService.StartExport(user.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.JobStatusCompleted, job.Status)
	assert.NotNil(t, job.Result)
}

func TestExportService_StartExport_UnknownUser(t *testing.T) {
	exportService, _ := setupExportService(t, &capturingPublisher{})

	_, err := exportService.StartExport("c6a0f6b1-63c0-48c5-8a0f-8a4c1d74b2a4")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestExportService_StartExport_PublishFailure(t *testing.T) {
	exportService, user := setupExportService(t, &capturingPublisher{failing: true})

	_, err := exportService.StartExport(user.ID)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to publish export event")
}

func TestExportService_HandleExportMessage_BadPayload(t *testing.T) {
	exportService, _ := setupExportService(t, &capturingPublisher{})

	assert.Error(t, exportService.HandleExportMessage([]byte("{not json")))
}

func TestExportService_HandleExportMessage_UnknownJobIgnored(t *testing.T) {
	exportService, user := setupExportService(t, &capturingPublisher{})

	body, err := json.Marshal(map[string]string{"job_id": "missing", "user_id": user.ID})
	require.NoError(t, err)
	assert.NoError(t, exportService.HandleExportMessage(body))
}

func TestExportService_GetJob_Unknown(t *testing.T) {
	exportService, _ := setupExportService(t, &capturingPublisher{})

	_, err := exportService.GetJob("missing")
	assert.Error(t, err)
}
