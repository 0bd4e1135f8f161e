package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tesseract-hub/crm-service/internal/models"
)

var taskTestNow = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

func newTaskService(repo *MockTaskRepository, interactions *MockInteractionRepository) *TaskService {
	svc := NewTaskService(repo, newTestAudit(interactions), testLogger())
	svc.now = func() time.Time { return taskTestNow }
	return svc
}

func TestTaskCreate_AppliesDefaults(t *testing.T) {
	repo := new(MockTaskRepository)
	interactions := new(MockInteractionRepository)
	svc := newTaskService(repo, interactions)

	task := &models.Task{
		CustomerID:  1,
		Description: "Follow up on proposal",
		ScheduledAt: taskTestNow.Add(24 * time.Hour),
	}
	repo.On("Create", mock.Anything, task).Return(nil)
	interactions.On("Append", mock.Anything, mock.MatchedBy(func(e *models.InteractionLog) bool {
		return e.Kind == models.KindTaskCreated && e.CustomerID == 1
	})).Return(nil)

	_, err := svc.Create(context.Background(), task)
	require.NoError(t, err)
	assert.Equal(t, models.TaskTypeOther, task.Type)
	assert.Equal(t, models.TaskStatusPending, task.Status)
	assert.Equal(t, models.TaskPriorityMedium, task.Priority)
}

func TestTaskCreate_Validation(t *testing.T) {
	repo := new(MockTaskRepository)
	interactions := new(MockInteractionRepository)
	svc := newTaskService(repo, interactions)

	cases := []struct {
		name  string
		task  models.Task
		field string
	}{
		{"missing description", models.Task{CustomerID: 1, ScheduledAt: taskTestNow}, "description"},
		{"missing customer", models.Task{Description: "Call", ScheduledAt: taskTestNow}, "customerId"},
		{"unknown type", models.Task{CustomerID: 1, Description: "Call", ScheduledAt: taskTestNow, Type: "Fax"}, "type"},
		{"unknown priority", models.Task{CustomerID: 1, Description: "Call", ScheduledAt: taskTestNow, Priority: "Urgent"}, "priority"},
		{"missing schedule", models.Task{CustomerID: 1, Description: "Call"}, "scheduledAt"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			task := tc.task
			_, err := svc.Create(context.Background(), &task)
			verr, ok := IsValidationError(err)
			require.True(t, ok)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTaskUpdate_LeavesNoTrail(t *testing.T) {
	repo := new(MockTaskRepository)
	interactions := new(MockInteractionRepository)
	svc := newTaskService(repo, interactions)

	task := &models.Task{ID: 4, CustomerID: 1, Description: "Reschedule meeting"}
	repo.On("Update", mock.Anything, task).Return(nil)

	ok, err := svc.Update(context.Background(), task)
	require.NoError(t, err)
	assert.True(t, ok)
	interactions.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestTaskMarkDone(t *testing.T) {
	repo := new(MockTaskRepository)
	interactions := new(MockInteractionRepository)
	svc := newTaskService(repo, interactions)

	repo.On("GetByID", mock.Anything, uint(4)).Return(&models.Task{
		ID: 4, CustomerID: 1, Description: "Send contract", Type: models.TaskTypeEmail,
	}, nil)
	repo.On("MarkDone", mock.Anything, uint(4), taskTestNow).Return(nil)
	interactions.On("Append", mock.Anything, mock.MatchedBy(func(e *models.InteractionLog) bool {
		return e.Kind == models.KindTaskCompleted && e.CustomerID == 1
	})).Return(nil)

	done, err := svc.MarkDone(context.Background(), 4)
	require.NoError(t, err)
	assert.True(t, done)
	repo.AssertExpectations(t)
	interactions.AssertExpectations(t)
}

func TestTaskMarkDone_Missing(t *testing.T) {
	repo := new(MockTaskRepository)
	interactions := new(MockInteractionRepository)
	svc := newTaskService(repo, interactions)

	repo.On("GetByID", mock.Anything, uint(404)).Return(nil, nil)

	done, err := svc.MarkDone(context.Background(), 404)
	require.NoError(t, err)
	assert.False(t, done)
	repo.AssertNotCalled(t, "MarkDone", mock.Anything, mock.Anything, mock.Anything)
}

func TestTaskMarkDone_RepeatCompletionRelogs(t *testing.T) {
	repo := new(MockTaskRepository)
	interactions := new(MockInteractionRepository)
	svc := newTaskService(repo, interactions)

	// Completing an already-done task stamps a fresh time and appends
	// another log entry.
	completedAt := taskTestNow.Add(-time.Hour)
	repo.On("GetByID", mock.Anything, uint(4)).Return(&models.Task{
		ID: 4, CustomerID: 1, Description: "Send contract",
		Status: models.TaskStatusDone, CompletedAt: &completedAt,
	}, nil)
	repo.On("MarkDone", mock.Anything, uint(4), taskTestNow).Return(nil)
	interactions.On("Append", mock.Anything, mock.Anything).Return(nil)

	done, err := svc.MarkDone(context.Background(), 4)
	require.NoError(t, err)
	assert.True(t, done)
	interactions.AssertNumberOfCalls(t, "Append", 1)
}

func TestTaskByStatus_RejectsUnknownStatus(t *testing.T) {
	repo := new(MockTaskRepository)
	interactions := new(MockInteractionRepository)
	svc := newTaskService(repo, interactions)

	_, err := svc.ByStatus(context.Background(), "Archived")
	verr, ok := IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "status", verr.Field)
}

func TestTaskDelete_LeavesNoTrail(t *testing.T) {
	repo := new(MockTaskRepository)
	interactions := new(MockInteractionRepository)
	svc := newTaskService(repo, interactions)

	repo.On("Delete", mock.Anything, uint(4)).Return(true, nil)

	deleted, err := svc.Delete(context.Background(), 4)
	require.NoError(t, err)
	assert.True(t, deleted)
	interactions.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestTaskPendingTodayAndOverdue(t *testing.T) {
	repo := new(MockTaskRepository)
	interactions := new(MockInteractionRepository)
	svc := newTaskService(repo, interactions)

	repo.On("PendingToday", mock.Anything, taskTestNow).Return([]models.Task{{ID: 1}}, nil)
	repo.On("Overdue", mock.Anything, taskTestNow).Return([]models.Task{{ID: 2}, {ID: 3}}, nil)

	today, err := svc.PendingToday(context.Background())
	require.NoError(t, err)
	assert.Len(t, today, 1)

	overdue, err := svc.Overdue(context.Background())
	require.NoError(t, err)
	assert.Len(t, overdue, 2)
}
