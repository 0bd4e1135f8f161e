package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/tesseract-hub/crm-service/internal/models"
	"github.com/tesseract-hub/crm-service/internal/services"
)

// TaskHandler handles HTTP requests for follow-up tasks
type TaskHandler struct {
	tasks  *services.TaskService
	logger *logrus.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(tasks *services.TaskService, logger *logrus.Logger) *TaskHandler {
	return &TaskHandler{
		tasks:  tasks,
		logger: logger,
	}
}

// Create creates a new task
// POST /api/v1/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	var task models.Task
	if err := c.ShouldBindJSON(&task); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	id, err := h.tasks.Create(c.Request.Context(), &task)
	if err != nil {
		respondServiceError(c, err, "Failed to create task")
		return
	}

	task.ID = id
	c.JSON(http.StatusCreated, task)
}

// Update updates an existing task
// PUT /api/v1/tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var task models.Task
	if err := c.ShouldBindJSON(&task); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	task.ID = id

	if _, err := h.tasks.Update(c.Request.Context(), &task); err != nil {
		respondServiceError(c, err, "Failed to update task")
		return
	}

	c.JSON(http.StatusOK, task)
}

// Complete marks a task as done
// POST /api/v1/tasks/:id/complete
func (h *TaskHandler) Complete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	done, err := h.tasks.MarkDone(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Failed to complete task")
		return
	}
	if !done {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task completed successfully"})
}

// Get retrieves a single task
// GET /api/v1/tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	task, err := h.tasks.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Failed to get task")
		return
	}
	if task == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	c.JSON(http.StatusOK, task)
}

// List lists tasks, optionally filtered by status or customer
// GET /api/v1/tasks?status=&customer_id=
func (h *TaskHandler) List(c *gin.Context) {
	var (
		tasks []models.Task
		err   error
	)

	switch {
	case c.Query("status") != "":
		tasks, err = h.tasks.ByStatus(c.Request.Context(), models.TaskStatus(c.Query("status")))
	case c.Query("customer_id") != "":
		var customerID uint
		var ok bool
		if customerID, ok = parseQueryID(c, "customer_id"); !ok {
			return
		}
		tasks, err = h.tasks.ByCustomer(c.Request.Context(), customerID)
	default:
		tasks, err = h.tasks.List(c.Request.Context())
	}
	if err != nil {
		respondServiceError(c, err, "Failed to list tasks")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  tasks,
		"count": len(tasks),
	})
}

// ByCustomer lists a customer's tasks
// GET /api/v1/customers/:id/tasks
func (h *TaskHandler) ByCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	tasks, err := h.tasks.ByCustomer(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Failed to list tasks by customer")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  tasks,
		"count": len(tasks),
	})
}

// PendingToday lists the pending tasks scheduled for the current day
// GET /api/v1/tasks/pending-today
func (h *TaskHandler) PendingToday(c *gin.Context) {
	tasks, err := h.tasks.PendingToday(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to list today's pending tasks")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  tasks,
		"count": len(tasks),
	})
}

// Overdue lists pending tasks whose scheduled time has passed
// GET /api/v1/tasks/overdue
func (h *TaskHandler) Overdue(c *gin.Context) {
	tasks, err := h.tasks.Overdue(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to list overdue tasks")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  tasks,
		"count": len(tasks),
	})
}

// Delete removes a task
// DELETE /api/v1/tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	deleted, err := h.tasks.Delete(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Failed to delete task")
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}
