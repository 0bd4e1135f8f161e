package models

import (
	"strings"
	"time"
)

// TaskType represents the kind of follow-up activity
type TaskType string

const (
	TaskTypeCall    TaskType = "Call"
	TaskTypeEmail   TaskType = "Email"
	TaskTypeMeeting TaskType = "Meeting"
	TaskTypeChat    TaskType = "Chat"
	TaskTypeVisit   TaskType = "Visit"
	TaskTypeOther   TaskType = "Other"
)

// TaskTypes returns the task type vocabulary
func TaskTypes() []TaskType {
	return []TaskType{TaskTypeCall, TaskTypeEmail, TaskTypeMeeting, TaskTypeChat, TaskTypeVisit, TaskTypeOther}
}

// IsValid checks membership in the task type vocabulary
func (t TaskType) IsValid() bool {
	switch t {
	case TaskTypeCall, TaskTypeEmail, TaskTypeMeeting, TaskTypeChat, TaskTypeVisit, TaskTypeOther:
		return true
	}
	return false
}

// TaskStatus represents the completion state of a task
type TaskStatus string

const (
	TaskStatusPending TaskStatus = "Pending"
	TaskStatusDone    TaskStatus = "Done"
)

// IsValid checks membership in the status vocabulary
func (s TaskStatus) IsValid() bool {
	return s == TaskStatusPending || s == TaskStatusDone
}

// TaskPriority represents how urgent a task is
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "Low"
	TaskPriorityMedium TaskPriority = "Medium"
	TaskPriorityHigh   TaskPriority = "High"
)

// IsValid checks membership in the priority vocabulary
func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// Task represents a scheduled follow-up activity for a customer
type Task struct {
	ID uint `json:"id" gorm:"primaryKey;autoIncrement"`

	CustomerID uint      `json:"customerId" gorm:"not null;index"`
	Customer   *Customer `json:"-" gorm:"constraint:OnDelete:CASCADE"`

	Description string       `json:"description" gorm:"type:varchar(500);not null"`
	Type        TaskType     `json:"type" gorm:"type:varchar(20);default:'Other';index"`
	ScheduledAt time.Time    `json:"scheduledAt" gorm:"not null;index"`
	Status      TaskStatus   `json:"status" gorm:"type:varchar(20);default:'Pending';index"`
	Priority    TaskPriority `json:"priority" gorm:"type:varchar(20);default:'Medium';index"`
	Notes       string       `json:"notes" gorm:"type:text"`

	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt"` // set only on completion
}

// TableName specifies the table name
func (Task) TableName() string {
	return "tasks"
}

// ApplyDefaults normalizes a task before persistence, supplying the enum
// defaults for every unset optional field.
func (t *Task) ApplyDefaults() {
	t.Description = strings.TrimSpace(t.Description)
	if t.Type == "" {
		t.Type = TaskTypeOther
	}
	if t.Status == "" {
		t.Status = TaskStatusPending
	}
	if t.Priority == "" {
		t.Priority = TaskPriorityMedium
	}
}

// IsDone reports whether the task has been completed
func (t *Task) IsDone() bool {
	return t.Status == TaskStatusDone
}

// TaskCounts is the done-vs-pending breakdown used by the dashboard
type TaskCounts struct {
	Done    int64 `json:"done"`
	Pending int64 `json:"pending"`
	Total   int64 `json:"total"`
}
