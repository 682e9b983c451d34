package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in-progress"
	StatusReview     TaskStatus = "review"
	StatusCompleted  TaskStatus = "completed"
)

var TaskStatuses = []TaskStatus{StatusTodo, StatusInProgress, StatusReview, StatusCompleted}

func (s TaskStatus) Valid() bool {
	for _, status := range TaskStatuses {
		if status == s {
			return true
		}
	}
	return false
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

var TaskPriorities = []TaskPriority{PriorityLow, PriorityMedium, PriorityHigh}

func (p TaskPriority) Valid() bool {
	for _, priority := range TaskPriorities {
		if priority == p {
			return true
		}
	}
	return false
}

type Task struct {
	ID          primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Title       string              `json:"title" bson:"title"`
	Description string              `json:"description" bson:"description"`
	Status      TaskStatus          `json:"status" bson:"status"`
	Priority    TaskPriority        `json:"priority" bson:"priority"`
	DueDate     *time.Time          `json:"dueDate,omitempty" bson:"due_date,omitempty"`
	Project     primitive.ObjectID  `json:"project" bson:"project"`
	AssignedTo  *primitive.ObjectID `json:"assignedTo,omitempty" bson:"assigned_to,omitempty"`
	CreatedBy   primitive.ObjectID  `json:"createdBy" bson:"created_by"`
	CreatedAt   time.Time           `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time           `json:"updatedAt" bson:"updated_at"`
}

// TaskUpdate carries the mutable task fields; nil means unchanged.
type TaskUpdate struct {
	Title       *string             `json:"title,omitempty"`
	Description *string             `json:"description,omitempty"`
	Status      *TaskStatus         `json:"status,omitempty"`
	Priority    *TaskPriority       `json:"priority,omitempty"`
	DueDate     *time.Time          `json:"dueDate,omitempty"`
	AssignedTo  *primitive.ObjectID `json:"assignedTo,omitempty"`
}
