package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DurationEstimate struct {
	TaskID                  primitive.ObjectID `json:"taskId"`
	TaskTitle               string             `json:"taskTitle"`
	PredictedDays           float64            `json:"predictedDays"`
	BestCase                float64            `json:"bestCase"`
	WorstCase               float64            `json:"worstCase"`
	EstimatedCompletionDate time.Time          `json:"estimatedCompletionDate"`
	Confidence              float64            `json:"confidence"`
	Method                  string             `json:"method"`
}

// SuggestedTask is an unsaved task draft produced by the suggester.
type SuggestedTask struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      TaskStatus          `json:"status"`
	Priority    TaskPriority        `json:"priority"`
	DueDate     time.Time           `json:"dueDate"`
	Project     primitive.ObjectID  `json:"project"`
	AssignedTo  *primitive.ObjectID `json:"assignedTo,omitempty"`
	CreatedBy   primitive.ObjectID  `json:"createdBy"`
	Category    string              `json:"category"`
	Confidence  string              `json:"confidence"`
	Method      string              `json:"method"`
}
