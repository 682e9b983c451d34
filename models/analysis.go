package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// MemberWorkload is one team member's share of the project's tasks.
type MemberWorkload struct {
	UserID        primitive.ObjectID `json:"userId"`
	Name          string             `json:"name"`
	AssignedTasks int                `json:"assignedTasks"`
	TasksByStatus map[TaskStatus]int `json:"tasksByStatus"`
}

type WorkflowMetrics struct {
	TasksByStatus   map[TaskStatus]int `json:"tasksByStatus"`
	TotalTasks      int                `json:"totalTasks"`
	ProjectProgress float64            `json:"projectProgress"`
	DaysRemaining   int                `json:"daysRemaining"`
	TeamWorkload    []MemberWorkload   `json:"teamWorkload"`
	HighPriority    int                `json:"highPriorityTasks"`
	HighInProgress  int                `json:"highPriorityInProgress"`
	HighTodo        int                `json:"highPriorityTodo"`
	BlockedTasks    int                `json:"blockedTasks"`
}

// Ratio returns the share of tasks in status, 0 for an empty project.
func (m WorkflowMetrics) Ratio(status TaskStatus) float64 {
	if m.TotalTasks == 0 {
		return 0
	}
	return float64(m.TasksByStatus[status]) / float64(m.TotalTasks)
}

type BottleneckDimension struct {
	Score       float64 `json:"score"`
	Level       Level   `json:"level"`
	Description string  `json:"description"`
}

type BottleneckAnalysis struct {
	ResourceBottleneck BottleneckDimension `json:"resourceBottleneck"`
	TaskDistribution   BottleneckDimension `json:"taskDistribution"`
	WorkflowEfficiency BottleneckDimension `json:"workflowEfficiency"`
	TaskDependency     BottleneckDimension `json:"taskDependency"`
	PriorityAlignment  BottleneckDimension `json:"priorityAlignment"`
}

// Dimensions lists the five dimensions in their fixed order.
func (b BottleneckAnalysis) Dimensions() []BottleneckDimension {
	return []BottleneckDimension{
		b.ResourceBottleneck,
		b.TaskDistribution,
		b.WorkflowEfficiency,
		b.TaskDependency,
		b.PriorityAlignment,
	}
}

type Recommendation struct {
	Type        string         `json:"type"`
	Priority    Level          `json:"priority"`
	Description string         `json:"description"`
	Details     map[string]any `json:"details,omitempty"`
	Action      string         `json:"action"`
}

type InsightType string

const (
	InsightRisk     InsightType = "risk"
	InsightPositive InsightType = "positive"
	InsightUrgent   InsightType = "urgent"
)

type Insight struct {
	Type        InsightType `json:"type"`
	Description string      `json:"description"`
}

type WorkflowAnalysis struct {
	ProjectID          primitive.ObjectID `json:"projectId"`
	ProjectName        string             `json:"projectName"`
	AnalysisDate       time.Time          `json:"analysisDate"`
	Method             string             `json:"method"`
	Metrics            WorkflowMetrics    `json:"metrics"`
	BottleneckAnalysis BottleneckAnalysis `json:"bottleneckAnalysis"`
	Recommendations    []Recommendation   `json:"recommendations"`
	Insights           []Insight          `json:"insights"`
}
