package interfaces

import (
	"context"

	"trello-project/microservices/planner-service/models"
)

type Query interface {
	Execute(ctx context.Context) (interface{}, error)
}

// DependencyCommandContext is the write side of the task dependency graph.
type DependencyCommandContext interface {
	AddDependency(ctx context.Context, dependency models.TaskDependencyRelation) error
	UpdateBlockedStatus(ctx context.Context, taskID string) error
	RemoveDependency(ctx context.Context, fromTaskID, toTaskID string) error
}

type DependencyQueryContext interface {
	GetDependencies(ctx context.Context, taskID string) ([]models.TaskNode, error)
	ProjectDependencies(ctx context.Context, projectID string) ([]models.TaskDependencyRelation, error)
}

// DependencyGraph is everything the rest of the service needs from the graph.
type DependencyGraph interface {
	DependencyCommandContext
	DependencyQueryContext
	EnsureTaskNode(ctx context.Context, task models.TaskNode) error
	SyncTaskStatus(ctx context.Context, taskID, status string) error
	DeleteTaskNode(ctx context.Context, taskID string) error
	IsBlocked(ctx context.Context, taskID string) (bool, error)
	CountBlocked(ctx context.Context, projectID string) (int, error)
}
