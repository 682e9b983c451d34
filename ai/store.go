package ai

import (
	"context"

	"trello-project/microservices/planner-service/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProjectReader interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error)
}

type TaskReader interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error)
	FindByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Task, error)
}

type UserReader interface {
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
}

// BlockedCounter reports how many tasks of a project are blocked by unfinished dependencies.
type BlockedCounter interface {
	CountBlocked(ctx context.Context, projectID string) (int, error)
}

// Store bundles the lookups the AI services need. Graph is optional.
type Store struct {
	Projects ProjectReader
	Tasks    TaskReader
	Users    UserReader
	Graph    BlockedCounter
}
