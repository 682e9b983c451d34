package services

import (
	"context"
	"time"

	"trello-project/microservices/planner-service/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProjectStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error)
	FindByMember(ctx context.Context, userID primitive.ObjectID) ([]models.Project, error)
	Insert(ctx context.Context, project *models.Project) error
	Update(ctx context.Context, project *models.Project) error
	AddMembers(ctx context.Context, projectID primitive.ObjectID, memberIDs []primitive.ObjectID) error
	RemoveMember(ctx context.Context, projectID, memberID primitive.ObjectID) error
}

type TaskStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error)
	FindByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Task, error)
	CountByAssignee(ctx context.Context, projectID, userID primitive.ObjectID, status models.TaskStatus) (int64, error)
	Insert(ctx context.Context, task *models.Task) error
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type UserStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Insert(ctx context.Context, user *models.User) error
}

type NotificationStore interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListByUser(ctx context.Context, userID string) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID string, createdAt time.Time) error
}

// Notifier delivers a message to a user. Delivery failures never fail the caller's operation.
type Notifier interface {
	Notify(ctx context.Context, userID primitive.ObjectID, message string)
}

// Caller is the authenticated user behind a request.
type Caller struct {
	ID   primitive.ObjectID
	Role models.Role
}

func (c Caller) IsAdmin() bool {
	return c.Role == models.RoleAdmin
}
