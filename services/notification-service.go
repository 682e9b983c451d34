package services

import (
	"context"
	"strings"
	"time"

	"trello-project/microservices/planner-service/apperrors"
	"trello-project/microservices/planner-service/logging"
	"trello-project/microservices/planner-service/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationService struct {
	repo NotificationStore
	now  func() time.Time
}

func NewNotificationService(repo NotificationStore) *NotificationService {
	return &NotificationService{repo: repo, now: time.Now}
}

func (ns *NotificationService) Create(ctx context.Context, userID, message string) (*models.Notification, error) {
	if userID == "" || strings.TrimSpace(message) == "" {
		return nil, apperrors.InvalidArgument("userId and message are required")
	}
	notification := &models.Notification{
		UserID:    userID,
		Message:   message,
		CreatedAt: ns.now().UTC().Truncate(time.Millisecond),
	}
	if err := ns.repo.Create(ctx, notification); err != nil {
		return nil, err
	}
	return notification, nil
}

// Notify implements Notifier; failures are logged and swallowed.
func (ns *NotificationService) Notify(ctx context.Context, userID primitive.ObjectID, message string) {
	if _, err := ns.Create(ctx, userID.Hex(), message); err != nil {
		logging.Logger.Warnf("Event ID: NOTIFICATION_FAILED, Description: Failed to notify user %s: %v", userID.Hex(), err)
	}
}

func (ns *NotificationService) List(ctx context.Context, caller Caller) ([]models.Notification, error) {
	return ns.repo.ListByUser(ctx, caller.ID.Hex())
}

func (ns *NotificationService) MarkRead(ctx context.Context, caller Caller, notificationID string, createdAt time.Time) error {
	if notificationID == "" || createdAt.IsZero() {
		return apperrors.InvalidArgument("id and createdAt are required")
	}
	return ns.repo.MarkRead(ctx, caller.ID.Hex(), notificationID, createdAt)
}
