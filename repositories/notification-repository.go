package repositories

import (
	"context"
	"time"

	"trello-project/microservices/planner-service/apperrors"
	"trello-project/microservices/planner-service/logging"
	"trello-project/microservices/planner-service/models"

	"github.com/gocql/gocql"
)

const notificationsKeyspace = "notifications"

type NotificationRepo struct {
	session *gocql.Session
}

// NewNotificationRepo connects to Cassandra and creates the keyspace if it does not exist.
func NewNotificationRepo(hosts []string) (*NotificationRepo, error) {
	cluster := gocql.NewCluster(hosts...)
	cluster.Keyspace = "system"
	session, err := cluster.CreateSession()
	if err != nil {
		return nil, apperrors.Internal(err, "failed to connect to cassandra")
	}

	err = session.Query(
		`CREATE KEYSPACE IF NOT EXISTS ` + notificationsKeyspace + `
		 WITH replication = {
			 'class': 'SimpleStrategy',
			 'replication_factor': 1
		 }`).Exec()
	session.Close()
	if err != nil {
		return nil, apperrors.Internal(err, "failed to create keyspace")
	}

	cluster.Keyspace = notificationsKeyspace
	cluster.Consistency = gocql.One
	session, err = cluster.CreateSession()
	if err != nil {
		return nil, apperrors.Internal(err, "failed to connect to %s keyspace", notificationsKeyspace)
	}

	logging.Logger.Infof("Event ID: CASSANDRA_CONNECTED, Description: Connected to Cassandra %s keyspace", notificationsKeyspace)
	return &NotificationRepo{session: session}, nil
}

func (nr *NotificationRepo) CloseSession() {
	nr.session.Close()
	logging.Logger.Info("Event ID: CASSANDRA_CLOSED, Description: Cassandra session closed")
}

// CreateTable partitions notifications by user, newest first.
func (nr *NotificationRepo) CreateTable() error {
	err := nr.session.Query(
		`CREATE TABLE IF NOT EXISTS notifications (
			id UUID,
			user_id TEXT,
			message TEXT,
			created_at TIMESTAMP,
			is_read BOOLEAN,
			PRIMARY KEY ((user_id), created_at, id)
		) WITH CLUSTERING ORDER BY (created_at DESC, id ASC)`).Exec()
	if err != nil {
		return apperrors.Internal(err, "failed to create notifications table")
	}
	return nil
}

func (nr *NotificationRepo) Create(ctx context.Context, notification *models.Notification) error {
	if notification.ID == "" {
		notification.ID = gocql.TimeUUID().String()
	}
	id, err := gocql.ParseUUID(notification.ID)
	if err != nil {
		return apperrors.InvalidArgument("invalid notification ID %q", notification.ID)
	}

	err = nr.session.Query(
		`INSERT INTO notifications (id, user_id, message, created_at, is_read)
		 VALUES (?, ?, ?, ?, ?)`,
		id, notification.UserID, notification.Message, notification.CreatedAt, notification.IsRead,
	).WithContext(ctx).Exec()
	if err != nil {
		return apperrors.Internal(err, "failed to create notification")
	}
	return nil
}

func (nr *NotificationRepo) ListByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	iter := nr.session.Query(
		`SELECT id, user_id, message, created_at, is_read
		 FROM notifications WHERE user_id = ?`, userID,
	).WithContext(ctx).Iter()

	notifications := []models.Notification{}
	var (
		id           gocql.UUID
		notification models.Notification
	)
	for iter.Scan(&id, &notification.UserID, &notification.Message, &notification.CreatedAt, &notification.IsRead) {
		notification.ID = id.String()
		notifications = append(notifications, notification)
	}
	if err := iter.Close(); err != nil {
		return nil, apperrors.Internal(err, "failed to list notifications of user %s", userID)
	}
	return notifications, nil
}

func (nr *NotificationRepo) MarkRead(ctx context.Context, userID, notificationID string, createdAt time.Time) error {
	id, err := gocql.ParseUUID(notificationID)
	if err != nil {
		return apperrors.InvalidArgument("invalid notification ID %q", notificationID)
	}

	err = nr.session.Query(
		`UPDATE notifications SET is_read = true WHERE user_id = ? AND created_at = ? AND id = ?`,
		userID, createdAt, id,
	).WithContext(ctx).Exec()
	if err != nil {
		return apperrors.Internal(err, "failed to mark notification %s as read", notificationID)
	}
	return nil
}
