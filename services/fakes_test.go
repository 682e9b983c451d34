package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type sentNotification struct {
	userID  primitive.ObjectID
	message string
}

type recordingNotifier struct {
	sent []sentNotification
}

func (n *recordingNotifier) Notify(_ context.Context, userID primitive.ObjectID, message string) {
	n.sent = append(n.sent, sentNotification{userID: userID, message: message})
}
