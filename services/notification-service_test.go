package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"trello-project/microservices/planner-service/apperrors"
	"trello-project/microservices/planner-service/memstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNotificationService_NotifyAndList(t *testing.T) {
	svc := NewNotificationService(&memstore.Notifications{})
	user := primitive.NewObjectID()
	tick := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { tick = tick.Add(time.Minute); return tick }

	svc.Notify(context.Background(), user, "first")
	svc.Notify(context.Background(), primitive.NewObjectID(), "someone else")
	svc.Notify(context.Background(), user, "second")

	list, err := svc.List(context.Background(), Caller{ID: user})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Message)
	assert.False(t, list[0].IsRead)
}

func TestNotificationService_NotifySwallowsFailures(t *testing.T) {
	svc := NewNotificationService(&memstore.Notifications{Err: errors.New("cassandra down")})

	assert.NotPanics(t, func() {
		svc.Notify(context.Background(), primitive.NewObjectID(), "hello")
	})
}

func TestNotificationService_MarkRead(t *testing.T) {
	svc := NewNotificationService(&memstore.Notifications{})
	caller := Caller{ID: primitive.NewObjectID()}
	ctx := context.Background()

	created, err := svc.Create(ctx, caller.ID.Hex(), "hello")
	require.NoError(t, err)

	require.NoError(t, svc.MarkRead(ctx, caller, created.ID, created.CreatedAt))
	list, err := svc.List(ctx, caller)
	require.NoError(t, err)
	assert.True(t, list[0].IsRead)

	err = svc.MarkRead(ctx, caller, "", created.CreatedAt)
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)

	_, err = svc.Create(ctx, caller.ID.Hex(), "  ")
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}
