package services

import (
	"context"
	"testing"

	"trello-project/microservices/planner-service/apperrors"
	"trello-project/microservices/planner-service/memstore"
	"trello-project/microservices/planner-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTaskFixture() (*projectFixture, *TaskService, *memstore.Graph, *recordingNotifier) {
	f := newProjectFixture()
	graph := memstore.NewGraph()
	notifier := &recordingNotifier{}
	return f, NewTaskService(f.tasks, f.svc, graph, notifier), graph, notifier
}

func TestTaskService_CreateDefaults(t *testing.T) {
	f, svc, graph, notifier := newTaskFixture()

	task, err := svc.Create(context.Background(), caller(f.owner), TaskInput{
		Title:      "Design landing page",
		Project:    f.project.ID.Hex(),
		AssignedTo: f.member.ID.Hex(),
	})

	require.NoError(t, err)
	assert.Equal(t, models.StatusTodo, task.Status)
	assert.Equal(t, models.PriorityMedium, task.Priority)
	assert.Equal(t, f.owner.ID, task.CreatedBy)
	node, ok := graph.Node(task.ID.Hex())
	require.True(t, ok)
	assert.Equal(t, "todo", node.Status)
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, f.member.ID, notifier.sent[0].userID)
}

func TestTaskService_CreateRejects(t *testing.T) {
	f, svc, _, _ := newTaskFixture()
	ctx := context.Background()

	_, err := svc.Create(ctx, caller(f.owner), TaskInput{Title: "X", Project: primitive.NewObjectID().Hex()})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = svc.Create(ctx, caller(f.outsider), TaskInput{Title: "X", Project: f.project.ID.Hex()})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = svc.Create(ctx, caller(f.owner), TaskInput{Title: "X", Project: f.project.ID.Hex(), AssignedTo: f.outsider.ID.Hex()})
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)

	_, err = svc.Create(ctx, caller(f.owner), TaskInput{Title: "X", Project: f.project.ID.Hex(), Priority: "urgent"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)

	_, err = svc.Create(ctx, caller(f.owner), TaskInput{Title: " ", Project: f.project.ID.Hex()})
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}

func TestTaskService_CreateWithoutOptionalBackends(t *testing.T) {
	f := newProjectFixture()
	svc := NewTaskService(f.tasks, f.svc, nil, nil)

	task, err := svc.Create(context.Background(), caller(f.member), TaskInput{Title: "X", Project: f.project.ID.Hex(), AssignedTo: f.owner.ID.Hex()})
	require.NoError(t, err)
	assert.NotEmpty(t, task.ID)
}

func TestTaskService_StartBlockedTask(t *testing.T) {
	f, svc, graph, _ := newTaskFixture()
	ctx := context.Background()
	task, err := svc.Create(ctx, caller(f.owner), TaskInput{Title: "Deploy", Project: f.project.ID.Hex()})
	require.NoError(t, err)

	graph.SetBlocked(task.ID.Hex(), true)
	inProgress := models.StatusInProgress
	_, err = svc.Update(ctx, caller(f.owner), task.ID.Hex(), models.TaskUpdate{Status: &inProgress})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	graph.SetBlocked(task.ID.Hex(), false)
	updated, err := svc.Update(ctx, caller(f.owner), task.ID.Hex(), models.TaskUpdate{Status: &inProgress})
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, updated.Status)
	node, _ := graph.Node(task.ID.Hex())
	assert.Equal(t, "in-progress", node.Status)
}

func TestTaskService_ReassignNotifies(t *testing.T) {
	f, svc, _, notifier := newTaskFixture()
	ctx := context.Background()
	task, err := svc.Create(ctx, caller(f.owner), TaskInput{Title: "Write docs", Project: f.project.ID.Hex()})
	require.NoError(t, err)
	assert.Empty(t, notifier.sent)

	member := f.member.ID
	_, err = svc.Update(ctx, caller(f.owner), task.ID.Hex(), models.TaskUpdate{AssignedTo: &member})
	require.NoError(t, err)
	require.Len(t, notifier.sent, 1)
	assert.Contains(t, notifier.sent[0].message, "Write docs")

	outsider := f.outsider.ID
	_, err = svc.Update(ctx, caller(f.owner), task.ID.Hex(), models.TaskUpdate{AssignedTo: &outsider})
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}

func TestTaskService_Delete(t *testing.T) {
	f, svc, graph, _ := newTaskFixture()
	ctx := context.Background()
	task, err := svc.Create(ctx, caller(f.owner), TaskInput{Title: "Cleanup", Project: f.project.ID.Hex()})
	require.NoError(t, err)

	err = svc.Delete(ctx, caller(f.member), task.ID.Hex())
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	require.NoError(t, svc.Delete(ctx, caller(f.owner), task.ID.Hex()))
	_, ok := graph.Node(task.ID.Hex())
	assert.False(t, ok)

	_, err = svc.Get(ctx, caller(f.owner), task.ID.Hex())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
