package repositories

import (
	"context"
	"testing"

	"trello-project/microservices/planner-service/apperrors"
	"trello-project/microservices/planner-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func taskDoc(id, project primitive.ObjectID, title string, status models.TaskStatus, assignee *primitive.ObjectID) bson.D {
	doc := bson.D{
		{Key: "_id", Value: id},
		{Key: "title", Value: title},
		{Key: "status", Value: string(status)},
		{Key: "priority", Value: "high"},
		{Key: "project", Value: project},
	}
	if assignee != nil {
		doc = append(doc, bson.E{Key: "assigned_to", Value: *assignee})
	}
	return doc
}

func TestTaskRepository_FindByID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("found", func(mt *mtest.T) {
		id, project, assignee := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(1, "planner.tasks", mtest.FirstBatch, taskDoc(id, project, "Write API", models.StatusInProgress, &assignee)))

		task, err := NewTaskRepository(mt.Coll).FindByID(context.Background(), id)
		require.NoError(mt, err)
		assert.Equal(mt, "Write API", task.Title)
		assert.Equal(mt, models.PriorityHigh, task.Priority)
		require.NotNil(mt, task.AssignedTo)
		assert.Equal(mt, assignee, *task.AssignedTo)
	})

	mt.Run("not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "planner.tasks", mtest.FirstBatch))

		_, err := NewTaskRepository(mt.Coll).FindByID(context.Background(), primitive.NewObjectID())
		assert.ErrorIs(mt, err, apperrors.ErrNotFound)
	})
}

func TestTaskRepository_FindByProject(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("decodes every task", func(mt *mtest.T) {
		project := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "planner.tasks", mtest.FirstBatch,
			taskDoc(primitive.NewObjectID(), project, "A", models.StatusTodo, nil),
			taskDoc(primitive.NewObjectID(), project, "B", models.StatusCompleted, nil),
		))

		tasks, err := NewTaskRepository(mt.Coll).FindByProject(context.Background(), project)
		require.NoError(mt, err)
		require.Len(mt, tasks, 2)
		assert.Equal(mt, models.StatusCompleted, tasks[1].Status)
		assert.Nil(mt, tasks[0].AssignedTo)
	})

	mt.Run("storage failure", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Message: "boom"}))

		_, err := NewTaskRepository(mt.Coll).FindByProject(context.Background(), primitive.NewObjectID())
		assert.ErrorIs(mt, err, apperrors.ErrInternal)
	})
}

func TestTaskRepository_CountByAssignee(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("counts", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "planner.tasks", mtest.FirstBatch, bson.D{{Key: "n", Value: int32(3)}}))

		n, err := NewTaskRepository(mt.Coll).CountByAssignee(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), models.StatusInProgress)
		require.NoError(mt, err)
		assert.EqualValues(mt, 3, n)
	})
}

func TestTaskRepository_Writes(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("insert", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		task := &models.Task{Title: "T"}
		require.NoError(mt, NewTaskRepository(mt.Coll).Insert(context.Background(), task))
		assert.False(mt, task.ID.IsZero())
	})

	mt.Run("update missing", func(mt *mtest.T) {
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 0}, {Key: "nModified", Value: 0}})

		err := NewTaskRepository(mt.Coll).Update(context.Background(), &models.Task{ID: primitive.NewObjectID()})
		assert.ErrorIs(mt, err, apperrors.ErrNotFound)
	})

	mt.Run("delete", func(mt *mtest.T) {
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 1}})

		assert.NoError(mt, NewTaskRepository(mt.Coll).Delete(context.Background(), primitive.NewObjectID()))
	})

	mt.Run("delete missing", func(mt *mtest.T) {
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 0}})

		err := NewTaskRepository(mt.Coll).Delete(context.Background(), primitive.NewObjectID())
		assert.ErrorIs(mt, err, apperrors.ErrNotFound)
	})
}
