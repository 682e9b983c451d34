package repositories

import (
	"context"
	"errors"

	"trello-project/microservices/planner-service/apperrors"
	"trello-project/microservices/planner-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TaskRepository struct {
	collection *mongo.Collection
}

func NewTaskRepository(collection *mongo.Collection) *TaskRepository {
	return &TaskRepository{collection: collection}
}

func (r *TaskRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	var task models.Task
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&task)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NotFound("task %s not found", id.Hex())
	}
	if err != nil {
		return nil, apperrors.Internal(err, "failed to load task %s", id.Hex())
	}
	return &task, nil
}

// FindByProject returns the project's tasks in creation order. An empty
// project yields an empty, non-nil slice.
func (r *TaskRepository) FindByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"project": projectID}, opts)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to list tasks of project %s", projectID.Hex())
	}
	defer cursor.Close(ctx)

	tasks := []models.Task{}
	for cursor.Next(ctx) {
		var task models.Task
		if err := cursor.Decode(&task); err != nil {
			return nil, apperrors.Internal(err, "failed to decode task")
		}
		tasks = append(tasks, task)
	}
	if err := cursor.Err(); err != nil {
		return nil, apperrors.Internal(err, "cursor error")
	}
	return tasks, nil
}

// CountByAssignee counts a member's tasks of one status inside a project.
func (r *TaskRepository) CountByAssignee(ctx context.Context, projectID, userID primitive.ObjectID, status models.TaskStatus) (int64, error) {
	filter := bson.M{"project": projectID, "assigned_to": userID, "status": status}
	n, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, apperrors.Internal(err, "failed to count tasks")
	}
	return n, nil
}

func (r *TaskRepository) Insert(ctx context.Context, task *models.Task) error {
	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	if _, err := r.collection.InsertOne(ctx, task); err != nil {
		return apperrors.Internal(err, "failed to create task")
	}
	return nil
}

func (r *TaskRepository) Update(ctx context.Context, task *models.Task) error {
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": task.ID}, task)
	if err != nil {
		return apperrors.Internal(err, "failed to update task %s", task.ID.Hex())
	}
	if result.MatchedCount == 0 {
		return apperrors.NotFound("task %s not found", task.ID.Hex())
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperrors.Internal(err, "failed to delete task %s", id.Hex())
	}
	if result.DeletedCount == 0 {
		return apperrors.NotFound("task %s not found", id.Hex())
	}
	return nil
}
