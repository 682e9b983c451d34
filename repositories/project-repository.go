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

type ProjectRepository struct {
	collection *mongo.Collection
}

func NewProjectRepository(collection *mongo.Collection) *ProjectRepository {
	return &ProjectRepository{collection: collection}
}

func (r *ProjectRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	var project models.Project
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&project)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NotFound("project %s not found", id.Hex())
	}
	if err != nil {
		return nil, apperrors.Internal(err, "failed to load project %s", id.Hex())
	}
	return &project, nil
}

// FindByMember lists the projects userID owns or belongs to, newest first.
func (r *ProjectRepository) FindByMember(ctx context.Context, userID primitive.ObjectID) ([]models.Project, error) {
	filter := bson.M{"$or": []bson.M{
		{"owner": userID},
		{"members": userID},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to list projects")
	}
	defer cursor.Close(ctx)

	projects := []models.Project{}
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, apperrors.Internal(err, "failed to decode projects")
	}
	return projects, nil
}

func (r *ProjectRepository) Insert(ctx context.Context, project *models.Project) error {
	if project.ID.IsZero() {
		project.ID = primitive.NewObjectID()
	}
	if project.Members == nil {
		project.Members = []primitive.ObjectID{}
	}
	if _, err := r.collection.InsertOne(ctx, project); err != nil {
		return apperrors.Internal(err, "failed to create project")
	}
	return nil
}

// Update replaces the mutable fields of a stored project.
func (r *ProjectRepository) Update(ctx context.Context, project *models.Project) error {
	update := bson.M{"$set": bson.M{
		"name":        project.Name,
		"description": project.Description,
		"start_date":  project.StartDate,
		"end_date":    project.EndDate,
		"status":      project.Status,
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": project.ID}, update)
	if err != nil {
		return apperrors.Internal(err, "failed to update project %s", project.ID.Hex())
	}
	if result.MatchedCount == 0 {
		return apperrors.NotFound("project %s not found", project.ID.Hex())
	}
	return nil
}

func (r *ProjectRepository) AddMembers(ctx context.Context, projectID primitive.ObjectID, memberIDs []primitive.ObjectID) error {
	update := bson.M{"$addToSet": bson.M{"members": bson.M{"$each": memberIDs}}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": projectID}, update)
	if err != nil {
		return apperrors.Internal(err, "failed to add members to project %s", projectID.Hex())
	}
	if result.MatchedCount == 0 {
		return apperrors.NotFound("project %s not found", projectID.Hex())
	}
	return nil
}

func (r *ProjectRepository) RemoveMember(ctx context.Context, projectID, memberID primitive.ObjectID) error {
	update := bson.M{"$pull": bson.M{"members": memberID}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": projectID}, update)
	if err != nil {
		return apperrors.Internal(err, "failed to remove member from project %s", projectID.Hex())
	}
	if result.MatchedCount == 0 {
		return apperrors.NotFound("project %s not found", projectID.Hex())
	}
	return nil
}
