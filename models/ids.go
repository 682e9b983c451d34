package models

import (
	"trello-project/microservices/planner-service/apperrors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ParseID converts a hex identifier, reporting InvalidArgument for malformed input.
func ParseID(kind, id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperrors.InvalidArgument("invalid %s ID format: %q", kind, id)
	}
	return oid, nil
}
