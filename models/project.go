package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProjectStatus string

const (
	ProjectPlanning   ProjectStatus = "planning"
	ProjectInProgress ProjectStatus = "in-progress"
	ProjectCompleted  ProjectStatus = "completed"
	ProjectOnHold     ProjectStatus = "on-hold"
)

// ProjectStatuses is the ordered status set; the index feeds model features.
var ProjectStatuses = []ProjectStatus{ProjectPlanning, ProjectInProgress, ProjectCompleted, ProjectOnHold}

func (s ProjectStatus) Valid() bool {
	return s.Index() >= 0
}

func (s ProjectStatus) Index() int {
	for i, status := range ProjectStatuses {
		if status == s {
			return i
		}
	}
	return -1
}

type Project struct {
	ID          primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Name        string               `json:"name" bson:"name"`
	Description string               `json:"description" bson:"description"`
	StartDate   time.Time            `json:"startDate" bson:"start_date"`
	EndDate     time.Time            `json:"endDate" bson:"end_date"`
	Status      ProjectStatus        `json:"status" bson:"status"`
	Owner       primitive.ObjectID   `json:"owner" bson:"owner"`
	Members     []primitive.ObjectID `json:"members" bson:"members"`
	CreatedAt   time.Time            `json:"createdAt" bson:"created_at"`
}

// TeamIDs returns the owner followed by every member, without duplicates.
func (p *Project) TeamIDs() []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(p.Members)+1)
	seen := make(map[primitive.ObjectID]bool, len(p.Members)+1)
	for _, id := range append([]primitive.ObjectID{p.Owner}, p.Members...) {
		if id.IsZero() || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// OnTeam reports whether userID owns or belongs to the project.
func (p *Project) OnTeam(userID primitive.ObjectID) bool {
	if p.Owner == userID {
		return true
	}
	for _, m := range p.Members {
		if m == userID {
			return true
		}
	}
	return false
}
