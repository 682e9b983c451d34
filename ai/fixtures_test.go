package ai

import (
	"time"

	"trello-project/microservices/planner-service/memstore"
	"trello-project/microservices/planner-service/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var fixedNow = time.Date(2023, 6, 15, 12, 0, 0, 0, time.UTC)

type aiFixture struct {
	owner, member models.User
	project       models.Project
	projects      *memstore.Projects
	tasks         *memstore.Tasks
	users         *memstore.Users
	graph         *memstore.Graph
}

func newAIFixture() *aiFixture {
	f := &aiFixture{
		owner:  models.User{ID: primitive.NewObjectID(), Name: "Ana"},
		member: models.User{ID: primitive.NewObjectID(), Name: "Ben"},
	}
	f.project = models.Project{
		ID:          primitive.NewObjectID(),
		Name:        "Website relaunch",
		Description: "New marketing site",
		StartDate:   time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2023, 8, 1, 0, 0, 0, 0, time.UTC),
		Status:      models.ProjectInProgress,
		Owner:       f.owner.ID,
		Members:     []primitive.ObjectID{f.member.ID},
	}
	f.projects = memstore.NewProjects(f.project)
	f.tasks = memstore.NewTasks()
	f.users = memstore.NewUsers(f.owner, f.member)
	f.graph = memstore.NewGraph()
	return f
}

func (f *aiFixture) store() Store {
	return Store{Projects: f.projects, Tasks: f.tasks, Users: f.users}
}

func (f *aiFixture) addTask(title string, priority models.TaskPriority, status models.TaskStatus, assignee *models.User) models.Task {
	t := models.Task{
		Title:     title,
		Priority:  priority,
		Status:    status,
		Project:   f.project.ID,
		CreatedBy: f.owner.ID,
		CreatedAt: fixedNow,
	}
	if assignee != nil {
		id := assignee.ID
		t.AssignedTo = &id
	}
	return f.tasks.Put(t)
}

// reload stores the edited project and returns a fresh Store.
func (f *aiFixture) reload() Store {
	f.projects = memstore.NewProjects(f.project)
	return f.store()
}
