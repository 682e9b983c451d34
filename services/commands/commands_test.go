package commands

import (
	"context"
	"errors"
	"testing"

	"trello-project/microservices/planner-service/apperrors"
	"trello-project/microservices/planner-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGraph struct {
	edges     map[models.TaskDependencyRelation]bool
	updated   []string
	addErr    error
	updateErr error
}

func newFakeGraph() *fakeGraph {
	return &fakeGraph{edges: map[models.TaskDependencyRelation]bool{}}
}

func (g *fakeGraph) AddDependency(_ context.Context, dep models.TaskDependencyRelation) error {
	if g.addErr != nil {
		return g.addErr
	}
	g.edges[dep] = true
	return nil
}

func (g *fakeGraph) UpdateBlockedStatus(_ context.Context, taskID string) error {
	g.updated = append(g.updated, taskID)
	return g.updateErr
}

func (g *fakeGraph) RemoveDependency(_ context.Context, from, to string) error {
	key := models.TaskDependencyRelation{FromTaskID: from, ToTaskID: to}
	if !g.edges[key] {
		return apperrors.NotFound("dependency not found")
	}
	delete(g.edges, key)
	return nil
}

func TestAddDependencyHandler_RecomputesDependent(t *testing.T) {
	graph := newFakeGraph()
	dep := models.TaskDependencyRelation{FromTaskID: "a", ToTaskID: "b"}

	err := NewAddDependencyHandler(graph).Handle(context.Background(), AddDependencyCommand{Dependency: dep})

	require.NoError(t, err)
	assert.True(t, graph.edges[dep])
	assert.Equal(t, []string{"b"}, graph.updated)
}

func TestAddDependencyHandler_PropagatesConflict(t *testing.T) {
	graph := newFakeGraph()
	graph.addErr = apperrors.Conflict("cannot add dependency: cycle detected")

	err := NewAddDependencyHandler(graph).Handle(context.Background(), AddDependencyCommand{
		Dependency: models.TaskDependencyRelation{FromTaskID: "a", ToTaskID: "b"},
	})

	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Empty(t, graph.updated)
}

func TestAddDependencyHandler_IgnoresRecomputeFailure(t *testing.T) {
	graph := newFakeGraph()
	graph.updateErr = errors.New("neo4j down")

	err := NewAddDependencyHandler(graph).Handle(context.Background(), AddDependencyCommand{
		Dependency: models.TaskDependencyRelation{FromTaskID: "a", ToTaskID: "b"},
	})

	assert.NoError(t, err)
}

func TestRemoveDependencyHandler(t *testing.T) {
	graph := newFakeGraph()
	dep := models.TaskDependencyRelation{FromTaskID: "a", ToTaskID: "b"}
	graph.edges[dep] = true

	err := NewRemoveDependencyHandler(graph).Handle(context.Background(), RemoveDependencyCommand{FromTaskID: "a", ToTaskID: "b"})
	require.NoError(t, err)
	assert.False(t, graph.edges[dep])
	assert.Equal(t, []string{"b"}, graph.updated)

	err = NewRemoveDependencyHandler(graph).Handle(context.Background(), RemoveDependencyCommand{FromTaskID: "a", ToTaskID: "b"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
