package queries

import (
	"context"

	"trello-project/microservices/planner-service/interfaces"
)

type GetDependenciesQuery struct {
	TaskID string
	Graph  interfaces.DependencyQueryContext
}

func (q *GetDependenciesQuery) Execute(ctx context.Context) (interface{}, error) {
	return q.Graph.GetDependencies(ctx, q.TaskID)
}
