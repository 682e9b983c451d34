package queries

import (
	"context"

	"trello-project/microservices/planner-service/interfaces"
	"trello-project/microservices/planner-service/models"
)

// GetWorkflowGraphQuery joins already loaded project tasks with the project's
// dependency edges. Edges touching a task outside Tasks are dropped.
type GetWorkflowGraphQuery struct {
	ProjectID string
	Tasks     []models.Task
	Graph     interfaces.DependencyQueryContext
}

func (q *GetWorkflowGraphQuery) Execute(ctx context.Context) (interface{}, error) {
	edges, err := q.Graph.ProjectDependencies(ctx, q.ProjectID)
	if err != nil {
		return nil, err
	}

	status := make(map[string]models.TaskStatus, len(q.Tasks))
	for _, t := range q.Tasks {
		status[t.ID.Hex()] = t.Status
	}

	graph := models.WorkflowGraph{
		ProjectID: q.ProjectID,
		Nodes:     make([]models.GraphNode, 0, len(q.Tasks)),
		Edges:     []models.GraphEdge{},
	}
	blocked := map[string]bool{}
	for _, e := range edges {
		fromStatus, okFrom := status[e.FromTaskID]
		_, okTo := status[e.ToTaskID]
		if !okFrom || !okTo {
			continue
		}
		graph.Edges = append(graph.Edges, models.GraphEdge{From: e.FromTaskID, To: e.ToTaskID})
		if fromStatus != models.StatusCompleted {
			blocked[e.ToTaskID] = true
		}
	}
	for _, t := range q.Tasks {
		id := t.ID.Hex()
		graph.Nodes = append(graph.Nodes, models.GraphNode{
			ID:       id,
			Title:    t.Title,
			Status:   t.Status,
			Priority: t.Priority,
			Blocked:  blocked[id] && t.Status != models.StatusCompleted,
		})
	}
	return graph, nil
}
