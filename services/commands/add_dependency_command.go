package commands

import (
	"context"

	"trello-project/microservices/planner-service/interfaces"
	"trello-project/microservices/planner-service/logging"
	"trello-project/microservices/planner-service/models"
)

type AddDependencyCommand struct {
	Dependency models.TaskDependencyRelation
}

type AddDependencyHandler struct {
	Graph interfaces.DependencyCommandContext
}

func NewAddDependencyHandler(graph interfaces.DependencyCommandContext) *AddDependencyHandler {
	return &AddDependencyHandler{Graph: graph}
}

// Handle adds the edge and then recomputes the dependent task's blocked flag.
// A failed recompute is logged; the edge stays.
func (h *AddDependencyHandler) Handle(ctx context.Context, cmd AddDependencyCommand) error {
	if err := h.Graph.AddDependency(ctx, cmd.Dependency); err != nil {
		return err
	}

	updateCmd := UpdateBlockedStatusCommand{
		TaskID: cmd.Dependency.ToTaskID,
		Graph:  h.Graph,
	}
	if err := updateCmd.Execute(ctx); err != nil {
		logging.Logger.Warnf("Event ID: BLOCKED_STATUS_UPDATE_FAILED, Description: Dependency added, but failed to update blocked status of task %s: %v", cmd.Dependency.ToTaskID, err)
	}
	return nil
}
