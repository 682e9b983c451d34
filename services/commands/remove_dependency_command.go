package commands

import (
	"context"

	"trello-project/microservices/planner-service/interfaces"
	"trello-project/microservices/planner-service/logging"
)

type RemoveDependencyCommand struct {
	FromTaskID string
	ToTaskID   string
}

type RemoveDependencyHandler struct {
	Graph interfaces.DependencyCommandContext
}

func NewRemoveDependencyHandler(graph interfaces.DependencyCommandContext) *RemoveDependencyHandler {
	return &RemoveDependencyHandler{Graph: graph}
}

func (h *RemoveDependencyHandler) Handle(ctx context.Context, cmd RemoveDependencyCommand) error {
	logging.Logger.Debugf("Event ID: REMOVE_DEPENDENCY, Description: Removing dependency from %s to %s", cmd.FromTaskID, cmd.ToTaskID)

	if err := h.Graph.RemoveDependency(ctx, cmd.FromTaskID, cmd.ToTaskID); err != nil {
		return err
	}

	updateCmd := UpdateBlockedStatusCommand{
		TaskID: cmd.ToTaskID,
		Graph:  h.Graph,
	}
	return updateCmd.Execute(ctx)
}
