package commands

import (
	"context"

	"trello-project/microservices/planner-service/interfaces"
)

type UpdateBlockedStatusCommand struct {
	TaskID string
	Graph  interfaces.DependencyCommandContext
}

func (cmd *UpdateBlockedStatusCommand) Execute(ctx context.Context) error {
	return cmd.Graph.UpdateBlockedStatus(ctx, cmd.TaskID)
}
