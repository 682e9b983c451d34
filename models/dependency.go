package models

// TaskNode mirrors a task inside the dependency graph.
type TaskNode struct {
	ID        string `json:"id"`
	ProjectID string `json:"projectId"`
	Title     string `json:"title"`
	Status    string `json:"status"`
	Blocked   bool   `json:"blocked"`
}

// TaskDependencyRelation says ToTaskID cannot start before FromTaskID is done.
type TaskDependencyRelation struct {
	FromTaskID string `json:"fromTaskId"`
	ToTaskID   string `json:"toTaskId"`
}

type GraphNode struct {
	ID       string       `json:"id"`
	Title    string       `json:"title"`
	Status   TaskStatus   `json:"status"`
	Priority TaskPriority `json:"priority"`
	Blocked  bool         `json:"blocked"`
}

type GraphEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// WorkflowGraph is a project's tasks joined with their dependency edges.
type WorkflowGraph struct {
	ProjectID string      `json:"projectId"`
	Nodes     []GraphNode `json:"nodes"`
	Edges     []GraphEdge `json:"edges"`
}
