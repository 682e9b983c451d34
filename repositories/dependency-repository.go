package repositories

import (
	"context"
	"fmt"

	"trello-project/microservices/planner-service/apperrors"
	"trello-project/microservices/planner-service/interfaces"
	"trello-project/microservices/planner-service/logging"
	"trello-project/microservices/planner-service/models"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// DependencyRepository keeps the task dependency graph in Neo4j. An edge
// (to)-[:DEPENDS_ON]->(from) means "to" cannot start before "from" is completed.
type DependencyRepository struct {
	driver neo4j.DriverWithContext
}

var _ interfaces.DependencyGraph = (*DependencyRepository)(nil)

func NewDependencyRepository(driver neo4j.DriverWithContext) *DependencyRepository {
	return &DependencyRepository{driver: driver}
}

func (r *DependencyRepository) Close(ctx context.Context) error {
	return r.driver.Close(ctx)
}

func (r *DependencyRepository) write(ctx context.Context, query string, params map[string]any) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, query, params)
		return nil, err
	})
	return err
}

func (r *DependencyRepository) readSingle(ctx context.Context, query string, params map[string]any) (any, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	return session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		if res.Next(ctx) {
			return res.Record().Values[0], nil
		}
		return nil, res.Err()
	})
}

func (r *DependencyRepository) readBool(ctx context.Context, query string, params map[string]any) (bool, error) {
	val, err := r.readSingle(ctx, query, params)
	if err != nil || val == nil {
		return false, err
	}
	b, ok := val.(bool)
	if !ok {
		return false, fmt.Errorf("unexpected result type %T", val)
	}
	return b, nil
}

// EnsureTaskNode creates the task's node or refreshes its title and status.
func (r *DependencyRepository) EnsureTaskNode(ctx context.Context, task models.TaskNode) error {
	query := `
		MERGE (t:Task {id: $id})
		ON CREATE SET
			t.projectId = $projectId,
			t.blocked = false
		SET t.title = $title,
			t.status = $status
	`
	err := r.write(ctx, query, map[string]any{
		"id":        task.ID,
		"projectId": task.ProjectID,
		"title":     task.Title,
		"status":    task.Status,
	})
	if err != nil {
		return apperrors.Internal(err, "failed to ensure task node %s", task.ID)
	}
	return nil
}

// SyncTaskStatus stores the task's new status and recomputes the blocked flag of its dependents.
func (r *DependencyRepository) SyncTaskStatus(ctx context.Context, taskID, status string) error {
	query := `
		MATCH (t:Task {id: $id})
		SET t.status = $status
		WITH t
		MATCH (d:Task)-[:DEPENDS_ON]->(t)
		OPTIONAL MATCH (d)-[:DEPENDS_ON]->(dep:Task)
		WHERE dep.status <> $completed
		WITH d, count(dep) AS open
		SET d.blocked = open > 0
	`
	err := r.write(ctx, query, map[string]any{
		"id":        taskID,
		"status":    status,
		"completed": string(models.StatusCompleted),
	})
	if err != nil {
		return apperrors.Internal(err, "failed to sync status of task %s", taskID)
	}
	return nil
}

// DeleteTaskNode removes the node with its edges and unblocks dependents that were waiting on it.
func (r *DependencyRepository) DeleteTaskNode(ctx context.Context, taskID string) error {
	query := `
		MATCH (t:Task {id: $id})
		OPTIONAL MATCH (d:Task)-[:DEPENDS_ON]->(t)
		WITH t, collect(d) AS dependents
		DETACH DELETE t
		WITH dependents
		UNWIND dependents AS d
		OPTIONAL MATCH (d)-[:DEPENDS_ON]->(dep:Task)
		WHERE dep.status <> $completed
		WITH d, count(dep) AS open
		SET d.blocked = open > 0
	`
	err := r.write(ctx, query, map[string]any{
		"id":        taskID,
		"completed": string(models.StatusCompleted),
	})
	if err != nil {
		return apperrors.Internal(err, "failed to delete task node %s", taskID)
	}
	return nil
}

func (r *DependencyRepository) TasksExist(ctx context.Context, id1, id2 string) (bool, error) {
	query := `
		OPTIONAL MATCH (a:Task {id: $id1})
		OPTIONAL MATCH (b:Task {id: $id2})
		RETURN a IS NOT NULL AND b IS NOT NULL AS bothExist
	`
	return r.readBool(ctx, query, map[string]any{"id1": id1, "id2": id2})
}

func (r *DependencyRepository) DependencyExists(ctx context.Context, fromID, toID string) (bool, error) {
	query := `
		MATCH (to:Task {id: $toId})-[rel:DEPENDS_ON]->(from:Task {id: $fromId})
		RETURN COUNT(rel) > 0 AS exists
	`
	return r.readBool(ctx, query, map[string]any{"fromId": fromID, "toId": toID})
}

// CreatesCycle reports whether to -> from would close a loop, i.e. from already
// (transitively) depends on to.
func (r *DependencyRepository) CreatesCycle(ctx context.Context, fromID, toID string) (bool, error) {
	if fromID == toID {
		return true, nil
	}
	query := `
		MATCH (from:Task {id: $fromId}), (to:Task {id: $toId})
		RETURN EXISTS((from)-[:DEPENDS_ON*1..]->(to)) AS hasCycle
	`
	return r.readBool(ctx, query, map[string]any{"fromId": fromID, "toId": toID})
}

func (r *DependencyRepository) AddDependency(ctx context.Context, rel models.TaskDependencyRelation) error {
	exist, err := r.TasksExist(ctx, rel.FromTaskID, rel.ToTaskID)
	if err != nil {
		return apperrors.Internal(err, "failed to check task existence")
	}
	if !exist {
		return apperrors.NotFound("one or both tasks do not exist in the dependency graph")
	}

	exists, err := r.DependencyExists(ctx, rel.FromTaskID, rel.ToTaskID)
	if err != nil {
		return apperrors.Internal(err, "failed to check if dependency exists")
	}
	if exists {
		return apperrors.Conflict("dependency already exists")
	}

	hasCycle, err := r.CreatesCycle(ctx, rel.FromTaskID, rel.ToTaskID)
	if err != nil {
		return apperrors.Internal(err, "cycle detection failed")
	}
	if hasCycle {
		return apperrors.Conflict("cannot add dependency: cycle detected")
	}

	query := `
		MATCH (from:Task {id: $fromId}), (to:Task {id: $toId})
		MERGE (to)-[:DEPENDS_ON]->(from)
	`
	if err := r.write(ctx, query, map[string]any{"fromId": rel.FromTaskID, "toId": rel.ToTaskID}); err != nil {
		return apperrors.Internal(err, "failed to create dependency relation")
	}

	logging.Logger.Infof("Event ID: DEPENDENCY_ADDED, Description: Dependency added: %s <- %s", rel.ToTaskID, rel.FromTaskID)
	return nil
}

func (r *DependencyRepository) RemoveDependency(ctx context.Context, fromTaskID, toTaskID string) error {
	query := `
		MATCH (to:Task {id: $toId})-[rel:DEPENDS_ON]->(from:Task {id: $fromId})
		DELETE rel
		RETURN count(rel) AS removed
	`
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	removed, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, map[string]any{"fromId": fromTaskID, "toId": toTaskID})
		if err != nil {
			return nil, err
		}
		record, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		n, _ := record.Values[0].(int64)
		return n, nil
	})
	if err != nil {
		return apperrors.Internal(err, "failed to remove dependency")
	}
	if removed.(int64) == 0 {
		return apperrors.NotFound("dependency %s <- %s not found", toTaskID, fromTaskID)
	}

	logging.Logger.Infof("Event ID: DEPENDENCY_REMOVED, Description: Dependency removed: %s <- %s", toTaskID, fromTaskID)
	return nil
}

// GetDependencies lists the tasks taskID depends on.
func (r *DependencyRepository) GetDependencies(ctx context.Context, taskID string) ([]models.TaskNode, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (to:Task {id: $taskId})-[:DEPENDS_ON]->(from:Task)
			RETURN from.id AS id, from.projectId AS projectId, from.title AS title,
			       from.status AS status, from.blocked AS blocked
		`
		res, err := tx.Run(ctx, query, map[string]any{"taskId": taskID})
		if err != nil {
			return nil, err
		}

		dependencies := []models.TaskNode{}
		for res.Next(ctx) {
			dependencies = append(dependencies, nodeFromRecord(res.Record()))
		}
		return dependencies, res.Err()
	})
	if err != nil {
		return nil, apperrors.Internal(err, "failed to get dependencies of task %s", taskID)
	}
	return result.([]models.TaskNode), nil
}

// ProjectDependencies lists every edge between tasks of a project.
func (r *DependencyRepository) ProjectDependencies(ctx context.Context, projectID string) ([]models.TaskDependencyRelation, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (to:Task {projectId: $projectId})-[:DEPENDS_ON]->(from:Task)
			RETURN from.id AS fromId, to.id AS toId
			ORDER BY toId, fromId
		`
		res, err := tx.Run(ctx, query, map[string]any{"projectId": projectID})
		if err != nil {
			return nil, err
		}

		edges := []models.TaskDependencyRelation{}
		for res.Next(ctx) {
			record := res.Record()
			from, _ := record.Get("fromId")
			to, _ := record.Get("toId")
			fromID, _ := from.(string)
			toID, _ := to.(string)
			edges = append(edges, models.TaskDependencyRelation{FromTaskID: fromID, ToTaskID: toID})
		}
		return edges, res.Err()
	})
	if err != nil {
		return nil, apperrors.Internal(err, "failed to list dependencies of project %s", projectID)
	}
	return result.([]models.TaskDependencyRelation), nil
}

// UpdateBlockedStatus marks the task blocked while any of its dependencies is unfinished.
func (r *DependencyRepository) UpdateBlockedStatus(ctx context.Context, taskID string) error {
	dependencies, err := r.GetDependencies(ctx, taskID)
	if err != nil {
		return err
	}
	blocked := hasUnfinished(dependencies)

	query := `
		MATCH (t:Task {id: $taskId})
		SET t.blocked = $isBlocked
	`
	if err := r.write(ctx, query, map[string]any{"taskId": taskID, "isBlocked": blocked}); err != nil {
		return apperrors.Internal(err, "failed to update blocked status of task %s", taskID)
	}

	logging.Logger.Debugf("Event ID: BLOCKED_STATUS_UPDATED, Description: Blocked status for task %s updated to %v", taskID, blocked)
	return nil
}

// IsBlocked reads the stored flag; a task missing from the graph is never blocked.
func (r *DependencyRepository) IsBlocked(ctx context.Context, taskID string) (bool, error) {
	blocked, err := r.readBool(ctx, `MATCH (t:Task {id: $id}) RETURN coalesce(t.blocked, false)`, map[string]any{"id": taskID})
	if err != nil {
		return false, apperrors.Internal(err, "failed to read blocked status of task %s", taskID)
	}
	return blocked, nil
}

// CountBlocked counts the unfinished blocked tasks of a project.
func (r *DependencyRepository) CountBlocked(ctx context.Context, projectID string) (int, error) {
	query := `
		MATCH (t:Task {projectId: $projectId})
		WHERE t.blocked = true AND t.status <> $completed
		RETURN count(t)
	`
	val, err := r.readSingle(ctx, query, map[string]any{
		"projectId": projectID,
		"completed": string(models.StatusCompleted),
	})
	if err != nil {
		return 0, apperrors.Internal(err, "failed to count blocked tasks of project %s", projectID)
	}
	n, _ := val.(int64)
	return int(n), nil
}

func nodeFromRecord(record *neo4j.Record) models.TaskNode {
	id, _ := record.Get("id")
	projectID, _ := record.Get("projectId")
	title, _ := record.Get("title")
	status, _ := record.Get("status")
	blocked, _ := record.Get("blocked")

	node := models.TaskNode{}
	node.ID, _ = id.(string)
	node.ProjectID, _ = projectID.(string)
	node.Title, _ = title.(string)
	node.Status, _ = status.(string)
	node.Blocked, _ = blocked.(bool)
	return node
}

func hasUnfinished(dependencies []models.TaskNode) bool {
	for _, dep := range dependencies {
		if dep.Status != string(models.StatusCompleted) {
			return true
		}
	}
	return false
}
