// Package memstore provides in-memory stores with the same contracts as the
// repositories. It is test support only: tests use it in place of MongoDB,
// Neo4j and Cassandra, and main never wires it.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"trello-project/microservices/planner-service/apperrors"
	"trello-project/microservices/planner-service/interfaces"
	"trello-project/microservices/planner-service/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Projects struct {
	mu   sync.Mutex
	byID map[primitive.ObjectID]models.Project
	Err  error
}

func NewProjects(projects ...models.Project) *Projects {
	m := &Projects{byID: map[primitive.ObjectID]models.Project{}}
	for _, p := range projects {
		m.byID[p.ID] = p
	}
	return m
}

func (m *Projects) FindByID(_ context.Context, id primitive.ObjectID) (*models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, apperrors.Internal(m.Err, "failed to load project")
	}
	p, ok := m.byID[id]
	if !ok {
		return nil, apperrors.NotFound("project %s not found", id.Hex())
	}
	p.Members = append([]primitive.ObjectID{}, p.Members...)
	return &p, nil
}

func (m *Projects) FindByMember(_ context.Context, userID primitive.ObjectID) ([]models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Project{}
	for _, p := range m.byID {
		if p.OnTeam(userID) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *Projects) Insert(_ context.Context, p *models.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	m.byID[p.ID] = *p
	return nil
}

func (m *Projects) Update(_ context.Context, p *models.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[p.ID]; !ok {
		return apperrors.NotFound("project %s not found", p.ID.Hex())
	}
	m.byID[p.ID] = *p
	return nil
}

func (m *Projects) AddMembers(_ context.Context, id primitive.ObjectID, members []primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return apperrors.NotFound("project %s not found", id.Hex())
	}
	for _, member := range members {
		if !p.OnTeam(member) {
			p.Members = append(p.Members, member)
		}
	}
	m.byID[id] = p
	return nil
}

func (m *Projects) RemoveMember(_ context.Context, id, member primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return apperrors.NotFound("project %s not found", id.Hex())
	}
	kept := make([]primitive.ObjectID, 0, len(p.Members))
	for _, existing := range p.Members {
		if existing != member {
			kept = append(kept, existing)
		}
	}
	p.Members = kept
	m.byID[id] = p
	return nil
}

type Tasks struct {
	mu   sync.Mutex
	byID map[primitive.ObjectID]models.Task
	Err  error
}

func NewTasks(tasks ...models.Task) *Tasks {
	m := &Tasks{byID: map[primitive.ObjectID]models.Task{}}
	for _, t := range tasks {
		m.Put(t)
	}
	return m
}

// Put stores a task as is, assigning an id when it has none.
func (m *Tasks) Put(t models.Task) models.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	m.byID[t.ID] = t
	return t
}

func (m *Tasks) FindByID(_ context.Context, id primitive.ObjectID) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, apperrors.Internal(m.Err, "failed to load task")
	}
	t, ok := m.byID[id]
	if !ok {
		return nil, apperrors.NotFound("task %s not found", id.Hex())
	}
	return &t, nil
}

// FindByProject returns tasks ordered by creation time, then id.
func (m *Tasks) FindByProject(_ context.Context, projectID primitive.ObjectID) ([]models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, apperrors.Internal(m.Err, "failed to list tasks")
	}
	out := []models.Task{}
	for _, t := range m.byID {
		if t.Project == projectID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.Hex() < out[j].ID.Hex()
	})
	return out, nil
}

func (m *Tasks) CountByAssignee(_ context.Context, projectID, userID primitive.ObjectID, status models.TaskStatus) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, t := range m.byID {
		if t.Project == projectID && t.AssignedTo != nil && *t.AssignedTo == userID && t.Status == status {
			n++
		}
	}
	return n, nil
}

func (m *Tasks) Insert(_ context.Context, t *models.Task) error {
	stored := m.Put(*t)
	t.ID = stored.ID
	return nil
}

func (m *Tasks) Update(_ context.Context, t *models.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[t.ID]; !ok {
		return apperrors.NotFound("task %s not found", t.ID.Hex())
	}
	m.byID[t.ID] = *t
	return nil
}

func (m *Tasks) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return apperrors.NotFound("task %s not found", id.Hex())
	}
	delete(m.byID, id)
	return nil
}

type Users struct {
	mu   sync.Mutex
	byID map[primitive.ObjectID]models.User
	Err  error
}

func NewUsers(users ...models.User) *Users {
	m := &Users{byID: map[primitive.ObjectID]models.User{}}
	for _, u := range users {
		m.byID[u.ID] = u
	}
	return m
}

func (m *Users) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, apperrors.NotFound("user %s not found", id.Hex())
	}
	return &u, nil
}

func (m *Users) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, apperrors.Internal(m.Err, "failed to load users")
	}
	out := []models.User{}
	for _, id := range ids {
		if u, ok := m.byID[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *Users) FindByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, apperrors.NotFound("user with email %s not found", email)
}

func (m *Users) Insert(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return apperrors.Conflict("user with email %s already exists", u.Email)
		}
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	m.byID[u.ID] = *u
	return nil
}

var _ interfaces.DependencyGraph = (*Graph)(nil)

// Graph is an in-memory dependency graph: edges[to] holds the ids "to" depends on.
type Graph struct {
	mu    sync.Mutex
	nodes map[string]models.TaskNode
	edges map[string]map[string]bool
	Err   error
}

func NewGraph() *Graph {
	return &Graph{nodes: map[string]models.TaskNode{}, edges: map[string]map[string]bool{}}
}

// Node returns a copy of a stored node.
func (g *Graph) Node(id string) (models.TaskNode, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.nodes[id]
	return n, ok
}

// SetBlocked overrides a node's blocked flag.
func (g *Graph) SetBlocked(id string, blocked bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := g.nodes[id]
	n.ID = id
	n.Blocked = blocked
	g.nodes[id] = n
}

func (g *Graph) EnsureTaskNode(_ context.Context, node models.TaskNode) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if existing, ok := g.nodes[node.ID]; ok {
		node.Blocked = existing.Blocked
	}
	g.nodes[node.ID] = node
	return nil
}

func (g *Graph) SyncTaskStatus(_ context.Context, taskID, status string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.nodes[taskID]
	if !ok {
		return nil
	}
	n.Status = status
	g.nodes[taskID] = n
	for to, deps := range g.edges {
		if deps[taskID] {
			g.recompute(to)
		}
	}
	return nil
}

func (g *Graph) DeleteTaskNode(_ context.Context, taskID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.nodes, taskID)
	delete(g.edges, taskID)
	for to, deps := range g.edges {
		if deps[taskID] {
			delete(deps, taskID)
			g.recompute(to)
		}
	}
	return nil
}

func (g *Graph) AddDependency(_ context.Context, rel models.TaskDependencyRelation) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, fromOK := g.nodes[rel.FromTaskID]
	_, toOK := g.nodes[rel.ToTaskID]
	if !fromOK || !toOK {
		return apperrors.NotFound("one or both tasks do not exist in the dependency graph")
	}
	if g.edges[rel.ToTaskID][rel.FromTaskID] {
		return apperrors.Conflict("dependency already exists")
	}
	if rel.FromTaskID == rel.ToTaskID || g.reaches(rel.FromTaskID, rel.ToTaskID) {
		return apperrors.Conflict("cannot add dependency: cycle detected")
	}
	if g.edges[rel.ToTaskID] == nil {
		g.edges[rel.ToTaskID] = map[string]bool{}
	}
	g.edges[rel.ToTaskID][rel.FromTaskID] = true
	return nil
}

// reaches reports whether from transitively depends on target.
func (g *Graph) reaches(from, target string) bool {
	seen := map[string]bool{}
	stack := []string{from}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for dep := range g.edges[cur] {
			if dep == target {
				return true
			}
			if !seen[dep] {
				seen[dep] = true
				stack = append(stack, dep)
			}
		}
	}
	return false
}

func (g *Graph) RemoveDependency(_ context.Context, fromTaskID, toTaskID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.edges[toTaskID][fromTaskID] {
		return apperrors.NotFound("dependency %s <- %s not found", toTaskID, fromTaskID)
	}
	delete(g.edges[toTaskID], fromTaskID)
	return nil
}

func (g *Graph) GetDependencies(_ context.Context, taskID string) ([]models.TaskNode, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	deps := []models.TaskNode{}
	for id := range g.edges[taskID] {
		deps = append(deps, g.nodes[id])
	}
	sort.Slice(deps, func(i, j int) bool { return deps[i].ID < deps[j].ID })
	return deps, nil
}

func (g *Graph) ProjectDependencies(_ context.Context, projectID string) ([]models.TaskDependencyRelation, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Err != nil {
		return nil, apperrors.Internal(g.Err, "failed to list project dependencies")
	}
	edges := []models.TaskDependencyRelation{}
	for to, deps := range g.edges {
		if g.nodes[to].ProjectID != projectID {
			continue
		}
		for from := range deps {
			edges = append(edges, models.TaskDependencyRelation{FromTaskID: from, ToTaskID: to})
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].ToTaskID != edges[j].ToTaskID {
			return edges[i].ToTaskID < edges[j].ToTaskID
		}
		return edges[i].FromTaskID < edges[j].FromTaskID
	})
	return edges, nil
}

func (g *Graph) UpdateBlockedStatus(_ context.Context, taskID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.recompute(taskID)
	return nil
}

func (g *Graph) recompute(taskID string) {
	n, ok := g.nodes[taskID]
	if !ok {
		return
	}
	n.Blocked = false
	for dep := range g.edges[taskID] {
		if g.nodes[dep].Status != string(models.StatusCompleted) {
			n.Blocked = true
			break
		}
	}
	g.nodes[taskID] = n
}

func (g *Graph) IsBlocked(_ context.Context, taskID string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Err != nil {
		return false, apperrors.Internal(g.Err, "failed to read blocked status")
	}
	return g.nodes[taskID].Blocked, nil
}

func (g *Graph) CountBlocked(_ context.Context, projectID string) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Err != nil {
		return 0, apperrors.Internal(g.Err, "failed to count blocked tasks")
	}
	n := 0
	for _, node := range g.nodes {
		if node.ProjectID == projectID && node.Blocked && node.Status != string(models.StatusCompleted) {
			n++
		}
	}
	return n, nil
}

type Notifications struct {
	mu    sync.Mutex
	items []models.Notification
	Err   error
}

func (m *Notifications) Create(_ context.Context, n *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return apperrors.Internal(m.Err, "failed to create notification")
	}
	if n.ID == "" {
		n.ID = primitive.NewObjectID().Hex()
	}
	m.items = append(m.items, *n)
	return nil
}

// ListByUser returns newest first, like the Cassandra clustering order.
func (m *Notifications) ListByUser(_ context.Context, userID string) ([]models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Notification{}
	for _, n := range m.items {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *Notifications) MarkRead(_ context.Context, userID, id string, createdAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, n := range m.items {
		if n.UserID == userID && n.ID == id && n.CreatedAt.Equal(createdAt) {
			m.items[i].IsRead = true
			return nil
		}
	}
	return apperrors.NotFound("notification %s not found", id)
}
