package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"trello-project/microservices/planner-service/ai"
	"trello-project/microservices/planner-service/memstore"
	"trello-project/microservices/planner-service/models"
	"trello-project/microservices/planner-service/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type testServer struct {
	router   http.Handler
	jwt      *services.JWTService
	owner    models.User
	member   models.User
	outsider models.User
	project  models.Project
	tasks    *memstore.Tasks
	graph    *memstore.Graph
}

func newTestServer(t *testing.T, withGraph bool) *testServer {
	t.Helper()
	now := time.Now()
	s := &testServer{
		jwt:      services.NewJWTService("test-secret", time.Hour),
		owner:    models.User{ID: primitive.NewObjectID(), Name: "Owner", Email: "owner@example.com", Role: models.RoleManager},
		member:   models.User{ID: primitive.NewObjectID(), Name: "Member", Email: "member@example.com", Role: models.RoleUser},
		outsider: models.User{ID: primitive.NewObjectID(), Name: "Outsider", Email: "outsider@example.com", Role: models.RoleUser},
	}
	s.project = models.Project{
		ID:        primitive.NewObjectID(),
		Name:      "Website redesign",
		StartDate: now.AddDate(0, 0, -30),
		EndDate:   now.AddDate(0, 0, 60),
		Status:    models.ProjectInProgress,
		Owner:     s.owner.ID,
		Members:   []primitive.ObjectID{s.member.ID},
	}

	projects := memstore.NewProjects(s.project)
	s.tasks = memstore.NewTasks()
	users := memstore.NewUsers(s.owner, s.member, s.outsider)

	var graph *memstore.Graph
	store := ai.Store{Projects: projects, Tasks: s.tasks, Users: users}
	projectService := services.NewProjectService(projects, s.tasks, users)
	notifications := services.NewNotificationService(&memstore.Notifications{})

	var taskService *services.TaskService
	var workflow *WorkflowHandler
	if withGraph {
		graph = memstore.NewGraph()
		store.Graph = graph
		taskService = services.NewTaskService(s.tasks, projectService, graph, notifications)
		workflow = NewWorkflowHandler(projectService, taskService, graph)
	} else {
		taskService = services.NewTaskService(s.tasks, projectService, nil, notifications)
		workflow = NewWorkflowHandler(projectService, taskService, nil)
	}
	s.graph = graph

	predictors := ai.NewPredictors(ai.HeuristicSelector())
	h := Handlers{
		Users:    NewUserHandler(services.NewUserService(users, s.jwt, map[string]bool{"password1!": true})),
		Projects: NewProjectHandler(projectService),
		Tasks:    NewTaskHandler(taskService),
		AI: NewAIHandler(projectService, taskService,
			ai.NewDurationEstimator(store, predictors.Duration),
			ai.NewTaskSuggester(store, predictors.Classifier, ai.NewRandomSource(7)),
			ai.NewWorkflowAnalyzer(store, predictors.Scorer)),
		Workflow:      workflow,
		Notifications: NewNotificationHandler(notifications),
	}
	s.router = NewRouter(h, RouterOptions{Validator: s.jwt, CORSOrigin: "*"})
	return s
}

func (s *testServer) token(t *testing.T, u models.User) string {
	t.Helper()
	token, err := s.jwt.GenerateToken(&u)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) createTask(t *testing.T, title string, assignee models.User) models.Task {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/tasks", s.token(t, s.owner), map[string]any{
		"title":      title,
		"project":    s.project.ID.Hex(),
		"assignedTo": assignee.ID.Hex(),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var task models.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))
	return task
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestHealthAndAuthBoundary(t *testing.T) {
	s := newTestServer(t, false)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/projects", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/projects", "garbage", nil).Code)
}

func TestRegisterLoginLogout(t *testing.T) {
	s := newTestServer(t, false)

	rec := s.do(t, http.MethodPost, "/api/users/register", "", map[string]string{
		"name": "Ana", "email": "ana@example.com", "password": "Str0ng!pass",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "Str0ng!pass")

	rec = s.do(t, http.MethodPost, "/api/users/register", "", map[string]string{
		"name": "Ana", "email": "ana@example.com", "password": "Str0ng!pass",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/users/login", "", LoginRequest{Email: "ana@example.com", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/users/login", "", LoginRequest{Email: "ana@example.com", Password: "Str0ng!pass"})
	require.Equal(t, http.StatusOK, rec.Code)
	var login LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/users/me", login.Token, nil).Code)
	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodPost, "/api/users/logout", login.Token, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/users/me", login.Token, nil).Code)
}

func TestRegisterRejectsUnknownFields(t *testing.T) {
	s := newTestServer(t, false)

	rec := s.do(t, http.MethodPost, "/api/users/register", "", map[string]string{"nickname": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateProjectRequiresManagerRole(t *testing.T) {
	s := newTestServer(t, false)
	body := map[string]any{
		"name":      "Mobile app",
		"startDate": time.Now(),
		"endDate":   time.Now().AddDate(0, 1, 0),
	}

	rec := s.do(t, http.MethodPost, "/api/projects", s.token(t, s.member), body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/projects", s.token(t, s.owner), body)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestProjectAccess(t *testing.T) {
	s := newTestServer(t, false)
	path := "/api/projects/" + s.project.ID.Hex()

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, path, s.token(t, s.member), nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, path, s.token(t, s.outsider), nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/projects/"+primitive.NewObjectID().Hex(), s.token(t, s.owner), nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/projects/not-an-id", s.token(t, s.owner), nil).Code)
}

func TestRemoveMemberWithWorkInProgress(t *testing.T) {
	s := newTestServer(t, false)
	task := s.createTask(t, "Build header", s.member)
	status := models.StatusInProgress
	rec := s.do(t, http.MethodPatch, "/api/tasks/"+task.ID.Hex(), s.token(t, s.member), models.TaskUpdate{Status: &status})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodDelete, "/api/projects/"+s.project.ID.Hex()+"/members/"+s.member.ID.Hex(), s.token(t, s.owner), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestTaskLifecycle(t *testing.T) {
	s := newTestServer(t, false)
	task := s.createTask(t, "Write copy", s.member)
	path := "/api/tasks/" + task.ID.Hex()

	assert.Equal(t, models.StatusTodo, task.Status)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, path, s.token(t, s.outsider), nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, path, s.token(t, s.member), nil).Code)

	rec := s.do(t, http.MethodGet, "/api/projects/"+s.project.ID.Hex()+"/tasks", s.token(t, s.member), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var tasks []models.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tasks))
	assert.Len(t, tasks, 1)

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, path, s.token(t, s.owner), nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, path, s.token(t, s.owner), nil).Code)
}

func TestAssigneeReceivesNotification(t *testing.T) {
	s := newTestServer(t, false)
	s.createTask(t, "Review mockups", s.member)

	rec := s.do(t, http.MethodGet, "/api/notifications", s.token(t, s.member), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []models.Notification
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)

	rec = s.do(t, http.MethodPut, "/api/notifications/read", s.token(t, s.member), MarkReadRequest{ID: list[0].ID, CreatedAt: list[0].CreatedAt})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/notifications/read", s.token(t, s.member), MarkReadRequest{ID: list[0].ID})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPredictDuration(t *testing.T) {
	s := newTestServer(t, false)
	task := s.createTask(t, "Implement login", s.member)

	rec := s.do(t, http.MethodGet, "/api/tasks/duration/"+task.ID.Hex(), s.token(t, s.member), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var estimate models.DurationEstimate
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &estimate))
	assert.Equal(t, ai.MethodHeuristic, estimate.Method)
	assert.GreaterOrEqual(t, estimate.WorstCase, estimate.BestCase)

	rec = s.do(t, http.MethodGet, "/api/tasks/duration/"+task.ID.Hex(), s.token(t, s.outsider), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSuggestTasksCount(t *testing.T) {
	s := newTestServer(t, false)
	base := "/api/tasks/suggest/" + s.project.ID.Hex()
	token := s.token(t, s.owner)

	rec := s.do(t, http.MethodGet, base, token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var suggestions []models.SuggestedTask
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &suggestions))
	assert.Len(t, suggestions, ai.DefaultSuggestionCount)

	rec = s.do(t, http.MethodGet, base+"?count=5", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &suggestions))
	assert.Len(t, suggestions, 5)

	for _, bad := range []string{"0", "21", "many"} {
		rec = s.do(t, http.MethodGet, base+"?count="+bad, token, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, bad)
	}
}

func TestTimelineAndOptimize(t *testing.T) {
	s := newTestServer(t, false)
	s.createTask(t, "Set up CI", s.member)
	s.createTask(t, "Write tests", s.owner)
	token := s.token(t, s.member)

	rec := s.do(t, http.MethodGet, "/api/projects/timeline/"+s.project.ID.Hex(), token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var timeline []models.DurationEstimate
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &timeline))
	assert.Len(t, timeline, 2)

	rec = s.do(t, http.MethodGet, "/api/projects/optimize/"+s.project.ID.Hex(), token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var analysis models.WorkflowAnalysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &analysis))
	assert.NotEmpty(t, analysis.Recommendations)

	rec = s.do(t, http.MethodGet, "/api/projects/optimize/"+s.project.ID.Hex(), s.token(t, s.outsider), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestWorkflowUnavailableWithoutGraph(t *testing.T) {
	s := newTestServer(t, false)

	rec := s.do(t, http.MethodPost, "/api/workflow/dependencies", s.token(t, s.owner), DependencyRequest{FromTaskID: "a", ToTaskID: "b"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestWorkflowDependencies(t *testing.T) {
	s := newTestServer(t, true)
	design := s.createTask(t, "Design", s.member)
	build := s.createTask(t, "Build", s.member)
	token := s.token(t, s.owner)
	edge := DependencyRequest{FromTaskID: design.ID.Hex(), ToTaskID: build.ID.Hex()}

	rec := s.do(t, http.MethodPost, "/api/workflow/dependencies", token, edge)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	node, ok := s.graph.Node(build.ID.Hex())
	require.True(t, ok)
	assert.True(t, node.Blocked)

	rec = s.do(t, http.MethodPost, "/api/workflow/dependencies", token, edge)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/workflow/dependencies", token, DependencyRequest{FromTaskID: build.ID.Hex(), ToTaskID: design.ID.Hex()})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, decodeError(t, rec), "cycle")

	status := models.StatusInProgress
	rec = s.do(t, http.MethodPatch, "/api/tasks/"+build.ID.Hex(), token, models.TaskUpdate{Status: &status})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/workflow/dependencies/"+build.ID.Hex(), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var deps []models.TaskNode
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &deps))
	require.Len(t, deps, 1)
	assert.Equal(t, design.ID.Hex(), deps[0].ID)

	rec = s.do(t, http.MethodGet, "/api/workflow/graph/"+s.project.ID.Hex(), token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var wg models.WorkflowGraph
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &wg))
	assert.Len(t, wg.Nodes, 2)
	assert.Equal(t, []models.GraphEdge{{From: design.ID.Hex(), To: build.ID.Hex()}}, wg.Edges)

	rec = s.do(t, http.MethodGet, "/api/workflow/graph/"+s.project.ID.Hex(), s.token(t, s.outsider), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodDelete, "/api/workflow/dependencies", token, edge)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	node, _ = s.graph.Node(build.ID.Hex())
	assert.False(t, node.Blocked)
}

func TestWorkflowRejectsSelfDependency(t *testing.T) {
	s := newTestServer(t, true)
	task := s.createTask(t, "Solo", s.member)

	rec := s.do(t, http.MethodPost, "/api/workflow/dependencies", s.token(t, s.owner), DependencyRequest{FromTaskID: task.ID.Hex(), ToTaskID: task.ID.Hex()})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInternalErrorsAreOpaque(t *testing.T) {
	s := newTestServer(t, false)
	s.tasks.Err = assert.AnError

	rec := s.do(t, http.MethodGet, "/api/projects/"+s.project.ID.Hex()+"/tasks", s.token(t, s.owner), nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", decodeError(t, rec))
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, false)

	req := httptest.NewRequest(http.MethodOptions, "/api/projects", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
