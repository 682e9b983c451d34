package handlers

import (
	"net/http"

	"trello-project/microservices/planner-service/metrics"
	"trello-project/microservices/planner-service/middleware"

	"github.com/gorilla/mux"
)

type Handlers struct {
	Users         *UserHandler
	Projects      *ProjectHandler
	Tasks         *TaskHandler
	AI            *AIHandler
	Workflow      *WorkflowHandler
	Notifications *NotificationHandler
}

type RouterOptions struct {
	Validator  middleware.TokenValidator
	Limiter    *middleware.RateLimiter
	CORSOrigin string
}

// NewRouter mounts every route. Register, login, health and metrics are public.
func NewRouter(h Handlers, opts RouterOptions) http.Handler {
	r := mux.NewRouter()
	r.Use(metrics.Instrument)

	r.HandleFunc("/health", Health).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/api/users/register", h.Users.Register).Methods(http.MethodPost)
	r.HandleFunc("/api/users/login", h.Users.Login).Methods(http.MethodPost)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.JWTAuth(opts.Validator))

	api.HandleFunc("/users/logout", h.Users.Logout).Methods(http.MethodPost)
	api.HandleFunc("/users/me", h.Users.Me).Methods(http.MethodGet)

	// AI routes go first so "timeline" and "suggest" are never read as ids.
	api.HandleFunc("/tasks/duration/{taskId}", h.AI.PredictDuration).Methods(http.MethodGet)
	api.HandleFunc("/tasks/suggest/{projectId}", h.AI.SuggestTasks).Methods(http.MethodGet)
	api.HandleFunc("/projects/timeline/{projectId}", h.AI.ProjectTimeline).Methods(http.MethodGet)
	api.HandleFunc("/projects/optimize/{projectId}", h.AI.OptimizeWorkflow).Methods(http.MethodGet)

	api.HandleFunc("/projects", h.Projects.CreateProject).Methods(http.MethodPost)
	api.HandleFunc("/projects", h.Projects.ListProjects).Methods(http.MethodGet)
	api.HandleFunc("/projects/{projectId}", h.Projects.GetProject).Methods(http.MethodGet)
	api.HandleFunc("/projects/{projectId}", h.Projects.UpdateProject).Methods(http.MethodPatch)
	api.HandleFunc("/projects/{projectId}/members", h.Projects.AddMembers).Methods(http.MethodPost)
	api.HandleFunc("/projects/{projectId}/members/{memberId}", h.Projects.RemoveMember).Methods(http.MethodDelete)
	api.HandleFunc("/projects/{projectId}/tasks", h.Projects.ListTasks).Methods(http.MethodGet)

	api.HandleFunc("/tasks", h.Tasks.CreateTask).Methods(http.MethodPost)
	api.HandleFunc("/tasks/{taskId}", h.Tasks.GetTask).Methods(http.MethodGet)
	api.HandleFunc("/tasks/{taskId}", h.Tasks.UpdateTask).Methods(http.MethodPatch)
	api.HandleFunc("/tasks/{taskId}", h.Tasks.DeleteTask).Methods(http.MethodDelete)

	api.HandleFunc("/workflow/dependencies", h.Workflow.AddDependency).Methods(http.MethodPost)
	api.HandleFunc("/workflow/dependencies", h.Workflow.RemoveDependency).Methods(http.MethodDelete)
	api.HandleFunc("/workflow/dependencies/{taskId}", h.Workflow.GetDependencies).Methods(http.MethodGet)
	api.HandleFunc("/workflow/graph/{projectId}", h.Workflow.GetWorkflowGraph).Methods(http.MethodGet)

	api.HandleFunc("/notifications", h.Notifications.GetNotifications).Methods(http.MethodGet)
	api.HandleFunc("/notifications/read", h.Notifications.MarkAsRead).Methods(http.MethodPut)

	var handler http.Handler = r
	if opts.Limiter != nil {
		handler = opts.Limiter.Middleware(handler)
	}
	handler = middleware.RequestLogger(handler)
	return middleware.EnableCORS(opts.CORSOrigin)(handler)
}
