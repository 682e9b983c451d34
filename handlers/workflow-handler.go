package handlers

import (
	"net/http"

	"trello-project/microservices/planner-service/apperrors"
	"trello-project/microservices/planner-service/interfaces"
	"trello-project/microservices/planner-service/models"
	"trello-project/microservices/planner-service/services"
	"trello-project/microservices/planner-service/services/commands"
	"trello-project/microservices/planner-service/services/queries"

	"github.com/gorilla/mux"
)

type DependencyRequest struct {
	FromTaskID string `json:"fromTaskId"`
	ToTaskID   string `json:"toTaskId"`
}

type WorkflowHandler struct {
	projects      *services.ProjectService
	tasks         *services.TaskService
	graph         interfaces.DependencyGraph
	addHandler    *commands.AddDependencyHandler
	removeHandler *commands.RemoveDependencyHandler
}

// NewWorkflowHandler accepts a nil graph; every route then answers 503.
func NewWorkflowHandler(projects *services.ProjectService, tasks *services.TaskService, graph interfaces.DependencyGraph) *WorkflowHandler {
	h := &WorkflowHandler{projects: projects, tasks: tasks, graph: graph}
	if graph != nil {
		h.addHandler = commands.NewAddDependencyHandler(graph)
		h.removeHandler = commands.NewRemoveDependencyHandler(graph)
	}
	return h
}

func (h *WorkflowHandler) AddDependency(w http.ResponseWriter, r *http.Request) {
	req, ok := h.dependencyRequest(w, r)
	if !ok {
		return
	}
	cmd := commands.AddDependencyCommand{
		Dependency: models.TaskDependencyRelation{FromTaskID: req.FromTaskID, ToTaskID: req.ToTaskID},
	}
	if err := h.addHandler.Handle(r.Context(), cmd); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "dependency created"})
}

func (h *WorkflowHandler) RemoveDependency(w http.ResponseWriter, r *http.Request) {
	req, ok := h.dependencyRequest(w, r)
	if !ok {
		return
	}
	cmd := commands.RemoveDependencyCommand{FromTaskID: req.FromTaskID, ToTaskID: req.ToTaskID}
	if err := h.removeHandler.Handle(r.Context(), cmd); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *WorkflowHandler) GetDependencies(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}
	caller, err := callerFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	taskID := mux.Vars(r)["taskId"]
	if _, err := h.tasks.Get(r.Context(), caller, taskID); err != nil {
		writeError(w, r, err)
		return
	}

	query := queries.GetDependenciesQuery{TaskID: taskID, Graph: h.graph}
	deps, err := query.Execute(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deps)
}

// GetWorkflowGraph returns the project's tasks as nodes with their dependency edges.
func (h *WorkflowHandler) GetWorkflowGraph(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}
	caller, err := callerFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	projectID := mux.Vars(r)["projectId"]
	tasks, err := h.projects.Tasks(r.Context(), caller, projectID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	query := queries.GetWorkflowGraphQuery{ProjectID: projectID, Tasks: tasks, Graph: h.graph}
	graph, err := query.Execute(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, graph)
}

// dependencyRequest decodes the edge and checks the caller can see both tasks.
func (h *WorkflowHandler) dependencyRequest(w http.ResponseWriter, r *http.Request) (DependencyRequest, bool) {
	var req DependencyRequest
	if !h.available(w) {
		return req, false
	}
	caller, err := callerFrom(r)
	if err != nil {
		writeError(w, r, err)
		return req, false
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return req, false
	}
	if req.FromTaskID == "" || req.ToTaskID == "" {
		writeError(w, r, apperrors.InvalidArgument("fromTaskId and toTaskId are required"))
		return req, false
	}
	if req.FromTaskID == req.ToTaskID {
		writeError(w, r, apperrors.InvalidArgument("a task cannot depend on itself"))
		return req, false
	}
	for _, id := range []string{req.FromTaskID, req.ToTaskID} {
		if _, err := h.tasks.Get(r.Context(), caller, id); err != nil {
			writeError(w, r, err)
			return req, false
		}
	}
	return req, true
}

func (h *WorkflowHandler) available(w http.ResponseWriter) bool {
	if h.graph == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "dependency graph is not configured"})
		return false
	}
	return true
}
