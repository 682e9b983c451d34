package handlers

import (
	"net/http"
	"strconv"

	"trello-project/microservices/planner-service/ai"
	"trello-project/microservices/planner-service/apperrors"
	"trello-project/microservices/planner-service/services"

	"github.com/gorilla/mux"
)

const maxSuggestionCount = 20

// AIHandler serves the prediction endpoints. Access is checked through the
// project and task services before any model is consulted.
type AIHandler struct {
	projects  *services.ProjectService
	tasks     *services.TaskService
	durations *ai.DurationEstimator
	suggester *ai.TaskSuggester
	analyzer  *ai.WorkflowAnalyzer
}

func NewAIHandler(projects *services.ProjectService, tasks *services.TaskService, durations *ai.DurationEstimator, suggester *ai.TaskSuggester, analyzer *ai.WorkflowAnalyzer) *AIHandler {
	return &AIHandler{
		projects:  projects,
		tasks:     tasks,
		durations: durations,
		suggester: suggester,
		analyzer:  analyzer,
	}
}

func (h *AIHandler) PredictDuration(w http.ResponseWriter, r *http.Request) {
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
	estimate, err := h.durations.EstimateTask(r.Context(), taskID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, estimate)
}

func (h *AIHandler) ProjectTimeline(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.authorizeProject(w, r)
	if !ok {
		return
	}
	timeline, err := h.durations.ProjectTimeline(r.Context(), projectID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, timeline)
}

func (h *AIHandler) SuggestTasks(w http.ResponseWriter, r *http.Request) {
	count := ai.DefaultSuggestionCount
	if raw := r.URL.Query().Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxSuggestionCount {
			writeError(w, r, apperrors.InvalidArgument("count must be an integer between 1 and %d", maxSuggestionCount))
			return
		}
		count = n
	}

	projectID, ok := h.authorizeProject(w, r)
	if !ok {
		return
	}
	suggestions, err := h.suggester.Suggest(r.Context(), projectID, count)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, suggestions)
}

func (h *AIHandler) OptimizeWorkflow(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.authorizeProject(w, r)
	if !ok {
		return
	}
	analysis, err := h.analyzer.Analyze(r.Context(), projectID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

func (h *AIHandler) authorizeProject(w http.ResponseWriter, r *http.Request) (string, bool) {
	caller, err := callerFrom(r)
	if err != nil {
		writeError(w, r, err)
		return "", false
	}
	projectID := mux.Vars(r)["projectId"]
	if _, err := h.projects.Get(r.Context(), caller, projectID); err != nil {
		writeError(w, r, err)
		return "", false
	}
	return projectID, true
}
