package ai

import (
	"math"
	"time"

	"trello-project/microservices/planner-service/models"
)

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

func clamp01(x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	return math.Max(0, math.Min(1, x))
}

// taskFeatures encodes priority and status one-hot plus the normalized time to due date.
func taskFeatures(task models.Task, now time.Time) []float64 {
	f := make([]float64, 0, len(models.TaskPriorities)+len(models.TaskStatuses)+1)
	for _, p := range models.TaskPriorities {
		f = append(f, boolFeature(task.Priority == p))
	}
	for _, s := range models.TaskStatuses {
		f = append(f, boolFeature(task.Status == s))
	}
	dueIn := 0.0
	if task.DueDate != nil {
		dueIn = math.Max(-60, math.Min(60, task.DueDate.Sub(now).Hours()/24)) / 60
	}
	return append(f, dueIn)
}

// projectFeatures returns the five normalized project features: status,
// elapsed-time progress, days remaining, team size and existing task count.
func projectFeatures(project models.Project, taskCount int, now time.Time) []float64 {
	status := 0.0
	if idx := project.Status.Index(); idx > 0 {
		status = float64(idx) / float64(len(models.ProjectStatuses)-1)
	}
	return []float64{
		status,
		elapsedRatio(project, now),
		clamp01(project.EndDate.Sub(now).Hours() / 24 / 365),
		clamp01(float64(len(project.TeamIDs())) / 20),
		clamp01(float64(taskCount) / 100),
	}
}

func workflowFeatures(m models.WorkflowMetrics) []float64 {
	highRatio, blockedRatio := 0.0, 0.0
	if m.TotalTasks > 0 {
		highRatio = float64(m.HighPriority) / float64(m.TotalTasks)
		blockedRatio = float64(m.BlockedTasks) / float64(m.TotalTasks)
	}
	return []float64{
		m.Ratio(models.StatusTodo),
		m.Ratio(models.StatusInProgress),
		m.Ratio(models.StatusReview),
		m.Ratio(models.StatusCompleted),
		m.ProjectProgress,
		loadVariation(m.TeamWorkload),
		highRatio,
		clamp01(float64(m.DaysRemaining) / 365),
		blockedRatio,
	}
}

// elapsedRatio is the share of the project's date span already behind us, in [0,1].
func elapsedRatio(project models.Project, now time.Time) float64 {
	span := project.EndDate.Sub(project.StartDate)
	if span <= 0 {
		return 0
	}
	return clamp01(float64(now.Sub(project.StartDate)) / float64(span))
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
