package ai

import (
	"fmt"
	"math"

	"trello-project/microservices/planner-service/models"
)

// describeBottlenecks rounds the scores first so every level matches the score it is reported with.
func describeBottlenecks(s BottleneckScores, m models.WorkflowMetrics) models.BottleneckAnalysis {
	s = BottleneckScores{
		Resource:     round2(s.Resource),
		Distribution: round2(s.Distribution),
		Efficiency:   round2(s.Efficiency),
		Dependency:   round2(s.Dependency),
		Priority:     round2(s.Priority),
	}
	return models.BottleneckAnalysis{
		ResourceBottleneck: dimension(s.Resource, describeResource(LevelFor(s.Resource), m)),
		TaskDistribution:   dimension(s.Distribution, describeDistribution(LevelFor(s.Distribution), m)),
		WorkflowEfficiency: dimension(s.Efficiency, describeEfficiency(m)),
		TaskDependency:     dimension(s.Dependency, describeDependency(s.Dependency, m)),
		PriorityAlignment:  dimension(s.Priority, describePriority(m)),
	}
}

func dimension(score float64, description string) models.BottleneckDimension {
	return models.BottleneckDimension{
		Score:       score,
		Level:       LevelFor(score),
		Description: description,
	}
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func describeResource(level models.Level, m models.WorkflowMetrics) string {
	if len(m.TeamWorkload) == 0 {
		return "The project has no team members"
	}
	avg := averageLoad(m.TeamWorkload)
	if avg == 0 {
		return "No tasks are assigned to team members yet"
	}
	busiest, idlest := busiestAndIdlest(m.TeamWorkload)
	switch level {
	case models.LevelHigh:
		return fmt.Sprintf("Heavy workload imbalance: %s has %d tasks while %s has %d (team average %.1f)",
			busiest.Name, busiest.AssignedTasks, idlest.Name, idlest.AssignedTasks, avg)
	case models.LevelMedium:
		return fmt.Sprintf("Moderate workload imbalance: %s has %d tasks against a team average of %.1f",
			busiest.Name, busiest.AssignedTasks, avg)
	default:
		return fmt.Sprintf("Workload is evenly spread across %d team members (%.1f tasks each on average)",
			len(m.TeamWorkload), avg)
	}
}

func describeDistribution(level models.Level, m models.WorkflowMetrics) string {
	if m.TotalTasks == 0 {
		return "The project has no tasks yet"
	}
	status, ratio := dominantStatus(m)
	if level == models.LevelHigh {
		return fmt.Sprintf("Tasks are piling up in %s: %d of %d tasks (%.0f%%)",
			status, m.TasksByStatus[status], m.TotalTasks, ratio*100)
	}
	return fmt.Sprintf("The largest open share is %s with %.0f%% of tasks", status, ratio*100)
}

func describeEfficiency(m models.WorkflowMetrics) string {
	inProgress, review := m.Ratio(models.StatusInProgress), m.Ratio(models.StatusReview)
	text := fmt.Sprintf("%.0f%% of tasks are in progress and %.0f%% in review, against a healthy flow of about 30%% and 20%%",
		inProgress*100, review*100)
	if contextSwitching(m) {
		text += "; too much work in progress suggests context switching"
	}
	if review > idealReviewRatio {
		text += "; the review queue is backing up"
	}
	return text
}

// Blocked task counts come from the dependency graph; when it cannot be
// reached the score is computed as if nothing were blocked.
const graphUnavailableDescription = "Dependency graph was unavailable; blocked tasks could not be counted and dependency risk is scored without them"

func describeDependency(score float64, m models.WorkflowMetrics) string {
	if m.BlockedTasks > 0 {
		return fmt.Sprintf("%d of %d tasks are blocked by unfinished dependencies", m.BlockedTasks, m.TotalTasks)
	}
	if score == neutralDependency {
		return "Task dependencies are not analyzed in depth; dependency risk is scored as neutral"
	}
	return fmt.Sprintf("Estimated dependency risk is %.0f%%", score*100)
}

func describePriority(m models.WorkflowMetrics) string {
	if m.HighPriority == 0 {
		return "There are no high-priority tasks"
	}
	return fmt.Sprintf("%d of %d high-priority tasks are in progress; %d have not been started",
		m.HighInProgress, m.HighPriority, m.HighTodo)
}
