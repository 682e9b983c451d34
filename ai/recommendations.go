package ai

import (
	"fmt"

	"trello-project/microservices/planner-service/models"
)

const (
	overloadedThreshold  = 5
	underloadedThreshold = 3
)

// recommend walks the dimensions in fixed order: resource, distribution,
// efficiency, priority. At least one recommendation is always returned.
func recommend(b models.BottleneckAnalysis, m models.WorkflowMetrics) []models.Recommendation {
	var recs []models.Recommendation
	recs = append(recs, resourceRecommendations(b.ResourceBottleneck.Level, m)...)
	recs = append(recs, distributionRecommendations(b.TaskDistribution.Level, m)...)
	recs = append(recs, efficiencyRecommendations(b.WorkflowEfficiency.Level, m)...)
	recs = append(recs, priorityRecommendations(b.PriorityAlignment.Level, m)...)

	if len(recs) < 2 {
		recs = append(recs, models.Recommendation{
			Type:        "process",
			Priority:    models.LevelLow,
			Description: "Conduct a retrospective with the team to find further improvements",
			Action:      "conduct_retrospective",
		})
	}
	return recs
}

func resourceRecommendations(level models.Level, m models.WorkflowMetrics) []models.Recommendation {
	switch level {
	case models.LevelHigh:
		var overloaded, underloaded []string
		for _, w := range m.TeamWorkload {
			if w.AssignedTasks > overloadedThreshold {
				overloaded = append(overloaded, w.Name)
			}
			if w.AssignedTasks < underloadedThreshold {
				underloaded = append(underloaded, w.Name)
			}
		}
		if len(overloaded) > 0 && len(underloaded) > 0 {
			busiest, idlest := busiestAndIdlest(m.TeamWorkload)
			return []models.Recommendation{{
				Type:     "resource",
				Priority: models.LevelHigh,
				Description: fmt.Sprintf("Redistribute tasks from %s (%d tasks) to %s (%d tasks)",
					busiest.Name, busiest.AssignedTasks, idlest.Name, idlest.AssignedTasks),
				Details: map[string]any{
					"from":        busiest.Name,
					"fromTasks":   busiest.AssignedTasks,
					"to":          idlest.Name,
					"toTasks":     idlest.AssignedTasks,
					"teamAverage": round1(averageLoad(m.TeamWorkload)),
				},
				Action: "redistribute_tasks",
			}}
		}
		if len(overloaded) > 0 {
			return []models.Recommendation{{
				Type:        "resource",
				Priority:    models.LevelHigh,
				Description: fmt.Sprintf("Consider adding resources: %d team member(s) have more than %d tasks", len(overloaded), overloadedThreshold),
				Details:     map[string]any{"overloadedMembers": overloaded},
				Action:      "add_resources",
			}}
		}
	case models.LevelMedium:
		return []models.Recommendation{{
			Type:        "resource",
			Priority:    models.LevelMedium,
			Description: "Review task assignments to balance the workload across the team",
			Action:      "review_assignments",
		}}
	}
	return nil
}

func distributionRecommendations(level models.Level, m models.WorkflowMetrics) []models.Recommendation {
	if level != models.LevelHigh {
		return nil
	}
	status, _ := dominantStatus(m)
	count := m.TasksByStatus[status]
	rec := models.Recommendation{
		Type:     "distribution",
		Priority: models.LevelHigh,
		Details:  map[string]any{"status": status, "count": count},
	}
	switch status {
	case models.StatusTodo:
		rec.Description = fmt.Sprintf("%d tasks are waiting to be started; start the most important ones", count)
		rec.Action = "start_tasks"
	case models.StatusInProgress:
		rec.Description = fmt.Sprintf("Finish the %d tasks in progress before starting new ones", count)
		rec.Action = "finish_tasks"
	default:
		rec.Description = fmt.Sprintf("Dedicate time to reviewing the %d tasks waiting in review", count)
		rec.Action = "review_tasks"
	}
	return []models.Recommendation{rec}
}

func efficiencyRecommendations(level models.Level, m models.WorkflowMetrics) []models.Recommendation {
	if level == models.LevelLow {
		return nil
	}
	recs := []models.Recommendation{{
		Type:        "efficiency",
		Priority:    level,
		Description: "Hold short daily standups to surface blockers and keep work flowing",
		Action:      "daily_standups",
	}}
	if contextSwitching(m) {
		inProgress := m.TasksByStatus[models.StatusInProgress]
		recs = append(recs, models.Recommendation{
			Type:        "efficiency",
			Priority:    models.LevelHigh,
			Description: fmt.Sprintf("Limit work in progress: %d tasks are in progress at once", inProgress),
			Details:     map[string]any{"inProgress": inProgress},
			Action:      "limit_wip",
		})
	}
	return recs
}

func priorityRecommendations(level models.Level, m models.WorkflowMetrics) []models.Recommendation {
	if level == models.LevelLow || m.HighTodo == 0 {
		return nil
	}
	return []models.Recommendation{{
		Type:        "priority",
		Priority:    models.LevelHigh,
		Description: fmt.Sprintf("Focus on the %d high-priority tasks that have not been started", m.HighTodo),
		Details:     map[string]any{"highPriorityTodo": m.HighTodo},
		Action:      "focus_high_priority",
	}}
}
