package ai

import (
	"math"
	"time"

	"trello-project/microservices/planner-service/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// collectMetrics aggregates task counts, progress and per-member workload.
// Unassigned tasks and tasks assigned outside the team count toward status
// totals only.
func collectMetrics(project *models.Project, tasks []models.Task, team []models.User, now time.Time) models.WorkflowMetrics {
	m := models.WorkflowMetrics{
		TasksByStatus: make(map[models.TaskStatus]int, len(models.TaskStatuses)),
		TotalTasks:    len(tasks),
		DaysRemaining: int(math.Ceil(project.EndDate.Sub(now).Hours() / 24)),
	}
	for _, s := range models.TaskStatuses {
		m.TasksByStatus[s] = 0
	}

	names := make(map[primitive.ObjectID]string, len(team))
	for _, u := range team {
		names[u.ID] = u.Name
	}

	teamIDs := project.TeamIDs()
	workload := make(map[primitive.ObjectID]*models.MemberWorkload, len(teamIDs))
	m.TeamWorkload = make([]models.MemberWorkload, 0, len(teamIDs))
	for _, id := range teamIDs {
		name, ok := names[id]
		if !ok {
			name = id.Hex()
		}
		workload[id] = &models.MemberWorkload{
			UserID:        id,
			Name:          name,
			TasksByStatus: make(map[models.TaskStatus]int),
		}
	}

	for _, t := range tasks {
		m.TasksByStatus[t.Status]++
		if t.Priority == models.PriorityHigh {
			m.HighPriority++
			switch t.Status {
			case models.StatusInProgress:
				m.HighInProgress++
			case models.StatusTodo:
				m.HighTodo++
			}
		}
		if t.AssignedTo == nil {
			continue
		}
		if w, ok := workload[*t.AssignedTo]; ok {
			w.AssignedTasks++
			w.TasksByStatus[t.Status]++
		}
	}

	for _, id := range teamIDs {
		m.TeamWorkload = append(m.TeamWorkload, *workload[id])
	}

	if m.TotalTasks > 0 {
		m.ProjectProgress = float64(m.TasksByStatus[models.StatusCompleted]) / float64(m.TotalTasks)
	}
	return m
}

// loadVariation is the coefficient of variation of assigned task counts,
// capped at 1. An idle or perfectly even team scores 0.
func loadVariation(team []models.MemberWorkload) float64 {
	if len(team) == 0 {
		return 0
	}
	sum, lo, hi := 0.0, math.Inf(1), math.Inf(-1)
	for _, w := range team {
		c := float64(w.AssignedTasks)
		sum += c
		lo = math.Min(lo, c)
		hi = math.Max(hi, c)
	}
	mean := sum / float64(len(team))
	if mean == 0 || hi == lo {
		return 0
	}
	variance := 0.0
	for _, w := range team {
		d := float64(w.AssignedTasks) - mean
		variance += d * d
	}
	variance /= float64(len(team))
	return clamp01(math.Sqrt(variance) / mean)
}

func averageLoad(team []models.MemberWorkload) float64 {
	if len(team) == 0 {
		return 0
	}
	sum := 0
	for _, w := range team {
		sum += w.AssignedTasks
	}
	return float64(sum) / float64(len(team))
}

// busiestAndIdlest returns the most and the least loaded members; ties keep team order.
func busiestAndIdlest(team []models.MemberWorkload) (models.MemberWorkload, models.MemberWorkload) {
	busiest, idlest := team[0], team[0]
	for _, w := range team[1:] {
		if w.AssignedTasks > busiest.AssignedTasks {
			busiest = w
		}
		if w.AssignedTasks < idlest.AssignedTasks {
			idlest = w
		}
	}
	return busiest, idlest
}
