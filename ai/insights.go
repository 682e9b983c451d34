package ai

import (
	"fmt"
	"time"

	"trello-project/microservices/planner-service/models"
)

func deriveInsights(project *models.Project, m models.WorkflowMetrics, b models.BottleneckAnalysis, now time.Time) []models.Insight {
	insights := []models.Insight{}

	if project.EndDate.After(project.StartDate) {
		expected := elapsedRatio(*project, now)
		switch {
		case m.ProjectProgress < expected-0.1:
			insights = append(insights, models.Insight{
				Type: models.InsightRisk,
				Description: fmt.Sprintf("Project is behind schedule: %.0f%% complete with %.0f%% of the time elapsed",
					m.ProjectProgress*100, expected*100),
			})
		case m.ProjectProgress > expected+0.1:
			insights = append(insights, models.Insight{
				Type: models.InsightPositive,
				Description: fmt.Sprintf("Project is ahead of schedule: %.0f%% complete with %.0f%% of the time elapsed",
					m.ProjectProgress*100, expected*100),
			})
		}
	}

	if inProgress := m.TasksByStatus[models.StatusInProgress]; inProgress > 10 {
		insights = append(insights, models.Insight{
			Type:        models.InsightRisk,
			Description: fmt.Sprintf("%d tasks are in progress at the same time", inProgress),
		})
	}

	high := 0
	for _, d := range b.Dimensions() {
		if d.Level == models.LevelHigh {
			high++
		}
	}
	switch {
	case high >= 2:
		insights = append(insights, models.Insight{
			Type:        models.InsightRisk,
			Description: fmt.Sprintf("%d workflow dimensions show high bottleneck levels", high),
		})
	case high == 0:
		insights = append(insights, models.Insight{
			Type:        models.InsightPositive,
			Description: "No severe workflow bottlenecks detected",
		})
	}

	switch {
	case m.DaysRemaining < 7 && m.ProjectProgress < 0.8:
		insights = append(insights, models.Insight{
			Type: models.InsightUrgent,
			Description: fmt.Sprintf("Only %d days remain and the project is %.0f%% complete",
				m.DaysRemaining, m.ProjectProgress*100),
		})
	case m.DaysRemaining < 14 && m.ProjectProgress < 0.6:
		insights = append(insights, models.Insight{
			Type: models.InsightRisk,
			Description: fmt.Sprintf("%d days remain and the project is only %.0f%% complete",
				m.DaysRemaining, m.ProjectProgress*100),
		})
	}

	return insights
}
