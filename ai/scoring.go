package ai

import (
	"context"
	"math"

	"trello-project/microservices/planner-service/logging"
	"trello-project/microservices/planner-service/models"
)

const (
	idealInProgressRatio = 0.3
	idealReviewRatio     = 0.2
	neutralDependency    = 0.5
)

type BottleneckScores struct {
	Resource     float64
	Distribution float64
	Efficiency   float64
	Dependency   float64
	Priority     float64
}

func (s BottleneckScores) clamped() BottleneckScores {
	return BottleneckScores{
		Resource:     clamp01(s.Resource),
		Distribution: clamp01(s.Distribution),
		Efficiency:   clamp01(s.Efficiency),
		Dependency:   clamp01(s.Dependency),
		Priority:     clamp01(s.Priority),
	}
}

type BottleneckScorer interface {
	Score(ctx context.Context, m models.WorkflowMetrics) (BottleneckScores, string)
}

// HeuristicScorer computes the five dimensions in closed form.
type HeuristicScorer struct{}

func (HeuristicScorer) Score(_ context.Context, m models.WorkflowMetrics) (BottleneckScores, string) {
	return BottleneckScores{
		Resource:     loadVariation(m.TeamWorkload),
		Distribution: distributionScore(m),
		Efficiency:   efficiencyScore(m),
		Dependency:   neutralDependency,
		Priority:     priorityScore(m),
	}.clamped(), MethodHeuristic
}

// ModelScorer asks the model runtime for all five scores.
type ModelScorer struct {
	client   *ModelClient
	fallback HeuristicScorer
}

func (s *ModelScorer) Score(ctx context.Context, m models.WorkflowMetrics) (BottleneckScores, string) {
	scores, err := s.client.ScoreBottlenecks(ctx, workflowFeatures(m))
	if err != nil {
		logging.Logger.Warnf("Event ID: MODEL_PREDICTION_FAILED, Description: Bottleneck model failed, using heuristic: %v", err)
		return s.fallback.Score(ctx, m)
	}
	return BottleneckScores{
		Resource:     scores[0],
		Distribution: scores[1],
		Efficiency:   scores[2],
		Dependency:   scores[3],
		Priority:     scores[4],
	}.clamped(), MethodML
}

// dominantStatus picks the largest of todo, in-progress and review.
func dominantStatus(m models.WorkflowMetrics) (models.TaskStatus, float64) {
	status, ratio := models.StatusTodo, m.Ratio(models.StatusTodo)
	for _, s := range []models.TaskStatus{models.StatusInProgress, models.StatusReview} {
		if r := m.Ratio(s); r > ratio {
			status, ratio = s, r
		}
	}
	return status, ratio
}

// distributionScore raises an over-represented status nonlinearly.
func distributionScore(m models.WorkflowMetrics) float64 {
	_, maxRatio := dominantStatus(m)
	if maxRatio > 0.5 {
		return 0.5 + maxRatio*0.5
	}
	return maxRatio
}

// efficiencyScore is the distance from a 30% in-progress / 20% review flow.
func efficiencyScore(m models.WorkflowMetrics) float64 {
	return math.Abs(m.Ratio(models.StatusInProgress)-idealInProgressRatio) + math.Abs(m.Ratio(models.StatusReview)-idealReviewRatio)
}

// priorityScore penalizes high-priority work that is not in progress.
func priorityScore(m models.WorkflowMetrics) float64 {
	if m.HighPriority == 0 {
		return 0
	}
	return 1 - float64(m.HighInProgress)/float64(m.HighPriority)
}

func contextSwitching(m models.WorkflowMetrics) bool {
	return m.Ratio(models.StatusInProgress) > idealInProgressRatio
}

// LevelFor maps a score to its level: below 0.3 low, below 0.6 medium, else high.
func LevelFor(score float64) models.Level {
	switch {
	case score < 0.3:
		return models.LevelLow
	case score < 0.6:
		return models.LevelMedium
	default:
		return models.LevelHigh
	}
}
