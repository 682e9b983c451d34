package ai

import (
	"context"
	"math"
	"sort"
	"time"

	"trello-project/microservices/planner-service/logging"
	"trello-project/microservices/planner-service/metrics"
	"trello-project/microservices/planner-service/models"
)

const (
	// WorstCaseMultiplier applies to single-task estimates and project timelines alike.
	WorstCaseMultiplier = 1.5
	BestCaseMultiplier  = 0.7
	MinBestCase         = 0.5

	HeuristicDurationConfidence = 0.75
	ModelDurationConfidence     = 0.8
)

var baseDays = map[models.TaskPriority]float64{
	models.PriorityHigh:   3,
	models.PriorityMedium: 5,
	models.PriorityLow:    7,
}

var statusMultiplier = map[models.TaskStatus]float64{
	models.StatusInProgress: 0.7,
	models.StatusReview:     0.3,
}

type DurationPrediction struct {
	Days       float64
	Confidence float64
	Method     string
}

type DurationPredictor interface {
	PredictDuration(ctx context.Context, task models.Task) DurationPrediction
}

// HeuristicDuration derives days from priority and scales them by status.
type HeuristicDuration struct{}

func (HeuristicDuration) PredictDuration(_ context.Context, task models.Task) DurationPrediction {
	base, ok := baseDays[task.Priority]
	if !ok {
		base = baseDays[models.PriorityMedium]
	}
	multiplier, ok := statusMultiplier[task.Status]
	if !ok {
		multiplier = 1
	}
	return DurationPrediction{
		Days:       round1(base * multiplier),
		Confidence: HeuristicDurationConfidence,
		Method:     MethodHeuristic,
	}
}

// ModelDuration asks the model runtime and falls back to the heuristic on failure.
type ModelDuration struct {
	client   *ModelClient
	now      func() time.Time
	fallback HeuristicDuration
}

func (m *ModelDuration) PredictDuration(ctx context.Context, task models.Task) DurationPrediction {
	days, err := m.client.PredictDuration(ctx, taskFeatures(task, m.now()))
	if err != nil {
		logging.Logger.Warnf("Event ID: MODEL_PREDICTION_FAILED, Description: Duration model failed for task %s, using heuristic: %v", task.ID.Hex(), err)
		return m.fallback.PredictDuration(ctx, task)
	}
	return DurationPrediction{
		Days:       math.Max(MinBestCase, round1(days)),
		Confidence: ModelDurationConfidence,
		Method:     MethodML,
	}
}

// DurationEstimator turns predictions into best/worst case ranges and completion dates.
type DurationEstimator struct {
	store     Store
	predictor DurationPredictor
	now       func() time.Time
}

func NewDurationEstimator(store Store, predictor DurationPredictor) *DurationEstimator {
	return &DurationEstimator{store: store, predictor: predictor, now: time.Now}
}

// EstimateTask predicts how long a single task will take.
func (e *DurationEstimator) EstimateTask(ctx context.Context, taskID string) (*models.DurationEstimate, error) {
	id, err := models.ParseID("task", taskID)
	if err != nil {
		return nil, err
	}
	task, err := e.store.Tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	estimate := e.estimate(ctx, *task)
	return &estimate, nil
}

// ProjectTimeline estimates every task of a project, earliest completion first.
func (e *DurationEstimator) ProjectTimeline(ctx context.Context, projectID string) ([]models.DurationEstimate, error) {
	id, err := models.ParseID("project", projectID)
	if err != nil {
		return nil, err
	}
	if _, err := e.store.Projects.FindByID(ctx, id); err != nil {
		return nil, err
	}
	tasks, err := e.store.Tasks.FindByProject(ctx, id)
	if err != nil {
		return nil, err
	}

	timeline := make([]models.DurationEstimate, 0, len(tasks))
	for _, task := range tasks {
		timeline = append(timeline, e.estimate(ctx, task))
	}
	sort.SliceStable(timeline, func(i, j int) bool {
		return timeline[i].EstimatedCompletionDate.Before(timeline[j].EstimatedCompletionDate)
	})
	return timeline, nil
}

func (e *DurationEstimator) estimate(ctx context.Context, task models.Task) models.DurationEstimate {
	p := e.predictor.PredictDuration(ctx, task)
	metrics.Predictions.WithLabelValues("duration", p.Method).Inc()

	return models.DurationEstimate{
		TaskID:                  task.ID,
		TaskTitle:               task.Title,
		PredictedDays:           p.Days,
		BestCase:                math.Max(MinBestCase, round1(p.Days*BestCaseMultiplier)),
		WorstCase:               round1(p.Days * WorstCaseMultiplier),
		EstimatedCompletionDate: completionDate(e.now(), p.Days),
		Confidence:              p.Confidence,
		Method:                  p.Method,
	}
}

// completionDate adds whole calendar days; the fractional part is dropped.
func completionDate(now time.Time, days float64) time.Time {
	return now.AddDate(0, 0, int(days))
}
