package ai

import (
	"context"
	"testing"
	"time"

	"trello-project/microservices/planner-service/apperrors"
	"trello-project/microservices/planner-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestHeuristicDuration_BaseDaysAndStatus(t *testing.T) {
	cases := []struct {
		priority models.TaskPriority
		status   models.TaskStatus
		want     float64
	}{
		{models.PriorityHigh, models.StatusTodo, 3},
		{models.PriorityMedium, models.StatusTodo, 5},
		{models.PriorityLow, models.StatusTodo, 7},
		{models.PriorityHigh, models.StatusInProgress, 2.1},
		{models.PriorityMedium, models.StatusInProgress, 3.5},
		{models.PriorityLow, models.StatusInProgress, 4.9},
		{models.PriorityHigh, models.StatusReview, 0.9},
		{models.PriorityMedium, models.StatusReview, 1.5},
		{models.PriorityLow, models.StatusReview, 2.1},
		{models.PriorityMedium, models.StatusCompleted, 5},
	}

	for _, tc := range cases {
		t.Run(string(tc.priority)+"/"+string(tc.status), func(t *testing.T) {
			p := HeuristicDuration{}.PredictDuration(context.Background(), models.Task{Priority: tc.priority, Status: tc.status})
			assert.InDelta(t, tc.want, p.Days, 1e-9)
			assert.Equal(t, HeuristicDurationConfidence, p.Confidence)
			assert.Equal(t, MethodHeuristic, p.Method)
		})
	}
}

func TestEstimateTask_HighPriorityTodo(t *testing.T) {
	f := newAIFixture()
	task := f.addTask("Implement checkout", models.PriorityHigh, models.StatusTodo, &f.member)
	e := NewDurationEstimator(f.store(), HeuristicDuration{})
	e.now = func() time.Time { return fixedNow }

	estimate, err := e.EstimateTask(context.Background(), task.ID.Hex())
	require.NoError(t, err)

	assert.Equal(t, task.ID, estimate.TaskID)
	assert.Equal(t, "Implement checkout", estimate.TaskTitle)
	assert.InDelta(t, 3.0, estimate.PredictedDays, 1e-9)
	assert.InDelta(t, 2.1, estimate.BestCase, 1e-9)
	assert.InDelta(t, 4.5, estimate.WorstCase, 1e-9)
	assert.Equal(t, fixedNow.AddDate(0, 0, 3), estimate.EstimatedCompletionDate)
	assert.Equal(t, 0.75, estimate.Confidence)
	assert.Equal(t, MethodHeuristic, estimate.Method)
}

func TestEstimateTask_RangeAndIdempotence(t *testing.T) {
	f := newAIFixture()
	e := NewDurationEstimator(f.store(), HeuristicDuration{})
	ctx := context.Background()

	for _, p := range models.TaskPriorities {
		for _, s := range models.TaskStatuses {
			task := f.addTask("t", p, s, nil)
			first, err := e.EstimateTask(ctx, task.ID.Hex())
			require.NoError(t, err)
			second, err := e.EstimateTask(ctx, task.ID.Hex())
			require.NoError(t, err)

			assert.LessOrEqual(t, first.BestCase, first.PredictedDays)
			assert.LessOrEqual(t, first.PredictedDays, first.WorstCase)
			assert.GreaterOrEqual(t, first.BestCase, MinBestCase)
			assert.Equal(t, first.PredictedDays, second.PredictedDays)
		}
	}
}

func TestEstimateTask_Errors(t *testing.T) {
	f := newAIFixture()
	e := NewDurationEstimator(f.store(), HeuristicDuration{})

	_, err := e.EstimateTask(context.Background(), "nope")
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)

	_, err = e.EstimateTask(context.Background(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestProjectTimeline_SortedByCompletion(t *testing.T) {
	f := newAIFixture()
	f.addTask("Low", models.PriorityLow, models.StatusTodo, nil)
	f.addTask("High", models.PriorityHigh, models.StatusTodo, nil)
	f.addTask("Review", models.PriorityMedium, models.StatusReview, nil)
	e := NewDurationEstimator(f.store(), HeuristicDuration{})
	e.now = func() time.Time { return fixedNow }

	timeline, err := e.ProjectTimeline(context.Background(), f.project.ID.Hex())
	require.NoError(t, err)
	require.Len(t, timeline, 3)

	assert.Equal(t, []string{"Review", "High", "Low"}, []string{timeline[0].TaskTitle, timeline[1].TaskTitle, timeline[2].TaskTitle})
	// Older builds used x1.3 for the timeline and x1.5 for single tasks; both now use the same multiplier.
	for _, est := range timeline {
		assert.InDelta(t, est.PredictedDays*WorstCaseMultiplier, est.WorstCase, 0.05,
			"timeline worst case must use x%.1f, not the legacy x1.3", WorstCaseMultiplier)
		assert.NotEqual(t, round1(est.PredictedDays*1.3), est.WorstCase)
	}
}

func TestProjectTimeline_MissingProject(t *testing.T) {
	f := newAIFixture()
	e := NewDurationEstimator(f.store(), HeuristicDuration{})

	_, err := e.ProjectTimeline(context.Background(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCompletionDateTruncatesFraction(t *testing.T) {
	assert.Equal(t, fixedNow.AddDate(0, 0, 2), completionDate(fixedNow, 2.9))
	assert.Equal(t, fixedNow, completionDate(fixedNow, 0.5))
}
