package ai

import (
	"context"
	"time"

	"trello-project/microservices/planner-service/logging"
	"trello-project/microservices/planner-service/metrics"
	"trello-project/microservices/planner-service/models"

	"golang.org/x/sync/errgroup"
)

// WorkflowAnalyzer scores a project's workflow bottlenecks and recommends fixes.
type WorkflowAnalyzer struct {
	store  Store
	scorer BottleneckScorer
	now    func() time.Time
}

func NewWorkflowAnalyzer(store Store, scorer BottleneckScorer) *WorkflowAnalyzer {
	return &WorkflowAnalyzer{store: store, scorer: scorer, now: time.Now}
}

// Analyze never returns a partial result: any lookup failure aborts the analysis.
func (a *WorkflowAnalyzer) Analyze(ctx context.Context, projectID string) (*models.WorkflowAnalysis, error) {
	id, err := models.ParseID("project", projectID)
	if err != nil {
		return nil, err
	}

	project, err := a.store.Projects.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var (
		tasks []models.Task
		team  []models.User
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tasks, err = a.store.Tasks.FindByProject(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		team, err = a.store.Users.FindByIDs(gctx, project.TeamIDs())
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := a.now()
	m := collectMetrics(project, tasks, team, now)
	graphDown := false
	if a.store.Graph != nil {
		blocked, err := a.store.Graph.CountBlocked(ctx, project.ID.Hex())
		if err != nil {
			logging.Logger.Warnf("Event ID: DEPENDENCY_GRAPH_UNAVAILABLE, Description: Could not count blocked tasks for project %s: %v", project.ID.Hex(), err)
			graphDown = true
		} else {
			m.BlockedTasks = blocked
		}
	}

	scores, method := a.scorer.Score(ctx, m)
	metrics.Predictions.WithLabelValues("workflow", method).Inc()

	bottlenecks := describeBottlenecks(scores, m)
	if graphDown {
		bottlenecks.TaskDependency.Description = graphUnavailableDescription
	}
	return &models.WorkflowAnalysis{
		ProjectID:          project.ID,
		ProjectName:        project.Name,
		AnalysisDate:       now,
		Method:             method,
		Metrics:            m,
		BottleneckAnalysis: bottlenecks,
		Recommendations:    recommend(bottlenecks, m),
		Insights:           deriveInsights(project, m, bottlenecks, now),
	}, nil
}
