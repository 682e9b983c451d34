package ai

import (
	"context"
	"time"

	"trello-project/microservices/planner-service/logging"
)

const (
	MethodML        = "ml"
	MethodHeuristic = "heuristic"
)

// Selector is the process-wide prediction method flag. It is decided once at
// startup and never changes afterwards.
type Selector struct {
	usesModel bool
	client    *ModelClient
}

// HeuristicSelector always selects the rule-based path.
func HeuristicSelector() *Selector {
	return &Selector{}
}

// DetectModelRuntime probes the model runtime once. Any failure permanently
// selects the heuristic path for the lifetime of the returned Selector.
func DetectModelRuntime(ctx context.Context, client *ModelClient, timeout time.Duration) *Selector {
	if client == nil {
		logging.Logger.Info("Event ID: MODEL_RUNTIME_DISABLED, Description: No model runtime configured, using heuristic predictions")
		return HeuristicSelector()
	}

	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(probeCtx); err != nil {
		logging.Logger.Warnf("Event ID: MODEL_RUNTIME_UNAVAILABLE, Description: Model runtime at %s unavailable, using heuristic predictions: %v", client.baseURL, err)
		return HeuristicSelector()
	}

	logging.Logger.Infof("Event ID: MODEL_RUNTIME_READY, Description: Model runtime at %s acquired", client.baseURL)
	return &Selector{usesModel: true, client: client}
}

func (s *Selector) UsesModel() bool {
	return s != nil && s.usesModel
}

// Predictors holds one implementation per AI capability.
type Predictors struct {
	Duration   DurationPredictor
	Classifier ProjectClassifier
	Scorer     BottleneckScorer
}

// NewPredictors wires the model-backed variants when the flag is set and the
// heuristic variants otherwise.
func NewPredictors(s *Selector) Predictors {
	if !s.UsesModel() {
		return Predictors{
			Duration:   HeuristicDuration{},
			Classifier: KeywordClassifier{},
			Scorer:     HeuristicScorer{},
		}
	}
	return Predictors{
		Duration:   &ModelDuration{client: s.client, now: time.Now},
		Classifier: &ModelClassifier{client: s.client, now: time.Now},
		Scorer:     &ModelScorer{client: s.client},
	}
}
