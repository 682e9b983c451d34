package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"trello-project/microservices/planner-service/logging"

	"github.com/sony/gobreaker"
)

// ModelClient talks to the external inference server over JSON/HTTP.
type ModelClient struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

// NewModelClient returns nil when baseURL is empty.
func NewModelClient(baseURL string, httpClient *http.Client) *ModelClient {
	if baseURL == "" {
		return nil
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &ModelClient{
		baseURL:    baseURL,
		httpClient: httpClient,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "ModelRuntimeCB",
			MaxRequests: 1,
			Timeout:     5 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures > 3
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
			},
		}),
	}
}

type featureRequest struct {
	Features []float64 `json:"features"`
}

type durationResponse struct {
	Days float64 `json:"days"`
}

type classifyResponse struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

type bottleneckResponse struct {
	Scores []float64 `json:"scores"`
}

// Ping checks that the runtime answers its health endpoint.
func (c *ModelClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("model runtime health check returned %s", resp.Status)
	}
	return nil
}

func (c *ModelClient) PredictDuration(ctx context.Context, features []float64) (float64, error) {
	var out durationResponse
	if err := c.post(ctx, "/v1/duration", features, &out); err != nil {
		return 0, err
	}
	if math.IsNaN(out.Days) || math.IsInf(out.Days, 0) || out.Days <= 0 {
		return 0, fmt.Errorf("model returned invalid duration %v", out.Days)
	}
	return out.Days, nil
}

func (c *ModelClient) Classify(ctx context.Context, features []float64) (string, float64, error) {
	var out classifyResponse
	if err := c.post(ctx, "/v1/classify", features, &out); err != nil {
		return "", 0, err
	}
	if _, ok := categoryTemplates[out.Category]; !ok {
		return "", 0, fmt.Errorf("model returned unknown category %q", out.Category)
	}
	return out.Category, clamp01(out.Confidence), nil
}

func (c *ModelClient) ScoreBottlenecks(ctx context.Context, features []float64) ([]float64, error) {
	var out bottleneckResponse
	if err := c.post(ctx, "/v1/bottlenecks", features, &out); err != nil {
		return nil, err
	}
	if len(out.Scores) != 5 {
		return nil, fmt.Errorf("model returned %d bottleneck scores, want 5", len(out.Scores))
	}
	return out.Scores, nil
}

func (c *ModelClient) post(ctx context.Context, path string, features []float64, out any) error {
	_, err := c.breaker.Execute(func() (interface{}, error) {
		body, err := json.Marshal(featureRequest{Features: features})
		if err != nil {
			return nil, err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return nil, fmt.Errorf("model runtime %s returned %s: %s", path, resp.Status, bytes.TrimSpace(msg))
		}
		return nil, json.NewDecoder(resp.Body).Decode(out)
	})
	return err
}
