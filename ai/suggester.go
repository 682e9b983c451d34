package ai

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	"trello-project/microservices/planner-service/logging"
	"trello-project/microservices/planner-service/metrics"
	"trello-project/microservices/planner-service/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/rand"
)

const DefaultSuggestionCount = 3

type Classification struct {
	Category   string
	Confidence float64
	Method     string
}

type ProjectClassifier interface {
	Classify(ctx context.Context, project models.Project, tasks []models.Task) Classification
}

// KeywordClassifier scores categories by keyword hits in the project name (x2),
// the description and existing task titles.
type KeywordClassifier struct{}

func (KeywordClassifier) Classify(_ context.Context, project models.Project, tasks []models.Task) Classification {
	scores := make(map[string]int, len(categoryOrder))
	for _, category := range categoryOrder {
		keywords := categoryKeywords[category]
		score := 2*countKeywords(project.Name, keywords) + countKeywords(project.Description, keywords)
		for _, t := range tasks {
			score += countKeywords(t.Title, keywords)
		}
		scores[category] = score
	}

	best, bestScore, total, tied := CategoryGeneral, 0, 0, false
	for _, category := range categoryOrder {
		s := scores[category]
		total += s
		switch {
		case s > bestScore:
			best, bestScore, tied = category, s, false
		case s == bestScore && s > 0:
			tied = true
		}
	}

	if total == 0 || tied {
		return Classification{Category: CategoryGeneral, Confidence: 0.5, Method: MethodHeuristic}
	}
	return Classification{
		Category:   best,
		Confidence: float64(bestScore) / float64(total),
		Method:     MethodHeuristic,
	}
}

func countKeywords(text string, keywords []string) int {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	n := 0
	for _, w := range words {
		for _, k := range keywords {
			if w == k {
				n++
				break
			}
		}
	}
	return n
}

// ModelClassifier predicts the category from the five project features.
type ModelClassifier struct {
	client   *ModelClient
	now      func() time.Time
	fallback KeywordClassifier
}

func (m *ModelClassifier) Classify(ctx context.Context, project models.Project, tasks []models.Task) Classification {
	category, confidence, err := m.client.Classify(ctx, projectFeatures(project, len(tasks), m.now()))
	if err != nil {
		logging.Logger.Warnf("Event ID: MODEL_PREDICTION_FAILED, Description: Classifier failed for project %s, using keywords: %v", project.ID.Hex(), err)
		return m.fallback.Classify(ctx, project, tasks)
	}
	return Classification{Category: category, Confidence: confidence, Method: MethodML}
}

// RandomSource is the subset of *rand.Rand the suggester needs.
type RandomSource interface {
	Intn(n int) int
	Int63n(n int64) int64
}

// lockedRand makes a *rand.Rand safe to share between requests.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func NewRandomSource(seed uint64) RandomSource {
	return &lockedRand{r: rand.New(rand.NewSource(seed))}
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

func (l *lockedRand) Int63n(n int64) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Int63n(n)
}

// TaskSuggester proposes new tasks that do not duplicate existing ones.
type TaskSuggester struct {
	store      Store
	classifier ProjectClassifier
	rng        RandomSource
}

func NewTaskSuggester(store Store, classifier ProjectClassifier, rng RandomSource) *TaskSuggester {
	if rng == nil {
		rng = NewRandomSource(uint64(time.Now().UnixNano()))
	}
	return &TaskSuggester{store: store, classifier: classifier, rng: rng}
}

// Suggest returns at most count task drafts for the project.
func (s *TaskSuggester) Suggest(ctx context.Context, projectID string, count int) ([]models.SuggestedTask, error) {
	id, err := models.ParseID("project", projectID)
	if err != nil {
		return nil, err
	}
	if count <= 0 {
		count = DefaultSuggestionCount
	}

	project, err := s.store.Projects.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	tasks, err := s.store.Tasks.FindByProject(ctx, id)
	if err != nil {
		return nil, err
	}

	class := s.classifier.Classify(ctx, *project, tasks)
	metrics.Predictions.WithLabelValues("suggestion", class.Method).Inc()

	candidates := s.candidates(class.Category, tasks, count)
	confidence := fmt.Sprintf("%.0f", clamp01(class.Confidence)*100)

	suggestions := make([]models.SuggestedTask, 0, len(candidates))
	for _, c := range candidates {
		suggestions = append(suggestions, models.SuggestedTask{
			Title:       c.Title,
			Description: fmt.Sprintf("%s for the %s project", c.Title, project.Name),
			Status:      models.StatusTodo,
			Priority:    c.Priority,
			DueDate:     s.dueDate(project.StartDate, project.EndDate),
			Project:     project.ID,
			AssignedTo:  s.assignee(project),
			CreatedBy:   project.Owner,
			Category:    c.Category,
			Confidence:  confidence,
			Method:      class.Method,
		})
	}
	return suggestions, nil
}

// candidates merges category and general templates, drops titles that already
// exist and pads with generated tasks until count is reached.
func (s *TaskSuggester) candidates(category string, tasks []models.Task, count int) []taskTemplate {
	taken := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		taken[normalizeTitle(t.Title)] = true
	}

	pool := append([]taskTemplate{}, categoryTemplates[category]...)
	if category != CategoryGeneral {
		pool = append(pool, categoryTemplates[CategoryGeneral]...)
	}

	out := make([]taskTemplate, 0, count)
	for _, c := range pool {
		if len(out) == count {
			return out
		}
		key := normalizeTitle(c.Title)
		if taken[key] {
			continue
		}
		taken[key] = true
		out = append(out, c)
	}

	for i := 0; len(out) < count; i++ {
		k := len(tasks) + i + 1 + s.rng.Intn(3)
		c := taskTemplate{Title: fmt.Sprintf("Project milestone %d", k), Priority: models.PriorityMedium, Category: CategoryGeneral}
		if i%2 == 1 {
			c = taskTemplate{Title: fmt.Sprintf("Weekly team meeting %d", k), Priority: models.PriorityLow, Category: CategoryGeneral}
		}
		key := normalizeTitle(c.Title)
		if taken[key] {
			continue
		}
		taken[key] = true
		out = append(out, c)
	}
	return out
}

// dueDate is uniform over [start, end]; a degenerate span yields start.
func (s *TaskSuggester) dueDate(start, end time.Time) time.Time {
	span := end.Sub(start)
	if span <= 0 {
		return start
	}
	return start.Add(time.Duration(s.rng.Int63n(int64(span) + 1)))
}

func (s *TaskSuggester) assignee(project *models.Project) *primitive.ObjectID {
	id := project.Owner
	if len(project.Members) > 0 {
		id = project.Members[s.rng.Intn(len(project.Members))]
	}
	return &id
}

func normalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
