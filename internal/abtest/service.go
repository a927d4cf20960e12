package abtest

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/wecar/marketing-platform/internal/models"
)

// ErrNotFound is returned when a test id has no matching record
var ErrNotFound = errors.New("ab test not found")

// BaseContent is the seed content an A/B test is generated from
type BaseContent struct {
	Content     string `json:"content"`
	ContentType string `json:"content_type,omitempty"`
	Platform    string `json:"platform,omitempty"`
}

// Service creates and manages simple A/B tests. Tests are held in a
// process-wide registry guarded by a mutex and are lost on restart.
type Service struct {
	mu    sync.RWMutex
	tests map[string]models.ABTest
	newID func() string
}

// NewService creates an A/B testing service with an empty registry
func NewService() *Service {
	return &Service{
		tests: make(map[string]models.ABTest),
		newID: uuid.NewString,
	}
}

// Create generates a new A/B test with two variations derived from the
// base content and stores it in the registry
func (s *Service) Create(testName string, base BaseContent) (models.ABTest, error) {
	if base.Content == "" {
		return models.ABTest{}, errors.New("base content is required")
	}

	if testName == "" {
		testName = "New A/B Test"
	}
	contentType := base.ContentType
	if contentType == "" {
		contentType = "general"
	}
	platform := base.Platform
	if platform == "" {
		platform = "instagram"
	}

	variations := make([]models.ABTestVariation, 0, 2)
	for i := 0; i < 2; i++ {
		variations = append(variations, models.ABTestVariation{
			ID:       s.newID(),
			Content:  fmt.Sprintf("%s\n\nVariation %d: try a different opening.", base.Content, i+1),
			Hashtags: []string{"#Test", "#" + contentType},
		})
	}

	test := models.ABTest{
		ID:          s.newID(),
		Name:        testName,
		ContentType: contentType,
		Platform:    platform,
		Variations:  variations,
		Status:      "draft",
	}

	s.mu.Lock()
	s.tests[test.ID] = test
	s.mu.Unlock()

	logrus.Infof("Created A/B test %s (%q) with %d variations", test.ID, test.Name, len(test.Variations))
	return test, nil
}

// List returns all tests currently in the registry, in no particular order
func (s *Service) List() []models.ABTest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tests := make([]models.ABTest, 0, len(s.tests))
	for _, test := range s.tests {
		tests = append(tests, test)
	}
	return tests
}

// Get returns the stored test plus a canned analysis narrative. Lookups
// with an unknown id yield ErrNotFound.
func (s *Service) Get(id string) (models.ABTest, models.ABTestAnalysis, error) {
	s.mu.RLock()
	test, ok := s.tests[id]
	s.mu.RUnlock()

	if !ok {
		return models.ABTest{}, models.ABTestAnalysis{}, ErrNotFound
	}

	return test, s.analysisFor(test), nil
}

// Count returns the number of tests in the registry
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tests)
}

func (s *Service) analysisFor(test models.ABTest) models.ABTestAnalysis {
	return models.ABTestAnalysis{
		Summary: fmt.Sprintf("Test %q has %d variations awaiting engagement data.",
			test.Name, len(test.Variations)),
		Winner:     "undetermined",
		Confidence: "low",
		NextSteps: []string{
			"Publish both variations to your audience segments.",
			"Collect at least one week of engagement metrics before comparing.",
			"Promote the better-performing variation to 'running'.",
		},
	}
}
