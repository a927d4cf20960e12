package digest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wecar/marketing-platform/internal/abtest"
	"github.com/wecar/marketing-platform/internal/config"
	"github.com/wecar/marketing-platform/internal/models"
	"github.com/wecar/marketing-platform/internal/notifications"
	"github.com/wecar/marketing-platform/internal/storage"
	"github.com/wecar/marketing-platform/internal/store"
)

const recentExampleLimit = 25

// Service builds periodic digests of platform activity: training data
// submissions and the state of the A/B test registry
type Service struct {
	config              *config.Config
	trainingStore       store.TrainingStore
	abTests             *abtest.Service
	archive             storage.ArchiveInterface
	notificationService notifications.NotificationInterface
	metrics             *Metrics
	mu                  sync.RWMutex
}

// Metrics holds digest run metrics
type Metrics struct {
	LastRun         time.Time `json:"last_run"`
	LastRunDuration string    `json:"last_run_duration"`
	NewExamples     int       `json:"new_examples"`
	ActiveABTests   int       `json:"active_ab_tests"`
	ErrorCount      int       `json:"error_count"`
}

// NewService creates a new digest service
func NewService(cfg *config.Config, trainingStore store.TrainingStore, abTests *abtest.Service,
	archive storage.ArchiveInterface, notificationService notifications.NotificationInterface) *Service {
	return &Service{
		config:              cfg,
		trainingStore:       trainingStore,
		abTests:             abTests,
		archive:             archive,
		notificationService: notificationService,
		metrics:             &Metrics{},
	}
}

// Run builds the digest for the configured period, archives it, and sends
// it via the notification channels
func (s *Service) Run() error {
	start := time.Now()
	logrus.Info("Starting digest run")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var window time.Duration
	switch s.config.DigestSchedule {
	case "daily":
		window = 24 * time.Hour
	default:
		window = 7 * 24 * time.Hour
	}
	since := start.Add(-window)

	report, err := s.buildReport(ctx, since)
	if err != nil {
		s.recordError()
		return err
	}

	if err := s.archiveReport(report); err != nil {
		logrus.Errorf("Failed to archive digest: %v", err)
		s.recordError()
		return err
	}

	if err := s.notificationService.SendDigest(report); err != nil {
		logrus.Errorf("Failed to send digest: %v", err)
		s.recordError()
		return err
	}

	s.updateMetrics(report, time.Since(start))
	logrus.Infof("Digest run completed in %v (%d new examples, %d active tests)",
		time.Since(start), report.NewExamples, report.ActiveABTests)
	return nil
}

func (s *Service) buildReport(ctx context.Context, since time.Time) (*models.ActivityReport, error) {
	count, err := s.trainingStore.CountSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to count training examples: %w", err)
	}

	recent, err := s.trainingStore.RecentExamples(ctx, since, recentExampleLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent examples: %w", err)
	}

	report := &models.ActivityReport{
		GeneratedAt:    time.Now().UTC(),
		Period:         s.config.DigestSchedule,
		NewExamples:    count,
		ActiveABTests:  s.abTests.Count(),
		RecentExamples: recent,
		Summary:        make(map[string]interface{}),
	}

	postTypes := make(map[string]int)
	users := make(map[string]int)
	for _, example := range recent {
		postTypes[example.PostType]++
		users[example.UserID]++
	}
	report.Summary["post_types"] = postTypes
	report.Summary["active_users"] = len(users)

	return report, nil
}

func (s *Service) archiveReport(report *models.ActivityReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal digest: %w", err)
	}

	filename := fmt.Sprintf("digest-%s.json", report.GeneratedAt.Format("2006-01-02-15-04-05"))
	return s.archive.Store(filename, data)
}

func (s *Service) updateMetrics(report *models.ActivityReport, duration time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics.LastRun = time.Now()
	s.metrics.LastRunDuration = duration.String()
	s.metrics.NewExamples = report.NewExamples
	s.metrics.ActiveABTests = report.ActiveABTests
}

func (s *Service) recordError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics.ErrorCount++
}

// GetMetrics returns current metrics as JSON
func (s *Service) GetMetrics() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, _ := json.MarshalIndent(s.metrics, "", "  ")
	return string(data)
}
