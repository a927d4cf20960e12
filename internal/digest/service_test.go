package digest

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/wecar/marketing-platform/internal/abtest"
	"github.com/wecar/marketing-platform/internal/config"
	"github.com/wecar/marketing-platform/internal/models"
)

// MockTrainingStore is a mock implementation of the training store
type MockTrainingStore struct {
	mock.Mock
}

func (m *MockTrainingStore) Insert(ctx context.Context, userID, content string, imageURL *string, postType string) (*models.TrainingExample, error) {
	args := m.Called(ctx, userID, content, imageURL, postType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TrainingExample), args.Error(1)
}

func (m *MockTrainingStore) FindByUserAndType(ctx context.Context, userID, postType string, limit int) ([]models.TrainingExample, error) {
	args := m.Called(ctx, userID, postType, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TrainingExample), args.Error(1)
}

func (m *MockTrainingStore) CountSince(ctx context.Context, since time.Time) (int, error) {
	args := m.Called(ctx, since)
	return args.Int(0), args.Error(1)
}

func (m *MockTrainingStore) RecentExamples(ctx context.Context, since time.Time, limit int) ([]models.TrainingExample, error) {
	args := m.Called(ctx, since, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TrainingExample), args.Error(1)
}

// MockArchive is a mock implementation of the report archive
type MockArchive struct {
	mock.Mock
}

func (m *MockArchive) Store(filename string, data []byte) error {
	args := m.Called(filename, data)
	return args.Error(0)
}

func (m *MockArchive) Retrieve(filename string) ([]byte, error) {
	args := m.Called(filename)
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockArchive) List(prefix string) ([]string, error) {
	args := m.Called(prefix)
	return args.Get(0).([]string), args.Error(1)
}

// MockNotificationService is a mock implementation of the notification service
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) SendDigest(report *models.ActivityReport) error {
	args := m.Called(report)
	return args.Error(0)
}

func digestFixtures() (*config.Config, *MockTrainingStore, *abtest.Service, *MockArchive, *MockNotificationService) {
	cfg := &config.Config{DigestSchedule: "weekly"}
	return cfg, &MockTrainingStore{}, abtest.NewService(), &MockArchive{}, &MockNotificationService{}
}

func TestService_Run(t *testing.T) {
	cfg, mockStore, abTests, mockArchive, mockNotifications := digestFixtures()

	examples := []models.TrainingExample{
		{ID: 1, UserID: "u1", PostType: "listing", Content: "Windsor home", CreatedAt: time.Now()},
		{ID: 2, UserID: "u2", PostType: "posts", Content: "Market thoughts", CreatedAt: time.Now()},
		{ID: 3, UserID: "u1", PostType: "listing", Content: "Another listing", CreatedAt: time.Now()},
	}

	mockStore.On("CountSince", mock.Anything, mock.Anything).Return(3, nil)
	mockStore.On("RecentExamples", mock.Anything, mock.Anything, recentExampleLimit).Return(examples, nil)

	_, err := abTests.Create("digest test", abtest.BaseContent{Content: "X"})
	assert.NoError(t, err)

	var archived []byte
	mockArchive.On("Store", mock.MatchedBy(func(name string) bool {
		return len(name) > 0
	}), mock.Anything).Run(func(args mock.Arguments) {
		archived = args.Get(1).([]byte)
	}).Return(nil)

	var sent *models.ActivityReport
	mockNotifications.On("SendDigest", mock.Anything).Run(func(args mock.Arguments) {
		sent = args.Get(0).(*models.ActivityReport)
	}).Return(nil)

	service := NewService(cfg, mockStore, abTests, mockArchive, mockNotifications)
	err = service.Run()
	assert.NoError(t, err)

	// The notified report reflects store counts and the registry snapshot
	assert.NotNil(t, sent)
	assert.Equal(t, "weekly", sent.Period)
	assert.Equal(t, 3, sent.NewExamples)
	assert.Equal(t, 1, sent.ActiveABTests)
	assert.Len(t, sent.RecentExamples, 3)

	postTypes := sent.Summary["post_types"].(map[string]int)
	assert.Equal(t, 2, postTypes["listing"])
	assert.Equal(t, 1, postTypes["posts"])
	assert.Equal(t, 2, sent.Summary["active_users"])

	// The archived JSON round-trips to the same report
	var fromArchive models.ActivityReport
	assert.NoError(t, json.Unmarshal(archived, &fromArchive))
	assert.Equal(t, sent.NewExamples, fromArchive.NewExamples)
	assert.Equal(t, sent.Period, fromArchive.Period)

	mockStore.AssertExpectations(t)
	mockArchive.AssertExpectations(t)
	mockNotifications.AssertExpectations(t)
}

func TestService_RunStoreError(t *testing.T) {
	cfg, mockStore, abTests, mockArchive, mockNotifications := digestFixtures()

	mockStore.On("CountSince", mock.Anything, mock.Anything).Return(0, errors.New("connection lost"))

	service := NewService(cfg, mockStore, abTests, mockArchive, mockNotifications)
	err := service.Run()

	assert.Error(t, err)
	mockArchive.AssertNotCalled(t, "Store", mock.Anything, mock.Anything)
	mockNotifications.AssertNotCalled(t, "SendDigest", mock.Anything)
}

func TestService_RunArchiveError(t *testing.T) {
	cfg, mockStore, abTests, mockArchive, mockNotifications := digestFixtures()

	mockStore.On("CountSince", mock.Anything, mock.Anything).Return(0, nil)
	mockStore.On("RecentExamples", mock.Anything, mock.Anything, recentExampleLimit).
		Return([]models.TrainingExample{}, nil)
	mockArchive.On("Store", mock.Anything, mock.Anything).Return(errors.New("blob unavailable"))

	service := NewService(cfg, mockStore, abTests, mockArchive, mockNotifications)
	err := service.Run()

	assert.Error(t, err)
	mockNotifications.AssertNotCalled(t, "SendDigest", mock.Anything)
}

func TestService_Metrics(t *testing.T) {
	cfg, mockStore, abTests, mockArchive, mockNotifications := digestFixtures()

	mockStore.On("CountSince", mock.Anything, mock.Anything).Return(5, nil)
	mockStore.On("RecentExamples", mock.Anything, mock.Anything, recentExampleLimit).
		Return([]models.TrainingExample{}, nil)
	mockArchive.On("Store", mock.Anything, mock.Anything).Return(nil)
	mockNotifications.On("SendDigest", mock.Anything).Return(nil)

	service := NewService(cfg, mockStore, abTests, mockArchive, mockNotifications)
	assert.NoError(t, service.Run())

	var metrics Metrics
	assert.NoError(t, json.Unmarshal([]byte(service.GetMetrics()), &metrics))
	assert.Equal(t, 5, metrics.NewExamples)
	assert.Equal(t, 0, metrics.ErrorCount)
	assert.False(t, metrics.LastRun.IsZero())
}
