package recommend

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/wecar/marketing-platform/internal/models"
	"github.com/wecar/marketing-platform/internal/seo"
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

func newTestService(store *MockTrainingStore) *Service {
	return NewService(store, seo.NewAnalyzer())
}

func TestService_NoTrainingData(t *testing.T) {
	mockStore := &MockTrainingStore{}
	mockStore.On("FindByUserAndType", mock.Anything, "u1", "listing", 10).
		Return([]models.TrainingExample{}, nil)

	service := newTestService(mockStore)
	result := service.Recommend(context.Background(), "u1", "listing", "instagram")

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "No training data found for 'listing'")
	assert.Empty(t, result.Recommendations)
	mockStore.AssertExpectations(t)
}

func TestService_StorageError(t *testing.T) {
	mockStore := &MockTrainingStore{}
	mockStore.On("FindByUserAndType", mock.Anything, "u1", "posts", 10).
		Return(nil, errors.New("connection refused"))

	service := newTestService(mockStore)
	result := service.Recommend(context.Background(), "u1", "posts", "instagram")

	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
	assert.Empty(t, result.Recommendations)
}

func TestService_GeneratesThreeRecommendations(t *testing.T) {
	examples := []models.TrainingExample{
		{ID: 1, UserID: "u1", PostType: "listing", Content: "Beautiful Windsor home with a big backyard."},
		{ID: 2, UserID: "u1", PostType: "listing", Content: "Open house in Tecumseh this Saturday, contact me!"},
	}

	mockStore := &MockTrainingStore{}
	mockStore.On("FindByUserAndType", mock.Anything, "u1", "listing", 10).
		Return(examples, nil)

	service := newTestService(mockStore)
	result := service.Recommend(context.Background(), "u1", "listing", "instagram")

	assert.True(t, result.Success)
	assert.Empty(t, result.Error)
	assert.Len(t, result.Recommendations, 3)

	for i, rec := range result.Recommendations {
		assert.Contains(t, rec.Content, "A new post about listing")
		assert.Contains(t, rec.Content, "(Inspired by your post: '")
		assert.Contains(t, rec.Focus, "based on your 'listing' style")
		assert.Contains(t, rec.Focus, "Variation")
		assert.Equal(t, []string{"#WindsorRealEstate", "#listing"}, rec.Hashtags)
		assert.GreaterOrEqual(t, rec.SeoScore, 0, "recommendation %d", i)
		assert.LessOrEqual(t, rec.SeoScore, 100, "recommendation %d", i)
		assert.NotEmpty(t, rec.SeoRecommendations)
	}
}

func TestService_DeterministicWithInjectedPicker(t *testing.T) {
	examples := []models.TrainingExample{
		{ID: 1, UserID: "u1", PostType: "posts", Content: "First example content"},
		{ID: 2, UserID: "u1", PostType: "posts", Content: "Second example content"},
	}

	mockStore := &MockTrainingStore{}
	mockStore.On("FindByUserAndType", mock.Anything, "u1", "posts", 10).
		Return(examples, nil)

	service := newTestService(mockStore)
	service.pick = func(n int) int { return 1 } // always the second example

	result := service.Recommend(context.Background(), "u1", "posts", "instagram")

	assert.True(t, result.Success)
	for _, rec := range result.Recommendations {
		assert.Contains(t, rec.Content, "Second example content")
	}
}

func TestService_ContentTypeUnderscoresReplaced(t *testing.T) {
	examples := []models.TrainingExample{
		{ID: 1, UserID: "u1", PostType: "market_update", Content: "Prices are up in Essex county this month."},
	}

	mockStore := &MockTrainingStore{}
	mockStore.On("FindByUserAndType", mock.Anything, "u1", "market_update", 10).
		Return(examples, nil)

	service := newTestService(mockStore)
	result := service.Recommend(context.Background(), "u1", "market_update", "instagram")

	assert.True(t, result.Success)
	assert.Contains(t, result.Recommendations[0].Content, "A new post about market update")
	assert.Equal(t, []string{"#WindsorRealEstate", "#market_update"}, result.Recommendations[0].Hashtags)
}

func TestService_LongContentTruncatedToFiftyRunes(t *testing.T) {
	long := "This content is definitely much longer than fifty characters and should be cut before quoting."
	examples := []models.TrainingExample{
		{ID: 1, UserID: "u1", PostType: "posts", Content: long},
	}

	mockStore := &MockTrainingStore{}
	mockStore.On("FindByUserAndType", mock.Anything, "u1", "posts", 10).
		Return(examples, nil)

	service := newTestService(mockStore)
	result := service.Recommend(context.Background(), "u1", "posts", "instagram")

	assert.True(t, result.Success)
	assert.Contains(t, result.Recommendations[0].Content, long[:50]+"...")
	assert.NotContains(t, result.Recommendations[0].Content, long)
}
