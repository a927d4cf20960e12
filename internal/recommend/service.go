package recommend

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wecar/marketing-platform/internal/models"
	"github.com/wecar/marketing-platform/internal/seo"
	"github.com/wecar/marketing-platform/internal/store"
)

const (
	trainingFetchLimit  = 10
	recommendationCount = 3
	inspirationPrefix   = 50 // runes quoted from the chosen example
)

// Service generates SEO-scored content recommendations from a user's
// stored training examples
type Service struct {
	store       store.TrainingStore
	seoAnalyzer *seo.Analyzer
	pick        func(n int) int
}

// NewService creates a recommendation service. Example selection uses a
// time-seeded source; tests replace it through the picker.
func NewService(trainingStore store.TrainingStore, seoAnalyzer *seo.Analyzer) *Service {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Service{
		store:       trainingStore,
		seoAnalyzer: seoAnalyzer,
		pick:        rng.Intn,
	}
}

// Recommend generates three content recommendations for the user based on
// their training examples of the given content type. A user with no
// matching examples gets a failure result, which is a normal outcome.
func (s *Service) Recommend(ctx context.Context, userID, contentType, platform string) models.RecommendationResult {
	examples, err := s.store.FindByUserAndType(ctx, userID, contentType, trainingFetchLimit)
	if err != nil {
		logrus.Errorf("Failed to fetch training examples for user %s: %v", userID, err)
		return models.RecommendationResult{
			Success: false,
			Error:   "Failed to fetch training data.",
		}
	}

	if len(examples) == 0 {
		return models.RecommendationResult{
			Success: false,
			Error:   fmt.Sprintf("No training data found for '%s'. Please add examples first.", contentType),
		}
	}

	recommendations := make([]models.Recommendation, 0, recommendationCount)
	for i := 0; i < recommendationCount; i++ {
		base := examples[s.pick(len(examples))]

		topic := fmt.Sprintf("A new post about %s", strings.ReplaceAll(contentType, "_", " "))
		content := fmt.Sprintf("%s.\n\n(Inspired by your post: '%s...')", topic, truncateRunes(base.Content, inspirationPrefix))
		seoResult := s.seoAnalyzer.Analyze(content)

		recommendations = append(recommendations, models.Recommendation{
			Content:            content,
			Focus:              fmt.Sprintf("Variation %d based on your '%s' style", i+1, base.PostType),
			Hashtags:           []string{"#WindsorRealEstate", "#" + contentType},
			SeoScore:           seoResult.Score,
			SeoRecommendations: seoResult.Recommendations,
		})
	}

	logrus.Infof("Generated %d recommendations for user %s (%s)", len(recommendations), userID, contentType)
	return models.RecommendationResult{
		Success:         true,
		Recommendations: recommendations,
	}
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
