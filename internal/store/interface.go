package store

import (
	"context"
	"time"

	"github.com/wecar/marketing-platform/internal/models"
)

// TrainingStore defines the contract for training data persistence
type TrainingStore interface {
	Insert(ctx context.Context, userID, content string, imageURL *string, postType string) (*models.TrainingExample, error)
	FindByUserAndType(ctx context.Context, userID, postType string, limit int) ([]models.TrainingExample, error)
	CountSince(ctx context.Context, since time.Time) (int, error)
	RecentExamples(ctx context.Context, since time.Time, limit int) ([]models.TrainingExample, error)
}
