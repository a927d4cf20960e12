package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/wecar/marketing-platform/internal/models"
)

// PostgresStore persists training examples in Postgres
type PostgresStore struct {
	db *pgxpool.Pool
}

// Ensure PostgresStore implements TrainingStore
var _ TrainingStore = (*PostgresStore)(nil)

// NewPostgresStore creates a training data store backed by the given pool
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the training_data table if it does not exist
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS training_data (
			id BIGSERIAL PRIMARY KEY,
			user_id VARCHAR(80) NOT NULL,
			content TEXT NOT NULL,
			image_url VARCHAR(2048),
			post_type VARCHAR(50) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS idx_training_data_user_type
			ON training_data (user_id, post_type);
	`

	if _, err := s.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("error creating training_data schema: %w", err)
	}
	return nil
}

// Insert saves a new training example. The insert runs in a transaction
// that is rolled back before any storage error is surfaced.
func (s *PostgresStore) Insert(ctx context.Context, userID, content string, imageURL *string, postType string) (*models.TrainingExample, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("error beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO training_data (user_id, content, image_url, post_type)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	example := models.TrainingExample{
		UserID:   userID,
		Content:  content,
		ImageURL: imageURL,
		PostType: postType,
	}

	err = tx.QueryRow(ctx, query, userID, content, imageURL, postType).
		Scan(&example.ID, &example.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("error inserting training example: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("error committing training example: %w", err)
	}

	logrus.Debugf("Stored training example %d for user %s", example.ID, example.UserID)
	return &example, nil
}

// FindByUserAndType returns up to limit training examples matching the
// given user and post type, newest first
func (s *PostgresStore) FindByUserAndType(ctx context.Context, userID, postType string, limit int) ([]models.TrainingExample, error) {
	query := `
		SELECT id, user_id, content, image_url, post_type, created_at
		FROM training_data
		WHERE user_id = $1 AND post_type = $2
		ORDER BY created_at DESC
		LIMIT $3
	`

	rows, err := s.db.Query(ctx, query, userID, postType, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying training examples: %w", err)
	}
	defer rows.Close()

	return scanExamples(rows)
}

// CountSince returns the number of training examples created after the
// given time
func (s *PostgresStore) CountSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM training_data WHERE created_at >= $1`, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting training examples: %w", err)
	}
	return count, nil
}

// RecentExamples returns up to limit examples created after the given
// time, newest first
func (s *PostgresStore) RecentExamples(ctx context.Context, since time.Time, limit int) ([]models.TrainingExample, error) {
	query := `
		SELECT id, user_id, content, image_url, post_type, created_at
		FROM training_data
		WHERE created_at >= $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := s.db.Query(ctx, query, since, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying recent examples: %w", err)
	}
	defer rows.Close()

	return scanExamples(rows)
}

func scanExamples(rows pgx.Rows) ([]models.TrainingExample, error) {
	var examples []models.TrainingExample
	for rows.Next() {
		var example models.TrainingExample
		err := rows.Scan(
			&example.ID,
			&example.UserID,
			&example.Content,
			&example.ImageURL,
			&example.PostType,
			&example.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning training example: %w", err)
		}
		examples = append(examples, example)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating training examples: %w", err)
	}

	return examples, nil
}
