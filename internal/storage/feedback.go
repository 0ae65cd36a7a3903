package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/keeperbot/internal/models"
)

// PostgresFeedback is the sqlx-backed FeedbackRepository implementation.
type PostgresFeedback struct {
	db *sqlx.DB
}

// NewPostgresFeedback builds a feedback repository over the shared pool.
func NewPostgresFeedback(db *sqlx.DB) *PostgresFeedback {
	return &PostgresFeedback{db: db}
}

// Add stores a feedback message under a fresh identifier.
func (r *PostgresFeedback) Add(ctx context.Context, userID int64, text string) (*models.Feedback, error) {
	query := `INSERT INTO feedback (id, user_id, feedback_text)
	          VALUES ($1, $2, $3)
	          RETURNING created_at`

	fb := &models.Feedback{
		ID:     uuid.NewString(),
		UserID: userID,
		Text:   text,
	}
	if err := r.db.QueryRowxContext(ctx, query, fb.ID, fb.UserID, fb.Text).Scan(&fb.CreatedAt); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return fb, nil
}
