package repository

import (
	"context"
	"errors"
	"fmt"

	"cleaning-service/internal/data/entity"
	"cleaning-service/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type FeedbackRepository interface {
	Create(ctx context.Context, feedback *entity.Feedback) error
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.Feedback, error)
}

type feedbackRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewFeedbackRepository(db database.Querier, log *zap.Logger) FeedbackRepository {
	return &feedbackRepository{
		db:  db,
		log: log.With(zap.String("repository", "feedback")),
	}
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *entity.Feedback) error {
	query := `
		INSERT INTO booking_feedback (id, booking_id, client_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		feedback.ID,
		feedback.BookingID,
		feedback.ClientID,
		feedback.Rating,
		feedback.Comment,
		feedback.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create feedback",
			zap.Error(err),
			zap.String("booking_id", feedback.BookingID.String()),
		)
		return fmt.Errorf("create feedback for booking %s: %w", feedback.BookingID, err)
	}

	return nil
}

// FindByBookingID returns the latest feedback left for the booking.
func (r *feedbackRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.Feedback, error) {
	query := `
		SELECT id, booking_id, client_id, rating, comment, created_at
		FROM booking_feedback
		WHERE booking_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	var feedback entity.Feedback
	err := r.db.QueryRow(ctx, query, bookingID).Scan(
		&feedback.ID,
		&feedback.BookingID,
		&feedback.ClientID,
		&feedback.Rating,
		&feedback.Comment,
		&feedback.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find feedback",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find feedback for booking %s: %w", bookingID, err)
	}

	return &feedback, nil
}
