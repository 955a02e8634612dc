package repository

import (
	"context"
	"fmt"

	"cleaning-service/internal/data/entity"
	"cleaning-service/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type JobEarningRepository interface {
	Create(ctx context.Context, earning *entity.JobEarning) error
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.JobEarning, error)
}

type jobEarningRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewJobEarningRepository(db database.Querier, log *zap.Logger) JobEarningRepository {
	return &jobEarningRepository{
		db:  db,
		log: log.With(zap.String("repository", "job_earning")),
	}
}

func (r *jobEarningRepository) Create(ctx context.Context, earning *entity.JobEarning) error {
	query := `
		INSERT INTO job_earnings (id, booking_id, team_member_id, amount, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query, earning.ID, earning.BookingID, earning.TeamMemberID, earning.Amount, earning.CreatedAt)
	if err != nil {
		r.log.Error("Failed to create job earning",
			zap.Error(err),
			zap.String("booking_id", earning.BookingID.String()),
			zap.String("team_member_id", earning.TeamMemberID.String()),
		)
		return fmt.Errorf("create job earning for booking %s: %w", earning.BookingID, err)
	}

	return nil
}

func (r *jobEarningRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.JobEarning, error) {
	query := `
		SELECT id, booking_id, team_member_id, amount, created_at
		FROM job_earnings
		WHERE booking_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to find job earnings",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find job earnings for booking %s: %w", bookingID, err)
	}
	defer rows.Close()

	var earnings []*entity.JobEarning
	for rows.Next() {
		var e entity.JobEarning
		if err := rows.Scan(&e.ID, &e.BookingID, &e.TeamMemberID, &e.Amount, &e.CreatedAt); err != nil {
			r.log.Error("Failed to scan job earning row", zap.Error(err))
			return nil, fmt.Errorf("scan job earning row: %w", err)
		}
		earnings = append(earnings, &e)
	}

	return earnings, rows.Err()
}
