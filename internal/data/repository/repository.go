package repository

import (
	"context"

	"cleaning-service/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type Repository struct {
	Client      ClientRepository
	TeamMember  TeamMemberRepository
	Checklist   ChecklistRepository
	Booking     BookingRepository
	BookingRoom BookingRoomRepository
	Invoice     InvoiceRepository
	JobEarning  JobEarningRepository
	Feedback    FeedbackRepository
	Loyalty     LoyaltyRepository

	atomic func(ctx context.Context, fn func(r *Repository) error) error
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	repo := newRepository(db, log)
	repo.atomic = func(ctx context.Context, fn func(r *Repository) error) error {
		return database.WithTx(ctx, db, func(tx pgx.Tx) error {
			return fn(newRepository(tx, log))
		})
	}
	return repo
}

func newRepository(q database.Querier, log *zap.Logger) *Repository {
	return &Repository{
		Client:      NewClientRepository(q, log),
		TeamMember:  NewTeamMemberRepository(q, log),
		Checklist:   NewChecklistRepository(q, log),
		Booking:     NewBookingRepository(q, log),
		BookingRoom: NewBookingRoomRepository(q, log),
		Invoice:     NewInvoiceRepository(q, log),
		JobEarning:  NewJobEarningRepository(q, log),
		Feedback:    NewFeedbackRepository(q, log),
		Loyalty:     NewLoyaltyRepository(q, log),
	}
}

// Atomic runs fn against a transaction-scoped copy of the repository.
// Inside fn (or on a repository without a database) it simply calls fn.
func (r *Repository) Atomic(ctx context.Context, fn func(r *Repository) error) error {
	if r.atomic == nil {
		return fn(r)
	}
	return r.atomic(ctx, fn)
}

type rowScanner interface {
	Scan(dest ...any) error
}
