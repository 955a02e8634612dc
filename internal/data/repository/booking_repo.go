package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"cleaning-service/internal/data/entity"
	"cleaning-service/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingFilter struct {
	ClientID     *uuid.UUID
	TeamMemberID *uuid.UUID
	Statuses     []entity.BookingStatus
}

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	// FindByIDForUpdate takes an exclusive row lock for the rest of the transaction.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	// FindByIDForShare takes a shared row lock: concurrent sharers proceed,
	// exclusive lockers wait.
	FindByIDForShare(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	List(ctx context.Context, filter BookingFilter, limit, offset int) ([]*entity.Booking, error)
	Count(ctx context.Context, filter BookingFilter) (int64, error)
	Update(ctx context.Context, booking *entity.Booking) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type bookingRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewBookingRepository(db database.Querier, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, client_id, service_type, status, booking_details, scheduled_date, address,
		team_member_ids::text[], checklist_id, invoice_id, skip_invoice, admin_notes,
		started_at, completed_at, created_at, updated_at`

func scanBooking(row rowScanner) (*entity.Booking, error) {
	var (
		booking entity.Booking
		details []byte
		crew    []string
	)
	err := row.Scan(
		&booking.ID,
		&booking.ClientID,
		&booking.ServiceType,
		&booking.Status,
		&details,
		&booking.ScheduledDate,
		&booking.Address,
		&crew,
		&booking.ChecklistID,
		&booking.InvoiceID,
		&booking.SkipInvoice,
		&booking.AdminNotes,
		&booking.StartedAt,
		&booking.CompletedAt,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.Details, err = entity.DecodeBookingDetails(booking.ServiceType, details)
	if err != nil {
		return nil, fmt.Errorf("booking %s: %w", booking.ID, err)
	}

	booking.TeamMemberIDs = make([]uuid.UUID, 0, len(crew))
	for _, s := range crew {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("booking %s: team member id %q: %w", booking.ID, s, err)
		}
		booking.TeamMemberIDs = append(booking.TeamMemberIDs, id)
	}

	return &booking, nil
}

func crewStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	details, err := json.Marshal(booking.Details)
	if err != nil {
		return fmt.Errorf("encode booking details %s: %w", booking.ID, err)
	}

	query := `
		INSERT INTO bookings (id, client_id, service_type, status, booking_details, scheduled_date, address,
		                      team_member_ids, checklist_id, invoice_id, skip_invoice, admin_notes,
		                      started_at, completed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::uuid[], $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err = r.db.Exec(ctx, query,
		booking.ID,
		booking.ClientID,
		booking.ServiceType,
		booking.Status,
		details,
		booking.ScheduledDate,
		booking.Address,
		crewStrings(booking.TeamMemberIDs),
		booking.ChecklistID,
		booking.InvoiceID,
		booking.SkipInvoice,
		booking.AdminNotes,
		booking.StartedAt,
		booking.CompletedAt,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
			zap.String("client_id", booking.ClientID.String()),
		)
		return fmt.Errorf("create booking %s: %w", booking.ID, err)
	}

	return nil
}

func (r *bookingRepository) findOne(ctx context.Context, id uuid.UUID, lock string) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1` + lock

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id, err)
	}
	return booking, nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	return r.findOne(ctx, id, "")
}

func (r *bookingRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	return r.findOne(ctx, id, " FOR UPDATE")
}

func (r *bookingRepository) FindByIDForShare(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	return r.findOne(ctx, id, " FOR SHARE")
}

func filterClause(filter BookingFilter) (string, []any) {
	where := ` WHERE 1=1`
	var args []any
	if filter.ClientID != nil {
		args = append(args, *filter.ClientID)
		where += fmt.Sprintf(` AND client_id = $%d`, len(args))
	}
	if filter.TeamMemberID != nil {
		args = append(args, *filter.TeamMemberID)
		where += fmt.Sprintf(` AND $%d = ANY(team_member_ids)`, len(args))
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		args = append(args, statuses)
		where += fmt.Sprintf(` AND status = ANY($%d)`, len(args))
	}
	return where, args
}

func (r *bookingRepository) List(ctx context.Context, filter BookingFilter, limit, offset int) ([]*entity.Booking, error) {
	where, args := filterClause(filter)
	args = append(args, limit, offset)
	query := `SELECT ` + bookingColumns + ` FROM bookings` + where +
		fmt.Sprintf(` ORDER BY scheduled_date DESC NULLS LAST, created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list bookings",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

func (r *bookingRepository) Count(ctx context.Context, filter BookingFilter) (int64, error) {
	where, args := filterClause(filter)

	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bookings`+where, args...).Scan(&count); err != nil {
		r.log.Error("Failed to count bookings", zap.Error(err))
		return 0, fmt.Errorf("count bookings: %w", err)
	}
	return count, nil
}

// Update writes every mutable column. created_at is never touched.
func (r *bookingRepository) Update(ctx context.Context, booking *entity.Booking) error {
	details, err := json.Marshal(booking.Details)
	if err != nil {
		return fmt.Errorf("encode booking details %s: %w", booking.ID, err)
	}

	query := `
		UPDATE bookings
		SET service_type = $2, status = $3, booking_details = $4, scheduled_date = $5, address = $6,
		    team_member_ids = $7::uuid[], checklist_id = $8, invoice_id = $9, skip_invoice = $10,
		    admin_notes = $11, started_at = $12, completed_at = $13, updated_at = $14
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.ServiceType,
		booking.Status,
		details,
		booking.ScheduledDate,
		booking.Address,
		crewStrings(booking.TeamMemberIDs),
		booking.ChecklistID,
		booking.InvoiceID,
		booking.SkipInvoice,
		booking.AdminNotes,
		booking.StartedAt,
		booking.CompletedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
		return fmt.Errorf("update booking %s: %w", booking.ID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", booking.ID)
	}

	return nil
}

func (r *bookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return fmt.Errorf("delete booking %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", id)
	}

	r.log.Info("Booking deleted", zap.String("booking_id", id.String()))
	return nil
}
