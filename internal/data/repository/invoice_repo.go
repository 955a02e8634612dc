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

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
}

type invoiceRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewInvoiceRepository(db database.Querier, log *zap.Logger) InvoiceRepository {
	return &invoiceRepository{
		db:  db,
		log: log.With(zap.String("repository", "invoice")),
	}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	query := `
		INSERT INTO invoices (id, booking_id, client_id, invoice_number, status, total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		invoice.ID,
		invoice.BookingID,
		invoice.ClientID,
		invoice.InvoiceNumber,
		invoice.Status,
		invoice.Total,
		invoice.CreatedAt,
		invoice.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create invoice",
			zap.Error(err),
			zap.String("invoice_number", invoice.InvoiceNumber),
		)
		return fmt.Errorf("create invoice %s: %w", invoice.InvoiceNumber, err)
	}

	return nil
}

func (r *invoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	query := `
		SELECT id, booking_id, client_id, invoice_number, status, total, created_at, updated_at
		FROM invoices
		WHERE id = $1
	`

	var invoice entity.Invoice
	err := r.db.QueryRow(ctx, query, id).Scan(
		&invoice.ID,
		&invoice.BookingID,
		&invoice.ClientID,
		&invoice.InvoiceNumber,
		&invoice.Status,
		&invoice.Total,
		&invoice.CreatedAt,
		&invoice.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find invoice by ID",
			zap.Error(err),
			zap.String("invoice_id", id.String()),
		)
		return nil, fmt.Errorf("find invoice by ID %s: %w", id, err)
	}

	return &invoice, nil
}
