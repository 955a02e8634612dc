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

type LoyaltyRepository interface {
	FindLedger(ctx context.Context, clientID uuid.UUID) (*entity.LoyaltyLedger, error)
	FindLedgerForUpdate(ctx context.Context, clientID uuid.UUID) (*entity.LoyaltyLedger, error)
	// InsertTransaction reports false when an earned row for the same booking
	// already exists.
	InsertTransaction(ctx context.Context, tx *entity.LoyaltyTransaction) (bool, error)
	// ApplyDelta adds to the client's balance, creating the ledger on first use.
	ApplyDelta(ctx context.Context, clientID uuid.UUID, credits, earned, spent int) error
	// SetTotals overwrites the ledger with freshly summed figures.
	SetTotals(ctx context.Context, clientID uuid.UUID, earned, spent int) error
	DeleteEarnedForBooking(ctx context.Context, bookingID uuid.UUID) ([]*entity.LoyaltyTransaction, error)
	ListTransactions(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]*entity.LoyaltyTransaction, error)
	SumTransactions(ctx context.Context, clientID uuid.UUID) (earned, redeemed int, err error)
}

type loyaltyRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewLoyaltyRepository(db database.Querier, log *zap.Logger) LoyaltyRepository {
	return &loyaltyRepository{
		db:  db,
		log: log.With(zap.String("repository", "loyalty")),
	}
}

func (r *loyaltyRepository) findLedger(ctx context.Context, clientID uuid.UUID, lock string) (*entity.LoyaltyLedger, error) {
	query := `
		SELECT id, client_id, current_credits, total_earned, total_spent, created_at, updated_at
		FROM loyalty_credits
		WHERE client_id = $1` + lock

	var ledger entity.LoyaltyLedger
	err := r.db.QueryRow(ctx, query, clientID).Scan(
		&ledger.ID,
		&ledger.ClientID,
		&ledger.CurrentCredits,
		&ledger.TotalEarned,
		&ledger.TotalSpent,
		&ledger.CreatedAt,
		&ledger.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find loyalty ledger",
			zap.Error(err),
			zap.String("client_id", clientID.String()),
		)
		return nil, fmt.Errorf("find loyalty ledger for client %s: %w", clientID, err)
	}

	return &ledger, nil
}

func (r *loyaltyRepository) FindLedger(ctx context.Context, clientID uuid.UUID) (*entity.LoyaltyLedger, error) {
	return r.findLedger(ctx, clientID, "")
}

func (r *loyaltyRepository) FindLedgerForUpdate(ctx context.Context, clientID uuid.UUID) (*entity.LoyaltyLedger, error) {
	return r.findLedger(ctx, clientID, " FOR UPDATE")
}

func (r *loyaltyRepository) InsertTransaction(ctx context.Context, tx *entity.LoyaltyTransaction) (bool, error) {
	query := `
		INSERT INTO loyalty_transactions (id, client_id, amount, type, description, related_booking_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT DO NOTHING
	`

	result, err := r.db.Exec(ctx, query,
		tx.ID,
		tx.ClientID,
		tx.Amount,
		tx.Type,
		tx.Description,
		tx.RelatedBookingID,
		tx.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to insert loyalty transaction",
			zap.Error(err),
			zap.String("client_id", tx.ClientID.String()),
			zap.String("type", string(tx.Type)),
		)
		return false, fmt.Errorf("insert loyalty transaction for client %s: %w", tx.ClientID, err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *loyaltyRepository) ApplyDelta(ctx context.Context, clientID uuid.UUID, credits, earned, spent int) error {
	query := `
		INSERT INTO loyalty_credits (id, client_id, current_credits, total_earned, total_spent)
		VALUES ($1, $2, GREATEST($3, 0), GREATEST($4, 0), GREATEST($5, 0))
		ON CONFLICT (client_id) DO UPDATE
		SET current_credits = GREATEST(loyalty_credits.current_credits + $3, 0),
		    total_earned    = GREATEST(loyalty_credits.total_earned + $4, 0),
		    total_spent     = GREATEST(loyalty_credits.total_spent + $5, 0),
		    updated_at      = NOW()
	`

	if _, err := r.db.Exec(ctx, query, uuid.New(), clientID, credits, earned, spent); err != nil {
		r.log.Error("Failed to update loyalty ledger",
			zap.Error(err),
			zap.String("client_id", clientID.String()),
			zap.Int("credits", credits),
		)
		return fmt.Errorf("apply loyalty delta for client %s: %w", clientID, err)
	}

	return nil
}

func (r *loyaltyRepository) SetTotals(ctx context.Context, clientID uuid.UUID, earned, spent int) error {
	query := `
		INSERT INTO loyalty_credits (id, client_id, current_credits, total_earned, total_spent)
		VALUES ($1, $2, GREATEST($3 - $4, 0), $3, $4)
		ON CONFLICT (client_id) DO UPDATE
		SET current_credits = GREATEST($3 - $4, 0),
		    total_earned    = $3,
		    total_spent     = $4,
		    updated_at      = NOW()
	`

	if _, err := r.db.Exec(ctx, query, uuid.New(), clientID, earned, spent); err != nil {
		r.log.Error("Failed to set loyalty totals",
			zap.Error(err),
			zap.String("client_id", clientID.String()),
		)
		return fmt.Errorf("set loyalty totals for client %s: %w", clientID, err)
	}

	return nil
}

const loyaltyTransactionColumns = `id, client_id, amount, type, description, related_booking_id, created_at`

func scanLoyaltyTransactions(rows pgx.Rows) ([]*entity.LoyaltyTransaction, error) {
	defer rows.Close()

	var txs []*entity.LoyaltyTransaction
	for rows.Next() {
		var tx entity.LoyaltyTransaction
		err := rows.Scan(
			&tx.ID,
			&tx.ClientID,
			&tx.Amount,
			&tx.Type,
			&tx.Description,
			&tx.RelatedBookingID,
			&tx.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan loyalty transaction row: %w", err)
		}
		txs = append(txs, &tx)
	}

	return txs, rows.Err()
}

func (r *loyaltyRepository) DeleteEarnedForBooking(ctx context.Context, bookingID uuid.UUID) ([]*entity.LoyaltyTransaction, error) {
	query := `
		DELETE FROM loyalty_transactions
		WHERE related_booking_id = $1 AND type = 'earned'
		RETURNING ` + loyaltyTransactionColumns

	rows, err := r.db.Query(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to delete earned loyalty transactions",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("delete earned points for booking %s: %w", bookingID, err)
	}

	return scanLoyaltyTransactions(rows)
}

func (r *loyaltyRepository) ListTransactions(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]*entity.LoyaltyTransaction, error) {
	query := `
		SELECT ` + loyaltyTransactionColumns + `
		FROM loyalty_transactions
		WHERE client_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, clientID, limit, offset)
	if err != nil {
		r.log.Error("Failed to list loyalty transactions",
			zap.Error(err),
			zap.String("client_id", clientID.String()),
		)
		return nil, fmt.Errorf("list loyalty transactions for client %s: %w", clientID, err)
	}

	return scanLoyaltyTransactions(rows)
}

func (r *loyaltyRepository) SumTransactions(ctx context.Context, clientID uuid.UUID) (int, int, error) {
	query := `
		SELECT COALESCE(SUM(amount) FILTER (WHERE type = 'earned'), 0),
		       COALESCE(SUM(amount) FILTER (WHERE type = 'redeemed'), 0)
		FROM loyalty_transactions
		WHERE client_id = $1
	`

	var earned, redeemed int
	if err := r.db.QueryRow(ctx, query, clientID).Scan(&earned, &redeemed); err != nil {
		r.log.Error("Failed to sum loyalty transactions",
			zap.Error(err),
			zap.String("client_id", clientID.String()),
		)
		return 0, 0, fmt.Errorf("sum loyalty transactions for client %s: %w", clientID, err)
	}

	return earned, redeemed, nil
}
