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

type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Client, error)
	AddTotalSpent(ctx context.Context, id uuid.UUID, amount float64) error
}

type clientRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewClientRepository(db database.Querier, log *zap.Logger) ClientRepository {
	return &clientRepository{
		db:  db,
		log: log.With(zap.String("repository", "client")),
	}
}

func (r *clientRepository) Create(ctx context.Context, client *entity.Client) error {
	query := `
		INSERT INTO clients (id, name, email, phone, address, total_spent, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		client.ID,
		client.Name,
		client.Email,
		client.Phone,
		client.Address,
		client.TotalSpent,
		client.CreatedAt,
		client.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create client",
			zap.Error(err),
			zap.String("client_id", client.ID.String()),
		)
		return fmt.Errorf("create client %s: %w", client.ID, err)
	}

	return nil
}

func (r *clientRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Client, error) {
	query := `
		SELECT id, name, email, phone, address, total_spent, created_at, updated_at
		FROM clients
		WHERE id = $1
	`

	var client entity.Client
	err := r.db.QueryRow(ctx, query, id).Scan(
		&client.ID,
		&client.Name,
		&client.Email,
		&client.Phone,
		&client.Address,
		&client.TotalSpent,
		&client.CreatedAt,
		&client.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find client by ID",
			zap.Error(err),
			zap.String("client_id", id.String()),
		)
		return nil, fmt.Errorf("find client by ID %s: %w", id, err)
	}

	return &client, nil
}

// AddTotalSpent accepts negative amounts so a deleted paid booking can be reversed.
func (r *clientRepository) AddTotalSpent(ctx context.Context, id uuid.UUID, amount float64) error {
	query := `
		UPDATE clients
		SET total_spent = GREATEST(total_spent + $2, 0), updated_at = NOW()
		WHERE id = $1
	`

	if _, err := r.db.Exec(ctx, query, id, amount); err != nil {
		r.log.Error("Failed to update client total spent",
			zap.Error(err),
			zap.String("client_id", id.String()),
			zap.Float64("amount", amount),
		)
		return fmt.Errorf("add total spent for client %s: %w", id, err)
	}

	return nil
}
