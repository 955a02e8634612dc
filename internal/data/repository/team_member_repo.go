package repository

import (
	"context"
	"fmt"

	"cleaning-service/internal/data/entity"
	"cleaning-service/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type TeamMemberRepository interface {
	Create(ctx context.Context, member *entity.TeamMember) error
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.TeamMember, error)
}

type teamMemberRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewTeamMemberRepository(db database.Querier, log *zap.Logger) TeamMemberRepository {
	return &teamMemberRepository{
		db:  db,
		log: log.With(zap.String("repository", "team_member")),
	}
}

func (r *teamMemberRepository) Create(ctx context.Context, member *entity.TeamMember) error {
	query := `
		INSERT INTO team_members (id, name, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query, member.ID, member.Name, member.IsActive, member.CreatedAt, member.UpdatedAt)
	if err != nil {
		r.log.Error("Failed to create team member",
			zap.Error(err),
			zap.String("team_member_id", member.ID.String()),
		)
		return fmt.Errorf("create team member %s: %w", member.ID, err)
	}

	return nil
}

// FindByIDs returns the members that exist, ordered by name. Unknown ids are skipped.
func (r *teamMemberRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.TeamMember, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, name, is_active, created_at, updated_at
		FROM team_members
		WHERE id = ANY($1::uuid[])
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query, crewStrings(ids))
	if err != nil {
		r.log.Error("Failed to find team members", zap.Error(err), zap.Int("count", len(ids)))
		return nil, fmt.Errorf("find team members: %w", err)
	}

	return r.scanMembers(rows)
}

func (r *teamMemberRepository) scanMembers(rows pgx.Rows) ([]*entity.TeamMember, error) {
	defer rows.Close()

	var members []*entity.TeamMember
	for rows.Next() {
		var m entity.TeamMember
		if err := rows.Scan(&m.ID, &m.Name, &m.IsActive, &m.CreatedAt, &m.UpdatedAt); err != nil {
			r.log.Error("Failed to scan team member row", zap.Error(err))
			return nil, fmt.Errorf("scan team member row: %w", err)
		}
		members = append(members, &m)
	}

	return members, rows.Err()
}
