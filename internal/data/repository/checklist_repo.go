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

type ChecklistRepository interface {
	Create(ctx context.Context, template *entity.ChecklistTemplate) error
	// FindByID loads the template with its rooms and tasks, both ordered by sort_order.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.ChecklistTemplate, error)
	// ResetRooms clears the completion flags on every template room.
	ResetRooms(ctx context.Context, id uuid.UUID) error
}

type checklistRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewChecklistRepository(db database.Querier, log *zap.Logger) ChecklistRepository {
	return &checklistRepository{
		db:  db,
		log: log.With(zap.String("repository", "checklist")),
	}
}

func (r *checklistRepository) Create(ctx context.Context, template *entity.ChecklistTemplate) error {
	query := `
		INSERT INTO client_checklists (id, client_id, street, city, special_requirements, created_at, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		template.ID,
		template.ClientID,
		template.Street,
		template.City,
		template.SpecialRequirements,
		template.CreatedAt,
		template.LastUpdated,
	)
	if err != nil {
		r.log.Error("Failed to create checklist", zap.Error(err), zap.String("checklist_id", template.ID.String()))
		return fmt.Errorf("create checklist %s: %w", template.ID, err)
	}

	for _, room := range template.Rooms {
		_, err := r.db.Exec(ctx, `
			INSERT INTO checklist_rooms (id, checklist_id, room_name, sort_order, is_completed, completed_at, completed_by, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, room.ID, template.ID, room.RoomName, room.SortOrder, room.IsCompleted, room.CompletedAt, room.CompletedBy, room.CreatedAt, room.UpdatedAt)
		if err != nil {
			r.log.Error("Failed to create checklist room", zap.Error(err), zap.String("room_id", room.ID.String()))
			return fmt.Errorf("create checklist room %s: %w", room.ID, err)
		}

		for _, task := range room.Tasks {
			_, err := r.db.Exec(ctx, `
				INSERT INTO checklist_tasks (id, room_id, task_text, notes, sort_order, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			`, task.ID, room.ID, task.TaskText, task.Notes, task.SortOrder, task.CreatedAt, task.UpdatedAt)
			if err != nil {
				r.log.Error("Failed to create checklist task", zap.Error(err), zap.String("task_id", task.ID.String()))
				return fmt.Errorf("create checklist task %s: %w", task.ID, err)
			}
		}
	}

	return nil
}

func (r *checklistRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.ChecklistTemplate, error) {
	query := `
		SELECT id, client_id, street, city, special_requirements, created_at, last_updated
		FROM client_checklists
		WHERE id = $1
	`

	var template entity.ChecklistTemplate
	err := r.db.QueryRow(ctx, query, id).Scan(
		&template.ID,
		&template.ClientID,
		&template.Street,
		&template.City,
		&template.SpecialRequirements,
		&template.CreatedAt,
		&template.LastUpdated,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find checklist by ID",
			zap.Error(err),
			zap.String("checklist_id", id.String()),
		)
		return nil, fmt.Errorf("find checklist by ID %s: %w", id, err)
	}

	rooms, err := r.findRooms(ctx, id)
	if err != nil {
		return nil, err
	}
	template.Rooms = rooms

	return &template, nil
}

func (r *checklistRepository) findRooms(ctx context.Context, checklistID uuid.UUID) ([]*entity.ChecklistRoom, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, checklist_id, room_name, sort_order, is_completed, completed_at, completed_by, created_at, updated_at
		FROM checklist_rooms
		WHERE checklist_id = $1
		ORDER BY sort_order, created_at
	`, checklistID)
	if err != nil {
		r.log.Error("Failed to find checklist rooms", zap.Error(err), zap.String("checklist_id", checklistID.String()))
		return nil, fmt.Errorf("find rooms for checklist %s: %w", checklistID, err)
	}
	defer rows.Close()

	var rooms []*entity.ChecklistRoom
	byID := make(map[uuid.UUID]*entity.ChecklistRoom)
	for rows.Next() {
		var room entity.ChecklistRoom
		err := rows.Scan(
			&room.ID,
			&room.ChecklistID,
			&room.RoomName,
			&room.SortOrder,
			&room.IsCompleted,
			&room.CompletedAt,
			&room.CompletedBy,
			&room.CreatedAt,
			&room.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan checklist room row", zap.Error(err))
			return nil, fmt.Errorf("scan checklist room row: %w", err)
		}
		rooms = append(rooms, &room)
		byID[room.ID] = &room
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate checklist rooms: %w", err)
	}
	rows.Close()

	if len(rooms) == 0 {
		return rooms, nil
	}

	taskRows, err := r.db.Query(ctx, `
		SELECT t.id, t.room_id, t.task_text, t.notes, t.sort_order, t.created_at, t.updated_at
		FROM checklist_tasks t
		JOIN checklist_rooms cr ON cr.id = t.room_id
		WHERE cr.checklist_id = $1
		ORDER BY t.sort_order, t.created_at
	`, checklistID)
	if err != nil {
		r.log.Error("Failed to find checklist tasks", zap.Error(err), zap.String("checklist_id", checklistID.String()))
		return nil, fmt.Errorf("find tasks for checklist %s: %w", checklistID, err)
	}
	defer taskRows.Close()

	for taskRows.Next() {
		var task entity.ChecklistTask
		err := taskRows.Scan(&task.ID, &task.RoomID, &task.TaskText, &task.Notes, &task.SortOrder, &task.CreatedAt, &task.UpdatedAt)
		if err != nil {
			r.log.Error("Failed to scan checklist task row", zap.Error(err))
			return nil, fmt.Errorf("scan checklist task row: %w", err)
		}
		if room, ok := byID[task.RoomID]; ok {
			room.Tasks = append(room.Tasks, &task)
		}
	}

	return rooms, taskRows.Err()
}

func (r *checklistRepository) ResetRooms(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE checklist_rooms
		SET is_completed = false, completed_at = NULL, completed_by = NULL, updated_at = NOW()
		WHERE checklist_id = $1
	`

	if _, err := r.db.Exec(ctx, query, id); err != nil {
		r.log.Error("Failed to reset checklist rooms",
			zap.Error(err),
			zap.String("checklist_id", id.String()),
		)
		return fmt.Errorf("reset rooms for checklist %s: %w", id, err)
	}

	return nil
}
