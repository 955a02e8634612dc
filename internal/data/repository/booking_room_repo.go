package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cleaning-service/internal/data/entity"
	"cleaning-service/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingRoomRepository interface {
	CreateBatch(ctx context.Context, rooms []*entity.BookingRoom) error
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) (entity.Snapshot, error)
	FindByID(ctx context.Context, bookingID, roomID uuid.UUID) (*entity.BookingRoom, error)
	DeleteByBookingID(ctx context.Context, bookingID uuid.UUID) error
	// MarkCompleted flips a room that is still open. It reports false when
	// the room is missing or was already completed.
	MarkCompleted(ctx context.Context, bookingID, roomID, by uuid.UUID, at time.Time) (bool, error)
}

type bookingRoomRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewBookingRoomRepository(db database.Querier, log *zap.Logger) BookingRoomRepository {
	return &bookingRoomRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking_room")),
	}
}

func (r *bookingRoomRepository) CreateBatch(ctx context.Context, rooms []*entity.BookingRoom) error {
	for _, room := range rooms {
		_, err := r.db.Exec(ctx, `
			INSERT INTO booking_rooms (id, booking_id, room_name, sort_order, position, is_completed, completed_at, completed_by, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, room.ID, room.BookingID, room.RoomName, room.SortOrder, room.Position, room.IsCompleted, room.CompletedAt, room.CompletedBy, room.CreatedAt)
		if err != nil {
			r.log.Error("Failed to create booking room",
				zap.Error(err),
				zap.String("booking_id", room.BookingID.String()),
				zap.String("room_name", room.RoomName),
			)
			return fmt.Errorf("create booking room %q for booking %s: %w", room.RoomName, room.BookingID, err)
		}

		for _, task := range room.Tasks {
			_, err := r.db.Exec(ctx, `
				INSERT INTO booking_room_tasks (id, booking_room_id, task_text, notes, sort_order, position, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			`, task.ID, room.ID, task.TaskText, task.Notes, task.SortOrder, task.Position, task.CreatedAt)
			if err != nil {
				r.log.Error("Failed to create booking room task",
					zap.Error(err),
					zap.String("booking_room_id", room.ID.String()),
				)
				return fmt.Errorf("create task for booking room %s: %w", room.ID, err)
			}
		}
	}

	return nil
}

const bookingRoomColumns = `id, booking_id, room_name, sort_order, position, is_completed, completed_at, completed_by, created_at`

func scanBookingRoom(row rowScanner) (*entity.BookingRoom, error) {
	var room entity.BookingRoom
	err := row.Scan(
		&room.ID,
		&room.BookingID,
		&room.RoomName,
		&room.SortOrder,
		&room.Position,
		&room.IsCompleted,
		&room.CompletedAt,
		&room.CompletedBy,
		&room.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *bookingRoomRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (entity.Snapshot, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+bookingRoomColumns+`
		FROM booking_rooms
		WHERE booking_id = $1
		ORDER BY sort_order, position, created_at
	`, bookingID)
	if err != nil {
		r.log.Error("Failed to find booking rooms",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find rooms for booking %s: %w", bookingID, err)
	}
	defer rows.Close()

	snapshot := entity.Snapshot{}
	byID := make(map[uuid.UUID]*entity.BookingRoom)
	for rows.Next() {
		room, err := scanBookingRoom(rows)
		if err != nil {
			r.log.Error("Failed to scan booking room row", zap.Error(err))
			return nil, fmt.Errorf("scan booking room row: %w", err)
		}
		snapshot = append(snapshot, room)
		byID[room.ID] = room
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booking rooms: %w", err)
	}
	rows.Close()

	if len(snapshot) == 0 {
		return snapshot, nil
	}

	taskRows, err := r.db.Query(ctx, `
		SELECT t.id, t.booking_room_id, t.task_text, t.notes, t.sort_order, t.position, t.created_at
		FROM booking_room_tasks t
		JOIN booking_rooms br ON br.id = t.booking_room_id
		WHERE br.booking_id = $1
		ORDER BY t.sort_order, t.position, t.created_at
	`, bookingID)
	if err != nil {
		r.log.Error("Failed to find booking room tasks",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find room tasks for booking %s: %w", bookingID, err)
	}
	defer taskRows.Close()

	for taskRows.Next() {
		var task entity.BookingRoomTask
		if err := taskRows.Scan(&task.ID, &task.BookingRoomID, &task.TaskText, &task.Notes, &task.SortOrder, &task.Position, &task.CreatedAt); err != nil {
			r.log.Error("Failed to scan booking room task row", zap.Error(err))
			return nil, fmt.Errorf("scan booking room task row: %w", err)
		}
		if room, ok := byID[task.BookingRoomID]; ok {
			room.Tasks = append(room.Tasks, &task)
		}
	}

	return snapshot, taskRows.Err()
}

func (r *bookingRoomRepository) FindByID(ctx context.Context, bookingID, roomID uuid.UUID) (*entity.BookingRoom, error) {
	query := `SELECT ` + bookingRoomColumns + ` FROM booking_rooms WHERE id = $1 AND booking_id = $2`

	room, err := scanBookingRoom(r.db.QueryRow(ctx, query, roomID, bookingID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking room",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
			zap.String("room_id", roomID.String()),
		)
		return nil, fmt.Errorf("find booking room %s: %w", roomID, err)
	}
	return room, nil
}

func (r *bookingRoomRepository) DeleteByBookingID(ctx context.Context, bookingID uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM booking_rooms WHERE booking_id = $1`, bookingID); err != nil {
		r.log.Error("Failed to delete booking rooms",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return fmt.Errorf("delete rooms for booking %s: %w", bookingID, err)
	}
	return nil
}

func (r *bookingRoomRepository) MarkCompleted(ctx context.Context, bookingID, roomID, by uuid.UUID, at time.Time) (bool, error) {
	query := `
		UPDATE booking_rooms
		SET is_completed = true, completed_at = $3, completed_by = $4
		WHERE id = $1 AND booking_id = $2 AND is_completed = false
	`

	result, err := r.db.Exec(ctx, query, roomID, bookingID, at, by)
	if err != nil {
		r.log.Error("Failed to mark booking room completed",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
			zap.String("room_id", roomID.String()),
		)
		return false, fmt.Errorf("mark room %s completed: %w", roomID, err)
	}

	return result.RowsAffected() == 1, nil
}
