package usecase

import (
	"context"
	"time"

	"cleaning-service/internal/data/entity"
	"cleaning-service/internal/data/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ChecklistService manages the booking-scoped copy of a checklist template.
type ChecklistService interface {
	// CreateSnapshot copies the template's rooms and tasks into the booking,
	// all rooms incomplete, template sort order preserved.
	CreateSnapshot(ctx context.Context, bookingID, templateID uuid.UUID) (entity.Snapshot, error)
	// DeleteSnapshot removes every snapshot room of the booking. No rows is not an error.
	DeleteSnapshot(ctx context.Context, bookingID uuid.UUID) error
	// ReplaceSnapshot deletes and, when templateID is set, recreates the snapshot as one unit.
	ReplaceSnapshot(ctx context.Context, bookingID uuid.UUID, templateID *uuid.UUID) (entity.Snapshot, error)
	GetSnapshot(ctx context.Context, bookingID uuid.UUID) (entity.Snapshot, error)
	// ResetTemplate marks every room of the template incomplete again.
	ResetTemplate(ctx context.Context, templateID uuid.UUID) error
}

type checklistService struct {
	repo *repository.Repository
	log  *zap.Logger
	now  func() time.Time
}

func NewChecklistService(repo *repository.Repository, log *zap.Logger) ChecklistService {
	return newChecklistService(repo, log)
}

func newChecklistService(repo *repository.Repository, log *zap.Logger) *checklistService {
	return &checklistService{
		repo: repo,
		log:  log.With(zap.String("service", "checklist")),
		now:  time.Now,
	}
}

// in returns a copy bound to r, typically a transaction-scoped repository.
func (s *checklistService) in(r *repository.Repository) *checklistService {
	c := *s
	c.repo = r
	return &c
}

func (s *checklistService) CreateSnapshot(ctx context.Context, bookingID, templateID uuid.UUID) (entity.Snapshot, error) {
	var snapshot entity.Snapshot
	err := s.repo.Atomic(ctx, func(r *repository.Repository) error {
		var err error
		snapshot, err = s.in(r).createSnapshot(ctx, bookingID, templateID)
		return err
	})
	return snapshot, err
}

func (s *checklistService) createSnapshot(ctx context.Context, bookingID, templateID uuid.UUID) (entity.Snapshot, error) {
	template, err := s.repo.Checklist.FindByID(ctx, templateID)
	if err != nil {
		return nil, persistenceError("load checklist template", err)
	}
	if template == nil {
		return nil, notFoundError("checklist %s not found", templateID)
	}

	now := s.now()
	snapshot := make(entity.Snapshot, 0, len(template.Rooms))
	for i, room := range template.Rooms {
		copied := &entity.BookingRoom{
			BaseSimple: entity.NewBaseSimple(now),
			BookingID:  bookingID,
			RoomName:   room.RoomName,
			SortOrder:  room.SortOrder,
			Position:   i,
		}
		for j, task := range room.Tasks {
			notes := task.Notes
			if notes != nil {
				n := *notes
				notes = &n
			}
			copied.Tasks = append(copied.Tasks, &entity.BookingRoomTask{
				BaseSimple:    entity.NewBaseSimple(now),
				BookingRoomID: copied.ID,
				TaskText:      task.TaskText,
				Notes:         notes,
				SortOrder:     task.SortOrder,
				Position:      j,
			})
		}
		snapshot = append(snapshot, copied)
	}

	if err := s.repo.BookingRoom.CreateBatch(ctx, snapshot); err != nil {
		s.log.Error("Failed to create checklist snapshot",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
			zap.String("checklist_id", templateID.String()),
		)
		return nil, persistenceError("create checklist snapshot", err)
	}

	s.log.Info("Checklist snapshot created",
		zap.String("booking_id", bookingID.String()),
		zap.String("checklist_id", templateID.String()),
		zap.Int("rooms", len(snapshot)),
	)
	return snapshot.Sorted(), nil
}

func (s *checklistService) DeleteSnapshot(ctx context.Context, bookingID uuid.UUID) error {
	if err := s.repo.BookingRoom.DeleteByBookingID(ctx, bookingID); err != nil {
		return persistenceError("delete checklist snapshot", err)
	}
	return nil
}

func (s *checklistService) ReplaceSnapshot(ctx context.Context, bookingID uuid.UUID, templateID *uuid.UUID) (entity.Snapshot, error) {
	snapshot := entity.Snapshot{}
	err := s.repo.Atomic(ctx, func(r *repository.Repository) error {
		tx := s.in(r)
		if err := tx.DeleteSnapshot(ctx, bookingID); err != nil {
			return err
		}
		if templateID == nil {
			return nil
		}
		var err error
		snapshot, err = tx.createSnapshot(ctx, bookingID, *templateID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (s *checklistService) GetSnapshot(ctx context.Context, bookingID uuid.UUID) (entity.Snapshot, error) {
	snapshot, err := s.repo.BookingRoom.FindByBookingID(ctx, bookingID)
	if err != nil {
		return nil, persistenceError("load checklist snapshot", err)
	}
	return snapshot.Sorted(), nil
}

func (s *checklistService) ResetTemplate(ctx context.Context, templateID uuid.UUID) error {
	if err := s.repo.Checklist.ResetRooms(ctx, templateID); err != nil {
		return persistenceError("reset checklist rooms", err)
	}
	return nil
}
