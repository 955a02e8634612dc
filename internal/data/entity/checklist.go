package entity

import (
	"math"
	"slices"
	"time"

	"github.com/google/uuid"
)

// ChecklistTemplate is a client's reusable room/task list.
type ChecklistTemplate struct {
	ID                  uuid.UUID  `db:"id"`
	ClientID            *uuid.UUID `db:"client_id"`
	Street              string     `db:"street"`
	City                *string    `db:"city"`
	SpecialRequirements *string    `db:"special_requirements"`
	CreatedAt           time.Time  `db:"created_at"`
	LastUpdated         time.Time  `db:"last_updated"`
	Rooms               []*ChecklistRoom
}

type ChecklistRoom struct {
	Base
	ChecklistID uuid.UUID  `db:"checklist_id"`
	RoomName    string     `db:"room_name"`
	SortOrder   int        `db:"sort_order"`
	IsCompleted bool       `db:"is_completed"`
	CompletedAt *time.Time `db:"completed_at"`
	CompletedBy *uuid.UUID `db:"completed_by"`
	Tasks       []*ChecklistTask
}

type ChecklistTask struct {
	Base
	RoomID    uuid.UUID `db:"room_id"`
	TaskText  string    `db:"task_text"`
	Notes     *string   `db:"notes"`
	SortOrder int       `db:"sort_order"`
}

// BookingRoom is one row of a booking's checklist snapshot.
type BookingRoom struct {
	BaseSimple
	BookingID   uuid.UUID  `db:"booking_id"`
	RoomName    string     `db:"room_name"`
	SortOrder   int        `db:"sort_order"`
	Position    int        `db:"position"`
	IsCompleted bool       `db:"is_completed"`
	CompletedAt *time.Time `db:"completed_at"`
	CompletedBy *uuid.UUID `db:"completed_by"`
	Tasks       []*BookingRoomTask
}

type BookingRoomTask struct {
	BaseSimple
	BookingRoomID uuid.UUID `db:"booking_room_id"`
	TaskText      string    `db:"task_text"`
	Notes         *string   `db:"notes"`
	SortOrder     int       `db:"sort_order"`
	Position      int       `db:"position"`
}

// Snapshot is the set of rooms copied into one booking.
type Snapshot []*BookingRoom

type Progress struct {
	Completed  int `json:"completed"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// Sorted returns the rooms by sort order. Equal orders fall back to Position,
// the room's index in the template it was copied from.
func (s Snapshot) Sorted() Snapshot {
	out := slices.Clone(s)
	slices.SortStableFunc(out, func(a, b *BookingRoom) int {
		if a.SortOrder != b.SortOrder {
			return a.SortOrder - b.SortOrder
		}
		return a.Position - b.Position
	})
	return out
}

func (s Snapshot) Progress() Progress {
	p := Progress{Total: len(s)}
	for _, room := range s {
		if room.IsCompleted {
			p.Completed++
		}
	}
	if p.Total > 0 {
		p.Percentage = int(math.Round(float64(p.Completed) / float64(p.Total) * 100))
	}
	return p
}

// AllCompleted is vacuously true for an empty snapshot.
func (s Snapshot) AllCompleted() bool {
	for _, room := range s {
		if !room.IsCompleted {
			return false
		}
	}
	return true
}

// LastCompleted returns the room with the latest completion time, or nil.
// Ties go to the room that sorts first.
func (s Snapshot) LastCompleted() *BookingRoom {
	var last *BookingRoom
	for _, room := range s.Sorted() {
		if !room.IsCompleted || room.CompletedAt == nil {
			continue
		}
		if last == nil || room.CompletedAt.After(*last.CompletedAt) {
			last = room
		}
	}
	return last
}

func (s Snapshot) Find(roomID uuid.UUID) *BookingRoom {
	for _, room := range s {
		if room.ID == roomID {
			return room
		}
	}
	return nil
}
