package entity

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusApproved   BookingStatus = "approved"
	BookingStatusInProgress BookingStatus = "in_progress"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusPaid       BookingStatus = "paid"
	BookingStatusDeclined   BookingStatus = "declined"
	BookingStatusCancelled  BookingStatus = "cancelled"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:    {BookingStatusApproved, BookingStatusDeclined},
	BookingStatusApproved:   {BookingStatusInProgress, BookingStatusCancelled},
	BookingStatusInProgress: {BookingStatusCompleted},
	BookingStatusCompleted:  {BookingStatusPaid},
}

// CanTransitionTo reports whether to is a legal next status.
func (s BookingStatus) CanTransitionTo(to BookingStatus) bool {
	return slices.Contains(bookingTransitions[s], to)
}

// IsTerminal is true for statuses with no outgoing edge.
func (s BookingStatus) IsTerminal() bool {
	return len(bookingTransitions[s]) == 0
}

// IsFinished is true once the checklist snapshot is frozen.
func (s BookingStatus) IsFinished() bool {
	return s == BookingStatusCompleted || s == BookingStatusPaid
}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusApproved, BookingStatusInProgress,
		BookingStatusCompleted, BookingStatusPaid, BookingStatusDeclined, BookingStatusCancelled:
		return true
	}
	return false
}

type Booking struct {
	Base
	ClientID      uuid.UUID      `db:"client_id"`
	ServiceType   ServiceType    `db:"service_type"`
	Status        BookingStatus  `db:"status"`
	Details       BookingDetails `db:"booking_details"`
	ScheduledDate *time.Time     `db:"scheduled_date"`
	Address       string         `db:"address"`
	TeamMemberIDs []uuid.UUID    `db:"team_member_ids"`
	ChecklistID   *uuid.UUID     `db:"checklist_id"`
	InvoiceID     *uuid.UUID     `db:"invoice_id"`
	SkipInvoice   bool           `db:"skip_invoice"`
	AdminNotes    *string        `db:"admin_notes"`
	StartedAt     *time.Time     `db:"started_at"`
	CompletedAt   *time.Time     `db:"completed_at"`
}

// HasCrewMember reports whether id is assigned to the booking.
func (b *Booking) HasCrewMember(id uuid.UUID) bool {
	return slices.Contains(b.TeamMemberIDs, id)
}

// CanMarkRooms reports whether the team member may tick rooms off:
// the lead cleaner when one is designated, otherwise any assigned crew member.
func (b *Booking) CanMarkRooms(teamMemberID uuid.UUID) bool {
	if b.Details.LeadCleanerID != nil {
		return *b.Details.LeadCleanerID == teamMemberID
	}
	return b.HasCrewMember(teamMemberID)
}

// RealDuration is completed minus started, nil unless both are set and positive.
func (b *Booking) RealDuration() *time.Duration {
	if b.StartedAt == nil || b.CompletedAt == nil {
		return nil
	}
	d := b.CompletedAt.Sub(*b.StartedAt)
	if d <= 0 {
		return nil
	}
	return &d
}

// SameCrew compares crew sets ignoring order and duplicates.
func SameCrew(a, b []uuid.UUID) bool {
	return slices.Equal(normalizeCrew(a), normalizeCrew(b))
}

func normalizeCrew(ids []uuid.UUID) []uuid.UUID {
	out := slices.Clone(ids)
	slices.SortFunc(out, func(x, y uuid.UUID) int {
		return slices.Compare(x[:], y[:])
	})
	return slices.Compact(out)
}

// DedupeCrew removes duplicate ids keeping first occurrence order.
func DedupeCrew(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
