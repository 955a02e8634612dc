package entity

import "github.com/google/uuid"

type JobEarning struct {
	BaseSimple
	BookingID    uuid.UUID `db:"booking_id"`
	TeamMemberID uuid.UUID `db:"team_member_id"`
	Amount       float64   `db:"amount"`
}
