package entity

import "github.com/google/uuid"

type Feedback struct {
	BaseSimple
	BookingID uuid.UUID `db:"booking_id"`
	ClientID  uuid.UUID `db:"client_id"`
	Rating    int       `db:"rating"`
	Comment   *string   `db:"comment"`
}
