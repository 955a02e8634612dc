package entity

import "github.com/google/uuid"

type Invoice struct {
	Base
	BookingID     *uuid.UUID `db:"booking_id"`
	ClientID      *uuid.UUID `db:"client_id"`
	InvoiceNumber string     `db:"invoice_number"`
	Status        *string    `db:"status"`
	Total         float64    `db:"total"`
}
