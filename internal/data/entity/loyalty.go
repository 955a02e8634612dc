package entity

import (
	"time"

	"github.com/google/uuid"
)

type LoyaltyTransactionType string

const (
	LoyaltyEarned   LoyaltyTransactionType = "earned"
	LoyaltyRedeemed LoyaltyTransactionType = "redeemed"
)

// LoyaltyLedger is a client's running balance.
type LoyaltyLedger struct {
	Base
	ClientID       uuid.UUID `db:"client_id"`
	CurrentCredits int       `db:"current_credits"`
	TotalEarned    int       `db:"total_earned"`
	TotalSpent     int       `db:"total_spent"`
}

type LoyaltyTransaction struct {
	ID               uuid.UUID              `db:"id"`
	ClientID         uuid.UUID              `db:"client_id"`
	Amount           int                    `db:"amount"`
	Type             LoyaltyTransactionType `db:"type"`
	Description      *string                `db:"description"`
	RelatedBookingID *uuid.UUID             `db:"related_booking_id"`
	CreatedAt        time.Time              `db:"created_at"`
}
