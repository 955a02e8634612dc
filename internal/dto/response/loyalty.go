package response

import (
	"time"

	"cleaning-service/internal/data/entity"
)

type LoyaltyLedgerResponse struct {
	ClientID       string                       `json:"client_id"`
	CurrentCredits int                          `json:"current_credits"`
	TotalEarned    int                          `json:"total_earned"`
	TotalSpent     int                          `json:"total_spent"`
	Transactions   []LoyaltyTransactionResponse `json:"transactions"`
}

type LoyaltyTransactionResponse struct {
	ID               string                        `json:"id"`
	Amount           int                           `json:"amount"`
	Type             entity.LoyaltyTransactionType `json:"type"`
	Description      *string                       `json:"description,omitempty"`
	RelatedBookingID *string                       `json:"related_booking_id,omitempty"`
	CreatedAt        time.Time                     `json:"created_at"`
}

func LoyaltyTransactionToResponse(tx *entity.LoyaltyTransaction) LoyaltyTransactionResponse {
	resp := LoyaltyTransactionResponse{
		ID:          tx.ID.String(),
		Amount:      tx.Amount,
		Type:        tx.Type,
		Description: tx.Description,
		CreatedAt:   tx.CreatedAt,
	}
	if tx.RelatedBookingID != nil {
		s := tx.RelatedBookingID.String()
		resp.RelatedBookingID = &s
	}
	return resp
}
