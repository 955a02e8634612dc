package request

import (
	"encoding/json"
	"time"
)

type CreateBookingRequest struct {
	ClientID      string          `json:"client_id" validate:"required,uuid"`
	ServiceType   string          `json:"service_type" validate:"required"`
	ScheduledDate *time.Time      `json:"scheduled_date"`
	Address       string          `json:"address" validate:"max=500"`
	Details       json.RawMessage `json:"booking_details"`
}

type ListBookingsRequest struct {
	PaginatedRequest
	Filter string `json:"filter" validate:"omitempty,oneof=all active pending completed archive"`
}

// ApproveBookingRequest leaves crew emptiness to the service so the caller
// gets the precondition message rather than a field error.
type ApproveBookingRequest struct {
	TeamMemberIDs []string `json:"team_member_ids" validate:"dive,uuid"`
	ChecklistID   *string  `json:"checklist_id" validate:"omitempty,uuid"`
	AdminNotes    *string  `json:"admin_notes" validate:"omitempty,max=2000"`
	SkipInvoice   *bool    `json:"skip_invoice"`
}

type DeclineBookingRequest struct {
	AdminNotes *string `json:"admin_notes" validate:"omitempty,max=2000"`
}

// MarkPaidRequest describes how the payment arrived. Processing happens elsewhere.
type MarkPaidRequest struct {
	Method    string   `json:"method" validate:"omitempty,max=50"`
	Reference string   `json:"reference" validate:"omitempty,max=200"`
	Amount    *float64 `json:"amount" validate:"omitempty,gte=0"`
}

// UpdateChecklistRequest detaches the checklist when ChecklistID is null.
type UpdateChecklistRequest struct {
	ChecklistID *string `json:"checklist_id" validate:"omitempty,uuid"`
}

type UpdateDetailsRequest struct {
	Price               *float64 `json:"price" validate:"omitempty,gte=0"`
	ManualLoyaltyPoints *int     `json:"manual_loyalty_points" validate:"omitempty,gte=0"`
	ManualTeamReward    *float64 `json:"manual_team_reward" validate:"omitempty,gte=0"`
	LeadCleanerID       *string  `json:"lead_cleaner_id" validate:"omitempty,uuid"`
	CleanerEarnings     *float64 `json:"cleaner_earnings" validate:"omitempty,gte=0"`
	Notes               *string  `json:"notes" validate:"omitempty,max=5000"`

	ClearManualLoyaltyPoints bool `json:"clear_manual_loyalty_points"`
	ClearManualTeamReward    bool `json:"clear_manual_team_reward"`
	ClearLeadCleaner         bool `json:"clear_lead_cleaner"`
}

type AttachInvoiceRequest struct {
	InvoiceID string `json:"invoice_id" validate:"required,uuid"`
}
