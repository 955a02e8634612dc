package response

import (
	"fmt"
	"time"

	"cleaning-service/internal/data/entity"
	"cleaning-service/internal/estimate"
)

type BookingResponse struct {
	ID            string               `json:"id"`
	ClientID      string               `json:"client_id"`
	ServiceType   entity.ServiceType   `json:"service_type"`
	Status        entity.BookingStatus `json:"status"`
	ScheduledDate *time.Time           `json:"scheduled_date,omitempty"`
	Address       string               `json:"address"`
	DisplayPrice  float64              `json:"display_price"`
	TeamMemberIDs []string             `json:"team_member_ids"`
	ChecklistID   *string              `json:"checklist_id,omitempty"`
	InvoiceID     *string              `json:"invoice_id,omitempty"`
	SkipInvoice   bool                 `json:"skip_invoice"`
	CreatedAt     time.Time            `json:"created_at"`
}

// BookingDetailResponse is the aggregate view of one booking.
type BookingDetailResponse struct {
	BookingResponse
	Details           entity.BookingDetails `json:"booking_details"`
	AdminNotes        *string               `json:"admin_notes,omitempty"`
	StartedAt         *time.Time            `json:"started_at,omitempty"`
	CompletedAt       *time.Time            `json:"completed_at,omitempty"`
	DisplayPoints     int                   `json:"display_points"`
	DisplayTeamReward float64               `json:"display_team_reward"`
	Client            *ClientSummary        `json:"client,omitempty"`
	Crew              []TeamMemberResponse  `json:"crew"`
	LeadCleanerID     *string               `json:"lead_cleaner_id,omitempty"`
	Rooms             []BookingRoomResponse `json:"rooms"`
	Progress          entity.Progress       `json:"progress"`
	LastCompletedRoom *BookingRoomResponse  `json:"last_completed_room,omitempty"`
	RealDuration      *DurationResponse     `json:"real_duration,omitempty"`
	Estimate          estimate.Result       `json:"estimate"`
	Invoice           *InvoiceSummary       `json:"invoice,omitempty"`
	Feedback          *FeedbackSummary      `json:"feedback,omitempty"`
}

type ClientSummary struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

type TeamMemberResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

type BookingRoomResponse struct {
	ID          string                    `json:"id"`
	RoomName    string                    `json:"room_name"`
	SortOrder   int                       `json:"sort_order"`
	IsCompleted bool                      `json:"is_completed"`
	CompletedAt *time.Time                `json:"completed_at,omitempty"`
	CompletedBy *string                   `json:"completed_by,omitempty"`
	Tasks       []BookingRoomTaskResponse `json:"tasks,omitempty"`
}

type BookingRoomTaskResponse struct {
	ID        string  `json:"id"`
	TaskText  string  `json:"task_text"`
	Notes     *string `json:"notes,omitempty"`
	SortOrder int     `json:"sort_order"`
}

type DurationResponse struct {
	Minutes   int    `json:"minutes"`
	Formatted string `json:"formatted"`
}

type InvoiceSummary struct {
	ID            string  `json:"id"`
	InvoiceNumber string  `json:"invoice_number"`
	Status        *string `json:"status,omitempty"`
	Total         float64 `json:"total"`
}

type FeedbackSummary struct {
	Rating  int     `json:"rating"`
	Comment *string `json:"comment,omitempty"`
}

// Helper converters
func BookingToResponse(b *entity.Booking) BookingResponse {
	crew := make([]string, len(b.TeamMemberIDs))
	for i, id := range b.TeamMemberIDs {
		crew[i] = id.String()
	}

	resp := BookingResponse{
		ID:            b.ID.String(),
		ClientID:      b.ClientID.String(),
		ServiceType:   b.ServiceType,
		Status:        b.Status,
		ScheduledDate: b.ScheduledDate,
		Address:       b.Address,
		DisplayPrice:  b.Details.PriceEstimate.DisplayPrice(),
		TeamMemberIDs: crew,
		SkipInvoice:   b.SkipInvoice,
		CreatedAt:     b.CreatedAt,
	}
	if b.ChecklistID != nil {
		s := b.ChecklistID.String()
		resp.ChecklistID = &s
	}
	if b.InvoiceID != nil {
		s := b.InvoiceID.String()
		resp.InvoiceID = &s
	}
	return resp
}

func BookingRoomToResponse(room *entity.BookingRoom) BookingRoomResponse {
	resp := BookingRoomResponse{
		ID:          room.ID.String(),
		RoomName:    room.RoomName,
		SortOrder:   room.SortOrder,
		IsCompleted: room.IsCompleted,
		CompletedAt: room.CompletedAt,
	}
	if room.CompletedBy != nil {
		s := room.CompletedBy.String()
		resp.CompletedBy = &s
	}
	for _, t := range room.Tasks {
		resp.Tasks = append(resp.Tasks, BookingRoomTaskResponse{
			ID:        t.ID.String(),
			TaskText:  t.TaskText,
			Notes:     t.Notes,
			SortOrder: t.SortOrder,
		})
	}
	return resp
}

func TeamMemberToResponse(m *entity.TeamMember) TeamMemberResponse {
	return TeamMemberResponse{
		ID:       m.ID.String(),
		Name:     m.Name,
		IsActive: m.IsActive,
	}
}

func DurationToResponse(d time.Duration) *DurationResponse {
	minutes := int(d.Round(time.Minute) / time.Minute)
	return &DurationResponse{
		Minutes:   minutes,
		Formatted: formatMinutes(minutes),
	}
}

func formatMinutes(minutes int) string {
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%d min", m)
	case m == 0:
		return fmt.Sprintf("%d h", h)
	default:
		return fmt.Sprintf("%d h %d min", h, m)
	}
}
