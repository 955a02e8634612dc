package usecase

import (
	"context"

	"cleaning-service/internal/data/entity"
	"cleaning-service/internal/data/repository"
	"cleaning-service/internal/dto/response"
	"cleaning-service/internal/estimate"
	"cleaning-service/internal/loyalty"
)

// bookingAggregate is a booking with everything its detail view joins in.
type bookingAggregate struct {
	Booking  *entity.Booking
	Client   *entity.Client
	Crew     []*entity.TeamMember
	Snapshot entity.Snapshot
	Invoice  *entity.Invoice
	Feedback *entity.Feedback
	Earnings []*entity.JobEarning
}

func loadAggregate(ctx context.Context, r *repository.Repository, b *entity.Booking) (*bookingAggregate, error) {
	agg := &bookingAggregate{Booking: b}

	var err error
	if agg.Client, err = r.Client.FindByID(ctx, b.ClientID); err != nil {
		return nil, persistenceError("load client", err)
	}
	// team_member_ids is the only crew relation in this schema, so the
	// members it resolves to are the assigned crew.
	if agg.Crew, err = r.TeamMember.FindByIDs(ctx, b.TeamMemberIDs); err != nil {
		return nil, persistenceError("load crew", err)
	}
	if agg.Snapshot, err = r.BookingRoom.FindByBookingID(ctx, b.ID); err != nil {
		return nil, persistenceError("load checklist snapshot", err)
	}
	if b.InvoiceID != nil {
		if agg.Invoice, err = r.Invoice.FindByID(ctx, *b.InvoiceID); err != nil {
			return nil, persistenceError("load invoice", err)
		}
	}
	if agg.Feedback, err = r.Feedback.FindByBookingID(ctx, b.ID); err != nil {
		return nil, persistenceError("load feedback", err)
	}
	if agg.Earnings, err = r.JobEarning.FindByBookingID(ctx, b.ID); err != nil {
		return nil, persistenceError("load job earnings", err)
	}

	return agg, nil
}

func (a *bookingAggregate) response() *response.BookingDetailResponse {
	b := a.Booking
	price := b.Details.PriceEstimate.DisplayPrice()
	snapshot := a.Snapshot.Sorted()

	resp := &response.BookingDetailResponse{
		BookingResponse:   response.BookingToResponse(b),
		Details:           b.Details,
		AdminNotes:        b.AdminNotes,
		StartedAt:         b.StartedAt,
		CompletedAt:       b.CompletedAt,
		DisplayPoints:     loyalty.EffectivePoints(price, b.Details.ManualLoyaltyPoints),
		DisplayTeamReward: loyalty.EffectiveTeamReward(a.Earnings, b.Details.ManualTeamReward),
		Crew:              []response.TeamMemberResponse{},
		Rooms:             make([]response.BookingRoomResponse, 0, len(snapshot)),
		Progress:          snapshot.Progress(),
		Estimate:          estimate.Estimate(b.ServiceType, &b.Details, price, len(b.TeamMemberIDs)),
	}

	if a.Client != nil {
		resp.Client = &response.ClientSummary{
			ID:    a.Client.ID.String(),
			Name:  a.Client.Name,
			Email: a.Client.Email,
			Phone: a.Client.Phone,
		}
	}

	for _, m := range a.Crew {
		resp.Crew = append(resp.Crew, response.TeamMemberToResponse(m))
	}
	if b.Details.LeadCleanerID != nil {
		s := b.Details.LeadCleanerID.String()
		resp.LeadCleanerID = &s
	}

	for _, room := range snapshot {
		resp.Rooms = append(resp.Rooms, response.BookingRoomToResponse(room))
	}
	if last := snapshot.LastCompleted(); last != nil {
		room := response.BookingRoomToResponse(last)
		resp.LastCompletedRoom = &room
	}

	if d := b.RealDuration(); d != nil {
		resp.RealDuration = response.DurationToResponse(*d)
	}

	if a.Invoice != nil {
		resp.Invoice = &response.InvoiceSummary{
			ID:            a.Invoice.ID.String(),
			InvoiceNumber: a.Invoice.InvoiceNumber,
			Status:        a.Invoice.Status,
			Total:         a.Invoice.Total,
		}
	}
	if a.Feedback != nil {
		resp.Feedback = &response.FeedbackSummary{
			Rating:  a.Feedback.Rating,
			Comment: a.Feedback.Comment,
		}
	}

	return resp
}
