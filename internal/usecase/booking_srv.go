package usecase

import (
	"context"
	"time"

	"cleaning-service/internal/data/entity"
	"cleaning-service/internal/data/repository"
	"cleaning-service/internal/dto/request"
	"cleaning-service/internal/dto/response"
	"cleaning-service/internal/estimate"
	"cleaning-service/internal/loyalty"
	"cleaning-service/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	CreateBooking(ctx context.Context, actor Actor, req *request.CreateBookingRequest) (*response.BookingDetailResponse, error)
	ListBookings(ctx context.Context, actor Actor, req *request.ListBookingsRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	GetBooking(ctx context.Context, actor Actor, bookingID string) (*response.BookingDetailResponse, error)
	DeleteBooking(ctx context.Context, actor Actor, bookingID string) error

	// State transitions
	Approve(ctx context.Context, actor Actor, bookingID string, req *request.ApproveBookingRequest) (*response.BookingDetailResponse, error)
	Decline(ctx context.Context, actor Actor, bookingID string, req *request.DeclineBookingRequest) (*response.BookingDetailResponse, error)
	Start(ctx context.Context, actor Actor, bookingID string) (*response.BookingDetailResponse, error)
	MarkRoomComplete(ctx context.Context, actor Actor, bookingID, roomID string) (*response.BookingDetailResponse, error)
	Complete(ctx context.Context, actor Actor, bookingID string) (*response.BookingDetailResponse, error)
	MarkPaid(ctx context.Context, actor Actor, bookingID string, req *request.MarkPaidRequest) (*response.BookingDetailResponse, error)
	Cancel(ctx context.Context, actor Actor, bookingID string) (*response.BookingDetailResponse, error)

	// Edits
	UpdateChecklist(ctx context.Context, actor Actor, bookingID string, req *request.UpdateChecklistRequest) (*response.BookingDetailResponse, error)
	UpdateDetails(ctx context.Context, actor Actor, bookingID string, req *request.UpdateDetailsRequest) (*response.BookingDetailResponse, error)
	AttachInvoice(ctx context.Context, actor Actor, bookingID string, req *request.AttachInvoiceRequest) (*response.BookingDetailResponse, error)
}

type bookingService struct {
	repo      *repository.Repository
	checklist *checklistService
	loyalty   *loyaltyService
	invoices  InvoiceSignaler
	log       *zap.Logger
	now       func() time.Time
}

func NewBookingService(repo *repository.Repository, invoices InvoiceSignaler, log *zap.Logger) BookingService {
	return newBookingService(repo, invoices, log)
}

func newBookingService(repo *repository.Repository, invoices InvoiceSignaler, log *zap.Logger) *bookingService {
	return &bookingService{
		repo:      repo,
		checklist: newChecklistService(repo, log),
		loyalty:   newLoyaltyService(repo, log),
		invoices:  invoices,
		log:       log.With(zap.String("service", "booking")),
		now:       time.Now,
	}
}

type rowLock int

const (
	lockExclusive rowLock = iota
	lockShared
)

func parseID(kind, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, validationError("invalid %s ID %q", kind, raw)
	}
	return id, nil
}

// mutate loads the booking under a row lock, runs fn inside one transaction
// and re-reads the aggregate after commit.
func (s *bookingService) mutate(ctx context.Context, bookingID uuid.UUID, lock rowLock, fn func(r *repository.Repository, b *entity.Booking) error) (*response.BookingDetailResponse, error) {
	err := s.repo.Atomic(ctx, func(r *repository.Repository) error {
		var (
			booking *entity.Booking
			err     error
		)
		if lock == lockShared {
			booking, err = r.Booking.FindByIDForShare(ctx, bookingID)
		} else {
			booking, err = r.Booking.FindByIDForUpdate(ctx, bookingID)
		}
		if err != nil {
			return persistenceError("load booking", err)
		}
		if booking == nil {
			return notFoundError("booking %s not found", bookingID)
		}
		return fn(r, booking)
	})
	if err != nil {
		return nil, err
	}

	return s.view(ctx, bookingID)
}

func (s *bookingService) view(ctx context.Context, bookingID uuid.UUID) (*response.BookingDetailResponse, error) {
	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return nil, persistenceError("load booking", err)
	}
	if booking == nil {
		return nil, notFoundError("booking %s not found", bookingID)
	}

	agg, err := loadAggregate(ctx, s.repo, booking)
	if err != nil {
		return nil, err
	}
	return agg.response(), nil
}

func (s *bookingService) save(ctx context.Context, r *repository.Repository, b *entity.Booking) error {
	b.UpdatedAt = s.now()
	if err := r.Booking.Update(ctx, b); err != nil {
		return persistenceError("save booking", err)
	}
	return nil
}

func transition(b *entity.Booking, to entity.BookingStatus) error {
	if !b.Status.CanTransitionTo(to) {
		return conflictError("cannot move booking from %s to %s", b.Status, to)
	}
	b.Status = to
	return nil
}

// canRunJob is true for admins and for crew allowed to tick rooms off.
func canRunJob(actor Actor, b *entity.Booking) bool {
	if actor.IsAdmin() {
		return true
	}
	return actor.Role == RoleCleaner && b.CanMarkRooms(actor.ID)
}

func canView(actor Actor, b *entity.Booking) bool {
	switch actor.Role {
	case RoleAdmin:
		return true
	case RoleClient:
		return b.ClientID == actor.ID
	case RoleCleaner:
		return b.HasCrewMember(actor.ID)
	}
	return false
}

func (s *bookingService) CreateBooking(ctx context.Context, actor Actor, req *request.CreateBookingRequest) (*response.BookingDetailResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, invalidRequest(errs)
	}

	clientID, err := parseID("client", req.ClientID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !(actor.Role == RoleClient && actor.ID == clientID) {
		return nil, authorizationError("not allowed to create bookings for client %s", clientID)
	}

	serviceType, details, err := decodeDetails(req.ServiceType, req.Details)
	if err != nil {
		return nil, err
	}

	client, err := s.repo.Client.FindByID(ctx, clientID)
	if err != nil {
		return nil, persistenceError("load client", err)
	}
	if client == nil {
		return nil, notFoundError("client %s not found", clientID)
	}

	pe := details.PriceEstimate
	if pe.Price == nil && pe.PriceMin == nil {
		if quote := estimate.QuoteFor(details); quote.PriceMax > 0 {
			details.PriceEstimate = quote.PriceEstimate()
		}
	}

	now := s.now()
	booking := &entity.Booking{
		Base:          entity.NewBase(now),
		ClientID:      clientID,
		ServiceType:   serviceType,
		Status:        entity.BookingStatusPending,
		Details:       details,
		ScheduledDate: req.ScheduledDate,
		Address:       req.Address,
		TeamMemberIDs: []uuid.UUID{},
	}

	if err := s.repo.Booking.Create(ctx, booking); err != nil {
		s.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("client_id", clientID.String()),
		)
		return nil, persistenceError("create booking", err)
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("client_id", clientID.String()),
		zap.String("service_type", string(serviceType)),
	)
	return s.view(ctx, booking.ID)
}

var listFilters = map[string][]entity.BookingStatus{
	"all":       nil,
	"active":    {entity.BookingStatusApproved, entity.BookingStatusInProgress},
	"pending":   {entity.BookingStatusPending},
	"completed": {entity.BookingStatusCompleted},
	"archive":   {entity.BookingStatusCancelled, entity.BookingStatusDeclined, entity.BookingStatusPaid},
}

func (s *bookingService) ListBookings(ctx context.Context, actor Actor, req *request.ListBookingsRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, invalidRequest(errs)
	}

	filter := repository.BookingFilter{Statuses: listFilters[req.Filter]}
	switch actor.Role {
	case RoleAdmin:
	case RoleClient:
		filter.ClientID = &actor.ID
	case RoleCleaner:
		filter.TeamMemberID = &actor.ID
	default:
		return nil, authorizationError("unknown actor role %q", actor.Role)
	}

	bookings, err := s.repo.Booking.List(ctx, filter, req.Limit(), req.Offset())
	if err != nil {
		return nil, persistenceError("list bookings", err)
	}
	total, err := s.repo.Booking.Count(ctx, filter)
	if err != nil {
		return nil, persistenceError("count bookings", err)
	}

	items := make([]response.BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		items = append(items, response.BookingToResponse(b))
	}
	return response.NewPaginatedResponse(items, req.Page, req.Limit(), total), nil
}

func (s *bookingService) GetBooking(ctx context.Context, actor Actor, bookingID string) (*response.BookingDetailResponse, error) {
	id, err := parseID("booking", bookingID)
	if err != nil {
		return nil, err
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, persistenceError("load booking", err)
	}
	if booking == nil {
		return nil, notFoundError("booking %s not found", id)
	}
	if !canView(actor, booking) {
		return nil, authorizationError("not allowed to view booking %s", id)
	}

	agg, err := loadAggregate(ctx, s.repo, booking)
	if err != nil {
		return nil, err
	}
	return agg.response(), nil
}

func (s *bookingService) Approve(ctx context.Context, actor Actor, bookingID string, req *request.ApproveBookingRequest) (*response.BookingDetailResponse, error) {
	if err := requireAdmin(actor, "approve bookings"); err != nil {
		return nil, err
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, invalidRequest(errs)
	}
	id, err := parseID("booking", bookingID)
	if err != nil {
		return nil, err
	}

	crew := make([]uuid.UUID, 0, len(req.TeamMemberIDs))
	for _, raw := range req.TeamMemberIDs {
		memberID, err := parseID("team member", raw)
		if err != nil {
			return nil, err
		}
		crew = append(crew, memberID)
	}
	crew = entity.DedupeCrew(crew)
	if len(crew) == 0 {
		return nil, validationError("at least one crew member required")
	}

	var checklistID *uuid.UUID
	if req.ChecklistID != nil {
		cid, err := parseID("checklist", *req.ChecklistID)
		if err != nil {
			return nil, err
		}
		checklistID = &cid
	}

	return s.mutate(ctx, id, lockExclusive, func(r *repository.Repository, b *entity.Booking) error {
		reapprove := b.Status == entity.BookingStatusApproved
		if !reapprove {
			if err := transition(b, entity.BookingStatusApproved); err != nil {
				return err
			}
		}

		members, err := r.TeamMember.FindByIDs(ctx, crew)
		if err != nil {
			return persistenceError("load crew", err)
		}
		if len(members) != len(crew) {
			return validationError("unknown team member among %d assigned", len(crew))
		}

		if checklistID != nil {
			changed := b.ChecklistID == nil || *b.ChecklistID != *checklistID
			snapshots := s.checklist.in(r)
			if changed || !reapprove {
				if err := snapshots.ResetTemplate(ctx, *checklistID); err != nil {
					return err
				}
			}
			rebuild := changed
			if !rebuild && !reapprove {
				exists, err := hasSnapshot(ctx, r, b.ID)
				if err != nil {
					return err
				}
				rebuild = !exists
			}
			if rebuild {
				if _, err := snapshots.ReplaceSnapshot(ctx, b.ID, checklistID); err != nil {
					return err
				}
			}
			b.ChecklistID = checklistID
		}

		if !entity.SameCrew(b.TeamMemberIDs, crew) {
			if next, changed := estimate.Recompute(b.Details, b.Details.PriceEstimate.DisplayPrice(), len(crew)); changed {
				b.Details.PriceEstimate = next
			}
		}
		b.TeamMemberIDs = crew
		if lead := b.Details.LeadCleanerID; lead != nil && !b.HasCrewMember(*lead) {
			s.log.Info("Lead cleaner no longer assigned, clearing",
				zap.String("booking_id", b.ID.String()),
				zap.String("team_member_id", lead.String()),
			)
			b.Details.LeadCleanerID = nil
		}
		if req.AdminNotes != nil {
			b.AdminNotes = req.AdminNotes
		}
		if req.SkipInvoice != nil {
			b.SkipInvoice = *req.SkipInvoice
		}

		if err := s.save(ctx, r, b); err != nil {
			return err
		}

		s.log.Info("Booking approved",
			zap.String("booking_id", b.ID.String()),
			zap.Int("crew", len(crew)),
			zap.Bool("reapprove", reapprove),
		)
		return nil
	})
}

func hasSnapshot(ctx context.Context, r *repository.Repository, bookingID uuid.UUID) (bool, error) {
	snapshot, err := r.BookingRoom.FindByBookingID(ctx, bookingID)
	if err != nil {
		return false, persistenceError("load checklist snapshot", err)
	}
	return len(snapshot) > 0, nil
}

func (s *bookingService) Decline(ctx context.Context, actor Actor, bookingID string, req *request.DeclineBookingRequest) (*response.BookingDetailResponse, error) {
	if err := requireAdmin(actor, "decline bookings"); err != nil {
		return nil, err
	}
	id, err := parseID("booking", bookingID)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, id, lockExclusive, func(r *repository.Repository, b *entity.Booking) error {
		if err := transition(b, entity.BookingStatusDeclined); err != nil {
			return err
		}
		if req != nil && req.AdminNotes != nil {
			b.AdminNotes = req.AdminNotes
		}
		return s.save(ctx, r, b)
	})
}

func (s *bookingService) Start(ctx context.Context, actor Actor, bookingID string) (*response.BookingDetailResponse, error) {
	id, err := parseID("booking", bookingID)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, id, lockExclusive, func(r *repository.Repository, b *entity.Booking) error {
		if !canRunJob(actor, b) {
			return authorizationError("only the lead cleaner or an admin may start the job")
		}
		if err := transition(b, entity.BookingStatusInProgress); err != nil {
			return err
		}
		if b.StartedAt == nil {
			now := s.now()
			b.StartedAt = &now
		}
		return s.save(ctx, r, b)
	})
}

func (s *bookingService) MarkRoomComplete(ctx context.Context, actor Actor, bookingID, roomID string) (*response.BookingDetailResponse, error) {
	id, err := parseID("booking", bookingID)
	if err != nil {
		return nil, err
	}
	rid, err := parseID("room", roomID)
	if err != nil {
		return nil, err
	}

	// Shared lock: rooms are independent, but a checklist swap must wait.
	return s.mutate(ctx, id, lockShared, func(r *repository.Repository, b *entity.Booking) error {
		if b.Status != entity.BookingStatusInProgress {
			return conflictError("rooms can only be completed while the booking is in progress (status %s)", b.Status)
		}
		if actor.Role != RoleCleaner || !b.CanMarkRooms(actor.ID) {
			return authorizationError("only the lead cleaner may mark rooms complete")
		}

		updated, err := r.BookingRoom.MarkCompleted(ctx, id, rid, actor.ID, s.now())
		if err != nil {
			return persistenceError("mark room complete", err)
		}
		if updated {
			s.log.Info("Room completed",
				zap.String("booking_id", id.String()),
				zap.String("room_id", rid.String()),
				zap.String("completed_by", actor.ID.String()),
			)
			return nil
		}

		room, err := r.BookingRoom.FindByID(ctx, id, rid)
		if err != nil {
			return persistenceError("load room", err)
		}
		if room == nil {
			return notFoundError("room %s not found on booking %s", rid, id)
		}
		return nil
	})
}

func (s *bookingService) Complete(ctx context.Context, actor Actor, bookingID string) (*response.BookingDetailResponse, error) {
	id, err := parseID("booking", bookingID)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, id, lockExclusive, func(r *repository.Repository, b *entity.Booking) error {
		if !canRunJob(actor, b) {
			return authorizationError("only the lead cleaner or an admin may complete the job")
		}
		if !b.Status.CanTransitionTo(entity.BookingStatusCompleted) {
			return conflictError("cannot move booking from %s to %s", b.Status, entity.BookingStatusCompleted)
		}

		snapshot, err := r.BookingRoom.FindByBookingID(ctx, id)
		if err != nil {
			return persistenceError("load checklist snapshot", err)
		}
		if !snapshot.AllCompleted() {
			p := snapshot.Progress()
			return conflictError("all rooms must be completed first (%d of %d done)", p.Completed, p.Total)
		}

		b.Status = entity.BookingStatusCompleted
		if b.CompletedAt == nil {
			now := s.now()
			b.CompletedAt = &now
		}
		return s.save(ctx, r, b)
	})
}

func (s *bookingService) MarkPaid(ctx context.Context, actor Actor, bookingID string, req *request.MarkPaidRequest) (*response.BookingDetailResponse, error) {
	if err := requireAdmin(actor, "mark bookings paid"); err != nil {
		return nil, err
	}
	if req == nil {
		req = &request.MarkPaidRequest{}
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, invalidRequest(errs)
	}
	id, err := parseID("booking", bookingID)
	if err != nil {
		return nil, err
	}

	var paid entity.Booking
	resp, err := s.mutate(ctx, id, lockExclusive, func(r *repository.Repository, b *entity.Booking) error {
		if err := transition(b, entity.BookingStatusPaid); err != nil {
			return err
		}

		price := b.Details.PriceEstimate.DisplayPrice()
		points := loyalty.EffectivePoints(price, b.Details.ManualLoyaltyPoints)
		if _, err := s.loyalty.in(r).creditOnPayment(ctx, b.ClientID, points, b.ID, loyalty.EarnedDescription(price)); err != nil {
			return err
		}
		if price > 0 {
			if err := r.Client.AddTotalSpent(ctx, b.ClientID, price); err != nil {
				return persistenceError("update client total", err)
			}
		}

		if err := s.save(ctx, r, b); err != nil {
			return err
		}
		paid = *b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Booking paid",
		zap.String("booking_id", id.String()),
		zap.String("method", req.Method),
	)

	if !paid.SkipInvoice {
		amount := paid.Details.PriceEstimate.DisplayPrice()
		if req.Amount != nil {
			amount = *req.Amount
		}
		intent := InvoiceIntent{
			BookingID:        paid.ID,
			ClientID:         paid.ClientID,
			Amount:           amount,
			PaymentMethod:    req.Method,
			PaymentReference: req.Reference,
			RequestedAt:      s.now(),
		}
		// The payment is committed; a lost intent is recovered by issuing the invoice manually.
		if err := s.invoices.RequestInvoice(ctx, intent); err != nil {
			s.log.Error("Failed to request invoice",
				zap.Error(err),
				zap.String("booking_id", id.String()),
			)
		}
	}

	return resp, nil
}

func (s *bookingService) Cancel(ctx context.Context, actor Actor, bookingID string) (*response.BookingDetailResponse, error) {
	if err := requireAdmin(actor, "cancel bookings"); err != nil {
		return nil, err
	}
	id, err := parseID("booking", bookingID)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, id, lockExclusive, func(r *repository.Repository, b *entity.Booking) error {
		if err := transition(b, entity.BookingStatusCancelled); err != nil {
			return err
		}
		return s.save(ctx, r, b)
	})
}

func (s *bookingService) UpdateChecklist(ctx context.Context, actor Actor, bookingID string, req *request.UpdateChecklistRequest) (*response.BookingDetailResponse, error) {
	if err := requireAdmin(actor, "change the checklist"); err != nil {
		return nil, err
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, invalidRequest(errs)
	}
	id, err := parseID("booking", bookingID)
	if err != nil {
		return nil, err
	}

	var next *uuid.UUID
	if req.ChecklistID != nil {
		cid, err := parseID("checklist", *req.ChecklistID)
		if err != nil {
			return nil, err
		}
		next = &cid
	}

	return s.mutate(ctx, id, lockExclusive, func(r *repository.Repository, b *entity.Booking) error {
		if b.Status.IsFinished() {
			return conflictError("cannot modify checklist of a finished booking")
		}
		if sameChecklist(b.ChecklistID, next) {
			return nil
		}

		if _, err := s.checklist.in(r).ReplaceSnapshot(ctx, b.ID, next); err != nil {
			return err
		}
		b.ChecklistID = next
		if err := s.save(ctx, r, b); err != nil {
			return err
		}

		s.log.Info("Booking checklist changed",
			zap.String("booking_id", b.ID.String()),
			zap.Bool("detached", next == nil),
		)
		return nil
	})
}

func sameChecklist(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (s *bookingService) UpdateDetails(ctx context.Context, actor Actor, bookingID string, req *request.UpdateDetailsRequest) (*response.BookingDetailResponse, error) {
	if err := requireAdmin(actor, "edit booking details"); err != nil {
		return nil, err
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, invalidRequest(errs)
	}
	id, err := parseID("booking", bookingID)
	if err != nil {
		return nil, err
	}

	var lead *uuid.UUID
	if req.LeadCleanerID != nil {
		lid, err := parseID("lead cleaner", *req.LeadCleanerID)
		if err != nil {
			return nil, err
		}
		lead = &lid
	}

	return s.mutate(ctx, id, lockExclusive, func(r *repository.Repository, b *entity.Booking) error {
		if b.Status == entity.BookingStatusPaid {
			return conflictError("cannot edit details of a paid booking")
		}

		d := b.Details
		dirty := false

		if req.Price != nil && (d.PriceEstimate.Price == nil || *d.PriceEstimate.Price != *req.Price) {
			price := *req.Price
			d.PriceEstimate.Price = &price
			dirty = true
		}
		if next, changed := estimate.Recompute(d, d.PriceEstimate.DisplayPrice(), len(b.TeamMemberIDs)); changed {
			d.PriceEstimate = next
			dirty = true
		}

		switch {
		case req.ClearManualLoyaltyPoints:
			dirty = dirty || d.ManualLoyaltyPoints != nil
			d.ManualLoyaltyPoints = nil
		case req.ManualLoyaltyPoints != nil:
			points := *req.ManualLoyaltyPoints
			d.ManualLoyaltyPoints = &points
			dirty = true
		}

		switch {
		case req.ClearManualTeamReward:
			dirty = dirty || d.ManualTeamReward != nil
			d.ManualTeamReward = nil
		case req.ManualTeamReward != nil:
			reward := *req.ManualTeamReward
			d.ManualTeamReward = &reward
			dirty = true
		}

		switch {
		case req.ClearLeadCleaner:
			dirty = dirty || d.LeadCleanerID != nil
			d.LeadCleanerID = nil
		case lead != nil:
			if !b.HasCrewMember(*lead) {
				return validationError("lead cleaner %s is not assigned to this booking", *lead)
			}
			d.LeadCleanerID = lead
			dirty = true
		}

		if req.CleanerEarnings != nil {
			earnings := *req.CleanerEarnings
			d.CleanerEarnings = &earnings
			dirty = true
		}
		if req.Notes != nil && *req.Notes != d.Notes {
			d.Notes = *req.Notes
			dirty = true
		}

		if !dirty {
			return nil
		}
		b.Details = d
		return s.save(ctx, r, b)
	})
}

func (s *bookingService) AttachInvoice(ctx context.Context, actor Actor, bookingID string, req *request.AttachInvoiceRequest) (*response.BookingDetailResponse, error) {
	if err := requireAdmin(actor, "attach invoices"); err != nil {
		return nil, err
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, invalidRequest(errs)
	}
	id, err := parseID("booking", bookingID)
	if err != nil {
		return nil, err
	}
	invoiceID, err := parseID("invoice", req.InvoiceID)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, id, lockExclusive, func(r *repository.Repository, b *entity.Booking) error {
		invoice, err := r.Invoice.FindByID(ctx, invoiceID)
		if err != nil {
			return persistenceError("load invoice", err)
		}
		if invoice == nil {
			return notFoundError("invoice %s not found", invoiceID)
		}

		b.InvoiceID = &invoiceID
		return s.save(ctx, r, b)
	})
}

// DeleteBooking removes the booking and its snapshot. Points earned by a
// paid booking are taken back. The checklist template is left alone.
func (s *bookingService) DeleteBooking(ctx context.Context, actor Actor, bookingID string) error {
	if err := requireAdmin(actor, "delete bookings"); err != nil {
		return err
	}
	id, err := parseID("booking", bookingID)
	if err != nil {
		return err
	}

	err = s.repo.Atomic(ctx, func(r *repository.Repository) error {
		b, err := r.Booking.FindByIDForUpdate(ctx, id)
		if err != nil {
			return persistenceError("load booking", err)
		}
		if b == nil {
			return notFoundError("booking %s not found", id)
		}

		if b.Status == entity.BookingStatusPaid {
			if _, err := s.loyalty.in(r).reverseForBooking(ctx, b.ClientID, b.ID); err != nil {
				return err
			}
			if price := b.Details.PriceEstimate.DisplayPrice(); price > 0 {
				if err := r.Client.AddTotalSpent(ctx, b.ClientID, -price); err != nil {
					return persistenceError("update client total", err)
				}
			}
		}

		if err := s.checklist.in(r).DeleteSnapshot(ctx, b.ID); err != nil {
			return err
		}
		if err := r.Booking.Delete(ctx, b.ID); err != nil {
			return persistenceError("delete booking", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("Booking deleted", zap.String("booking_id", id.String()))
	return nil
}
