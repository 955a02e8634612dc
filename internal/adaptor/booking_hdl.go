package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"cleaning-service/internal/dto/request"
	"cleaning-service/internal/dto/response"
	"cleaning-service/internal/usecase"
	"cleaning-service/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// decodeBody reads a JSON body. An empty body is accepted when optional is set.
func decodeBody(r *http.Request, v any, optional bool) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if optional && errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

type bookingOp func(actor usecase.Actor, id string) (*response.BookingDetailResponse, error)

// run wraps the actor lookup and error mapping shared by every booking endpoint.
func (h *BookingHandler) run(w http.ResponseWriter, r *http.Request, operation, message string, op bookingOp) {
	actor, ok := actorFrom(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Actor required")
		return
	}

	booking, err := op(actor, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.log, err, operation)
		return
	}
	utils.ResponseSuccess(w, message, booking)
}

// CreateBooking handles POST /api/bookings
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Actor required")
		return
	}

	var req request.CreateBookingRequest
	if err := decodeBody(r, &req, false); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), actor, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "create booking")
		return
	}

	utils.ResponseCreated(w, "Booking created", booking)
}

// ListBookings handles GET /api/bookings?filter=&page=&per_page=
func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Actor required")
		return
	}

	query := r.URL.Query()
	req := &request.ListBookingsRequest{
		PaginatedRequest: request.PaginatedRequest{
			Page:    utils.ParseInt(query.Get("page"), 1),
			PerPage: utils.ParseInt(query.Get("per_page"), 10),
		},
		Filter: query.Get("filter"),
	}

	bookings, err := h.service.ListBookings(r.Context(), actor, req)
	if err != nil {
		writeServiceError(w, h.log, err, "list bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// GetBooking handles GET /api/bookings/{id}
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "get booking", "success", func(actor usecase.Actor, id string) (*response.BookingDetailResponse, error) {
		return h.service.GetBooking(r.Context(), actor, id)
	})
}

// GetRooms handles GET /api/bookings/{id}/rooms
func (h *BookingHandler) GetRooms(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Actor required")
		return
	}

	booking, err := h.service.GetBooking(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.log, err, "get booking rooms")
		return
	}

	utils.ResponseSuccess(w, "success", map[string]any{
		"rooms":               booking.Rooms,
		"progress":            booking.Progress,
		"last_completed_room": booking.LastCompletedRoom,
	})
}

// DeleteBooking handles DELETE /api/bookings/{id}
func (h *BookingHandler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Actor required")
		return
	}

	if err := h.service.DeleteBooking(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, h.log, err, "delete booking")
		return
	}

	utils.ResponseSuccess(w, "Booking deleted", nil)
}

// Approve handles POST /api/bookings/{id}/approve
func (h *BookingHandler) Approve(w http.ResponseWriter, r *http.Request) {
	var req request.ApproveBookingRequest
	if err := decodeBody(r, &req, false); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}
	h.run(w, r, "approve booking", "Booking approved", func(actor usecase.Actor, id string) (*response.BookingDetailResponse, error) {
		return h.service.Approve(r.Context(), actor, id, &req)
	})
}

// Decline handles POST /api/bookings/{id}/decline
func (h *BookingHandler) Decline(w http.ResponseWriter, r *http.Request) {
	var req request.DeclineBookingRequest
	if err := decodeBody(r, &req, true); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}
	h.run(w, r, "decline booking", "Booking declined", func(actor usecase.Actor, id string) (*response.BookingDetailResponse, error) {
		return h.service.Decline(r.Context(), actor, id, &req)
	})
}

// Start handles POST /api/bookings/{id}/start
func (h *BookingHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "start booking", "Booking started", func(actor usecase.Actor, id string) (*response.BookingDetailResponse, error) {
		return h.service.Start(r.Context(), actor, id)
	})
}

// CompleteRoom handles POST /api/bookings/{id}/rooms/{roomId}/complete
func (h *BookingHandler) CompleteRoom(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	h.run(w, r, "complete room", "Room completed", func(actor usecase.Actor, id string) (*response.BookingDetailResponse, error) {
		return h.service.MarkRoomComplete(r.Context(), actor, id, roomID)
	})
}

// Complete handles POST /api/bookings/{id}/complete
func (h *BookingHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "complete booking", "Booking completed", func(actor usecase.Actor, id string) (*response.BookingDetailResponse, error) {
		return h.service.Complete(r.Context(), actor, id)
	})
}

// Pay handles POST /api/bookings/{id}/pay
func (h *BookingHandler) Pay(w http.ResponseWriter, r *http.Request) {
	var req request.MarkPaidRequest
	if err := decodeBody(r, &req, true); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}
	h.run(w, r, "mark booking paid", "Booking paid", func(actor usecase.Actor, id string) (*response.BookingDetailResponse, error) {
		return h.service.MarkPaid(r.Context(), actor, id, &req)
	})
}

// Cancel handles POST /api/bookings/{id}/cancel
func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "cancel booking", "Booking cancelled", func(actor usecase.Actor, id string) (*response.BookingDetailResponse, error) {
		return h.service.Cancel(r.Context(), actor, id)
	})
}

// UpdateChecklist handles PUT /api/bookings/{id}/checklist
func (h *BookingHandler) UpdateChecklist(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateChecklistRequest
	if err := decodeBody(r, &req, false); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}
	h.run(w, r, "update booking checklist", "Checklist updated", func(actor usecase.Actor, id string) (*response.BookingDetailResponse, error) {
		return h.service.UpdateChecklist(r.Context(), actor, id, &req)
	})
}

// UpdateDetails handles PATCH /api/bookings/{id}/details
func (h *BookingHandler) UpdateDetails(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateDetailsRequest
	if err := decodeBody(r, &req, false); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}
	h.run(w, r, "update booking details", "Booking updated", func(actor usecase.Actor, id string) (*response.BookingDetailResponse, error) {
		return h.service.UpdateDetails(r.Context(), actor, id, &req)
	})
}

// AttachInvoice handles PUT /api/bookings/{id}/invoice
func (h *BookingHandler) AttachInvoice(w http.ResponseWriter, r *http.Request) {
	var req request.AttachInvoiceRequest
	if err := decodeBody(r, &req, false); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}
	h.run(w, r, "attach invoice", "Invoice attached", func(actor usecase.Actor, id string) (*response.BookingDetailResponse, error) {
		return h.service.AttachInvoice(r.Context(), actor, id, &req)
	})
}
