package wire

import (
	"cleaning-service/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

// wireBooking mounts the lifecycle routes. Authorization per action is
// decided in the service from the resolved actor.
func wireBooking(r chi.Router, h *adaptor.BookingHandler) {
	r.Route("/api/bookings", func(r chi.Router) {
		r.Post("/", h.CreateBooking)
		r.Get("/", h.ListBookings)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetBooking)
			r.Delete("/", h.DeleteBooking)

			// State transitions
			r.Post("/approve", h.Approve)
			r.Post("/decline", h.Decline)
			r.Post("/start", h.Start)
			r.Post("/complete", h.Complete)
			r.Post("/pay", h.Pay)
			r.Post("/cancel", h.Cancel)

			// Checklist snapshot
			r.Get("/rooms", h.GetRooms)
			r.Post("/rooms/{roomId}/complete", h.CompleteRoom)
			r.Put("/checklist", h.UpdateChecklist)

			r.Patch("/details", h.UpdateDetails)
			r.Put("/invoice", h.AttachInvoice)
		})
	})
}
