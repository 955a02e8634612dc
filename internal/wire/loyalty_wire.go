package wire

import (
	"cleaning-service/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireLoyalty(r chi.Router, h *adaptor.LoyaltyHandler) {
	r.Route("/api/clients/{id}/loyalty", func(r chi.Router) {
		r.Get("/", h.GetLedger)
		r.Post("/redeem", h.Redeem)
		r.Post("/recalculate", h.Recalculate)
	})
}
