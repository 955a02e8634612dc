package wire

import (
	"cleaning-service/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

// Calculators are public; they touch no stored data.
func wireEstimate(r chi.Router, h *adaptor.EstimateHandler) {
	r.Post("/api/estimate", h.Estimate)
	r.Post("/api/quote", h.Quote)
}
