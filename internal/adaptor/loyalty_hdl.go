package adaptor

import (
	"net/http"

	"cleaning-service/internal/dto/request"
	"cleaning-service/internal/usecase"
	"cleaning-service/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type LoyaltyHandler struct {
	service usecase.LoyaltyService
	log     *zap.Logger
}

func NewLoyaltyHandler(service usecase.LoyaltyService, log *zap.Logger) *LoyaltyHandler {
	return &LoyaltyHandler{
		service: service,
		log:     log.With(zap.String("handler", "loyalty")),
	}
}

// GetLedger handles GET /api/clients/{id}/loyalty
func (h *LoyaltyHandler) GetLedger(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Actor required")
		return
	}

	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 20),
	}

	ledger, err := h.service.GetLedger(r.Context(), actor, chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, h.log, err, "get loyalty ledger")
		return
	}

	utils.ResponseSuccess(w, "success", ledger)
}

// Redeem handles POST /api/clients/{id}/loyalty/redeem
func (h *LoyaltyHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Actor required")
		return
	}

	var req request.RedeemPointsRequest
	if err := decodeBody(r, &req, false); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	ledger, err := h.service.Redeem(r.Context(), actor, chi.URLParam(r, "id"), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "redeem loyalty points")
		return
	}

	utils.ResponseSuccess(w, "Points redeemed", ledger)
}

// Recalculate handles POST /api/clients/{id}/loyalty/recalculate
func (h *LoyaltyHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Actor required")
		return
	}

	ledger, err := h.service.Recalculate(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.log, err, "recalculate loyalty ledger")
		return
	}

	utils.ResponseSuccess(w, "Ledger recalculated", ledger)
}
