package adaptor

import (
	"net/http"

	"cleaning-service/internal/dto/request"
	"cleaning-service/internal/usecase"
	"cleaning-service/pkg/utils"

	"go.uber.org/zap"
)

type EstimateHandler struct {
	service usecase.EstimateService
	log     *zap.Logger
}

func NewEstimateHandler(service usecase.EstimateService, log *zap.Logger) *EstimateHandler {
	return &EstimateHandler{
		service: service,
		log:     log.With(zap.String("handler", "estimate")),
	}
}

// Estimate handles POST /api/estimate
func (h *EstimateHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	var req request.EstimateRequest
	if err := decodeBody(r, &req, false); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	res, err := h.service.Estimate(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "estimate duration")
		return
	}

	utils.ResponseSuccess(w, "success", res)
}

// Quote handles POST /api/quote
func (h *EstimateHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req request.QuoteRequest
	if err := decodeBody(r, &req, false); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	res, err := h.service.Quote(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "quote price")
		return
	}

	utils.ResponseSuccess(w, "success", res)
}
