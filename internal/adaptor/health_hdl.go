package adaptor

import (
	"context"
	"net/http"
	"time"

	"cleaning-service/pkg/utils"

	"go.uber.org/zap"
)

type HealthHandler struct {
	db  Pinger
	log *zap.Logger
}

func NewHealthHandler(db Pinger, log *zap.Logger) *HealthHandler {
	return &HealthHandler{
		db:  db,
		log: log.With(zap.String("handler", "health")),
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			h.log.Error("Database ping failed", zap.Error(err))
			utils.ResponseUnavailable(w, "Database unavailable")
			return
		}
	}

	utils.ResponseSuccess(w, "OK", nil)
}
