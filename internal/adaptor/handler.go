package adaptor

import (
	"context"

	"cleaning-service/internal/usecase"

	"go.uber.org/zap"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	Booking  *BookingHandler
	Estimate *EstimateHandler
	Loyalty  *LoyaltyHandler
	Health   *HealthHandler
}

func NewHandler(service *usecase.Service, db Pinger, log *zap.Logger) *Handler {
	return &Handler{
		Booking:  NewBookingHandler(service.Booking, log),
		Estimate: NewEstimateHandler(service.Estimate, log),
		Loyalty:  NewLoyaltyHandler(service.Loyalty, log),
		Health:   NewHealthHandler(db, log),
	}
}
