package usecase

import (
	"cleaning-service/internal/data/repository"

	"go.uber.org/zap"
)

type Service struct {
	Booking   BookingService
	Checklist ChecklistService
	Loyalty   LoyaltyService
	Estimate  EstimateService
}

func NewService(repo *repository.Repository, invoices InvoiceSignaler, log *zap.Logger) *Service {
	return &Service{
		Booking:   NewBookingService(repo, invoices, log),
		Checklist: NewChecklistService(repo, log),
		Loyalty:   NewLoyaltyService(repo, log),
		Estimate:  NewEstimateService(log),
	}
}
