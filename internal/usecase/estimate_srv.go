package usecase

import (
	"context"
	"encoding/json"

	"cleaning-service/internal/data/entity"
	"cleaning-service/internal/dto/request"
	"cleaning-service/internal/dto/response"
	"cleaning-service/internal/estimate"
	"cleaning-service/internal/loyalty"
	"cleaning-service/pkg/utils"

	"go.uber.org/zap"
)

type EstimateService interface {
	Estimate(ctx context.Context, req *request.EstimateRequest) (*response.EstimateResponse, error)
	Quote(ctx context.Context, req *request.QuoteRequest) (*response.QuoteResponse, error)
}

type estimateService struct {
	log *zap.Logger
}

func NewEstimateService(log *zap.Logger) EstimateService {
	return &estimateService{
		log: log.With(zap.String("service", "estimate")),
	}
}

// decodeDetails parses a details document at the request boundary. Legacy
// key aliases are migrated here so nothing downstream sees them.
func decodeDetails(serviceType string, raw json.RawMessage) (entity.ServiceType, entity.BookingDetails, error) {
	st, ok := entity.ParseServiceType(serviceType)
	if !ok {
		return "", entity.BookingDetails{}, validationError("unknown service type %q", serviceType)
	}

	details, err := entity.DecodeBookingDetails(st, raw)
	if err != nil {
		return "", entity.BookingDetails{}, validationError("malformed booking details: %v", err)
	}
	details.ServiceType = st
	if err := details.Validate(); err != nil {
		return "", entity.BookingDetails{}, validationError("%v", err)
	}
	return st, details, nil
}

func (s *estimateService) Estimate(ctx context.Context, req *request.EstimateRequest) (*response.EstimateResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Estimate validation failed", zap.Any("errors", errs))
		return nil, invalidRequest(errs)
	}

	st, details, err := decodeDetails(req.ServiceType, req.Details)
	if err != nil {
		return nil, err
	}

	price := req.Price
	if price == 0 {
		price = details.PriceEstimate.DisplayPrice()
	}

	return &response.EstimateResponse{
		ServiceType: st,
		Result:      estimate.Estimate(st, &details, price, req.CrewSize),
	}, nil
}

func (s *estimateService) Quote(ctx context.Context, req *request.QuoteRequest) (*response.QuoteResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Quote validation failed", zap.Any("errors", errs))
		return nil, invalidRequest(errs)
	}

	st, details, err := decodeDetails(req.ServiceType, req.Details)
	if err != nil {
		return nil, err
	}

	quote := estimate.QuoteFor(details)
	return &response.QuoteResponse{
		ServiceType: st,
		Quote:       quote,
		Estimate:    estimate.Estimate(st, &details, quote.PriceMin, 1),
		Points: response.PointsRange{
			Min: loyalty.ComputeAutoPoints(quote.PriceMin),
			Max: loyalty.ComputeAutoPoints(quote.PriceMax),
		},
	}, nil
}
