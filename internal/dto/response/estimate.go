package response

import (
	"cleaning-service/internal/data/entity"
	"cleaning-service/internal/estimate"
)

type EstimateResponse struct {
	ServiceType entity.ServiceType `json:"service_type"`
	estimate.Result
}

type QuoteResponse struct {
	ServiceType entity.ServiceType `json:"service_type"`
	estimate.Quote
	Estimate estimate.Result `json:"estimate"`
	Points   PointsRange     `json:"points"`
}

type PointsRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}
