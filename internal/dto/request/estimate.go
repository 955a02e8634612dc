package request

import "encoding/json"

type EstimateRequest struct {
	ServiceType string          `json:"service_type" validate:"required"`
	Details     json.RawMessage `json:"booking_details"`
	Price       float64         `json:"price" validate:"gte=0"`
	CrewSize    int             `json:"crew_size" validate:"gte=0,max=50"`
}

type QuoteRequest struct {
	ServiceType string          `json:"service_type" validate:"required"`
	Details     json.RawMessage `json:"booking_details" validate:"required"`
}
