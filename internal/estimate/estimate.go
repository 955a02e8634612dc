// Package estimate converts a booking's price and crew size into a duration
// estimate, and prices a job from its structural attributes.
package estimate

import (
	"fmt"
	"math"

	"cleaning-service/internal/data/entity"
)

const (
	// HourlyRate is the price of one work hour used to back out duration from price.
	HourlyRate = 500.0
	// UpholsteryHourlyRate applies to upholstery jobs, which are priced per item.
	UpholsteryHourlyRate = 1500.0
	// NightShiftSurcharge matches the office quote's night pricing.
	NightShiftSurcharge = 1.1
	// PerPersonTolerance widens the per-person figure into a range.
	PerPersonTolerance = 0.15

	minHours = 0.1
)

type Result struct {
	Rate           float64 `json:"rate"`
	CrewSize       int     `json:"crew_size"`
	TotalHours     float64 `json:"total_hours"`
	PerPersonMin   float64 `json:"per_person_min"`
	PerPersonMax   float64 `json:"per_person_max"`
	FormattedRange string  `json:"formatted_range"`
}

// Rate picks the hourly rate for the service. Night office work is billed
// with a surcharge, so the same price buys fewer hours.
func Rate(serviceType entity.ServiceType, details *entity.BookingDetails) float64 {
	switch serviceType {
	case entity.ServiceUpholsteryCleaning:
		return UpholsteryHourlyRate
	case entity.ServiceOfficeCleaning:
		if details != nil && details.Office != nil && details.Office.NightShift {
			return HourlyRate * NightShiftSurcharge
		}
	}
	return HourlyRate
}

// Estimate reduces the job to a workload in hours (price / rate) and splits it
// across the crew. Missing or non-positive price yields a zero estimate.
func Estimate(serviceType entity.ServiceType, details *entity.BookingDetails, price float64, crewSize int) Result {
	if crewSize < 1 {
		crewSize = 1
	}
	res := Result{Rate: Rate(serviceType, details), CrewSize: crewSize}
	if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		res.FormattedRange = formatHours(0)
		return res
	}

	res.TotalHours = atLeast(round1(price/res.Rate), minHours)

	if crewSize == 1 {
		res.PerPersonMin = res.TotalHours
		res.PerPersonMax = res.TotalHours
		res.FormattedRange = formatHours(res.TotalHours)
		return res
	}

	perPerson := res.TotalHours / float64(crewSize)
	delta := perPerson * PerPersonTolerance
	res.PerPersonMin = atLeast(round1(perPerson-delta), minHours)
	res.PerPersonMax = atLeast(round1(perPerson+delta), res.PerPersonMin)
	res.FormattedRange = formatRange(res.PerPersonMin, res.PerPersonMax)
	return res
}

// Recompute refreshes the stored hours from a new price or crew size. The
// returned flag is false when the displayed values would not change, so the
// caller can skip the write.
func Recompute(details entity.BookingDetails, price float64, crewSize int) (entity.PriceEstimate, bool) {
	current := details.PriceEstimate
	res := Estimate(details.ServiceType, &details, price, crewSize)

	next := current
	next.HoursMin = res.PerPersonMin
	next.HoursMax = res.PerPersonMax

	changed := next.HoursMin != current.HoursMin || next.HoursMax != current.HoursMax
	return next, changed
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func atLeast(v, floor float64) float64 {
	if v < floor {
		return floor
	}
	return v
}

func formatHours(h float64) string {
	return fmt.Sprintf("%.1f h", h)
}

func formatRange(lo, hi float64) string {
	if lo == hi {
		return formatHours(lo)
	}
	return fmt.Sprintf("%.1f–%.1f h", lo, hi)
}
