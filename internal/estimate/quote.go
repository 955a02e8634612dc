package estimate

import (
	"math"
	"strings"

	"cleaning-service/internal/data/entity"
)

// MinimumOrder applies to window and upholstery jobs.
const MinimumOrder = 1500.0

type Quote struct {
	HoursMin        float64 `json:"hours_min"`
	HoursMax        float64 `json:"hours_max"`
	PriceMin        float64 `json:"price_min"`
	PriceMax        float64 `json:"price_max"`
	DiscountPercent float64 `json:"discount_percent"`
	BelowMinimum    bool    `json:"below_minimum,omitempty"`
	MinimumOrder    float64 `json:"minimum_order,omitempty"`
}

// PriceEstimate converts the quote into the stored form.
func (q Quote) PriceEstimate() entity.PriceEstimate {
	lo, hi := q.PriceMin, q.PriceMax
	return entity.PriceEstimate{
		PriceMin:        &lo,
		PriceMax:        &hi,
		HoursMin:        q.HoursMin,
		HoursMax:        q.HoursMax,
		DiscountPercent: q.DiscountPercent,
	}
}

// QuoteFor prices a job from the attribute block matching its service type.
// A missing block yields a zero quote.
func QuoteFor(details entity.BookingDetails) Quote {
	switch details.ServiceType {
	case entity.ServiceHomeCleaning:
		if details.Home != nil {
			return QuoteHome(*details.Home)
		}
	case entity.ServiceOfficeCleaning:
		if details.Office != nil {
			return QuoteOffice(*details.Office)
		}
	case entity.ServiceWindowCleaning:
		if details.Window != nil {
			return QuoteWindow(*details.Window)
		}
	case entity.ServiceUpholsteryCleaning:
		if details.Upholstery != nil {
			return QuoteUpholstery(*details.Upholstery)
		}
	}
	return Quote{}
}

var homeDirtiness = map[entity.DirtinessLevel]float64{
	entity.DirtinessLow:     1.0,
	entity.DirtinessMedium:  1.2,
	entity.DirtinessHigh:    1.4,
	entity.DirtinessExtreme: 1.4,
}

var homeFrequency = map[entity.Frequency]float64{
	entity.FrequencyOneOff:   1.0,
	entity.FrequencyMonthly:  0.9,
	entity.FrequencyBiweekly: 0.85,
	entity.FrequencyWeekly:   0.8,
	entity.FrequencyDaily:    0.8,
}

func QuoteHome(a entity.HomeAttributes) Quote {
	const rate = 400.0

	hoursMin := a.AreaM2/30 + float64(a.Bathrooms)*0.5 + float64(a.Kitchens)*0.75 + 0.25
	hoursMax := a.AreaM2/20 + float64(a.Bathrooms)*1.0 + float64(a.Kitchens)*1.25 + 0.5

	mult := factor(homeDirtiness, a.Dirtiness, 1.0)
	hoursMin = math.Max(2, hoursMin*mult)
	hoursMax = math.Max(hoursMin, hoursMax*mult)

	discount := factor(homeFrequency, a.Frequency, 1.0)

	return Quote{
		HoursMin:        round2(hoursMin),
		HoursMax:        round2(hoursMax),
		PriceMin:        roundUp10(hoursMin * rate * discount),
		PriceMax:        roundUp10(hoursMax * rate * discount),
		DiscountPercent: discountPercent(discount),
	}
}

var officeSpeed = map[string]float64{
	"office":     60,
	"shop":       50,
	"warehouse":  70,
	"production": 40,
}

var officeSpaceAliases = map[string]string{
	"kancelar": "office",
	"obchod":   "shop",
	"sklad":    "warehouse",
	"vyroba":   "production",
}

var officeDirtiness = map[entity.DirtinessLevel]float64{
	entity.DirtinessLow:     1.0,
	entity.DirtinessMedium:  1.2,
	entity.DirtinessHigh:    1.4,
	entity.DirtinessExtreme: 1.6,
}

var officeFrequency = map[entity.Frequency]float64{
	entity.FrequencyOneOff:   1.0,
	entity.FrequencyMonthly:  0.9,
	entity.FrequencyBiweekly: 0.9,
	entity.FrequencyWeekly:   0.8,
	entity.FrequencyDaily:    0.7,
}

func QuoteOffice(a entity.OfficeAttributes) Quote {
	const rate = 600.0

	space := strings.ToLower(a.SpaceType)
	if alias, ok := officeSpaceAliases[space]; ok {
		space = alias
	}
	speed, ok := officeSpeed[space]
	if !ok {
		speed = officeSpeed["office"]
	}

	hours := a.AreaM2/speed + float64(a.Toilets)*0.5 + float64(a.Kitchenettes)*0.5
	hours += float64(len(a.Extras)) * 0.5
	hours *= factor(officeDirtiness, a.Dirtiness, 1.0)

	hoursMin := hours * 0.85
	hoursMax := hours * 1.02

	priceMin := hoursMin * rate
	priceMax := hoursMax * rate
	if a.NightShift {
		priceMin *= NightShiftSurcharge
		priceMax *= NightShiftSurcharge
	}

	discount := factor(officeFrequency, a.Frequency, 1.0)

	return Quote{
		HoursMin:        round2(hoursMin),
		HoursMax:        round2(hoursMax),
		PriceMin:        roundUp10(priceMin * discount),
		PriceMax:        roundUp10(priceMax * discount),
		DiscountPercent: discountPercent(discount),
	}
}

var windowDirtiness = map[entity.DirtinessLevel]float64{
	entity.DirtinessLow:     1.0,
	entity.DirtinessMedium:  1.2,
	entity.DirtinessHigh:    1.4,
	entity.DirtinessExtreme: 1.4,
}

var windowObject = map[string]float64{
	"flat":     1.0,
	"byt":      1.0,
	"house":    1.1,
	"dum":      1.1,
	"office":   1.05,
	"kancelar": 1.05,
	"shop":     1.15,
	"obchod":   1.15,
}

func QuoteWindow(a entity.WindowAttributes) Quote {
	const perSquareMetre = 276.0

	price := a.WindowAreaM2 * perSquareMetre
	price *= factor(windowDirtiness, a.Dirtiness, 1.0)
	if obj, ok := windowObject[strings.ToLower(a.ObjectType)]; ok {
		price *= obj
	}
	if price < MinimumOrder {
		price = MinimumOrder
	}

	return Quote{
		PriceMin: math.Round(price * 0.9),
		PriceMax: math.Round(price * 1.1),
	}
}

var carpetRates = map[string][3]float64{
	"rug":        {200, 230, 260},
	"short_pile": {84, 108, 132},
	"long_pile":  {108, 132, 156},
}

var sofaPrices = map[string][3]float64{
	"1":      {770, 990, 1210},
	"2":      {990, 1210, 1430},
	"3":      {1210, 1430, 1650},
	"4":      {1430, 1650, 1870},
	"5":      {1650, 1870, 2090},
	"6":      {1870, 2090, 2310},
	"corner": {2090, 2530, 2970},
}

var mattressPrices = map[string][2][3]float64{
	// one side, both sides
	"90":  {{800, 960, 1120}, {1400, 1600, 1800}},
	"140": {{1100, 1300, 1500}, {1900, 2100, 2300}},
	"160": {{1200, 1400, 1600}, {2000, 2200, 2400}},
	"180": {{1300, 1500, 1700}, {2200, 2400, 2600}},
	"200": {{1400, 1600, 1800}, {2400, 2600, 2800}},
}

var (
	armchairPrices = [3]float64{400, 550, 700}
	chairPrices    = [3]float64{195, 260, 325}
)

func QuoteUpholstery(a entity.UpholsteryAttributes) Quote {
	var total float64

	if c := a.Carpet; c != nil {
		rates, ok := carpetRates[carpetKind(c.Kind)]
		if !ok {
			rates = carpetRates["rug"]
		}
		total += c.AreaM2 * rates[dirtinessColumn(c.Dirtiness)]
	}
	if s := a.Sofa; s != nil {
		prices, ok := sofaPrices[sofaSize(s.Size)]
		if !ok {
			prices = sofaPrices["2"]
		}
		total += prices[dirtinessColumn(s.Dirtiness)]
	}
	if m := a.Mattress; m != nil {
		if prices, ok := mattressPrices[strings.TrimSpace(m.Size)]; ok {
			side := 0
			if m.BothSides {
				side = 1
			}
			total += prices[side][dirtinessColumn(m.Dirtiness)]
		}
	}
	if ac := a.Armchairs; ac != nil {
		total += float64(ac.Count) * armchairPrices[dirtinessColumn(ac.Dirtiness)]
	}
	if ch := a.Chairs; ch != nil {
		total += float64(ch.Count) * chairPrices[dirtinessColumn(ch.Dirtiness)]
	}

	q := Quote{MinimumOrder: MinimumOrder}
	if total > 0 {
		q.PriceMin = math.Round(total * 0.9)
		q.PriceMax = math.Round(total * 1.1)
		q.BelowMinimum = total < MinimumOrder
	}
	return q
}

func carpetKind(kind string) string {
	k := strings.ToLower(kind)
	switch {
	case strings.Contains(k, "krátk"), strings.Contains(k, "short"):
		return "short_pile"
	case strings.Contains(k, "dlouh"), strings.Contains(k, "long"):
		return "long_pile"
	}
	return "rug"
}

func sofaSize(size string) string {
	s := strings.ToLower(strings.TrimSpace(size))
	if strings.HasPrefix(s, "roh") || s == "corner" {
		return "corner"
	}
	if i := strings.IndexAny(s, "-m "); i > 0 {
		s = s[:i]
	}
	return s
}

func dirtinessColumn(level entity.DirtinessLevel) int {
	switch level {
	case entity.DirtinessMedium:
		return 1
	case entity.DirtinessHigh, entity.DirtinessExtreme:
		return 2
	}
	return 0
}

func factor[K comparable](table map[K]float64, key K, fallback float64) float64 {
	if v, ok := table[key]; ok {
		return v
	}
	return fallback
}

func roundUp10(v float64) float64 {
	return math.Ceil(v/10) * 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func discountPercent(discount float64) float64 {
	return math.Round((1-discount)*100*100) / 100
}
