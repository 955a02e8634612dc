package entity

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

type ServiceType string

const (
	ServiceHomeCleaning       ServiceType = "home_cleaning"
	ServiceOfficeCleaning     ServiceType = "office_cleaning"
	ServiceWindowCleaning     ServiceType = "window_cleaning"
	ServiceUpholsteryCleaning ServiceType = "upholstery_cleaning"
)

// ParseServiceType accepts canonical names and the short/legacy forms.
func ParseServiceType(s string) (ServiceType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "home_cleaning", "home":
		return ServiceHomeCleaning, true
	case "office_cleaning", "office":
		return ServiceOfficeCleaning, true
	case "window_cleaning", "window_wash", "window":
		return ServiceWindowCleaning, true
	case "upholstery_cleaning", "upholstery":
		return ServiceUpholsteryCleaning, true
	}
	return "", false
}

type DirtinessLevel string

const (
	DirtinessLow     DirtinessLevel = "low"
	DirtinessMedium  DirtinessLevel = "medium"
	DirtinessHigh    DirtinessLevel = "high"
	DirtinessExtreme DirtinessLevel = "extreme"
)

type Frequency string

const (
	FrequencyOneOff   Frequency = "one_off"
	FrequencyMonthly  Frequency = "monthly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyWeekly   Frequency = "weekly"
	FrequencyDaily    Frequency = "daily"
)

type PriceEstimate struct {
	Price           *float64 `json:"price,omitempty"`
	PriceMin        *float64 `json:"price_min,omitempty"`
	PriceMax        *float64 `json:"price_max,omitempty"`
	HoursMin        float64  `json:"hours_min"`
	HoursMax        float64  `json:"hours_max"`
	DiscountPercent float64  `json:"discount_percent,omitempty"`
}

// DisplayPrice is price, falling back to priceMin, then zero.
func (p PriceEstimate) DisplayPrice() float64 {
	if p.Price != nil {
		return *p.Price
	}
	if p.PriceMin != nil {
		return *p.PriceMin
	}
	return 0
}

type HomeAttributes struct {
	AreaM2    float64        `json:"area_m2"`
	Bathrooms int            `json:"bathrooms"`
	Kitchens  int            `json:"kitchens"`
	Dirtiness DirtinessLevel `json:"dirtiness,omitempty"`
	Frequency Frequency      `json:"frequency,omitempty"`
}

type OfficeAttributes struct {
	AreaM2       float64        `json:"area_m2"`
	Toilets      int            `json:"toilets"`
	Kitchenettes int            `json:"kitchenettes"`
	Workstations int            `json:"workstations,omitempty"`
	SpaceType    string         `json:"space_type,omitempty"`
	Dirtiness    DirtinessLevel `json:"dirtiness,omitempty"`
	Frequency    Frequency      `json:"frequency,omitempty"`
	NightShift   bool           `json:"night_shift,omitempty"`
	Extras       []string       `json:"extras,omitempty"`
}

type WindowAttributes struct {
	WindowAreaM2 float64        `json:"window_area_m2"`
	Dirtiness    DirtinessLevel `json:"dirtiness,omitempty"`
	ObjectType   string         `json:"object_type,omitempty"`
}

type UpholsteryItem struct {
	Kind      string         `json:"kind,omitempty"`
	AreaM2    float64        `json:"area_m2,omitempty"`
	Count     int            `json:"count,omitempty"`
	Size      string         `json:"size,omitempty"`
	BothSides bool           `json:"both_sides,omitempty"`
	Dirtiness DirtinessLevel `json:"dirtiness,omitempty"`
}

type UpholsteryAttributes struct {
	Carpet    *UpholsteryItem `json:"carpet,omitempty"`
	Sofa      *UpholsteryItem `json:"sofa,omitempty"`
	Mattress  *UpholsteryItem `json:"mattress,omitempty"`
	Armchairs *UpholsteryItem `json:"armchairs,omitempty"`
	Chairs    *UpholsteryItem `json:"chairs,omitempty"`
}

// BookingDetails is keyed by ServiceType; exactly the matching attribute block is set.
type BookingDetails struct {
	ServiceType         ServiceType   `json:"service_type"`
	PriceEstimate       PriceEstimate `json:"price_estimate"`
	ManualLoyaltyPoints *int          `json:"manual_loyalty_points,omitempty"`
	ManualTeamReward    *float64      `json:"manual_team_reward,omitempty"`
	LeadCleanerID       *uuid.UUID    `json:"lead_cleaner_id,omitempty"`
	CleanerEarnings     *float64      `json:"cleaner_earnings,omitempty"`
	Notes               string        `json:"notes,omitempty"`

	Home       *HomeAttributes       `json:"home,omitempty"`
	Office     *OfficeAttributes     `json:"office,omitempty"`
	Window     *WindowAttributes     `json:"window,omitempty"`
	Upholstery *UpholsteryAttributes `json:"upholstery,omitempty"`
}

// Validate checks the union tag against the attribute blocks.
func (d BookingDetails) Validate() error {
	set := 0
	for _, ok := range []bool{d.Home != nil, d.Office != nil, d.Window != nil, d.Upholstery != nil} {
		if ok {
			set++
		}
	}
	if set > 1 {
		return fmt.Errorf("booking details carry attributes for more than one service type")
	}

	switch d.ServiceType {
	case ServiceHomeCleaning:
		if d.Office != nil || d.Window != nil || d.Upholstery != nil {
			return fmt.Errorf("home cleaning details carry foreign attributes")
		}
	case ServiceOfficeCleaning:
		if d.Home != nil || d.Window != nil || d.Upholstery != nil {
			return fmt.Errorf("office cleaning details carry foreign attributes")
		}
	case ServiceWindowCleaning:
		if d.Home != nil || d.Office != nil || d.Upholstery != nil {
			return fmt.Errorf("window cleaning details carry foreign attributes")
		}
	case ServiceUpholsteryCleaning:
		if d.Home != nil || d.Office != nil || d.Window != nil {
			return fmt.Errorf("upholstery cleaning details carry foreign attributes")
		}
	default:
		return fmt.Errorf("unknown service type %q", d.ServiceType)
	}

	if d.ManualLoyaltyPoints != nil && *d.ManualLoyaltyPoints < 0 {
		return fmt.Errorf("manual loyalty points must not be negative")
	}
	if d.ManualTeamReward != nil && *d.ManualTeamReward < 0 {
		return fmt.Errorf("manual team reward must not be negative")
	}
	return nil
}

// DecodeBookingDetails reads a stored details blob. Canonical documents are
// decoded directly; legacy documents (camelCase / Czech key aliases) are
// migrated into the typed form.
func DecodeBookingDetails(serviceType ServiceType, raw []byte) (BookingDetails, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return BookingDetails{ServiceType: serviceType}, nil
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return BookingDetails{}, fmt.Errorf("decode booking details: %w", err)
	}

	if _, canonical := m["price_estimate"]; canonical {
		var d BookingDetails
		if err := json.Unmarshal(raw, &d); err != nil {
			return BookingDetails{}, fmt.Errorf("decode booking details: %w", err)
		}
		if d.ServiceType == "" {
			d.ServiceType = serviceType
		}
		return d, nil
	}

	return migrateLegacyDetails(serviceType, m), nil
}

func migrateLegacyDetails(serviceType ServiceType, m map[string]any) BookingDetails {
	d := BookingDetails{ServiceType: serviceType}
	if st, ok := ParseServiceType(stringOf(m, "service_type", "service_id")); ok && serviceType == "" {
		d.ServiceType = st
	}

	if pe, ok := m["priceEstimate"].(map[string]any); ok {
		d.PriceEstimate = PriceEstimate{
			Price:           numberPtr(pe, "price"),
			PriceMin:        numberPtr(pe, "priceMin", "price_min"),
			PriceMax:        numberPtr(pe, "priceMax", "price_max"),
			HoursMin:        number(pe, "hoursMin", "hours_min"),
			HoursMax:        number(pe, "hoursMax", "hours_max"),
			DiscountPercent: number(pe, "discountPercent"),
		}
	}

	if v := numberPtr(m, "manual_loyalty_points", "manualLoyaltyPoints"); v != nil && *v > 0 {
		points := int(*v)
		d.ManualLoyaltyPoints = &points
	}
	d.ManualTeamReward = numberPtr(m, "manual_team_reward", "manualTeamReward")
	d.CleanerEarnings = numberPtr(m, "cleaner_earnings", "cleanerEarnings")
	if id, err := uuid.Parse(stringOf(m, "lead_cleaner_id", "leadCleanerId")); err == nil {
		d.LeadCleanerID = &id
	}
	d.Notes = stringOf(m, "notes", "poznamky")

	switch d.ServiceType {
	case ServiceHomeCleaning:
		d.Home = &HomeAttributes{
			AreaM2:    number(m, "area", "plocha_m2", "plocha"),
			Bathrooms: int(number(m, "bathrooms", "pocet_koupelen")),
			Kitchens:  int(number(m, "kitchens", "pocet_kuchyni")),
			Dirtiness: ParseDirtiness(stringOf(m, "dirtiness", "znecisteni")),
			Frequency: ParseFrequency(stringOf(m, "frequency", "frekvence")),
		}
	case ServiceOfficeCleaning:
		d.Office = &OfficeAttributes{
			AreaM2:       number(m, "officeArea", "plocha_m2", "plocha"),
			Toilets:      int(number(m, "officeBathrooms", "pocet_wc")),
			Kitchenettes: int(number(m, "officeKitchens", "pocet_kuchynek", "pocet_kuchyni")),
			Workstations: int(number(m, "officeWorkstations", "pocet_pracovist", "workstations")),
			SpaceType:    stringOf(m, "officeSpaceType", "typ_prostoru"),
			Dirtiness:    ParseDirtiness(stringOf(m, "officeDirtiness", "znecisteni", "znecisteni_office")),
			Frequency:    ParseFrequency(stringOf(m, "officeFrequency", "frekvence", "frekvence_office")),
			NightShift:   stringOf(m, "doba") == "nocni",
		}
	case ServiceWindowCleaning:
		d.Window = &WindowAttributes{
			WindowAreaM2: number(m, "windowCount", "pocet_oken", "plocha_oken_m2"),
			Dirtiness:    ParseDirtiness(stringOf(m, "windowDirtiness", "znecisteni", "znecisteni_okna")),
			ObjectType:   stringOf(m, "windowObjectType", "typ_objektu"),
		}
	case ServiceUpholsteryCleaning:
		d.Upholstery = migrateLegacyUpholstery(m)
	}

	return d
}

func migrateLegacyUpholstery(m map[string]any) *UpholsteryAttributes {
	u := &UpholsteryAttributes{}
	if truthy(m, "koberce") {
		u.Carpet = &UpholsteryItem{
			Kind:      stringOf(m, "typ_koberec"),
			AreaM2:    number(m, "plocha_koberec"),
			Dirtiness: ParseDirtiness(stringOf(m, "znecisteni_koberec")),
		}
	}
	if truthy(m, "sedacka") {
		u.Sofa = &UpholsteryItem{
			Size:      stringOf(m, "velikost_sedacka"),
			Dirtiness: ParseDirtiness(stringOf(m, "znecisteni_sedacka")),
		}
	}
	if truthy(m, "matrace") {
		u.Mattress = &UpholsteryItem{
			Size:      strings.TrimSuffix(stringOf(m, "velikost_matrace"), " cm"),
			BothSides: strings.Contains(stringOf(m, "strany_matrace"), "obě"),
			Dirtiness: ParseDirtiness(stringOf(m, "znecisteni_matrace")),
		}
	}
	if truthy(m, "kresla") {
		u.Armchairs = &UpholsteryItem{
			Count:     int(number(m, "pocet_kresla")),
			Dirtiness: ParseDirtiness(stringOf(m, "znecisteni_kresla")),
		}
	}
	if truthy(m, "zidle") {
		u.Chairs = &UpholsteryItem{
			Count:     int(number(m, "pocet_zidle")),
			Dirtiness: ParseDirtiness(stringOf(m, "znecisteni_zidle")),
		}
	}
	return u
}

// ParseDirtiness maps canonical and localized labels; unknown input is low.
func ParseDirtiness(s string) DirtinessLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "medium", "stredni", "střední":
		return DirtinessMedium
	case "high", "vysoka", "vysoke", "vysoká", "vysoké":
		return DirtinessHigh
	case "extreme", "extremni", "extrémní":
		return DirtinessExtreme
	}
	return DirtinessLow
}

// ParseFrequency maps canonical and localized labels; unknown input is one-off.
func ParseFrequency(s string) Frequency {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "monthly", "mesicne":
		return FrequencyMonthly
	case "biweekly", "ctyrtydne":
		return FrequencyBiweekly
	case "weekly", "tydne":
		return FrequencyWeekly
	case "daily", "denne":
		return FrequencyDaily
	}
	return FrequencyOneOff
}

func lookup(m map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func numberPtr(m map[string]any, keys ...string) *float64 {
	v, ok := lookup(m, keys...)
	if !ok {
		return nil
	}
	switch n := v.(type) {
	case float64:
		return &n
	case string:
		if f, err := strconv.ParseFloat(strings.ReplaceAll(n, ",", "."), 64); err == nil {
			return &f
		}
	}
	return nil
}

func number(m map[string]any, keys ...string) float64 {
	if p := numberPtr(m, keys...); p != nil {
		return *p
	}
	return 0
}

func stringOf(m map[string]any, keys ...string) string {
	v, ok := lookup(m, keys...)
	if !ok {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func truthy(m map[string]any, key string) bool {
	b, _ := m[key].(bool)
	return b
}
