package validation

import (
	"strconv"
	"strings"
)

// Violations maps a field path (e.g. "quote_number", "items.0.quantity") to a
// translation code describing what is wrong with it.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// ItemField builds the field path for the i-th line item of a document.
func ItemField(index int, field string) string {
	return "items." + strconv.Itoa(index) + "." + field
}

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func RequiredID(field string, id uint, v Violations) {
	if id == 0 {
		v[field] = "required"
	}
}

func PositiveFloat(field string, val float64, v Violations) {
	if val <= 0 {
		v[field] = "must_be_positive"
	}
}

func NonNegativeFloat(field string, val float64, v Violations) {
	if val < 0 {
		v[field] = "must_be_non_negative"
	}
}

func RangeFloat(field string, val, minVal, maxVal float64, v Violations) {
	if val < minVal || val > maxVal {
		v[field] = "out_of_range"
	}
}
