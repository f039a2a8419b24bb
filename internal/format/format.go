// Package format holds the display formatters shared by every view.
// The contract: missing, nil or not-a-number input renders the
// placeholder, never "NaN" and never an empty cell.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"coalfire-dashboard/internal/domain"
)

// Placeholder is rendered for any value the dashboard cannot format.
const Placeholder = "—"

// Number formats a float with the given number of decimals.
func Number(v *float64, decimals int) string {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return Placeholder
	}
	return strconv.FormatFloat(*v, 'f', decimals, 64)
}

// Percent formats a fraction in [0,1] as a percentage string.
func Percent(v *float64, decimals int) string {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return Placeholder
	}
	return strconv.FormatFloat(*v*100, 'f', decimals, 64) + "%"
}

// Int formats an optional integer.
func Int(v *int) string {
	if v == nil {
		return Placeholder
	}
	return strconv.Itoa(*v)
}

// Date renders a service date string as dd.mm.yyyy.
func Date(s string) string {
	t, err := domain.ParseDate(s)
	if err != nil {
		return Placeholder
	}
	return t.Format("02.01.2006")
}

// Text renders an optional free-text attribute.
func Text(v *string) string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return Placeholder
	}
	return *v
}

// Days renders a day count such as predicted days to fire.
func Days(v int) string {
	if v == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", v)
}

var riskLabels = map[string]string{
	domain.RiskCritical: "Critical",
	domain.RiskHigh:     "High",
	domain.RiskMedium:   "Medium",
	domain.RiskLow:      "Low",
}

var riskColors = map[string]string{
	domain.RiskCritical: "#d32f2f",
	domain.RiskHigh:     "#f57c00",
	domain.RiskMedium:   "#fbc02d",
	domain.RiskLow:      "#388e3c",
}

var confidenceLabels = map[string]string{
	domain.ConfidenceHigh:   "High",
	domain.ConfidenceMedium: "Medium",
	domain.ConfidenceLow:    "Low",
}

// RiskLabel maps a service risk level to its display label.
func RiskLabel(level string) string {
	if l, ok := riskLabels[level]; ok {
		return l
	}
	return Placeholder
}

// RiskColor maps a service risk level to its calendar color. Unknown
// levels render neutral grey rather than being rebucketed.
func RiskColor(level string) string {
	if c, ok := riskColors[level]; ok {
		return c
	}
	return "#9e9e9e"
}

// ConfidenceLabel maps a confidence level to its display label.
func ConfidenceLabel(level string) string {
	if l, ok := confidenceLabels[level]; ok {
		return l
	}
	return Placeholder
}
