package format

import (
	"math"
	"testing"
)

func fptr(v float64) *float64 { return &v }

func TestNumber(t *testing.T) {
	tests := []struct {
		name     string
		v        *float64
		decimals int
		want     string
	}{
		{"plain value", fptr(3.14159), 2, "3.14"},
		{"zero decimals", fptr(42.7), 0, "43"},
		{"nil", nil, 1, Placeholder},
		{"NaN", fptr(math.NaN()), 1, Placeholder},
		{"positive infinity", fptr(math.Inf(1)), 1, Placeholder},
		{"negative infinity", fptr(math.Inf(-1)), 1, Placeholder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Number(tt.v, tt.decimals); got != tt.want {
				t.Errorf("Number() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(fptr(0.705), 1); got != "70.5%" {
		t.Errorf("Percent() = %q, want %q", got, "70.5%")
	}
	if got := Percent(nil, 1); got != Placeholder {
		t.Errorf("Percent(nil) = %q, want placeholder", got)
	}
	if got := Percent(fptr(math.NaN()), 1); got != Placeholder {
		t.Errorf("Percent(NaN) = %q, want placeholder", got)
	}
}

func TestDate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"iso date", "2024-06-15", "15.06.2024"},
		{"iso datetime", "2024-06-15T00:00:00", "15.06.2024"},
		{"rfc3339", "2024-06-15T10:30:00Z", "15.06.2024"},
		{"garbage", "not-a-date", Placeholder},
		{"empty", "", Placeholder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Date(tt.in); got != tt.want {
				t.Errorf("Date(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRiskMappings(t *testing.T) {
	if got := RiskColor("critical"); got != "#d32f2f" {
		t.Errorf("RiskColor(critical) = %q", got)
	}
	if got := RiskColor("bogus"); got != "#9e9e9e" {
		t.Errorf("RiskColor(bogus) = %q, want neutral grey", got)
	}
	if got := RiskLabel("high"); got != "High" {
		t.Errorf("RiskLabel(high) = %q", got)
	}
	if got := RiskLabel(""); got != Placeholder {
		t.Errorf("RiskLabel(empty) = %q, want placeholder", got)
	}
}

func TestConfidenceLabel(t *testing.T) {
	if got := ConfidenceLabel("medium"); got != "Medium" {
		t.Errorf("ConfidenceLabel(medium) = %q", got)
	}
	if got := ConfidenceLabel("unknown"); got != Placeholder {
		t.Errorf("ConfidenceLabel(unknown) = %q, want placeholder", got)
	}
}

func TestTextAndInt(t *testing.T) {
	s := "  "
	if got := Text(&s); got != Placeholder {
		t.Errorf("Text(blank) = %q, want placeholder", got)
	}
	grade := "G17"
	if got := Text(&grade); got != "G17" {
		t.Errorf("Text() = %q", got)
	}
	if got := Int(nil); got != Placeholder {
		t.Errorf("Int(nil) = %q, want placeholder", got)
	}
	n := 7
	if got := Int(&n); got != "7" {
		t.Errorf("Int() = %q", got)
	}
}
