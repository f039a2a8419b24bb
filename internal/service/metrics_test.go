package service

import (
	"testing"

	"coalfire-dashboard/internal/domain"
)

func TestMetricsSummaryNil(t *testing.T) {
	if got := MetricsSummary(nil); got != nil {
		t.Errorf("MetricsSummary(nil) = %+v, want nil", got)
	}
}

func TestMetricsSummaryTargetBoundary(t *testing.T) {
	tests := []struct {
		name string
		pm2  float64
		want bool
	}{
		{"exactly at target", 0.70, true},
		{"just under", 0.699, false},
		{"above", 0.85, true},
		{"zero", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := MetricsSummary(&domain.EvaluationResult{AccuracyPM2: tt.pm2})
			if s.MeetsTarget != tt.want {
				t.Errorf("MeetsTarget = %v for pm2=%v, want %v", s.MeetsTarget, tt.pm2, tt.want)
			}
		})
	}
}

func TestMetricsSummaryShape(t *testing.T) {
	s := MetricsSummary(&domain.EvaluationResult{
		MAE:              1.2345,
		AccuracyPM1:      0.4,
		AccuracyPM2:      0.7249,
		AccuracyPM3:      0.9,
		TotalPredictions: 40,
		CorrectPM2:       29,
	})
	if s.MAE != 1.23 {
		t.Errorf("MAE = %v, want 1.23", s.MAE)
	}
	if s.AccuracyPM2 != "72.5%" {
		t.Errorf("AccuracyPM2 = %q, want 72.5%%", s.AccuracyPM2)
	}
	if s.TotalPredictions != 40 || s.CorrectPM2 != 29 {
		t.Errorf("counts not passed through: %+v", s)
	}
	if !s.MeetsTarget {
		t.Error("72.5%% must meet the 70%% target")
	}
}
