package service

import (
	"math"

	"coalfire-dashboard/internal/domain"
	"coalfire-dashboard/internal/format"
)

// accuracyTarget is the acceptance threshold for ±2 day accuracy. The
// service defines the same 0.70 target; the two values must stay in
// sync by hand.
const accuracyTarget = 0.70

// Summary is the fixed-shape block shown at the top of the metrics
// page.
type Summary struct {
	MAE              float64 `json:"mae"`
	AccuracyPM1      string  `json:"accuracy_pm1"`
	AccuracyPM2      string  `json:"accuracy_pm2"`
	AccuracyPM3      string  `json:"accuracy_pm3"`
	MeetsTarget      bool    `json:"meets_target"`
	TotalPredictions int     `json:"total_predictions"`
	CorrectPM2       int     `json:"correct_pm2"`
}

// MetricsSummary derives the summary from an evaluation result. A nil
// result yields a nil summary; nothing is computed. The target check
// is inclusive: exactly 70% passes.
func MetricsSummary(m *domain.EvaluationResult) *Summary {
	if m == nil {
		return nil
	}
	return &Summary{
		MAE:              math.Round(m.MAE*100) / 100,
		AccuracyPM1:      format.Percent(&m.AccuracyPM1, 1),
		AccuracyPM2:      format.Percent(&m.AccuracyPM2, 1),
		AccuracyPM3:      format.Percent(&m.AccuracyPM3, 1),
		MeetsTarget:      m.AccuracyPM2 >= accuracyTarget,
		TotalPredictions: m.TotalPredictions,
		CorrectPM2:       m.CorrectPM2,
	}
}
