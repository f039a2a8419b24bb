package service

import "coalfire-dashboard/internal/domain"

// DayCounts partitions one day's predictions by risk level.
type DayCounts struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
	Total    int `json:"total"`
}

// AggregateByDate counts the predictions whose predicted fire date
// falls on the selected calendar day (exact date equality, not a
// range). A missing or unknown risk level counts as low; that is the
// chosen default, not a data error.
func AggregateByDate(preds []domain.Prediction, selectedDate string) DayCounts {
	var counts DayCounts
	selected, err := domain.ParseDate(selectedDate)
	if err != nil {
		return counts
	}
	day := selected.Format("2006-01-02")

	for _, p := range preds {
		t, err := domain.ParseDate(p.PredictedFireDate)
		if err != nil || t.Format("2006-01-02") != day {
			continue
		}
		switch p.RiskLevel {
		case domain.RiskCritical:
			counts.Critical++
		case domain.RiskHigh:
			counts.High++
		case domain.RiskMedium:
			counts.Medium++
		default:
			counts.Low++
		}
		counts.Total++
	}
	return counts
}

// RiskCounts mirrors the headline counters of a prediction run:
// total piles, piles at high or critical risk, and critical alone.
func RiskCounts(preds []domain.Prediction) (total, highRisk, critical int) {
	for _, p := range preds {
		switch p.RiskLevel {
		case domain.RiskCritical:
			critical++
			highRisk++
		case domain.RiskHigh:
			highRisk++
		}
	}
	return len(preds), highRisk, critical
}
