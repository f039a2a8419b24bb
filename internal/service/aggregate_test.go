package service

import (
	"testing"

	"coalfire-dashboard/internal/domain"
)

func TestAggregateByDate(t *testing.T) {
	preds := []domain.Prediction{
		pred(1, "2024-05-04", domain.RiskCritical),
		pred(2, "2024-05-04", domain.RiskCritical),
		pred(3, "2024-05-04", domain.RiskHigh),
		pred(4, "2024-05-04", domain.RiskMedium),
		pred(5, "2024-05-04", domain.RiskLow),
		pred(6, "2024-05-04", ""),        // missing level counts as low
		pred(7, "2024-05-04", "extreme"), // unknown level counts as low
		pred(8, "2024-05-05", domain.RiskCritical),
	}

	counts := AggregateByDate(preds, "2024-05-04")

	if counts.Critical != 2 || counts.High != 1 || counts.Medium != 1 || counts.Low != 3 {
		t.Errorf("counts = %+v", counts)
	}
	if counts.Total != 7 {
		t.Errorf("Total = %d, want 7", counts.Total)
	}
	if sum := counts.Critical + counts.High + counts.Medium + counts.Low; sum != counts.Total {
		t.Errorf("partition sums to %d, total is %d", sum, counts.Total)
	}
}

func TestAggregateByDateDatetimeEquality(t *testing.T) {
	// Service dates may carry a midnight time component; the
	// comparison is still calendar-date exact.
	preds := []domain.Prediction{pred(1, "2024-05-04T00:00:00", domain.RiskHigh)}
	counts := AggregateByDate(preds, "2024-05-04")
	if counts.Total != 1 {
		t.Errorf("Total = %d, want 1", counts.Total)
	}
}

func TestAggregateByDateNoMatch(t *testing.T) {
	preds := []domain.Prediction{pred(1, "2024-05-04", domain.RiskHigh)}
	if counts := AggregateByDate(preds, "2024-05-05"); counts.Total != 0 {
		t.Errorf("counts = %+v, want empty", counts)
	}
	if counts := AggregateByDate(preds, "garbage"); counts.Total != 0 {
		t.Errorf("counts = %+v, want empty for unparsable selection", counts)
	}
}

func TestRiskCounts(t *testing.T) {
	preds := []domain.Prediction{
		pred(1, "2024-05-04", domain.RiskCritical),
		pred(2, "2024-05-04", domain.RiskHigh),
		pred(3, "2024-05-04", domain.RiskMedium),
		pred(4, "2024-05-04", domain.RiskLow),
	}
	total, highRisk, critical := RiskCounts(preds)
	if total != 4 || highRisk != 2 || critical != 1 {
		t.Errorf("RiskCounts = (%d, %d, %d), want (4, 2, 1)", total, highRisk, critical)
	}
}
