package http

import (
	"testing"

	"coalfire-dashboard/internal/domain"
)

func TestBuildMatrix(t *testing.T) {
	preds := []domain.Prediction{
		{PileID: 2, PredictedFireDate: "2024-05-04", RiskLevel: "critical", PredictedDaysToFireRound: 1},
		{PileID: 1, PredictedFireDate: "2024-05-04", RiskLevel: "low", PredictedDaysToFireRound: 20},
		{PileID: 1, PredictedFireDate: "2024-06-01", RiskLevel: "medium", PredictedDaysToFireRound: 10},
		{PileID: 3, PredictedFireDate: "2023-05-04", RiskLevel: "high", PredictedDaysToFireRound: 5}, // other year
	}

	m := buildMatrix(preds, nil, 2024)

	if len(m.PileIDs) != 2 || m.PileIDs[0] != 1 || m.PileIDs[1] != 2 {
		t.Fatalf("PileIDs = %v, want [1 2]", m.PileIDs)
	}
	if len(m.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(m.Rows))
	}
	if m.Rows[0].Date != "2024-05-04" || m.Rows[1].Date != "2024-06-01" {
		t.Errorf("rows out of order: %v, %v", m.Rows[0].Date, m.Rows[1].Date)
	}

	first := m.Rows[0]
	if !first.Cells[0].Has || first.Cells[0].Risk != "low" {
		t.Errorf("cell (2024-05-04, pile 1) = %+v", first.Cells[0])
	}
	if !first.Cells[1].Has || first.Cells[1].Risk != "critical" {
		t.Errorf("cell (2024-05-04, pile 2) = %+v", first.Cells[1])
	}

	second := m.Rows[1]
	if second.Cells[1].Has {
		t.Errorf("cell (2024-06-01, pile 2) should be empty, got %+v", second.Cells[1])
	}
}

func TestBuildMatrixPileFilter(t *testing.T) {
	preds := []domain.Prediction{
		{PileID: 1, PredictedFireDate: "2024-05-04", RiskLevel: "low"},
		{PileID: 2, PredictedFireDate: "2024-05-05", RiskLevel: "high"},
	}
	m := buildMatrix(preds, map[int]bool{2: true}, 2024)
	if len(m.PileIDs) != 1 || m.PileIDs[0] != 2 {
		t.Errorf("PileIDs = %v, want [2]", m.PileIDs)
	}
}

func TestParsePiles(t *testing.T) {
	got := parsePiles("1, 3,not-a-number,5")
	if len(got) != 3 || !got[1] || !got[3] || !got[5] {
		t.Errorf("parsePiles = %v", got)
	}
	if len(parsePiles("")) != 0 {
		t.Error("empty filter must select nothing explicitly")
	}
}
