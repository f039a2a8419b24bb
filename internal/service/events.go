// Package service turns raw prediction service responses into the
// view state the dashboard renders: calendar events, per-day risk
// counts and the metrics summary.
package service

import (
	"fmt"

	"coalfire-dashboard/internal/domain"
	"coalfire-dashboard/internal/format"
)

// Colors for comparison-mode events. Normal-mode events take their
// color from the risk level.
const (
	colorMatch      = "#1976d2"
	colorPrediction = "#7b1fa2"
	colorReal       = "#5d4037"
)

// CalendarEvent is one immutable entry for the calendar widget. The
// widget sorts by date itself, so emission order is irrelevant.
type CalendarEvent struct {
	ID        string             `json:"id"`
	Title     string             `json:"title"`
	Date      string             `json:"date"`
	Color     string             `json:"color"`
	Kind      string             `json:"kind"` // prediction | match | real
	PileID    int                `json:"pile_id"`
	Stockyard *int               `json:"stockyard,omitempty"`
	CoalGrade *string            `json:"coal_grade,omitempty"`
	Meta      *domain.Prediction `json:"meta,omitempty"`
}

// BuildEvents assembles the calendar entries for one displayed year.
// An empty pile selection means "all piles". In comparison mode the
// matches drive the output instead of the raw predictions: a hit is a
// single event on the real date, a miss is a prediction event plus a
// real event. Entries whose date cannot be parsed are kept; the
// widget flags them as invalid.
func BuildEvents(preds []domain.Prediction, selected map[int]bool, year int, comparison bool, matches []domain.MatchedPrediction) []CalendarEvent {
	var events []CalendarEvent

	if comparison {
		for i := range matches {
			m := &matches[i]
			if !pileSelected(selected, m.PileID) {
				continue
			}
			if m.IsMatch {
				events = appendInYear(events, year, CalendarEvent{
					ID:        fmt.Sprintf("match-%d-%s", m.PileID, m.RealFireDate),
					Title:     fmt.Sprintf("Pile %d: match", m.PileID),
					Date:      m.RealFireDate,
					Color:     colorMatch,
					Kind:      "match",
					PileID:    m.PileID,
					Stockyard: m.Stockyard,
					CoalGrade: m.CoalGrade,
				})
				continue
			}
			events = appendInYear(events, year, CalendarEvent{
				ID:        fmt.Sprintf("cmp-pred-%d-%s", m.PileID, m.PredictedFireDate),
				Title:     fmt.Sprintf("Pile %d: prediction", m.PileID),
				Date:      m.PredictedFireDate,
				Color:     colorPrediction,
				Kind:      "prediction",
				PileID:    m.PileID,
				Stockyard: m.Stockyard,
				CoalGrade: m.CoalGrade,
			})
			events = appendInYear(events, year, CalendarEvent{
				ID:        fmt.Sprintf("cmp-real-%d-%s", m.PileID, m.RealFireDate),
				Title:     fmt.Sprintf("Pile %d: real fire", m.PileID),
				Date:      m.RealFireDate,
				Color:     colorReal,
				Kind:      "real",
				PileID:    m.PileID,
				Stockyard: m.Stockyard,
				CoalGrade: m.CoalGrade,
			})
		}
		return events
	}

	for i := range preds {
		p := &preds[i]
		if !pileSelected(selected, p.PileID) {
			continue
		}
		events = appendInYear(events, year, CalendarEvent{
			ID:        fmt.Sprintf("pred-%d-%s", p.PileID, p.PredictedFireDate),
			Title:     fmt.Sprintf("Pile %d (%s)", p.PileID, format.RiskLabel(p.RiskLevel)),
			Date:      p.PredictedFireDate,
			Color:     format.RiskColor(p.RiskLevel),
			Kind:      "prediction",
			PileID:    p.PileID,
			Stockyard: p.Stockyard,
			CoalGrade: p.CoalGrade,
			Meta:      p,
		})
	}
	return events
}

func pileSelected(selected map[int]bool, pileID int) bool {
	if len(selected) == 0 {
		return true
	}
	return selected[pileID]
}

// appendInYear drops events anchored in a different calendar year.
// Unparsable dates pass through.
func appendInYear(events []CalendarEvent, year int, ev CalendarEvent) []CalendarEvent {
	if t, err := domain.ParseDate(ev.Date); err == nil && t.Year() != year {
		return events
	}
	return append(events, ev)
}

// PileIDs lists the distinct pile identifiers present in a prediction
// set, in first-seen order, for the filter control.
func PileIDs(preds []domain.Prediction) []int {
	seen := make(map[int]bool)
	var ids []int
	for _, p := range preds {
		if !seen[p.PileID] {
			seen[p.PileID] = true
			ids = append(ids, p.PileID)
		}
	}
	return ids
}
