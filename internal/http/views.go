package http

import (
	"encoding/json"
	"html/template"
	"net/url"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"

	"coalfire-dashboard/internal/domain"
	"coalfire-dashboard/internal/format"
)

func toJSON(v interface{}) template.JS {
	b, _ := json.Marshal(v)
	return template.JS(b)
}

const flashCookie = "coalfire_flash"

// setFlash stores a one-shot message for the next page render.
// kind is "success" or "error". The value is URL-encoded: messages
// carry semicolons, commas and spaces, none of which survive in a raw
// cookie value (RFC 6265).
func setFlash(c *fiber.Ctx, kind, msg string) {
	c.Cookie(&fiber.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(kind + "|" + msg),
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

func takeFlash(c *fiber.Ctx) (kind, msg string) {
	raw := c.Cookies(flashCookie)
	if raw == "" {
		return "", ""
	}
	c.Cookie(&fiber.Cookie{
		Name:     flashCookie,
		Value:    "",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		SameSite: "Lax",
	})
	if decoded, err := url.QueryUnescape(raw); err == nil {
		raw = decoded
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] == '|' {
			return raw[:i], raw[i+1:]
		}
	}
	return "error", raw
}

// MatrixCell is one (date, pile) intersection of the matrix view.
type MatrixCell struct {
	Risk  string
	Color string
	Label string
	Days  int
	Has   bool
}

type MatrixRow struct {
	Date  string // yyyy-mm-dd
	Label string // dd.mm.yyyy
	Cells []MatrixCell
}

type MatrixView struct {
	PileIDs []int
	Rows    []MatrixRow
}

// buildMatrix lays predictions out as dates (rows) by piles (columns)
// for the displayed year. Cells hold the service-supplied risk level;
// empty cells stay empty.
func buildMatrix(preds []domain.Prediction, selected map[int]bool, year int) MatrixView {
	type key struct {
		date string
		pile int
	}
	cells := make(map[key]*domain.Prediction)
	pileSet := make(map[int]bool)
	dateSet := make(map[string]bool)

	for i := range preds {
		p := &preds[i]
		if len(selected) > 0 && !selected[p.PileID] {
			continue
		}
		t, err := domain.ParseDate(p.PredictedFireDate)
		if err != nil || t.Year() != year {
			continue
		}
		day := t.Format("2006-01-02")
		cells[key{day, p.PileID}] = p
		pileSet[p.PileID] = true
		dateSet[day] = true
	}

	view := MatrixView{}
	for id := range pileSet {
		view.PileIDs = append(view.PileIDs, id)
	}
	sort.Ints(view.PileIDs)

	var dates []string
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	for _, d := range dates {
		row := MatrixRow{Date: d, Label: format.Date(d)}
		for _, id := range view.PileIDs {
			cell := MatrixCell{}
			if p, ok := cells[key{d, id}]; ok {
				cell = MatrixCell{
					Risk:  p.RiskLevel,
					Color: format.RiskColor(p.RiskLevel),
					Label: format.RiskLabel(p.RiskLevel),
					Days:  p.PredictedDaysToFireRound,
					Has:   true,
				}
			}
			row.Cells = append(row.Cells, cell)
		}
		view.Rows = append(view.Rows, row)
	}
	return view
}
