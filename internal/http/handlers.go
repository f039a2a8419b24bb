package http

import (
	"context"
	"fmt"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"coalfire-dashboard/internal/domain"
	"coalfire-dashboard/internal/service"
	"coalfire-dashboard/internal/session"
	"coalfire-dashboard/internal/upload"
)

// Horizon bounds accepted by the prediction service.
const (
	defaultHorizonDays = 3
	minHorizonDays     = 1
	maxHorizonDays     = 30
)

func (s *Server) handleUploadPage(c *fiber.Ctx) error {
	st := s.state(c, s.sessionID(c))
	kind, msg := takeFlash(c)

	total, highRisk, critical := service.RiskCounts(st.Predictions)
	return c.Render("upload", fiber.Map{
		"Title":         "Data Upload",
		"Active":        "upload",
		"FlashKind":     kind,
		"Flash":         msg,
		"FiresUploaded": st.FiresUploaded,
		"HasRun":        st.PredictionID != "",
		"TotalPiles":    total,
		"HighRisk":      highRisk,
		"CriticalRisk":  critical,
		"DateRange":     st.DateRange,
		"Horizon":       defaultHorizonDays,
	})
}

// handleUpload ships the selected files to the prediction service.
// Weather files go as a sequential best-effort batch; a failure there
// does not stop the remaining files.
func (s *Server) handleUpload(c *fiber.Ctx) error {
	id := s.sessionID(c)
	st := s.state(c, id)

	var ok, failed []string

	singles := []struct {
		field    string
		fileType string
	}{
		{"supplies", domain.FileSupplies},
		{"temperature", domain.FileTemperature},
		{"fires", domain.FileFires},
	}

	ctx, cancel := context.WithTimeout(c.Context(), s.apiTimeout)
	defer cancel()

	for _, single := range singles {
		fh, err := c.FormFile(single.field)
		if err != nil {
			continue // slot left empty
		}
		if reason := s.checkAndSend(ctx, fh, single.fileType); reason != "" {
			failed = append(failed, reason)
			continue
		}
		ok = append(ok, fh.Filename)
		if single.fileType == domain.FileFires {
			st.FiresUploaded = true
		}
	}

	if form, err := c.MultipartForm(); err == nil {
		var files []upload.File
		for _, fh := range form.File["weather"] {
			res := upload.Validate(fh.Filename, fh.Size, s.maxUploadBytes)
			if !res.Valid {
				failed = append(failed, res.Reason)
				continue
			}
			f, err := fh.Open()
			if err != nil {
				failed = append(failed, fmt.Sprintf("%s: %v", fh.Filename, err))
				continue
			}
			defer f.Close()
			files = append(files, upload.File{Name: fh.Filename, Body: f})
		}
		for _, outcome := range upload.Batch(ctx, s.api, domain.FileWeather, files) {
			if outcome.Err != nil {
				failed = append(failed, fmt.Sprintf("%s: %v", outcome.Name, outcome.Err))
			} else {
				ok = append(ok, outcome.Name)
			}
		}
	}

	if err := s.sessions.Set(c.Context(), id, st); err != nil {
		log.Warn().Err(err).Msg("session save failed")
	}

	switch {
	case len(failed) > 0 && len(ok) > 0:
		setFlash(c, "error", fmt.Sprintf("Uploaded %s; failed: %s", strings.Join(ok, ", "), strings.Join(failed, "; ")))
	case len(failed) > 0:
		setFlash(c, "error", strings.Join(failed, "; "))
	case len(ok) > 0:
		setFlash(c, "success", "Uploaded "+strings.Join(ok, ", "))
	default:
		setFlash(c, "error", "No files selected")
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

func (s *Server) checkAndSend(ctx context.Context, fh *multipart.FileHeader, fileType string) string {
	res := upload.Validate(fh.Filename, fh.Size, s.maxUploadBytes)
	if !res.Valid {
		return res.Reason
	}
	f, err := fh.Open()
	if err != nil {
		return fmt.Sprintf("%s: %v", fh.Filename, err)
	}
	defer f.Close()
	if _, err := s.api.UploadCSV(ctx, fileType, fh.Filename, f); err != nil {
		return fmt.Sprintf("%s: %v", fh.Filename, err)
	}
	return ""
}

// handlePredict triggers a run. The session's generation token makes
// sure a run superseded by a later submission can never overwrite the
// newer result.
func (s *Server) handlePredict(c *fiber.Ctx) error {
	id := s.sessionID(c)

	horizon, err := strconv.Atoi(c.FormValue("horizon", strconv.Itoa(defaultHorizonDays)))
	if err != nil || horizon < minHorizonDays || horizon > maxHorizonDays {
		setFlash(c, "error", fmt.Sprintf("Horizon must be between %d and %d days", minHorizonDays, maxHorizonDays))
		return c.Redirect("/", fiber.StatusSeeOther)
	}

	gen, err := session.Begin(c.Context(), s.sessions, id)
	if err != nil {
		// Without a generation token the result could clobber a newer
		// run, so don't start one.
		log.Warn().Err(err).Msg("session begin failed")
		setFlash(c, "error", "Session storage is unavailable, please retry")
		return c.Redirect("/", fiber.StatusSeeOther)
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.predictTimeout)
	defer cancel()
	resp, err := s.api.Predict(ctx, horizon)
	if err != nil {
		setFlash(c, "error", err.Error())
		return c.Redirect("/", fiber.StatusSeeOther)
	}

	applied, err := session.Commit(c.Context(), s.sessions, id, gen, func(st *session.State) {
		st.PredictionID = resp.PredictionID
		st.Predictions = resp.Predictions
		st.DateRange = resp.DateRange
		st.Evaluation = nil // stale against the new run
	})
	if err != nil {
		log.Warn().Err(err).Msg("session commit failed")
	}
	if !applied {
		setFlash(c, "error", "A newer prediction run superseded this one")
		return c.Redirect("/", fiber.StatusSeeOther)
	}

	setFlash(c, "success", fmt.Sprintf("Prediction complete: %d piles, %d high risk", resp.TotalPiles, resp.HighRiskCount))
	return c.Redirect("/calendar", fiber.StatusSeeOther)
}

func (s *Server) handleEvaluate(c *fiber.Ctx) error {
	id := s.sessionID(c)
	st := s.state(c, id)

	if st.PredictionID == "" {
		setFlash(c, "error", "Run a prediction first")
		return c.Redirect("/", fiber.StatusSeeOther)
	}
	if !st.FiresUploaded {
		setFlash(c, "error", "Upload a fires file to enable evaluation")
		return c.Redirect("/", fiber.StatusSeeOther)
	}

	gen, err := session.Begin(c.Context(), s.sessions, id)
	if err != nil {
		log.Warn().Err(err).Msg("session begin failed")
		setFlash(c, "error", "Session storage is unavailable, please retry")
		return c.Redirect("/metrics", fiber.StatusSeeOther)
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.predictTimeout)
	defer cancel()
	result, err := s.api.Evaluate(ctx, st.PredictionID, "")
	if err != nil {
		setFlash(c, "error", err.Error())
		return c.Redirect("/metrics", fiber.StatusSeeOther)
	}

	applied, err := session.Commit(c.Context(), s.sessions, id, gen, func(st *session.State) {
		st.Evaluation = result
	})
	if err != nil {
		log.Warn().Err(err).Msg("session commit failed")
	}
	if !applied {
		setFlash(c, "error", "A newer run superseded this evaluation")
	}
	return c.Redirect("/metrics", fiber.StatusSeeOther)
}

func (s *Server) handleCalendarPage(c *fiber.Ctx) error {
	st := s.state(c, s.sessionID(c))
	kind, msg := takeFlash(c)

	year := s.displayYear(c, st)
	selected := parsePiles(c.Query("piles"))
	compare := c.QueryBool("compare") && st.FiresUploaded && st.Evaluation != nil

	var matches []domain.MatchedPrediction
	if compare {
		matches = st.Evaluation.MatchedPredictions
	}
	events := service.BuildEvents(st.Predictions, selected, year, compare, matches)

	return c.Render("calendar", fiber.Map{
		"Title":         "Fire Risk Calendar",
		"Active":        "calendar",
		"FlashKind":     kind,
		"Flash":         msg,
		"HasRun":        st.PredictionID != "",
		"Year":          year,
		"Years":         yearChoices(st),
		"PileIDs":       service.PileIDs(st.Predictions),
		"SelectedPiles": c.Query("piles"),
		"Compare":       compare,
		"CanCompare":    st.FiresUploaded && st.Evaluation != nil,
		"EventsJSON":    toJSON(events),
	})
}

func (s *Server) handleMatrixPage(c *fiber.Ctx) error {
	st := s.state(c, s.sessionID(c))
	kind, msg := takeFlash(c)

	year := s.displayYear(c, st)
	selected := parsePiles(c.Query("piles"))
	matrix := buildMatrix(st.Predictions, selected, year)

	return c.Render("matrix", fiber.Map{
		"Title":         "Date / Pile Matrix",
		"Active":        "matrix",
		"FlashKind":     kind,
		"Flash":         msg,
		"HasRun":        st.PredictionID != "",
		"Year":          year,
		"Years":         yearChoices(st),
		"SelectedPiles": c.Query("piles"),
		"Matrix":        matrix,
	})
}

func (s *Server) handleMetricsPage(c *fiber.Ctx) error {
	st := s.state(c, s.sessionID(c))
	kind, msg := takeFlash(c)

	ctx, cancel := context.WithTimeout(c.Context(), s.apiTimeout)
	defer cancel()
	info, err := s.api.ModelInfo(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("model info unavailable")
	}

	var matched []domain.MatchedPrediction
	if st.Evaluation != nil {
		matched = st.Evaluation.MatchedPredictions
	}
	return c.Render("metrics", fiber.Map{
		"Title":         "Model Accuracy",
		"Active":        "metrics",
		"FlashKind":     kind,
		"Flash":         msg,
		"HasRun":        st.PredictionID != "",
		"FiresUploaded": st.FiresUploaded,
		"Summary":       service.MetricsSummary(st.Evaluation),
		"Matched":       matched,
		"ModelInfo":     info,
	})
}

func (s *Server) handleEventsFeed(c *fiber.Ctx) error {
	st := s.state(c, s.sessionID(c))

	year := s.displayYear(c, st)
	selected := parsePiles(c.Query("piles"))
	compare := c.QueryBool("compare") && st.FiresUploaded && st.Evaluation != nil

	var matches []domain.MatchedPrediction
	if compare {
		matches = st.Evaluation.MatchedPredictions
	}
	events := service.BuildEvents(st.Predictions, selected, year, compare, matches)
	if events == nil {
		events = []service.CalendarEvent{}
	}
	return c.JSON(events)
}

func (s *Server) handleDayFeed(c *fiber.Ctx) error {
	st := s.state(c, s.sessionID(c))
	return c.JSON(service.AggregateByDate(st.Predictions, c.Query("date")))
}

func (s *Server) handleHealthz(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	status := "offline"
	if h, err := s.api.Health(ctx); err == nil && h != nil {
		status = "online"
	}
	return c.JSON(fiber.Map{"status": status})
}

// displayYear picks the year to render: explicit query value first,
// then the newest dataset year, then the current year.
func (s *Server) displayYear(c *fiber.Ctx, st *session.State) int {
	if y, err := strconv.Atoi(c.Query("year")); err == nil && y > 0 {
		return y
	}
	if st.DateRange != nil && len(st.DateRange.Years) > 0 {
		return st.DateRange.Years[len(st.DateRange.Years)-1]
	}
	return time.Now().Year()
}

func yearChoices(st *session.State) []int {
	if st.DateRange != nil && len(st.DateRange.Years) > 0 {
		return st.DateRange.Years
	}
	return []int{time.Now().Year()}
}

// parsePiles reads a comma-separated pile filter; empty means all.
func parsePiles(raw string) map[int]bool {
	selected := make(map[int]bool)
	for _, part := range strings.Split(raw, ",") {
		if id, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
			selected[id] = true
		}
	}
	return selected
}
