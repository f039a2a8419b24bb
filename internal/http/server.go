// Package http serves the operator dashboard: upload form, calendar,
// date/pile matrix and metrics views, plus the JSON feeds behind them.
package http

import (
	"context"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"coalfire-dashboard/internal/domain"
	"coalfire-dashboard/internal/format"
	"coalfire-dashboard/internal/session"
)

// Predictor is the slice of the prediction service client the
// dashboard uses.
type Predictor interface {
	Health(ctx context.Context) (*domain.Health, error)
	ModelInfo(ctx context.Context) (*domain.ModelInfo, error)
	UploadCSV(ctx context.Context, fileType, filename string, r io.Reader) (*domain.UploadResponse, error)
	Predict(ctx context.Context, horizonDays int) (*domain.PredictionResponse, error)
	Evaluate(ctx context.Context, predictionID, referencePath string) (*domain.EvaluationResult, error)
}

type Server struct {
	app            *fiber.App
	api            Predictor
	sessions       session.Store
	maxUploadBytes int64
	apiTimeout     time.Duration
	predictTimeout time.Duration
}

type Options struct {
	TemplateDir    string
	StaticDir      string
	MaxUploadBytes int64
	APITimeout     time.Duration
	PredictTimeout time.Duration
}

func NewServer(apiClient Predictor, sessions session.Store, opts Options) *Server {
	engine := html.New(opts.TemplateDir, ".html")
	engine.AddFunc("toJSON", toJSON)
	engine.AddFunc("riskColor", format.RiskColor)
	engine.AddFunc("riskLabel", format.RiskLabel)
	engine.AddFunc("confidenceLabel", format.ConfidenceLabel)
	engine.AddFunc("fmtDate", format.Date)
	engine.AddFunc("fmtInt", format.Int)
	engine.AddFunc("fmtText", format.Text)

	app := fiber.New(fiber.Config{
		Views:       engine,
		ViewsLayout: "layout",
		BodyLimit:   int(opts.MaxUploadBytes) + 1024*1024,
	})

	s := &Server{
		app:            app,
		api:            apiClient,
		sessions:       sessions,
		maxUploadBytes: opts.MaxUploadBytes,
		apiTimeout:     opts.APITimeout,
		predictTimeout: opts.PredictTimeout,
	}

	app.Static("/static", opts.StaticDir)
	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.Get("/", s.handleUploadPage)
	s.app.Post("/upload", s.handleUpload)
	s.app.Post("/predict", s.handlePredict)
	s.app.Post("/evaluate", s.handleEvaluate)
	s.app.Get("/calendar", s.handleCalendarPage)
	s.app.Get("/matrix", s.handleMatrixPage)
	s.app.Get("/metrics", s.handleMetricsPage)

	s.app.Get("/api/events", s.handleEventsFeed)
	s.app.Get("/api/day", s.handleDayFeed)
	s.app.Get("/healthz", s.handleHealthz)
}

func (s *Server) Listen(addr string) error { return s.app.Listen(addr) }

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App { return s.app }

const sessionCookie = "coalfire_session"

// sessionID reads the session cookie, minting one on first contact.
func (s *Server) sessionID(c *fiber.Ctx) string {
	if id := c.Cookies(sessionCookie); id != "" {
		return id
	}
	id := uuid.NewString()
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    id,
		HTTPOnly: true,
		SameSite: "Lax",
	})
	return id
}

// state loads the session state. A store failure is logged and
// treated as an empty session, never surfaced to the operator.
func (s *Server) state(c *fiber.Ctx, id string) *session.State {
	st, err := s.sessions.Get(c.Context(), id)
	if err != nil {
		log.Warn().Err(err).Msg("session load failed")
	}
	if st == nil {
		return &session.State{}
	}
	return st
}
