package main

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"coalfire-dashboard/internal/api"
	"coalfire-dashboard/internal/config"
	dashhttp "coalfire-dashboard/internal/http"
	"coalfire-dashboard/internal/session"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	predictTimeout := time.Duration(config.PredictTimeoutSeconds()) * time.Second
	client := api.New(config.APIURL(), predictTimeout)

	sessions := session.Open()
	defer sessions.Close()

	srv := dashhttp.NewServer(client, sessions, dashhttp.Options{
		TemplateDir:    config.TemplateDir(),
		StaticDir:      config.StaticDir(),
		MaxUploadBytes: config.MaxUploadBytes(),
		APITimeout:     time.Duration(config.APITimeoutSeconds()) * time.Second,
		PredictTimeout: predictTimeout,
	})

	addr := config.DashAddr()
	log.Info().Str("addr", addr).Str("api", config.APIURL()).Msg("dashboard listening")
	log.Fatal().Err(srv.Listen(addr)).Msg("server exit")
}
