package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"coalfire-dashboard/internal/api"
	"coalfire-dashboard/internal/config"
	"coalfire-dashboard/internal/ingest"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	client := api.New(config.APIURL(), time.Duration(config.APITimeoutSeconds())*time.Second)
	collector := ingest.NewCollector(client)

	opts := mqtt.NewClientOptions().AddBroker(config.MQTTBroker())
	mc := mqtt.NewClient(opts)
	if token := mc.Connect(); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("mqtt connect")
	}
	defer mc.Disconnect(250)

	handler := func(_ mqtt.Client, msg mqtt.Message) {
		if err := collector.HandleMessage(msg.Payload()); err != nil {
			log.Error().Err(err).Str("topic", msg.Topic()).Msg("ingest failed")
		}
	}

	topic := config.MQTTTopic()
	if token := mc.Subscribe(topic, 0, handler); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("subscribe failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().Str("topic", topic).Msg("ingestor running; Ctrl+C to stop")
	collector.Run(ctx, time.Duration(config.IngestFlushMinutes())*time.Minute)
}
