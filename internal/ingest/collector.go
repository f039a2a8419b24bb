// Package ingest accumulates pile temperature readings arriving over
// MQTT and ships them to the prediction service as temperature CSV
// uploads, replacing the manual export-and-upload step.
package ingest

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"coalfire-dashboard/internal/domain"
	"coalfire-dashboard/internal/upload"
)

// Reading is one surface temperature sample for a pile.
type Reading struct {
	PileID    int       `json:"pile_id"`
	Timestamp time.Time `json:"timestamp"`
	TempC     float64   `json:"temp_c"`
}

// Collector buffers readings between flushes. Safe for concurrent
// HandleMessage calls from the MQTT client.
type Collector struct {
	mu       sync.Mutex
	readings []Reading
	uploader upload.Uploader
}

func NewCollector(up upload.Uploader) *Collector {
	return &Collector{uploader: up}
}

// HandleMessage decodes one MQTT payload into the buffer.
func (c *Collector) HandleMessage(payload []byte) error {
	var r Reading
	if err := json.Unmarshal(payload, &r); err != nil {
		return fmt.Errorf("decode reading: %w", err)
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now()
	}
	c.mu.Lock()
	c.readings = append(c.readings, r)
	c.mu.Unlock()
	return nil
}

// Pending reports how many readings wait for the next flush.
func (c *Collector) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.readings)
}

// Flush uploads the buffered readings as one temperature CSV. On
// failure the buffer is kept so the next flush retries the same
// readings plus whatever arrived since.
func (c *Collector) Flush(ctx context.Context) error {
	c.mu.Lock()
	batch := c.readings
	c.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{"pile_id", "date", "temp_c"})
	for _, r := range batch {
		w.Write([]string{
			strconv.Itoa(r.PileID),
			r.Timestamp.Format("2006-01-02 15:04:05"),
			strconv.FormatFloat(r.TempC, 'f', 1, 64),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	name := fmt.Sprintf("temperature_%s.csv", time.Now().Format("20060102T150405"))
	if _, err := c.uploader.UploadCSV(ctx, domain.FileTemperature, name, &buf); err != nil {
		return fmt.Errorf("upload temperature batch: %w", err)
	}

	c.mu.Lock()
	c.readings = c.readings[len(batch):]
	c.mu.Unlock()

	log.Info().Int("readings", len(batch)).Str("file", name).Msg("temperature batch uploaded")
	return nil
}

// Run flushes on the given interval until ctx is done, with a final
// flush on shutdown.
func (c *Collector) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if err := c.Flush(flushCtx); err != nil {
				log.Error().Err(err).Msg("final flush failed")
			}
			cancel()
			return
		case <-ticker.C:
			if err := c.Flush(ctx); err != nil {
				log.Error().Err(err).Msg("flush failed, readings kept for retry")
			}
		}
	}
}
