package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strings"
	"testing"

	"coalfire-dashboard/internal/domain"
)

type captureUploader struct {
	fileType string
	filename string
	body     string
	err      error
	calls    int
}

func (u *captureUploader) UploadCSV(_ context.Context, fileType, filename string, r io.Reader) (*domain.UploadResponse, error) {
	u.calls++
	u.fileType = fileType
	u.filename = filename
	b, _ := io.ReadAll(r)
	u.body = string(b)
	if u.err != nil {
		return nil, u.err
	}
	return &domain.UploadResponse{RowCount: strings.Count(u.body, "\n") - 1}, nil
}

func TestHandleMessage(t *testing.T) {
	c := NewCollector(&captureUploader{})

	if err := c.HandleMessage([]byte(`{"pile_id": 4, "timestamp": "2024-05-04T12:00:00Z", "temp_c": 61.5}`)); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if err := c.HandleMessage([]byte(`not json`)); err == nil {
		t.Error("malformed payload must be rejected")
	}
	if got := c.Pending(); got != 1 {
		t.Errorf("Pending = %d, want 1", got)
	}
}

func TestFlushUploadsCSV(t *testing.T) {
	up := &captureUploader{}
	c := NewCollector(up)
	c.HandleMessage([]byte(`{"pile_id": 4, "timestamp": "2024-05-04T12:00:00Z", "temp_c": 61.5}`))
	c.HandleMessage([]byte(`{"pile_id": 7, "timestamp": "2024-05-04T12:05:00Z", "temp_c": 48.0}`))

	if err := c.Flush(context.Background()); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if up.fileType != domain.FileTemperature {
		t.Errorf("file_type = %q, want temperature", up.fileType)
	}

	rows, err := csv.NewReader(strings.NewReader(up.body)).ReadAll()
	if err != nil {
		t.Fatalf("parse uploaded csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}
	if rows[0][0] != "pile_id" || rows[1][0] != "4" || rows[2][0] != "7" {
		t.Errorf("unexpected rows: %v", rows)
	}
	if got := c.Pending(); got != 0 {
		t.Errorf("buffer not cleared after flush, Pending = %d", got)
	}
}

func TestFlushKeepsReadingsOnFailure(t *testing.T) {
	up := &captureUploader{err: errors.New("service down")}
	c := NewCollector(up)
	c.HandleMessage([]byte(`{"pile_id": 4, "temp_c": 61.5}`))

	if err := c.Flush(context.Background()); err == nil {
		t.Fatal("expected flush error")
	}
	if got := c.Pending(); got != 1 {
		t.Errorf("failed flush must keep readings, Pending = %d", got)
	}

	up.err = nil
	if err := c.Flush(context.Background()); err != nil {
		t.Fatalf("retry flush: %v", err)
	}
	if up.calls != 2 || c.Pending() != 0 {
		t.Errorf("retry did not drain buffer: calls=%d pending=%d", up.calls, c.Pending())
	}
}

func TestFlushEmptyBufferIsNoop(t *testing.T) {
	up := &captureUploader{}
	c := NewCollector(up)
	if err := c.Flush(context.Background()); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if up.calls != 0 {
		t.Error("empty buffer must not trigger an upload")
	}
}
