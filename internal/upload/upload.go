// Package upload validates operator-supplied files before they leave
// the machine and pushes multi-file batches to the prediction service.
package upload

import (
	"context"
	"fmt"
	"io"
	"strings"

	"coalfire-dashboard/internal/domain"
)

// DefaultMaxSize mirrors the prediction service's own upload limit.
const DefaultMaxSize = 50 * 1024 * 1024

const allowedExt = ".csv"

// Result is a structured validation outcome; invalid files are
// reported, never raised.
type Result struct {
	Valid  bool
	Reason string
}

// Validate checks extension and size. maxSize <= 0 falls back to
// DefaultMaxSize. No I/O happens here.
func Validate(filename string, size int64, maxSize int64) Result {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if !strings.HasSuffix(strings.ToLower(filename), allowedExt) {
		return Result{Reason: fmt.Sprintf("%s: only %s files are accepted", filename, allowedExt)}
	}
	if size > maxSize {
		return Result{Reason: fmt.Sprintf("%s: file exceeds the %d MiB limit", filename, maxSize/(1024*1024))}
	}
	return Result{Valid: true}
}

// Uploader is the slice of the API client the batch needs.
type Uploader interface {
	UploadCSV(ctx context.Context, fileType, filename string, r io.Reader) (*domain.UploadResponse, error)
}

// File is one entry of a batch upload.
type File struct {
	Name string
	Body io.Reader
}

// Outcome records what happened to one file of a batch.
type Outcome struct {
	Name     string
	RowCount int
	Err      error
}

// Batch uploads files one at a time, in order. A failed file is
// recorded and the next one is still attempted; the caller gets one
// outcome per file and no atomicity across them.
func Batch(ctx context.Context, up Uploader, fileType string, files []File) []Outcome {
	outcomes := make([]Outcome, 0, len(files))
	for _, f := range files {
		resp, err := up.UploadCSV(ctx, fileType, f.Name, f.Body)
		o := Outcome{Name: f.Name, Err: err}
		if err == nil {
			o.RowCount = resp.RowCount
		}
		outcomes = append(outcomes, o)
	}
	return outcomes
}
