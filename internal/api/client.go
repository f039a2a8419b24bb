// Package api wraps the outbound HTTP interface of the external fire
// prediction service. The service is the single source of truth; this
// client never caches or reshapes its answers.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"coalfire-dashboard/internal/domain"
)

type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a client for the prediction service at baseURL. The
// timeout covers everything except Predict, which gets its own longer
// per-call deadline from the handler.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) Health(ctx context.Context) (*domain.Health, error) {
	var out domain.Health
	if err := c.getJSON(ctx, "/api/health", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ModelInfo(ctx context.Context) (*domain.ModelInfo, error) {
	var out domain.ModelInfo
	if err := c.getJSON(ctx, "/api/model/info", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadCSV streams one CSV file to the service. fileType is one of
// the domain.File* constants.
func (c *Client) UploadCSV(ctx context.Context, fileType, filename string, r io.Reader) (*domain.UploadResponse, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("read upload body: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	u := c.baseURL + "/api/upload/csv?file_type=" + url.QueryEscape(fileType)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, serviceError(resp)
	}

	var out domain.UploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Predict triggers a prediction run over the files uploaded so far.
func (c *Client) Predict(ctx context.Context, horizonDays int) (*domain.PredictionResponse, error) {
	var out domain.PredictionResponse
	payload := map[string]int{"horizon_days": horizonDays}
	if err := c.postJSON(ctx, "/api/predict", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Evaluate compares the current predictions against uploaded ground
// truth fires. referencePath is optional and usually empty.
func (c *Client) Evaluate(ctx context.Context, predictionID, referencePath string) (*domain.EvaluationResult, error) {
	payload := map[string]string{"prediction_id": predictionID}
	if referencePath != "" {
		payload["reference_data_path"] = referencePath
	}
	var out domain.EvaluationResult
	if err := c.postJSON(ctx, "/api/evaluate", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return serviceError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return serviceError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// serviceError extracts the human-readable message the service puts in
// failed responses (detail for validation errors, message or error
// otherwise) so the operator sees it verbatim.
func serviceError(resp *http.Response) error {
	var body struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err := json.Unmarshal(raw, &body); err == nil {
		for _, msg := range []string{body.Detail, body.Message, body.Error} {
			if msg != "" {
				return fmt.Errorf("%s", msg)
			}
		}
	}
	return fmt.Errorf("prediction service: %s", resp.Status)
}
