// Package classifier talks to the external cloud-image classification service.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/haneulgyeol/cloud-atlas/internal/domain"
	"github.com/haneulgyeol/cloud-atlas/internal/observability"
)

// maxResponseBytes bounds how much of a classifier response is read.
const maxResponseBytes = 1 << 20

// ErrMalformedResponse is returned when a 2xx response cannot be decoded into a
// usable result.
var ErrMalformedResponse = errors.New("malformed classifier response")

// APIError is a classifier failure reported by the server, either through a
// non-2xx status or a success=false body.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("classifier API error: status %d", e.Status)
	}
	return fmt.Sprintf("classifier API error: status %d: %s", e.Status, e.Message)
}

// ServerMessage returns the error text the classifier sent, if any.
func (e *APIError) ServerMessage() string { return e.Message }

// Client implements domain.Classifier over HTTP. Requests are never retried.
type Client struct {
	endpoint   string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a classifier client posting to endpoint.
func NewClient(endpoint string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// Classify uploads the image as multipart field "file" and decodes the ranked result.
func (c *Client) Classify(ctx context.Context, u domain.Upload) (domain.ClassifyResult, error) {
	body, contentType, err := encodeUpload(u)
	if err != nil {
		return domain.ClassifyResult{}, fmt.Errorf("encode upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return domain.ClassifyResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ClassifyDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return domain.ClassifyResult{}, fmt.Errorf("classify request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return domain.ClassifyResult{}, fmt.Errorf("read response: %w", err)
	}

	var payload response
	decodeErr := json.Unmarshal(raw, &payload)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		if decodeErr == nil {
			apiErr.Message = payload.Error
		}
		c.logger.Warn("classifier returned error status", "status", resp.StatusCode, "message", apiErr.Message)
		return domain.ClassifyResult{}, apiErr
	}
	if decodeErr != nil {
		return domain.ClassifyResult{}, fmt.Errorf("%w: %w", ErrMalformedResponse, decodeErr)
	}
	if !payload.Success {
		return domain.ClassifyResult{}, &APIError{Status: resp.StatusCode, Message: payload.Error}
	}
	if payload.Result == nil || len(payload.Result.Predictions) == 0 {
		return domain.ClassifyResult{}, fmt.Errorf("%w: no predictions", ErrMalformedResponse)
	}

	result := *payload.Result
	c.logger.Debug("classified image",
		"filename", u.Filename,
		"top", result.Predictions[0].Code,
		"confidence_level", result.ConfidenceLevel,
	)
	return result, nil
}

// Health is the classifier's self-reported status.
type Health struct {
	Status     string   `json:"status"`
	Device     string   `json:"device"`
	Arch       string   `json:"arch"`
	RunName    string   `json:"run_name"`
	ImgSize    int      `json:"img_size"`
	NumClasses int      `json:"num_classes"`
	Classes    []string `json:"classes"`
}

// Health queries the /health route next to the predict endpoint.
func (c *Client) Health(ctx context.Context) (Health, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return Health{}, fmt.Errorf("parse endpoint: %w", err)
	}
	u.Path = path.Join(path.Dir(u.Path), "health")
	u.RawQuery = ""

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Health{}, fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Health{}, fmt.Errorf("health request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Health{}, &APIError{Status: resp.StatusCode}
	}
	var h Health
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&h); err != nil {
		return Health{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return h, nil
}

func encodeUpload(u domain.Upload) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	filename := u.Filename
	if filename == "" {
		filename = "upload"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(filename)))
	h.Set("Content-Type", u.ContentType)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(u.Data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

// Classifier API response types.

type response struct {
	Success bool                   `json:"success"`
	Result  *domain.ClassifyResult `json:"result"`
	Error   string                 `json:"error"`
}
