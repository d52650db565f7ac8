// Package gateway talks to the prediction service over HTTP.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"

	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/src/logging"
	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/src/pipeline"
	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/src/types"
)

// ConnectMessage is shown to the user for every transport failure.
const ConnectMessage = "Failed to connect to the API. Make sure the backend is running."

// maxBody caps how much of a response is read.
const maxBody = 8 << 20

// ErrUnsupportedCountry is returned before any I/O when the country is not in
// the configured reference list.
var ErrUnsupportedCountry = errors.New("unsupported country")

// TransportError covers connection failures, unreadable bodies and non-2xx
// replies that carry no error field. Its message is always ConnectMessage.
type TransportError struct {
	Op     string
	Status int
	Err    error
}

func (e *TransportError) Error() string { return ConnectMessage }

func (e *TransportError) Unwrap() error { return e.Err }

// Detail describes the underlying cause for logs.
func (e *TransportError) Detail() string {
	switch {
	case e.Status != 0 && e.Err != nil:
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.Status, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("%s: status %d", e.Op, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op
}

// Client is a thin JSON client for the prediction service.
type Client struct {
	base      string
	http      *http.Client
	countries map[string]struct{}
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// New returns a client for baseURL. An empty countries list disables the
// country check. A zero timeout means no client-side timeout.
func New(baseURL string, countries []string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: timeout},
	}
	if len(countries) > 0 {
		c.countries = make(map[string]struct{}, len(countries))
		for _, name := range countries {
			c.countries[name] = struct{}{}
		}
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL returns the service root.
func (c *Client) BaseURL() string { return c.base }

// PredictCountry requests the historical series and forecast for one country.
func (c *Client) PredictCountry(ctx context.Context, country string) (map[string]any, error) {
	if c.countries != nil {
		if _, ok := c.countries[country]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedCountry, country)
		}
	}
	return c.post(ctx, "/predict", types.CountryRequest{Country: country})
}

// PredictFeatures requests a single prediction from raw feature values.
func (c *Client) PredictFeatures(ctx context.Context, req types.FeatureRequest) (map[string]any, error) {
	return c.post(ctx, "/predict", req)
}

// Countries lists the countries the service can predict for.
func (c *Client) Countries(ctx context.Context) ([]string, error) {
	body, status, err := c.do(ctx, http.MethodGet, "/countries", nil)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, &TransportError{Op: "GET /countries", Status: status}
	}
	list, _ := body["countries"].([]any)
	out := make([]string, 0, len(list))
	for _, v := range list {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) (map[string]any, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	body, status, err := c.do(ctx, http.MethodPost, path, raw)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		// the service reports validation failures as {"error": "..."} with a 4xx
		if pipeline.ErrorPresent(body["error"]) {
			logging.Warnf("[gateway] POST %s: status %d with error field", path, status)
			return body, nil
		}
		return nil, &TransportError{Op: "POST " + path, Status: status}
	}
	return body, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) (map[string]any, int, error) {
	op := method + " " + path
	var rdr io.Reader
	if payload != nil {
		rdr = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rdr)
	if err != nil {
		return nil, 0, &TransportError{Op: op, Err: err}
	}
	reqID := uuid.NewString()
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logging.Warnf("[gateway] %s id=%s failed: %v", op, reqID, err)
		return nil, 0, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()
	logging.Debugf("[gateway] %s id=%s status=%d in %s", op, reqID, resp.StatusCode, time.Since(start))

	var body io.Reader = io.LimitReader(resp.Body, maxBody)
	if strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		zr, err := gzip.NewReader(body)
		if err != nil {
			return nil, resp.StatusCode, &TransportError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("gzip: %w", err)}
		}
		defer zr.Close()
		body = zr
	}

	dec := json.NewDecoder(body)
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, resp.StatusCode, &TransportError{Op: op, Status: resp.StatusCode}
		}
		return nil, resp.StatusCode, &TransportError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, resp.StatusCode, nil
}
