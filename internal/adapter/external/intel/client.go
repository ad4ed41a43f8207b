package intel

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/isolationbox11-cyber/isolationbox-sub001/internal/metrics"
)

// DefaultTimeout applies to every provider unless configured otherwise.
const DefaultTimeout = 10 * time.Second

// restClient is the shared transport under every provider client: one
// place for timeout handling, header injection, JSON decoding and error
// mapping instead of five re-implementations.
type restClient struct {
	provider   string
	httpClient *http.Client
	headers    map[string]string
	basicUser  string
	basicPass  string
}

func newRESTClient(provider string, timeout time.Duration) *restClient {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &restClient{
		provider:   provider,
		httpClient: &http.Client{Timeout: timeout},
		headers:    map[string]string{},
	}
}

func (c *restClient) setHeader(key, value string) {
	c.headers[key] = value
}

func (c *restClient) setBasicAuth(user, pass string) {
	c.basicUser = user
	c.basicPass = pass
}

// getJSON issues a single GET and decodes the body into out. Each call
// is attempted once; retry policy belongs to the caller.
func (c *restClient) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(req, out)
}

// postJSON issues a single POST with a JSON body.
func (c *restClient) postJSON(ctx context.Context, url string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *restClient) do(req *http.Request, out interface{}) error {
	req.Header.Set("Accept", "application/json")
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
	if c.basicUser != "" || c.basicPass != "" {
		req.SetBasicAuth(c.basicUser, c.basicPass)
	}

	metrics.ProviderRequests.WithLabelValues(c.provider).Inc()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ProviderErrors.WithLabelValues(c.provider).Inc()
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.ProviderErrors.WithLabelValues(c.provider).Inc()
		return &ProviderError{
			Provider: c.provider,
			Status:   resp.StatusCode,
			Message:  readErrorMessage(resp.Body, resp.StatusCode),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.ProviderErrors.WithLabelValues(c.provider).Inc()
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// readErrorMessage pulls a short human-readable message out of an error
// body. Providers answer errors as {"error": ...}, {"message": ...} or
// plain text; anything unreadable falls back to the status text.
func readErrorMessage(body io.Reader, status int) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return http.StatusText(status)
	}

	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &envelope) == nil {
		if envelope.Error != "" {
			return envelope.Error
		}
		if envelope.Message != "" {
			return envelope.Message
		}
	}

	msg := string(bytes.TrimSpace(raw))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	if msg == "" {
		return http.StatusText(status)
	}
	return msg
}

// statusOf returns the ProviderError status carried by err, or 0.
func statusOf(err error) int {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Status
	}
	return 0
}
