package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Connector is the opaque session-based messaging capability. Session and
// credential lifecycle (pairing, auth persistence) live entirely behind this
// interface; a connector that is not ready surfaces as a DeliveryError for
// its channel only.
type Connector interface {
	IsReady() bool
	SendText(ctx context.Context, recipient, text string) error
}

const senderTimeout = 10 * time.Second

// HTTPConnector talks to an out-of-process sender service that owns the
// messaging session.
type HTTPConnector struct {
	baseURL string
	client  *http.Client
}

// NewHTTPConnector builds a connector for the sender service at baseURL.
// An empty baseURL yields a never-ready connector.
func NewHTTPConnector(baseURL string) *HTTPConnector {
	return &HTTPConnector{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: senderTimeout},
	}
}

// IsReady reports whether a sender service is configured.
func (c *HTTPConnector) IsReady() bool {
	return c != nil && c.baseURL != ""
}

// SendText posts the message to the sender service.
func (c *HTTPConnector) SendText(ctx context.Context, recipient, text string) error {
	body, err := json.Marshal(map[string]string{"to": recipient, "message": text})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/send", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("sender service: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("sender service: HTTP %d", resp.StatusCode)
	}
	return nil
}
