// Package notify delivers the reading digest to the configured external
// channels and aggregates per-channel outcomes.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	errs "readtrack/internal/errors"
)

// Channel is one configured external delivery target.
type Channel interface {
	Name() string
	Send(ctx context.Context, message string) error
}

// DeliveryError wraps a transport failure from a single channel attempt. One
// channel's failure never aborts sibling attempts.
type DeliveryError struct {
	Channel string
	Err     error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("channel %s: %v", e.Channel, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// barkChannel pushes via a Bark-style URL with the message path-encoded.
type barkChannel struct {
	url    string
	client *http.Client
}

func (c *barkChannel) Name() string { return "bark" }

func (c *barkChannel) Send(ctx context.Context, message string) error {
	if c.url == "" {
		return errs.ErrChannelNotConfigured
	}

	full := c.url
	if !strings.HasSuffix(full, "/") {
		full += "/"
	}
	full += url.PathEscape(message)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, full, nil)
	if err != nil {
		return &DeliveryError{Channel: c.Name(), Err: err}
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return &DeliveryError{Channel: c.Name(), Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &DeliveryError{Channel: c.Name(), Err: fmt.Errorf("HTTP %d", resp.StatusCode)}
	}
	return nil
}

// webhookChannel POSTs {"content": message} to a generic JSON webhook.
type webhookChannel struct {
	url    string
	client *http.Client
}

func (c *webhookChannel) Name() string { return "webhook" }

func (c *webhookChannel) Send(ctx context.Context, message string) error {
	if c.url == "" {
		return errs.ErrChannelNotConfigured
	}

	body, err := json.Marshal(map[string]string{"content": message})
	if err != nil {
		return &DeliveryError{Channel: c.Name(), Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return &DeliveryError{Channel: c.Name(), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return &DeliveryError{Channel: c.Name(), Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &DeliveryError{Channel: c.Name(), Err: fmt.Errorf("HTTP %d", resp.StatusCode)}
	}
	return nil
}

// groupAPIChannel sends to an authenticated group-messaging HTTP API.
type groupAPIChannel struct {
	baseURL  string
	apiKey   string
	groupJID string
	client   *http.Client
}

func (c *groupAPIChannel) Name() string { return "whatsapp_api" }

func (c *groupAPIChannel) Send(ctx context.Context, message string) error {
	if c.baseURL == "" || c.apiKey == "" || c.groupJID == "" {
		return errs.ErrChannelNotConfigured
	}

	body, err := json.Marshal(map[string]string{"jid": c.groupJID, "message": message})
	if err != nil {
		return &DeliveryError{Channel: c.Name(), Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimSuffix(c.baseURL, "/")+"/api/send-message", bytes.NewReader(body))
	if err != nil {
		return &DeliveryError{Channel: c.Name(), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return &DeliveryError{Channel: c.Name(), Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &DeliveryError{Channel: c.Name(), Err: fmt.Errorf("HTTP %d", resp.StatusCode)}
	}
	return nil
}

// senderChannel delegates to the session-based messaging connector.
type senderChannel struct {
	connector Connector
	recipient string
}

func (c *senderChannel) Name() string { return "whatsapp_sender" }

func (c *senderChannel) Send(ctx context.Context, message string) error {
	if c.connector == nil || c.recipient == "" {
		return errs.ErrChannelNotConfigured
	}
	if !c.connector.IsReady() {
		return &DeliveryError{Channel: c.Name(), Err: fmt.Errorf("messaging connector not ready")}
	}
	if err := c.connector.SendText(ctx, c.recipient, message); err != nil {
		return &DeliveryError{Channel: c.Name(), Err: err}
	}
	return nil
}
