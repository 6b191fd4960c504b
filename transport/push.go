// Package transport implements outbound delivery to the chat adapter. The
// adapter owns the chat platform API; this side only pushes action batches
// at it.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/stocksense/procurebot/conversation"
)

// Pusher posts action batches to the chat adapter's push endpoint.
type Pusher struct {
	pushURL    string
	httpClient *http.Client
}

// PusherOption defines a function type to modify the Pusher instance.
type PusherOption func(*Pusher)

// WithHTTPClient overrides the HTTP client used for pushes.
func WithHTTPClient(client *http.Client) PusherOption {
	return func(p *Pusher) {
		p.httpClient = client
	}
}

// NewPusher creates the push transport.
func NewPusher(pushURL string, options ...PusherOption) (*Pusher, error) {
	if pushURL == "" {
		return nil, fmt.Errorf("[transport.NewPusher] push URL is required")
	}
	p := &Pusher{
		pushURL:    pushURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range options {
		opt(p)
	}
	return p, nil
}

type pushRequest struct {
	UserID  int64                 `json:"user_id"`
	Actions []conversation.Action `json:"actions"`
}

// Deliver posts one user's action batch. A non-2xx reply is an error; the
// caller decides whether to retry.
func (p *Pusher) Deliver(ctx context.Context, userID int64, actions []conversation.Action) error {
	body, err := json.Marshal(pushRequest{UserID: userID, Actions: actions})
	if err != nil {
		return fmt.Errorf("[Pusher.Deliver] marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.pushURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("[Pusher.Deliver] request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("[Pusher.Deliver] push: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("[Pusher.Deliver] push returned status %d", resp.StatusCode)
	}
	return nil
}
