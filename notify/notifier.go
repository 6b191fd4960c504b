// Package notify implements the background broadcast loop: procurement-law
// news goes to every user with a stored token pair, low-stock alerts go to
// the users tracking the affected products. Delivery reuses the transport
// adapter the conversation core emits actions through.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/stocksense/procurebot/backend"
	"github.com/stocksense/procurebot/conversation"
	"github.com/stocksense/procurebot/tokenstore"
)

// Notifier periodically polls the backend and pushes broadcasts out of band.
type Notifier struct {
	interval  time.Duration
	backend   backend.Client
	tokens    tokenstore.Repo
	transport conversation.Transport
	log       zerolog.Logger
}

// NotifierOption defines a function type to modify the Notifier instance.
type NotifierOption func(*Notifier)

// WithLogger sets the notifier's logger.
func WithLogger(log zerolog.Logger) NotifierOption {
	return func(n *Notifier) {
		n.log = log
	}
}

// New creates the broadcast notifier.
func New(
	interval time.Duration,
	backendClient backend.Client,
	tokens tokenstore.Repo,
	transport conversation.Transport,
	options ...NotifierOption,
) (*Notifier, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("[notify.New] interval must be positive")
	}
	if backendClient == nil {
		return nil, fmt.Errorf("[notify.New] backend client is required")
	}
	if tokens == nil {
		return nil, fmt.Errorf("[notify.New] token repository is required")
	}
	if transport == nil {
		return nil, fmt.Errorf("[notify.New] transport is required")
	}

	n := &Notifier{
		interval:  interval,
		backend:   backendClient,
		tokens:    tokens,
		transport: transport,
		log:       zerolog.Nop(),
	}
	for _, opt := range options {
		opt(n)
	}
	return n, nil
}

// Run blocks polling on the configured interval until the context is
// cancelled. A failed sweep is logged and retried on the next tick.
func (n *Notifier) Run(ctx context.Context) {
	ticker := time.NewTicker(n.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n.Sweep(ctx)
		}
	}
}

// Sweep runs one broadcast round: one law-news poll fanned out to every
// known user, then per-user stock alerts.
func (n *Notifier) Sweep(ctx context.Context) {
	userIDs := n.tokens.UserIDs()
	if len(userIDs) == 0 {
		return
	}

	news, err := n.backend.PollLawUpdates(ctx)
	if err != nil {
		n.log.Warn().Err(err).Msg("law update poll failed")
	}

	for _, userID := range userIDs {
		if news != "" {
			n.deliver(ctx, userID, news)
		}
		alerts, err := n.backend.StockAlerts(ctx, userID)
		if err != nil {
			n.log.Warn().Err(err).Int64("user_id", userID).Msg("stock alert poll failed")
			continue
		}
		for _, alert := range alerts {
			n.deliver(ctx, userID, alert)
		}
	}
}

func (n *Notifier) deliver(ctx context.Context, userID int64, text string) {
	action := conversation.Action{Kind: conversation.ActionSendText, Text: text}
	if err := n.transport.Deliver(ctx, userID, []conversation.Action{action}); err != nil {
		n.log.Warn().Err(err).Int64("user_id", userID).Msg("broadcast delivery failed")
	}
}
