// Package authgate decides whether a gated operation may run for a user,
// transparently refreshing the access token when only it has gone stale.
package authgate

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/stocksense/procurebot/tokenstore"
)

// Status is the outcome of an authorization check.
type Status int

const (
	// Authorized means a valid token pair exists (possibly after a silent refresh).
	Authorized Status = iota
	// NeedsReauth means no usable token pair exists and the user must complete
	// a full authentication cycle.
	NeedsReauth
)

// RefreshClient performs the identity provider's refresh grant.
type RefreshClient interface {
	Refresh(ctx context.Context, refreshToken string) (*tokenstore.Pair, error)
}

// Recorder counts gate outcomes. Implementations must be safe for concurrent use.
type Recorder interface {
	IncRefresh()
	IncReauth()
}

// Gate wraps the token store and the provider's refresh endpoint.
type Gate struct {
	tokens   tokenstore.Repo
	provider RefreshClient
	recorder Recorder
	log      zerolog.Logger
}

// GateOption defines a function type to modify the Gate instance.
type GateOption func(*Gate)

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) GateOption {
	return func(g *Gate) {
		g.recorder = r
	}
}

// WithLogger sets the gate's logger.
func WithLogger(log zerolog.Logger) GateOption {
	return func(g *Gate) {
		g.log = log
	}
}

// New creates a Gate over the given token repository and refresh client.
func New(tokens tokenstore.Repo, provider RefreshClient, options ...GateOption) (*Gate, error) {
	if tokens == nil {
		return nil, fmt.Errorf("[authgate.New] tokens repo is required")
	}
	if provider == nil {
		return nil, fmt.Errorf("[authgate.New] refresh client is required")
	}

	g := &Gate{
		tokens:   tokens,
		provider: provider,
		log:      zerolog.Nop(),
	}
	for _, opt := range options {
		opt(g)
	}
	return g, nil
}

// EnsureAuthorized checks the user's token pair. With no pair, or a pair whose
// refresh token has expired, the stored pair is removed and NeedsReauth is
// returned: the caller must start a full authentication cycle. When only the
// access token is stale the pair is silently replaced via the refresh grant.
// A failed refresh call is returned as an error without touching the stored
// pair, so the caller can surface a retry without logging the user out.
func (g *Gate) EnsureAuthorized(ctx context.Context, userID int64) (Status, error) {
	pair, err := g.tokens.Get(userID)
	if err != nil {
		g.incReauth()
		return NeedsReauth, nil
	}

	if pair.RefreshExpired() {
		if err := g.tokens.Delete(userID); err != nil {
			return NeedsReauth, fmt.Errorf("[Gate.EnsureAuthorized] delete expired pair: %w", err)
		}
		g.incReauth()
		return NeedsReauth, nil
	}

	if !pair.AccessExpired() {
		return Authorized, nil
	}

	refreshed, err := g.provider.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		return Authorized, fmt.Errorf("[Gate.EnsureAuthorized] refresh grant: %w", err)
	}
	if err := g.tokens.Upsert(userID, refreshed); err != nil {
		return Authorized, fmt.Errorf("[Gate.EnsureAuthorized] store refreshed pair: %w", err)
	}

	g.log.Debug().Int64("user_id", userID).Msg("access token silently refreshed")
	if g.recorder != nil {
		g.recorder.IncRefresh()
	}
	return Authorized, nil
}

// Logout removes the user's token pair.
func (g *Gate) Logout(userID int64) error {
	return g.tokens.Delete(userID)
}

// Authenticated reports whether a token pair is currently stored for the user.
func (g *Gate) Authenticated(userID int64) bool {
	_, err := g.tokens.Get(userID)
	return err == nil
}

// Roles returns the realm roles carried by the user's access token, if any.
func (g *Gate) Roles(userID int64) []string {
	pair, err := g.tokens.Get(userID)
	if err != nil {
		return nil
	}
	return pair.Roles()
}

func (g *Gate) incReauth() {
	if g.recorder != nil {
		g.recorder.IncReauth()
	}
}
