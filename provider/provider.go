// Package provider wraps the external OIDC identity provider. The core only
// ever performs two grants against it: authorization-code exchange on the
// callback and the refresh grant when an access token goes stale.
package provider

import (
	"context"

	"github.com/stocksense/procurebot/tokenstore"
)

type Client interface {
	// LoginURL builds the provider's authorization URL with the correlator
	// handle as the OAuth2 state parameter.
	LoginURL(handle string) string

	// Exchange swaps an authorization code for a token pair.
	Exchange(ctx context.Context, code string) (*tokenstore.Pair, error)

	// Refresh performs the refresh grant and returns the replacement pair.
	Refresh(ctx context.Context, refreshToken string) (*tokenstore.Pair, error)
}
