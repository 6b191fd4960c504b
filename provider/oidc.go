package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/stocksense/procurebot/internal/config"
	"github.com/stocksense/procurebot/tokenstore"
)

// OIDCClient implements Client against a standard OIDC provider discovered
// via its issuer URL (Keycloak in the original deployment).
type OIDCClient struct {
	oidcProvider *oidc.Provider
	oauth2Config *oauth2.Config
}

// NewOIDCClient discovers the provider's endpoints and prepares the OAuth2
// configuration used for the code exchange and refresh grants.
func NewOIDCClient(ctx context.Context, cfg config.OAuthConfig) (*OIDCClient, error) {
	oidcProvider, err := oidc.NewProvider(ctx, cfg.GetIssuerURL())
	if err != nil {
		return nil, fmt.Errorf("[NewOIDCClient] provider discovery: %w", err)
	}

	return &OIDCClient{
		oidcProvider: oidcProvider,
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.GetClientID(),
			ClientSecret: cfg.GetClientSecret(),
			Endpoint:     oidcProvider.Endpoint(),
			RedirectURL:  cfg.GetRedirectURL(),
			Scopes:       []string{oidc.ScopeOpenID, "profile"},
		},
	}, nil
}

// LoginURL builds the authorization URL embedding the correlator handle
func (c *OIDCClient) LoginURL(handle string) string {
	return c.oauth2Config.AuthCodeURL(handle)
}

// Exchange swaps an authorization code for a token pair
func (c *OIDCClient) Exchange(ctx context.Context, code string) (*tokenstore.Pair, error) {
	oauth2Token, err := c.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("[OIDCClient.Exchange] token exchange failed: %w", err)
	}
	return pairFromToken(oauth2Token), nil
}

// Refresh performs the refresh grant against the provider's token endpoint
func (c *OIDCClient) Refresh(ctx context.Context, refreshToken string) (*tokenstore.Pair, error) {
	source := c.oauth2Config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	oauth2Token, err := source.Token()
	if err != nil {
		return nil, fmt.Errorf("[OIDCClient.Refresh] refresh grant failed: %w", err)
	}
	return pairFromToken(oauth2Token), nil
}

func pairFromToken(token *oauth2.Token) *tokenstore.Pair {
	return &tokenstore.Pair{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ObtainedAt:   time.Now(),
	}
}
