package spotify

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
)

// AuthService provides OAuth2 authorization-code operations.
type AuthService struct {
	client *Client
}

// AuthCodeURL returns the URL where the user approves access.
//
// This is the first step in the authorization flow. Direct the user to
// this URL; after approving, Spotify redirects to the configured
// redirect URI with a "code" and the echoed "state" in the query.
//
// Example:
//
//	authURL := client.Auth().AuthCodeURL(state)
//	fmt.Println("Please visit:", authURL)
func (a *AuthService) AuthCodeURL(state string) string {
	return a.client.oauth.AuthCodeURL(state)
}

// Exchange trades an authorization code for a token.
//
// Call this with the code extracted from the redirect URL after the
// user has approved access. The returned token includes the refresh
// token and the access token's expiry.
func (a *AuthService) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	a.client.logDebugf("spotify: exchanging authorization code")

	token, err := a.client.oauth.Exchange(a.client.oauthContext(ctx), code)
	if err != nil {
		return nil, fmt.Errorf("exchanging authorization code: %w", err)
	}

	return token, nil
}

// Refresh exchanges the refresh token for a new access token.
//
// Spotify may omit the refresh token in the response; in that case the
// existing refresh token is carried over so the returned token is
// always complete enough to persist.
func (a *AuthService) Refresh(ctx context.Context, token *oauth2.Token) (*oauth2.Token, error) {
	if token == nil || token.RefreshToken == "" {
		return nil, ErrNoRefreshToken
	}

	a.client.logDebugf("spotify: refreshing access token")

	src := a.client.oauth.TokenSource(a.client.oauthContext(ctx), &oauth2.Token{
		RefreshToken: token.RefreshToken,
	})

	newToken, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("refreshing token: %w", err)
	}

	if newToken.RefreshToken == "" {
		newToken.RefreshToken = token.RefreshToken
	}

	return newToken, nil
}

// oauthContext injects the configured HTTP client into the context so
// the oauth2 package uses it for token endpoint calls.
func (c *Client) oauthContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
}
