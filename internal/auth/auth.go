package auth

import (
	"bufio"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/jfmyers9/spins/pkg/spotify"
)

var (
	// ErrStateMismatch is returned when the OAuth state parameter in the
	// redirect URL doesn't match the one sent with the authorization URL.
	ErrStateMismatch = errors.New("OAuth state mismatch")

	// ErrNoAuthCode is returned when the redirect URL carries no
	// authorization code.
	ErrNoAuthCode = errors.New("no authorization code in redirect URL")
)

// CodePrompt awaits external authorization input: it presents the
// authorization URL to the user and returns the redirect URL Spotify
// sent the browser to. Implementations may block on console input,
// run a local callback listener, or supply a fixed URL in tests.
type CodePrompt interface {
	Prompt(authURL string) (redirectURL string, err error)
}

// ConsolePrompt implements CodePrompt as blocking console input: the
// user opens the printed URL, approves access, and pastes the full
// redirect URL back.
type ConsolePrompt struct {
	In  io.Reader
	Out io.Writer
}

// Prompt prints the authorization instructions and reads the pasted
// redirect URL.
func (p *ConsolePrompt) Prompt(authURL string) (string, error) {
	fmt.Fprintln(p.Out, "\n=== Spotify authorization required ===")
	fmt.Fprintln(p.Out, "1. Open the URL below, log in, and approve the requested permissions.")
	fmt.Fprintln(p.Out, "2. Spotify will redirect to your redirect URI. Copy the FULL URL from the browser.")
	fmt.Fprintln(p.Out, "3. Paste that URL below.")
	fmt.Fprintf(p.Out, "\n  %s\n\n", authURL)
	fmt.Fprint(p.Out, "Paste the full redirect URL here: ")

	line, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading redirect URL: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Authenticator obtains a usable credential: from the cache when still
// valid, via refresh when expired, or through the interactive
// authorization flow.
type Authenticator struct {
	client *spotify.Client
	cache  *TokenCache
	prompt CodePrompt
	logger zerolog.Logger
}

// New creates an Authenticator.
func New(client *spotify.Client, cache *TokenCache, prompt CodePrompt, logger zerolog.Logger) *Authenticator {
	return &Authenticator{
		client: client,
		cache:  cache,
		prompt: prompt,
		logger: logger.With().Str("component", "auth").Logger(),
	}
}

// Token returns a valid credential, refreshing or re-authorizing as needed.
func (a *Authenticator) Token(ctx context.Context) (*oauth2.Token, error) {
	token, err := a.cache.Load()
	if err != nil {
		a.logger.Warn().Err(err).Msg("Ignoring unreadable token cache")
	}

	if token != nil {
		if token.Valid() {
			return token, nil
		}

		if token.RefreshToken != "" {
			refreshed, err := a.client.Auth().Refresh(ctx, token)
			if err == nil {
				a.saveToken(refreshed)
				return refreshed, nil
			}

			// A rejected refresh token (revoked or expired consent)
			// means the user must approve again; anything else is a
			// transport problem worth surfacing.
			var retrieveErr *oauth2.RetrieveError
			if !errors.As(err, &retrieveErr) {
				return nil, fmt.Errorf("refreshing stored token: %w", err)
			}
			a.logger.Warn().Err(err).Msg("Stored refresh token rejected, starting new authorization")
		}
	}

	return a.Authorize(ctx)
}

// Authorize runs the interactive authorization-code flow and caches
// the resulting token.
func (a *Authenticator) Authorize(ctx context.Context) (*oauth2.Token, error) {
	state, err := generateState()
	if err != nil {
		return nil, fmt.Errorf("generating state: %w", err)
	}

	authURL := a.client.Auth().AuthCodeURL(state)

	redirectURL, err := a.prompt.Prompt(authURL)
	if err != nil {
		return nil, fmt.Errorf("awaiting authorization: %w", err)
	}

	code, err := ExtractCode(redirectURL, state)
	if err != nil {
		return nil, err
	}

	token, err := a.client.Auth().Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	a.saveToken(token)
	return token, nil
}

// Logout removes the cached token.
func (a *Authenticator) Logout() error {
	return a.cache.Delete()
}

// saveToken persists the token; authorization already succeeded, so a
// cache failure is logged rather than returned.
func (a *Authenticator) saveToken(token *oauth2.Token) {
	if err := a.cache.Save(token); err != nil {
		a.logger.Warn().Err(err).Msg("Failed to cache token")
		return
	}
	a.logger.Debug().Str("path", a.cache.Path()).Msg("Token cached")
}

// ExtractCode pulls the authorization code out of a pasted redirect
// URL, verifying the echoed state parameter.
func ExtractCode(redirectURL, expectedState string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(redirectURL))
	if err != nil {
		return "", fmt.Errorf("parsing redirect URL: %w", err)
	}

	query := parsed.Query()

	if errMsg := query.Get("error"); errMsg != "" {
		return "", fmt.Errorf("authorization denied: %s", errMsg)
	}
	if expectedState != "" && query.Get("state") != expectedState {
		return "", ErrStateMismatch
	}

	code := query.Get("code")
	if code == "" {
		return "", ErrNoAuthCode
	}
	return code, nil
}

// generateState creates a random state string for OAuth.
func generateState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
