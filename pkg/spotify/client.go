// Package spotify provides a client for the Spotify Web API.
//
// This package implements the pieces of the Web API needed for
// personal listening analytics: the authorization-code OAuth flow,
// token refresh, and the recently-played history endpoint. It is
// designed to be used as a standalone SDK.
//
// Example usage:
//
//	import "github.com/jfmyers9/spins/pkg/spotify"
//
//	client, err := spotify.NewClient(spotify.Config{
//	    ClientID:     "your-client-id",
//	    ClientSecret: "your-client-secret",
//	    RedirectURI:  "http://127.0.0.1:8080/callback",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Authorize at:", client.Auth().AuthCodeURL(state))
package spotify

import (
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

// Config holds client configuration.
type Config struct {
	ClientID     string       // Required: Spotify application client ID
	ClientSecret string       // Required: Spotify application client secret
	RedirectURI  string       // Required for the authorization flow
	Scopes       []string     // Optional: OAuth scopes (defaults to ScopeRecentlyPlayed)
	HTTPClient   *http.Client // Optional: HTTP client (defaults to http.DefaultClient)
	BaseURL      string       // Optional: Web API base URL (defaults to Spotify, used for testing)
	AuthURL      string       // Optional: authorization endpoint override (used for testing)
	TokenURL     string       // Optional: token endpoint override (used for testing)
	Logger       Logger       // Optional: Logger interface for debug logging
}

// Logger is an optional interface for logging.
type Logger interface {
	// Debugf logs a debug message with format and arguments.
	Debugf(format string, args ...interface{})
}

// Client is the main entry point for Spotify Web API operations.
type Client struct {
	oauth      oauth2.Config
	httpClient *http.Client
	baseURL    string
	logger     Logger

	token     *oauth2.Token
	onRefresh func(*oauth2.Token)

	auth    *AuthService
	history *HistoryService
}

const (
	// DefaultBaseURL is the default Spotify Web API endpoint.
	DefaultBaseURL = "https://api.spotify.com/v1"

	// ScopeRecentlyPlayed grants read access to the user's play history.
	ScopeRecentlyPlayed = "user-read-recently-played"
)

// NewClient creates a new Spotify Web API client.
//
// Returns an error if required configuration (ClientID, ClientSecret) is missing.
func NewClient(cfg Config) (*Client, error) {
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("spotify: ClientID is required")
	}
	if cfg.ClientSecret == "" {
		return nil, fmt.Errorf("spotify: ClientSecret is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{ScopeRecentlyPlayed}
	}

	endpoint := endpoints.Spotify
	if cfg.AuthURL != "" {
		endpoint.AuthURL = cfg.AuthURL
	}
	if cfg.TokenURL != "" {
		endpoint.TokenURL = cfg.TokenURL
	}

	c := &Client{
		oauth: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       scopes,
			Endpoint:     endpoint,
		},
		httpClient: httpClient,
		baseURL:    baseURL,
		logger:     cfg.Logger,
	}

	c.auth = &AuthService{client: c}
	c.history = &HistoryService{client: c}

	return c, nil
}

// Auth returns the authentication service.
func (c *Client) Auth() *AuthService {
	return c.auth
}

// History returns the play-history service.
func (c *Client) History() *HistoryService {
	return c.history
}

// SetToken sets the token used to authorize Web API requests.
func (c *Client) SetToken(token *oauth2.Token) {
	c.token = token
}

// Token returns the current token, which may have been refreshed
// since it was set.
func (c *Client) Token() *oauth2.Token {
	return c.token
}

// OnTokenRefresh registers a hook invoked whenever the client replaces
// its token after a refresh, so callers can persist the new token.
func (c *Client) OnTokenRefresh(fn func(*oauth2.Token)) {
	c.onRefresh = fn
}

// setRefreshedToken installs a refreshed token and notifies the hook.
func (c *Client) setRefreshedToken(token *oauth2.Token) {
	c.token = token
	if c.onRefresh != nil {
		c.onRefresh(token)
	}
}

// logDebugf logs a debug message if a logger is configured.
func (c *Client) logDebugf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Debugf(format, args...)
	}
}
