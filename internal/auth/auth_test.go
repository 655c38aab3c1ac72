package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/jfmyers9/spins/pkg/spotify"
)

// echoPrompt plays the user: it extracts the state from the
// authorization URL and returns a redirect URL carrying it plus the
// configured code.
type echoPrompt struct {
	t        *testing.T
	code     string
	sawURL   string
	override string // returned verbatim when set
}

func (p *echoPrompt) Prompt(authURL string) (string, error) {
	p.sawURL = authURL
	if p.override != "" {
		return p.override, nil
	}

	parsed, err := url.Parse(authURL)
	if err != nil {
		p.t.Fatalf("auth URL does not parse: %v", err)
	}
	state := parsed.Query().Get("state")

	return "http://127.0.0.1:8080/callback?code=" + p.code + "&state=" + state, nil
}

func TestExtractCode(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		state    string
		wantCode string
		wantErr  error
	}{
		{
			name:     "valid",
			url:      "http://127.0.0.1:8080/callback?code=abc123&state=st",
			state:    "st",
			wantCode: "abc123",
		},
		{
			name:     "surrounding whitespace trimmed",
			url:      "  http://127.0.0.1:8080/callback?code=abc123&state=st\n",
			state:    "st",
			wantCode: "abc123",
		},
		{
			name:    "state mismatch",
			url:     "http://127.0.0.1:8080/callback?code=abc123&state=other",
			state:   "st",
			wantErr: ErrStateMismatch,
		},
		{
			name:    "missing code",
			url:     "http://127.0.0.1:8080/callback?state=st",
			state:   "st",
			wantErr: ErrNoAuthCode,
		},
		{
			name:  "consent denied",
			url:   "http://127.0.0.1:8080/callback?error=access_denied&state=st",
			state: "st",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, err := ExtractCode(tt.url, tt.state)

			if tt.wantCode != "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if code != tt.wantCode {
					t.Errorf("expected code %s, got %s", tt.wantCode, code)
				}
				return
			}

			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func newTestAuthenticator(t *testing.T, tokenURL string, prompt CodePrompt) (*Authenticator, *TokenCache) {
	t.Helper()

	client, err := spotify.NewClient(spotify.Config{
		ClientID:     "test-id",
		ClientSecret: "test-secret",
		RedirectURI:  "http://127.0.0.1:8080/callback",
		TokenURL:     tokenURL,
	})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	cache := NewTokenCache(filepath.Join(t.TempDir(), "token.json"))
	return New(client, cache, prompt, zerolog.Nop()), cache
}

func TestAuthenticator_Authorize(t *testing.T) {
	var tokenCalls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenCalls++
		if err := r.ParseForm(); err != nil {
			t.Fatalf("failed to parse form: %v", err)
		}
		if got := r.FormValue("code"); got != "granted-code" {
			t.Errorf("expected code granted-code, got %s", got)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"access_token": "fresh-access",
			"token_type": "Bearer",
			"expires_in": 3600,
			"refresh_token": "fresh-refresh"
		}`))
	}))
	defer server.Close()

	prompt := &echoPrompt{t: t, code: "granted-code"}
	authenticator, cache := newTestAuthenticator(t, server.URL, prompt)

	token, err := authenticator.Authorize(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if token.AccessToken != "fresh-access" {
		t.Errorf("expected access token fresh-access, got %s", token.AccessToken)
	}
	if tokenCalls != 1 {
		t.Errorf("expected 1 token endpoint call, got %d", tokenCalls)
	}
	if !strings.Contains(prompt.sawURL, "state=") {
		t.Errorf("expected state in auth URL, got %s", prompt.sawURL)
	}

	cached, err := cache.Load()
	if err != nil || cached == nil {
		t.Fatalf("expected cached token, got token=%v err=%v", cached, err)
	}
	if cached.RefreshToken != "fresh-refresh" {
		t.Errorf("expected cached refresh token, got %s", cached.RefreshToken)
	}
}

func TestAuthenticator_Authorize_StateMismatch(t *testing.T) {
	prompt := &echoPrompt{t: t, override: "http://127.0.0.1:8080/callback?code=x&state=forged"}
	authenticator, _ := newTestAuthenticator(t, "http://unused.test/token", prompt)

	_, err := authenticator.Authorize(context.Background())
	if !errors.Is(err, ErrStateMismatch) {
		t.Errorf("expected ErrStateMismatch, got %v", err)
	}
}

func TestAuthenticator_Token_ValidCached(t *testing.T) {
	// Any network call would hit an unreachable endpoint and fail.
	authenticator, cache := newTestAuthenticator(t, "http://unused.test/token", &echoPrompt{t: t})

	valid := &oauth2.Token{
		AccessToken:  "cached-access",
		RefreshToken: "cached-refresh",
		Expiry:       time.Now().Add(time.Hour),
	}
	if err := cache.Save(valid); err != nil {
		t.Fatal(err)
	}

	token, err := authenticator.Token(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token.AccessToken != "cached-access" {
		t.Errorf("expected cached token, got %s", token.AccessToken)
	}
}

func TestAuthenticator_Token_RefreshesExpired(t *testing.T) {
	var tokenCalls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenCalls++
		if err := r.ParseForm(); err != nil {
			t.Fatalf("failed to parse form: %v", err)
		}
		if got := r.FormValue("grant_type"); got != "refresh_token" {
			t.Errorf("expected grant_type refresh_token, got %s", got)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"access_token": "rotated-access",
			"token_type": "Bearer",
			"expires_in": 3600
		}`))
	}))
	defer server.Close()

	authenticator, cache := newTestAuthenticator(t, server.URL, &echoPrompt{t: t})

	expired := &oauth2.Token{
		AccessToken:  "expired-access",
		RefreshToken: "cached-refresh",
		Expiry:       time.Now().Add(-time.Minute),
	}
	if err := cache.Save(expired); err != nil {
		t.Fatal(err)
	}

	token, err := authenticator.Token(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if token.AccessToken != "rotated-access" {
		t.Errorf("expected refreshed token, got %s", token.AccessToken)
	}
	if token.RefreshToken != "cached-refresh" {
		t.Errorf("expected refresh token carried over, got %s", token.RefreshToken)
	}
	if tokenCalls != 1 {
		t.Errorf("expected 1 refresh call, got %d", tokenCalls)
	}

	cached, err := cache.Load()
	if err != nil || cached == nil {
		t.Fatalf("expected cached token, got %v err=%v", cached, err)
	}
	if cached.AccessToken != "rotated-access" {
		t.Errorf("expected refreshed token persisted, got %s", cached.AccessToken)
	}
}

func TestAuthenticator_Token_RejectedRefreshFallsBack(t *testing.T) {
	var exchanges int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("failed to parse form: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		if r.FormValue("grant_type") == "refresh_token" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error": "invalid_grant"}`))
			return
		}

		exchanges++
		_, _ = w.Write([]byte(`{
			"access_token": "reauthorized-access",
			"token_type": "Bearer",
			"expires_in": 3600,
			"refresh_token": "reauthorized-refresh"
		}`))
	}))
	defer server.Close()

	prompt := &echoPrompt{t: t, code: "granted-code"}
	authenticator, cache := newTestAuthenticator(t, server.URL, prompt)

	revoked := &oauth2.Token{
		AccessToken:  "expired-access",
		RefreshToken: "revoked-refresh",
		Expiry:       time.Now().Add(-time.Minute),
	}
	if err := cache.Save(revoked); err != nil {
		t.Fatal(err)
	}

	token, err := authenticator.Token(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if token.AccessToken != "reauthorized-access" {
		t.Errorf("expected token from interactive flow, got %s", token.AccessToken)
	}
	if exchanges != 1 {
		t.Errorf("expected 1 code exchange, got %d", exchanges)
	}
}

func TestAuthenticator_Token_NoCacheRunsFlow(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"access_token": "first-access",
			"token_type": "Bearer",
			"expires_in": 3600,
			"refresh_token": "first-refresh"
		}`))
	}))
	defer server.Close()

	prompt := &echoPrompt{t: t, code: "granted-code"}
	authenticator, _ := newTestAuthenticator(t, server.URL, prompt)

	token, err := authenticator.Token(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token.AccessToken != "first-access" {
		t.Errorf("expected token from flow, got %s", token.AccessToken)
	}
}

func TestConsolePrompt(t *testing.T) {
	var out strings.Builder
	prompt := &ConsolePrompt{
		In:  strings.NewReader("http://127.0.0.1:8080/callback?code=abc&state=st\n"),
		Out: &out,
	}

	got, err := prompt.Prompt("https://accounts.spotify.com/authorize?state=st")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "http://127.0.0.1:8080/callback?code=abc&state=st" {
		t.Errorf("unexpected redirect URL: %q", got)
	}
	if !strings.Contains(out.String(), "https://accounts.spotify.com/authorize?state=st") {
		t.Error("expected auth URL printed to output")
	}
}
