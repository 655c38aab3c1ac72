package auth

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func testCache(t *testing.T) *TokenCache {
	t.Helper()
	return NewTokenCache(filepath.Join(t.TempDir(), "nested", "token.json"))
}

func TestTokenCache_RoundTrip(t *testing.T) {
	cache := testCache(t)

	saved := &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(time.Hour).Round(time.Second),
	}

	if err := cache.Save(saved); err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}

	loaded, err := cache.Load()
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	if loaded == nil {
		t.Fatal("expected token, got nil")
	}

	if loaded.AccessToken != saved.AccessToken || loaded.RefreshToken != saved.RefreshToken {
		t.Errorf("round trip mismatch: %+v", loaded)
	}
	if !loaded.Expiry.Equal(saved.Expiry) {
		t.Errorf("expected expiry %s, got %s", saved.Expiry, loaded.Expiry)
	}

	info, err := os.Stat(cache.Path())
	if err != nil {
		t.Fatalf("stat token file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("expected 0600 permissions, got %o", perm)
	}
}

func TestTokenCache_LoadMissing(t *testing.T) {
	cache := testCache(t)

	token, err := cache.Load()
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if token != nil {
		t.Errorf("expected nil token for missing file, got %+v", token)
	}
}

func TestTokenCache_LoadMalformed(t *testing.T) {
	cache := testCache(t)

	if err := os.MkdirAll(filepath.Dir(cache.Path()), 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cache.Path(), []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := cache.Load(); err == nil {
		t.Error("expected error for malformed token file, got nil")
	}
}

func TestTokenCache_SaveNil(t *testing.T) {
	cache := testCache(t)

	if err := cache.Save(nil); err == nil {
		t.Error("expected error for nil token, got nil")
	}
}

func TestTokenCache_Delete(t *testing.T) {
	cache := testCache(t)

	// Deleting a missing file is not an error.
	if err := cache.Delete(); err != nil {
		t.Errorf("unexpected error deleting missing file: %v", err)
	}

	if err := cache.Save(&oauth2.Token{AccessToken: "access"}); err != nil {
		t.Fatal(err)
	}
	if err := cache.Delete(); err != nil {
		t.Fatalf("unexpected delete error: %v", err)
	}

	token, err := cache.Load()
	if err != nil || token != nil {
		t.Errorf("expected empty cache after delete, got token=%+v err=%v", token, err)
	}
}
