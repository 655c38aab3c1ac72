package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// ErrMissingCredentials indicates the Spotify application credentials
// have not been configured yet.
var ErrMissingCredentials = errors.New("missing Spotify credentials")

// DefaultRedirectURI is used when no redirect URI is configured. It
// must match one of the redirect URIs registered for the Spotify app.
const DefaultRedirectURI = "http://127.0.0.1:8888/callback"

// Config holds application configuration
type Config struct {
	// Spotify application credentials
	Spotify SpotifyConfig

	// Default time range for the stats command
	// Default: "1month"
	DefaultRange string

	// Maximum number of history pages fetched per run
	MaxPages int

	// How many entries the ranked listings show
	TopN int
}

// SpotifyConfig holds Spotify specific configuration
type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// Load reads configuration from file and environment
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Config file locations (in order of precedence)
	configDir := getConfigDir()
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	// Set defaults
	v.SetDefault("default_range", "1month")
	v.SetDefault("max_pages", 20)
	v.SetDefault("top_n", 5)
	v.SetDefault("spotify.redirect_uri", DefaultRedirectURI)

	// Read config file (optional - don't fail if missing)
	_ = v.ReadInConfig()

	// Read from environment variables
	v.SetEnvPrefix("SPINS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Also honor the bare variable names the Spotify docs use
	_ = v.BindEnv("spotify.client_id", "SPINS_SPOTIFY_CLIENT_ID", "SPOTIFY_CLIENT_ID")
	_ = v.BindEnv("spotify.client_secret", "SPINS_SPOTIFY_CLIENT_SECRET", "SPOTIFY_CLIENT_SECRET")
	_ = v.BindEnv("spotify.redirect_uri", "SPINS_SPOTIFY_REDIRECT_URI", "SPOTIFY_REDIRECT_URI")

	// Map config to struct
	cfg := &Config{
		DefaultRange: v.GetString("default_range"),
		MaxPages:     v.GetInt("max_pages"),
		TopN:         v.GetInt("top_n"),
		Spotify: SpotifyConfig{
			ClientID:     v.GetString("spotify.client_id"),
			ClientSecret: v.GetString("spotify.client_secret"),
			RedirectURI:  v.GetString("spotify.redirect_uri"),
		},
	}

	return cfg, nil
}

// Validate reports whether the credentials needed to talk to the
// Spotify API are present.
func (c *Config) Validate() error {
	var missing []string
	if c.Spotify.ClientID == "" {
		missing = append(missing, "spotify.client_id")
	}
	if c.Spotify.ClientSecret == "" {
		missing = append(missing, "spotify.client_secret")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s (run 'spins auth' to configure)", ErrMissingCredentials, strings.Join(missing, ", "))
	}
	return nil
}

// getConfigDir returns the configuration directory path
// Creates the directory if it doesn't exist
func getConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	configDir := filepath.Join(homeDir, ".config", "spins")

	// Create config directory if it doesn't exist
	_ = os.MkdirAll(configDir, 0755)

	return configDir
}

// GetConfigDir returns the configuration directory path (public helper)
func GetConfigDir() string {
	return getConfigDir()
}

// Save writes configuration to file
func (c *Config) Save() error {
	v := viper.New()

	// Set config file path
	configDir := getConfigDir()
	configFile := filepath.Join(configDir, "config.yaml")

	// Set values in viper
	v.Set("default_range", c.DefaultRange)
	v.Set("max_pages", c.MaxPages)
	v.Set("top_n", c.TopN)
	v.Set("spotify.client_id", c.Spotify.ClientID)
	v.Set("spotify.client_secret", c.Spotify.ClientSecret)
	v.Set("spotify.redirect_uri", c.Spotify.RedirectURI)

	// Write to file
	return v.WriteConfigAs(configFile)
}
