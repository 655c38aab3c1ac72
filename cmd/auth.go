package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jfmyers9/spins/internal/config"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authenticate with Spotify",
	Long: `Authenticate with Spotify to enable history fetching.

This command will guide you through the Spotify authentication process:
1. You'll be prompted to enter your Spotify app client ID and secret
2. A browser URL will be provided for you to authorize the application
3. After authorizing, paste the redirect URL back and a token is saved

You can create app credentials at: https://developer.spotify.com/dashboard
The app's redirect URI must match the one configured here.`,
	RunE: runAuth,
}

func init() {
	rootCmd.AddCommand(authCmd)
}

func runAuth(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)
	logger := setupLogger()

	// Load existing config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Step 1: Get app credentials
	fmt.Println("Spotify Authentication")
	fmt.Println("======================")
	fmt.Println()
	fmt.Println("You can create app credentials at: https://developer.spotify.com/dashboard")
	fmt.Println()

	// Check if we already have credentials
	if cfg.Spotify.ClientID != "" && cfg.Spotify.ClientSecret != "" {
		fmt.Printf("Found existing app credentials.\n")
		fmt.Printf("Client ID: %s\n", cfg.Spotify.ClientID)
		fmt.Print("\nUse existing credentials? [Y/n]: ")
		response, err := reader.ReadString('\n')
		if err != nil {
			response = "y"
		}
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "" && response != "y" && response != "yes" {
			// User wants to enter new credentials
			cfg.Spotify.ClientID = ""
			cfg.Spotify.ClientSecret = ""
		}
	}

	// Prompt for client ID if not set
	if cfg.Spotify.ClientID == "" {
		fmt.Print("Enter your Spotify Client ID: ")
		clientID, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read client ID: %w", err)
		}
		cfg.Spotify.ClientID = strings.TrimSpace(clientID)
	}

	// Prompt for client secret if not set
	if cfg.Spotify.ClientSecret == "" {
		fmt.Print("Enter your Spotify Client Secret: ")
		clientSecret, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read client secret: %w", err)
		}
		cfg.Spotify.ClientSecret = strings.TrimSpace(clientSecret)
	}

	// Validate inputs
	if cfg.Spotify.ClientID == "" || cfg.Spotify.ClientSecret == "" {
		return fmt.Errorf("client ID and secret are required")
	}

	if cfg.Spotify.RedirectURI == "" {
		cfg.Spotify.RedirectURI = config.DefaultRedirectURI
	}

	// Step 2: Persist the credentials before starting the browser flow
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	// Step 3: Run the authorization-code flow
	_, authenticator, err := newAuthenticatedClient(cfg, logger)
	if err != nil {
		return err
	}

	if _, err := authenticator.Authorize(ctx); err != nil {
		return fmt.Errorf("authorization failed: %w", err)
	}

	configPath := config.GetConfigDir()
	fmt.Printf("\n✓ Authentication successful!\n")
	fmt.Printf("✓ Credentials saved to %s/config.yaml\n", configPath)
	fmt.Println("\nYou can now use 'spins stats' to summarize your listening.")

	return nil
}
