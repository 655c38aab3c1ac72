package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jfmyers9/spins/internal/auth"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the saved Spotify token",
	Long: `Remove the saved Spotify token.

The app credentials in the config file are kept; only the cached OAuth
token is deleted. The next 'spins stats' run will re-authorize.`,
	RunE: runLogout,
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

func runLogout(cmd *cobra.Command, args []string) error {
	cache, err := auth.DefaultTokenCache()
	if err != nil {
		return fmt.Errorf("locating token cache: %w", err)
	}

	if err := cache.Delete(); err != nil {
		return fmt.Errorf("removing token: %w", err)
	}

	fmt.Println("✓ Logged out. Saved Spotify token removed.")
	return nil
}
