package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jfmyers9/spins/internal/config"
	"github.com/jfmyers9/spins/internal/history"
	"github.com/jfmyers9/spins/internal/report"
	"github.com/jfmyers9/spins/internal/stats"
	"github.com/jfmyers9/spins/internal/store"
)

var (
	statsRange    string
	statsExport   string
	statsMaxPages int
	statsTop      int
	statsOffline  bool
	statsNoCache  bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize your recent listening",
	Long: `Summarize your recent Spotify listening.

Fetches your recently played tracks and episodes, prints the top
artists and podcasts by listening time, and shows when during the week
you listen. Fetched plays are cached locally so repeated runs can
summarize more history than Spotify's recently-played endpoint keeps.

Valid time ranges: ` + joinWindows() + `.`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().StringVarP(&statsRange, "range", "r", "", "time range to analyze (default from config)")
	statsCmd.Flags().StringVar(&statsExport, "export", "", "write the detailed play history to a CSV file")
	statsCmd.Flags().IntVar(&statsMaxPages, "max-pages", 0, "maximum history pages to fetch (default from config)")
	statsCmd.Flags().IntVar(&statsTop, "top", 0, "entries per ranked listing (default from config)")
	statsCmd.Flags().BoolVar(&statsOffline, "offline", false, "summarize from the local cache without contacting Spotify")
	statsCmd.Flags().BoolVar(&statsNoCache, "no-cache", false, "skip the local play cache entirely")
}

func joinWindows() string {
	windows := history.Windows()
	names := make([]string, len(windows))
	for i, w := range windows {
		names[i] = string(w)
	}
	return strings.Join(names, ", ")
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	logger := setupLogger()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	rangeName := statsRange
	if rangeName == "" {
		rangeName = cfg.DefaultRange
	}
	window, err := history.ParseWindow(rangeName)
	if err != nil {
		return err
	}
	cutoff := window.Cutoff(time.Now())

	maxPages := statsMaxPages
	if maxPages <= 0 {
		maxPages = cfg.MaxPages
	}
	topN := statsTop
	if topN <= 0 {
		topN = cfg.TopN
	}

	if statsOffline && statsNoCache {
		return fmt.Errorf("--offline and --no-cache are mutually exclusive")
	}

	var playStore *store.Store
	if !statsNoCache {
		dbPath := filepath.Join(config.GetConfigDir(), "history.db")
		playStore, err = store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening play cache: %w", err)
		}
		defer playStore.Close()
	}

	events, err := collectEvents(ctx, cfg, logger, playStore, cutoff, maxPages)
	if err != nil {
		return err
	}

	if len(events) == 0 {
		fmt.Println("No plays found in the selected time range.")
		fmt.Println("Listen to something on Spotify and rerun, or widen the range with --range.")
		return nil
	}

	summary := stats.Summarize(events)
	report.Render(os.Stdout, summary, report.Options{
		RangeLabel: window.String(),
		Since:      cutoff,
		TopN:       topN,
	})

	if statsExport != "" {
		if err := report.ExportCSV(events, statsExport); err != nil {
			return fmt.Errorf("exporting CSV: %w", err)
		}
		fmt.Printf("\nDetailed history written to %s\n", statsExport)
	}

	return nil
}

// collectEvents gathers the plays to summarize. Online runs fetch from
// the API and fold the results into the cache; offline runs read the
// cache alone. When the cache is in play the summarized events are
// read back from it, so older cached plays inside the window count too.
func collectEvents(ctx context.Context, cfg *config.Config, logger zerolog.Logger, playStore *store.Store, cutoff time.Time, maxPages int) ([]history.PlayEvent, error) {
	if statsOffline {
		events, err := playStore.ListSince(ctx, cutoff)
		if err != nil {
			return nil, fmt.Errorf("reading play cache: %w", err)
		}
		return events, nil
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client, authenticator, err := newAuthenticatedClient(cfg, logger)
	if err != nil {
		return nil, err
	}

	token, err := authenticator.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("authenticating: %w", err)
	}
	client.SetToken(token)

	fetcher := history.NewFetcher(client, logger)
	events, err := fetcher.FetchSince(ctx, cutoff, maxPages)
	if err != nil {
		return nil, fmt.Errorf("fetching play history: %w", err)
	}

	if playStore == nil {
		return events, nil
	}

	inserted, err := playStore.Record(ctx, events)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to cache fetched plays")
		return events, nil
	}
	logger.Debug().Int("fetched", len(events)).Int("new", inserted).Msg("Cached play history")

	cached, err := playStore.ListSince(ctx, cutoff)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to read play cache")
		return events, nil
	}
	return cached, nil
}
