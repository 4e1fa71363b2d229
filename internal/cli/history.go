package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/vietddude/availability/internal/core/domain"
	"github.com/vietddude/availability/internal/storage/postgres"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [session_id]",
	Short: "Show recent availability passes stored in PostgreSQL",
	Args:  cobra.MaximumNArgs(1),
	Run:   runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "number of passes to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.Database.URL == "" {
		slog.Error("history needs database.url to be configured")
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := postgres.NewDB(ctx, cfg.Database)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = db.Close()
	}()

	repo := postgres.NewPassRepo(db)
	var passes []*domain.PassRecord
	if len(args) == 1 {
		passes, err = repo.GetRecent(ctx, args[0], historyLimit)
	} else {
		passes, err = repo.GetLatest(ctx, historyLimit)
	}
	if err != nil {
		slog.Error("Failed to query passes", "error", err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "STARTED\tSESSION\tMODE\tRESULT\tREMAINING\tDURATION")
	for _, p := range passes {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			p.StartedAt.Format(time.RFC3339),
			p.SessionID,
			p.Mode,
			p.Result,
			joinKinds(p.Remaining),
			p.Duration.Round(time.Millisecond),
		)
	}
	_ = w.Flush()
}

func joinKinds(kinds []domain.FailureKind) string {
	if len(kinds) == 0 {
		return "-"
	}
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = string(k)
	}
	return strings.Join(parts, ",")
}
