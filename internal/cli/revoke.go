package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	redisclient "github.com/vietddude/availability/internal/storage/redis"
)

var revokeCmd = &cobra.Command{
	Use:   "revoke [permission...]",
	Short: "Revoke permissions granted to the service in Redis",
	Args:  cobra.MinimumNArgs(1),
	Run:   runRevoke,
}

func init() {
	rootCmd.AddCommand(revokeCmd)
}

func runRevoke(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.Redis.URL == "" {
		slog.Error("revoke needs redis.url to be configured")
		os.Exit(1)
	}

	client, err := redisclient.NewClient(cfg.Redis)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = client.Close()
	}()

	store := redisclient.NewGrantStore(client, redisclient.ServiceSubject)
	if err := store.Revoke(context.Background(), args...); err != nil {
		slog.Error("Failed to revoke permissions", "error", err)
		os.Exit(1)
	}
	fmt.Printf("Revoked %d permission(s)\n", len(args))
}
