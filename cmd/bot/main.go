package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	clementine "github.com/clementine-bot/clementine"
	"github.com/clementine-bot/clementine/internal/config"
	"github.com/clementine-bot/clementine/internal/repository"
	"github.com/clementine-bot/clementine/internal/service"
)

var rootCmd = &cobra.Command{
	Use:           "bot",
	Short:         "Slack assistant backed by the Tangerine chat API",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func main() {
	rootCmd.AddCommand(serveCmd, roomsCmd)

	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// setup loads configuration and installs the JSON logger at the configured
// level.
func setup() (*config.Config, error) {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))
	return cfg, nil
}

// openRooms migrates and opens the room store and builds the service over
// it. The returned func closes the store.
func openRooms(ctx context.Context, cfg *config.Config, prompts config.Prompts) (*service.RoomConfigService, func(), error) {
	migrationsFS, err := fs.Sub(clementine.MigrationsFS, "migrations")
	if err != nil {
		return nil, nil, fmt.Errorf("load embedded migrations: %w", err)
	}

	store, closeStore, err := repository.Open(ctx, cfg.DatabaseURL, migrationsFS)
	if err != nil {
		return nil, nil, fmt.Errorf("open room store: %w", err)
	}

	rooms := service.NewRoomConfigService(store, service.RoomDefaults{
		Assistants:        cfg.AssistantList,
		SystemPrompt:      cfg.DefaultSystemPrompt(prompts),
		ContextWindowSize: cfg.DefaultContextSize,
		Bounds:            cfg.ContextBounds,
	})
	return rooms, closeStore, nil
}
