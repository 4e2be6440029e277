package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	clementine "github.com/clementine-bot/clementine"
	"github.com/clementine-bot/clementine/internal/config"
	"github.com/clementine-bot/clementine/internal/handler"
	"github.com/clementine-bot/clementine/internal/middleware"
	"github.com/clementine-bot/clementine/internal/repository"
	"github.com/clementine-bot/clementine/internal/service"
	"github.com/clementine-bot/clementine/internal/slackio"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Connect to Slack over Socket Mode and answer questions",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	prompts, err := config.LoadPrompts(cfg.PromptsDir, clementine.PromptsFS)
	if err != nil {
		return fmt.Errorf("load prompts: %w", err)
	}

	rooms, closeStore, err := openRooms(ctx, cfg, prompts)
	if err != nil {
		return err
	}
	defer closeStore()

	client := slackio.NewClient(cfg.BotToken, cfg.AppToken, cfg.SlackDebug)
	messenger := slackio.NewMessenger(client)

	botUserID, err := messenger.BotUserID(ctx)
	if err != nil {
		return fmt.Errorf("identify bot: %w", err)
	}
	slog.Info("bot info retrieved", "user_id", botUserID, "name", cfg.BotName)

	listener := slackio.NewListener(client, cfg.SlackDebug)
	listener.Use(
		middleware.Recover(),
		middleware.Logging(),
	)

	h := handler.New(handler.Deps{
		Cfg:       cfg,
		Prompts:   prompts,
		Slack:     messenger,
		Chat:      service.NewTangerineClient(cfg.APIURL, cfg.APIToken, cfg.APITimeout),
		Feedback:  service.NewFeedbackClient(cfg.APIURL, cfg.APIToken, cfg.FeedbackTimeout),
		Rooms:     rooms,
		Extractor: service.NewContextExtractor(messenger, service.NewUserNameCache()),
		Loading:   service.DefaultLoadingMessages(),
		Formatter: slackio.NewFormatter(slackio.FormatterOptions{
			Rich:           cfg.RichFormatting,
			DocsBaseURL:    cfg.DocsBaseURL,
			ShowDisclosure: cfg.ShowAIDisclosure,
			DisclosureText: cfg.AIDisclosureText,
			EnableFeedback: cfg.EnableFeedback,
		}),
		Ops: slackio.NewOpsLogger(messenger, cfg.LogSlackChannel),
	})
	h.Register(listener)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return listener.Run(gctx)
	})
	if cfg.Port > 0 {
		g.Go(func() error {
			return slackio.NewHealthServer(listener, cfg.Port).Start(gctx)
		})
	}

	slog.Info("starting bot",
		"ask_command", cfg.AskCommand,
		"config_command", cfg.ConfigCommand,
		"rich_formatting", cfg.RichFormatting,
		"postgres", repository.IsPostgresURL(cfg.DatabaseURL),
	)
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	slog.Info("bot stopped gracefully")
	return nil
}
