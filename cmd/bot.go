package cmd

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"carousel/internal/app"
	"carousel/internal/telegram"
	"carousel/pkg/config"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Serve carousel requests over Telegram",
	Long: `Run a Telegram bot that turns incoming messages into slide decks.
Send "/carousel <topic>", "/list <topic>" or plain text.`,
	RunE: runBot,
}

func init() {
	rootCmd.AddCommand(botCmd)
}

func runBot(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if err := cfg.ValidateTelegram(); err != nil {
		return err
	}

	service, err := app.BuildService(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = service.Close() }()

	client := telegram.NewClient(cfg.TelegramBotToken, telegram.WithPollTimeout(cfg.Telegram.PollTimeout))
	bot := telegram.NewBot(telegram.BotOptions{
		Client:       client,
		Generator:    app.NewPipeline(service),
		DownloadName: cfg.Telegram.DownloadName,
	})

	slog.Info("Bot running. Press Ctrl+C to stop.")
	if err := bot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	slog.Info("Shutting down...")
	return nil
}
