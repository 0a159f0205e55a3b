package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"carousel/internal/app"
	"carousel/internal/carousel"
)

const (
	defaultDownloadName = "LinkedIn_Carousel.pdf"
	pollBackoff         = time.Second

	welcomeText = `Send me a topic and I'll turn it into a slide deck.

Commands:
/carousel <topic> - Cover, slides and CTA as one PDF
/list <topic> - Numbered slides on the template image
Plain text uses the default format.`

	emptyHintText = "Please send a topic, e.g. /carousel 5 Tips for Productivity"
)

// Generator is the part of the pipeline the bot drives.
type Generator interface {
	Generate(ctx context.Context, hint string) (*app.GenerateResult, error)
	GenerateVariant(ctx context.Context, hint string, variant carousel.Variant) (*app.GenerateResult, error)
}

type Bot struct {
	client       *Client
	generator    Generator
	fs           afero.Fs
	downloadName string
	offset       int
}

type BotOptions struct {
	Client    *Client
	Generator Generator
	// Fs is where generated files are read from. Defaults to the OS.
	Fs           afero.Fs
	DownloadName string
}

func NewBot(opts BotOptions) *Bot {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.DownloadName == "" {
		opts.DownloadName = defaultDownloadName
	}
	return &Bot{
		client:       opts.Client,
		generator:    opts.Generator,
		fs:           opts.Fs,
		downloadName: opts.DownloadName,
	}
}

// Run polls for messages and handles them one at a time until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	slog.Info("Telegram bot started, listening for messages...")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		updates, err := b.client.GetUpdates(ctx, b.offset)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			slog.Warn("Failed to poll updates", "error", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(pollBackoff):
			}
			continue
		}

		for _, update := range updates {
			b.offset = update.UpdateID + 1
			b.handleUpdate(ctx, update)
		}
	}
}

type request struct {
	hint    string
	variant carousel.Variant
	command bool
}

// parseRequest splits a message into the hint and an optional variant.
// An empty variant means the configured default.
func parseRequest(text string) (request, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return request{hint: text}, true
	}

	command, rest, _ := strings.Cut(text, " ")
	// Commands in groups arrive as /carousel@BotName.
	command, _, _ = strings.Cut(command, "@")

	switch command {
	case "/carousel":
		return request{hint: rest, variant: carousel.VariantCarousel, command: true}, true
	case "/list":
		return request{hint: rest, variant: carousel.VariantList, command: true}, true
	default:
		return request{}, false
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update Update) {
	msg := update.Message
	if msg == nil || msg.Chat == nil || msg.Text == "" {
		return
	}
	chatID := msg.Chat.ID

	req, ok := parseRequest(msg.Text)
	if !ok {
		b.reply(ctx, chatID, welcomeText)
		return
	}

	hint, err := carousel.CleanHint(req.hint)
	if err != nil {
		b.reply(ctx, chatID, emptyHintText)
		return
	}

	slog.Info("Carousel requested", "chat_id", chatID, "hint", hint, "variant", req.variant)
	b.reply(ctx, chatID, fmt.Sprintf("Generating slides for %q...", hint))

	var result *app.GenerateResult
	if req.variant == "" {
		result, err = b.generator.Generate(ctx, hint)
	} else {
		result, err = b.generator.GenerateVariant(ctx, hint, req.variant)
	}
	if err != nil {
		slog.Error("Generation failed", "chat_id", chatID, "error", err)
		b.reply(ctx, chatID, "Error: "+err.Error())
		return
	}

	if err := b.deliver(ctx, chatID, result); err != nil {
		slog.Error("Failed to deliver deck", "chat_id", chatID, "error", err)
		b.reply(ctx, chatID, "Error: "+err.Error())
	}
}

// deliver sends the PDF when one exists, otherwise each slide image.
func (b *Bot) deliver(ctx context.Context, chatID int64, result *app.GenerateResult) error {
	if result.DocumentPath != "" {
		return b.sendFile(ctx, chatID, result.DocumentPath, b.downloadName, result.Title, true)
	}

	if len(result.SlidePaths) == 0 {
		return errors.New("no slides generated")
	}
	for i, path := range result.SlidePaths {
		caption := ""
		if i == 0 {
			caption = result.Title
		}
		if err := b.sendFile(ctx, chatID, path, filepath.Base(path), caption, false); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bot) sendFile(ctx context.Context, chatID int64, path, name, caption string, document bool) error {
	f, err := b.fs.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer func() { _ = f.Close() }()

	if document {
		_, err = b.client.SendDocument(ctx, chatID, name, f, caption)
	} else {
		_, err = b.client.SendPhoto(ctx, chatID, name, f, caption)
	}
	return err
}

func (b *Bot) reply(ctx context.Context, chatID int64, text string) {
	if err := b.client.SendMessage(ctx, chatID, text); err != nil {
		slog.Warn("Failed to send message", "chat_id", chatID, "error", err)
	}
}
