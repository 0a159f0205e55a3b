package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"carousel/internal/carousel"
)

type Pipeline struct {
	service *Service
	now     func() time.Time
}

type GenerateResult struct {
	Hint         string
	Title        string
	Variant      carousel.Variant
	OutputDir    string
	SlidePaths   []string
	DocumentPath string
	RemoteURIs   []string
	Deck         *carousel.Deck
}

func NewPipeline(service *Service) *Pipeline {
	return &Pipeline{service: service, now: time.Now}
}

// Generate runs the configured variant for hint.
func (pipeline *Pipeline) Generate(ctx context.Context, hint string) (*GenerateResult, error) {
	variant := carousel.Variant(pipeline.service.Config().Content.Variant)
	return pipeline.GenerateVariant(ctx, hint, variant)
}

// GenerateVariant produces one deck. On any failure the session directory is
// removed so callers never see a partial deck.
func (pipeline *Pipeline) GenerateVariant(ctx context.Context, hint string, variant carousel.Variant) (*GenerateResult, error) {
	service := pipeline.service

	slog.Info("Generating content...", "variant", variant, "slides", service.Generator().SlideCount())
	content, err := service.Generator().Generate(ctx, hint, variant)
	if err != nil {
		return nil, err
	}

	slog.Info("Rendering slides...", "title", content.Title())
	slides, err := service.Renderer().RenderDeck(ctx, content)
	if err != nil {
		return nil, err
	}

	deck := &carousel.Deck{
		ID:      newSessionID(pipeline.now()),
		Variant: variant,
		Slides:  slides,
	}

	if variant == carousel.VariantCarousel {
		slog.Info("Assembling document...", "pages", len(slides))
		doc, err := service.Assembler().Assemble(content.Title(), slides)
		if err != nil {
			return nil, err
		}
		deck.Document = doc
	}

	result, err := pipeline.save(ctx, deck)
	if err != nil {
		return nil, err
	}
	result.Hint = hint
	result.Title = content.Title()

	slog.Info("Deck ready", "dir", result.OutputDir, "slides", len(result.SlidePaths))
	return result, nil
}

func (pipeline *Pipeline) save(ctx context.Context, deck *carousel.Deck) (result *GenerateResult, err error) {
	local := pipeline.service.Storage()

	dir, err := local.NewSession(deck.ID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err == nil {
			return
		}
		if rmErr := local.RemoveSession(dir); rmErr != nil {
			slog.Warn("Failed to clean up session", "dir", dir, "error", rmErr)
		}
	}()

	result = &GenerateResult{
		Variant:   deck.Variant,
		OutputDir: dir,
		Deck:      deck,
	}

	for _, slide := range deck.Slides {
		path, err := local.SaveSlide(dir, slide)
		if err != nil {
			return nil, err
		}
		result.SlidePaths = append(result.SlidePaths, path)
	}

	uploads := result.SlidePaths
	if deck.Document != nil {
		name := pipeline.service.Config().Output.DocumentName
		path, err := local.SaveDocument(dir, name, deck.Document)
		if err != nil {
			return nil, err
		}
		result.DocumentPath = path
		uploads = append(append([]string{}, uploads...), path)
	}

	if mirror := pipeline.service.Mirror(); mirror != nil {
		slog.Info("Uploading deck...", "files", len(uploads))
		uris, err := mirror.UploadDeck(ctx, deck.ID, uploads)
		if err != nil {
			return nil, fmt.Errorf("upload deck: %w", err)
		}
		result.RemoteURIs = uris
	}

	return result, nil
}
