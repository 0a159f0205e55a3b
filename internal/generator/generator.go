package generator

import (
	"context"
	"fmt"
	"log/slog"

	"carousel/internal/carousel"
	"carousel/internal/llm"
	"carousel/pkg/prompts"
)

type Options struct {
	SlideCount      int
	ContentLines    string
	CoverTitleWords int
	Temperature     float64
	CarouselTokens  int
	ListTokens      int
	JSONMode        bool
}

// Generator turns a topic hint into validated slide content with a single
// chat completion.
type Generator struct {
	client  llm.Client
	prompts *prompts.Prompts
	opts    Options
}

func New(client llm.Client, p *prompts.Prompts, opts Options) *Generator {
	if opts.SlideCount <= 0 {
		opts.SlideCount = carousel.DefaultSlideCount
	}
	return &Generator{
		client:  client,
		prompts: p,
		opts:    opts,
	}
}

func (g *Generator) SlideCount() int {
	return g.opts.SlideCount
}

func (g *Generator) Generate(ctx context.Context, hint string, variant carousel.Variant) (*carousel.Content, error) {
	req, err := g.buildRequest(hint, variant)
	if err != nil {
		return nil, err
	}

	slog.Debug("Requesting slide content", "variant", variant, "hint", hint, "slides", g.opts.SlideCount)

	raw, err := g.client.Complete(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", carousel.ErrGeneration, err)
	}

	slog.Debug("Received slide content", "bytes", len(raw))

	if variant == carousel.VariantList {
		return ParseList(raw, g.opts.SlideCount)
	}
	return ParseCarousel(raw, g.opts.SlideCount)
}

func (g *Generator) buildRequest(hint string, variant carousel.Variant) (llm.Request, error) {
	req := llm.Request{
		System:      g.prompts.System.Default,
		Temperature: g.opts.Temperature,
	}

	var err error
	switch variant {
	case carousel.VariantCarousel:
		req.User, err = g.prompts.RenderCarousel(prompts.CarouselParams{
			Hint:            hint,
			SlideCount:      g.opts.SlideCount,
			ContentLines:    g.opts.ContentLines,
			CoverTitleWords: g.opts.CoverTitleWords,
		})
		req.MaxTokens = g.opts.CarouselTokens
		req.JSON = g.opts.JSONMode
	case carousel.VariantList:
		// JSON object mode would reject the bare array this prompt asks for.
		req.User, err = g.prompts.RenderList(prompts.ListParams{
			Hint:         hint,
			SlideCount:   g.opts.SlideCount,
			ContentLines: g.opts.ContentLines,
		})
		req.MaxTokens = g.opts.ListTokens
	default:
		return llm.Request{}, fmt.Errorf("%w: unknown variant %q", carousel.ErrConfiguration, variant)
	}
	if err != nil {
		return llm.Request{}, fmt.Errorf("render prompt: %w", err)
	}

	return req, nil
}
