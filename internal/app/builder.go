package app

import (
	"context"
	"fmt"

	"github.com/spf13/afero"

	"carousel/internal/carousel"
	"carousel/internal/document"
	"carousel/internal/generator"
	"carousel/internal/llm"
	"carousel/internal/llm/azure"
	"carousel/internal/llm/gemini"
	"carousel/internal/llm/groq"
	"carousel/internal/llm/openai"
	"carousel/internal/render"
	"carousel/internal/storage"
	"carousel/pkg/config"
	"carousel/pkg/prompts"
)

const documentCreator = "carousel"

func BuildService(ctx context.Context, cfg *config.Config) (*Service, error) {
	p, err := prompts.Load()
	if err != nil {
		return nil, err
	}

	llmClient, err := newLLMClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	gen := generator.New(llmClient, p, generator.Options{
		SlideCount:      cfg.Content.SlideCount,
		ContentLines:    cfg.Content.ContentLines,
		CoverTitleWords: cfg.Content.CoverTitleWords,
		Temperature:     cfg.LLM.Temperature,
		CarouselTokens:  cfg.MaxTokens(carousel.VariantCarousel),
		ListTokens:      cfg.MaxTokens(carousel.VariantList),
		JSONMode:        cfg.LLM.JSONMode,
	})

	fs := afero.NewOsFs()

	var (
		template render.TemplateSource = render.FileTemplate{Fs: fs, Path: cfg.Assets.Template}
		mirror   storage.DeckMirror
	)
	if cfg.GCS.Enabled {
		gcs, err := storage.NewGCSStorage(ctx, fs, storage.GCSOptions{
			Bucket:         cfg.GCSBucket,
			TemplatePrefix: cfg.GCS.TemplatePrefix,
			DeckPrefix:     cfg.GCS.DeckPrefix,
			CacheDir:       cfg.GCS.CacheDir,
		})
		if err != nil {
			return nil, err
		}
		if err := gcs.EnsureCacheDir(); err != nil {
			_ = gcs.Close()
			return nil, err
		}
		template = gcs
		mirror = gcs
	}

	renderer := render.New(fs, render.Options{
		Assets: render.Assets{
			FontBold:    cfg.Assets.FontBold,
			FontRegular: cfg.Assets.FontRegular,
			AIIcon:      cfg.Assets.AIIcon,
			SwipeIcon:   cfg.Assets.SwipeIcon,
		},
		CTAFooter: cfg.Render.CTAFooter,
		Template:  template,
	})

	localStorage := storage.NewLocalStorage(fs, cfg.Output.Dir, cfg.Output.JPEGQuality)
	if err := localStorage.EnsureDirectories(); err != nil {
		return nil, err
	}

	return NewService(ServiceOptions{
		Config:    cfg,
		Generator: gen,
		Renderer:  renderer,
		Assembler: document.NewAssembler(cfg.Output.JPEGQuality, documentCreator),
		Storage:   localStorage,
		Mirror:    mirror,
	}), nil
}

func newLLMClient(ctx context.Context, cfg *config.Config) (llm.Client, error) {
	switch cfg.LLM.Provider {
	case "azure":
		return azure.NewClient(cfg.LLMAPIKey, cfg.LLMEndpoint, cfg.LLM.APIVersion, cfg.LLMModel), nil
	case "openai":
		return openai.NewClient(cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMEndpoint), nil
	case "groq":
		client, err := groq.NewClient(cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMEndpoint)
		if err != nil {
			return nil, err
		}
		return client, nil
	case "gemini":
		client, err := gemini.NewClient(ctx, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMEndpoint)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("%w: unknown llm provider %q", carousel.ErrConfiguration, cfg.LLM.Provider)
	}
}
