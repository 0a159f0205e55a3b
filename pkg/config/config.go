package config

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"carousel/internal/carousel"
)

const (
	defaultConfigPath      = "config.yaml"
	defaultProvider        = "azure"
	defaultAPIVersion      = "2023-03-15-preview"
	defaultTemperature     = 0.7
	defaultCarouselTokens  = 1000
	defaultListTokens      = 800
	defaultVariant         = "carousel"
	defaultContentLines    = "2-3"
	defaultCoverTitleWords = 8
	defaultFontBold        = "fonts/Roboto-Bold.ttf"
	defaultFontRegular     = "fonts/Roboto-Regular.ttf"
	defaultAIIcon          = "icons/ai.png"
	defaultSwipeIcon       = "icons/swipe.png"
	defaultTemplate        = "assets/template.png"
	defaultOutputDir       = "./slides"
	defaultJPEGQuality     = 95
	defaultDocumentName    = "carousel.pdf"
	defaultCTAFooter       = "Like, Comment & Share if useful!"
	defaultTemplatePrefix  = "templates"
	defaultDeckPrefix      = "decks"
	defaultCacheDir        = "./.cache"
	defaultPollTimeout     = 30
	defaultDownloadName    = "LinkedIn_Carousel.pdf"
)

//go:embed default.yaml
var defaultYAML []byte

// DefaultYAML returns a config.yaml populated with the built-in defaults.
func DefaultYAML() []byte {
	return append([]byte(nil), defaultYAML...)
}

type Config struct {
	LLMAPIKey        string
	LLMEndpoint      string
	LLMModel         string
	GCPProject       string
	GCSBucket        string
	TelegramBotToken string

	LLM      LLMConfig      `yaml:"llm"`
	Content  ContentConfig  `yaml:"content"`
	Assets   AssetsConfig   `yaml:"assets"`
	Output   OutputConfig   `yaml:"output"`
	Render   RenderConfig   `yaml:"render"`
	GCS      GCSConfig      `yaml:"gcs"`
	Telegram TelegramConfig `yaml:"telegram"`
}

type LLMConfig struct {
	Provider       string  `yaml:"provider"` // "azure", "openai", "groq" or "gemini"
	Model          string  `yaml:"model"`
	APIVersion     string  `yaml:"api_version"`
	Temperature    float64 `yaml:"temperature"`
	CarouselTokens int     `yaml:"carousel_max_tokens"`
	ListTokens     int     `yaml:"list_max_tokens"`
	// JSONMode sends response_format json_object on carousel requests. The
	// deployment and API version (2023-12-01-preview or later on Azure) must
	// support it.
	JSONMode bool `yaml:"json_mode"`
}

type ContentConfig struct {
	Variant         string `yaml:"variant"`
	SlideCount      int    `yaml:"slide_count"`
	ContentLines    string `yaml:"content_lines"`
	CoverTitleWords int    `yaml:"cover_title_words"`
}

type AssetsConfig struct {
	FontBold    string `yaml:"font_bold"`
	FontRegular string `yaml:"font_regular"`
	AIIcon      string `yaml:"ai_icon"`
	SwipeIcon   string `yaml:"swipe_icon"`
	Template    string `yaml:"template"`
}

type OutputConfig struct {
	Dir          string `yaml:"dir"`
	JPEGQuality  int    `yaml:"jpeg_quality"`
	DocumentName string `yaml:"document_name"`
}

type RenderConfig struct {
	CTAFooter string `yaml:"cta_footer"`
}

type GCSConfig struct {
	Enabled        bool   `yaml:"enabled"`
	TemplatePrefix string `yaml:"template_prefix"`
	DeckPrefix     string `yaml:"deck_prefix"`
	CacheDir       string `yaml:"cache_dir"`
}

type TelegramConfig struct {
	PollTimeout  int    `yaml:"poll_timeout"`
	DownloadName string `yaml:"download_name"`
}

func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		LLMAPIKey:        firstEnv("LLM_API_KEY", "AZURE_API_KEY"),
		LLMEndpoint:      firstEnv("LLM_ENDPOINT", "AZURE_ENDPOINT"),
		LLMModel:         firstEnv("LLM_MODEL", "AZURE_DEPLOYMENT"),
		GCPProject:       os.Getenv("GOOGLE_CLOUD_PROJECT"),
		GCSBucket:        os.Getenv("GCS_BUCKET"),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
	}

	if err := loadYAMLConfig(cfg, defaultConfigPath); err != nil {
		return nil, err
	}

	// Secrets come before defaults so a stored deployment name wins over
	// llm.model from config.yaml.
	if cfg.GCPProject != "" {
		resolveSecrets(ctx, cfg)
	}
	applyDefaults(cfg)

	return cfg, nil
}

func loadYAMLConfig(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// Validate checks the settings needed before the pipeline can start.
func (c *Config) Validate() error {
	var missing []string
	if c.LLMAPIKey == "" {
		missing = append(missing, "LLM_API_KEY")
	}
	if c.LLMModel == "" {
		missing = append(missing, "LLM_MODEL")
	}
	if c.LLM.Provider == "azure" && c.LLMEndpoint == "" {
		missing = append(missing, "LLM_ENDPOINT")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %v", carousel.ErrConfiguration, missing)
	}

	switch c.LLM.Provider {
	case "azure", "openai", "groq", "gemini":
	default:
		return fmt.Errorf("%w: unknown llm provider %q", carousel.ErrConfiguration, c.LLM.Provider)
	}
	if !carousel.Variant(c.Content.Variant).Valid() {
		return fmt.Errorf("%w: unknown variant %q", carousel.ErrConfiguration, c.Content.Variant)
	}
	if c.Content.SlideCount < 1 {
		return fmt.Errorf("%w: slide_count must be positive", carousel.ErrConfiguration)
	}
	if c.Output.JPEGQuality < 1 || c.Output.JPEGQuality > 100 {
		return fmt.Errorf("%w: jpeg_quality must be in 1..100", carousel.ErrConfiguration)
	}
	if c.GCS.Enabled && c.GCSBucket == "" {
		return fmt.Errorf("%w: gcs enabled without GCS_BUCKET", carousel.ErrConfiguration)
	}
	return nil
}

// ValidateTelegram additionally requires the bot token.
func (c *Config) ValidateTelegram() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.TelegramBotToken == "" {
		return fmt.Errorf("%w: missing TELEGRAM_BOT_TOKEN", carousel.ErrConfiguration)
	}
	return nil
}

func (c *Config) MaxTokens(variant carousel.Variant) int {
	if variant == carousel.VariantList {
		return c.LLM.ListTokens
	}
	return c.LLM.CarouselTokens
}

func applyDefaults(cfg *Config) {
	applyLLMDefaults(cfg)
	applyContentDefaults(cfg)
	applyAssetsDefaults(cfg)
	applyOutputDefaults(cfg)
	applyRenderDefaults(cfg)
	applyGCSDefaults(cfg)
	applyTelegramDefaults(cfg)
}

func applyLLMDefaults(cfg *Config) {
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = defaultProvider
	}
	if cfg.LLMModel == "" {
		cfg.LLMModel = cfg.LLM.Model
	}
	if cfg.LLM.APIVersion == "" {
		cfg.LLM.APIVersion = defaultAPIVersion
	}
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = defaultTemperature
	}
	if cfg.LLM.CarouselTokens == 0 {
		cfg.LLM.CarouselTokens = defaultCarouselTokens
	}
	if cfg.LLM.ListTokens == 0 {
		cfg.LLM.ListTokens = defaultListTokens
	}
}

func applyContentDefaults(cfg *Config) {
	if cfg.Content.Variant == "" {
		cfg.Content.Variant = defaultVariant
	}
	if cfg.Content.SlideCount == 0 {
		cfg.Content.SlideCount = carousel.DefaultSlideCount
	}
	if cfg.Content.ContentLines == "" {
		cfg.Content.ContentLines = defaultContentLines
	}
	if cfg.Content.CoverTitleWords == 0 {
		cfg.Content.CoverTitleWords = defaultCoverTitleWords
	}
}

func applyAssetsDefaults(cfg *Config) {
	if cfg.Assets.FontBold == "" {
		cfg.Assets.FontBold = defaultFontBold
	}
	if cfg.Assets.FontRegular == "" {
		cfg.Assets.FontRegular = defaultFontRegular
	}
	if cfg.Assets.AIIcon == "" {
		cfg.Assets.AIIcon = defaultAIIcon
	}
	if cfg.Assets.SwipeIcon == "" {
		cfg.Assets.SwipeIcon = defaultSwipeIcon
	}
	if cfg.Assets.Template == "" {
		cfg.Assets.Template = defaultTemplate
	}
}

func applyOutputDefaults(cfg *Config) {
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = defaultOutputDir
	}
	if cfg.Output.JPEGQuality == 0 {
		cfg.Output.JPEGQuality = defaultJPEGQuality
	}
	if cfg.Output.DocumentName == "" {
		cfg.Output.DocumentName = defaultDocumentName
	}
}

func applyRenderDefaults(cfg *Config) {
	if cfg.Render.CTAFooter == "" {
		cfg.Render.CTAFooter = defaultCTAFooter
	}
}

func applyGCSDefaults(cfg *Config) {
	if cfg.GCS.TemplatePrefix == "" {
		cfg.GCS.TemplatePrefix = defaultTemplatePrefix
	}
	if cfg.GCS.DeckPrefix == "" {
		cfg.GCS.DeckPrefix = defaultDeckPrefix
	}
	if cfg.GCS.CacheDir == "" {
		cfg.GCS.CacheDir = defaultCacheDir
	}
}

func applyTelegramDefaults(cfg *Config) {
	if cfg.Telegram.PollTimeout == 0 {
		cfg.Telegram.PollTimeout = defaultPollTimeout
	}
	if cfg.Telegram.DownloadName == "" {
		cfg.Telegram.DownloadName = defaultDownloadName
	}
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}
