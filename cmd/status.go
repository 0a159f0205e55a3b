package cmd

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"carousel/pkg/config"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which settings and assets are configured",
	Long:  `Report LLM credentials, asset files and optional integrations without calling any service.`,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

type checkLevel int

const (
	checkOK checkLevel = iota
	checkMissing
	checkOptional
)

type statusCheck struct {
	level checkLevel
	text  string
}

func (c statusCheck) String() string {
	switch c.level {
	case checkOK:
		return successStyle.Render("✓ " + c.text)
	case checkMissing:
		return errorStyle.Render("✗ " + c.text)
	default:
		return infoStyle.Render("○ " + c.text)
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fmt.Println(infoStyle.Render("\nCarousel Status:\n"))
	for _, check := range statusChecks(cfg, afero.NewOsFs()) {
		fmt.Println(check)
	}
	fmt.Println()
	return nil
}

func statusChecks(cfg *config.Config, fs afero.Fs) []statusCheck {
	var checks []statusCheck

	provider := cfg.LLM.Provider
	if cfg.LLMAPIKey != "" {
		checks = append(checks, statusCheck{checkOK, fmt.Sprintf("LLM (%s): API key configured", provider)})
	} else {
		checks = append(checks, statusCheck{checkMissing, fmt.Sprintf("LLM (%s): missing LLM_API_KEY", provider)})
	}
	if cfg.LLMModel != "" {
		checks = append(checks, statusCheck{checkOK, "Model: " + cfg.LLMModel})
	} else {
		checks = append(checks, statusCheck{checkMissing, "Model: missing LLM_MODEL"})
	}
	switch {
	case cfg.LLMEndpoint != "":
		checks = append(checks, statusCheck{checkOK, "Endpoint: " + cfg.LLMEndpoint})
	case provider == "azure":
		checks = append(checks, statusCheck{checkMissing, "Endpoint: missing LLM_ENDPOINT"})
	default:
		checks = append(checks, statusCheck{checkOptional, "Endpoint: provider default"})
	}

	checks = append(checks,
		fileCheck(fs, "Bold font", cfg.Assets.FontBold, true),
		fileCheck(fs, "Regular font", cfg.Assets.FontRegular, true),
		fileCheck(fs, "AI icon", cfg.Assets.AIIcon, false),
		fileCheck(fs, "Swipe icon", cfg.Assets.SwipeIcon, false),
	)

	if cfg.GCS.Enabled {
		if cfg.GCSBucket != "" {
			checks = append(checks, statusCheck{checkOK, "GCS: bucket " + cfg.GCSBucket})
		} else {
			checks = append(checks, statusCheck{checkMissing, "GCS: enabled but GCS_BUCKET is not set"})
		}
	} else {
		checks = append(checks,
			fileCheck(fs, "List template", cfg.Assets.Template, cfg.Content.Variant == "list"),
			statusCheck{checkOptional, "GCS: not enabled (optional)"},
		)
	}

	if cfg.GCPProject != "" {
		checks = append(checks, statusCheck{checkOK, "Secret Manager: project " + cfg.GCPProject})
	} else {
		checks = append(checks, statusCheck{checkOptional, "Secret Manager: not configured (optional)"})
	}

	if cfg.TelegramBotToken != "" {
		checks = append(checks, statusCheck{checkOK, "Telegram: bot token configured"})
	} else {
		checks = append(checks, statusCheck{checkOptional, "Telegram: not configured (optional)"})
	}

	return checks
}

func fileCheck(fs afero.Fs, name, path string, required bool) statusCheck {
	if ok, _ := afero.Exists(fs, path); ok {
		return statusCheck{checkOK, fmt.Sprintf("%s: %s", name, path)}
	}
	if required {
		return statusCheck{checkMissing, fmt.Sprintf("%s: %s not found", name, path)}
	}
	return statusCheck{checkOptional, fmt.Sprintf("%s: %s not found (optional)", name, path)}
}
