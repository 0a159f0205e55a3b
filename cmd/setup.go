package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"carousel/pkg/config"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).MarginBottom(1)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard",
	Long:  `Create asset and output directories, write config.yaml and configure API keys in .env.`,
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

var envOrder = []string{
	"LLM_API_KEY",
	"LLM_ENDPOINT",
	"LLM_MODEL",
	"GOOGLE_CLOUD_PROJECT",
	"GCS_BUCKET",
	"TELEGRAM_BOT_TOKEN",
}

func runSetup(cmd *cobra.Command, args []string) error {
	fmt.Println(titleStyle.Render("Carousel Setup"))

	fs := afero.NewOsFs()
	steps := []struct {
		name string
		fn   func() error
	}{
		{"Creating directories", func() error { return createDirectories(fs, "slides") }},
		{"Writing config.yaml", func() error { return writeDefaultConfig(fs, "config.yaml") }},
		{"Configuring environment", configureEnv},
	}

	for _, step := range steps {
		if err := step.fn(); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}

	printNextSteps()
	return nil
}

func createDirectories(fs afero.Fs, outputDir string) error {
	dirs := []string{"fonts", "icons", "assets", outputDir}
	for _, dir := range dirs {
		if err := fs.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	fmt.Println(successStyle.Render("✓ Created directories"))
	return nil
}

// writeDefaultConfig leaves an existing config untouched.
func writeDefaultConfig(fs afero.Fs, path string) error {
	if ok, _ := afero.Exists(fs, path); ok {
		fmt.Println(infoStyle.Render("Kept existing " + path))
		return nil
	}
	if err := afero.WriteFile(fs, path, config.DefaultYAML(), 0644); err != nil {
		return err
	}
	fmt.Println(successStyle.Render("✓ Created " + path))
	return nil
}

func configureEnv() error {
	if _, err := os.Stat(".env"); err == nil {
		var overwrite bool
		if err := huh.NewConfirm().
			Title("Found existing .env file").
			Description("Overwrite?").
			Value(&overwrite).
			Run(); err != nil {
			return err
		}
		if !overwrite {
			fmt.Println(infoStyle.Render("Kept existing .env"))
			return nil
		}
	}

	env := make(map[string]string)

	if err := configureLLM(env); err != nil {
		return err
	}
	if err := configureGCP(env); err != nil {
		return err
	}
	if err := configureTelegram(env); err != nil {
		return err
	}

	f, err := os.Create(".env")
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := writeEnv(f, env); err != nil {
		return err
	}
	fmt.Println(successStyle.Render("✓ Created .env file"))
	return nil
}

func configureLLM(env map[string]string) error {
	var provider, apiKey, endpoint, model string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("LLM provider").
				Description("Must match llm.provider in config.yaml").
				Options(
					huh.NewOption("Azure OpenAI", "azure"),
					huh.NewOption("OpenAI compatible", "openai"),
					huh.NewOption("Groq", "groq"),
					huh.NewOption("Gemini", "gemini"),
				).
				Value(&provider),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("API Key").
				EchoMode(huh.EchoModePassword).
				Value(&apiKey).
				Validate(required("API Key")),
			huh.NewInput().
				Title("Endpoint").
				Description("Required for Azure, e.g. https://<resource>.openai.azure.com").
				Value(&endpoint),
			huh.NewInput().
				Title("Model or deployment name").
				Placeholder("gpt-35-turbo").
				Value(&model),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}
	if provider == "azure" && strings.TrimSpace(endpoint) == "" {
		fmt.Println(warnStyle.Render("Azure needs LLM_ENDPOINT - add it to .env before generating"))
	}
	if provider != "azure" {
		fmt.Println(infoStyle.Render(fmt.Sprintf("Set llm.provider: %s in config.yaml", provider)))
	}

	setEnv(env, "LLM_API_KEY", apiKey)
	setEnv(env, "LLM_ENDPOINT", endpoint)
	setEnv(env, "LLM_MODEL", model)
	return nil
}

func configureGCP(env map[string]string) error {
	var setupGCP bool
	if err := huh.NewConfirm().
		Title("Setup Google Cloud?").
		Description("Optional: Secret Manager for keys and a GCS bucket for templates and decks").
		Value(&setupGCP).
		Run(); err != nil {
		return err
	}
	if !setupGCP {
		return nil
	}

	var project, bucket string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Project ID").
				Value(&project).
				Validate(required("Project ID")),
			huh.NewInput().
				Title("GCS bucket (optional)").
				Value(&bucket),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	setEnv(env, "GOOGLE_CLOUD_PROJECT", project)
	setEnv(env, "GCS_BUCKET", bucket)

	if !commandExists("gcloud") {
		fmt.Println(warnStyle.Render("gcloud CLI not found - enable secretmanager and storage APIs manually"))
		return nil
	}

	apis := []string{"secretmanager.googleapis.com", "storage.googleapis.com"}
	err := runWithSpinner("Enabling APIs", func() error {
		args := append([]string{"services", "enable"}, apis...)
		args = append(args, "--project", strings.TrimSpace(project))
		return runSetupCmd("gcloud", args...)
	})
	if err != nil {
		fmt.Println(warnStyle.Render(fmt.Sprintf("API enablement failed: %v", err)))
	}
	return nil
}

func configureTelegram(env map[string]string) error {
	var setup bool
	if err := huh.NewConfirm().
		Title("Setup Telegram bot?").
		Description("Serve carousels from a chat (optional)").
		Value(&setup).
		Run(); err != nil {
		return err
	}
	if !setup {
		return nil
	}

	var token string
	if err := huh.NewInput().
		Title("Telegram Bot Token").
		Description("Get from @BotFather → https://t.me/BotFather").
		Value(&token).
		Run(); err != nil {
		return err
	}

	setEnv(env, "TELEGRAM_BOT_TOKEN", token)
	return nil
}

func setEnv(env map[string]string, key, value string) {
	if value = strings.TrimSpace(value); value != "" {
		env[key] = value
	}
}

// writeEnv writes known keys in a stable order and skips empty values.
func writeEnv(w io.Writer, env map[string]string) error {
	for _, key := range envOrder {
		if val, ok := env[key]; ok && val != "" {
			if _, err := fmt.Fprintf(w, "%s=%s\n", key, val); err != nil {
				return err
			}
		}
	}
	return nil
}

func printNextSteps() {
	fmt.Println()
	fmt.Println(titleStyle.Render("Next steps:"))
	fmt.Println("  1. Add Roboto-Bold.ttf and Roboto-Regular.ttf to: fonts/")
	fmt.Println("  2. Add ai.png and swipe.png (optional) to: icons/")
	fmt.Println("  3. Add template.png for the list variant to: assets/")
	fmt.Println("  4. Run: carousel generate -t \"5 Tips for Productivity\"")
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func commandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

func runSetupCmd(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %s", err, stderr.String())
	}
	return nil
}

func runWithSpinner(title string, fn func() error) error {
	var err error
	_ = spinner.New().
		Title(title).
		Action(func() { err = fn() }).
		Run()
	if err != nil {
		return err
	}
	fmt.Println(successStyle.Render("✓ " + title))
	return nil
}
