package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"

	"carousel/internal/app"
	"carousel/internal/carousel"
	"carousel/pkg/config"
)

var (
	generateHint    string
	generateVariant string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a single slide deck",
	Long: `Generate one slide deck from a topic hint. Without --hint an interactive
prompt asks for one.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateHint, "hint", "t", "", "Topic hint, e.g. \"5 Tips for Productivity\"")
	generateCmd.Flags().StringVar(&generateVariant, "variant", "", "Deck variant: carousel or list (default from config.yaml)")
	rootCmd.AddCommand(generateCmd)
}

func validateHint(hint string) error {
	if _, err := carousel.CleanHint(hint); err != nil {
		return fmt.Errorf("please enter a topic: %w", err)
	}
	return nil
}

func parseVariant(value, fallback string) (carousel.Variant, error) {
	if value == "" {
		value = fallback
	}
	variant := carousel.Variant(value)
	if !variant.Valid() {
		return "", fmt.Errorf("%w: unknown variant %q (want carousel or list)", carousel.ErrConfiguration, value)
	}
	return variant, nil
}

func promptHint() (string, error) {
	var hint string
	err := huh.NewInput().
		Title("What should the carousel be about?").
		Placeholder("5 Tips for Productivity").
		Value(&hint).
		Validate(validateHint).
		Run()
	return hint, err
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	hint := generateHint
	if hint == "" {
		var err error
		if hint, err = promptHint(); err != nil {
			return err
		}
	}
	hint, err := carousel.CleanHint(hint)
	if err != nil {
		return fmt.Errorf("please provide --hint: %w", err)
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	variant, err := parseVariant(generateVariant, cfg.Content.Variant)
	if err != nil {
		return err
	}

	service, err := app.BuildService(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = service.Close() }()

	pipeline := app.NewPipeline(service)

	result, err := runPipeline(ctx, pipeline, hint, variant)
	if err != nil {
		return err
	}

	printResult(result)
	return nil
}

// runPipeline shows a spinner unless debug logging would garble it.
func runPipeline(ctx context.Context, pipeline *app.Pipeline, hint string, variant carousel.Variant) (*app.GenerateResult, error) {
	if verbose {
		return pipeline.GenerateVariant(ctx, hint, variant)
	}

	var (
		result *app.GenerateResult
		err    error
	)
	if spinErr := spinner.New().
		Title(fmt.Sprintf("Generating %s for %q...", variant, hint)).
		Action(func() { result, err = pipeline.GenerateVariant(ctx, hint, variant) }).
		Run(); spinErr != nil {
		return nil, spinErr
	}
	return result, err
}

func printResult(result *app.GenerateResult) {
	fmt.Println(successStyle.Render("✓ " + result.Title))
	fmt.Println(infoStyle.Render(fmt.Sprintf("  %d slides in %s", len(result.SlidePaths), result.OutputDir)))
	if result.DocumentPath != "" {
		fmt.Println(infoStyle.Render("  Document: " + result.DocumentPath))
	}
	for _, uri := range result.RemoteURIs {
		fmt.Println(infoStyle.Render("  Uploaded: " + uri))
	}
}
