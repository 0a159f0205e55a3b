package cmd

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"carousel/internal/storage"
	"carousel/pkg/config"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove generated decks",
	Long:  `Remove every session directory under the configured output directory.`,
	RunE:  runClear,
}

func init() {
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	local := storage.NewLocalStorage(afero.NewOsFs(), cfg.Output.Dir, cfg.Output.JPEGQuality)
	count, err := local.ClearSessions()
	if err != nil {
		return err
	}

	fmt.Printf("Cleared %d deck(s) from %s\n", count, cfg.Output.Dir)
	return nil
}
