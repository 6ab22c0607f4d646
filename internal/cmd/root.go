// Package cmd holds the papelbot command tree.
package cmd

import (
	"fmt"
	"os"

	"ia-papeleria/internal/app"
	"ia-papeleria/internal/config"
	"ia-papeleria/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	configDir string
	cfg       *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "papelbot",
	Short: "PapelBot - inventory-aware assistant for Papelería Andes",
	Long: `PapelBot answers customer and staff messages about the shop's catalog,
records sales typed in chat ("vendi 3 cuadernos"), forecasts demand and
falls back to an LLM provider for open questions.

Run "papelbot serve" for the HTTP API and webhook, or use the other
commands against the same database from a terminal.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil {
			// plain environment is fine
			log.Debug().Msg(".env file not found")
		}

		var paths []string
		if configDir != "" {
			paths = []string{configDir}
		}
		loaded, err := config.Load(paths...)
		if err != nil {
			return err
		}
		cfg = loaded
		logger.Init(cfg.Log.Level, cfg.Log.Pretty)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Directory holding config.yaml (default ./ and ./deploy/)")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// ExecuteServe runs the server directly, for the api binary.
func ExecuteServe() {
	rootCmd.SetArgs(append([]string{"serve"}, os.Args[1:]...))
	Execute()
}

// openApp connects to the database and builds every layer for one-shot commands.
func openApp() (*app.App, error) {
	db, err := app.Open(cfg)
	if err != nil {
		return nil, err
	}
	return app.New(cfg, db)
}
