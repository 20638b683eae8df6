package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"fhfa-go/server/internal/config"
	logger "fhfa-go/server/internal/logging"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	projectRoot string
	log         *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "fhfa",
	Short: "Fusion hierarchy functional assessment",
	Long: `fhfa gathers a subject's difficult thoughts, times validating and
challenging probes for each one, ranks them by cognitive fusion and
assembles a clinical report.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(filepath.Join(projectRoot, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load .env: %w", err)
		}
		if err := config.Init(projectRoot); err != nil {
			return err
		}
		var err error
		log, err = logger.Init(projectRoot, config.Conf.Logging)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&projectRoot, "root", "..", "project root holding config/ and logs/")
	rootCmd.AddCommand(serveCmd, assessCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
