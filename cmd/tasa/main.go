// Command tasa keeps per-project caches of ARVA page content synchronized
// with the remote content API across the dev, test and prod environments.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tasa-sync/tasa/internal/config"
)

var (
	cfg    *config.Config
	logger *zap.Logger

	flagDataDir  string
	flagInsecure bool
	flagLogFile  string
)

var rootCmd = &cobra.Command{
	Use:   "tasa",
	Short: "Sync local project stores with the ARVA content API",
	Long: `tasa keeps a local per-project cache of ARVA page content (articles plus
their related institutions, legal acts, contacts, related pages and services)
synchronized with the remote content API across dev, test and prod.

Run without a subcommand for the interactive menu.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}

		logFile := flagLogFile
		if logFile == "" {
			logFile = cfg.LogFile()
		}
		logger, err = newLogger(logFile)
		if err != nil {
			return fmt.Errorf("failed to set up logging: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runMenu,
}

// dataDir resolves the directory project stores live in, flag over config.
func dataDir() string {
	if flagDataDir != "" {
		return flagDataDir
	}
	return cfg.DataDir()
}

// insecureTLS reports whether certificate verification is disabled for this
// invocation.
func insecureTLS() bool {
	return flagInsecure || !cfg.VerifyTLS()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "directory holding project store files (default from config)")
	rootCmd.PersistentFlags().BoolVar(&flagInsecure, "insecure", false, "skip TLS certificate verification for API calls")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "append structured logs to this rotated file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(copyCmd)
	rootCmd.AddCommand(pullCmd)
	rootCmd.AddCommand(pushCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
