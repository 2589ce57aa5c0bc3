// Command storyctl is the operator CLI: schema migrations, offline PDF
// export and development session tokens.
package main

import (
	"fmt"
	"os"
	"time"

	"bedtime-server/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	dsnFlag     string
	secretsFlag string
	rootCmd     = &cobra.Command{
		Use:           "storyctl",
		Short:         "Operator tooling for the bedtime story backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func main() {
	initLogger()

	rootCmd.PersistentFlags().StringVar(&dsnFlag, "dsn", os.Getenv("DATABASE_URL"), "PostgreSQL DSN (defaults to the server configuration)")
	rootCmd.PersistentFlags().StringVar(&secretsFlag, "secrets-dir", envOr("SECRETS_DIR", "/run/secrets"), "Directory with secret files")

	rootCmd.AddCommand(newMigrateCmd(), newExportCmd(), newTokenCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("storyctl failed")
		os.Exit(1)
	}
}

func initLogger() {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()

	logLevel := zerolog.InfoLevel
	if lvl, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil && lvl != zerolog.NoLevel {
		logLevel = lvl
	}
	zerolog.SetGlobalLevel(logLevel)
}

// resolveDSN prefers --dsn and otherwise builds the DSN the server would use.
func resolveDSN() (string, error) {
	if dsnFlag != "" {
		return dsnFlag, nil
	}
	cfg, err := config.LoadConfig(".env")
	if err != nil {
		return "", fmt.Errorf("no --dsn given and server configuration failed to load: %w", err)
	}
	return cfg.PostgresDSN(), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
