// Command gumshoe is a terminal murder-mystery interrogation game. The play
// command generates a case and drops into the questioning shell; the stats
// command reports on the archive of finished games.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/myrjola/gumshoe/internal/envstruct"
	"github.com/myrjola/gumshoe/internal/errors"
	"github.com/myrjola/gumshoe/internal/logging"
)

type config struct {
	DatabasePath string `env:"GUMSHOE_DB" envDefault:"./gumshoe.sqlite"`
	OpenAIKey    string `env:"OPENAI_API_KEY" envDefault:""`
}

var verbose bool

func init() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(statsCmd)
}

var rootCmd = &cobra.Command{
	Use:  "gumshoe",
	Long: `A parlour murder mystery played from the terminal. Question the suspects, catch their contradictions, and name the killer.`,
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: verbose,
	})
	return slog.New(logging.NewContextHandler(handler))
}

func loadConfig(cfg any) error {
	if err := envstruct.Populate(cfg, os.LookupEnv); err != nil {
		return errors.Wrap(err, "load configuration from environment")
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
