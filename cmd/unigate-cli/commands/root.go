package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "unigate-cli",
	Short: "unigate-cli is a CLI for scraping and validating portal scraping.",
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func fatal(message string, err error) {
	slog.Error(message, "err", err.Error())
	os.Exit(1)
}
