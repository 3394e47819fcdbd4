package commands

import (
	"log/slog"

	"unigate-backend/lib/configutil"
	"unigate-backend/lib/scrapers/unisis"

	"github.com/spf13/cobra"
)

type loginConfig struct {
	BaseURL  string `json:"base_url"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func init() {
	rootCmd.AddCommand(loginCmd)
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Validates portal credentials from config.json5 against the live login form.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := configutil.ReadConfig[loginConfig]("config.json5")
		if err != nil {
			fatal("failed to read config", err)
		}

		client, err := unisis.NewClient(unisis.ClientOptions{BaseURL: cfg.BaseURL})
		if err != nil {
			fatal("failed to create portal client", err)
		}

		result, err := client.Login(cmd.Context(), cfg.Username, cfg.Password)
		if err != nil {
			fatal("failed to reach the login form", err)
		}

		if result.Redirected() && !result.Cookies.Empty() {
			slog.Info("login accepted", "cookies", len(result.Cookies))
			return
		}
		slog.Error("login rejected", "status", result.StatusCode, "cookies", len(result.Cookies))
	},
}
