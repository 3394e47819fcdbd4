package commands

import (
	"encoding/json"
	"os"

	"unigate-backend/lib/scrapers/unisis"

	"github.com/spf13/cobra"
)

var menuFile *string
var menuBaseURL *string

func init() {
	menuFile = menuCmd.Flags().String("file", "", "Parse a saved menu page instead of fetching one.")
	menuBaseURL = menuCmd.Flags().String("base-url", "", "Portal base URL to fetch the weekly menu from.")
	rootCmd.AddCommand(menuCmd)
}

var menuCmd = &cobra.Command{
	Use:   "menu [--base-url <url> | --file <path/to/page.html>]",
	Short: "Fetches and parses the weekly cafeteria menu, printing the snapshot as JSON.",
	Run: func(cmd *cobra.Command, args []string) {
		var page string
		switch {
		case *menuFile != "":
			data, err := os.ReadFile(*menuFile)
			if err != nil {
				fatal("failed to read menu page", err)
			}
			page = string(data)
		case *menuBaseURL != "":
			client, err := unisis.NewClient(unisis.ClientOptions{BaseURL: *menuBaseURL})
			if err != nil {
				fatal("failed to create portal client", err)
			}
			page, err = client.FetchWeeklyMenu(cmd.Context())
			if err != nil {
				fatal("failed to fetch weekly menu", err)
			}
		default:
			fatal("either --base-url or --file is required", os.ErrInvalid)
		}

		snapshot, err := unisis.ParseWeeklyMenu(page)
		if err != nil {
			fatal("failed to parse weekly menu", err)
		}

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		err = encoder.Encode(snapshot)
		if err != nil {
			fatal("failed to encode snapshot", err)
		}
	},
}
