package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var openCmd = &cobra.Command{
	Use:   "open",
	Short: "Open the home page in your browser",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		database, store, err := openHistory(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		nav, err := newSystemNavigator(cfg, store, logger)
		if err != nil {
			return err
		}
		if err := nav.OpenHome(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Opened %s\n", nav.HomeURL())
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Open web search results in your browser",
	Long:  `Joins the arguments into one query and opens the configured search engine's results for it.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		database, store, err := openHistory(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		nav, err := newSystemNavigator(cfg, store, logger)
		if err != nil {
			return err
		}

		query := strings.Join(args, " ")
		if err := nav.Search(cmd.Context(), query); err != nil {
			return err
		}
		dest, _ := nav.SearchURL(query)
		fmt.Fprintf(cmd.OutOrStdout(), "Opened %s\n", dest)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(searchCmd)
}
