package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/pixlet/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "pixlet",
	Short: "A tiny start page that greets you and sends searches to the web",
	Long: `Pixlet serves a small start page with a greeting, a button that opens
the Pixlet home page and a search box that opens web results in a new tab.
Every destination it opens is remembered locally and used to suggest
searches. Pixlet also exposes its actions to AI agents via MCP.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
