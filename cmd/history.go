package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/pixlet/internal/history"
	"github.com/ziadkadry99/pixlet/internal/util"
)

var (
	historyLimit     int
	historyKind      string
	historyOlderThan time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently opened destinations",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete remembered destinations",
	Long:  `Deletes every remembered destination, or only those older than --older-than.`,
	Args:  cobra.NoArgs,
	RunE:  runHistoryClear,
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	filter := history.ListFilter{Limit: historyLimit, Kind: history.Kind(historyKind)}
	if filter.Kind != "" && !filter.Kind.Valid() {
		return fmt.Errorf("invalid --kind %q: must be home or search", historyKind)
	}

	database, store, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	visits, err := store.List(cmd.Context(), filter)
	if err != nil {
		return fmt.Errorf("listing history: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(visits) == 0 {
		fmt.Fprintln(out, "No history yet. Use `pixlet serve` or `pixlet search` to open something.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tTIME\tKIND\tSTATUS\tQUERY\tURL")
	for _, v := range visits {
		local := v.VisitedAt.Local()
		day, err := util.FormatDate(local)
		if err != nil {
			day = "-"
		}
		query := v.Query
		if query == "" {
			query = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			day, local.Format("15:04"), v.Kind, v.Status, query, v.URL)
	}
	return w.Flush()
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	database, store, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	var n int64
	if historyOlderThan > 0 {
		n, err = store.DeleteBefore(cmd.Context(), time.Now().Add(-historyOlderThan))
	} else {
		n, err = store.Clear(cmd.Context())
	}
	if err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d visit(s)\n", n)
	return nil
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of entries to show")
	historyCmd.Flags().StringVar(&historyKind, "kind", "", "Only show entries of this kind (home or search)")
	historyClearCmd.Flags().DurationVar(&historyOlderThan, "older-than", 0, "Only delete entries older than this (e.g. 720h)")

	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}
