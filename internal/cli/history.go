package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"h"},
	Short:   "Show your recent searches (alias: h)",
	Args:    cobra.NoArgs,
	RunE:    runHistory,
}

var historyRmCmd = &cobra.Command{
	Use:   "rm <query>",
	Short: "Remove one entry from your search history",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runHistoryRm,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear your entire search history",
	Args:  cobra.NoArgs,
	RunE:  runHistoryClear,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum entries to show")
	historyCmd.AddCommand(historyRmCmd)
	historyCmd.AddCommand(historyClearCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	_, database, err := openDatabase()
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	user, err := currentUser(database)
	if err != nil {
		return fmt.Errorf("resolve user: %w", err)
	}

	entries, err := database.ListSearchHistory(user.ID, historyLimit)
	if err != nil {
		return fmt.Errorf("list history: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("No search history.")
		return nil
	}

	queryWidth := len("QUERY")
	for _, e := range entries {
		if len(e.Query) > queryWidth {
			queryWidth = len(e.Query)
		}
	}

	fmt.Printf("%-*s  %7s  %7s  %s\n", queryWidth, "QUERY", "RUNS", "RESULTS", "LAST SEARCHED")
	fmt.Println(strings.Repeat("-", queryWidth+2+7+2+7+2+19))
	for _, e := range entries {
		fmt.Printf("%-*s  %7d  %7d  %s\n",
			queryWidth, e.Query, e.RunCount, e.ResultsCount,
			e.LastSearchedAt.Format("2006-01-02 15:04:05"))
	}

	return nil
}

func runHistoryRm(cmd *cobra.Command, args []string) error {
	_, database, err := openDatabase()
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	user, err := currentUser(database)
	if err != nil {
		return fmt.Errorf("resolve user: %w", err)
	}

	query := strings.Join(args, " ")
	if err := database.DeleteSearchHistory(user.ID, query); err != nil {
		return fmt.Errorf("delete history entry: %w", err)
	}

	fmt.Printf("Removed %q from history.\n", query)
	return nil
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	_, database, err := openDatabase()
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	user, err := currentUser(database)
	if err != nil {
		return fmt.Errorf("resolve user: %w", err)
	}

	if err := database.ClearSearchHistory(user.ID); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}

	fmt.Println("Search history cleared.")
	return nil
}
