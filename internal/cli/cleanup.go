package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove orphaned rows and unused tags",
	Args:  cobra.NoArgs,
	RunE:  runCleanup,
}

func runCleanup(cmd *cobra.Command, args []string) error {
	_, database, err := openDatabase()
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	report, err := database.CleanupOrphans()
	if err != nil {
		return fmt.Errorf("cleanup: %w", err)
	}

	removedTags, err := database.DeleteUnusedTags()
	if err != nil {
		return fmt.Errorf("delete unused tags: %w", err)
	}

	if report.Total() == 0 && removedTags == 0 {
		fmt.Println("Nothing to clean up.")
		return nil
	}

	fmt.Printf("Removed %d orphaned rows and %d unused tags.\n", report.Total(), removedTags)
	return nil
}
