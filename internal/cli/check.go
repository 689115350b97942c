package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:     "check",
	Aliases: []string{"ck"},
	Short:   "Audit the database for orphaned rows (alias: ck)",
	Long: `Audit the database for orphaned rows.

Reports child rows pointing at missing recipes and recipes pointing at
missing users. Nothing is modified; run 'ladle cleanup' to purge.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	_, database, err := openDatabase()
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	report, err := database.CheckIntegrity()
	if err != nil {
		return fmt.Errorf("integrity check: %w", err)
	}

	if report.Total() == 0 {
		fmt.Println("Database is clean. No orphaned rows found.")
		return nil
	}

	fmt.Println("Orphaned rows found:")
	printReportLine("ingredients", report.OrphanIngredients)
	printReportLine("instructions", report.OrphanInstructions)
	printReportLine("images", report.OrphanImages)
	printReportLine("notes", report.OrphanNotes)
	printReportLine("tag links", report.OrphanTagLinks)
	printReportLine("recipes without user", report.RecipesWithoutUser)
	fmt.Printf("\n%d total. Run 'ladle cleanup' to remove them.\n", report.Total())

	return nil
}

func printReportLine(name string, count int64) {
	if count > 0 {
		fmt.Printf("  %-22s %d\n", name, count)
	}
}
