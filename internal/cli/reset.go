package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var resetForce bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all recipes and rebuild the search index",
	Long: `Delete all recipes and rebuild the search index.

Removes every recipe, ingredient, instruction, image, note, tag, and
search-history entry, then recreates the index empty. User accounts are
kept. This cannot be undone.`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

func init() {
	resetCmd.Flags().BoolVarP(&resetForce, "force", "f", false, "skip confirmation")
}

func runReset(cmd *cobra.Command, args []string) error {
	if !resetForce {
		fmt.Print("This deletes ALL recipe data. Type 'yes' to continue: ")
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if strings.TrimSpace(answer) != "yes" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	_, database, err := openDatabase()
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	if err := database.Reset(); err != nil {
		return fmt.Errorf("reset: %w", err)
	}

	fmt.Println("Database reset. Search index rebuilt empty.")
	return nil
}
