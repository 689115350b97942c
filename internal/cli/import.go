package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ladle-sh/ladle/internal/importer"
)

var importCmd = &cobra.Command{
	Use:   "import <path-or-git-url>",
	Short: "Import markdown recipes from a directory, file, or git repository",
	Long: `Import markdown recipes.

The argument can be a single .md file, a directory tree, or a git clone
URL (https:// or git@). Re-importing a recipe with the same title updates
it in place instead of creating a duplicate.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, database, err := openDatabase()
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	user, err := currentUser(database)
	if err != nil {
		return fmt.Errorf("resolve user: %w", err)
	}

	im := importer.New(database, cfg.Import.CloneDir)
	source := args[0]

	var summary *importer.Summary
	switch {
	case isGitURL(source):
		fmt.Printf("Cloning %s...\n", source)
		summary, err = im.ImportGit(cmd.Context(), user.ID, source)
	default:
		info, statErr := os.Stat(source)
		if statErr != nil {
			return fmt.Errorf("stat %s: %w", source, statErr)
		}
		if info.IsDir() {
			summary, err = im.ImportDir(cmd.Context(), user.ID, source)
		} else {
			created, fileErr := im.ImportFile(user.ID, source)
			if fileErr != nil {
				return fileErr
			}
			summary = &importer.Summary{}
			if created {
				summary.Imported = 1
			} else {
				summary.Updated = 1
			}
		}
	}
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	telemetryClient.TrackRecipesImported(sourceKind(source), summary.Imported, summary.Updated, summary.Failed)

	fmt.Printf("Imported %d, updated %d, skipped %d, failed %d\n",
		summary.Imported, summary.Updated, summary.Skipped, summary.Failed)
	return nil
}

func isGitURL(source string) bool {
	return strings.HasPrefix(source, "https://") ||
		strings.HasPrefix(source, "http://") ||
		strings.HasPrefix(source, "git@") ||
		strings.HasSuffix(source, ".git")
}

func sourceKind(source string) string {
	if isGitURL(source) {
		return "git"
	}
	return "local"
}
