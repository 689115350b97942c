package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/ladle-sh/ladle/internal/models"
)

var showFlags struct {
	jsonOut bool
	plain   bool
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a recipe with full details",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showFlags.jsonOut, "json", false, "output JSON")
	showCmd.Flags().BoolVar(&showFlags.plain, "plain", false, "plain markdown without terminal styling")
}

func runShow(cmd *cobra.Command, args []string) error {
	_, database, err := openDatabase()
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	user, err := currentUser(database)
	if err != nil {
		return fmt.Errorf("resolve user: %w", err)
	}

	recipe, err := database.GetRecipe(args[0])
	if err != nil {
		return fmt.Errorf("get recipe: %w", err)
	}
	if recipe == nil || (!recipe.IsPublic && recipe.UserID != user.ID) {
		return fmt.Errorf("recipe not found: %s", args[0])
	}

	if showFlags.jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(recipe)
	}

	markdown := renderRecipeMarkdown(recipe)
	if showFlags.plain {
		fmt.Print(markdown)
		return nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		fmt.Print(markdown)
		return nil
	}

	out, err := renderer.Render(markdown)
	if err != nil {
		fmt.Print(markdown)
		return nil
	}
	fmt.Print(out)
	return nil
}

// renderRecipeMarkdown formats a recipe as a markdown document, the same
// shape the importer accepts.
func renderRecipeMarkdown(recipe *models.Recipe) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", recipe.Title)
	if recipe.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", recipe.Description)
	}

	var facts []string
	if recipe.Cuisine != "" {
		facts = append(facts, "cuisine: "+recipe.Cuisine)
	}
	facts = append(facts, "difficulty: "+recipe.Difficulty)
	if recipe.Servings > 0 {
		facts = append(facts, fmt.Sprintf("serves %d", recipe.Servings))
	}
	if recipe.PrepTimeMinutes > 0 {
		facts = append(facts, fmt.Sprintf("prep %dm", recipe.PrepTimeMinutes))
	}
	if recipe.CookTimeMinutes > 0 {
		facts = append(facts, fmt.Sprintf("cook %dm", recipe.CookTimeMinutes))
	}
	fmt.Fprintf(&b, "*%s*\n\n", strings.Join(facts, " · "))

	if len(recipe.Tags) > 0 {
		names := make([]string, 0, len(recipe.Tags))
		for _, t := range recipe.Tags {
			names = append(names, t.Name)
		}
		fmt.Fprintf(&b, "Tags: %s\n\n", strings.Join(names, ", "))
	}

	if len(recipe.Ingredients) > 0 {
		b.WriteString("## Ingredients\n\n")
		for _, ing := range recipe.Ingredients {
			b.WriteString("- ")
			if ing.Quantity > 0 {
				fmt.Fprintf(&b, "%g ", ing.Quantity)
			}
			if ing.Unit != "" {
				fmt.Fprintf(&b, "%s ", ing.Unit)
			}
			b.WriteString(ing.Name)
			if ing.Notes != "" {
				fmt.Fprintf(&b, " (%s)", ing.Notes)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(recipe.Instructions) > 0 {
		b.WriteString("## Instructions\n\n")
		for _, step := range recipe.Instructions {
			fmt.Fprintf(&b, "%d. %s\n", step.StepNumber, step.Text)
		}
		b.WriteString("\n")
	}

	if len(recipe.Notes) > 0 {
		b.WriteString("## Notes\n\n")
		for _, note := range recipe.Notes {
			fmt.Fprintf(&b, "%s\n\n", note.Content)
		}
	}

	return b.String()
}
