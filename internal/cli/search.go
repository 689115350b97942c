package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ladle-sh/ladle/internal/search"
)

var searchFlags struct {
	cuisines     []string
	difficulties []string
	tags         []string
	maxPrepTime  int
	maxCookTime  int
	servings     int
	publicOnly   bool
	privateOnly  bool
	sortBy       string
	sortOrder    string
	limit        int
	offset       int
	jsonOut      bool
}

var searchCmd = &cobra.Command{
	Use:     "search [query]",
	Aliases: []string{"s"},
	Short:   "Search recipes (alias: s)",
	Long: `Search recipes with full-text matching and filters.

The query matches titles, descriptions, and cuisines first; when nothing
matches there it falls back to ingredients, instructions, and notes.
An empty query lists everything matching the filters.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	flags := searchCmd.Flags()
	flags.StringSliceVar(&searchFlags.cuisines, "cuisine", nil, "filter by cuisine (repeatable)")
	flags.StringSliceVar(&searchFlags.difficulties, "difficulty", nil, "filter by difficulty: easy, medium, hard (repeatable)")
	flags.StringSliceVarP(&searchFlags.tags, "tag", "t", nil, "filter by tag, recipe must have all (repeatable)")
	flags.IntVar(&searchFlags.maxPrepTime, "max-prep", 0, "maximum prep time in minutes")
	flags.IntVar(&searchFlags.maxCookTime, "max-cook", 0, "maximum cook time in minutes")
	flags.IntVar(&searchFlags.servings, "servings", 0, "exact number of servings")
	flags.BoolVar(&searchFlags.publicOnly, "public", false, "only public recipes")
	flags.BoolVar(&searchFlags.privateOnly, "private", false, "only your private recipes")
	flags.StringVar(&searchFlags.sortBy, "sort", "relevance", "sort key: relevance, title, created_at, updated_at, prep_time, cook_time, servings")
	flags.StringVar(&searchFlags.sortOrder, "order", "asc", "sort direction: asc or desc")
	flags.IntVarP(&searchFlags.limit, "limit", "n", 20, "maximum results")
	flags.IntVar(&searchFlags.offset, "offset", 0, "results to skip")
	flags.BoolVar(&searchFlags.jsonOut, "json", false, "output JSON")
}

func runSearch(cmd *cobra.Command, args []string) error {
	_, database, err := openDatabase()
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	user, err := currentUser(database)
	if err != nil {
		return fmt.Errorf("resolve user: %w", err)
	}

	params := search.Params{
		Cuisines:     searchFlags.cuisines,
		Difficulties: searchFlags.difficulties,
		Tags:         searchFlags.tags,
		SortBy:       searchFlags.sortBy,
		SortOrder:    searchFlags.sortOrder,
		Limit:        searchFlags.limit,
		Offset:       searchFlags.offset,
	}
	if len(args) == 1 {
		params.Query = args[0]
	}
	if searchFlags.maxPrepTime > 0 {
		params.MaxPrepTime = &searchFlags.maxPrepTime
	}
	if searchFlags.maxCookTime > 0 {
		params.MaxCookTime = &searchFlags.maxCookTime
	}
	if searchFlags.servings > 0 {
		params.Servings = &searchFlags.servings
	}
	if searchFlags.publicOnly {
		t := true
		params.IsPublic = &t
	} else if searchFlags.privateOnly {
		f := false
		params.IsPublic = &f
	}

	svc := search.New(database, search.DefaultConfig())
	result, err := svc.Search(cmd.Context(), user.ID, params)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	telemetryClient.TrackSearchExecuted(
		int(result.Total),
		result.Strategy,
		result.Strategy == search.StrategyFallback,
		result.Duration.Milliseconds(),
	)

	if searchFlags.jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	printSearchResults(result, searchFlags.offset)
	return nil
}

// printSearchResults renders a result page as a table.
func printSearchResults(result *search.Result, offset int) {
	if len(result.Recipes) == 0 {
		fmt.Println("No recipes found.")
		return
	}

	titleWidth := len("TITLE")
	for _, r := range result.Recipes {
		if len(r.Title) > titleWidth {
			titleWidth = len(r.Title)
		}
	}
	if titleWidth > 48 {
		titleWidth = 48
	}

	fmt.Printf("%-*s  %-12s  %-8s  %s\n", titleWidth, "TITLE", "CUISINE", "TIME", "TAGS")
	fmt.Println(strings.Repeat("-", titleWidth+2+12+2+8+2+20))

	for _, r := range result.Recipes {
		title := r.Title
		if len(title) > titleWidth {
			title = title[:titleWidth-1] + "…"
		}

		total := r.PrepTimeMinutes + r.CookTimeMinutes
		timeStr := "-"
		if total > 0 {
			timeStr = fmt.Sprintf("%dm", total)
		}

		tags := make([]string, 0, len(r.Tags))
		for _, t := range r.Tags {
			tags = append(tags, t.Name)
		}

		fmt.Printf("%-*s  %-12s  %-8s  %s\n", titleWidth, title, r.Cuisine, timeStr, strings.Join(tags, ", "))
	}

	shown := offset + len(result.Recipes)
	fmt.Printf("\n%d of %d recipes", shown, result.Total)
	if result.HasMore {
		fmt.Printf(" (use --offset %d for more)", shown)
	}
	fmt.Println()
}
