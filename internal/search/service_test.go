package search

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ladle-sh/ladle/internal/db"
	"github.com/ladle-sh/ladle/internal/models"
)

func newTestService(t *testing.T) (*Service, *db.DB) {
	t.Helper()

	database, err := db.New(db.DefaultConfig(filepath.Join(t.TempDir(), "test.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	return New(database, DefaultConfig()), database
}

func seedUser(t *testing.T, database *db.DB, username string) *models.User {
	t.Helper()
	user, err := database.EnsureUser(username)
	require.NoError(t, err)
	return user
}

func seedRecipe(t *testing.T, database *db.DB, recipe *models.Recipe) *models.Recipe {
	t.Helper()
	require.NoError(t, database.CreateRecipe(recipe))
	return recipe
}

func TestSearch_RequiresUser(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Search(context.Background(), "", Params{Query: "anything"})
	assert.ErrorIs(t, err, ErrNoUser)
}

func TestSearch_CancelledContext(t *testing.T) {
	svc, database := newTestService(t)
	user := seedUser(t, database, "alice")
	seedRecipe(t, database, &models.Recipe{UserID: user.ID, Title: "Plain Rice"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Search(ctx, user.ID, Params{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSearch_PhraseMatch(t *testing.T) {
	svc, database := newTestService(t)
	user := seedUser(t, database, "alice")

	want := seedRecipe(t, database, &models.Recipe{
		UserID: user.ID, Title: "Chicken Tikka Masala", Cuisine: "indian",
	})
	seedRecipe(t, database, &models.Recipe{
		UserID: user.ID, Title: "Chicken Soup",
	})

	result, err := svc.Search(context.Background(), user.ID, Params{Query: "chicken tikka masala"})
	require.NoError(t, err)

	require.Len(t, result.Recipes, 1)
	assert.Equal(t, want.ID, result.Recipes[0].ID)
	assert.Equal(t, StrategyPhrase, result.Strategy)
	assert.EqualValues(t, 1, result.Total)
}

func TestSearch_AnyTermWidensWhenPhraseMisses(t *testing.T) {
	svc, database := newTestService(t)
	user := seedUser(t, database, "alice")

	seedRecipe(t, database, &models.Recipe{UserID: user.ID, Title: "Beef Rendang"})
	seedRecipe(t, database, &models.Recipe{UserID: user.ID, Title: "Mushroom Stroganoff"})

	// No recipe contains both words; the cascade lands on any-term OR.
	result, err := svc.Search(context.Background(), user.ID, Params{Query: "rendang stroganoff"})
	require.NoError(t, err)

	assert.EqualValues(t, 2, result.Total)
	assert.Equal(t, StrategyAnyTerm, result.Strategy)
}

func TestSearch_FallbackReachesIngredients(t *testing.T) {
	svc, database := newTestService(t)
	user := seedUser(t, database, "alice")

	want := seedRecipe(t, database, &models.Recipe{
		UserID: user.ID,
		Title:  "Weeknight Dinner",
		Ingredients: []models.RecipeIngredient{
			{Name: "pasta", Quantity: 200, Unit: "g"},
		},
	})

	// "pasta" appears only in an ingredient, which the index doesn't
	// cover; the fallback substring pass finds it.
	result, err := svc.Search(context.Background(), user.ID, Params{Query: "pasta"})
	require.NoError(t, err)

	require.Len(t, result.Recipes, 1)
	assert.Equal(t, want.ID, result.Recipes[0].ID)
	assert.Equal(t, StrategyFallback, result.Strategy)
}

func TestSearch_SymbolOnlyQueryDoesNotError(t *testing.T) {
	svc, database := newTestService(t)
	user := seedUser(t, database, "alice")
	seedRecipe(t, database, &models.Recipe{UserID: user.ID, Title: "Plain Rice"})

	result, err := svc.Search(context.Background(), user.ID, Params{Query: "???"})
	require.NoError(t, err)

	assert.EqualValues(t, 0, result.Total)
	assert.Empty(t, result.Recipes)
	assert.Equal(t, StrategyFallback, result.Strategy)
}

func TestSearch_WildcardQueryIsLiteral(t *testing.T) {
	svc, database := newTestService(t)
	user := seedUser(t, database, "alice")
	seedRecipe(t, database, &models.Recipe{UserID: user.ID, Title: "Plain Rice"})
	rye := seedRecipe(t, database, &models.Recipe{UserID: user.ID, Title: "100% Rye Bread"})

	// % and _ sanitize to nothing and reach the substring fallback, where
	// they must match the literal character instead of acting as wildcards.
	result, err := svc.Search(context.Background(), user.ID, Params{Query: "%"})
	require.NoError(t, err)
	require.Len(t, result.Recipes, 1)
	assert.Equal(t, rye.ID, result.Recipes[0].ID)
	assert.EqualValues(t, 1, result.Total)

	result, err = svc.Search(context.Background(), user.ID, Params{Query: "_"})
	require.NoError(t, err)
	assert.EqualValues(t, 0, result.Total)
	assert.Empty(t, result.Recipes)
}

func TestSearch_EmptyQueryListsEverythingVisible(t *testing.T) {
	svc, database := newTestService(t)
	user := seedUser(t, database, "alice")
	seedRecipe(t, database, &models.Recipe{UserID: user.ID, Title: "One"})
	seedRecipe(t, database, &models.Recipe{UserID: user.ID, Title: "Two"})

	result, err := svc.Search(context.Background(), user.ID, Params{})
	require.NoError(t, err)

	assert.EqualValues(t, 2, result.Total)
	assert.Empty(t, result.Strategy)
}

func TestSearch_VisibilityOwnerAndPublic(t *testing.T) {
	svc, database := newTestService(t)
	alice := seedUser(t, database, "alice")
	bob := seedUser(t, database, "bob")

	seedRecipe(t, database, &models.Recipe{
		UserID: bob.ID, Title: "Chicken Tikka Masala", IsPublic: false,
	})

	// Owner finds their private recipe.
	result, err := svc.Search(context.Background(), bob.ID, Params{Query: "tikka"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, result.Total)

	// Another user does not.
	result, err = svc.Search(context.Background(), alice.ID, Params{Query: "tikka"})
	require.NoError(t, err)
	assert.EqualValues(t, 0, result.Total)

	// Making it public flips that.
	recipe, err := database.GetRecipeByTitle(bob.ID, "Chicken Tikka Masala")
	require.NoError(t, err)
	recipe.IsPublic = true
	require.NoError(t, database.UpdateRecipe(recipe))

	result, err = svc.Search(context.Background(), alice.ID, Params{Query: "tikka"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, result.Total)
}

func TestSearch_PrivateFilterNeverLeaksOthers(t *testing.T) {
	svc, database := newTestService(t)
	alice := seedUser(t, database, "alice")
	bob := seedUser(t, database, "bob")

	seedRecipe(t, database, &models.Recipe{UserID: alice.ID, Title: "My Secret Sauce", IsPublic: false})
	seedRecipe(t, database, &models.Recipe{UserID: bob.ID, Title: "Bob Secret Brine", IsPublic: false})

	private := false
	result, err := svc.Search(context.Background(), alice.ID, Params{IsPublic: &private})
	require.NoError(t, err)

	require.Len(t, result.Recipes, 1)
	assert.Equal(t, "My Secret Sauce", result.Recipes[0].Title)
}

func TestSearch_ExcludesArchived(t *testing.T) {
	svc, database := newTestService(t)
	user := seedUser(t, database, "alice")

	recipe := seedRecipe(t, database, &models.Recipe{UserID: user.ID, Title: "Retired Roast"})
	require.NoError(t, database.SetArchived(recipe.ID, true))

	result, err := svc.Search(context.Background(), user.ID, Params{Query: "roast"})
	require.NoError(t, err)
	assert.EqualValues(t, 0, result.Total)
}

func TestSearch_TagIntersection(t *testing.T) {
	svc, database := newTestService(t)
	user := seedUser(t, database, "alice")

	both := seedRecipe(t, database, &models.Recipe{
		UserID: user.ID, Title: "Green Curry",
		Tags: []models.Tag{models.NewTag("quick"), models.NewTag("vegan")},
	})
	seedRecipe(t, database, &models.Recipe{
		UserID: user.ID, Title: "Omelette",
		Tags: []models.Tag{models.NewTag("quick")},
	})

	result, err := svc.Search(context.Background(), user.ID, Params{Tags: []string{"quick", "vegan"}})
	require.NoError(t, err)

	require.Len(t, result.Recipes, 1)
	assert.Equal(t, both.ID, result.Recipes[0].ID)
}

func TestSearch_TagMissShortCircuitsButKeepsFacets(t *testing.T) {
	svc, database := newTestService(t)
	user := seedUser(t, database, "alice")

	seedRecipe(t, database, &models.Recipe{
		UserID: user.ID, Title: "Pho", Cuisine: "vietnamese",
		Tags: []models.Tag{models.NewTag("soup")},
	})

	result, err := svc.Search(context.Background(), user.ID, Params{
		Query: "pho",
		Tags:  []string{"nonexistent"},
	})
	require.NoError(t, err)

	assert.EqualValues(t, 0, result.Total)
	assert.Empty(t, result.Recipes)
	assert.False(t, result.HasMore)
	// Facets still describe the visible corpus.
	assert.Equal(t, []string{"vietnamese"}, result.Filters.Cuisines)

	// And the query still lands in history.
	entries, err := database.ListSearchHistory(user.ID, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "pho", entries[0].Query)
	assert.Equal(t, 0, entries[0].ResultsCount)
}

func TestSearch_StructuredFilters(t *testing.T) {
	svc, database := newTestService(t)
	user := seedUser(t, database, "alice")

	seedRecipe(t, database, &models.Recipe{
		UserID: user.ID, Title: "Quick Stir Fry", Cuisine: "chinese",
		Difficulty: models.DifficultyEasy, PrepTimeMinutes: 10, CookTimeMinutes: 10, Servings: 2,
	})
	seedRecipe(t, database, &models.Recipe{
		UserID: user.ID, Title: "Slow Braise", Cuisine: "french",
		Difficulty: models.DifficultyHard, PrepTimeMinutes: 30, CookTimeMinutes: 180, Servings: 6,
	})

	maxPrep := 15
	result, err := svc.Search(context.Background(), user.ID, Params{
		Cuisines:     []string{"chinese"},
		Difficulties: []string{models.DifficultyEasy},
		MaxPrepTime:  &maxPrep,
	})
	require.NoError(t, err)

	require.Len(t, result.Recipes, 1)
	assert.Equal(t, "Quick Stir Fry", result.Recipes[0].Title)
}

func TestSearch_PaginationAndHasMore(t *testing.T) {
	svc, database := newTestService(t)
	user := seedUser(t, database, "alice")
	for _, title := range []string{"Alpha", "Beta", "Gamma"} {
		seedRecipe(t, database, &models.Recipe{UserID: user.ID, Title: title})
	}

	result, err := svc.Search(context.Background(), user.ID, Params{
		SortBy: SortTitle, Limit: 2,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 3, result.Total)
	require.Len(t, result.Recipes, 2)
	assert.Equal(t, "Alpha", result.Recipes[0].Title)
	assert.True(t, result.HasMore)

	result, err = svc.Search(context.Background(), user.ID, Params{
		SortBy: SortTitle, Limit: 2, Offset: 2,
	})
	require.NoError(t, err)
	require.Len(t, result.Recipes, 1)
	assert.Equal(t, "Gamma", result.Recipes[0].Title)
	assert.False(t, result.HasMore)
}

func TestSearch_SortDescending(t *testing.T) {
	svc, database := newTestService(t)
	user := seedUser(t, database, "alice")
	seedRecipe(t, database, &models.Recipe{UserID: user.ID, Title: "Fast", PrepTimeMinutes: 5})
	seedRecipe(t, database, &models.Recipe{UserID: user.ID, Title: "Slow", PrepTimeMinutes: 60})

	result, err := svc.Search(context.Background(), user.ID, Params{
		SortBy: SortPrepTime, SortOrder: "desc",
	})
	require.NoError(t, err)
	require.Len(t, result.Recipes, 2)
	assert.Equal(t, "Slow", result.Recipes[0].Title)
}

func TestSearch_LimitClampedToMax(t *testing.T) {
	svc, database := newTestService(t)
	user := seedUser(t, database, "alice")
	seedRecipe(t, database, &models.Recipe{UserID: user.ID, Title: "Solo"})

	result, err := svc.Search(context.Background(), user.ID, Params{Limit: 10000})
	require.NoError(t, err)
	assert.EqualValues(t, 1, result.Total)
}

func TestSearch_Idempotent(t *testing.T) {
	svc, database := newTestService(t)
	user := seedUser(t, database, "alice")
	seedRecipe(t, database, &models.Recipe{UserID: user.ID, Title: "Chili con Carne"})

	first, err := svc.Search(context.Background(), user.ID, Params{Query: "chili"})
	require.NoError(t, err)
	second, err := svc.Search(context.Background(), user.ID, Params{Query: "chili"})
	require.NoError(t, err)

	assert.Equal(t, first.Total, second.Total)
	require.Len(t, second.Recipes, len(first.Recipes))
	for i := range first.Recipes {
		assert.Equal(t, first.Recipes[i].ID, second.Recipes[i].ID)
	}

	// Repeating the search bumps the ledger instead of duplicating it.
	entries, err := database.ListSearchHistory(user.ID, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 2, entries[0].RunCount)
}

func TestSearch_HydratesDetailInOrder(t *testing.T) {
	svc, database := newTestService(t)
	user := seedUser(t, database, "alice")

	seedRecipe(t, database, &models.Recipe{
		UserID: user.ID,
		Title:  "Lasagna",
		Ingredients: []models.RecipeIngredient{
			{Name: "pasta sheets", SortOrder: 0},
			{Name: "ragu", SortOrder: 1},
			{Name: "bechamel", SortOrder: 2},
		},
		Instructions: []models.RecipeInstruction{
			{StepNumber: 1, Text: "Layer."},
			{StepNumber: 2, Text: "Bake."},
		},
		Tags: []models.Tag{models.NewTag("baked")},
	})

	result, err := svc.Search(context.Background(), user.ID, Params{Query: "lasagna"})
	require.NoError(t, err)
	require.Len(t, result.Recipes, 1)

	got := result.Recipes[0]
	require.Len(t, got.Ingredients, 3)
	assert.Equal(t, "pasta sheets", got.Ingredients[0].Name)
	assert.Equal(t, "bechamel", got.Ingredients[2].Name)
	require.Len(t, got.Instructions, 2)
	assert.Equal(t, 1, got.Instructions[0].StepNumber)
	require.Len(t, got.Tags, 1)
}

func TestSearch_FacetsNeverNil(t *testing.T) {
	svc, database := newTestService(t)
	user := seedUser(t, database, "alice")

	result, err := svc.Search(context.Background(), user.ID, Params{Query: "nothing here"})
	require.NoError(t, err)

	assert.NotNil(t, result.Filters.Cuisines)
	assert.NotNil(t, result.Filters.Difficulties)
	assert.NotNil(t, result.Filters.Tags)
	assert.NotNil(t, result.Recipes)
}

func TestListHistory_RequiresUser(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ListHistory("", 10)
	assert.ErrorIs(t, err, ErrNoUser)
	assert.ErrorIs(t, svc.DeleteHistoryEntry("", "x"), ErrNoUser)
	assert.ErrorIs(t, svc.ClearHistory(""), ErrNoUser)
}

func TestResolveOrder(t *testing.T) {
	assert.Equal(t, "", resolveOrder(SortRelevance, "asc"))
	assert.Equal(t, "", resolveOrder("bogus", "asc"))
	assert.Equal(t, "recipes.title ASC", resolveOrder(SortTitle, ""))
	assert.Equal(t, "recipes.created_at DESC", resolveOrder(SortCreatedAt, "DESC"))
}
