package db

import (
	"testing"

	"github.com/ladle-sh/ladle/internal/models"
)

func TestCreateRecipe_AssignsIDsAndOrder(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db, "alice")

	recipe := &models.Recipe{
		UserID:      user.ID,
		Title:       "Carbonara",
		Description: "Roman pasta",
		Cuisine:     "italian",
		Difficulty:  "EASY",
		Ingredients: []models.RecipeIngredient{
			{Name: "spaghetti", Quantity: 400, Unit: "g"},
			{Name: "guanciale", Quantity: 150, Unit: "g"},
			{Name: "pecorino", Quantity: 50, Unit: "g"},
		},
		Instructions: []models.RecipeInstruction{
			{Text: "Boil the pasta."},
			{Text: "Crisp the guanciale."},
			{Text: "Toss with egg and cheese."},
		},
		Tags: []models.Tag{models.NewTag("pasta"), models.NewTag("Dinner")},
	}

	if err := db.CreateRecipe(recipe); err != nil {
		t.Fatalf("CreateRecipe() error = %v", err)
	}

	if recipe.ID == "" {
		t.Error("recipe ID was not assigned")
	}
	if recipe.Difficulty != models.DifficultyEasy {
		t.Errorf("Difficulty = %q, want normalized %q", recipe.Difficulty, models.DifficultyEasy)
	}

	got, err := db.GetRecipe(recipe.ID)
	if err != nil {
		t.Fatalf("GetRecipe() error = %v", err)
	}
	if got == nil {
		t.Fatal("GetRecipe() returned nil for created recipe")
	}

	if len(got.Ingredients) != 3 {
		t.Fatalf("got %d ingredients, want 3", len(got.Ingredients))
	}
	for i, ing := range got.Ingredients {
		if ing.SortOrder != i {
			t.Errorf("ingredient %d SortOrder = %d, want %d", i, ing.SortOrder, i)
		}
	}

	if len(got.Instructions) != 3 {
		t.Fatalf("got %d instructions, want 3", len(got.Instructions))
	}
	for i, step := range got.Instructions {
		if step.StepNumber != i+1 {
			t.Errorf("instruction %d StepNumber = %d, want %d", i, step.StepNumber, i+1)
		}
	}

	if len(got.Tags) != 2 {
		t.Errorf("got %d tags, want 2", len(got.Tags))
	}
}

func TestGetRecipe_NotFound(t *testing.T) {
	db := testDB(t)

	got, err := db.GetRecipe("nope")
	if err != nil {
		t.Fatalf("GetRecipe() error = %v", err)
	}
	if got != nil {
		t.Errorf("GetRecipe() = %+v, want nil", got)
	}
}

func TestDeleteRecipe_CascadesChildren(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db, "alice")

	recipe := &models.Recipe{
		UserID: user.ID,
		Title:  "Minestrone",
		Ingredients: []models.RecipeIngredient{
			{Name: "beans"},
		},
		Notes: []models.RecipeNote{
			{Content: "Better the next day."},
		},
		Tags: []models.Tag{models.NewTag("soup")},
	}
	if err := db.CreateRecipe(recipe); err != nil {
		t.Fatalf("CreateRecipe() error = %v", err)
	}

	if err := db.DeleteRecipe(recipe.ID); err != nil {
		t.Fatalf("DeleteRecipe() error = %v", err)
	}

	var orphans int64
	if err := db.Raw(`SELECT COUNT(*) FROM recipe_ingredients WHERE recipe_id = ?`, recipe.ID).Scan(&orphans).Error; err != nil {
		t.Fatalf("count ingredients: %v", err)
	}
	if orphans != 0 {
		t.Errorf("ingredients left after delete: %d", orphans)
	}

	if err := db.Raw(`SELECT COUNT(*) FROM recipe_tags WHERE recipe_id = ?`, recipe.ID).Scan(&orphans).Error; err != nil {
		t.Fatalf("count tag links: %v", err)
	}
	if orphans != 0 {
		t.Errorf("tag links left after delete: %d", orphans)
	}
}

func TestGetRecipesByIDs_PreservesInputOrder(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db, "alice")

	a := testRecipe(t, db, user.ID, "Apple Pie")
	b := testRecipe(t, db, user.ID, "Banana Bread")
	c := testRecipe(t, db, user.ID, "Cherry Cake")

	order := []string{c.ID, a.ID, b.ID}
	got, err := db.GetRecipesByIDs(order)
	if err != nil {
		t.Fatalf("GetRecipesByIDs() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d recipes, want 3", len(got))
	}
	for i, id := range order {
		if got[i].ID != id {
			t.Errorf("position %d = %s, want %s", i, got[i].ID, id)
		}
	}
}

func TestGetRecipesByIDs_SkipsMissing(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db, "alice")
	a := testRecipe(t, db, user.ID, "Apple Pie")

	got, err := db.GetRecipesByIDs([]string{a.ID, "missing"})
	if err != nil {
		t.Fatalf("GetRecipesByIDs() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != a.ID {
		t.Errorf("got %d recipes, want only %s", len(got), a.ID)
	}
}

func TestGetRecipesByIDs_Empty(t *testing.T) {
	db := testDB(t)

	got, err := db.GetRecipesByIDs(nil)
	if err != nil {
		t.Fatalf("GetRecipesByIDs(nil) error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d recipes, want 0", len(got))
	}
}

func TestGetRecipeByTitle(t *testing.T) {
	db := testDB(t)
	alice := testUser(t, db, "alice")
	bob := testUser(t, db, "bob")
	created := testRecipe(t, db, alice.ID, "Shakshuka")

	got, err := db.GetRecipeByTitle(alice.ID, "Shakshuka")
	if err != nil {
		t.Fatalf("GetRecipeByTitle() error = %v", err)
	}
	if got == nil || got.ID != created.ID {
		t.Errorf("GetRecipeByTitle() = %+v, want id %s", got, created.ID)
	}

	// Titles are scoped per user.
	got, err = db.GetRecipeByTitle(bob.ID, "Shakshuka")
	if err != nil {
		t.Fatalf("GetRecipeByTitle() error = %v", err)
	}
	if got != nil {
		t.Errorf("other user's title lookup = %+v, want nil", got)
	}
}
