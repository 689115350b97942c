package db

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ladle-sh/ladle/internal/models"
)

// testDB creates a temporary test database.
func testDB(t *testing.T) *DB {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	db, err := New(Config{
		Path:        dbPath,
		Debug:       false,
		MaxIdleConn: 1,
		MaxOpenConn: 1,
	})
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Failed to close test database: %v", err)
		}
	})

	return db
}

// testUser creates a user row for fixtures.
func testUser(t *testing.T, db *DB, username string) *models.User {
	t.Helper()
	user, err := db.EnsureUser(username)
	if err != nil {
		t.Fatalf("EnsureUser(%q) error = %v", username, err)
	}
	return user
}

// testRecipe creates a minimal recipe owned by userID.
func testRecipe(t *testing.T, db *DB, userID, title string) *models.Recipe {
	t.Helper()
	recipe := &models.Recipe{
		UserID: userID,
		Title:  title,
	}
	if err := db.CreateRecipe(recipe); err != nil {
		t.Fatalf("CreateRecipe(%q) error = %v", title, err)
	}
	return recipe
}

func TestNew(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "ladle.db")

	db, err := New(DefaultConfig(dbPath))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			t.Logf("Failed to close database: %v", err)
		}
	}()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created")
	}

	if db.Path() != dbPath {
		t.Errorf("Path() = %v, want %v", db.Path(), dbPath)
	}
}

func TestNew_CreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "dirs", "ladle.db")

	db, err := New(DefaultConfig(dbPath))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	dir := filepath.Dir(dbPath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Error("nested directories were not created")
	}
}

func TestSetupFTS_IndexExists(t *testing.T) {
	db := testDB(t)

	var count int64
	if err := db.Raw(`SELECT COUNT(*) FROM recipes_fts`).Scan(&count).Error; err != nil {
		t.Fatalf("query recipes_fts: %v", err)
	}
	if count != 0 {
		t.Errorf("fresh index has %d rows, want 0", count)
	}
}

func TestFTSTriggers_InsertUpdateDelete(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db, "alice")

	recipe := &models.Recipe{
		UserID:      user.ID,
		Title:       "Chicken Tikka Masala",
		Description: "Creamy tomato curry",
		Cuisine:     "indian",
	}
	if err := db.CreateRecipe(recipe); err != nil {
		t.Fatalf("CreateRecipe() error = %v", err)
	}

	ids, err := db.MatchRecipeIDs(`"tikka"`, 10)
	if err != nil {
		t.Fatalf("MatchRecipeIDs() error = %v", err)
	}
	if len(ids) != 1 || ids[0] != recipe.ID {
		t.Fatalf("after insert, match = %v, want [%s]", ids, recipe.ID)
	}

	// Update must replace the index row, not accumulate.
	recipe.Title = "Paneer Butter Masala"
	if err := db.UpdateRecipe(recipe); err != nil {
		t.Fatalf("UpdateRecipe() error = %v", err)
	}

	ids, err = db.MatchRecipeIDs(`"tikka"`, 10)
	if err != nil {
		t.Fatalf("MatchRecipeIDs() error = %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("after update, stale title still matches: %v", ids)
	}

	ids, err = db.MatchRecipeIDs(`"paneer"`, 10)
	if err != nil {
		t.Fatalf("MatchRecipeIDs() error = %v", err)
	}
	if len(ids) != 1 {
		t.Errorf("after update, new title match = %v, want 1 hit", ids)
	}

	if err := db.DeleteRecipe(recipe.ID); err != nil {
		t.Fatalf("DeleteRecipe() error = %v", err)
	}

	ids, err = db.MatchRecipeIDs(`"paneer"`, 10)
	if err != nil {
		t.Fatalf("MatchRecipeIDs() error = %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("after delete, index still matches: %v", ids)
	}
}

func TestMatchRecipeIDs_ExcludesArchived(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db, "alice")
	recipe := testRecipe(t, db, user.ID, "Sourdough Bread")

	if err := db.SetArchived(recipe.ID, true); err != nil {
		t.Fatalf("SetArchived() error = %v", err)
	}

	ids, err := db.MatchRecipeIDs(`"sourdough"`, 10)
	if err != nil {
		t.Fatalf("MatchRecipeIDs() error = %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("archived recipe still matched: %v", ids)
	}
}

func TestMatchRecipeIDs_MalformedExpression(t *testing.T) {
	db := testDB(t)

	if _, err := db.MatchRecipeIDs(`AND AND`, 10); err == nil {
		t.Error("malformed MATCH expression did not error")
	}
}

func TestReset(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db, "alice")

	recipe := &models.Recipe{
		UserID: user.ID,
		Title:  "Ramen",
		Ingredients: []models.RecipeIngredient{
			{Name: "noodles"},
		},
		Tags: []models.Tag{models.NewTag("japanese")},
	}
	if err := db.CreateRecipe(recipe); err != nil {
		t.Fatalf("CreateRecipe() error = %v", err)
	}
	if err := db.RecordSearch(user.ID, "ramen", 1); err != nil {
		t.Fatalf("RecordSearch() error = %v", err)
	}

	if err := db.Reset(); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}

	stats, err := db.GetStats()
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	if stats.TotalRecipes != 0 {
		t.Errorf("TotalRecipes = %d after reset, want 0", stats.TotalRecipes)
	}
	if stats.TotalTags != 0 {
		t.Errorf("TotalTags = %d after reset, want 0", stats.TotalTags)
	}
	// Users survive a reset.
	if stats.TotalUsers != 1 {
		t.Errorf("TotalUsers = %d after reset, want 1", stats.TotalUsers)
	}

	history, err := db.ListSearchHistory(user.ID, 10)
	if err != nil {
		t.Fatalf("ListSearchHistory() error = %v", err)
	}
	if len(history) != 0 {
		t.Errorf("history has %d entries after reset, want 0", len(history))
	}

	// The index must be usable again after the rebuild.
	fresh := testRecipe(t, db, user.ID, "Udon")
	ids, err := db.MatchRecipeIDs(`"udon"`, 10)
	if err != nil {
		t.Fatalf("MatchRecipeIDs() after reset error = %v", err)
	}
	if len(ids) != 1 || ids[0] != fresh.ID {
		t.Errorf("rebuilt index match = %v, want [%s]", ids, fresh.ID)
	}
}

func TestGetStats(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db, "alice")
	testRecipe(t, db, user.ID, "Pancakes")
	testRecipe(t, db, user.ID, "Waffles")

	stats, err := db.GetStats()
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	if stats.TotalRecipes != 2 {
		t.Errorf("TotalRecipes = %d, want 2", stats.TotalRecipes)
	}
	if stats.TotalUsers != 1 {
		t.Errorf("TotalUsers = %d, want 1", stats.TotalUsers)
	}
	if stats.StoreSizeByte <= 0 {
		t.Errorf("StoreSizeByte = %d, want > 0", stats.StoreSizeByte)
	}
}
