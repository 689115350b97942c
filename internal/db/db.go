// Package db provides a GORM-based database layer for Ladle.
// It uses the pure-Go SQLite driver with FTS5 support.
package db

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ladle-sh/ladle/internal/models"
)

// DB wraps the GORM database connection with Ladle-specific operations.
type DB struct {
	*gorm.DB
	path string
}

// Config holds database configuration options.
type Config struct {
	Path        string
	Debug       bool
	MaxIdleConn int
	MaxOpenConn int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(path string) Config {
	return Config{
		Path:        path,
		Debug:       false,
		MaxIdleConn: 1,
		MaxOpenConn: 1,
	}
}

// New creates a new database connection and runs migrations.
func New(cfg Config) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	logLevel := logger.Silent
	if cfg.Debug {
		logLevel = logger.Info
	}

	// DELETE journal mode for simpler transaction handling
	// (WAL mode has visibility issues with the pure-Go SQLite driver)
	dsn := fmt.Sprintf("%s?_pragma=journal_mode(DELETE)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)", cfg.Path)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 logger.Default.LogMode(logLevel),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConn)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConn)
	sqlDB.SetConnMaxLifetime(time.Hour)

	wrapped := &DB{DB: db, path: cfg.Path}

	if err := wrapped.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	// Create FTS5 virtual table and its maintenance triggers
	if err := wrapped.setupFTS(); err != nil {
		return nil, fmt.Errorf("setup FTS: %w", err)
	}

	return wrapped, nil
}

// migrate runs GORM auto-migrations for all models.
func (db *DB) migrate() error {
	return db.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.RecipeInstruction{},
		&models.RecipeImage{},
		&models.RecipeNote{},
		&models.SearchHistory{},
	)
}

// setupFTS creates the FTS5 virtual table and triggers for full-text search.
// The triggers run inside the same transaction as the recipe mutation, so the
// index is never stale beyond the write that caused the change.
func (db *DB) setupFTS() error {
	ftsSQL := `
		CREATE VIRTUAL TABLE IF NOT EXISTS recipes_fts USING fts5(
			title,
			description,
			cuisine,
			content='recipes',
			content_rowid='rowid',
			tokenize='porter unicode61'
		);
	`
	if err := db.Exec(ftsSQL).Error; err != nil {
		return fmt.Errorf("create FTS table: %w", err)
	}

	triggers := []string{
		// After INSERT
		`CREATE TRIGGER IF NOT EXISTS recipes_ai AFTER INSERT ON recipes BEGIN
			INSERT INTO recipes_fts(rowid, title, description, cuisine)
			VALUES (NEW.rowid, NEW.title, NEW.description, NEW.cuisine);
		END;`,

		// After DELETE
		`CREATE TRIGGER IF NOT EXISTS recipes_ad AFTER DELETE ON recipes BEGIN
			INSERT INTO recipes_fts(recipes_fts, rowid, title, description, cuisine)
			VALUES ('delete', OLD.rowid, OLD.title, OLD.description, OLD.cuisine);
		END;`,

		// After UPDATE
		`CREATE TRIGGER IF NOT EXISTS recipes_au AFTER UPDATE ON recipes BEGIN
			INSERT INTO recipes_fts(recipes_fts, rowid, title, description, cuisine)
			VALUES ('delete', OLD.rowid, OLD.title, OLD.description, OLD.cuisine);
			INSERT INTO recipes_fts(rowid, title, description, cuisine)
			VALUES (NEW.rowid, NEW.title, NEW.description, NEW.cuisine);
		END;`,
	}

	for _, trigger := range triggers {
		if err := db.Exec(trigger).Error; err != nil {
			return fmt.Errorf("create trigger: %w", err)
		}
	}

	return nil
}

// teardownFTS drops the FTS5 virtual table and its triggers.
func (db *DB) teardownFTS() error {
	stmts := []string{
		`DROP TRIGGER IF EXISTS recipes_ai;`,
		`DROP TRIGGER IF EXISTS recipes_au;`,
		`DROP TRIGGER IF EXISTS recipes_ad;`,
		`DROP TABLE IF EXISTS recipes_fts;`,
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("drop FTS objects: %w", err)
		}
	}
	return nil
}

// Reset destructively clears all recipe data and rebuilds the search index.
// The FTS table and its triggers are dropped first, then rows are deleted in
// foreign-key dependency order, then the index is recreated empty.
func (db *DB) Reset() error {
	if err := db.teardownFTS(); err != nil {
		return err
	}

	err := db.Transaction(func(tx *DB) error {
		deletes := []string{
			`DELETE FROM recipe_notes;`,
			`DELETE FROM recipe_images;`,
			`DELETE FROM recipe_tags;`,
			`DELETE FROM recipe_ingredients;`,
			`DELETE FROM recipe_instructions;`,
			`DELETE FROM tags;`,
			`DELETE FROM recipes;`,
			`DELETE FROM search_history;`,
		}
		for _, stmt := range deletes {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("reset delete: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	return db.setupFTS()
}

// WithContext returns a handle whose queries carry the context, so
// caller cancellation propagates to the driver.
func (db *DB) WithContext(ctx context.Context) *DB {
	return &DB{DB: db.DB.WithContext(ctx), path: db.path}
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// Ping verifies the connection is alive.
func (db *DB) Ping() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Close closes the database connection.
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Transaction executes a function within a database transaction.
// The callback receives a *DB wrapper that uses the transaction.
func (d *DB) Transaction(fc func(tx *DB) error) error {
	return d.DB.Transaction(func(tx *gorm.DB) error {
		wrappedTx := &DB{DB: tx, path: d.path}
		return fc(wrappedTx)
	})
}

// GetStats returns aggregate statistics about the database.
func (db *DB) GetStats() (*models.RecipeStats, error) {
	var stats models.RecipeStats

	if err := db.Model(&models.Recipe{}).Count(&stats.TotalRecipes).Error; err != nil {
		return nil, fmt.Errorf("count recipes: %w", err)
	}

	if err := db.Model(&models.Tag{}).Count(&stats.TotalTags).Error; err != nil {
		return nil, fmt.Errorf("count tags: %w", err)
	}

	if err := db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	if info, err := os.Stat(db.path); err == nil {
		stats.StoreSizeByte = info.Size()
	}

	stats.LastUpdated = time.Now()

	return &stats, nil
}
