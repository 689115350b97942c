package importer

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"

	"github.com/ladle-sh/ladle/internal/db"
	"github.com/ladle-sh/ladle/internal/log"
)

// DefaultCloneTimeout is the per-repository timeout for clone operations.
const DefaultCloneTimeout = 2 * time.Minute

// Importer loads markdown recipe files into the database for one user.
type Importer struct {
	db       *db.DB
	parser   *RecipeParser
	cloneDir string
}

// Summary reports the outcome of an import run.
type Summary struct {
	Imported int
	Updated  int
	Skipped  int
	Failed   int
}

// New creates an importer. cloneDir is where git sources are checked out.
func New(database *db.DB, cloneDir string) *Importer {
	return &Importer{
		db:       database,
		parser:   NewRecipeParser(),
		cloneDir: cloneDir,
	}
}

// ImportFile imports a single markdown file. Re-importing a file whose
// title already exists for the user updates the existing recipe instead
// of creating a duplicate.
func (im *Importer) ImportFile(userID, path string) (created bool, err error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}

	recipe, err := im.parser.Parse(string(content))
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", path, err)
	}
	recipe.UserID = userID

	existing, err := im.db.GetRecipeByTitle(userID, recipe.Title)
	if err != nil {
		return false, err
	}
	if existing != nil {
		recipe.ID = existing.ID
		recipe.CreatedAt = existing.CreatedAt
		if err := im.db.UpdateRecipe(recipe); err != nil {
			return false, err
		}
		return false, nil
	}

	if err := im.db.CreateRecipe(recipe); err != nil {
		return false, err
	}
	return true, nil
}

// ImportDir walks a directory tree and imports every markdown file found.
// Individual file failures are logged and counted, not fatal.
func (im *Importer) ImportDir(ctx context.Context, userID, dir string) (*Summary, error) {
	summary := &Summary{}

	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if entry.IsDir() {
			// Checked-out sources carry their git metadata along.
			if entry.Name() == ".git" {
				return fs.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".md") {
			return nil
		}
		if strings.EqualFold(entry.Name(), "README.md") {
			summary.Skipped++
			return nil
		}

		created, err := im.ImportFile(userID, path)
		if err != nil {
			log.Errorf("import %s: %v", path, err)
			summary.Failed++
			return nil
		}
		if created {
			summary.Imported++
		} else {
			summary.Updated++
		}
		return nil
	})
	if err != nil {
		return summary, fmt.Errorf("walk %s: %w", dir, err)
	}

	return summary, nil
}

// ImportGit shallow-clones a git repository into the clone directory and
// imports its markdown files. An existing checkout for the same URL is
// replaced so the import always reflects the remote's current state.
func (im *Importer) ImportGit(ctx context.Context, userID, url string) (*Summary, error) {
	localPath := filepath.Join(im.cloneDir, repoDirName(url))

	if err := os.RemoveAll(localPath); err != nil {
		return nil, fmt.Errorf("clear checkout %s: %w", localPath, err)
	}
	if err := os.MkdirAll(localPath, 0755); err != nil {
		return nil, fmt.Errorf("create checkout %s: %w", localPath, err)
	}

	if deadline, ok := ctx.Deadline(); !ok || time.Until(deadline) > DefaultCloneTimeout {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultCloneTimeout)
		defer cancel()
	}

	_, err := git.PlainCloneContext(ctx, localPath, false, &git.CloneOptions{
		URL:          url,
		SingleBranch: true,
		Tags:         git.NoTags,
		Depth:        1,
	})
	if err != nil {
		_ = os.RemoveAll(localPath)
		return nil, fmt.Errorf("clone %s: %w", url, err)
	}

	return im.ImportDir(ctx, userID, localPath)
}

// repoDirName derives a filesystem-safe checkout name from a clone URL.
func repoDirName(url string) string {
	name := strings.TrimSuffix(url, ".git")
	name = strings.TrimSuffix(name, "/")
	if idx := strings.LastIndexAny(name, "/:"); idx >= 0 {
		name = name[idx+1:]
	}
	if name == "" {
		name = "recipes"
	}
	return name
}
