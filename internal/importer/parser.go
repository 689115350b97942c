// Package importer brings markdown recipe files into the recipe box,
// either from a local directory or from a cloned git repository.
package importer

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/ladle-sh/ladle/internal/models"
)

// RecipeParser parses recipe markdown files with YAML frontmatter.
//
// Expected shape:
//
//	---
//	title: Chicken Tikka Masala
//	cuisine: indian
//	difficulty: medium
//	servings: 4
//	prep_time: 20
//	cook_time: 40
//	tags: [curry, dinner]
//	public: true
//	---
//	Description paragraph(s).
//
//	## Ingredients
//	- 500 g chicken thighs
//	## Instructions
//	1. Marinate the chicken.
//	## Notes
//	Freezes well.
type RecipeParser struct {
	md goldmark.Markdown
}

// NewRecipeParser creates a parser with frontmatter support.
func NewRecipeParser() *RecipeParser {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			meta.Meta,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)

	return &RecipeParser{md: md}
}

// Parse extracts a recipe from markdown content. Frontmatter fields win
// over anything derived from the body; the first heading becomes the
// title when frontmatter has none.
func (p *RecipeParser) Parse(content string) (*models.Recipe, error) {
	var buf bytes.Buffer
	context := parser.NewContext()

	if err := p.md.Convert([]byte(content), &buf, parser.WithContext(context)); err != nil {
		return nil, fmt.Errorf("parse markdown: %w", err)
	}

	frontmatter := meta.Get(context)

	recipe := &models.Recipe{
		Difficulty: models.DifficultyMedium,
	}

	if title, ok := frontmatter["title"].(string); ok && title != "" {
		recipe.Title = strings.TrimSpace(title)
	} else {
		recipe.Title = extractFirstHeading(content)
	}
	if recipe.Title == "" {
		return nil, fmt.Errorf("recipe has no title")
	}

	if desc, ok := frontmatter["description"].(string); ok && desc != "" {
		recipe.Description = strings.TrimSpace(desc)
	} else {
		recipe.Description = extractLeadParagraph(content)
	}

	if cuisine, ok := frontmatter["cuisine"].(string); ok {
		recipe.Cuisine = strings.ToLower(strings.TrimSpace(cuisine))
	}
	if difficulty, ok := frontmatter["difficulty"].(string); ok {
		recipe.Difficulty = models.NormalizeDifficulty(difficulty)
	}
	recipe.Servings = intField(frontmatter, "servings")
	recipe.PrepTimeMinutes = intField(frontmatter, "prep_time")
	recipe.CookTimeMinutes = intField(frontmatter, "cook_time")
	if public, ok := frontmatter["public"].(bool); ok {
		recipe.IsPublic = public
	}
	if source, ok := frontmatter["source"].(string); ok {
		recipe.SourceURL = strings.TrimSpace(source)
	}

	for _, name := range stringListField(frontmatter, "tags") {
		recipe.Tags = append(recipe.Tags, models.NewTag(name))
	}

	recipe.Ingredients = parseIngredients(sectionLines(content, "ingredients"))
	recipe.Instructions = parseInstructions(sectionLines(content, "instructions"))
	if notes := strings.TrimSpace(strings.Join(sectionLines(content, "notes"), "\n")); notes != "" {
		recipe.Notes = []models.RecipeNote{{Content: notes}}
	}

	return recipe, nil
}

// intField reads a frontmatter integer that YAML may deliver as int,
// float, or string.
func intField(frontmatter map[string]interface{}, key string) int {
	switch v := frontmatter[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return 0
}

// stringListField reads a frontmatter string list, tolerating the
// interface-keyed slices goldmark-meta produces.
func stringListField(frontmatter map[string]interface{}, key string) []string {
	raw, ok := frontmatter[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

// extractFirstHeading returns the text of the first markdown heading.
func extractFirstHeading(content string) string {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") {
			return strings.TrimSpace(strings.TrimLeft(trimmed, "# "))
		}
	}
	return ""
}

// extractLeadParagraph returns the first body paragraph before any
// section heading, skipping frontmatter and the title heading.
func extractLeadParagraph(content string) string {
	body := stripFrontmatter(content)
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		return trimmed
	}
	return ""
}

func stripFrontmatter(content string) string {
	if !strings.HasPrefix(content, "---") {
		return content
	}
	rest := content[3:]
	idx := strings.Index(rest, "\n---")
	if idx < 0 {
		return content
	}
	return rest[idx+4:]
}

// sectionLines returns the non-empty lines under the `## <name>` heading,
// up to the next heading. Matching is case-insensitive.
func sectionLines(content, name string) []string {
	var lines []string
	inSection := false

	for _, line := range strings.Split(stripFrontmatter(content), "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "#") {
			heading := strings.ToLower(strings.TrimSpace(strings.TrimLeft(trimmed, "# ")))
			inSection = heading == name
			continue
		}

		if inSection && trimmed != "" {
			lines = append(lines, trimmed)
		}
	}

	return lines
}

// parseIngredients turns bullet lines into ingredient rows. Lines shaped
// like "- 500 g chicken thighs" split into quantity, unit, and name; a
// trailing parenthetical becomes the notes field.
func parseIngredients(lines []string) []models.RecipeIngredient {
	var ingredients []models.RecipeIngredient

	for i, line := range lines {
		text := strings.TrimSpace(strings.TrimLeft(line, "-*+ "))
		if text == "" {
			continue
		}

		ing := models.RecipeIngredient{SortOrder: i}

		// Split off a trailing "(...)" note.
		if open := strings.LastIndex(text, "("); open > 0 && strings.HasSuffix(text, ")") {
			ing.Notes = strings.TrimSpace(text[open+1 : len(text)-1])
			text = strings.TrimSpace(text[:open])
		}

		fields := strings.Fields(text)
		if len(fields) >= 2 {
			if qty, err := strconv.ParseFloat(fields[0], 64); err == nil {
				ing.Quantity = qty
				fields = fields[1:]
				if len(fields) >= 2 && knownUnits[strings.ToLower(fields[0])] {
					ing.Unit = strings.ToLower(fields[0])
					fields = fields[1:]
				}
			}
		}
		ing.Name = strings.Join(fields, " ")
		if ing.Name == "" {
			continue
		}

		ingredients = append(ingredients, ing)
	}

	return ingredients
}

var knownUnits = map[string]bool{
	"g": true, "kg": true, "mg": true,
	"ml": true, "l": true, "dl": true,
	"tsp": true, "tbsp": true, "cup": true, "cups": true,
	"oz": true, "lb": true, "lbs": true,
	"clove": true, "cloves": true, "pinch": true,
	"slice": true, "slices": true, "piece": true, "pieces": true,
	"can": true, "cans": true, "bunch": true,
}

// parseInstructions turns ordered-list lines into instruction rows,
// stripping "1." style prefixes.
func parseInstructions(lines []string) []models.RecipeInstruction {
	var instructions []models.RecipeInstruction

	step := 1
	for _, line := range lines {
		text := strings.TrimSpace(line)
		// Strip a leading ordinal like "3." or "3)".
		if dot := strings.IndexAny(text, ".)"); dot > 0 {
			if _, err := strconv.Atoi(text[:dot]); err == nil {
				text = strings.TrimSpace(text[dot+1:])
			}
		}
		text = strings.TrimSpace(strings.TrimLeft(text, "-* "))
		if text == "" {
			continue
		}

		instructions = append(instructions, models.RecipeInstruction{
			StepNumber: step,
			Text:       text,
		})
		step++
	}

	return instructions
}
