package search

import (
	"regexp"
	"strings"
)

// Strategy names, in cascade order.
const (
	StrategyPhrase   = "phrase"
	StrategyAllTerms = "all-terms"
	StrategyPrefix   = "prefix"
	StrategyAnyTerm  = "any-term"
	StrategyFallback = "fallback"
)

var sanitizePattern = regexp.MustCompile(`[^a-zA-Z0-9\s]`)

// sanitizeQuery strips everything outside [a-zA-Z0-9\s]. A query that
// sanitizes to empty skips the index entirely and goes straight to the
// substring fallback using the original text.
func sanitizeQuery(query string) string {
	return strings.TrimSpace(sanitizePattern.ReplaceAllString(query, ""))
}

// strategy pairs a name with the FTS5 match expression it produces.
// Strategies are pure: terms in, expression out.
type strategy struct {
	name  string
	match string
}

// quoteTerm wraps a term in FTS5 string quotes so tokenizer metacharacters
// can't change the query shape.
func quoteTerm(term string) string {
	return `"` + term + `"`
}

// buildStrategies returns the match-expression cascade for the sanitized
// terms, in the order they must be tried:
//
//  1. exact phrase
//  2. all terms ANDed (two or more terms only)
//  3. prefix match (single term of length >= 3 only)
//  4. any term ORed (two or more terms only)
func buildStrategies(terms []string) []strategy {
	if len(terms) == 0 {
		return nil
	}

	quoted := make([]string, len(terms))
	for i, t := range terms {
		quoted[i] = quoteTerm(t)
	}

	var cascade []strategy

	cascade = append(cascade, strategy{
		name:  StrategyPhrase,
		match: quoteTerm(strings.Join(terms, " ")),
	})

	if len(terms) >= 2 {
		cascade = append(cascade, strategy{
			name:  StrategyAllTerms,
			match: strings.Join(quoted, " AND "),
		})
	}

	if len(terms) == 1 && len(terms[0]) >= 3 {
		cascade = append(cascade, strategy{
			name:  StrategyPrefix,
			match: quoted[0] + "*",
		})
	}

	if len(terms) >= 2 {
		cascade = append(cascade, strategy{
			name:  StrategyAnyTerm,
			match: strings.Join(quoted, " OR "),
		})
	}

	return cascade
}
