package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeQuery(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain words", "chicken curry", "chicken curry"},
		{"strips punctuation", "mac & cheese!", "mac  cheese"},
		{"strips quotes", `"phrase" attack`, "phrase attack"},
		{"only symbols", "???", ""},
		{"mixed unicode symbols", "café", "caf"},
		{"keeps digits", "30 minute meals", "30 minute meals"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeQuery(tt.input))
		})
	}
}

func TestBuildStrategies_MultiTerm(t *testing.T) {
	cascade := buildStrategies([]string{"chicken", "curry"})
	require.Len(t, cascade, 3)

	assert.Equal(t, StrategyPhrase, cascade[0].name)
	assert.Equal(t, `"chicken curry"`, cascade[0].match)

	assert.Equal(t, StrategyAllTerms, cascade[1].name)
	assert.Equal(t, `"chicken" AND "curry"`, cascade[1].match)

	assert.Equal(t, StrategyAnyTerm, cascade[2].name)
	assert.Equal(t, `"chicken" OR "curry"`, cascade[2].match)
}

func TestBuildStrategies_SingleLongTerm(t *testing.T) {
	cascade := buildStrategies([]string{"lasagna"})
	require.Len(t, cascade, 2)

	assert.Equal(t, StrategyPhrase, cascade[0].name)
	assert.Equal(t, `"lasagna"`, cascade[0].match)

	// A lone term of three or more characters gets a prefix pass.
	assert.Equal(t, StrategyPrefix, cascade[1].name)
	assert.Equal(t, `"lasagna"*`, cascade[1].match)
}

func TestBuildStrategies_SingleShortTerm(t *testing.T) {
	cascade := buildStrategies([]string{"ox"})
	require.Len(t, cascade, 1)
	assert.Equal(t, StrategyPhrase, cascade[0].name)
}

func TestBuildStrategies_Empty(t *testing.T) {
	assert.Nil(t, buildStrategies(nil))
	assert.Nil(t, buildStrategies([]string{}))
}

func TestQuoteTerm(t *testing.T) {
	assert.Equal(t, `"tikka"`, quoteTerm("tikka"))
}
