package domain

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestIsJobQuery(t *testing.T) {
	assert.True(t, IsJobQuery("Can you show me jobs in Lisbon?"))
	assert.True(t, IsJobQuery("FIND JOBS for a data analyst"))
	assert.True(t, IsJobQuery("any internship offers this summer?"))
	assert.False(t, IsJobQuery("how do I improve my resume?"))
	assert.False(t, IsJobQuery(""))
}

func TestMatchKeywords(t *testing.T) {
	table := []string{"finance", "banking", "risk management"}

	t.Run("case insensitive, table order", func(t *testing.T) {
		got := MatchKeywords("Experienced in Risk Management and FINANCE", table, 0)
		assert.Equal(t, []string{"finance", "risk management"}, got)
	})

	t.Run("limit caps matches", func(t *testing.T) {
		got := MatchKeywords("finance banking risk management", table, 2)
		assert.Equal(t, []string{"finance", "banking"}, got)
	})

	t.Run("no matches", func(t *testing.T) {
		assert.Empty(t, MatchKeywords("pastry chef", table, 0))
	})

	t.Run("empty keyword ignored", func(t *testing.T) {
		assert.Empty(t, MatchKeywords("anything", []string{""}, 0))
	})
}

func TestTruncateAtWhitespace(t *testing.T) {
	t.Run("short text unchanged", func(t *testing.T) {
		assert.Equal(t, "hello world", TruncateAtWhitespace("hello world", 100))
	})

	t.Run("cuts at word boundary", func(t *testing.T) {
		got := TruncateAtWhitespace("alpha beta gamma delta", 12)
		assert.Equal(t, "alpha beta", got)
	})

	t.Run("never cuts mid token", func(t *testing.T) {
		got := TruncateAtWhitespace("supercalifragilistic word two", 26)
		assert.Equal(t, "supercalifragilistic word", got)
	})

	t.Run("zero max is a no-op", func(t *testing.T) {
		assert.Equal(t, "abc", TruncateAtWhitespace("abc", 0))
	})

	t.Run("prefix without whitespace stays bounded", func(t *testing.T) {
		got := TruncateAtWhitespace(strings.Repeat("x", 50), 10)
		assert.Equal(t, strings.Repeat("x", 10), got)
	})

	t.Run("never splits a rune", func(t *testing.T) {
		// "é" is two bytes; a cut at max=3 would land mid-rune.
		got := TruncateAtWhitespace("ééééé", 3)
		assert.True(t, utf8.ValidString(got))
		assert.Equal(t, "é", got)
	})
}
