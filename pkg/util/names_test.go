package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshteinDistance(t *testing.T) {
	assert.Equal(t, 0, LevenshteinDistance("Spurs", "Spurs"))
	assert.Equal(t, 3, LevenshteinDistance("kitten", "sitting"))
	assert.Equal(t, 5, LevenshteinDistance("", "Luton"))
}

func TestFuzzyMatchAlignsOnSubstring(t *testing.T) {
	assert.Equal(t, 0, FuzzyMatch("forest", "nott'm forest"))
	assert.Equal(t, 1, FuzzyMatch("wolvs", "wolves"))
}

func TestClosestName(t *testing.T) {
	teams := []string{"Arsenal", "Man City", "Man United", "Nott'm Forest", "Wolves"}

	name, ok := ClosestName("man utd", teams)
	assert.True(t, ok)
	assert.Equal(t, "Man United", name)

	name, ok = ClosestName("Man Unitd", teams)
	assert.True(t, ok)
	assert.Equal(t, "Man United", name)

	name, ok = ClosestName("forest", teams)
	assert.True(t, ok)
	assert.Equal(t, "Nott'm Forest", name)

	name, ok = ClosestName("  ARSENAL ", teams)
	assert.True(t, ok)
	assert.Equal(t, "Arsenal", name)

	_, ok = ClosestName("Sunderland", teams)
	assert.False(t, ok)

	_, ok = ClosestName("", teams)
	assert.False(t, ok)
}
