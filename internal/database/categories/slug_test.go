package categories

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "Fiction", "fiction"},
		{"spaces", "Church History", "church-history"},
		{"ampersand collapses", "Advent & Lent", "advent-lent"},
		{"punctuation runs", "Prayer,   Fasting!!", "prayer-fasting"},
		{"leading and trailing symbols", "  --Liturgy-- ", "liturgy"},
		{"digits kept", "Top 10 Reads", "top-10-reads"},
		{"only symbols", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slugify(tt.input))
		})
	}
}

func TestValidSlug(t *testing.T) {
	assert.True(t, ValidSlug("advent-lent"))
	assert.True(t, ValidSlug("a"))
	assert.False(t, ValidSlug(""))
	assert.False(t, ValidSlug("Has-Caps"))
	assert.False(t, ValidSlug("spa ce"))
	assert.False(t, ValidSlug(string(make([]byte, 101))))
}
