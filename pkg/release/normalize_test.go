package release

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase", "Breaking Bad", "breaking bad"},
		{"leading the", "The Walking Dead", "walking dead"},
		{"leading a", "A Discovery of Witches", "discovery of witches"},
		{"french article", "Les Revenants", "revenants"},
		{"french elision", "L'Attaque des Titans", "attaque des titans"},
		{"accents", "Élite", "elite"},
		{"accents middle", "Pokémon", "pokemon"},
		{"ampersand", "Law & Order", "law and order"},
		{"roman numeral", "Rocky II", "rocky 2"},
		{"roman numeral viii", "Dragon Ball VIII", "dragon ball 8"},
		{"standalone x kept", "SPY x FAMILY", "spy x family"},
		{"colon subtitle", "Star Trek: The Next Generation", "star trek next generation"},
		{"dots and dashes", "Mr.-Robot", "mr robot"},
		{"punctuation dropped", "It's Always Sunny!", "its always sunny"},
		{"whitespace collapse", "  Show    Name  ", "show name"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanTitle(tt.input))
		})
	}
}

func TestCleanTitle_RomanNumeralEdges(t *testing.T) {
	// "I" and "X" are never converted
	assert.Equal(t, "i robot", CleanTitle("I Robot"))
	// A numeral at the start of the string stays untouched
	assert.Equal(t, "vii days", CleanTitle("VII Days"))
	// Mid-word sequences are not numerals
	assert.Equal(t, "vivarium", CleanTitle("Vivarium"))
}
