package shopping

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanName(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{"trims and lowercases", "  Onion ", "onion"},
		{"strips emoji", "🍅 Tomatoes", "tomatoes"},
		{"strips variation selector", "Чеснок ❄️", "чеснок"},
		{"keeps cyrillic", "Молоко", "молоко"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanName(tt.raw))
		})
	}
}

func TestSingularize(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
	}{
		{"tomatoes", "tomato"},
		{"potatoes", "potato"},
		{"onions", "onion"},
		{"carrots", "carrot"},
		// "ss" endings are guarded and stay untouched.
		{"watercress", "watercress"},
		// Known quirk: non-plural trailing "s" is stripped anyway.
		{"hummus", "hummu"},
		{"onion", "onion"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.expected, Singularize(tt.raw))
		})
	}
}

func TestMergeKeys(t *testing.T) {
	// The dish path folds plurals, the manual path does not.
	assert.Equal(t, "tomato-pcs", DishKey("Tomatoes", "pcs"))
	assert.Equal(t, "tomatoes-pcs", ManualKey("Tomatoes", "pcs"))
	assert.NotEqual(t, DishKey("Tomatoes", "pcs"), ManualKey("Tomatoes", "pcs"))

	// Unit is trimmed + lowercased only.
	assert.Equal(t, "onion-pcs", DishKey("Onion", " PCS "))
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw      string
		expected float64
	}{
		{"2", 2},
		{"2.5", 2.5},
		{"1,5", 1.5},
		{" 3 ", 3},
		{"", 0},
		{"a pinch", 0},
		{"1/2", 0},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseAmount(tt.raw))
		})
	}
}
