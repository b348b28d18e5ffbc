package ai

import (
	"testing"

	"meal-planner/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDishName(t *testing.T) {
	assert.Equal(t, "onion soup", NormalizeDishName("  Onion Soup "))
	assert.Equal(t, "борщ", NormalizeDishName("Борщ"))
	// No plural folding in this normalization context.
	assert.Equal(t, "pancakes", NormalizeDishName("Pancakes"))
}

func TestBuildDishPromptLanguages(t *testing.T) {
	en := BuildDishPrompt("Onion Soup", models.LangEN)
	assert.Contains(t, en, `"Onion Soup"`)
	assert.Contains(t, en, "English")
	assert.Contains(t, en, `"error":"not_food"`)

	ru := BuildDishPrompt("Борщ", models.LangRU)
	assert.Contains(t, ru, "Russian")
	assert.Contains(t, ru, "не похоже на блюдо")

	// Unknown tags fold to English.
	assert.Contains(t, BuildDishPrompt("Soup", "de"), "English")
}
