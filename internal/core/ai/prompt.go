package ai

import (
	"fmt"
	"strings"

	"meal-planner/internal/models"
)

// NormalizeDishName lowercases and trims a dish name for cache keying.
// This is a separate normalization context from the shopping-list merge
// keys: no plural folding here.
func NormalizeDishName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// BuildDishPrompt constructs the generation prompt for a dish. The model
// must either reject non-food input with a typed error payload or return a
// strict JSON object with ingredients, a markdown recipe and a nutrition
// estimate, all in the requested language.
func BuildDishPrompt(dishName, lang string) string {
	language := "English"
	rejectExample := `{"error":"not_food","message":"\"%s\" doesn't look like a dish. Please enter a food name."}`
	if models.NormalizeLang(lang) == models.LangRU {
		language = "Russian"
		rejectExample = `{"error":"not_food","message":"«%s» не похоже на блюдо. Введите название блюда."}`
	}

	return fmt.Sprintf(`You are a cooking assistant for a family meal planner.
		The user wants to cook: "%s"

		First decide whether this is a real food dish. If it is NOT food
		(a random phrase, an instruction, an object), respond with exactly
		this JSON and nothing else, with the message written in %s:
		`+rejectExample+`

		If it IS a dish, respond with a single JSON object and nothing else:
		{
		"ingredients": [
			{"name": "ingredient name", "amount": "2", "unit": "pcs"}
		],
		"recipe": "step-by-step recipe as markdown",
		"calories": 0,
		"proteins": 0,
		"fats": 0,
		"carbs": 0
		}

		Requirements:
		1. Ingredient names, units and the recipe text must be in %s
		2. Ingredients are for 2 servings
		3. amount is a plain number as a string, unit is short ("g", "ml", "pcs", "tbsp")
		4. calories/proteins/fats/carbs are integer estimates per serving; omit a field if unknown
		5. All keys and string values must use double quotes
		6. Do not wrap the JSON in markdown code fences
		`,
		dishName, language, dishName, language)
}
