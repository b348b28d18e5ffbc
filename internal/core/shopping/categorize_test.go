package shopping

import (
	"testing"

	"meal-planner/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		name     string
		expected Category
	}{
		{"Молоко", CategoryDairy},
		{"milk", CategoryDairy},
		{"Onion", CategoryVegetables},
		{"Картошка", CategoryVegetables},
		{"Bananas", CategoryFruits},
		{"Куриное филе", CategoryMeat},
		{"Хлеб бородинский", CategoryBakery},
		{"Рис басмати", CategoryPantry},
		{"Паприка копченая", CategorySpices},
		{"Unknown Gadget", CategoryOther},
		{"", CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Categorize(tt.name))
		})
	}
}

func TestCategorizeSubstringSemantics(t *testing.T) {
	// Matching is substring-based, not whole-word: "рис" embedded in an
	// unrelated longer word still classifies as pantry.
	assert.Equal(t, CategoryPantry, Categorize("Ирис конфеты"))
}

func TestCategorizeDeclaredOrderPrecedence(t *testing.T) {
	// "томатная паста" carries keywords of both vegetables ("томат") and
	// pantry ("томатная паста"); vegetables is checked first and wins.
	assert.Equal(t, CategoryVegetables, Categorize("Томатная паста"))

	// "sour cream sauce" matches dairy ("sour cream") before pantry ("sauce").
	assert.Equal(t, CategoryDairy, Categorize("sour cream sauce"))
}

func TestCategorizeAlwaysReturnsClosedSet(t *testing.T) {
	valid := make(map[Category]bool, len(CategoryOrder))
	for _, c := range CategoryOrder {
		valid[c] = true
	}
	for _, name := range []string{"", "42", "!!!", "банан", "steak", "что-то странное"} {
		assert.True(t, valid[Categorize(name)], "name %q", name)
	}
}

func TestCategorizedList(t *testing.T) {
	items := []AggregatedItem{
		{Name: "Яблоки"},
		{Name: "Молоко"},
		{Name: "Арбуз"},
		{Name: "Gadget"},
	}

	buckets := CategorizedList(items, models.LangRU)

	// Every category key is present even when empty.
	require.Len(t, buckets, len(CategoryOrder))
	assert.Empty(t, buckets[CategoryMeat])

	require.Len(t, buckets[CategoryFruits], 2)
	// Alphabetical by display name under the group's collation.
	assert.Equal(t, "Арбуз", buckets[CategoryFruits][0].Name)
	assert.Equal(t, "Яблоки", buckets[CategoryFruits][1].Name)

	require.Len(t, buckets[CategoryDairy], 1)
	require.Len(t, buckets[CategoryOther], 1)
	assert.Equal(t, "Gadget", buckets[CategoryOther][0].Name)
}
