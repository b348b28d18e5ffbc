package shopping

import (
	"testing"

	"meal-planner/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func selectedDish(name string, ingredients ...models.DishIngredient) models.Dish {
	id := uuid.New()
	for i := range ingredients {
		ingredients[i].DishID = id
		if ingredients[i].ID == uuid.Nil {
			ingredients[i].ID = uuid.New()
		}
	}
	return models.Dish{
		ID:          id,
		Name:        name,
		Status:      models.DishStatusSelected,
		Ingredients: ingredients,
	}
}

func TestAggregateMergesAcrossDishes(t *testing.T) {
	d1 := selectedDish("Soup", models.DishIngredient{Name: "Onion", Amount: "2", Unit: "pcs"})
	d2 := selectedDish("Salad", models.DishIngredient{Name: "Onion", Amount: "3", Unit: "pcs"})

	out := Aggregate([]models.Dish{d1, d2}, nil)

	require.Len(t, out, 1)
	row := out[0]
	assert.Equal(t, "Onion", row.Name)
	assert.Equal(t, 5.0, row.Amount)
	assert.Equal(t, "pcs", row.Unit)
	assert.ElementsMatch(t, []uuid.UUID{d1.ID, d2.ID}, row.DishIDs)
	assert.ElementsMatch(t, []string{"Soup", "Salad"}, row.DishNames)
	assert.Len(t, row.IngredientIDs, 2)
}

func TestAggregateSkipsUnselectedDishes(t *testing.T) {
	proposed := selectedDish("Pasta", models.DishIngredient{Name: "Flour", Amount: "1", Unit: "kg"})
	proposed.Status = models.DishStatusProposed

	out := Aggregate([]models.Dish{proposed}, nil)

	assert.Empty(t, out)
}

func TestAggregateAmountParsing(t *testing.T) {
	dish := selectedDish("Pancakes",
		models.DishIngredient{Name: "Milk", Amount: "0,5", Unit: "l"},
		models.DishIngredient{Name: "Milk", Amount: "1.5", Unit: "l"},
		models.DishIngredient{Name: "Milk", Amount: "to taste", Unit: "l"},
	)

	out := Aggregate([]models.Dish{dish}, nil)

	require.Len(t, out, 1)
	// Comma decimals parse, unparsable text contributes zero.
	assert.Equal(t, 2.0, out[0].Amount)
}

func TestAggregatePurchasedIsANDFold(t *testing.T) {
	dish := selectedDish("Stew",
		models.DishIngredient{Name: "Beef", Amount: "1", Unit: "kg", Purchased: true},
		models.DishIngredient{Name: "Beef", Amount: "1", Unit: "kg", Purchased: false},
		// A later purchased occurrence never flips the bucket back.
		models.DishIngredient{Name: "Beef", Amount: "1", Unit: "kg", Purchased: true},
	)

	out := Aggregate([]models.Dish{dish}, nil)

	require.Len(t, out, 1)
	assert.False(t, out[0].Purchased)
}

func TestAggregateAllPurchased(t *testing.T) {
	dish := selectedDish("Stew",
		models.DishIngredient{Name: "Beef", Amount: "1", Unit: "kg", Purchased: true},
	)
	manual := []models.ManualIngredient{
		{ID: uuid.New(), Name: "Napkins", Amount: "1", Unit: "pack", Purchased: true},
	}

	out := Aggregate([]models.Dish{dish}, manual)

	require.Len(t, out, 2)
	assert.True(t, out[0].Purchased)
	assert.True(t, out[1].Purchased)
}

func TestAggregateManualMerge(t *testing.T) {
	m1 := models.ManualIngredient{ID: uuid.New(), Name: "Salt", Amount: "1", Unit: "pack", Purchased: true}
	m2 := models.ManualIngredient{ID: uuid.New(), Name: "salt", Amount: "2", Unit: "pack", Purchased: false}

	out := Aggregate(nil, []models.ManualIngredient{m1, m2})

	require.Len(t, out, 1)
	row := out[0]
	assert.Equal(t, 3.0, row.Amount)
	assert.False(t, row.Purchased)
	assert.True(t, row.IsManual)
	// Last manual id wins when several collapse into one key.
	require.NotNil(t, row.ManualID)
	assert.Equal(t, m2.ID, *row.ManualID)
}

func TestAggregatePluralFoldAsymmetry(t *testing.T) {
	dish := selectedDish("Salad", models.DishIngredient{Name: "Tomatoes", Amount: "2", Unit: "pcs"})
	manual := []models.ManualIngredient{
		{ID: uuid.New(), Name: "Tomatoes", Amount: "3", Unit: "pcs"},
	}

	out := Aggregate([]models.Dish{dish}, manual)

	// Identical raw names do not merge: only the dish path folds plurals.
	require.Len(t, out, 2)
	assert.Equal(t, 2.0, out[0].Amount)
	assert.False(t, out[0].IsManual)
	assert.Equal(t, 3.0, out[1].Amount)
	assert.True(t, out[1].IsManual)
}

func TestAggregateManualIntoDishBucketOnExactKeyMatch(t *testing.T) {
	// A singular dish name and a singular manual name derive the same key,
	// so the manual row merges into the dish bucket.
	dish := selectedDish("Soup", models.DishIngredient{Name: "Carrot", Amount: "2", Unit: "pcs", Purchased: true})
	manual := []models.ManualIngredient{
		{ID: uuid.New(), Name: "Carrot", Amount: "1", Unit: "pcs", Purchased: false},
	}

	out := Aggregate([]models.Dish{dish}, manual)

	require.Len(t, out, 1)
	row := out[0]
	assert.Equal(t, 3.0, row.Amount)
	assert.False(t, row.Purchased)
	assert.True(t, row.IsManual)
	assert.Len(t, row.DishIDs, 1)
}

func TestAggregateFirstEncounterOrder(t *testing.T) {
	dish := selectedDish("Breakfast",
		models.DishIngredient{Name: "Eggs", Amount: "4", Unit: "pcs"},
		models.DishIngredient{Name: "Bacon", Amount: "200", Unit: "g"},
		models.DishIngredient{Name: "Eggs", Amount: "2", Unit: "pcs"},
	)

	out := Aggregate([]models.Dish{dish}, nil)

	require.Len(t, out, 2)
	assert.Equal(t, "Eggs", out[0].Name)
	assert.Equal(t, "Bacon", out[1].Name)
	assert.Equal(t, 6.0, out[0].Amount)
}

func TestAggregateFirstSeenUnitWins(t *testing.T) {
	// Units are part of the merge key, so differing units never merge.
	dish := selectedDish("Cake",
		models.DishIngredient{Name: "Sugar", Amount: "200", Unit: "g"},
		models.DishIngredient{Name: "Sugar", Amount: "1", Unit: "cup"},
	)

	out := Aggregate([]models.Dish{dish}, nil)

	assert.Len(t, out, 2)
}
