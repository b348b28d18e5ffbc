package shopping

import (
	"strings"

	"meal-planner/internal/models"

	"github.com/google/uuid"
)

// AggregatedItem is a merged, display-ready shopping-list row. It is a
// derived view: recomputed from scratch on every request, never persisted.
type AggregatedItem struct {
	Name          string      `json:"name"`
	Amount        float64     `json:"amount"`
	Unit          string      `json:"unit"`
	Purchased     bool        `json:"purchased"`
	IngredientIDs []uuid.UUID `json:"ingredient_ids"`
	DishIDs       []uuid.UUID `json:"dish_ids"`
	DishNames     []string    `json:"dish_names"`
	IsManual      bool        `json:"is_manual"`
	ManualID      *uuid.UUID  `json:"manual_id,omitempty"`
}

// Aggregate folds the ingredient rows of selected dishes and all manual
// ingredients into unique rows keyed by (normalized name, normalized
// unit). Display name and unit are first-seen; amounts are summed; the
// purchased flag is ANDed across every contributing occurrence. Output
// order follows first encounter of each merge key. Pure in-memory fold,
// no I/O.
func Aggregate(dishes []models.Dish, manual []models.ManualIngredient) []AggregatedItem {
	buckets := make(map[string]*AggregatedItem)
	var order []string

	for _, dish := range dishes {
		if dish.Status != models.DishStatusSelected {
			continue
		}
		for _, ing := range dish.Ingredients {
			key := DishKey(ing.Name, ing.Unit)
			item, ok := buckets[key]
			if !ok {
				item = &AggregatedItem{
					Name:      strings.TrimSpace(ing.Name),
					Unit:      ing.Unit,
					Purchased: true,
				}
				buckets[key] = item
				order = append(order, key)
			}
			item.Amount += ParseAmount(ing.Amount)
			item.IngredientIDs = append(item.IngredientIDs, ing.ID)
			if !containsID(item.DishIDs, dish.ID) {
				item.DishIDs = append(item.DishIDs, dish.ID)
				item.DishNames = append(item.DishNames, dish.Name)
			}
			if !ing.Purchased {
				item.Purchased = false
			}
		}
	}

	for _, m := range manual {
		key := ManualKey(m.Name, m.Unit)
		item, ok := buckets[key]
		if !ok {
			item = &AggregatedItem{
				Name:      strings.TrimSpace(m.Name),
				Unit:      m.Unit,
				Purchased: true,
			}
			buckets[key] = item
			order = append(order, key)
		}
		item.Amount += ParseAmount(m.Amount)
		item.Purchased = item.Purchased && m.Purchased
		item.IsManual = true
		id := m.ID
		item.ManualID = &id
	}

	out := make([]AggregatedItem, 0, len(order))
	for _, key := range order {
		out = append(out, *buckets[key])
	}
	return out
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
