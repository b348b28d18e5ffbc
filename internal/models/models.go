package models

import (
	"time"

	"github.com/google/uuid"
)

// Language tags accepted by the application surface and the generation
// backend.
const (
	LangEN = "en"
	LangRU = "ru"
)

// NormalizeLang folds an arbitrary tag into the supported two-value set.
func NormalizeLang(lang string) string {
	if lang == LangRU {
		return LangRU
	}
	return LangEN
}

// Dish statuses.
const (
	DishStatusProposed  = "proposed"
	DishStatusSelected  = "selected"
	DishStatusPurchased = "purchased"
)

// Group types.
const (
	GroupTypeCouple  = "couple"
	GroupTypeHoliday = "holiday"
)

// User is a Telegram-authenticated member.
type User struct {
	ID         uuid.UUID `json:"id" db:"id"`
	TelegramID int64     `json:"telegram_id" db:"telegram_id"`
	FirstName  string    `json:"first_name" db:"first_name"`
	Username   string    `json:"username" db:"username"`
	Language   string    `json:"language" db:"language"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// Group is the pairing or multi-member context scoping dishes, manual
// ingredients and preferences. A couple caps at two members.
type Group struct {
	ID         uuid.UUID `json:"id" db:"id"`
	Type       string    `json:"type" db:"type"`
	Name       string    `json:"name" db:"name"`
	InviteCode string    `json:"invite_code" db:"invite_code"`
	UseAI      bool      `json:"use_ai" db:"use_ai"`
	Language   string    `json:"language" db:"language"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	Members    []User    `json:"members,omitempty"`
}

// Nutrition is a per-dish estimate; every field is optional because the
// generation backend may omit any of them.
type Nutrition struct {
	Calories *int `json:"calories,omitempty" db:"calories"`
	Proteins *int `json:"proteins,omitempty" db:"proteins"`
	Fats     *int `json:"fats,omitempty" db:"fats"`
	Carbs    *int `json:"carbs,omitempty" db:"carbs"`
}

// Empty reports whether no nutrition field is set.
func (n Nutrition) Empty() bool {
	return n.Calories == nil && n.Proteins == nil && n.Fats == nil && n.Carbs == nil
}

// Dish is a named meal entry scoped to a group.
type Dish struct {
	ID           uuid.UUID        `json:"id" db:"id"`
	GroupID      uuid.UUID        `json:"group_id" db:"group_id"`
	Name         string           `json:"name" db:"name"`
	Status       string           `json:"status" db:"status"`
	Date         *time.Time       `json:"date,omitempty" db:"date"`
	ProposedByID uuid.UUID        `json:"proposed_by_id" db:"proposed_by_id"`
	Recipe       string           `json:"recipe,omitempty" db:"recipe"`
	Nutrition    Nutrition        `json:"nutrition"`
	Ingredients  []DishIngredient `json:"ingredients,omitempty"`
	CreatedAt    time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at" db:"updated_at"`
}

// DishIngredient is one ingredient line attached to a dish. Amount is kept
// as raw text: the model and users both produce values like "1,5".
type DishIngredient struct {
	ID        uuid.UUID `json:"id" db:"id"`
	DishID    uuid.UUID `json:"dish_id" db:"dish_id"`
	Name      string    `json:"name" db:"name"`
	Amount    string    `json:"amount" db:"amount"`
	Unit      string    `json:"unit" db:"unit"`
	Purchased bool      `json:"purchased" db:"purchased"`
}

// ManualIngredient is an ingredient line entered by hand, scoped to a
// group instead of a dish.
type ManualIngredient struct {
	ID        uuid.UUID `json:"id" db:"id"`
	GroupID   uuid.UUID `json:"group_id" db:"group_id"`
	Name      string    `json:"name" db:"name"`
	Amount    string    `json:"amount" db:"amount"`
	Unit      string    `json:"unit" db:"unit"`
	Purchased bool      `json:"purchased" db:"purchased"`
	AddedByID uuid.UUID `json:"added_by_id" db:"added_by_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// DishCacheEntry is a memoized generation result keyed by
// (normalized name, language).
type DishCacheEntry struct {
	ID             uuid.UUID          `json:"id" db:"id"`
	NormalizedName string             `json:"normalized_name" db:"normalized_name"`
	Language       string             `json:"language" db:"language"`
	Recipe         string             `json:"recipe" db:"recipe"`
	Nutrition      Nutrition          `json:"nutrition"`
	UsageCount     int                `json:"usage_count" db:"usage_count"`
	Ingredients    []CachedIngredient `json:"ingredients,omitempty"`
	CreatedAt      time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" db:"updated_at"`
}

// CachedIngredient is a name/amount/unit triple attached to a cache row.
type CachedIngredient struct {
	ID           uuid.UUID `json:"id" db:"id"`
	CacheEntryID uuid.UUID `json:"cache_entry_id" db:"cache_entry_id"`
	Name         string    `json:"name" db:"name"`
	Amount       string    `json:"amount" db:"amount"`
	Unit         string    `json:"unit" db:"unit"`
}
