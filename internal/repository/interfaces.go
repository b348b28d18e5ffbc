package repository

import (
	"context"
	"time"

	"meal-planner/internal/models"

	"github.com/google/uuid"
)

// UserRepository persists Telegram-authenticated users.
type UserRepository interface {
	UpsertByTelegramID(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error)
}

// GroupRepository persists groups, membership and preferences.
type GroupRepository interface {
	Create(ctx context.Context, group *models.Group, creatorID uuid.UUID) (*models.Group, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Group, error)
	GetByInviteCode(ctx context.Context, code string) (*models.Group, error)
	GetByMember(ctx context.Context, userID uuid.UUID) (*models.Group, error)
	AddMember(ctx context.Context, groupID, userID uuid.UUID) error
	CountMembers(ctx context.Context, groupID uuid.UUID) (int, error)
	IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error)
	ListMembers(ctx context.Context, groupID uuid.UUID) ([]models.User, error)
	UpdatePreferences(ctx context.Context, groupID uuid.UUID, useAI *bool, language *string) error
}

// DishRepository persists dishes and their ingredient rows.
type DishRepository interface {
	Create(ctx context.Context, dish *models.Dish) (*models.Dish, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Dish, error)
	ListByGroup(ctx context.Context, groupID uuid.UUID, from, to *time.Time) ([]models.Dish, error)
	Update(ctx context.Context, dish *models.Dish) error
	UpdateAIContent(ctx context.Context, dishID uuid.UUID, recipe string, nutrition models.Nutrition) error
	Delete(ctx context.Context, id uuid.UUID) error
	InsertIngredients(ctx context.Context, dishID uuid.UUID, ingredients []models.DishIngredient) error
	SetIngredientPurchased(ctx context.Context, ingredientID uuid.UUID, purchased bool) (*models.DishIngredient, error)
	GetIngredient(ctx context.Context, ingredientID uuid.UUID) (*models.DishIngredient, error)
}

// ManualIngredientRepository persists hand-entered shopping list rows.
type ManualIngredientRepository interface {
	Create(ctx context.Context, item *models.ManualIngredient) (*models.ManualIngredient, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.ManualIngredient, error)
	ListByGroup(ctx context.Context, groupID uuid.UUID) ([]models.ManualIngredient, error)
	Update(ctx context.Context, item *models.ManualIngredient) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// DishCacheRepository persists memoized generation results. Find returns
// (nil, nil) on a miss; Upsert replaces the row's child ingredient rows
// wholesale.
type DishCacheRepository interface {
	Find(ctx context.Context, normalizedName, language string) (*models.DishCacheEntry, error)
	Upsert(ctx context.Context, entry *models.DishCacheEntry) (*models.DishCacheEntry, error)
	IncrementUsage(ctx context.Context, id uuid.UUID) error
}
