package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"meal-planner/internal/models"
	"meal-planner/internal/repository"

	"github.com/google/uuid"
)

type dishCacheRepository struct {
	db *sql.DB
}

// NewDishCacheRepository creates a new dish cache repository.
func NewDishCacheRepository(db *sql.DB) repository.DishCacheRepository {
	return &dishCacheRepository{db: db}
}

func (r *dishCacheRepository) Find(ctx context.Context, normalizedName, language string) (*models.DishCacheEntry, error) {
	query := `
		SELECT id, normalized_name, language, COALESCE(recipe, ''), calories, proteins, fats, carbs, usage_count, created_at, updated_at
		FROM dish_cache
		WHERE normalized_name = $1 AND language = $2`

	entry := &models.DishCacheEntry{}
	err := r.db.QueryRowContext(ctx, query, normalizedName, language).Scan(
		&entry.ID,
		&entry.NormalizedName,
		&entry.Language,
		&entry.Recipe,
		&entry.Nutrition.Calories,
		&entry.Nutrition.Proteins,
		&entry.Nutrition.Fats,
		&entry.Nutrition.Carbs,
		&entry.UsageCount,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find dish cache entry: %w", err)
	}

	ingredients, err := r.listIngredients(ctx, entry.ID)
	if err != nil {
		return nil, err
	}
	entry.Ingredients = ingredients
	return entry, nil
}

// Upsert writes the cache row keyed by (normalized_name, language) and
// replaces its child ingredient rows wholesale, inside one transaction.
func (r *dishCacheRepository) Upsert(ctx context.Context, entry *models.DishCacheEntry) (*models.DishCacheEntry, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin cache upsert: %w", err)
	}
	defer tx.Rollback()

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	query := `
		INSERT INTO dish_cache (id, normalized_name, language, recipe, calories, proteins, fats, carbs, usage_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, $9, $9)
		ON CONFLICT (normalized_name, language) DO UPDATE
		SET recipe = EXCLUDED.recipe,
		    calories = EXCLUDED.calories,
		    proteins = EXCLUDED.proteins,
		    fats = EXCLUDED.fats,
		    carbs = EXCLUDED.carbs,
		    updated_at = EXCLUDED.updated_at
		RETURNING id, usage_count, created_at, updated_at`

	err = tx.QueryRowContext(ctx, query,
		entry.ID,
		entry.NormalizedName,
		entry.Language,
		entry.Recipe,
		entry.Nutrition.Calories,
		entry.Nutrition.Proteins,
		entry.Nutrition.Fats,
		entry.Nutrition.Carbs,
		time.Now(),
	).Scan(&entry.ID, &entry.UsageCount, &entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert dish cache entry: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM dish_cache_ingredients WHERE cache_entry_id = $1`, entry.ID); err != nil {
		return nil, fmt.Errorf("failed to clear cached ingredients: %w", err)
	}

	insert := `
		INSERT INTO dish_cache_ingredients (id, cache_entry_id, name, amount, unit)
		VALUES ($1, $2, $3, $4, $5)`
	for i := range entry.Ingredients {
		if entry.Ingredients[i].ID == uuid.Nil {
			entry.Ingredients[i].ID = uuid.New()
		}
		entry.Ingredients[i].CacheEntryID = entry.ID
		_, err := tx.ExecContext(ctx, insert,
			entry.Ingredients[i].ID,
			entry.ID,
			entry.Ingredients[i].Name,
			entry.Ingredients[i].Amount,
			entry.Ingredients[i].Unit,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert cached ingredient: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit cache upsert: %w", err)
	}
	return entry, nil
}

func (r *dishCacheRepository) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE dish_cache SET usage_count = usage_count + 1 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to increment cache usage: %w", err)
	}
	return nil
}

func (r *dishCacheRepository) listIngredients(ctx context.Context, entryID uuid.UUID) ([]models.CachedIngredient, error) {
	query := `
		SELECT id, cache_entry_id, name, amount, unit
		FROM dish_cache_ingredients
		WHERE cache_entry_id = $1
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cached ingredients: %w", err)
	}
	defer rows.Close()

	var out []models.CachedIngredient
	for rows.Next() {
		var ing models.CachedIngredient
		if err := rows.Scan(&ing.ID, &ing.CacheEntryID, &ing.Name, &ing.Amount, &ing.Unit); err != nil {
			return nil, fmt.Errorf("failed to scan cached ingredient: %w", err)
		}
		out = append(out, ing)
	}
	return out, rows.Err()
}
