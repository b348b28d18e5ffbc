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

type manualIngredientRepository struct {
	db *sql.DB
}

// NewManualIngredientRepository creates a new manual ingredient repository.
func NewManualIngredientRepository(db *sql.DB) repository.ManualIngredientRepository {
	return &manualIngredientRepository{db: db}
}

const manualColumns = `id, group_id, name, amount, unit, purchased, added_by_id, created_at`

func (r *manualIngredientRepository) Create(ctx context.Context, item *models.ManualIngredient) (*models.ManualIngredient, error) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}

	query := `
		INSERT INTO manual_ingredients (id, group_id, name, amount, unit, purchased, added_by_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		item.ID,
		item.GroupID,
		item.Name,
		item.Amount,
		item.Unit,
		item.Purchased,
		item.AddedByID,
		time.Now(),
	).Scan(&item.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create manual ingredient: %w", err)
	}
	return item, nil
}

func (r *manualIngredientRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ManualIngredient, error) {
	query := `SELECT ` + manualColumns + ` FROM manual_ingredients WHERE id = $1`

	item := &models.ManualIngredient{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID, &item.GroupID, &item.Name, &item.Amount, &item.Unit,
		&item.Purchased, &item.AddedByID, &item.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get manual ingredient: %w", err)
	}
	return item, nil
}

func (r *manualIngredientRepository) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]models.ManualIngredient, error) {
	query := `SELECT ` + manualColumns + ` FROM manual_ingredients WHERE group_id = $1 ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list manual ingredients: %w", err)
	}
	defer rows.Close()

	var items []models.ManualIngredient
	for rows.Next() {
		var item models.ManualIngredient
		err := rows.Scan(
			&item.ID, &item.GroupID, &item.Name, &item.Amount, &item.Unit,
			&item.Purchased, &item.AddedByID, &item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan manual ingredient: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *manualIngredientRepository) Update(ctx context.Context, item *models.ManualIngredient) error {
	query := `
		UPDATE manual_ingredients
		SET name = $2, amount = $3, unit = $4, purchased = $5
		WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, item.ID, item.Name, item.Amount, item.Unit, item.Purchased); err != nil {
		return fmt.Errorf("failed to update manual ingredient: %w", err)
	}
	return nil
}

func (r *manualIngredientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM manual_ingredients WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete manual ingredient: %w", err)
	}
	return nil
}
