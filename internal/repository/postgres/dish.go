package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"meal-planner/internal/models"
	"meal-planner/internal/repository"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type dishRepository struct {
	db *sql.DB
}

// NewDishRepository creates a new dish repository.
func NewDishRepository(db *sql.DB) repository.DishRepository {
	return &dishRepository{db: db}
}

func (r *dishRepository) Create(ctx context.Context, dish *models.Dish) (*models.Dish, error) {
	if dish.ID == uuid.Nil {
		dish.ID = uuid.New()
	}
	if dish.Status == "" {
		dish.Status = models.DishStatusProposed
	}

	query := `
		INSERT INTO dishes (id, group_id, name, status, date, proposed_by_id, recipe, calories, proteins, fats, carbs, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		dish.ID,
		dish.GroupID,
		dish.Name,
		dish.Status,
		dish.Date,
		dish.ProposedByID,
		dish.Recipe,
		dish.Nutrition.Calories,
		dish.Nutrition.Proteins,
		dish.Nutrition.Fats,
		dish.Nutrition.Carbs,
		time.Now(),
	).Scan(&dish.CreatedAt, &dish.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create dish: %w", err)
	}

	return dish, nil
}

const dishColumns = `id, group_id, name, status, date, proposed_by_id, COALESCE(recipe, ''), calories, proteins, fats, carbs, created_at, updated_at`

func (r *dishRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Dish, error) {
	query := `SELECT ` + dishColumns + ` FROM dishes WHERE id = $1`

	dish, err := scanDish(r.db.QueryRowContext(ctx, query, id))
	if err != nil || dish == nil {
		return dish, err
	}

	ingredients, err := r.listIngredients(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	dish.Ingredients = ingredients[id]
	return dish, nil
}

func (r *dishRepository) ListByGroup(ctx context.Context, groupID uuid.UUID, from, to *time.Time) ([]models.Dish, error) {
	query := `SELECT ` + dishColumns + ` FROM dishes
		WHERE group_id = $1
		  AND ($2::timestamptz IS NULL OR date >= $2)
		  AND ($3::timestamptz IS NULL OR date <= $3)
		ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, groupID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list dishes: %w", err)
	}
	defer rows.Close()

	var dishes []models.Dish
	var ids []uuid.UUID
	for rows.Next() {
		dish, err := scanDishRows(rows)
		if err != nil {
			return nil, err
		}
		dishes = append(dishes, *dish)
		ids = append(ids, dish.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return dishes, nil
	}

	ingredients, err := r.listIngredients(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range dishes {
		dishes[i].Ingredients = ingredients[dishes[i].ID]
	}
	return dishes, nil
}

func (r *dishRepository) Update(ctx context.Context, dish *models.Dish) error {
	query := `
		UPDATE dishes
		SET name = $2, status = $3, date = $4, updated_at = $5
		WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, dish.ID, dish.Name, dish.Status, dish.Date, time.Now()); err != nil {
		return fmt.Errorf("failed to update dish: %w", err)
	}
	return nil
}

// UpdateAIContent applies only the generation-derived fields. Empty recipe
// and nil nutrition values leave the stored columns untouched.
func (r *dishRepository) UpdateAIContent(ctx context.Context, dishID uuid.UUID, recipe string, nutrition models.Nutrition) error {
	query := `
		UPDATE dishes
		SET recipe = COALESCE(NULLIF($2, ''), recipe),
		    calories = COALESCE($3, calories),
		    proteins = COALESCE($4, proteins),
		    fats = COALESCE($5, fats),
		    carbs = COALESCE($6, carbs),
		    updated_at = $7
		WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query,
		dishID,
		recipe,
		nutrition.Calories,
		nutrition.Proteins,
		nutrition.Fats,
		nutrition.Carbs,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to update dish AI content: %w", err)
	}
	return nil
}

func (r *dishRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM dishes WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete dish: %w", err)
	}
	return nil
}

func (r *dishRepository) InsertIngredients(ctx context.Context, dishID uuid.UUID, ingredients []models.DishIngredient) error {
	query := `
		INSERT INTO dish_ingredients (id, dish_id, name, amount, unit, purchased)
		VALUES ($1, $2, $3, $4, $5, $6)`

	for i := range ingredients {
		if ingredients[i].ID == uuid.Nil {
			ingredients[i].ID = uuid.New()
		}
		ingredients[i].DishID = dishID
		_, err := r.db.ExecContext(ctx, query,
			ingredients[i].ID,
			dishID,
			ingredients[i].Name,
			ingredients[i].Amount,
			ingredients[i].Unit,
			ingredients[i].Purchased,
		)
		if err != nil {
			return fmt.Errorf("failed to insert dish ingredient: %w", err)
		}
	}
	return nil
}

func (r *dishRepository) SetIngredientPurchased(ctx context.Context, ingredientID uuid.UUID, purchased bool) (*models.DishIngredient, error) {
	query := `
		UPDATE dish_ingredients
		SET purchased = $2
		WHERE id = $1
		RETURNING id, dish_id, name, amount, unit, purchased`

	ing := &models.DishIngredient{}
	err := r.db.QueryRowContext(ctx, query, ingredientID, purchased).Scan(
		&ing.ID, &ing.DishID, &ing.Name, &ing.Amount, &ing.Unit, &ing.Purchased,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to set ingredient purchased: %w", err)
	}
	return ing, nil
}

func (r *dishRepository) GetIngredient(ctx context.Context, ingredientID uuid.UUID) (*models.DishIngredient, error) {
	query := `
		SELECT id, dish_id, name, amount, unit, purchased
		FROM dish_ingredients
		WHERE id = $1`

	ing := &models.DishIngredient{}
	err := r.db.QueryRowContext(ctx, query, ingredientID).Scan(
		&ing.ID, &ing.DishID, &ing.Name, &ing.Amount, &ing.Unit, &ing.Purchased,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get dish ingredient: %w", err)
	}
	return ing, nil
}

func (r *dishRepository) listIngredients(ctx context.Context, dishIDs []uuid.UUID) (map[uuid.UUID][]models.DishIngredient, error) {
	query := `
		SELECT id, dish_id, name, amount, unit, purchased
		FROM dish_ingredients
		WHERE dish_id = ANY($1)
		ORDER BY id`

	ids := make([]string, len(dishIDs))
	for i, id := range dishIDs {
		ids[i] = id.String()
	}

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to list dish ingredients: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]models.DishIngredient)
	for rows.Next() {
		var ing models.DishIngredient
		if err := rows.Scan(&ing.ID, &ing.DishID, &ing.Name, &ing.Amount, &ing.Unit, &ing.Purchased); err != nil {
			return nil, fmt.Errorf("failed to scan dish ingredient: %w", err)
		}
		out[ing.DishID] = append(out[ing.DishID], ing)
	}
	return out, rows.Err()
}

type dishScanner interface {
	Scan(dest ...interface{}) error
}

func scanDish(row *sql.Row) (*models.Dish, error) {
	dish, err := scanDishFrom(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return dish, err
}

func scanDishRows(rows *sql.Rows) (*models.Dish, error) {
	return scanDishFrom(rows)
}

func scanDishFrom(s dishScanner) (*models.Dish, error) {
	dish := &models.Dish{}
	err := s.Scan(
		&dish.ID,
		&dish.GroupID,
		&dish.Name,
		&dish.Status,
		&dish.Date,
		&dish.ProposedByID,
		&dish.Recipe,
		&dish.Nutrition.Calories,
		&dish.Nutrition.Proteins,
		&dish.Nutrition.Fats,
		&dish.Nutrition.Carbs,
		&dish.CreatedAt,
		&dish.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan dish: %w", err)
	}
	return dish, nil
}
