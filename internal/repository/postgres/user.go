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

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) UpsertByTelegramID(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (id, telegram_id, first_name, username, language, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (telegram_id) DO UPDATE
		SET first_name = EXCLUDED.first_name,
		    username = EXCLUDED.username,
		    language = EXCLUDED.language
		RETURNING id, created_at`

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.Language = models.NormalizeLang(user.Language)

	err := r.db.QueryRowContext(ctx, query,
		user.ID,
		user.TelegramID,
		user.FirstName,
		user.Username,
		user.Language,
		time.Now(),
	).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	return user, nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `
		SELECT id, telegram_id, first_name, username, language, created_at
		FROM users
		WHERE id = $1`

	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *userRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	query := `
		SELECT id, telegram_id, first_name, username, language, created_at
		FROM users
		WHERE telegram_id = $1`

	return r.scanOne(r.db.QueryRowContext(ctx, query, telegramID))
}

func (r *userRepository) scanOne(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.TelegramID,
		&user.FirstName,
		&user.Username,
		&user.Language,
		&user.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
