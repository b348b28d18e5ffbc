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

type groupRepository struct {
	db *sql.DB
}

// NewGroupRepository creates a new group repository.
func NewGroupRepository(db *sql.DB) repository.GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) Create(ctx context.Context, group *models.Group, creatorID uuid.UUID) (*models.Group, error) {
	if group.ID == uuid.Nil {
		group.ID = uuid.New()
	}
	group.Language = models.NormalizeLang(group.Language)

	query := `
		INSERT INTO groups (id, type, name, invite_code, use_ai, language, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		group.ID,
		group.Type,
		group.Name,
		group.InviteCode,
		group.UseAI,
		group.Language,
		time.Now(),
	).Scan(&group.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	if err := r.AddMember(ctx, group.ID, creatorID); err != nil {
		return nil, err
	}

	return group, nil
}

const groupColumns = `id, type, name, invite_code, use_ai, language, created_at`

func (r *groupRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Group, error) {
	query := `SELECT ` + groupColumns + ` FROM groups WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *groupRepository) GetByInviteCode(ctx context.Context, code string) (*models.Group, error) {
	query := `SELECT ` + groupColumns + ` FROM groups WHERE invite_code = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, code))
}

func (r *groupRepository) GetByMember(ctx context.Context, userID uuid.UUID) (*models.Group, error) {
	query := `
		SELECT g.id, g.type, g.name, g.invite_code, g.use_ai, g.language, g.created_at
		FROM groups g
		JOIN group_members gm ON gm.group_id = g.id
		WHERE gm.user_id = $1
		ORDER BY g.created_at DESC
		LIMIT 1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, userID))
}

func (r *groupRepository) AddMember(ctx context.Context, groupID, userID uuid.UUID) error {
	query := `
		INSERT INTO group_members (group_id, user_id, joined_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (group_id, user_id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, groupID, userID, time.Now()); err != nil {
		return fmt.Errorf("failed to add group member: %w", err)
	}
	return nil
}

func (r *groupRepository) CountMembers(ctx context.Context, groupID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM group_members WHERE group_id = $1`, groupID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count group members: %w", err)
	}
	return count, nil
}

func (r *groupRepository) IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM group_members WHERE group_id = $1 AND user_id = $2)`,
		groupID, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check group membership: %w", err)
	}
	return exists, nil
}

func (r *groupRepository) ListMembers(ctx context.Context, groupID uuid.UUID) ([]models.User, error) {
	query := `
		SELECT u.id, u.telegram_id, u.first_name, u.username, u.language, u.created_at
		FROM users u
		JOIN group_members gm ON gm.user_id = u.id
		WHERE gm.group_id = $1
		ORDER BY gm.joined_at`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list group members: %w", err)
	}
	defer rows.Close()

	var members []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.TelegramID, &u.FirstName, &u.Username, &u.Language, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}
		members = append(members, u)
	}
	return members, rows.Err()
}

func (r *groupRepository) UpdatePreferences(ctx context.Context, groupID uuid.UUID, useAI *bool, language *string) error {
	query := `
		UPDATE groups
		SET use_ai = COALESCE($2, use_ai),
		    language = COALESCE($3, language)
		WHERE id = $1`

	var langValue interface{}
	if language != nil {
		normalized := models.NormalizeLang(*language)
		langValue = normalized
	}

	if _, err := r.db.ExecContext(ctx, query, groupID, useAI, langValue); err != nil {
		return fmt.Errorf("failed to update group preferences: %w", err)
	}
	return nil
}

func (r *groupRepository) scanOne(row *sql.Row) (*models.Group, error) {
	group := &models.Group{}
	err := row.Scan(
		&group.ID,
		&group.Type,
		&group.Name,
		&group.InviteCode,
		&group.UseAI,
		&group.Language,
		&group.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return group, nil
}
