package auth

import (
	"context"
	"testing"
	"time"

	"meal-planner/internal/models"
	"meal-planner/internal/pkg/common"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	byTelegramID map[int64]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byTelegramID: make(map[int64]*models.User)}
}

func (r *fakeUserRepo) UpsertByTelegramID(_ context.Context, user *models.User) (*models.User, error) {
	if existing, ok := r.byTelegramID[user.TelegramID]; ok {
		existing.FirstName = user.FirstName
		existing.Username = user.Username
		return existing, nil
	}
	user.ID = uuid.New()
	r.byTelegramID[user.TelegramID] = user
	return user, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	for _, u := range r.byTelegramID {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByTelegramID(_ context.Context, telegramID int64) (*models.User, error) {
	return r.byTelegramID[telegramID], nil
}

func TestParseToken_RoundTrip(t *testing.T) {
	svc := NewService(newFakeUserRepo(), "token", time.Hour, "test-secret", time.Hour)
	userID := uuid.New()

	signed, err := svc.signFor(userID)
	require.NoError(t, err)

	parsed, err := svc.ParseToken(signed)
	require.NoError(t, err)
	assert.Equal(t, userID, parsed)
}

func TestParseToken_WrongSecret(t *testing.T) {
	issuer := NewService(newFakeUserRepo(), "token", time.Hour, "secret-a", time.Hour)
	verifier := NewService(newFakeUserRepo(), "token", time.Hour, "secret-b", time.Hour)

	signed, err := issuer.signFor(uuid.New())
	require.NoError(t, err)

	_, err = verifier.ParseToken(signed)
	require.Error(t, err)
	assert.True(t, common.IsAuthorizationError(err))
}

func TestParseToken_Expired(t *testing.T) {
	svc := NewService(newFakeUserRepo(), "token", time.Hour, "test-secret", -time.Minute)

	signed, err := svc.signFor(uuid.New())
	require.NoError(t, err)

	_, err = svc.ParseToken(signed)
	require.Error(t, err)
	assert.True(t, common.IsAuthorizationError(err))
}

func TestParseToken_Garbage(t *testing.T) {
	svc := NewService(newFakeUserRepo(), "token", time.Hour, "test-secret", time.Hour)

	_, err := svc.ParseToken("not-a-jwt")
	require.Error(t, err)
	assert.True(t, common.IsAuthorizationError(err))
}
