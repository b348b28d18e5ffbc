package group

import (
	"context"
	"errors"
	"testing"

	"meal-planner/internal/models"
	"meal-planner/internal/pkg/common"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGroupRepo struct {
	groups  map[uuid.UUID]*models.Group
	members map[uuid.UUID][]uuid.UUID
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{
		groups:  make(map[uuid.UUID]*models.Group),
		members: make(map[uuid.UUID][]uuid.UUID),
	}
}

func (r *fakeGroupRepo) Create(_ context.Context, group *models.Group, creatorID uuid.UUID) (*models.Group, error) {
	group.ID = uuid.New()
	r.groups[group.ID] = group
	r.members[group.ID] = []uuid.UUID{creatorID}
	return group, nil
}

func (r *fakeGroupRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Group, error) {
	return r.groups[id], nil
}

func (r *fakeGroupRepo) GetByInviteCode(_ context.Context, code string) (*models.Group, error) {
	for _, g := range r.groups {
		if g.InviteCode == code {
			return g, nil
		}
	}
	return nil, nil
}

func (r *fakeGroupRepo) GetByMember(_ context.Context, userID uuid.UUID) (*models.Group, error) {
	for gid, userIDs := range r.members {
		for _, uid := range userIDs {
			if uid == userID {
				return r.groups[gid], nil
			}
		}
	}
	return nil, nil
}

func (r *fakeGroupRepo) AddMember(_ context.Context, groupID, userID uuid.UUID) error {
	r.members[groupID] = append(r.members[groupID], userID)
	return nil
}

func (r *fakeGroupRepo) CountMembers(_ context.Context, groupID uuid.UUID) (int, error) {
	return len(r.members[groupID]), nil
}

func (r *fakeGroupRepo) IsMember(_ context.Context, groupID, userID uuid.UUID) (bool, error) {
	for _, uid := range r.members[groupID] {
		if uid == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeGroupRepo) ListMembers(_ context.Context, groupID uuid.UUID) ([]models.User, error) {
	users := make([]models.User, 0, len(r.members[groupID]))
	for _, uid := range r.members[groupID] {
		users = append(users, models.User{ID: uid})
	}
	return users, nil
}

func (r *fakeGroupRepo) UpdatePreferences(_ context.Context, groupID uuid.UUID, useAI *bool, language *string) error {
	g, ok := r.groups[groupID]
	if !ok {
		return errors.New("no such group")
	}
	if useAI != nil {
		g.UseAI = *useAI
	}
	if language != nil {
		g.Language = *language
	}
	return nil
}

func TestCreate_CreatorBecomesMember(t *testing.T) {
	svc := NewService(newFakeGroupRepo())
	creator := uuid.New()

	g, err := svc.Create(context.Background(), creator, CreateRequest{Type: models.GroupTypeCouple, Name: "Us"})
	require.NoError(t, err)
	assert.Len(t, g.InviteCode, inviteCodeLength)
	assert.True(t, g.UseAI)

	err = svc.RequireMember(context.Background(), g.ID, creator)
	assert.NoError(t, err)
}

func TestCreate_SecondGroupRejected(t *testing.T) {
	svc := NewService(newFakeGroupRepo())
	creator := uuid.New()

	_, err := svc.Create(context.Background(), creator, CreateRequest{Type: models.GroupTypeCouple, Name: "Us"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), creator, CreateRequest{Type: models.GroupTypeHoliday, Name: "NYE"})
	assert.ErrorIs(t, err, common.ErrAlreadyInGroup)
}

func TestJoin_CoupleCapsAtTwo(t *testing.T) {
	svc := NewService(newFakeGroupRepo())

	g, err := svc.Create(context.Background(), uuid.New(), CreateRequest{Type: models.GroupTypeCouple, Name: "Us"})
	require.NoError(t, err)

	joined, err := svc.Join(context.Background(), uuid.New(), g.InviteCode)
	require.NoError(t, err)
	assert.Len(t, joined.Members, 2)

	_, err = svc.Join(context.Background(), uuid.New(), g.InviteCode)
	assert.ErrorIs(t, err, common.ErrGroupFull)
}

func TestJoin_HolidayUncapped(t *testing.T) {
	svc := NewService(newFakeGroupRepo())
	creator := uuid.New()

	g, err := svc.Create(context.Background(), creator, CreateRequest{Type: models.GroupTypeHoliday, Name: "NYE"})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err := svc.Join(context.Background(), uuid.New(), g.InviteCode)
		require.NoError(t, err)
	}

	mine, err := svc.Get(context.Background(), g.ID, creator)
	require.NoError(t, err)
	assert.Len(t, mine.Members, 6)
}

func TestJoin_UnknownInvite(t *testing.T) {
	svc := NewService(newFakeGroupRepo())

	_, err := svc.Join(context.Background(), uuid.New(), "NOSUCHCODE")
	assert.ErrorIs(t, err, common.ErrInvalidInvite)
}

func TestJoin_AlreadyMember(t *testing.T) {
	svc := NewService(newFakeGroupRepo())
	creator := uuid.New()

	g, err := svc.Create(context.Background(), creator, CreateRequest{Type: models.GroupTypeCouple, Name: "Us"})
	require.NoError(t, err)

	_, err = svc.Join(context.Background(), creator, g.InviteCode)
	assert.ErrorIs(t, err, common.ErrAlreadyInGroup)
}

func TestUpdatePreferences_Partial(t *testing.T) {
	svc := NewService(newFakeGroupRepo())
	creator := uuid.New()

	g, err := svc.Create(context.Background(), creator, CreateRequest{Type: models.GroupTypeCouple, Name: "Us", Language: "ru"})
	require.NoError(t, err)

	off := false
	updated, err := svc.UpdatePreferences(context.Background(), g.ID, creator, PreferencesRequest{UseAI: &off})
	require.NoError(t, err)
	assert.False(t, updated.UseAI)
	assert.Equal(t, models.LangRU, updated.Language, "language untouched by a use_ai-only update")
}

func TestUpdatePreferences_NonMemberRejected(t *testing.T) {
	svc := NewService(newFakeGroupRepo())

	g, err := svc.Create(context.Background(), uuid.New(), CreateRequest{Type: models.GroupTypeCouple, Name: "Us"})
	require.NoError(t, err)

	off := false
	_, err = svc.UpdatePreferences(context.Background(), g.ID, uuid.New(), PreferencesRequest{UseAI: &off})
	require.Error(t, err)
	assert.True(t, common.IsAuthorizationError(err))
}

func TestInviteCodes_Distinct(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := generateInviteCode()
		require.NoError(t, err)
		require.Len(t, code, inviteCodeLength)
		assert.False(t, seen[code])
		seen[code] = true
	}
}
