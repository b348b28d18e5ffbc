package group

import (
	"context"
	"crypto/rand"
	"fmt"

	"meal-planner/internal/models"
	"meal-planner/internal/pkg/common"
	"meal-planner/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// coupleMemberCap is the hard member limit for couple groups. Holiday
// groups are uncapped.
const coupleMemberCap = 2

// inviteAlphabet excludes look-alike characters so codes survive being
// read aloud.
const inviteAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const inviteCodeLength = 8

// Service owns group lifecycle, membership and preferences.
type Service struct {
	groups repository.GroupRepository
}

// NewService creates a new group service.
func NewService(groups repository.GroupRepository) *Service {
	return &Service{groups: groups}
}

// CreateRequest carries the fields of a new group.
type CreateRequest struct {
	Type     string `json:"type" binding:"required,oneof=couple holiday"`
	Name     string `json:"name" binding:"required,max=100"`
	Language string `json:"language"`
}

// Create creates a group with the caller as its first member. A user can
// belong to at most one group at a time.
func (s *Service) Create(ctx context.Context, creatorID uuid.UUID, req CreateRequest) (*models.Group, error) {
	existing, err := s.groups.GetByMember(ctx, creatorID)
	if err != nil {
		return nil, common.NewPersistenceError("group lookup", err)
	}
	if existing != nil {
		return nil, common.ErrAlreadyInGroup
	}

	code, err := generateInviteCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate invite code: %w", err)
	}

	group := &models.Group{
		Type:       req.Type,
		Name:       req.Name,
		InviteCode: code,
		UseAI:      true,
		Language:   models.NormalizeLang(req.Language),
	}

	created, err := s.groups.Create(ctx, group, creatorID)
	if err != nil {
		return nil, common.NewPersistenceError("group create", err)
	}

	common.LogInfo("group created",
		zap.String("group_id", created.ID.String()),
		zap.String("type", created.Type),
	)
	return created, nil
}

// Join adds the caller to the group behind an invite code. Couples cap at
// two members; joining twice is a no-op conflict.
func (s *Service) Join(ctx context.Context, userID uuid.UUID, inviteCode string) (*models.Group, error) {
	group, err := s.groups.GetByInviteCode(ctx, inviteCode)
	if err != nil {
		return nil, common.NewPersistenceError("group lookup", err)
	}
	if group == nil {
		return nil, common.ErrInvalidInvite
	}

	member, err := s.groups.IsMember(ctx, group.ID, userID)
	if err != nil {
		return nil, common.NewPersistenceError("membership check", err)
	}
	if member {
		return nil, common.ErrAlreadyInGroup
	}

	existing, err := s.groups.GetByMember(ctx, userID)
	if err != nil {
		return nil, common.NewPersistenceError("group lookup", err)
	}
	if existing != nil {
		return nil, common.ErrAlreadyInGroup
	}

	if group.Type == models.GroupTypeCouple {
		count, err := s.groups.CountMembers(ctx, group.ID)
		if err != nil {
			return nil, common.NewPersistenceError("member count", err)
		}
		if count >= coupleMemberCap {
			return nil, common.ErrGroupFull
		}
	}

	if err := s.groups.AddMember(ctx, group.ID, userID); err != nil {
		return nil, common.NewPersistenceError("add member", err)
	}

	common.LogInfo("member joined group",
		zap.String("group_id", group.ID.String()),
		zap.String("user_id", userID.String()),
	)

	return s.Get(ctx, group.ID, userID)
}

// Get returns a group with its members. The caller must be a member.
func (s *Service) Get(ctx context.Context, groupID, callerID uuid.UUID) (*models.Group, error) {
	if err := s.RequireMember(ctx, groupID, callerID); err != nil {
		return nil, err
	}

	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, common.NewPersistenceError("group lookup", err)
	}
	if group == nil {
		return nil, common.ErrNotFound
	}

	members, err := s.groups.ListMembers(ctx, groupID)
	if err != nil {
		return nil, common.NewPersistenceError("member list", err)
	}
	group.Members = members
	return group, nil
}

// GetMine returns the caller's group, or nil when they have none.
func (s *Service) GetMine(ctx context.Context, userID uuid.UUID) (*models.Group, error) {
	group, err := s.groups.GetByMember(ctx, userID)
	if err != nil {
		return nil, common.NewPersistenceError("group lookup", err)
	}
	if group == nil {
		return nil, nil
	}

	members, err := s.groups.ListMembers(ctx, group.ID)
	if err != nil {
		return nil, common.NewPersistenceError("member list", err)
	}
	group.Members = members
	return group, nil
}

// PreferencesRequest carries a partial preferences update; nil fields are
// left unchanged.
type PreferencesRequest struct {
	UseAI    *bool   `json:"use_ai"`
	Language *string `json:"language" binding:"omitempty,oneof=en ru"`
}

// UpdatePreferences applies a partial preferences update for a member.
func (s *Service) UpdatePreferences(ctx context.Context, groupID, callerID uuid.UUID, req PreferencesRequest) (*models.Group, error) {
	if err := s.RequireMember(ctx, groupID, callerID); err != nil {
		return nil, err
	}

	if req.Language != nil {
		normalized := models.NormalizeLang(*req.Language)
		req.Language = &normalized
	}

	if err := s.groups.UpdatePreferences(ctx, groupID, req.UseAI, req.Language); err != nil {
		return nil, common.NewPersistenceError("preferences update", err)
	}

	return s.Get(ctx, groupID, callerID)
}

// RequireMember returns an authorization error unless userID belongs to
// the group.
func (s *Service) RequireMember(ctx context.Context, groupID, userID uuid.UUID) error {
	member, err := s.groups.IsMember(ctx, groupID, userID)
	if err != nil {
		return common.NewPersistenceError("membership check", err)
	}
	if !member {
		return common.NewAuthorizationError("caller is not a member of this group")
	}
	return nil
}

func generateInviteCode() (string, error) {
	buf := make([]byte, inviteCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i := range buf {
		buf[i] = inviteAlphabet[int(buf[i])%len(inviteAlphabet)]
	}
	return string(buf), nil
}
