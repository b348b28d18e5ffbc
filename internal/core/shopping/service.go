package shopping

import (
	"context"

	"meal-planner/internal/models"
	"meal-planner/internal/pkg/common"
	"meal-planner/internal/repository"

	"github.com/google/uuid"
)

// MembershipChecker guards group-scoped access.
type MembershipChecker interface {
	RequireMember(ctx context.Context, groupID, userID uuid.UUID) error
}

// Service assembles the aggregated shopping list and owns the manual
// ingredient lines feeding into it.
type Service struct {
	dishes repository.DishRepository
	manual repository.ManualIngredientRepository
	groups repository.GroupRepository
	access MembershipChecker
}

// NewService creates a new shopping list service.
func NewService(
	dishes repository.DishRepository,
	manual repository.ManualIngredientRepository,
	groups repository.GroupRepository,
	access MembershipChecker,
) *Service {
	return &Service{dishes: dishes, manual: manual, groups: groups, access: access}
}

// ShoppingList is the categorized aggregation served to the client.
// Categories holds only non-empty buckets, in fixed category order.
type ShoppingList struct {
	Categories []CategoryBucket `json:"categories"`
	TotalItems int              `json:"total_items"`
}

// CategoryBucket is one category's slice of the list.
type CategoryBucket struct {
	Category Category         `json:"category"`
	Items    []AggregatedItem `json:"items"`
}

// List builds the shopping list for a group: selected dishes' ingredients
// merged with manual lines, aggregated and categorized, sorted with the
// group's language collation.
func (s *Service) List(ctx context.Context, groupID, userID uuid.UUID) (*ShoppingList, error) {
	if err := s.access.RequireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}

	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, common.NewPersistenceError("group lookup", err)
	}
	if group == nil {
		return nil, common.ErrNotFound
	}

	dishes, err := s.dishes.ListByGroup(ctx, groupID, nil, nil)
	if err != nil {
		return nil, common.NewPersistenceError("dish list", err)
	}
	manual, err := s.manual.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, common.NewPersistenceError("manual ingredient list", err)
	}

	items := Aggregate(dishes, manual)
	buckets := CategorizedList(items, group.Language)

	list := &ShoppingList{TotalItems: len(items)}
	for _, cat := range CategoryOrder {
		if bucket := buckets[cat]; len(bucket) > 0 {
			list.Categories = append(list.Categories, CategoryBucket{Category: cat, Items: bucket})
		}
	}
	return list, nil
}

// ListManual returns a group's hand-entered lines without aggregation.
func (s *Service) ListManual(ctx context.Context, groupID, userID uuid.UUID) ([]models.ManualIngredient, error) {
	if err := s.access.RequireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}
	items, err := s.manual.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, common.NewPersistenceError("manual ingredient list", err)
	}
	return items, nil
}

// ManualRequest carries a manual ingredient line.
type ManualRequest struct {
	Name   string `json:"name" binding:"required,max=200"`
	Amount string `json:"amount" binding:"max=50"`
	Unit   string `json:"unit" binding:"max=50"`
}

// AddManual stores a hand-entered ingredient line.
func (s *Service) AddManual(ctx context.Context, groupID, userID uuid.UUID, req ManualRequest) (*models.ManualIngredient, error) {
	if err := s.access.RequireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}

	item := &models.ManualIngredient{
		GroupID:   groupID,
		Name:      req.Name,
		Amount:    req.Amount,
		Unit:      req.Unit,
		AddedByID: userID,
	}
	item, err := s.manual.Create(ctx, item)
	if err != nil {
		return nil, common.NewPersistenceError("manual ingredient create", err)
	}
	return item, nil
}

// ManualUpdateRequest carries a partial manual line update.
type ManualUpdateRequest struct {
	Name      *string `json:"name" binding:"omitempty,max=200"`
	Amount    *string `json:"amount" binding:"omitempty,max=50"`
	Unit      *string `json:"unit" binding:"omitempty,max=50"`
	Purchased *bool   `json:"purchased"`
}

// UpdateManual applies a partial update to a manual line.
func (s *Service) UpdateManual(ctx context.Context, itemID, userID uuid.UUID, req ManualUpdateRequest) (*models.ManualIngredient, error) {
	item, err := s.getManual(ctx, itemID, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Amount != nil {
		item.Amount = *req.Amount
	}
	if req.Unit != nil {
		item.Unit = *req.Unit
	}
	if req.Purchased != nil {
		item.Purchased = *req.Purchased
	}

	if err := s.manual.Update(ctx, item); err != nil {
		return nil, common.NewPersistenceError("manual ingredient update", err)
	}
	return item, nil
}

// DeleteManual removes a manual line.
func (s *Service) DeleteManual(ctx context.Context, itemID, userID uuid.UUID) error {
	item, err := s.getManual(ctx, itemID, userID)
	if err != nil {
		return err
	}
	if err := s.manual.Delete(ctx, item.ID); err != nil {
		return common.NewPersistenceError("manual ingredient delete", err)
	}
	return nil
}

func (s *Service) getManual(ctx context.Context, itemID, userID uuid.UUID) (*models.ManualIngredient, error) {
	item, err := s.manual.GetByID(ctx, itemID)
	if err != nil {
		return nil, common.NewPersistenceError("manual ingredient lookup", err)
	}
	if item == nil {
		return nil, common.ErrNotFound
	}
	if err := s.access.RequireMember(ctx, item.GroupID, userID); err != nil {
		return nil, err
	}
	return item, nil
}
