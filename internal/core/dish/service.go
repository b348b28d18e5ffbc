package dish

import (
	"context"
	"time"

	"meal-planner/internal/core/ai"
	"meal-planner/internal/models"
	"meal-planner/internal/pkg/common"
	"meal-planner/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notifier pushes group events out-of-band (Telegram bot messages).
// Implementations must never block or fail the calling operation.
type Notifier interface {
	DishProposed(group *models.Group, dish *models.Dish, by *models.User)
	DishSelected(group *models.Group, dish *models.Dish, by *models.User)
}

// MembershipChecker guards group-scoped access.
type MembershipChecker interface {
	RequireMember(ctx context.Context, groupID, userID uuid.UUID) error
}

// Service owns the dish lifecycle and the write-through of generated
// content onto dish records.
type Service struct {
	dishes   repository.DishRepository
	groups   repository.GroupRepository
	users    repository.UserRepository
	resolver *ai.Resolver
	access   MembershipChecker
	notifier Notifier
}

// NewService creates a new dish service. notifier may be nil.
func NewService(
	dishes repository.DishRepository,
	groups repository.GroupRepository,
	users repository.UserRepository,
	resolver *ai.Resolver,
	access MembershipChecker,
	notifier Notifier,
) *Service {
	return &Service{
		dishes:   dishes,
		groups:   groups,
		users:    users,
		resolver: resolver,
		access:   access,
		notifier: notifier,
	}
}

// CreateRequest carries a new dish proposal.
type CreateRequest struct {
	Name string     `json:"name" binding:"required,max=200"`
	Date *time.Time `json:"date"`
}

// CreateResult pairs the stored dish with the outcome of its AI
// resolution so the transport layer can shape the response.
type CreateResult struct {
	Dish       *models.Dish
	Resolution ai.Resolution
}

// Create stores a dish proposal and, when the group has the AI feature
// enabled, resolves its recipe, nutrition and ingredients. A not-food
// rejection removes the stored dish and surfaces the model's message;
// any other generation failure leaves the dish without AI content.
func (s *Service) Create(ctx context.Context, groupID, userID uuid.UUID, req CreateRequest) (*CreateResult, error) {
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

	dish := &models.Dish{
		GroupID:      groupID,
		Name:         req.Name,
		Status:       models.DishStatusProposed,
		Date:         req.Date,
		ProposedByID: userID,
	}
	dish, err = s.dishes.Create(ctx, dish)
	if err != nil {
		return nil, common.NewPersistenceError("dish create", err)
	}

	res := s.resolver.Resolve(ctx, ai.ResolveRequest{
		DishName: req.Name,
		Language: group.Language,
		UseAI:    group.UseAI,
	})

	switch res.Status {
	case ai.StatusRejected:
		// The placeholder must not survive a not-food rejection.
		if err := s.dishes.Delete(ctx, dish.ID); err != nil {
			common.LogError("failed to delete rejected dish",
				zap.Error(err),
				zap.String("dish_id", dish.ID.String()),
			)
		}
		return nil, res.ValidationErr()

	case ai.StatusOK:
		s.applyPayload(ctx, dish, &res.Payload)

	case ai.StatusFailed:
		common.LogWarn("dish created without AI content",
			zap.String("dish_id", dish.ID.String()),
			zap.String("reason", res.Reason),
		)
	}

	s.notify(ctx, group, dish, userID, func(n Notifier, g *models.Group, d *models.Dish, u *models.User) {
		n.DishProposed(g, d, u)
	})

	return &CreateResult{Dish: dish, Resolution: res}, nil
}

// applyPayload writes generated content through onto the dish record.
// The two writes are independent: a failed ingredient insert still
// leaves the recipe and nutrition in place, and vice versa.
func (s *Service) applyPayload(ctx context.Context, dish *models.Dish, payload *ai.Payload) {
	if err := s.dishes.UpdateAIContent(ctx, dish.ID, payload.Recipe, payload.Nutrition); err != nil {
		common.LogError("failed to store generated recipe",
			zap.Error(err),
			zap.String("dish_id", dish.ID.String()),
		)
	} else {
		dish.Recipe = payload.Recipe
		dish.Nutrition = payload.Nutrition
	}

	ingredients := make([]models.DishIngredient, 0, len(payload.Ingredients))
	for _, ing := range payload.Ingredients {
		ingredients = append(ingredients, models.DishIngredient{
			Name:   ing.Name,
			Amount: ing.Amount,
			Unit:   ing.Unit,
		})
	}
	if len(ingredients) == 0 {
		return
	}
	if err := s.dishes.InsertIngredients(ctx, dish.ID, ingredients); err != nil {
		common.LogError("failed to store generated ingredients",
			zap.Error(err),
			zap.String("dish_id", dish.ID.String()),
		)
		return
	}
	dish.Ingredients = ingredients
}

// Get returns one dish with its ingredients.
func (s *Service) Get(ctx context.Context, dishID, userID uuid.UUID) (*models.Dish, error) {
	dish, err := s.dishes.GetByID(ctx, dishID)
	if err != nil {
		return nil, common.NewPersistenceError("dish lookup", err)
	}
	if dish == nil {
		return nil, common.ErrNotFound
	}
	if err := s.access.RequireMember(ctx, dish.GroupID, userID); err != nil {
		return nil, err
	}
	return dish, nil
}

// List returns a group's dishes, optionally bounded by date.
func (s *Service) List(ctx context.Context, groupID, userID uuid.UUID, from, to *time.Time) ([]models.Dish, error) {
	if err := s.access.RequireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}
	dishes, err := s.dishes.ListByGroup(ctx, groupID, from, to)
	if err != nil {
		return nil, common.NewPersistenceError("dish list", err)
	}
	return dishes, nil
}

// UpdateRequest carries a partial dish update; nil fields are unchanged.
type UpdateRequest struct {
	Name   *string    `json:"name" binding:"omitempty,max=200"`
	Status *string    `json:"status" binding:"omitempty,oneof=proposed selected purchased"`
	Date   *time.Time `json:"date"`
}

// Update applies a partial update. Selecting a dish notifies the group.
func (s *Service) Update(ctx context.Context, dishID, userID uuid.UUID, req UpdateRequest) (*models.Dish, error) {
	dish, err := s.Get(ctx, dishID, userID)
	if err != nil {
		return nil, err
	}

	selected := false
	if req.Name != nil {
		dish.Name = *req.Name
	}
	if req.Status != nil {
		selected = *req.Status == models.DishStatusSelected && dish.Status != models.DishStatusSelected
		dish.Status = *req.Status
	}
	if req.Date != nil {
		dish.Date = req.Date
	}

	if err := s.dishes.Update(ctx, dish); err != nil {
		return nil, common.NewPersistenceError("dish update", err)
	}

	if selected {
		group, err := s.groups.GetByID(ctx, dish.GroupID)
		if err == nil && group != nil {
			s.notify(ctx, group, dish, userID, func(n Notifier, g *models.Group, d *models.Dish, u *models.User) {
				n.DishSelected(g, d, u)
			})
		}
	}

	return dish, nil
}

// Delete removes a dish and its ingredient rows.
func (s *Service) Delete(ctx context.Context, dishID, userID uuid.UUID) error {
	dish, err := s.Get(ctx, dishID, userID)
	if err != nil {
		return err
	}
	if err := s.dishes.Delete(ctx, dish.ID); err != nil {
		return common.NewPersistenceError("dish delete", err)
	}
	return nil
}

// SetIngredientPurchased toggles one generated ingredient line.
func (s *Service) SetIngredientPurchased(ctx context.Context, ingredientID, userID uuid.UUID, purchased bool) (*models.DishIngredient, error) {
	ing, err := s.dishes.GetIngredient(ctx, ingredientID)
	if err != nil {
		return nil, common.NewPersistenceError("ingredient lookup", err)
	}
	if ing == nil {
		return nil, common.ErrNotFound
	}

	dish, err := s.dishes.GetByID(ctx, ing.DishID)
	if err != nil {
		return nil, common.NewPersistenceError("dish lookup", err)
	}
	if dish == nil {
		return nil, common.ErrNotFound
	}
	if err := s.access.RequireMember(ctx, dish.GroupID, userID); err != nil {
		return nil, err
	}

	updated, err := s.dishes.SetIngredientPurchased(ctx, ingredientID, purchased)
	if err != nil {
		return nil, common.NewPersistenceError("ingredient update", err)
	}
	if updated == nil {
		return nil, common.ErrNotFound
	}
	return updated, nil
}

func (s *Service) notify(ctx context.Context, group *models.Group, dish *models.Dish, actorID uuid.UUID, send func(Notifier, *models.Group, *models.Dish, *models.User)) {
	if s.notifier == nil {
		return
	}
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil || actor == nil {
		common.LogDebug("notification skipped, actor lookup failed", zap.Error(err))
		return
	}
	send(s.notifier, group, dish, actor)
}
