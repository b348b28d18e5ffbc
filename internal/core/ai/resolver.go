package ai

import (
	"context"
	"fmt"
	"time"

	"meal-planner/internal/models"
	"meal-planner/internal/pkg/common"
	"meal-planner/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ResolveRequest is the (scope, dishName, lang) key of one resolution:
// one service serves couple dishes and holiday dishes alike.
type ResolveRequest struct {
	DishName string
	Language string
	// UseAI carries the owning group's preference. False short-circuits
	// the whole pipeline.
	UseAI bool
}

// Resolver runs the cache-resolution state machine: disabled check, hot
// and persistent cache lookup, generation, validation, cache persist.
// Write-through onto the dish record is the dish service's job.
type Resolver struct {
	generator Generator
	cacheRepo repository.DishCacheRepository
	hot       *HotCache
	disabled  bool
}

// NewResolver creates the resolution service. hot may be nil.
func NewResolver(generator Generator, cacheRepo repository.DishCacheRepository, hot *HotCache) *Resolver {
	return &Resolver{
		generator: generator,
		cacheRepo: cacheRepo,
		hot:       hot,
	}
}

// Disable turns every resolution into a skip, regardless of group
// preference. Used when the generation backend is not configured.
func (r *Resolver) Disable() {
	r.disabled = true
}

// Resolve returns exactly one tagged outcome. It never returns partial
// state: either the full payload is available (and persisted to the
// cache), or the status explains why not.
func (r *Resolver) Resolve(ctx context.Context, req ResolveRequest) Resolution {
	if r.disabled || !req.UseAI {
		resolutions.WithLabelValues(string(StatusSkipped)).Inc()
		return Resolution{Status: StatusSkipped}
	}

	lang := models.NormalizeLang(req.Language)
	normalized := NormalizeDishName(req.DishName)

	if res, ok := r.lookup(ctx, normalized, lang); ok {
		return res
	}

	res := r.generate(ctx, req.DishName, lang)
	resolutions.WithLabelValues(string(res.Status)).Inc()
	if res.Status != StatusOK {
		return res
	}

	r.persist(ctx, normalized, lang, &res.Payload)
	return res
}

// lookup tries the hot layer, then the persistent cache. A hit increments
// the usage counter fire-and-forget.
func (r *Resolver) lookup(ctx context.Context, normalized, lang string) (Resolution, bool) {
	if entryID, payload, err := r.hot.Get(ctx, normalized, lang); err == nil {
		cacheLookups.WithLabelValues("redis", "hit").Inc()
		common.LogCacheHit("redis", lang+":"+normalized)
		r.bumpUsage(entryID)
		resolutions.WithLabelValues(string(StatusOK)).Inc()
		return Resolution{Status: StatusOK, Payload: *payload, FromCache: true}, true
	}
	cacheLookups.WithLabelValues("redis", "miss").Inc()

	entry, err := r.cacheRepo.Find(ctx, normalized, lang)
	if err != nil {
		// Failing the store is not a miss: without a definitive answer we
		// would regenerate on every call, so treat it as a failed resolution.
		common.LogError("dish cache lookup failed",
			zap.Error(err),
			zap.String("name", normalized),
			zap.String("lang", lang),
		)
		resolutions.WithLabelValues(string(StatusFailed)).Inc()
		return Resolution{Status: StatusFailed, Reason: fmt.Sprintf("cache lookup: %v", err)}, true
	}
	if entry == nil {
		cacheLookups.WithLabelValues("postgres", "miss").Inc()
		common.LogCacheMiss("postgres", lang+":"+normalized)
		return Resolution{}, false
	}

	cacheLookups.WithLabelValues("postgres", "hit").Inc()
	common.LogCacheHit("postgres", lang+":"+normalized)

	payload := Payload{
		Recipe:    entry.Recipe,
		Nutrition: entry.Nutrition,
	}
	for _, ing := range entry.Ingredients {
		payload.Ingredients = append(payload.Ingredients, GeneratedIngredient{
			Name:   ing.Name,
			Amount: ing.Amount,
			Unit:   ing.Unit,
		})
	}

	r.bumpUsage(entry.ID)
	if err := r.hot.Set(ctx, normalized, lang, entry.ID, &payload); err != nil {
		common.LogDebug("hot cache set skipped", zap.Error(err))
	}

	resolutions.WithLabelValues(string(StatusOK)).Inc()
	return Resolution{Status: StatusOK, Payload: payload, FromCache: true}, true
}

// generate invokes the model and validates its output.
func (r *Resolver) generate(ctx context.Context, dishName, lang string) Resolution {
	prompt := BuildDishPrompt(dishName, lang)

	start := time.Now()
	rawText, err := r.generator.Generate(ctx, prompt)
	generationDuration.Observe(time.Since(start).Seconds())
	common.LogAICall(time.Since(start), err, "")

	if err != nil {
		return Resolution{
			Status: StatusFailed,
			Reason: fmt.Sprintf("generation backend: %v", err),
		}
	}

	return parsePayload(rawText, dishName, lang)
}

// persist upserts the cache row for a fresh generation. Cache write
// failures are logged and absorbed: the caller still gets the payload.
func (r *Resolver) persist(ctx context.Context, normalized, lang string, payload *Payload) {
	entry := &models.DishCacheEntry{
		NormalizedName: normalized,
		Language:       lang,
		Recipe:         payload.Recipe,
		Nutrition:      payload.Nutrition,
	}
	for _, ing := range payload.Ingredients {
		entry.Ingredients = append(entry.Ingredients, models.CachedIngredient{
			Name:   ing.Name,
			Amount: ing.Amount,
			Unit:   ing.Unit,
		})
	}

	saved, err := r.cacheRepo.Upsert(ctx, entry)
	if err != nil {
		common.LogError("dish cache upsert failed",
			zap.Error(err),
			zap.String("name", normalized),
			zap.String("lang", lang),
		)
		return
	}

	if err := r.hot.Set(ctx, normalized, lang, saved.ID, payload); err != nil {
		common.LogDebug("hot cache set skipped", zap.Error(err))
	}
}

// bumpUsage increments the usage counter without blocking resolution.
// A plain read-then-write: concurrent hits can under-count, which is
// accepted.
func (r *Resolver) bumpUsage(entryID uuid.UUID) {
	if entryID == uuid.Nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := r.cacheRepo.IncrementUsage(ctx, entryID); err != nil {
			common.LogWarn("usage counter increment failed",
				zap.Error(err),
				zap.String("entry_id", entryID.String()),
			)
		}
	}()
}
