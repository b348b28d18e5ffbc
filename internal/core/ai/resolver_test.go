package ai

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"meal-planner/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	mu       sync.Mutex
	response string
	err      error
	calls    int
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.response, f.err
}

func (f *fakeGenerator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeCacheRepo struct {
	mu      sync.Mutex
	entries map[string]*models.DishCacheEntry
	finds   int
	findErr error
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{entries: map[string]*models.DishCacheEntry{}}
}

func (f *fakeCacheRepo) key(name, lang string) string { return lang + ":" + name }

func (f *fakeCacheRepo) Find(ctx context.Context, name, lang string) (*models.DishCacheEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finds++
	if f.findErr != nil {
		return nil, f.findErr
	}
	entry, ok := f.entries[f.key(name, lang)]
	if !ok {
		return nil, nil
	}
	cp := *entry
	return &cp, nil
}

func (f *fakeCacheRepo) Upsert(ctx context.Context, entry *models.DishCacheEntry) (*models.DishCacheEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.entries[f.key(entry.NormalizedName, entry.Language)]; ok {
		entry.ID = existing.ID
		entry.UsageCount = existing.UsageCount
	} else {
		entry.ID = uuid.New()
	}
	f.entries[f.key(entry.NormalizedName, entry.Language)] = entry
	return entry, nil
}

func (f *fakeCacheRepo) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, entry := range f.entries {
		if entry.ID == id {
			entry.UsageCount++
			return nil
		}
	}
	return fmt.Errorf("entry not found")
}

func (f *fakeCacheRepo) usage(name, lang string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.entries[f.key(name, lang)]
	if !ok {
		return -1
	}
	return entry.UsageCount
}

func (f *fakeCacheRepo) findCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.finds
}

const okResponse = `{"ingredients":[{"name":"Onion","amount":"2","unit":"pcs"}],"recipe":"## Soup\nChop and boil.","calories":120,"proteins":4,"fats":2,"carbs":20}`

func TestResolveDisabledAISkips(t *testing.T) {
	gen := &fakeGenerator{response: okResponse}
	repo := newFakeCacheRepo()
	resolver := NewResolver(gen, repo, nil)

	res := resolver.Resolve(context.Background(), ResolveRequest{
		DishName: "Borscht",
		Language: models.LangRU,
		UseAI:    false,
	})

	assert.Equal(t, StatusSkipped, res.Status)
	// No cache lookup and no generation call was attempted.
	assert.Equal(t, 0, gen.callCount())
	assert.Equal(t, 0, repo.findCount())
}

func TestResolveGeneratesAndPersists(t *testing.T) {
	gen := &fakeGenerator{response: okResponse}
	repo := newFakeCacheRepo()
	resolver := NewResolver(gen, repo, nil)

	res := resolver.Resolve(context.Background(), ResolveRequest{
		DishName: "  Onion Soup ",
		Language: models.LangEN,
		UseAI:    true,
	})

	require.Equal(t, StatusOK, res.Status)
	assert.False(t, res.FromCache)
	require.Len(t, res.Payload.Ingredients, 1)
	assert.Equal(t, "Onion", res.Payload.Ingredients[0].Name)
	require.NotNil(t, res.Payload.Nutrition.Calories)
	assert.Equal(t, 120, *res.Payload.Nutrition.Calories)

	// Cache row is keyed by the lowercased, trimmed name.
	entry, err := repo.Find(context.Background(), "onion soup", models.LangEN)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "## Soup\nChop and boil.", entry.Recipe)
	require.Len(t, entry.Ingredients, 1)
}

func TestResolveCacheIdempotence(t *testing.T) {
	gen := &fakeGenerator{response: okResponse}
	repo := newFakeCacheRepo()
	resolver := NewResolver(gen, repo, nil)

	req := ResolveRequest{DishName: "Onion Soup", Language: models.LangEN, UseAI: true}

	first := resolver.Resolve(context.Background(), req)
	require.Equal(t, StatusOK, first.Status)
	require.Equal(t, 1, gen.callCount())
	usageBefore := repo.usage("onion soup", models.LangEN)

	second := resolver.Resolve(context.Background(), req)
	require.Equal(t, StatusOK, second.Status)
	assert.True(t, second.FromCache)
	assert.Equal(t, first.Payload, second.Payload)

	// No second generation; the usage counter grows by exactly one
	// (asynchronously).
	assert.Equal(t, 1, gen.callCount())
	require.Eventually(t, func() bool {
		return repo.usage("onion soup", models.LangEN) == usageBefore+1
	}, time.Second, 10*time.Millisecond)
}

func TestResolveRejectionPropagatesMessage(t *testing.T) {
	gen := &fakeGenerator{response: `{"error":"not_food","message":"«стих» не похоже на блюдо. Введите название блюда."}`}
	repo := newFakeCacheRepo()
	resolver := NewResolver(gen, repo, nil)

	res := resolver.Resolve(context.Background(), ResolveRequest{
		DishName: "write me a poem",
		Language: models.LangRU,
		UseAI:    true,
	})

	require.Equal(t, StatusRejected, res.Status)
	assert.Contains(t, res.Message, "не похоже на блюдо")

	// No cache row was created for the rejected name.
	entry, err := repo.Find(context.Background(), "write me a poem", models.LangRU)
	require.NoError(t, err)
	assert.Nil(t, entry)

	require.Error(t, res.ValidationErr())
}

func TestResolveRejectionFallbackMessage(t *testing.T) {
	gen := &fakeGenerator{response: `{"error":"not_food"}`}
	repo := newFakeCacheRepo()
	resolver := NewResolver(gen, repo, nil)

	res := resolver.Resolve(context.Background(), ResolveRequest{
		DishName: "write me a poem",
		Language: models.LangEN,
		UseAI:    true,
	})

	require.Equal(t, StatusRejected, res.Status)
	assert.Contains(t, res.Message, "write me a poem")
}

func TestResolveMalformedOutputFails(t *testing.T) {
	gen := &fakeGenerator{response: "I am sorry, I cannot help with that."}
	repo := newFakeCacheRepo()
	resolver := NewResolver(gen, repo, nil)

	res := resolver.Resolve(context.Background(), ResolveRequest{
		DishName: "Borscht",
		Language: models.LangEN,
		UseAI:    true,
	})

	assert.Equal(t, StatusFailed, res.Status)
	assert.NotEmpty(t, res.Reason)
	assert.NoError(t, res.ValidationErr())
}

func TestResolveGeneratorErrorFails(t *testing.T) {
	gen := &fakeGenerator{err: fmt.Errorf("backend unreachable")}
	repo := newFakeCacheRepo()
	resolver := NewResolver(gen, repo, nil)

	res := resolver.Resolve(context.Background(), ResolveRequest{
		DishName: "Borscht",
		Language: models.LangEN,
		UseAI:    true,
	})

	assert.Equal(t, StatusFailed, res.Status)
	assert.Contains(t, res.Reason, "generation backend")
}

func TestResolveFencedOutput(t *testing.T) {
	gen := &fakeGenerator{response: "```json\n" + okResponse + "\n```"}
	repo := newFakeCacheRepo()
	resolver := NewResolver(gen, repo, nil)

	res := resolver.Resolve(context.Background(), ResolveRequest{
		DishName: "Onion Soup",
		Language: models.LangEN,
		UseAI:    true,
	})

	require.Equal(t, StatusOK, res.Status)
	assert.Len(t, res.Payload.Ingredients, 1)
}

func TestResolveCacheLookupFailureDoesNotRegenerate(t *testing.T) {
	gen := &fakeGenerator{response: okResponse}
	repo := newFakeCacheRepo()
	repo.findErr = fmt.Errorf("connection refused")
	resolver := NewResolver(gen, repo, nil)

	res := resolver.Resolve(context.Background(), ResolveRequest{
		DishName: "Borscht",
		Language: models.LangEN,
		UseAI:    true,
	})

	assert.Equal(t, StatusFailed, res.Status)
	assert.Equal(t, 0, gen.callCount())
}
