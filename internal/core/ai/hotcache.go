package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"meal-planner/internal/infrastructure/config"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// HotCache keeps resolved dish payloads in redis in front of the
// persistent cache. Strictly best-effort: resolution works identically
// with it disabled or unreachable.
type HotCache struct {
	client *redis.Client
	config *config.RedisConfig
}

// hotEntry is the serialized redis value. The persistent entry id rides
// along so usage counting works on hot hits too.
type hotEntry struct {
	EntryID uuid.UUID `json:"entry_id"`
	Payload Payload   `json:"payload"`
}

// NewHotCache creates the redis hot cache. Returns a disabled instance
// when redis is off in config.
func NewHotCache(cfg *config.RedisConfig) (*HotCache, error) {
	if !cfg.Enabled {
		return &HotCache{config: cfg}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &HotCache{
		client: client,
		config: cfg,
	}, nil
}

// Get returns the cached payload and persistent entry id for a dish, or
// an error on miss / disabled cache.
func (h *HotCache) Get(ctx context.Context, normalizedName, lang string) (uuid.UUID, *Payload, error) {
	if h == nil || !h.config.Enabled || h.client == nil {
		return uuid.Nil, nil, fmt.Errorf("hot cache is disabled")
	}

	key := h.key(normalizedName, lang)

	data, err := h.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return uuid.Nil, nil, fmt.Errorf("hot cache miss")
		}
		return uuid.Nil, nil, fmt.Errorf("failed to get hot cache: %w", err)
	}

	var entry hotEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return uuid.Nil, nil, fmt.Errorf("failed to unmarshal hot cache: %w", err)
	}

	return entry.EntryID, &entry.Payload, nil
}

// Set stores a resolved payload with the configured TTL.
func (h *HotCache) Set(ctx context.Context, normalizedName, lang string, entryID uuid.UUID, payload *Payload) error {
	if h == nil || !h.config.Enabled || h.client == nil {
		return nil
	}

	data, err := json.Marshal(hotEntry{EntryID: entryID, Payload: *payload})
	if err != nil {
		return fmt.Errorf("failed to marshal hot cache entry: %w", err)
	}

	if err := h.client.Set(ctx, h.key(normalizedName, lang), data, h.config.TTL).Err(); err != nil {
		return fmt.Errorf("failed to set hot cache: %w", err)
	}

	return nil
}

// Close shuts down the redis connection.
func (h *HotCache) Close() error {
	if h == nil || h.client == nil {
		return nil
	}
	return h.client.Close()
}

func (h *HotCache) key(normalizedName, lang string) string {
	return fmt.Sprintf("dishcache:%s:%s", lang, normalizedName)
}
