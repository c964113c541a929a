package characters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/character"
	rulerr "github.com/KirkDiggler/dnd-rules-engine/internal/errors"
)

const indexKey = "character:ids"

// CharacterData is the stored form of a character
type CharacterData struct {
	*character.Character
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client       redis.UniversalClient
	TimeProvider TimeProvider
}

type redisRepo struct {
	client       redis.UniversalClient
	timeProvider TimeProvider
}

// NewRedisRepository creates a Redis-backed character repository
func NewRedisRepository(cfg *RedisRepoConfig) (Repository, error) {
	if cfg == nil {
		return nil, rulerr.InvalidArgument("redis repository config is required")
	}
	if cfg.Client == nil {
		return nil, rulerr.InvalidArgument("redis client is required")
	}

	timeProvider := cfg.TimeProvider
	if timeProvider == nil {
		timeProvider = utcClock{}
	}

	return &redisRepo{
		client:       cfg.Client,
		timeProvider: timeProvider,
	}, nil
}

// key generates the Redis key for a character
func (r *redisRepo) key(id string) string {
	return fmt.Sprintf("character:%s", id)
}

// Create stores a new character
func (r *redisRepo) Create(ctx context.Context, char *character.Character) error {
	if err := validate(char); err != nil {
		return err
	}

	stored := char.Clone()
	stored.Version = 1
	now := r.timeProvider.Now()
	payload, err := json.Marshal(CharacterData{Character: stored, CreatedAt: now, UpdatedAt: now})
	if err != nil {
		return rulerr.Wrap(err, "failed to marshal character")
	}

	key := r.key(char.ID)
	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return fmt.Errorf("failed to check character existence: %w", err)
		}
		if exists > 0 {
			return rulerr.AlreadyExistsf("character with ID '%s' already exists", char.ID).
				WithMeta("character_id", char.ID)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, 0)
			pipe.SAdd(ctx, indexKey, char.ID)
			return nil
		})
		return err
	}, key)
	if err != nil {
		return r.txError(err, char.ID, "failed to create character")
	}

	char.Version = stored.Version
	return nil
}

// Get retrieves a character by ID
func (r *redisRepo) Get(ctx context.Context, id string) (*character.Character, error) {
	if id == "" {
		return nil, rulerr.InvalidArgument("character ID is required")
	}

	raw, err := r.client.Get(ctx, r.key(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, rulerr.Wrapf(err, "failed to get character '%s'", id)
	}

	data, err := decode(raw)
	if err != nil {
		return nil, rulerr.Wrapf(err, "failed to unmarshal character '%s'", id)
	}
	return data.Character, nil
}

// Update replaces a stored character when the caller holds the current version
func (r *redisRepo) Update(ctx context.Context, char *character.Character) error {
	if err := validate(char); err != nil {
		return err
	}

	key := r.key(char.ID)
	var next int64
	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			return notFound(char.ID)
		}
		if err != nil {
			return fmt.Errorf("failed to get existing character: %w", err)
		}

		existing, err := decode(raw)
		if err != nil {
			return fmt.Errorf("failed to unmarshal existing character: %w", err)
		}
		if existing.Version != char.Version {
			return staleVersion(char.ID, char.Version, existing.Version)
		}

		stored := char.Clone()
		stored.Version = existing.Version + 1
		payload, err := json.Marshal(CharacterData{
			Character: stored,
			CreatedAt: existing.CreatedAt,
			UpdatedAt: r.timeProvider.Now(),
		})
		if err != nil {
			return fmt.Errorf("failed to marshal character: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, 0)
			return nil
		})
		next = stored.Version
		return err
	}, key)
	if err != nil {
		return r.txError(err, char.ID, "failed to update character")
	}

	char.Version = next
	return nil
}

// Delete removes a character and its index entry
func (r *redisRepo) Delete(ctx context.Context, id string) error {
	if id == "" {
		return rulerr.InvalidArgument("character ID is required")
	}

	var deleted *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		deleted = pipe.Del(ctx, r.key(id))
		pipe.SRem(ctx, indexKey, id)
		return nil
	})
	if err != nil {
		return rulerr.Wrapf(err, "failed to delete character '%s'", id)
	}
	if deleted.Val() == 0 {
		return notFound(id)
	}
	return nil
}

// List returns every indexed character ordered by ID. Index entries whose record has
// gone are skipped.
func (r *redisRepo) List(ctx context.Context) ([]*character.Character, error) {
	ids, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, rulerr.Wrap(err, "failed to list character IDs")
	}
	if len(ids) == 0 {
		return []*character.Character{}, nil
	}
	sort.Strings(ids)

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.key(id)
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, rulerr.Wrap(err, "failed to load characters")
	}

	out := make([]*character.Character, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		data, err := decode(raw)
		if err != nil {
			return nil, rulerr.Wrapf(err, "failed to unmarshal character '%s'", ids[i])
		}
		out = append(out, data.Character)
	}
	return out, nil
}

func (r *redisRepo) txError(err error, id, message string) error {
	if errors.Is(err, redis.TxFailedErr) {
		return rulerr.Conflictf("character '%s' was modified concurrently", id).
			WithMeta("character_id", id)
	}
	var rulesErr *rulerr.Error
	if errors.As(err, &rulesErr) {
		return err
	}
	return rulerr.Wrap(err, message)
}

func decode(raw string) (*CharacterData, error) {
	data := &CharacterData{Character: &character.Character{}}
	if err := json.Unmarshal([]byte(raw), data); err != nil {
		return nil, err
	}
	return data, nil
}
