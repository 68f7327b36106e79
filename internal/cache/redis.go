package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/travelbooking/config"
	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisCache holds catalog reads for display. Entries may be stale; booking
// decisions never read from here.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(cfg config.RedisConfig, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		ttl:    ttl,
	}
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Generation returns the current catalog generation. Callers read it once
// before querying the database and pass it to the Get/Set calls of that read.
func (c *RedisCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *RedisCache) GetOption(ctx context.Context, gen, id int64) (*domain.TravelOption, error) {
	var option domain.TravelOption
	found, err := c.getJSON(ctx, optionKey(gen, id), &option)
	if err != nil || !found {
		return nil, err
	}
	return &option, nil
}

func (c *RedisCache) SetOption(ctx context.Context, gen int64, option *domain.TravelOption) error {
	return c.setJSON(ctx, optionKey(gen, option.ID), option)
}

func (c *RedisCache) GetOptions(ctx context.Context, gen int64, query string) ([]domain.TravelOption, error) {
	var options []domain.TravelOption
	found, err := c.getJSON(ctx, listKey(gen, query), &options)
	if err != nil || !found {
		return nil, err
	}
	return options, nil
}

func (c *RedisCache) SetOptions(ctx context.Context, gen int64, query string, options []domain.TravelOption) error {
	return c.setJSON(ctx, listKey(gen, query), options)
}

// InvalidateOption moves the catalog to a new generation. Option and listing
// keys both carry the generation, so entries written under an older one are
// never read again and age out with their TTL.
func (c *RedisCache) InvalidateOption(ctx context.Context, _ int64) error {
	return c.client.Incr(ctx, generationKey()).Err()
}

func (c *RedisCache) getJSON(ctx context.Context, key string, dst any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *RedisCache) setJSON(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, c.ttl).Err()
}

func optionKey(gen, id int64) string {
	return fmt.Sprintf("cache:option:%d:%d", gen, id)
}

func generationKey() string {
	return "cache:catalog:generation"
}

func listKey(gen int64, query string) string {
	sum := sha1.Sum([]byte(query))
	return fmt.Sprintf("cache:catalog:%d:%s", gen, hex.EncodeToString(sum[:]))
}
