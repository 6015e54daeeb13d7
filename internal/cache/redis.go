package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Domenick1991/flightdesk/config"
	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	searchPrefix   = "cache:flights:search:"
	searchIndexKey = "cache:flights:search-keys"
)

// RedisCache stores criteria-search results. Every stored key is tracked in
// an index set so a flight mutation can drop all of them at once.
type RedisCache struct {
	client    *redis.Client
	searchTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, searchTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:    redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		searchTTL: searchTTL,
	}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// GetSearch returns nil, nil on a miss.
func (c *RedisCache) GetSearch(ctx context.Context, filters []domain.FlightFilter) ([]domain.FlightView, error) {
	data, err := c.client.Get(ctx, SearchKey(filters)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var flights []domain.FlightView
	if err := json.Unmarshal(data, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

func (c *RedisCache) SetSearch(ctx context.Context, filters []domain.FlightFilter, flights []domain.FlightView) error {
	if flights == nil {
		flights = []domain.FlightView{}
	}
	payload, err := json.Marshal(flights)
	if err != nil {
		return err
	}
	key := SearchKey(filters)
	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, payload, c.searchTTL)
		pipe.SAdd(ctx, searchIndexKey, key)
		return nil
	})
	return err
}

func (c *RedisCache) InvalidateSearches(ctx context.Context) error {
	keys, err := c.client.SMembers(ctx, searchIndexKey).Result()
	if err != nil {
		return err
	}
	keys = append(keys, searchIndexKey)
	return c.client.Del(ctx, keys...).Err()
}

// SearchKey is independent of filter order, since a search is a conjunction.
func SearchKey(filters []domain.FlightFilter) string {
	if len(filters) == 0 {
		return searchPrefix + "all"
	}
	parts := make([]string, 0, len(filters))
	for _, f := range filters {
		parts = append(parts, filterToken(f))
	}
	sort.Strings(parts)
	return searchPrefix + strings.Join(parts, ";")
}

func filterToken(f domain.FlightFilter) string {
	switch v := f.(type) {
	case domain.DestinationFilter:
		return "dst=" + v.Code
	case domain.OriginFilter:
		return "org=" + v.Code
	case domain.StatusFilter:
		return "st=" + string(v.Status)
	case domain.DepartureDateFilter:
		return "dep=" + v.Date.Format("2006-01-02")
	default:
		return fmt.Sprintf("kind%d", f.Kind())
	}
}
