package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/radieske/f1-betting-poc/internal/events/source"
)

// Cached é um decorator de cache em Redis sobre um source.Source.
// Detalhes e listagens de eventos ficam em cache por TTL; o vencedor nunca
// é cacheado, porque a flag finished precisa estar sempre fresca.
type Cached struct {
	log  *zap.Logger
	next source.Source
	rdb  *redis.Client
	ttl  time.Duration
}

func Wrap(log *zap.Logger, next source.Source, rdb *redis.Client, ttl time.Duration) *Cached {
	return &Cached{log: log, next: next, rdb: rdb, ttl: ttl}
}

func keyEvent(eventID int64) string { return fmt.Sprintf("event:details:%d", eventID) }

func keyList(f source.Filter) string {
	return fmt.Sprintf("event:list:%s:%s:%d", f.SessionType, f.Country, f.Year)
}

func (c *Cached) Event(ctx context.Context, eventID int64) (source.EventDetails, error) {
	var cached source.EventDetails
	if ok := c.get(ctx, keyEvent(eventID), &cached); ok {
		return cached, nil
	}

	ed, err := c.next.Event(ctx, eventID)
	if err != nil {
		return source.EventDetails{}, err
	}
	c.set(ctx, keyEvent(eventID), ed)
	return ed, nil
}

func (c *Cached) Events(ctx context.Context, f source.Filter) ([]source.EventDetails, error) {
	var cached []source.EventDetails
	if ok := c.get(ctx, keyList(f), &cached); ok {
		return cached, nil
	}

	evs, err := c.next.Events(ctx, f)
	if err != nil {
		return nil, err
	}
	c.set(ctx, keyList(f), evs)
	return evs, nil
}

// Winner passa direto: resultado não é cacheado.
func (c *Cached) Winner(ctx context.Context, eventID int64) (source.EventResult, error) {
	return c.next.Winner(ctx, eventID)
}

func (c *Cached) get(ctx context.Context, key string, dst any) bool {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		// cache indisponível não derruba a consulta
		c.log.Warn("cache get", zap.String("key", key), zap.Error(err))
		return false
	}
	return json.Unmarshal(b, dst) == nil
}

func (c *Cached) set(ctx context.Context, key string, v any) {
	b, _ := json.Marshal(v)
	if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
		c.log.Warn("cache set", zap.String("key", key), zap.Error(err))
	}
}
