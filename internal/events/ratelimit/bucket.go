package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/radieske/f1-betting-poc/internal/events/source"
)

// TokenBucket limita chamadas ao provider usando um contador no Redis.
// O estado fica fora do processo, então múltiplas réplicas do event-service
// dividem a mesma cota.
type TokenBucket struct {
	client       *redis.Client
	key          string
	maxTokens    int
	refillPeriod time.Duration
}

func NewTokenBucket(client *redis.Client, maxTokens int, refillPeriod time.Duration) *TokenBucket {
	return &TokenBucket{
		client:       client,
		key:          "openf1:ratelimit:tokens",
		maxTokens:    maxTokens,
		refillPeriod: refillPeriod,
	}
}

// Allow consome um token; false significa cota esgotada até o próximo refill.
func (tb *TokenBucket) Allow(ctx context.Context) (bool, error) {
	if err := tb.initialize(ctx); err != nil {
		return false, err
	}

	tokens, err := tb.client.Decr(ctx, tb.key).Result()
	if err != nil {
		return false, fmt.Errorf("decrement tokens: %w", err)
	}

	if tokens < 0 {
		// devolve o token que tentou consumir
		tb.client.Incr(ctx, tb.key)
		return false, nil
	}

	return true, nil
}

func (tb *TokenBucket) initialize(ctx context.Context) error {
	exists, err := tb.client.Exists(ctx, tb.key).Result()
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}

	if exists == 0 {
		if err := tb.client.Set(ctx, tb.key, tb.maxTokens, 0).Err(); err != nil {
			return fmt.Errorf("initialize bucket: %w", err)
		}
		go tb.refillLoop(context.Background())
	}

	return nil
}

func (tb *TokenBucket) refillLoop(ctx context.Context) {
	ticker := time.NewTicker(tb.refillPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = tb.client.Set(ctx, tb.key, tb.maxTokens, 0).Err()
		}
	}
}

// Limiter interface pro decorator, pra permitir fake em teste.
type Limiter interface {
	Allow(ctx context.Context) (bool, error)
}

// Limited é o decorator que gasta um token por chamada que vai ao upstream.
// Fica por dentro do cache na composição: hit de cache não consome cota.
type Limited struct {
	next    source.Source
	limiter Limiter
}

func Wrap(next source.Source, limiter Limiter) *Limited {
	return &Limited{next: next, limiter: limiter}
}

func (l *Limited) Event(ctx context.Context, eventID int64) (source.EventDetails, error) {
	if err := l.take(ctx); err != nil {
		return source.EventDetails{}, err
	}
	return l.next.Event(ctx, eventID)
}

func (l *Limited) Events(ctx context.Context, f source.Filter) ([]source.EventDetails, error) {
	if err := l.take(ctx); err != nil {
		return nil, err
	}
	return l.next.Events(ctx, f)
}

func (l *Limited) Winner(ctx context.Context, eventID int64) (source.EventResult, error) {
	if err := l.take(ctx); err != nil {
		return source.EventResult{}, err
	}
	return l.next.Winner(ctx, eventID)
}

func (l *Limited) take(ctx context.Context) error {
	ok, err := l.limiter.Allow(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", source.ErrUnavailable, err)
	}
	if !ok {
		return source.ErrRateLimited
	}
	return nil
}
