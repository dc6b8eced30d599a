package mq

import (
	"context"

	"github.com/loubnahub/location-voiture-admin-sub002/internal/common/middleware"
)

// GuardedPublisher 在发布路径上加一层熔断：
// broker 不可用时快速失败，避免业务写路径（预订/维保的 post-commit 钩子）被阻塞。
type GuardedPublisher struct {
	inner   Publisher
	breaker *middleware.CircuitBreaker
}

func NewGuardedPublisher(inner Publisher, breaker *middleware.CircuitBreaker) *GuardedPublisher {
	return &GuardedPublisher{inner: inner, breaker: breaker}
}

func (g *GuardedPublisher) PublishJSON(ctx context.Context, key string, v any) error {
	if g == nil || g.inner == nil {
		return nil
	}
	if g.breaker == nil {
		return g.inner.PublishJSON(ctx, key, v)
	}
	return g.breaker.Call(ctx, func() error {
		return g.inner.PublishJSON(ctx, key, v)
	})
}

func (g *GuardedPublisher) Close() error {
	if g == nil || g.inner == nil {
		return nil
	}
	return g.inner.Close()
}
