// Package ratelimit throttles failed logins with a fixed-window counter per
// key. Counters live in process memory or in Redis.
package ratelimit

import "context"

// Limiter counts failed attempts. Once Limit failures land in one window,
// Allowed reports false until the window ends or Reset is called.
type Limiter interface {
	Allowed(ctx context.Context, key string) (bool, error)
	Fail(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

// Nop never throttles. It is used when the attempt limit is zero.
type Nop struct{}

func (Nop) Allowed(context.Context, string) (bool, error) { return true, nil }
func (Nop) Fail(context.Context, string) error            { return nil }
func (Nop) Reset(context.Context, string) error           { return nil }
