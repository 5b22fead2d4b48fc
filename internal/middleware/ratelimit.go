package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"connectrpc.com/connect"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// NewRateLimiter builds an in-memory limiter from a formatted rate such as
// "600-M" (600 requests per minute).
func NewRateLimiter(formatted string) (*limiter.Limiter, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rate limit %q: %w", formatted, err)
	}
	return limiter.New(memory.NewStore(), rate), nil
}

// RateLimitInterceptor rejects calls from a peer that exceeded its rate with
// CodeResourceExhausted. A nil limiter lets every call through.
func RateLimitInterceptor(lim *limiter.Limiter) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if lim == nil {
				return next(ctx, req)
			}

			key := peerKey(req.Peer().Addr)
			lctx, err := lim.Get(ctx, key)
			if err != nil {
				slog.Error("Rate limiter failed", "peer", key, "error", err)
				return next(ctx, req)
			}
			if lctx.Reached {
				return nil, connect.NewError(connect.CodeResourceExhausted,
					fmt.Errorf("rate limit of %d requests exceeded", lctx.Limit))
			}
			return next(ctx, req)
		}
	}
}

func peerKey(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
