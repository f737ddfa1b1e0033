package mcpserver

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const methodCallTool = "tools/call"

// --- Timeout middleware ---

// Timeout returns a Middleware that bounds tools/call requests with a
// deadline. A non-positive d leaves requests unbounded.
func Timeout(d time.Duration) mcp.Middleware {
	return func(next mcp.MethodHandler) mcp.MethodHandler {
		if d <= 0 {
			return next
		}

		return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
			if method != methodCallTool {
				return next(ctx, method, req)
			}

			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()

			return next(ctx, method, req)
		}
	}
}

// --- Recovery middleware ---

// Recovery returns a Middleware that catches panics and converts them to errors.
func Recovery() mcp.Middleware {
	return func(next mcp.MethodHandler) mcp.MethodHandler {
		return func(ctx context.Context, method string, req mcp.Request) (res mcp.Result, err error) {
			defer func() {
				if r := recover(); r != nil {
					res = nil
					err = fmt.Errorf("mcpserver: %s panicked: %v", method, r)
				}
			}()

			return next(ctx, method, req)
		}
	}
}

// --- Logger middleware ---

// Logger returns a Middleware that logs each request's method, duration and
// error. Successful requests are logged at debug level.
func Logger(log *slog.Logger) mcp.Middleware {
	return func(next mcp.MethodHandler) mcp.MethodHandler {
		return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
			start := time.Now()

			res, err := next(ctx, method, req)

			duration := time.Since(start)

			if err != nil {
				log.ErrorContext(ctx, "request failed",
					"method", method,
					"duration", duration,
					"error", err,
				)
			} else {
				log.DebugContext(ctx, "request handled",
					"method", method,
					"duration", duration,
				)
			}

			return res, err
		}
	}
}
