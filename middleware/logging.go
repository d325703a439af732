package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/crznodes/crz"
)

// Logging logs each lifecycle step of a node. Blocked preps are logged at
// debug level since they are routine.
func Logging(logger crz.Logger) Middleware {
	return func(node crz.Node) crz.Node {
		return &middlewareNode{
			inner: node,
			prep: func(ctx context.Context, host *crz.Host, store crz.StoreReader, input any) (any, error) {
				start := time.Now()
				result, err := node.Prep(ctx, host, store, input)

				logger.Debug(ctx, "node prep completed",
					"node", node.Name(),
					"input_type", fmt.Sprintf("%T", input),
					"duration", time.Since(start),
					"error", err)

				return result, err
			},
			exec: func(ctx context.Context, input any) (any, error) {
				start := time.Now()
				result, err := node.Exec(ctx, input)

				if err != nil {
					logger.Error(ctx, "node exec failed",
						"node", node.Name(),
						"duration", time.Since(start),
						"error", err)
				} else {
					logger.Debug(ctx, "node exec completed",
						"node", node.Name(),
						"duration", time.Since(start),
						"result_type", fmt.Sprintf("%T", result))
				}

				return result, err
			},
			post: func(ctx context.Context, host *crz.Host, store crz.StoreWriter, input, prep, exec any) (any, string, error) {
				output, next, err := node.Post(ctx, host, store, input, prep, exec)

				logger.Info(ctx, "node completed",
					"node", node.Name(),
					"next", next,
					"error", err)

				return output, next, err
			},
		}
	}
}
