package metrics

import (
	"time"

	"github.com/danielgtaylor/huma/v2"

	serverMetrics "feedkeeper/internal/app/server/metrics"
)

// Middleware считает запросы и их длительность по OperationID
func Middleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		start := time.Now()

		next(ctx)

		operation := "unknown"
		if op := ctx.Operation(); op != nil && op.OperationID != "" {
			operation = op.OperationID
		}
		status := ctx.Status()
		if status == 0 {
			status = 200
		}
		serverMetrics.RecordRequest(operation, ctx.Method(), status, time.Since(start).Seconds())
	}
}
