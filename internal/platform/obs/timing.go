package obs

import (
	"context"
	"time"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

// Time logs and records how long an operation took. Use as
//
//	defer obs.Time(ctx, "op")(&err)
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	return func(errp *error) {
		dur := time.Since(start)

		outcome := "ok"
		ev := Logger(ctx).Debug()
		if errp != nil && *errp != nil {
			outcome = "error"
			ev = Logger(ctx).Warn().Err(*errp)
		}

		OperationDuration.WithLabelValues(name, outcome).Observe(dur.Seconds())
		ev.Str("op", name).Int64("dur_ms", dur.Milliseconds()).Msg("operation finished")
	}
}
