package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/moedit/pkg/domain"
)

// LoggingHooks logs every event at debug level.
func LoggingHooks(logger *slog.Logger) domain.Hooks {
	log := func(ctx context.Context, e *domain.EditEvent) {
		attrs := []any{
			"type", e.Type,
			"document", e.DocumentID,
			"op", e.Op,
			"target", e.Target,
			"delta", e.Delta,
			"duration", e.Duration,
		}
		if e.Err != nil {
			attrs = append(attrs, "err", e.Err)
		}
		logger.DebugContext(ctx, "edit event", attrs...)
	}
	return domain.Hooks{OnResolve: log, OnStep: log, OnSave: log}
}

// Chain combines hooks; each event is delivered to all of them in order.
func Chain(hooks ...domain.Hooks) domain.Hooks {
	collect := func(pick func(domain.Hooks) func(context.Context, *domain.EditEvent)) func(context.Context, *domain.EditEvent) {
		var fns []func(context.Context, *domain.EditEvent)
		for _, h := range hooks {
			if fn := pick(h); fn != nil {
				fns = append(fns, fn)
			}
		}
		if len(fns) == 0 {
			return nil
		}
		return func(ctx context.Context, e *domain.EditEvent) {
			for _, fn := range fns {
				fn(ctx, e)
			}
		}
	}

	return domain.Hooks{
		OnResolve: collect(func(h domain.Hooks) func(context.Context, *domain.EditEvent) { return h.OnResolve }),
		OnStep:    collect(func(h domain.Hooks) func(context.Context, *domain.EditEvent) { return h.OnStep }),
		OnSave:    collect(func(h domain.Hooks) func(context.Context, *domain.EditEvent) { return h.OnSave }),
	}
}
