package dependencies

import (
	"context"

	"github.com/zhenzou/executors"
	"go.uber.org/fx"

	"github.com/facturio/facturio/internal/log"
	"github.com/facturio/facturio/internal/store"
)

var Module = fx.Module("dependencies",
	fx.Provide(log.New),
	fx.Provide(NewStore),
	fx.Provide(NewExecutors),
	fx.Invoke(func(lc fx.Lifecycle, executor executors.ScheduledExecutor) {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return executor.Shutdown(ctx)
			},
		})
	}),
	fx.Invoke(func(lc fx.Lifecycle, st store.Store) {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return st.Close()
			},
		})
	}),
)
