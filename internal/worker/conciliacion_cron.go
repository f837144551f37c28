package worker

// conciliacion_cron.go
// Background goroutine that periodically recomputes the cached paid total
// and settlement state of sales that drifted from SUM(anticipos.monto),
// e.g. after a manual DB edit. Every correction is logged by the service.

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Conciliador is satisfied by service.ConciliacionService.
type Conciliador interface {
	Conciliar(ctx context.Context) (int, error)
}

// ConciliacionCronConfig holds all dependencies for the reconciliation goroutine.
type ConciliacionCronConfig struct {
	Conciliador Conciliador
	Interval    time.Duration
}

// StartConciliacionCron runs one pass immediately and then every Interval
// until ctx is cancelled.
func StartConciliacionCron(ctx context.Context, cfg ConciliacionCronConfig) {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		log.Info().Dur("interval", cfg.Interval).Msg("conciliacion_cron: started")
		runConciliacion(ctx, cfg.Conciliador)

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("conciliacion_cron: shutting down")
				return
			case <-ticker.C:
				runConciliacion(ctx, cfg.Conciliador)
			}
		}
	}()
}

func runConciliacion(ctx context.Context, c Conciliador) {
	n, err := c.Conciliar(ctx)
	if err != nil {
		log.Error().Err(err).Msg("conciliacion_cron: pass failed")
		return
	}
	if n > 0 {
		log.Warn().Int("corregidas", n).Msg("conciliacion_cron: sales corrected")
	}
}
