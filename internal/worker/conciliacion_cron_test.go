package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingConciliador struct{ runs atomic.Int32 }

func (c *countingConciliador) Conciliar(context.Context) (int, error) {
	c.runs.Add(1)
	return 1, nil
}

func TestStartConciliacionCron_RunsImmediatelyAndOnTick(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := &countingConciliador{}
	StartConciliacionCron(ctx, ConciliacionCronConfig{Conciliador: c, Interval: 20 * time.Millisecond})

	assert.Eventually(t, func() bool { return c.runs.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
}
