package redis

import (
	"context"
	"errors"
	"net"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// CommandObserver receives the outcome of Redis operations.
type CommandObserver interface {
	ObserveCommand(operation string, d time.Duration, failed bool)
	DialFailed()
}

// MetricsHook implements redis.Hook and reports every operation to an observer.
type MetricsHook struct {
	observer CommandObserver
}

var _ goredis.Hook = (*MetricsHook)(nil)

func NewMetricsHook(observer CommandObserver) *MetricsHook {
	return &MetricsHook{observer: observer}
}

func (h *MetricsHook) DialHook(next goredis.DialHook) goredis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := next(ctx, network, addr)
		if err != nil {
			h.observer.DialFailed()
		}
		return conn, err
	}
}

func (h *MetricsHook) ProcessHook(next goredis.ProcessHook) goredis.ProcessHook {
	return func(ctx context.Context, cmd goredis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		h.observer.ObserveCommand(cmd.Name(), time.Since(start), err != nil && !errors.Is(err, goredis.Nil))
		return err
	}
}

func (h *MetricsHook) ProcessPipelineHook(next goredis.ProcessPipelineHook) goredis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []goredis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmds)
		h.observer.ObserveCommand("pipeline", time.Since(start), err != nil)
		return err
	}
}
