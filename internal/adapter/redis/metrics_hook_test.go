package redis

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

type observedCommand struct {
	operation string
	failed    bool
}

type recordingObserver struct {
	commands     []observedCommand
	dialFailures int
}

func (o *recordingObserver) ObserveCommand(operation string, _ time.Duration, failed bool) {
	o.commands = append(o.commands, observedCommand{operation: operation, failed: failed})
}

func (o *recordingObserver) DialFailed() {
	o.dialFailures++
}

func TestMetricsHook_Process(t *testing.T) {
	observer := &recordingObserver{}
	hook := NewMetricsHook(observer)
	ctx := context.Background()

	_ = hook.ProcessHook(func(ctx context.Context, cmd goredis.Cmder) error {
		return nil
	})(ctx, goredis.NewStringCmd(ctx, "get", "key"))
	_ = hook.ProcessHook(func(ctx context.Context, cmd goredis.Cmder) error {
		return goredis.Nil
	})(ctx, goredis.NewStringCmd(ctx, "get", "key"))
	_ = hook.ProcessHook(func(ctx context.Context, cmd goredis.Cmder) error {
		return errors.New("boom")
	})(ctx, goredis.NewIntCmd(ctx, "del", "key"))

	assert.Equal(t, []observedCommand{
		{operation: "get"},
		{operation: "get"},
		{operation: "del", failed: true},
	}, observer.commands)
}

func TestMetricsHook_Pipeline(t *testing.T) {
	observer := &recordingObserver{}
	hook := NewMetricsHook(observer)

	_ = hook.ProcessPipelineHook(func(ctx context.Context, cmds []goredis.Cmder) error {
		return errors.New("boom")
	})(context.Background(), nil)

	assert.Equal(t, []observedCommand{{operation: "pipeline", failed: true}}, observer.commands)
}

func TestMetricsHook_DialFailure(t *testing.T) {
	observer := &recordingObserver{}
	hook := NewMetricsHook(observer)

	_, err := hook.DialHook(func(ctx context.Context, network, addr string) (net.Conn, error) {
		return nil, errors.New("connection refused")
	})(context.Background(), "tcp", "localhost:0")

	assert.Error(t, err)
	assert.Equal(t, 1, observer.dialFailures)
}
