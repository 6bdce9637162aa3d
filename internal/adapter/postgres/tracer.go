package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

// QueryObserver receives the outcome of every traced query.
type QueryObserver interface {
	ObserveQuery(query string, d time.Duration, err error)
}

// MetricsTracer implements pgx.QueryTracer and reports each query to an observer.
type MetricsTracer struct {
	observer QueryObserver
}

var _ pgx.QueryTracer = (*MetricsTracer)(nil)

func NewMetricsTracer(observer QueryObserver) *MetricsTracer {
	return &MetricsTracer{observer: observer}
}

type queryContextKey struct{}

type queryContext struct {
	startTime time.Time
	queryName string
}

func (t *MetricsTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, queryContextKey{}, queryContext{
		startTime: time.Now(),
		queryName: queryName(data.SQL),
	})
}

func (t *MetricsTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	qctx, ok := ctx.Value(queryContextKey{}).(queryContext)
	if !ok {
		return
	}
	t.observer.ObserveQuery(qctx.queryName, time.Since(qctx.startTime), data.Err)
}

// queryName reduces a statement to its leading keyword to keep label
// cardinality low.
func queryName(sql string) string {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return "unknown"
	}
	return strings.ToUpper(fields[0])
}
