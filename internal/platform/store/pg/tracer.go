package pg

import (
	"context"
	"strings"
	"time"

	"tomotrip/internal/platform/logger"
	"tomotrip/internal/platform/metrics"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// Tracer implements pgx.QueryTracer: every query lands in the latency histogram,
// slow or failed ones are logged, and with logSQL every statement is
type Tracer struct {
	log    logger.Logger
	slow   time.Duration
	logSQL bool
	now    func() time.Time
}

type traceKey struct{}

type traceStart struct {
	at   time.Time
	sql  string
	args []any
}

// NewTracer builds the tracer installed on every pool connection
func NewTracer(log logger.Logger, slow time.Duration, logSQL bool) *Tracer {
	return &Tracer{
		log:    log.With().Str("component", "pg").Logger(),
		slow:   slow,
		logSQL: logSQL,
		now:    time.Now,
	}
}

func (t *Tracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, traceKey{}, traceStart{at: t.now(), sql: data.SQL, args: data.Args})
}

func (t *Tracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	st, ok := ctx.Value(traceKey{}).(traceStart)
	if !ok {
		return
	}
	elapsed := t.now().Sub(st.at)
	metrics.PGQueryDuration.Observe(elapsed.Seconds())

	slow := t.slow > 0 && elapsed >= t.slow
	var evt *zerolog.Event
	switch {
	case data.Err != nil:
		evt = t.log.Error().Err(data.Err)
	case slow:
		evt = t.log.Warn()
	case t.logSQL:
		evt = t.log.Info()
	default:
		return
	}
	evt.Dur("elapsed", elapsed).
		Bool("slow", slow).
		Str("sql", squash(st.sql)).
		Int64("rows", data.CommandTag.RowsAffected()).
		Interface("args", st.args).
		Msg("pg query")
}

// squash collapses runs of whitespace so multi line SQL logs on one line
func squash(s string) string { return strings.Join(strings.Fields(s), " ") }
