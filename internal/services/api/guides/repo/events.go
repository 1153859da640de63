package repo

import (
	"context"
	"errors"
	"math"
	"time"

	"tomotrip/internal/platform/logger"
	"tomotrip/internal/platform/metrics"
	"tomotrip/internal/platform/store"

	"github.com/google/uuid"
)

// EventsTable is the clickhouse table search events land in
const EventsTable = "guide_search_events"

// EventsDDL creates EventsTable
const EventsDDL = `
CREATE TABLE IF NOT EXISTS guide_search_events (
    id        UUID,
    at        DateTime64(3, 'UTC'),
    location  String,
    language  LowCardinality(String),
    max_fee   Nullable(Int32),
    keywords  Array(String),
    matched   UInt32,
    total     UInt32
) ENGINE = MergeTree
ORDER BY (at, id)
`

// SearchEvent is one executed search
type SearchEvent struct {
	ID       uuid.UUID
	At       time.Time
	Location string
	Language string
	MaxFee   *int
	Keywords []string
	Matched  int
	Total    int
}

// EventSink records searches for analytics
type EventSink interface {
	Record(ctx context.Context, ev SearchEvent) error
}

// NopSink drops events
type NopSink struct{}

// Record implements EventSink
func (NopSink) Record(context.Context, SearchEvent) error { return nil }

// CHSink writes events to clickhouse, one row per search
type CHSink struct {
	CH store.Clickhouse
}

// NewEventSink returns a clickhouse sink, or NopSink when ch is nil
func NewEventSink(ch store.Clickhouse) EventSink {
	if ch == nil {
		return NopSink{}
	}
	return CHSink{CH: ch}
}

// Record implements EventSink
func (s CHSink) Record(ctx context.Context, ev SearchEvent) error {
	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	var fee *int32
	if ev.MaxFee != nil && *ev.MaxFee > 0 {
		v := int32(min(*ev.MaxFee, math.MaxInt32))
		fee = &v
	}
	kw := ev.Keywords
	if kw == nil {
		kw = []string{}
	}
	return s.CH.Insert(ctx, EventsTable, [][]any{{
		ev.ID,
		ev.At.UTC(),
		ev.Location,
		ev.Language,
		fee,
		kw,
		uint32(ev.Matched),
		uint32(ev.Total),
	}})
}

// ErrQueueFull is returned by AsyncSink when the writer has fallen behind
var ErrQueueFull = errors.New("search event queue full")

// AsyncSink queues events for a background writer so searches never wait on
// analytics. Events are dropped, not blocked on, when the queue is full
type AsyncSink struct {
	inner   EventSink
	queue   chan SearchEvent
	timeout time.Duration
}

// NewAsyncSink wraps inner with a queue of size events; each write is bounded by timeout
func NewAsyncSink(inner EventSink, size int, timeout time.Duration) *AsyncSink {
	if inner == nil {
		inner = NopSink{}
	}
	if size <= 0 {
		size = 1024
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &AsyncSink{inner: inner, queue: make(chan SearchEvent, size), timeout: timeout}
}

// Record implements EventSink without blocking
func (s *AsyncSink) Record(_ context.Context, ev SearchEvent) error {
	select {
	case s.queue <- ev:
		return nil
	default:
		return ErrQueueFull
	}
}

// Run writes queued events until ctx is done, then flushes what is left
// within one timeout
func (s *AsyncSink) Run(ctx context.Context) error {
	live := context.WithoutCancel(ctx)
	for {
		select {
		case ev := <-s.queue:
			s.write(live, ev)
		case <-ctx.Done():
			flush, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
			defer cancel()
			for {
				select {
				case ev := <-s.queue:
					s.write(flush, ev)
				default:
					return nil
				}
			}
		}
	}
}

func (s *AsyncSink) write(ctx context.Context, ev SearchEvent) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.inner.Record(ctx, ev); err != nil {
		metrics.EventSinkErrors.Inc()
		logger.Named("guides.events").Warn().Err(err).Str("location", ev.Location).Msg("search event not recorded")
	}
}

// SearchStat is one row of the popular search report
type SearchStat struct {
	Location string
	Language string
	Searches uint64
	Empty    uint64
}

// TopSearches reports the most frequent location and language pairs since t
func TopSearches(ctx context.Context, ch store.Clickhouse, since time.Time, limit int) ([]SearchStat, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := ch.Query(ctx, `
SELECT location, language, count() AS searches, countIf(matched = 0) AS empty
FROM guide_search_events
WHERE at >= ?
GROUP BY location, language
ORDER BY searches DESC
LIMIT ?`, since.UTC(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]SearchStat, 0, limit)
	for rows.Next() {
		var s SearchStat
		if err := rows.Scan(&s.Location, &s.Language, &s.Searches, &s.Empty); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
