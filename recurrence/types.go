// Package recurrence expands JSCalendar recurrence rules (RFC 8984 §4.3) into
// concrete occurrences. Expansion works on local wall-clock arithmetic; only
// the query range boundaries are converted through the object's time zone.
package recurrence

import (
	"errors"
	"log/slog"
	"time"

	"github.com/samber/mo"

	"github.com/cyp0633/libjscalendar/jscal"
)

// ErrUnsupportedRScale is returned when a rule requests a calendar scale other
// than gregorian. It is distinct from malformed-input failures so callers can
// tell "cannot ever do this" from "bad data".
var ErrUnsupportedRScale = errors.New("unsupported rscale")

// Range is the query window as true instants. Occurrences whose key falls
// inside [From, To] (inclusive) are emitted.
type Range struct {
	From time.Time
	To   time.Time
}

// PageOptions controls ExpandPaged.
type PageOptions struct {
	// Limit is the maximum number of occurrences per page.
	Limit uint
	// Cursor, when non-empty, resumes after the position a previous page's
	// NextCursor named. Treat it as opaque; a bare occurrence key is also
	// accepted and resumes after every occurrence with that key.
	Cursor string
}

// PagedResult is one page of an expansion.
type PagedResult struct {
	Items []jscal.CalendarObject
	// NextCursor is present when more occurrences remain past this page.
	NextCursor mo.Option[string]
}

// Engine expands calendar objects. It holds no state between calls; a fresh
// Expand re-evaluates from scratch.
type Engine struct {
	logger *slog.Logger
}

// EngineConfig holds optional engine settings.
type EngineConfig struct {
	Logger *slog.Logger
}

// NewEngine creates an engine with default settings.
func NewEngine() *Engine {
	return NewEngineWithConfig(EngineConfig{})
}

// NewEngineWithConfig creates an engine with custom settings. A nil logger
// falls back to slog.Default.
func NewEngineWithConfig(cfg EngineConfig) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger}
}

var defaultEngine = NewEngine()

// Expand expands items over the given range using a default engine.
func Expand(items []jscal.CalendarObject, within Range) *Iterator {
	return defaultEngine.Expand(items, within)
}

// ExpandPaged expands items over the given range using a default engine and
// returns one page of results.
func ExpandPaged(items []jscal.CalendarObject, within Range, opts PageOptions) (PagedResult, error) {
	return defaultEngine.ExpandPaged(items, within, opts)
}
