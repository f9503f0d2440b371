// Package diag is the diagnostics sink a build reports through.
package diag

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Reporter accepts informational and error-level messages. args are slog
// style key/value pairs.
type Reporter interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogReporter forwards to a slog.Logger.
type SlogReporter struct {
	logger *slog.Logger
}

// NewSlog creates a reporter writing to logger.
func NewSlog(logger *slog.Logger) *SlogReporter {
	return &SlogReporter{logger: logger}
}

func (r *SlogReporter) Info(msg string, args ...any) {
	r.logger.Info(msg, args...)
}

func (r *SlogReporter) Error(msg string, args ...any) {
	r.logger.Error(msg, args...)
}

// Level tells collected messages apart.
type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Message is one collected diagnostic.
type Message struct {
	Level Level
	Text  string
	Attrs []any
}

func (m Message) String() string {
	if len(m.Attrs) == 0 {
		return fmt.Sprintf("%s: %s", m.Level, m.Text)
	}
	return fmt.Sprintf("%s: %s %v", m.Level, m.Text, m.Attrs)
}

// Collector records every message in memory. It can also forward to another
// reporter.
type Collector struct {
	next Reporter

	mu       sync.Mutex
	messages []Message
}

// NewCollector creates a collector. next may be nil.
func NewCollector(next Reporter) *Collector {
	return &Collector{next: next}
}

func (c *Collector) Info(msg string, args ...any) {
	c.add(Message{Level: LevelInfo, Text: msg, Attrs: args})
	if c.next != nil {
		c.next.Info(msg, args...)
	}
}

func (c *Collector) Error(msg string, args ...any) {
	c.add(Message{Level: LevelError, Text: msg, Attrs: args})
	if c.next != nil {
		c.next.Error(msg, args...)
	}
}

func (c *Collector) add(m Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, m)
}

// Messages returns every message collected so far, optionally filtered by
// level.
func (c *Collector) Messages(levels ...Level) []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Message
	for _, m := range c.messages {
		if len(levels) == 0 || containsLevel(levels, m.Level) {
			out = append(out, m)
		}
	}
	return out
}

func containsLevel(levels []Level, l Level) bool {
	for _, x := range levels {
		if x == l {
			return true
		}
	}
	return false
}

// Discard drops every message.
var Discard Reporter = NewSlog(slog.New(slog.DiscardHandler))

type ctxKey struct{}

// WithReporter embeds r in ctx.
func WithReporter(ctx context.Context, r Reporter) context.Context {
	return context.WithValue(ctx, ctxKey{}, r)
}

// FromContext returns the reporter in ctx, or Discard.
func FromContext(ctx context.Context) Reporter {
	if r, ok := ctx.Value(ctxKey{}).(Reporter); ok {
		return r
	}
	return Discard
}
