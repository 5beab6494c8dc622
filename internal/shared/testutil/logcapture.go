package testutil

import (
	"context"
	"log/slog"
	"sync"
	"testing"
)

// LogRecord is one captured log line
type LogRecord struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// LogCapture is a slog.Handler that keeps every record in memory
type LogCapture struct {
	mu      *sync.Mutex
	records *[]LogRecord
	attrs   []slog.Attr
}

// NewTestLogger returns a logger whose records are kept by the returned capture
func NewTestLogger(t *testing.T) (*slog.Logger, *LogCapture) {
	t.Helper()
	c := &LogCapture{mu: &sync.Mutex{}, records: &[]LogRecord{}}
	return slog.New(c), c
}

// Enabled implements slog.Handler
func (c *LogCapture) Enabled(context.Context, slog.Level) bool {
	return true
}

// Handle implements slog.Handler
func (c *LogCapture) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any, r.NumAttrs()+len(c.attrs))
	for _, a := range c.attrs {
		attrs[a.Key] = a.Value.Resolve().Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Resolve().Any()
		return true
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	*c.records = append(*c.records, LogRecord{Level: r.Level, Message: r.Message, Attrs: attrs})
	return nil
}

// WithAttrs implements slog.Handler
func (c *LogCapture) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := append(append([]slog.Attr(nil), c.attrs...), attrs...)
	return &LogCapture{mu: c.mu, records: c.records, attrs: merged}
}

// WithGroup implements slog.Handler. Groups are flattened.
func (c *LogCapture) WithGroup(string) slog.Handler {
	return c
}

// Records returns a copy of everything captured so far
func (c *LogCapture) Records() []LogRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]LogRecord(nil), *c.records...)
}

// Find returns the records with the given level and message
func (c *LogCapture) Find(level slog.Level, message string) []LogRecord {
	var found []LogRecord
	for _, r := range c.Records() {
		if r.Level == level && r.Message == message {
			found = append(found, r)
		}
	}
	return found
}

// AssertLogged fails the test unless a record with level and message was captured
func AssertLogged(t *testing.T, c *LogCapture, level slog.Level, message string) LogRecord {
	t.Helper()
	found := c.Find(level, message)
	if len(found) == 0 {
		t.Fatalf("expected %s log %q, got %d records", level, message, len(c.Records()))
	}
	return found[0]
}
