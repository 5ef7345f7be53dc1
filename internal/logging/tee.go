package logging

import (
	"context"
	"log/slog"
	"strings"
)

type fanoutHandler struct {
	handlers []slog.Handler
}

func newFanoutHandler(handlers ...slog.Handler) slog.Handler {
	filtered := make([]slog.Handler, 0, len(handlers))
	for _, h := range handlers {
		if h != nil {
			filtered = append(filtered, h)
		}
	}
	switch len(filtered) {
	case 0:
		return slog.DiscardHandler
	case 1:
		return filtered[0]
	}
	return &fanoutHandler{handlers: filtered}
}

func (h *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *fanoutHandler) Handle(ctx context.Context, record slog.Record) error {
	var firstErr error
	for idx, handler := range h.handlers {
		if !handler.Enabled(ctx, record.Level) {
			continue
		}
		rec := record
		if idx < len(h.handlers)-1 {
			rec = record.Clone()
		}
		if err := handler.Handle(ctx, rec); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (h *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		next[i] = handler.WithAttrs(attrs)
	}
	return &fanoutHandler{handlers: next}
}

func (h *fanoutHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		next[i] = handler.WithGroup(name)
	}
	return &fanoutHandler{handlers: next}
}

// TeeLogger duplicates log output from base into the provided handlers.
func TeeLogger(base *slog.Logger, handlers ...slog.Handler) *slog.Logger {
	if base == nil {
		return slog.New(newFanoutHandler(handlers...))
	}
	all := append([]slog.Handler{base.Handler()}, handlers...)
	return slog.New(newFanoutHandler(all...))
}

// LineFunc receives a rendered log line.
type LineFunc func(level slog.Level, line string)

// lineHandler renders records as "message key=value ..." and hands them to a
// callback. Identity fields (component, job_id, device) are left out because
// the receiver already knows which job it is watching.
type lineHandler struct {
	level slog.Leveler
	fn    LineFunc
	attrs []slog.Attr
}

// NewLineHandler returns a handler that forwards records at or above level
// to fn as single rendered lines.
func NewLineHandler(level slog.Leveler, fn LineFunc) slog.Handler {
	if fn == nil {
		return slog.DiscardHandler
	}
	if level == nil {
		level = slog.LevelInfo
	}
	return &lineHandler{level: level, fn: fn}
}

func (h *lineHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *lineHandler) Handle(_ context.Context, record slog.Record) error {
	kvs := make([]kv, 0, record.NumAttrs()+len(h.attrs))
	flattenAttrs(&kvs, nil, h.attrs)
	record.Attrs(func(attr slog.Attr) bool {
		flattenAttr(&kvs, nil, attr)
		return true
	})
	var b strings.Builder
	b.WriteString(strings.TrimSpace(record.Message))
	for _, kv := range kvs {
		switch kv.key {
		case "", FieldComponent, FieldJobID, FieldDevice:
			continue
		}
		b.WriteByte(' ')
		b.WriteString(kv.key)
		b.WriteByte('=')
		b.WriteString(formatValue(kv.value))
	}
	h.fn(record.Level, b.String())
	return nil
}

func (h *lineHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &lineHandler{level: h.level, fn: h.fn, attrs: append(append([]slog.Attr(nil), h.attrs...), attrs...)}
}

// WithGroup is flattened away; job lines are short and ungrouped.
func (h *lineHandler) WithGroup(string) slog.Handler {
	return h
}
