package logging

import (
	"context"
	"errors"
	"log/slog"
	"slices"
)

// AttrsFunc returns attributes added to every record when it is handled,
// for values that change over a run such as the active storage backend.
type AttrsFunc func() []slog.Attr

// Fanout sends each record to every sink enabled for its level.
type Fanout struct {
	sinks []slog.Handler
}

// NewFanout returns a Fanout over the non-nil sinks.
func NewFanout(sinks ...slog.Handler) *Fanout {
	return &Fanout{sinks: slices.DeleteFunc(slices.Clone(sinks), func(h slog.Handler) bool { return h == nil })}
}

func (f *Fanout) Enabled(ctx context.Context, level slog.Level) bool {
	return slices.ContainsFunc(f.sinks, func(h slog.Handler) bool { return h.Enabled(ctx, level) })
}

// Handle writes to all sinks even when one fails. Sink errors are joined.
func (f *Fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f.sinks {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f *Fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	return f.each(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (f *Fanout) WithGroup(name string) slog.Handler {
	if name == "" {
		return f
	}
	return f.each(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (f *Fanout) each(fn func(slog.Handler) slog.Handler) *Fanout {
	out := make([]slog.Handler, len(f.sinks))
	for i, h := range f.sinks {
		out[i] = fn(h)
	}
	return &Fanout{sinks: out}
}

// Stamped adds the attributes from attrs to each record before passing it on.
type Stamped struct {
	next  slog.Handler
	attrs AttrsFunc
}

func NewStamped(next slog.Handler, attrs AttrsFunc) *Stamped {
	return &Stamped{next: next, attrs: attrs}
}

func (s *Stamped) Enabled(ctx context.Context, level slog.Level) bool {
	return s.next.Enabled(ctx, level)
}

func (s *Stamped) Handle(ctx context.Context, r slog.Record) error {
	if s.attrs != nil {
		r.AddAttrs(s.attrs()...)
	}
	return s.next.Handle(ctx, r)
}

func (s *Stamped) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Stamped{next: s.next.WithAttrs(attrs), attrs: s.attrs}
}

func (s *Stamped) WithGroup(name string) slog.Handler {
	if name == "" {
		return s
	}
	return &Stamped{next: s.next.WithGroup(name), attrs: s.attrs}
}
