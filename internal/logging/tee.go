package logging

import (
	"context"
	"log/slog"
)

// Tee writes every record to a primary handler and, best effort, to a secondary one.
// Errors from the secondary handler are dropped so a dead log shipper never
// breaks console output.
type Tee struct {
	primary   slog.Handler
	secondary slog.Handler
}

// NewTee returns a handler fanning records out to primary and secondary.
func NewTee(primary, secondary slog.Handler) *Tee {
	return &Tee{primary: primary, secondary: secondary}
}

func (h *Tee) Enabled(ctx context.Context, level slog.Level) bool {
	return h.primary.Enabled(ctx, level) || h.secondary.Enabled(ctx, level)
}

func (h *Tee) Handle(ctx context.Context, record slog.Record) error {
	if h.primary.Enabled(ctx, record.Level) {
		if err := h.primary.Handle(ctx, record.Clone()); err != nil {
			return err
		}
	}
	if h.secondary.Enabled(ctx, record.Level) {
		_ = h.secondary.Handle(ctx, record)
	}
	return nil
}

func (h *Tee) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Tee{
		primary:   h.primary.WithAttrs(attrs),
		secondary: h.secondary.WithAttrs(attrs),
	}
}

func (h *Tee) WithGroup(name string) slog.Handler {
	return &Tee{
		primary:   h.primary.WithGroup(name),
		secondary: h.secondary.WithGroup(name),
	}
}
