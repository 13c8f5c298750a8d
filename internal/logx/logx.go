// Package logx holds the small logging helpers shared by the exacldraw packages.
package logx

import (
	"context"
	"io"

	"pkt.systems/pslog"
)

// Discard returns a logger that drops every entry.
func Discard() pslog.Logger {
	return pslog.NewWithOptions(io.Discard, pslog.Options{
		Mode:     pslog.ModeStructured,
		NoColor:  true,
		MinLevel: pslog.ErrorLevel,
	})
}

// Or returns l, or a discarding logger when l is nil.
func Or(l pslog.Logger) pslog.Logger {
	if l == nil {
		return Discard()
	}
	return l
}

// Ctx returns the logger bound to ctx.
func Ctx(ctx context.Context) pslog.Logger {
	return pslog.Ctx(ctx)
}

// WithComponent annotates the logger with the component name.
func WithComponent(l pslog.Logger, name string) pslog.Logger {
	l = Or(l)
	if name == "" {
		return l
	}
	return l.With("component", name)
}
