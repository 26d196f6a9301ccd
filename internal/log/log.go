// Package log provides logging utilities.
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/golang-cz/devslog"
	"github.com/phsym/console-slog"
	slogformatter "github.com/samber/slog-formatter"

	"github.com/urlkit/urlobject/urlobj"
)

var newHandler = slogformatter.NewFormatterHandler(
	slogformatter.ErrorFormatter("error"),
	slogformatter.FormatByType(func(p urlobj.Parameter) slog.Value {
		return slog.GroupValue(
			slog.String("key", p.Key()),
			slog.String("encoded", p.String()),
		)
	}),
	slogformatter.FormatByType(func(ps []urlobj.Parameter) slog.Value {
		attrs := make([]slog.Attr, 0, len(ps))
		for _, p := range ps {
			attrs = append(attrs, slog.String(p.Key(), p.String()))
		}
		return slog.GroupValue(attrs...)
	}),
)

// New creates a logger writing to w with records at level or above.
// The dev flag selects the colored developer handler.
func New(w io.Writer, level slog.Leveler, dev bool) *slog.Logger {
	if dev {
		return slog.New(newHandler(
			devslog.NewHandler(w, &devslog.Options{
				HandlerOptions: &slog.HandlerOptions{
					AddSource: true,
					Level:     level,
				},
				SortKeys:   true,
				TimeFormat: time.RFC3339Nano,
			}),
		))
	}
	return slog.New(newHandler(
		console.NewHandler(w, &console.HandlerOptions{
			AddSource:  level.Level() <= slog.LevelDebug,
			Level:      level,
			TimeFormat: time.RFC3339Nano,
			NoColor:    true,
		}),
	))
}

// Def is a default logger.
var Def = New(os.Stderr, slog.LevelDebug, false)

// Dev is a developer logger.
var Dev = New(os.Stderr, slog.LevelDebug, true)

type noopHandler struct{}

func (noopHandler) Enabled(context.Context, slog.Level) bool { return false }

func (noopHandler) Handle(context.Context, slog.Record) error { return nil }

func (h noopHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h noopHandler) WithGroup(string) slog.Handler { return h }

// Noop is a noop logger.
var Noop = slog.New(noopHandler{})

type fmtValue struct {
	v        any
	goSyntax bool
}

func (v fmtValue) LogValue() slog.Value {
	if v.goSyntax {
		return slog.StringValue(fmt.Sprintf("%#v", v.v))
	}
	return slog.StringValue(fmt.Sprintf("%+v", v.v))
}

// FmtValue returns a value logger that formats values using '%+v' or '%#v' syntax.
func FmtValue(v any, goSyntax bool) slog.LogValuer { return fmtValue{v, goSyntax} }
