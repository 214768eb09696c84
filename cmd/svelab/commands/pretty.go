package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/fatih/color"
)

type PrettyHandlerOptions struct {
	SlogOpts slog.HandlerOptions
	NoColor  bool
}

// PrettyHandler writes one line per record: a coloured level, the message
// and then key=value attributes.
type PrettyHandler struct {
	opts   PrettyHandlerOptions
	mu     *sync.Mutex
	out    io.Writer
	attrs  []slog.Attr
	prefix string // dotted group path for attributes added after WithGroup
}

func NewPrettyHandler(out io.Writer, opts PrettyHandlerOptions) *PrettyHandler {
	return &PrettyHandler{opts: opts, mu: &sync.Mutex{}, out: out}
}

func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.SlogOpts.Level != nil {
		minLevel = h.opts.SlogOpts.Level.Level()
	}
	return level >= minLevel
}

func (h *PrettyHandler) levelColor(level slog.Level) *color.Color {
	var c *color.Color
	switch {
	case level >= slog.LevelError:
		c = color.New(color.FgRed, color.Bold)
	case level >= slog.LevelWarn:
		c = color.New(color.FgYellow)
	case level >= slog.LevelInfo:
		c = color.New(color.FgBlue)
	default:
		c = color.New(color.FgMagenta)
	}
	if h.opts.NoColor {
		c.DisableColor()
	}
	return c
}

func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder
	sb.WriteString(h.levelColor(r.Level).Sprintf("%-5s", r.Level.String()))
	sb.WriteString(" ")
	sb.WriteString(r.Message)

	keyColor := color.New(color.Faint)
	if h.opts.NoColor {
		keyColor.DisableColor()
	}
	writeAttr := func(prefix string, a slog.Attr) {
		a.Value = a.Value.Resolve()
		if a.Equal(slog.Attr{}) {
			return
		}
		fmt.Fprintf(&sb, " %s%v", keyColor.Sprint(prefix+a.Key+"="), a.Value)
	}
	for _, a := range h.attrs {
		writeAttr("", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(h.prefix, a)
		return true
	})
	sb.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, sb.String())
	return err
}

func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := *h
	out.attrs = append([]slog.Attr{}, h.attrs...)
	for _, a := range attrs {
		a.Key = h.prefix + a.Key
		out.attrs = append(out.attrs, a)
	}
	return &out
}

func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	out := *h
	out.prefix = h.prefix + name + "."
	return &out
}
