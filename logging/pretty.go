package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"
	"time"
)

// PrettyHandler writes each record as an indented JSON object. It is meant for
// a developer watching a terminal, not for log shippers.
type PrettyHandler struct {
	out       io.Writer
	mu        *sync.Mutex
	level     slog.Leveler
	addSource bool

	attrs  []boundAttr
	groups []string
}

// boundAttr is an attribute added by WithAttrs, with the groups open at the
// time it was added.
type boundAttr struct {
	groups []string
	attr   slog.Attr
}

func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	h := &PrettyHandler{out: w, mu: &sync.Mutex{}, level: slog.LevelInfo}
	if opts != nil {
		if opts.Level != nil {
			h.level = opts.Level
		}
		h.addSource = opts.AddSource
	}
	return h
}

func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	when := r.Time
	if when.IsZero() {
		when = time.Now()
	}
	doc := map[string]any{
		"time":  when.Format(time.RFC3339Nano),
		"level": r.Level.String(),
		"msg":   r.Message,
	}
	if h.addSource {
		if src := source(r.PC); src != "" {
			doc["source"] = src
		}
	}

	for _, b := range h.attrs {
		put(nest(doc, b.groups), b.attr)
	}
	r.Attrs(func(a slog.Attr) bool {
		put(nest(doc, h.groups), a)
		return true
	})

	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		b = []byte(fmt.Sprintf(`{"time":%q,"level":%q,"msg":%q,"log_error":%q}`,
			doc["time"], doc["level"], r.Message, err.Error()))
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err = h.out.Write(append(b, '\n'))
	return err
}

func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append([]boundAttr(nil), h.attrs...)
	for _, a := range attrs {
		c.attrs = append(c.attrs, boundAttr{groups: h.groups, attr: a})
	}
	return &c
}

func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := *h
	c.groups = append(append([]string(nil), h.groups...), name)
	return &c
}

// nest returns the map that attributes under groups are written into.
func nest(doc map[string]any, groups []string) map[string]any {
	for _, g := range groups {
		m, ok := doc[g].(map[string]any)
		if !ok {
			m = map[string]any{}
			doc[g] = m
		}
		doc = m
	}
	return doc
}

func put(dst map[string]any, a slog.Attr) {
	if a.Key == "" && a.Value.Kind() != slog.KindGroup {
		return
	}
	v := a.Value.Resolve()
	if v.Kind() != slog.KindGroup {
		dst[a.Key] = plain(v)
		return
	}
	// Inline groups with no key merge into the parent.
	target := dst
	if a.Key != "" {
		target = map[string]any{}
		dst[a.Key] = target
	}
	for _, ga := range v.Group() {
		put(target, ga)
	}
}

func plain(v slog.Value) any {
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindInt64:
		return v.Int64()
	case slog.KindUint64:
		return v.Uint64()
	case slog.KindFloat64:
		return v.Float64()
	case slog.KindBool:
		return v.Bool()
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().Format(time.RFC3339Nano)
	}
	switch x := v.Any().(type) {
	case error:
		return x.Error()
	case fmt.Stringer:
		return x.String()
	default:
		return x
	}
}

func source(pc uintptr) string {
	if pc == 0 {
		return ""
	}
	f, _ := runtime.CallersFrames([]uintptr{pc}).Next()
	if f.File == "" {
		return ""
	}
	return filepath.Base(f.File) + ":" + strconv.Itoa(f.Line)
}
