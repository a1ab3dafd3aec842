package logger_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/depgraph/internal/adapters/logger"
)

func newPretty(t *testing.T, level slog.Leveler) (*logger.PrettyHandler, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	return logger.NewPrettyHandler(buf, &slog.HandlerOptions{Level: level}), buf
}

func TestPrettyHandler_Levels(t *testing.T) {
	tests := []struct {
		name       string
		level      slog.Level
		msg        string
		goldenName string
	}{
		{name: "debug", level: slog.LevelDebug, msg: "rebuilt file index", goldenName: "handler_debug"},
		{name: "info", level: slog.LevelInfo, msg: "watching project", goldenName: "handler_info"},
		{name: "warn", level: slog.LevelWarn, msg: "global name is shadowed", goldenName: "handler_warn"},
		{name: "error", level: slog.LevelError, msg: "crawl failed", goldenName: "handler_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, buf := newPretty(t, slog.LevelDebug)
			slog.New(handler).Log(t.Context(), tt.level, tt.msg)

			goldie.New(t).Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestPrettyHandler_FiltersBelowLevel(t *testing.T) {
	handler, buf := newPretty(t, slog.LevelInfo)
	slog.New(handler).Debug("hidden")

	assert.Empty(t, buf.String())
}

func TestPrettyHandler_LevelVar(t *testing.T) {
	var level slog.LevelVar
	handler, buf := newPretty(t, &level)
	lg := slog.New(handler)

	lg.Debug("before")
	level.Set(slog.LevelDebug)
	lg.Debug("after")

	assert.Equal(t, "● after\n", buf.String())
}

func TestPrettyHandler_Attrs(t *testing.T) {
	handler, buf := newPretty(t, slog.LevelInfo)

	lg := slog.New(handler.WithAttrs([]slog.Attr{slog.String("root", "/src")}))
	lg.Info("crawled", "files", 12)

	goldie.New(t).Assert(t, "handler_attrs", buf.Bytes())
}

func TestPrettyHandler_Groups(t *testing.T) {
	handler, buf := newPretty(t, slog.LevelInfo)

	var h slog.Handler = handler
	h = h.WithGroup("batch").WithGroup("event")
	slog.New(h).Info("applied", "kind", "add")

	goldie.New(t).Assert(t, "handler_groups", buf.Bytes())
}

func TestPrettyHandler_WithAttrsDoesNotShare(t *testing.T) {
	handler, buf := newPretty(t, slog.LevelInfo)

	a := handler.WithAttrs([]slog.Attr{slog.String("a", "1")})
	b := handler.WithAttrs([]slog.Attr{slog.String("b", "2")})
	slog.New(a).Info("first")
	slog.New(b).Info("second")

	assert.Equal(t, "first a=1\nsecond b=2\n", buf.String())
}

func TestPrettyHandler_Enabled(t *testing.T) {
	tests := []struct {
		name    string
		handler slog.Level
		record  slog.Level
		want    bool
	}{
		{name: "debug below info", handler: slog.LevelInfo, record: slog.LevelDebug, want: false},
		{name: "info at info", handler: slog.LevelInfo, record: slog.LevelInfo, want: true},
		{name: "error above warn", handler: slog.LevelWarn, record: slog.LevelError, want: true},
		{name: "warn below error", handler: slog.LevelError, record: slog.LevelWarn, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := logger.NewPrettyHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: tt.handler})
			assert.Equal(t, tt.want, handler.Enabled(t.Context(), tt.record))
		})
	}
}
