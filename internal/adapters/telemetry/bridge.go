// Package telemetry records depgraph's OpenTelemetry spans and reports them
// through the logger.
package telemetry

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/depgraph/internal/core/ports"
)

var _ sdktrace.SpanProcessor = (*LogBridge)(nil)

// LogBridge implements sdktrace.SpanProcessor by logging every ended span at debug level.
type LogBridge struct {
	logger ports.Logger
}

// NewLogBridge returns a LogBridge writing to logger.
func NewLogBridge(logger ports.Logger) *LogBridge {
	return &LogBridge{logger: logger}
}

// OnStart does nothing; spans are reported once they end.
func (b *LogBridge) OnStart(context.Context, sdktrace.ReadWriteSpan) {}

// OnEnd logs the span name, duration, and attributes.
func (b *LogBridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.logger == nil || !s.SpanContext().IsValid() {
		return
	}
	b.logger.Debug(FormatSpan(s))
}

// ForceFlush does nothing.
func (b *LogBridge) ForceFlush(context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *LogBridge) Shutdown(context.Context) error {
	return nil
}

// FormatSpan renders s as "<name> <duration> key=value... [failed: reason]".
func FormatSpan(s sdktrace.ReadOnlySpan) string {
	var sb strings.Builder
	sb.WriteString(s.Name())
	sb.WriteString(" ")
	sb.WriteString(s.EndTime().Sub(s.StartTime()).String())

	for _, kv := range s.Attributes() {
		fmt.Fprintf(&sb, " %s=%s", kv.Key, kv.Value.Emit())
	}

	if s.Status().Code == codes.Error {
		desc := s.Status().Description
		if desc == "" {
			desc = "unknown error"
		}
		sb.WriteString(" failed: ")
		sb.WriteString(desc)
	}
	return sb.String()
}

// NewTracerProvider returns a tracer provider whose spans are logged through logger.
func NewTracerProvider(logger ports.Logger) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(NewLogBridge(logger)),
	)
}
