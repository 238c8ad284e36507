package telemetry

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap/zapcore"
)

// Core implements zapcore.Core to forward error logs to OpenTelemetry as spans.
type Core struct {
	zapcore.LevelEnabler
	tracer trace.Tracer
	fields []zapcore.Field
}

// NewCore creates a new core that forwards logs to OpenTelemetry.
func NewCore(enab zapcore.LevelEnabler) zapcore.Core {
	return &Core{
		LevelEnabler: enab,
		tracer:       otel.Tracer("tribunal/logs"),
	}
}

func (c *Core) With(fields []zapcore.Field) zapcore.Core {
	clone := *c
	clone.fields = append(append([]zapcore.Field(nil), c.fields...), fields...)
	return &clone
}

func (c *Core) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *Core) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	if ent.Level < zapcore.ErrorLevel {
		return nil
	}

	_, span := c.tracer.Start(context.Background(), "error."+errorCategory(ent))
	defer span.End()

	attrs := []attribute.KeyValue{
		attribute.String("error.message", ent.Message),
		attribute.String("error.level", ent.Level.String()),
		attribute.String("error.caller", ent.Caller.String()),
		attribute.String("logger", ent.LoggerName),
	}
	span.SetAttributes(append(attrs, fieldAttributes(append(c.fields, fields...))...)...)

	return nil
}

func (c *Core) Sync() error {
	return nil
}

// fieldAttributes flattens zap fields into span attributes.
func fieldAttributes(fields []zapcore.Field) []attribute.KeyValue {
	enc := zapcore.NewMapObjectEncoder()
	for _, field := range fields {
		field.AddTo(enc)
	}

	attrs := make([]attribute.KeyValue, 0, len(enc.Fields))
	for key, value := range enc.Fields {
		attrs = append(attrs, attribute.String(key, fmt.Sprint(value)))
	}
	return attrs
}

// errorCategory groups errors by the package that logged them.
func errorCategory(ent zapcore.Entry) string {
	fn := ent.Caller.Function
	switch {
	case strings.Contains(fn, "/database"):
		return "database"
	case strings.Contains(fn, "/redis"):
		return "redis"
	case strings.Contains(fn, "/discord"):
		return "discord"
	case strings.Contains(fn, "/bot"):
		return "bot"
	case strings.Contains(fn, "/worker"):
		return "worker"
	case strings.Contains(fn, "/setup"):
		return "setup"
	default:
		return "application"
	}
}
