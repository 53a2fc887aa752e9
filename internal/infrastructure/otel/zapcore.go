package otel

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.opentelemetry.io/otel/log"
	"go.uber.org/zap/zapcore"
)

var _ zapcore.Core = (*Core)(nil)

// Core is a zapcore.Core that emits every entry as an OTEL log record
type Core struct {
	zapcore.LevelEnabler
	provider *Provider
	fields   []zapcore.Field
}

// NewCore creates a Core writing to provider
func NewCore(provider *Provider, level zapcore.LevelEnabler) *Core {
	return &Core{LevelEnabler: level, provider: provider}
}

// Tee combines a local core with an exporting one
func Tee(local zapcore.Core, provider *Provider, level zapcore.LevelEnabler) zapcore.Core {
	return zapcore.NewTee(local, NewCore(provider, level))
}

func (c *Core) With(fields []zapcore.Field) zapcore.Core {
	merged := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	merged = append(merged, c.fields...)
	merged = append(merged, fields...)
	return &Core{LevelEnabler: c.LevelEnabler, provider: c.provider, fields: merged}
}

func (c *Core) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

func (c *Core) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	var record log.Record
	record.SetTimestamp(entry.Time)
	record.SetSeverity(severity(entry.Level))
	record.SetSeverityText(entry.Level.String())
	record.SetBody(log.StringValue(entry.Message))

	attrs := make([]log.KeyValue, 0, len(c.fields)+len(fields)+3)
	if entry.Caller.Defined {
		attrs = append(attrs,
			log.String("caller", entry.Caller.TrimmedPath()),
			log.String("caller_function", entry.Caller.Function),
		)
	}
	if entry.LoggerName != "" {
		attrs = append(attrs, log.String("logger", entry.LoggerName))
	}
	if entry.Stack != "" {
		attrs = append(attrs, log.String("stacktrace", entry.Stack))
	}

	ns := ""
	for _, group := range [][]zapcore.Field{c.fields, fields} {
		for _, f := range group {
			if f.Type == zapcore.NamespaceType {
				ns += f.Key + "."
				continue
			}
			if kv, ok := attribute(f); ok {
				kv.Key = ns + kv.Key
				attrs = append(attrs, kv)
			}
		}
	}
	record.AddAttributes(attrs...)

	c.provider.logger.Emit(context.Background(), record)
	return nil
}

func (c *Core) Sync() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return c.provider.ForceFlush(ctx)
}

func severity(level zapcore.Level) log.Severity {
	switch level {
	case zapcore.DebugLevel:
		return log.SeverityDebug
	case zapcore.InfoLevel:
		return log.SeverityInfo
	case zapcore.WarnLevel:
		return log.SeverityWarn
	case zapcore.ErrorLevel, zapcore.DPanicLevel:
		return log.SeverityError
	case zapcore.PanicLevel, zapcore.FatalLevel:
		return log.SeverityFatal
	default:
		return log.SeverityInfo
	}
}

// attribute converts a zap field. Unsupported fields report false.
func attribute(f zapcore.Field) (log.KeyValue, bool) {
	switch f.Type {
	case zapcore.BoolType:
		return log.Bool(f.Key, f.Integer == 1), true
	case zapcore.Int64Type, zapcore.Int32Type, zapcore.Int16Type, zapcore.Int8Type,
		zapcore.Uint64Type, zapcore.Uint32Type, zapcore.Uint16Type, zapcore.Uint8Type:
		return log.Int64(f.Key, f.Integer), true
	case zapcore.Float64Type:
		return log.Float64(f.Key, math.Float64frombits(uint64(f.Integer))), true
	case zapcore.Float32Type:
		return log.Float64(f.Key, float64(math.Float32frombits(uint32(f.Integer)))), true
	case zapcore.StringType:
		return log.String(f.Key, f.String), true
	case zapcore.DurationType:
		return log.String(f.Key, time.Duration(f.Integer).String()), true
	case zapcore.TimeType:
		t := time.Unix(0, f.Integer)
		if loc, ok := f.Interface.(*time.Location); ok {
			t = t.In(loc)
		}
		return log.String(f.Key, t.Format(time.RFC3339Nano)), true
	case zapcore.TimeFullType:
		if t, ok := f.Interface.(time.Time); ok {
			return log.String(f.Key, t.Format(time.RFC3339Nano)), true
		}
	case zapcore.ErrorType:
		if err, ok := f.Interface.(error); ok {
			return log.String(f.Key, err.Error()), true
		}
	case zapcore.StringerType:
		if s, ok := f.Interface.(fmt.Stringer); ok {
			return log.String(f.Key, s.String()), true
		}
	case zapcore.BinaryType:
		if b, ok := f.Interface.([]byte); ok {
			return log.Bytes(f.Key, b), true
		}
	case zapcore.ByteStringType:
		if b, ok := f.Interface.([]byte); ok {
			return log.String(f.Key, string(b)), true
		}
	case zapcore.SkipType:
	default:
		if f.Interface != nil {
			return log.String(f.Key, fmt.Sprintf("%v", f.Interface)), true
		}
	}
	return log.KeyValue{}, false
}
