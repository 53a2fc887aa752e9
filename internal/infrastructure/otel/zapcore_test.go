package otel

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type exported struct {
	body     string
	severity log.Severity
	attrs    map[string]log.Value
}

type memoryExporter struct {
	mu      sync.Mutex
	records []exported
}

func (e *memoryExporter) Export(_ context.Context, records []sdklog.Record) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, r := range records {
		rec := exported{body: r.Body().AsString(), severity: r.Severity(), attrs: map[string]log.Value{}}
		r.WalkAttributes(func(kv log.KeyValue) bool {
			rec.attrs[kv.Key] = kv.Value
			return true
		})
		e.records = append(e.records, rec)
	}
	return nil
}

func (e *memoryExporter) Shutdown(context.Context) error   { return nil }
func (e *memoryExporter) ForceFlush(context.Context) error { return nil }

func TestCoreExportsEntriesWithFields(t *testing.T) {
	t.Parallel()

	exp := &memoryExporter{}
	provider := newProvider("test", sdklog.WithProcessor(sdklog.NewSimpleProcessor(exp)))
	t.Cleanup(func() { _ = provider.Close() })

	zl := zap.New(NewCore(provider, zapcore.InfoLevel)).With(zap.String("component", "upload"))
	zl.Debug("dropped")
	zl.Warn("stored",
		zap.Int("files", 3),
		zap.Float64("ratio", 0.5),
		zap.Error(errors.New("boom")),
		zap.Namespace("req"),
		zap.String("id", "abc"),
	)

	if len(exp.records) != 1 {
		t.Fatalf("records = %d, want 1", len(exp.records))
	}
	rec := exp.records[0]
	if rec.body != "stored" || rec.severity != log.SeverityWarn {
		t.Fatalf("record = %+v", rec)
	}
	if got := rec.attrs["component"].AsString(); got != "upload" {
		t.Fatalf("component = %q", got)
	}
	if got := rec.attrs["files"].AsInt64(); got != 3 {
		t.Fatalf("files = %d", got)
	}
	if got := rec.attrs["ratio"].AsFloat64(); got != 0.5 {
		t.Fatalf("ratio = %v, want 0.5", got)
	}
	if got := rec.attrs["error"].AsString(); got != "boom" {
		t.Fatalf("error = %q", got)
	}
	if got := rec.attrs["req.id"].AsString(); got != "abc" {
		t.Fatalf("namespaced id = %q", got)
	}
}
