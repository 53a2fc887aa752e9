// Package otel exports application logs to an OpenTelemetry collector.
package otel

import (
	"context"
	"fmt"
	"io"
	"time"

	otelattribute "go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/bravo68web/repodash/internal/config"
)

const shutdownTimeout = 5 * time.Second

var _ io.Closer = (*Provider)(nil)

// Provider owns the OTEL log pipeline for the process
type Provider struct {
	logProvider *sdklog.LoggerProvider
	logger      log.Logger
}

// NewProvider builds an OTLP log exporter (gRPC by default, HTTP when
// configured) behind a batch processor
func NewProvider(ctx context.Context, cfg *config.OTELConfig, version string) (*Provider, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("OTEL is not enabled")
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(version),
			otelattribute.String("environment", cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	var exporter sdklog.Exporter
	if cfg.UseHTTP {
		exporter, err = httpExporter(ctx, cfg)
	} else {
		exporter, err = grpcExporter(ctx, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	return newProvider(cfg.ServiceName,
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
	), nil
}

func newProvider(name string, opts ...sdklog.LoggerProviderOption) *Provider {
	lp := sdklog.NewLoggerProvider(opts...)
	return &Provider{
		logProvider: lp,
		logger:      lp.Logger(name),
	}
}

func grpcExporter(ctx context.Context, cfg *config.OTELConfig) (sdklog.Exporter, error) {
	if !cfg.Insecure {
		return otlploggrpc.New(ctx, otlploggrpc.WithEndpoint(cfg.Endpoint))
	}

	conn, err := grpc.NewClient(
		cfg.Endpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
	}
	return otlploggrpc.New(ctx, otlploggrpc.WithGRPCConn(conn))
}

func httpExporter(ctx context.Context, cfg *config.OTELConfig) (sdklog.Exporter, error) {
	opts := []otlploghttp.Option{otlploghttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlploghttp.WithInsecure())
	}
	return otlploghttp.New(ctx, opts...)
}

// ForceFlush exports all pending records
func (p *Provider) ForceFlush(ctx context.Context) error {
	return p.logProvider.ForceFlush(ctx)
}

// Close flushes and shuts the pipeline down
func (p *Provider) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return p.logProvider.Shutdown(ctx)
}
