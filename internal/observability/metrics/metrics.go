// Package metrics exposes application-level instruments over OTLP.
package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes the ledger's domain instruments.
type Metrics struct {
	salesCreated      metric.Int64Counter
	paymentsRecorded  metric.Int64Counter
	ledgerEntries     metric.Int64Counter
	unbalancedEntries metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "salesledger"
	}
	meter := provider.Meter(name)

	salesCreated, err := meter.Int64Counter("salesledger_sales_created_total")
	if err != nil {
		return nil, err
	}
	paymentsRecorded, err := meter.Int64Counter("salesledger_payments_recorded_total")
	if err != nil {
		return nil, err
	}
	ledgerEntries, err := meter.Int64Counter("salesledger_journal_entries_posted_total")
	if err != nil {
		return nil, err
	}
	unbalancedEntries, err := meter.Int64Counter("salesledger_unbalanced_entries_rejected_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		salesCreated:      salesCreated,
		paymentsRecorded:  paymentsRecorded,
		ledgerEntries:     ledgerEntries,
		unbalancedEntries: unbalancedEntries,
	}, nil
}

func (m *Metrics) RecordSaleCreated(ctx context.Context) {
	if m == nil || m.salesCreated == nil {
		return
	}
	m.salesCreated.Add(ctx, 1)
}

func (m *Metrics) RecordPaymentReceived(ctx context.Context) {
	if m == nil || m.paymentsRecorded == nil {
		return
	}
	m.paymentsRecorded.Add(ctx, 1)
}

func (m *Metrics) RecordLedgerEntry(ctx context.Context) {
	if m == nil || m.ledgerEntries == nil {
		return
	}
	m.ledgerEntries.Add(ctx, 1)
}

func (m *Metrics) RecordUnbalancedEntry(ctx context.Context) {
	if m == nil || m.unbalancedEntries == nil {
		return
	}
	m.unbalancedEntries.Add(ctx, 1)
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(protocol)) {
	case "grpc", "":
		return otlpmetricgrpc.New(context.Background(),
			otlpmetricgrpc.WithEndpoint(endpoint),
			otlpmetricgrpc.WithInsecure(),
		)
	case "http", "http/protobuf":
		return otlpmetrichttp.New(context.Background(),
			otlpmetrichttp.WithEndpoint(endpoint),
			otlpmetrichttp.WithInsecure(),
		)
	default:
		return nil, fmt.Errorf("unsupported otlp protocol %q", protocol)
	}
}
