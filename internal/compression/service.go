package compression

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/agentd/internal/message"
)

const (
	tracerName = "github.com/fyrsmithlabs/agentd/internal/compression"
	meterName  = "compression"
)

// Service wraps a Strategy with observability for use as the agent
// loop's compression hook.
type Service struct {
	strategy Strategy
	logger   *zap.Logger

	tracer trace.Tracer
	meter  metric.Meter

	compressionCounter metric.Int64Counter
	compressionTime    metric.Float64Histogram
	messagesRemoved    metric.Int64Histogram
}

// NewService creates a metered compression service around the strategy.
func NewService(strategy Strategy, logger *zap.Logger) (*Service, error) {
	if strategy == nil {
		return nil, fmt.Errorf("compression service: strategy is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Service{
		strategy: strategy,
		logger:   logger,
		tracer:   otel.Tracer(tracerName),
		meter:    otel.Meter(meterName),
	}
	if err := s.initMetrics(); err != nil {
		return nil, fmt.Errorf("compression service: init metrics: %w", err)
	}
	return s, nil
}

// Maybe compresses the bag when the strategy's threshold is exceeded,
// returning the (possibly unchanged) bag.
func (s *Service) Maybe(ctx context.Context, bag message.Bag) (message.Bag, error) {
	if !s.strategy.ShouldCompress(bag) {
		return bag, nil
	}

	ctx, span := s.tracer.Start(ctx, "compression.compress",
		trace.WithAttributes(
			attribute.String("strategy", s.strategy.Name()),
			attribute.Int("messages_before", bag.NonSystemCount()),
		),
	)
	defer span.End()

	start := time.Now()
	before := bag.NonSystemCount()

	compressed, err := s.strategy.Compress(ctx, bag)
	if err != nil {
		span.RecordError(err)
		return message.Bag{}, fmt.Errorf("compression strategy %q: %w", s.strategy.Name(), err)
	}

	after := compressed.NonSystemCount()
	elapsed := time.Since(start)

	attrs := metric.WithAttributes(attribute.String("strategy", s.strategy.Name()))
	s.compressionCounter.Add(ctx, 1, attrs)
	s.compressionTime.Record(ctx, elapsed.Seconds(), attrs)
	s.messagesRemoved.Record(ctx, int64(before-after), attrs)

	span.SetAttributes(attribute.Int("messages_after", after))
	s.logger.Debug("compressed conversation",
		zap.String("strategy", s.strategy.Name()),
		zap.Int("messages_before", before),
		zap.Int("messages_after", after),
		zap.Duration("elapsed", elapsed),
	)
	return compressed, nil
}

// Strategy returns the wrapped strategy.
func (s *Service) Strategy() Strategy { return s.strategy }

func (s *Service) initMetrics() error {
	var err error

	s.compressionCounter, err = s.meter.Int64Counter(
		"compression.operations_total",
		metric.WithDescription("Total number of compression operations"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	s.compressionTime, err = s.meter.Float64Histogram(
		"compression.duration_seconds",
		metric.WithDescription("Time spent compressing conversations"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 5.0, 30.0),
	)
	if err != nil {
		return err
	}

	s.messagesRemoved, err = s.meter.Int64Histogram(
		"compression.messages_removed",
		metric.WithDescription("Non-system messages removed per compression"),
		metric.WithUnit("1"),
	)
	return err
}
