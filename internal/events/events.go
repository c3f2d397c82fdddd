// Package events hands processed callback outcomes to the order system.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/yourorg/worldpay-gateway/internal/adapter"
	"github.com/yourorg/worldpay-gateway/internal/circuitbreaker"
	"github.com/yourorg/worldpay-gateway/internal/policy"
)

// ErrCircuitOpen is returned without attempting delivery while the
// downstream is considered unhealthy.
var ErrCircuitOpen = errors.New("events: circuit open")

// Outcome is published once per distinct transaction outcome.
type Outcome struct {
	Provider    string                  `json:"provider"`
	OrderNumber string                  `json:"order_number"`
	State       adapter.CallbackState   `json:"state"`
	Transaction adapter.TransactionInfo `json:"transaction"`
	Review      policy.PolicyDecision   `json:"review"`
	TraceID     string                  `json:"trace_id"`
	ProcessedAt time.Time               `json:"processed_at"`
}

// Publisher delivers outcomes.
type Publisher interface {
	Publish(ctx context.Context, o Outcome) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes outcomes as JSON keyed by order number.
type KafkaPublisher struct {
	writer messageWriter
}

// NewKafkaPublisher creates a publisher for the given brokers and topic.
func NewKafkaPublisher(brokers, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: &kafka.Writer{
		Addr:     kafka.TCP(brokers),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}}
}

func (p *KafkaPublisher) Publish(ctx context.Context, o Outcome) error {
	value, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("events: encoding outcome: %w", err)
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(o.OrderNumber), Value: value}); err != nil {
		return fmt.Errorf("events: publishing outcome for %s: %w", o.OrderNumber, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error { return p.writer.Close() }

// LogPublisher logs outcomes instead of publishing them.
type LogPublisher struct {
	logger *zap.Logger
}

func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, o Outcome) error {
	p.logger.Info("Payment outcome",
		zap.String("provider", o.Provider),
		zap.String("order_number", o.OrderNumber),
		zap.String("state", string(o.State)),
		zap.String("transaction_id", o.Transaction.TransactionID),
		zap.String("payment_status", string(o.Transaction.PaymentStatus)),
		zap.Bool("manual_review", o.Review.EscalateManual),
		zap.String("trace_id", o.TraceID))
	return nil
}

func (p *LogPublisher) Close() error { return nil }

// GuardedPublisher fails fast through a circuit breaker when the wrapped
// publisher keeps failing.
type GuardedPublisher struct {
	next    Publisher
	breaker *circuitbreaker.CircuitBreaker
	target  string
	logger  *zap.Logger
}

// NewGuardedPublisher wraps next. target names the downstream in the breaker.
func NewGuardedPublisher(next Publisher, breaker *circuitbreaker.CircuitBreaker, target string, logger *zap.Logger) *GuardedPublisher {
	return &GuardedPublisher{next: next, breaker: breaker, target: target, logger: logger}
}

func (p *GuardedPublisher) Publish(ctx context.Context, o Outcome) error {
	if !p.breaker.AllowRequest(p.target) {
		p.logger.Warn("Outcome publisher circuit is open",
			zap.String("target", p.target),
			zap.String("order_number", o.OrderNumber))
		return ErrCircuitOpen
	}
	if err := p.next.Publish(ctx, o); err != nil {
		p.breaker.RecordFailure(p.target)
		state, failures := p.breaker.GetStatus(p.target)
		p.logger.Error("Outcome publish failed",
			zap.String("target", p.target),
			zap.String("circuit_state", state.String()),
			zap.Int("consecutive_failures", failures),
			zap.Error(err))
		return err
	}
	p.breaker.RecordSuccess(p.target)
	return nil
}

func (p *GuardedPublisher) Close() error { return p.next.Close() }
