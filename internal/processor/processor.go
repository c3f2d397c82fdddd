package processor

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/yourorg/worldpay-gateway/internal/adapter"
	"github.com/yourorg/worldpay-gateway/internal/context"
)

// ErrUnknownProvider is returned when no adapter is registered under an alias.
var ErrUnknownProvider = errors.New("no adapter registered for provider")

var (
	formsBuiltTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_forms_built_total",
		Help: "Payment forms built, by provider and result.",
	}, []string{"provider", "result"})

	callbacksProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_callbacks_processed_total",
		Help: "Gateway callbacks processed, by provider and terminal state.",
	}, []string{"provider", "state"})

	operationDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gateway_operation_duration_seconds",
		Help:    "Duration of adapter operations.",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider", "operation"})
)

// GetFormsBuiltTotal exposes the form counter for tests.
func GetFormsBuiltTotal() *prometheus.CounterVec { return formsBuiltTotal }

// GetCallbacksProcessedTotal exposes the callback counter for tests.
func GetCallbacksProcessedTotal() *prometheus.CounterVec { return callbacksProcessedTotal }

// GetOperationDurationSeconds exposes the duration histogram for tests.
func GetOperationDurationSeconds() *prometheus.HistogramVec { return operationDurationSeconds }

// Processor selects the adapter registered for a provider alias and wraps
// each call with a span and metrics.
type Processor struct {
	adapterRegistry map[string]adapter.ProviderAdapter
}

// NewProcessor creates a new Processor with a given adapter registry.
func NewProcessor(registry map[string]adapter.ProviderAdapter) *Processor {
	if registry == nil {
		panic("adapter registry cannot be nil")
	}
	return &Processor{
		adapterRegistry: registry,
	}
}

// Adapter returns the adapter registered under alias.
func (p *Processor) Adapter(alias string) (adapter.ProviderAdapter, error) {
	a, ok := p.adapterRegistry[alias]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, alias)
	}
	return a, nil
}

// GenerateForm builds the redirect form with the adapter registered under alias.
func (p *Processor) GenerateForm(traceCtx context.TraceContext, alias string, order adapter.Order, urls adapter.RedirectURLs) (adapter.PaymentForm, error) {
	a, err := p.Adapter(alias)
	if err != nil {
		return adapter.PaymentForm{}, err
	}

	ctx, span := otel.Tracer("processor").Start(traceCtx.Context(), "Processor.GenerateForm")
	defer span.End()
	span.SetAttributes(
		attribute.String("provider", alias),
		attribute.String("order_number", order.OrderNumber),
	)

	start := time.Now()
	form, err := a.GenerateForm(traceCtx.WithContext(ctx), order, urls)
	operationDurationSeconds.WithLabelValues(alias, "generate_form").Observe(time.Since(start).Seconds())
	if err != nil {
		formsBuiltTotal.WithLabelValues(alias, errorKind(err)).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return adapter.PaymentForm{}, err
	}
	formsBuiltTotal.WithLabelValues(alias, "ok").Inc()
	return form, nil
}

// ProcessCallback hands a gateway notification to the adapter registered under alias.
func (p *Processor) ProcessCallback(traceCtx context.TraceContext, alias string, order adapter.Order, req adapter.CallbackRequest) (adapter.CallbackResult, error) {
	a, err := p.Adapter(alias)
	if err != nil {
		return adapter.CallbackResult{}, err
	}

	ctx, span := otel.Tracer("processor").Start(traceCtx.Context(), "Processor.ProcessCallback")
	defer span.End()
	span.SetAttributes(
		attribute.String("provider", alias),
		attribute.String("order_number", order.OrderNumber),
	)

	start := time.Now()
	res, err := a.ProcessCallback(traceCtx.WithContext(ctx), order, req)
	operationDurationSeconds.WithLabelValues(alias, "process_callback").Observe(time.Since(start).Seconds())
	if err != nil {
		callbacksProcessedTotal.WithLabelValues(alias, errorKind(err)).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return adapter.CallbackResult{}, err
	}
	callbacksProcessedTotal.WithLabelValues(alias, string(res.State)).Inc()
	span.SetAttributes(attribute.String("callback_state", string(res.State)))
	return res, nil
}

// ResolveURL returns the continue, cancel or error URL configured for alias.
func (p *Processor) ResolveURL(alias, kind string) (string, error) {
	a, err := p.Adapter(alias)
	if err != nil {
		return "", err
	}
	switch kind {
	case "continue":
		return a.ContinueURL()
	case "cancel":
		return a.CancelURL()
	case "error":
		return a.ErrorURL()
	default:
		return "", fmt.Errorf("unknown url kind %q: %w", kind, adapter.ErrValidation)
	}
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, adapter.ErrConfiguration):
		return "configuration_error"
	case errors.Is(err, adapter.ErrValidation):
		return "validation_error"
	case errors.Is(err, adapter.ErrProtocol):
		return "protocol_error"
	default:
		return "error"
	}
}
