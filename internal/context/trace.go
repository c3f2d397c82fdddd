package context

import (
	stdcontext "context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// TraceContext carries only cross-cutting concerns needed for observability.
type TraceContext struct {
	TraceID string // Globally unique ID for logs and spans
	SpanID  string // Current span identifier

	ctx stdcontext.Context
}

// NewTraceContext creates a new TraceContext with a unique TraceID and an initial SpanID.
func NewTraceContext() TraceContext {
	return TraceContext{
		TraceID: uuid.NewString(),
		SpanID:  uuid.NewString(), // Initial span
	}
}

// FromContext builds a TraceContext from a request context. When an
// OpenTelemetry span is active its ids are reused so log lines and spans
// correlate; otherwise fresh ids are generated.
func FromContext(ctx stdcontext.Context) TraceContext {
	tc := NewTraceContext()
	tc.ctx = ctx
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		tc.TraceID = sc.TraceID().String()
		tc.SpanID = sc.SpanID().String()
	}
	return tc
}

// Context returns the underlying request context, or context.Background.
func (tc TraceContext) Context() stdcontext.Context {
	if tc.ctx == nil {
		return stdcontext.Background()
	}
	return tc.ctx
}

// WithContext returns a copy bound to ctx for a child operation. The trace id
// is kept unless ctx carries a recording span, whose ids then take over.
func (tc TraceContext) WithContext(ctx stdcontext.Context) TraceContext {
	tc.ctx = ctx
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		tc.TraceID = sc.TraceID().String()
		tc.SpanID = sc.SpanID().String()
	}
	return tc
}

// LogFields returns the zap fields that tie a log line to this trace.
func (tc TraceContext) LogFields() []zap.Field {
	return []zap.Field{
		zap.String("trace_id", tc.TraceID),
		zap.String("span_id", tc.SpanID),
	}
}
