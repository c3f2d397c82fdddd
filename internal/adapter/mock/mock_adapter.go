package mock

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yourorg/worldpay-gateway/internal/adapter"
	"github.com/yourorg/worldpay-gateway/internal/context"
)

// MockAdapter is a mock implementation of the ProviderAdapter interface for testing.
type MockAdapter struct {
	Name string

	GenerateFormFunc    func(tc context.TraceContext, order adapter.Order, urls adapter.RedirectURLs) (adapter.PaymentForm, error)
	ProcessCallbackFunc func(tc context.TraceContext, order adapter.Order, req adapter.CallbackRequest) (adapter.CallbackResult, error)

	Continue, Cancel, Error string
}

// NewMockAdapter creates a new MockAdapter.
func NewMockAdapter(name string) *MockAdapter {
	return &MockAdapter{Name: name}
}

// GenerateForm implements the ProviderAdapter interface.
// It calls GenerateFormFunc if defined, otherwise echoes the order into a form.
func (m *MockAdapter) GenerateForm(tc context.TraceContext, order adapter.Order, urls adapter.RedirectURLs) (adapter.PaymentForm, error) {
	if m.GenerateFormFunc != nil {
		return m.GenerateFormFunc(tc, order, urls)
	}
	fs := adapter.NewFieldSet()
	fs.Add("order", order.OrderNumber)
	fs.Add("amount", order.TransactionAmount.StringFixed(2))
	fs.Add("callback", urls.CallbackURL)
	return adapter.PaymentForm{Action: "https://mock.invalid/pay", Method: http.MethodPost, Fields: fs}, nil
}

// ProcessCallback implements the ProviderAdapter interface.
// It calls ProcessCallbackFunc if defined, otherwise captures the full order amount.
func (m *MockAdapter) ProcessCallback(tc context.TraceContext, order adapter.Order, req adapter.CallbackRequest) (adapter.CallbackResult, error) {
	if m.ProcessCallbackFunc != nil {
		return m.ProcessCallbackFunc(tc, order, req)
	}
	return adapter.CallbackResult{
		State: adapter.StateCompleted,
		TransactionInfo: &adapter.TransactionInfo{
			AmountAuthorized: order.TransactionAmount,
			TransactionFee:   decimal.Zero,
			TransactionID:    uuid.NewString(),
			PaymentStatus:    adapter.PaymentStatusCaptured,
		},
	}, nil
}

func (m *MockAdapter) ContinueURL() (string, error) { return m.Continue, nil }
func (m *MockAdapter) CancelURL() (string, error)   { return m.Cancel, nil }
func (m *MockAdapter) ErrorURL() (string, error)    { return m.Error, nil }

// GetName implements the ProviderAdapter interface.
func (m *MockAdapter) GetName() string {
	return m.Name
}
