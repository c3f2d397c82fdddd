package mock

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/worldpay-gateway/internal/adapter"
	"github.com/yourorg/worldpay-gateway/internal/context"
)

func TestNewMockAdapter(t *testing.T) {
	mock := NewMockAdapter("test_mock")
	require.NotNil(t, mock)
	assert.Equal(t, "test_mock", mock.GetName())
}

func TestMockAdapter_DefaultBehavior(t *testing.T) {
	mock := NewMockAdapter("default_mock")
	traceCtx := context.NewTraceContext()
	order := adapter.Order{OrderNumber: "order-123", TransactionAmount: decimal.NewFromInt(12)}

	form, err := mock.GenerateForm(traceCtx, order, adapter.RedirectURLs{CallbackURL: "https://cb"})
	require.NoError(t, err)
	assert.Equal(t, "order-123", form.Fields.Get("order"))
	assert.Equal(t, "12.00", form.Fields.Get("amount"))

	result, err := mock.ProcessCallback(traceCtx, order, adapter.CallbackRequest{})
	require.NoError(t, err)
	assert.Equal(t, adapter.StateCompleted, result.State)
	require.NotNil(t, result.TransactionInfo)
	assert.NotEmpty(t, result.TransactionInfo.TransactionID)
	assert.True(t, result.TransactionInfo.AmountAuthorized.Equal(order.TransactionAmount))
}

func TestMockAdapter_WithCustomFunc_Error(t *testing.T) {
	mock := NewMockAdapter("custom_mock_error")
	expectedError := fmt.Errorf("custom processing error")
	mock.ProcessCallbackFunc = func(tc context.TraceContext, o adapter.Order, r adapter.CallbackRequest) (adapter.CallbackResult, error) {
		return adapter.CallbackResult{}, expectedError
	}

	_, err := mock.ProcessCallback(context.NewTraceContext(), adapter.Order{}, adapter.CallbackRequest{})
	assert.Equal(t, expectedError, err)
}

func TestMockAdapter_URLs(t *testing.T) {
	mock := &MockAdapter{Name: "m", Continue: "c", Cancel: "x", Error: "e"}
	u, _ := mock.ContinueURL()
	assert.Equal(t, "c", u)
	u, _ = mock.CancelURL()
	assert.Equal(t, "x", u)
	u, _ = mock.ErrorURL()
	assert.Equal(t, "e", u)
}
