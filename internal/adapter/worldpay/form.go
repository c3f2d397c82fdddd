package worldpay

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/yourorg/worldpay-gateway/internal/adapter"
)

const (
	TestPurchaseURL = "https://secure-test.worldpay.com/wcc/purchase"
	LivePurchaseURL = "https://secure.worldpay.com/wcc/purchase"
)

// PurchaseURL returns the hosted payment page endpoint for the mode.
func PurchaseURL(testMode bool) string {
	if testMode {
		return TestPurchaseURL
	}
	return LivePurchaseURL
}

// BuildForm builds the self-posting redirect form for an order.
func BuildForm(order adapter.Order, s Settings, urls adapter.RedirectURLs, lk Lookups, logger *zap.Logger) (adapter.PaymentForm, error) {
	fields, err := BuildFields(order, s, urls, lk, logger)
	if err != nil {
		return adapter.PaymentForm{}, err
	}
	return adapter.PaymentForm{
		Action: PurchaseURL(s.TestMode),
		Method: http.MethodPost,
		Fields: fields,
	}, nil
}
