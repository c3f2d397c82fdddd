// Package adapter defines the interface for hosted payment page adapters
// and the provider-neutral types exchanged with the checkout host.
// Adapters translate a host order into the fields a gateway's payment page
// expects and normalize the gateway's asynchronous callback into a
// TransactionInfo the host can apply to the order.
package adapter

import (
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/yourorg/worldpay-gateway/internal/context"
)

// Customer is the customer attached to an order.
type Customer struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// Order is a read-only snapshot of the host order at the time of the call.
// Adapters must never mutate it.
type Order struct {
	OrderNumber       string            `json:"order_number"`
	Customer          Customer          `json:"customer"`
	Properties        map[string]string `json:"properties,omitempty"`
	CountryID         string            `json:"country_id"`
	CurrencyID        string            `json:"currency_id"`
	TransactionAmount decimal.Decimal   `json:"transaction_amount"`
}

// Property returns the named order property and whether the order carries it.
func (o Order) Property(alias string) (string, bool) {
	if o.Properties == nil {
		return "", false
	}
	v, ok := o.Properties[alias]
	return v, ok
}

// RedirectURLs are the host endpoints injected into the outgoing form.
type RedirectURLs struct {
	ContinueURL string `json:"continue_url"`
	CancelURL   string `json:"cancel_url"`
	CallbackURL string `json:"callback_url"`
}

// PaymentForm is a self-posting form that redirects the shopper to the gateway.
type PaymentForm struct {
	Action string    `json:"action"`
	Method string    `json:"method"`
	Fields *FieldSet `json:"fields"`
}

// CallbackRequest is the inbound gateway notification. Every accessor
// tolerates absent keys.
type CallbackRequest struct {
	Query url.Values
	Form  url.Values
}

// QueryValue returns the first query value for key, or "".
func (r CallbackRequest) QueryValue(key string) string {
	return r.Query.Get(key)
}

// FormValue returns the first form value for key, or "".
func (r CallbackRequest) FormValue(key string) string {
	return r.Form.Get(key)
}

// PaymentStatus is the normalized status of a processed callback.
type PaymentStatus string

const (
	PaymentStatusAuthorized            PaymentStatus = "Authorized"
	PaymentStatusCaptured              PaymentStatus = "Captured"
	PaymentStatusError                 PaymentStatus = "Error"
	PaymentStatusPendingExternalSystem PaymentStatus = "PendingExternalSystem"
)

// TransactionInfo is the normalized outcome of a gateway callback.
type TransactionInfo struct {
	AmountAuthorized decimal.Decimal `json:"amount_authorized"`
	TransactionFee   decimal.Decimal `json:"transaction_fee"`
	TransactionID    string          `json:"transaction_id"`
	PaymentStatus    PaymentStatus   `json:"payment_status"`
}

// CallbackState is the terminal state reached while processing a callback.
type CallbackState string

const (
	// StateIgnored: the notification is not an authorization result.
	StateIgnored CallbackState = "ignored"
	// StatePasswordMismatch: the shared response password did not match.
	StatePasswordMismatch CallbackState = "password_mismatch"
	// StateDeclined: the gateway reported a non-successful status.
	StateDeclined CallbackState = "declined"
	// StateCompleted: the payment was authorized or captured.
	StateCompleted CallbackState = "completed"
)

// CallbackResult holds the state reached and, when the order should change,
// the transaction outcome. A nil TransactionInfo means "leave the order as is".
type CallbackResult struct {
	State           CallbackState    `json:"state"`
	TransactionInfo *TransactionInfo `json:"transaction_info,omitempty"`
}

// ProviderAdapter is the interface implemented by each hosted payment page adapter.
type ProviderAdapter interface {
	// GetName returns the provider alias (e.g., "worldpay-bg350").
	GetName() string

	// GenerateForm builds the redirect form for the given order.
	GenerateForm(traceCtx context.TraceContext, order Order, urls RedirectURLs) (PaymentForm, error)

	// ProcessCallback validates a gateway notification and normalizes it.
	ProcessCallback(traceCtx context.TraceContext, order Order, req CallbackRequest) (CallbackResult, error)

	// ContinueURL, CancelURL and ErrorURL return the configured shopper redirect targets.
	ContinueURL() (string, error)
	CancelURL() (string, error)
	ErrorURL() (string, error)
}
