// Package worldpay implements the Worldpay Business Gateway 350 hosted payment
// page: purchase token fields, MD5 signing and payment response callbacks.
package worldpay

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/yourorg/worldpay-gateway/internal/adapter"
	"github.com/yourorg/worldpay-gateway/internal/context"
)

// ProviderAlias is the default registry name.
const ProviderAlias = "worldpay-bg350"

// Provider implements adapter.ProviderAdapter for one installation.
// It holds only immutable settings and lookups, so it is safe for concurrent use.
type Provider struct {
	name     string
	settings Settings
	lookups  Lookups
	logger   *zap.Logger
}

var _ adapter.ProviderAdapter = (*Provider)(nil)

// NewProvider creates a Provider. An empty name falls back to ProviderAlias.
func NewProvider(name string, s Settings, lk Lookups, logger *zap.Logger) *Provider {
	if name == "" {
		name = ProviderAlias
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{
		name:     name,
		settings: s,
		lookups:  lk,
		logger:   logger.Named("worldpay").With(zap.String("provider", name)),
	}
}

// GetName returns the name of the provider.
func (p *Provider) GetName() string {
	return p.name
}

// FinalizeAtContinueURL reports whether the host should finalize the order when
// the shopper lands on the continue URL. Worldpay finalizes via the callback.
func (p *Provider) FinalizeAtContinueURL() bool {
	return false
}

func (p *Provider) ContinueURL() (string, error) {
	return requireURL("continue", p.settings.ContinueURL)
}

func (p *Provider) CancelURL() (string, error) {
	return requireURL("cancel", p.settings.CancelURL)
}

func (p *Provider) ErrorURL() (string, error) {
	return requireURL("error", p.settings.ErrorURL)
}

// GenerateForm builds the redirect form for the order.
func (p *Provider) GenerateForm(traceCtx context.TraceContext, order adapter.Order, urls adapter.RedirectURLs) (adapter.PaymentForm, error) {
	log := p.logger.With(traceCtx.LogFields()...)
	form, err := BuildForm(order, p.settings, urls, p.lookups, log)
	if err != nil {
		log.Error("Worldpay form generation failed",
			zap.String("order_number", order.OrderNumber),
			zap.Error(err))
		return adapter.PaymentForm{}, err
	}
	return form, nil
}

// ProcessCallback validates a payment response and normalizes it.
func (p *Provider) ProcessCallback(traceCtx context.TraceContext, order adapter.Order, req adapter.CallbackRequest) (adapter.CallbackResult, error) {
	return NewCallbackProcessor(p.settings, p.logger.With(traceCtx.LogFields()...)).Process(order, req)
}

func requireURL(kind, value string) (string, error) {
	if value == "" {
		return "", fmt.Errorf("worldpay: %s url is not configured: %w", kind, adapter.ErrConfiguration)
	}
	return value, nil
}
