package worldpay

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/yourorg/worldpay-gateway/internal/adapter"
)

// Purchase token field names.
const (
	FieldInstID      = "instId"
	FieldTestMode    = "testMode"
	FieldAuthMode    = "authMode"
	FieldCartID      = "cartId"
	FieldAmount      = "amount"
	FieldCurrency    = "currency"
	FieldCancelURL   = "MC_cancelurl"
	FieldReturnURL   = "MC_returnurl"
	FieldCallbackURL = "MC_callbackurl"
	FieldName        = "name"
	FieldEmail       = "email"
	FieldAddress1    = "address1"
	FieldTown        = "town"
	FieldPostcode    = "postcode"
	FieldCountry     = "country"
	FieldSignature   = "signature"
)

const (
	AuthModeFull = "A" // full authorization, settles without further action
	AuthModePre  = "E" // pre-authorization, captured later

	testModeOn  = "100"
	testModeOff = "0"
)

// Lookups bundles the host reference data the field mapper reads.
type Lookups struct {
	Countries  adapter.CountryLookup
	Currencies adapter.CurrencyLookup
	Reference  adapter.ReferenceData
}

// BuildFields maps an order and merchant settings onto the purchase token fields.
// Settings are checked before any lookup; country and currency codes must be on
// the ISO reference lists.
func BuildFields(order adapter.Order, s Settings, urls adapter.RedirectURLs, lk Lookups, logger *zap.Logger) (*adapter.FieldSet, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	countryCode, err := resolveCountry(order, lk)
	if err != nil {
		return nil, err
	}
	currencyCode, err := resolveCurrency(order, lk)
	if err != nil {
		return nil, err
	}

	amount := order.TransactionAmount.StringFixed(2)

	authMode := AuthModePre
	if s.Capture {
		authMode = AuthModeFull
	}
	testMode := testModeOff
	if s.TestMode {
		testMode = testModeOn
	}

	firstName := propertyOr(order, s.BillingFirstNamePropertyAlias, order.Customer.FirstName)
	lastName := propertyOr(order, s.BillingLastNamePropertyAlias, order.Customer.LastName)

	fs := adapter.NewFieldSet()
	fs.Add(FieldInstID, s.InstallID)
	fs.Add(FieldTestMode, testMode)
	fs.Add(FieldAuthMode, authMode)
	fs.Add(FieldCartID, order.OrderNumber)
	fs.Add(FieldAmount, amount)
	fs.Add(FieldCurrency, currencyCode)
	fs.Add(FieldCancelURL, urls.CancelURL)
	fs.Add(FieldReturnURL, urls.ContinueURL)
	fs.Add(FieldCallbackURL, urls.CallbackURL)
	fs.Add(FieldName, firstName+" "+lastName)
	fs.Add(FieldEmail, order.Customer.Email)
	fs.Add(FieldAddress1, propertyOr(order, s.BillingAddressLine1PropertyAlias, ""))
	fs.Add(FieldTown, propertyOr(order, s.BillingAddressCityPropertyAlias, ""))
	fs.Add(FieldPostcode, propertyOr(order, s.BillingAddressZipCodePropertyAlias, ""))
	fs.Add(FieldCountry, countryCode)

	if s.MD5Secret != "" {
		sig := Sign(s.MD5Secret, amount, currencyCode, s.InstallID, order.OrderNumber)
		fs.Add(FieldSignature, sig)
		if s.VerboseLogging {
			logger.Info("Worldpay signature computed",
				zap.String("order_number", order.OrderNumber),
				zap.String("preimage", SignaturePreimage(amount, currencyCode, s.InstallID, order.OrderNumber)),
				zap.String("signature", sig))
		}
	}

	if s.VerboseLogging {
		logger.Info("Worldpay purchase fields",
			zap.String("order_number", order.OrderNumber),
			zap.Stringer("fields", fs))
	}
	return fs, nil
}

func resolveCountry(order adapter.Order, lk Lookups) (string, error) {
	if lk.Countries == nil || lk.Reference == nil {
		return "", fmt.Errorf("worldpay: country lookup is not configured: %w", adapter.ErrConfiguration)
	}
	c, err := lk.Countries.Country(order.CountryID)
	if err != nil {
		return "", fmt.Errorf("worldpay: resolving country %q: %v: %w", order.CountryID, err, adapter.ErrValidation)
	}
	code := strings.ToUpper(c.Code)
	if !lk.Reference.IsISO3166Country(code) {
		return "", fmt.Errorf("worldpay: country must be a valid ISO 3166 billing country code: %s: %w", code, adapter.ErrValidation)
	}
	return code, nil
}

func resolveCurrency(order adapter.Order, lk Lookups) (string, error) {
	if lk.Currencies == nil || lk.Reference == nil {
		return "", fmt.Errorf("worldpay: currency lookup is not configured: %w", adapter.ErrConfiguration)
	}
	c, err := lk.Currencies.Currency(order.CurrencyID)
	if err != nil {
		return "", fmt.Errorf("worldpay: resolving currency %q: %v: %w", order.CurrencyID, err, adapter.ErrValidation)
	}
	code := strings.ToUpper(c.Code)
	if !lk.Reference.IsISO4217Currency(code) {
		return "", fmt.Errorf("worldpay: currency must be a valid ISO 4217 currency code: %s: %w", code, adapter.ErrValidation)
	}
	return code, nil
}

// propertyOr returns the order property named by alias when the alias is set
// and the order carries it, otherwise fallback.
func propertyOr(order adapter.Order, alias, fallback string) string {
	if alias == "" {
		return fallback
	}
	if v, ok := order.Property(alias); ok {
		return v
	}
	return fallback
}
