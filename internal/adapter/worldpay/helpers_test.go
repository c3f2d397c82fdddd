package worldpay

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/yourorg/worldpay-gateway/internal/adapter"
)

type stubCountries map[string]string

func (s stubCountries) Country(id string) (adapter.Country, error) {
	code, ok := s[id]
	if !ok {
		return adapter.Country{}, fmt.Errorf("country %s not found", id)
	}
	return adapter.Country{ID: id, Code: code}, nil
}

type stubCurrencies map[string]string

func (s stubCurrencies) Currency(id string) (adapter.Currency, error) {
	code, ok := s[id]
	if !ok {
		return adapter.Currency{}, fmt.Errorf("currency %s not found", id)
	}
	return adapter.Currency{ID: id, Code: code}, nil
}

type stubReference struct {
	countries  map[string]bool
	currencies map[string]bool
}

func (s stubReference) IsISO3166Country(code string) bool  { return s.countries[code] }
func (s stubReference) IsISO4217Currency(code string) bool { return s.currencies[code] }

func testLookups() Lookups {
	return Lookups{
		Countries:  stubCountries{"uk-id": "gb", "us-id": "US", "bogus-id": "XX"},
		Currencies: stubCurrencies{"gbp-id": "gbp", "usd-id": "USD", "bogus-id": "ABC"},
		Reference: stubReference{
			countries:  map[string]bool{"GB": true, "US": true},
			currencies: map[string]bool{"GBP": true, "USD": true},
		},
	}
}

func testSettings() Settings {
	return Settings{
		ContinueURL: "https://shop.example/continue",
		CancelURL:   "https://shop.example/cancel",
		ErrorURL:    "https://shop.example/error",
		InstallID:   "1234",
		TestMode:    true,
	}
}

func testOrder() adapter.Order {
	return adapter.Order{
		OrderNumber: "ORDER-1",
		Customer: adapter.Customer{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "ada@example.com",
		},
		Properties: map[string]string{
			"billingFirstName": "Augusta",
			"billingAddress1":  "12 St James's Square",
			"billingCity":      "London",
			"billingZip":       "SW1Y 4JH",
		},
		CountryID:         "uk-id",
		CurrencyID:        "gbp-id",
		TransactionAmount: decimal.NewFromInt(10),
	}
}

func testURLs() adapter.RedirectURLs {
	return adapter.RedirectURLs{
		ContinueURL: "https://shop.example/return?o=1",
		CancelURL:   "https://shop.example/cancel?o=1",
		CallbackURL: "https://shop.example/callback?o=1",
	}
}
