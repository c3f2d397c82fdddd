package refdata

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/worldpay-gateway/internal/adapter"
)

var _ adapter.ReferenceData = ISO{}
var _ adapter.CountryLookup = (*Store)(nil)
var _ adapter.CurrencyLookup = (*Store)(nil)

func TestISO_Countries(t *testing.T) {
	iso := ISO{}
	for _, code := range []string{"GB", "US", "DE", "FR", "JP", "BR"} {
		assert.True(t, iso.IsISO3166Country(code), code)
	}
	for _, code := range []string{"", "G", "gb", "GBR", "G1", "ZZ", "XA"} {
		assert.False(t, iso.IsISO3166Country(code), code)
	}
	// withdrawn, reserved and user-assigned regions
	for _, code := range []string{"UK", "YU", "CS", "AN", "SU", "ZR", "DD", "XK", "EZ", "EU",
		"AC", "TA", "DG", "IC", "CP", "EA", "FX", "UN", "QO"} {
		assert.False(t, iso.IsISO3166Country(code), code)
	}
}

func TestISO_Currencies(t *testing.T) {
	iso := ISO{}
	for _, code := range []string{"GBP", "USD", "EUR", "JPY", "CHF"} {
		assert.True(t, iso.IsISO4217Currency(code), code)
	}
	for _, code := range []string{"", "GB", "gbp", "GBPX", "12A"} {
		assert.False(t, iso.IsISO4217Currency(code), code)
	}
	// withdrawn currencies and non-payment X-codes
	for _, code := range []string{"DEM", "FRF", "ZWD", "VEF", "BYR", "HRK", "XEU", "XAU", "XTS", "XXX"} {
		assert.False(t, iso.IsISO4217Currency(code), code)
	}
}

func TestStore_Lookups(t *testing.T) {
	s := NewStore(DefaultCountries, DefaultCurrencies)

	c, err := s.Country("gb")
	require.NoError(t, err)
	assert.Equal(t, "GB", c.Code)

	cur, err := s.Currency("eur")
	require.NoError(t, err)
	assert.Equal(t, "EUR", cur.Code)

	_, err = s.Country("nowhere")
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = s.Currency("nothing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestStore_Validate(t *testing.T) {
	s := NewStore(DefaultCountries, DefaultCurrencies)
	require.NoError(t, s.Validate(ISO{}))

	s.AddCurrency(adapter.Currency{ID: "bad", Code: "ABCD"})
	assert.Error(t, s.Validate(ISO{}))
}
