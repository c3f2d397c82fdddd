package worldpay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSign(t *testing.T) {
	tests := []struct {
		name                                     string
		secret, amount, currency, instID, cartID string
		want                                     string
	}{
		{"basic", "secret", "10.00", "GBP", "1234", "ORDER-1", "f9ea7ed86b0c119d16b6a3479ec91df6"},
		{"other merchant", "s3cr3t", "1.50", "USD", "211616", "ORD-0042", "feaca5efa6639940ba7a07a794e7b640"},
		{"all empty", "", "", "", "", "", "d77c7b5170e1933fc856d49a4ccbed9e"},
		{"utf8 secret", "seçret", "10.00", "EUR", "1", "O", "9001af2cb5fd2325c46a528efa7a1100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sign(tt.secret, tt.amount, tt.currency, tt.instID, tt.cartID)
			assert.Equal(t, tt.want, got)
			assert.Len(t, got, 32)
		})
	}
}

func TestSign_AmountChangeChangesDigest(t *testing.T) {
	a := Sign("secret", "10.00", "GBP", "1234", "ORDER-1")
	b := Sign("secret", "10.01", "GBP", "1234", "ORDER-1")
	assert.NotEqual(t, a, b)
	assert.Equal(t, "fe5befbdc61d8f56e051577ff0225687", b)
}

func TestSign_Deterministic(t *testing.T) {
	assert.Equal(t,
		Sign("secret", "10.00", "GBP", "1234", "ORDER-1"),
		Sign("secret", "10.00", "GBP", "1234", "ORDER-1"))
}

func TestSignaturePreimage_RedactsSecret(t *testing.T) {
	p := SignaturePreimage("10.00", "GBP", "1234", "ORDER-1")
	assert.Equal(t, "***:10.00:GBP:1234:ORDER-1", p)
	assert.NotContains(t, p, "secret")
}
