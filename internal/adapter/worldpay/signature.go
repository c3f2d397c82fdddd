package worldpay

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

const redacted = "***"

// Sign returns the lowercase hex MD5 of secret:amount:currency:installID:orderNumber,
// the purchase token signature expected when an MD5 secret is configured.
func Sign(secret, amount, currency, installID, orderNumber string) string {
	sum := md5.Sum([]byte(preimage(secret, amount, currency, installID, orderNumber)))
	return hex.EncodeToString(sum[:])
}

// SignaturePreimage returns the signed string with the secret redacted.
func SignaturePreimage(amount, currency, installID, orderNumber string) string {
	return preimage(redacted, amount, currency, installID, orderNumber)
}

func preimage(secret, amount, currency, installID, orderNumber string) string {
	return strings.Join([]string{secret, amount, currency, installID, orderNumber}, ":")
}
