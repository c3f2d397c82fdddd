package adapter

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldSet_KeepsInsertionOrder(t *testing.T) {
	fs := NewFieldSet()
	fs.Add("instId", "1234")
	fs.Add("testMode", "100")
	fs.Add("amount", "10.00")

	assert.Equal(t, []string{"instId", "testMode", "amount"}, fs.Names())
	assert.Equal(t, 3, fs.Len())
	assert.Equal(t, "100", fs.Get("testMode"))
	assert.True(t, fs.Has("amount"))
	assert.False(t, fs.Has("signature"))
	assert.Equal(t, "", fs.Get("signature"))
}

func TestFieldSet_AddReplacesInPlace(t *testing.T) {
	fs := NewFieldSet()
	fs.Add("a", "1")
	fs.Add("b", "2")
	fs.Add("a", "3")

	assert.Equal(t, []string{"a", "b"}, fs.Names())
	assert.Equal(t, "3", fs.Get("a"))
}

func TestFieldSet_MarshalJSONIsOrdered(t *testing.T) {
	fs := NewFieldSet()
	fs.Add("z", "last")
	fs.Add("a", `quo"te`)

	b, err := json.Marshal(fs)
	require.NoError(t, err)
	assert.Equal(t, `{"z":"last","a":"quo\"te"}`, string(b))
}

func TestFieldSet_StringAndValues(t *testing.T) {
	fs := NewFieldSet()
	fs.Add("cartId", "ORDER-1")
	fs.Add("currency", "GBP")

	assert.Equal(t, "{cartId=ORDER-1,currency=GBP}", fs.String())
	v := fs.Values()
	assert.Equal(t, "ORDER-1", v.Get("cartId"))
	assert.Equal(t, "GBP", v.Get("currency"))
}

func TestOrder_Property(t *testing.T) {
	o := Order{TransactionAmount: decimal.NewFromInt(1)}
	_, ok := o.Property("x")
	assert.False(t, ok, "nil property bag must tolerate lookups")

	o.Properties = map[string]string{"billingCity": "Leeds"}
	v, ok := o.Property("billingCity")
	assert.True(t, ok)
	assert.Equal(t, "Leeds", v)
}

func TestCallbackRequest_ToleratesAbsence(t *testing.T) {
	var req CallbackRequest
	assert.Equal(t, "", req.QueryValue("msgType"))
	assert.Equal(t, "", req.FormValue("transStatus"))
}
