package types

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestMoneyUnmarshalAcceptsNumberAndString(t *testing.T) {
	var payload struct {
		Cost  Money `json:"cost"`
		Value Money `json:"value"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"cost":"12.50","value":200}`), &payload))

	require.True(t, payload.Cost.Valid())
	require.True(t, payload.Cost.Decimal().Equal(decimal.RequireFromString("12.50")))
	require.True(t, payload.Value.Valid())
	require.True(t, payload.Value.Decimal().Equal(decimal.NewFromInt(200)))
}

func TestMoneyUnmarshalInvalidBecomesInvalidNotError(t *testing.T) {
	var payload struct {
		Value Money `json:"value"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"value":"not-a-number"}`), &payload))
	require.False(t, payload.Value.Valid())
	require.True(t, payload.Value.Decimal().IsZero())

	require.NoError(t, json.Unmarshal([]byte(`{"value":null}`), &payload))
	require.False(t, payload.Value.Valid())
}

func TestMoneyMarshalRoundTrip(t *testing.T) {
	out, err := json.Marshal(NewMoney(decimal.RequireFromString("99.99")))
	require.NoError(t, err)
	require.Equal(t, "99.99", string(out))

	out, err = json.Marshal(Money{})
	require.NoError(t, err)
	require.Equal(t, "null", string(out))
}

func TestMoneyScan(t *testing.T) {
	var m Money
	require.NoError(t, m.Scan([]byte("45.00")))
	require.True(t, m.Valid())

	require.NoError(t, m.Scan(nil))
	require.False(t, m.Valid())

	require.Error(t, m.Scan(struct{}{}))
}
