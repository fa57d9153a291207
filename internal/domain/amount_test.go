package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountMarshalTwoDecimals(t *testing.T) {
	cases := []struct {
		in   Amount
		want string
	}{
		{Amount(15050), "150.50"},
		{Amount(15000), "150.00"},
		{Amount(5), "0.05"},
		{Amount(0), "0.00"},
		{Amount(-125), "-1.25"},
	}
	for _, tc := range cases {
		data, err := json.Marshal(tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.want, string(data))
	}
}

func TestAmountUnmarshalNumberAndString(t *testing.T) {
	var a Amount
	require.NoError(t, json.Unmarshal([]byte(`150.5`), &a))
	assert.Equal(t, Amount(15050), a)

	require.NoError(t, json.Unmarshal([]byte(`"99.99"`), &a))
	assert.Equal(t, Amount(9999), a)

	require.NoError(t, json.Unmarshal([]byte(`null`), &a))
	assert.Equal(t, Amount(0), a)

	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &a))
}

func TestAmountRoundTrip(t *testing.T) {
	// A value with a single decimal digit must come back with two.
	var a Amount
	require.NoError(t, json.Unmarshal([]byte(`150.5`), &a))
	out, err := json.Marshal(a)
	require.NoError(t, err)
	assert.Equal(t, "150.50", string(out))
}

func TestAmountFromFloatRounds(t *testing.T) {
	assert.Equal(t, Amount(1), AmountFromFloat(0.005))
	assert.Equal(t, Amount(1999), AmountFromFloat(19.99))
	assert.Equal(t, Amount(-1050), AmountFromFloat(-10.50))
}
