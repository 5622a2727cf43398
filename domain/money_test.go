package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyAddIsExact(t *testing.T) {
	total := MustMoney("19.99").Add(MustMoney("49.99")).Add(MustMoney("9.99"))
	assert.Equal(t, "79.97", total.String())
}

func TestMoneyAccumulationDoesNotDrift(t *testing.T) {
	total := Money{}
	for i := 0; i < 1000; i++ {
		total = total.Add(MustMoney("0.10"))
	}
	assert.Equal(t, 0, total.Cmp(MustMoney("100.00")))
}

func TestMoneyGreaterThanIsStrict(t *testing.T) {
	threshold := MoneyFromInt64(200)
	assert.False(t, MustMoney("200.00").GreaterThan(threshold))
	assert.True(t, MustMoney("200.01").GreaterThan(threshold))
}

func TestMoneyMulInt64(t *testing.T) {
	assert.Equal(t, "59.97", MustMoney("19.99").MulInt64(3).String())
}

func TestMoneyDiv(t *testing.T) {
	avg := MustMoney("100.00").Div(MoneyFromInt64(4))
	assert.Equal(t, 0, avg.Cmp(MustMoney("25")))
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	out, err := json.Marshal(MustMoney("79.97"))
	require.NoError(t, err)
	assert.Equal(t, "79.97", string(out))

	var m Money
	require.NoError(t, json.Unmarshal([]byte("19.99"), &m))
	assert.Equal(t, "19.99", m.String())

	require.NoError(t, json.Unmarshal([]byte(`"49.99"`), &m))
	assert.Equal(t, "49.99", m.String())

	require.Error(t, json.Unmarshal([]byte(`"abc"`), &m))
}

func TestParseMoneyRejectsGarbage(t *testing.T) {
	_, err := ParseMoney("not-a-number")
	require.Error(t, err)
}
