package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec_Unmarshal(t *testing.T) {
	var c Codec
	assert.Equal(t, "json", c.Name())

	var req SettleRequest
	require.NoError(t, c.Unmarshal([]byte(`{"expenses":[{"payer":"A","items":[{"name":"Tea","price":300,"participants":["A","B"]}]}]}`), &req))
	require.Len(t, req.Expenses, 1)
	assert.Equal(t, 300.0, req.Expenses[0].Items[0].Price)
	assert.Equal(t, []string{"A", "B"}, req.Expenses[0].Items[0].Participants)

	var empty ListGroupsRequest
	assert.NoError(t, c.Unmarshal(nil, &empty))
	assert.NoError(t, c.Unmarshal([]byte("  "), &empty))

	err := c.Unmarshal([]byte(`{"expenses":[],"currency":"EUR"}`), &req)
	assert.ErrorContains(t, err, "currency")
}

func TestCodec_Marshal(t *testing.T) {
	data, err := Codec{}.Marshal(&Transaction{From: "B", To: "A", Amount: 16667})
	require.NoError(t, err)
	assert.JSONEq(t, `{"from":"B","to":"A","amount":16667}`, string(data))
}
