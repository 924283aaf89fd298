package param

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bidParams struct {
	MarketID string `json:"market_id" valid:"uuid,required"`
	Amount   uint64 `json:"amount"`
	Active   bool   `json:"active"`
}

func TestBindingQuery(t *testing.T) {
	r := httptest.NewRequest("GET", "/bids?market_id=6cfe566e-4aad-470b-8c9a-2fd35b49c68d&active=true&limit=3", nil)

	var params bidParams
	require.Nil(t, Binding(r, &params))
	assert.Equal(t, "6cfe566e-4aad-470b-8c9a-2fd35b49c68d", params.MarketID)
	assert.True(t, params.Active)
}

func TestBindingBody(t *testing.T) {
	body := `{"market_id":"6cfe566e-4aad-470b-8c9a-2fd35b49c68d","amount":1000}`
	r := httptest.NewRequest("POST", "/bids", strings.NewReader(body))

	var params bidParams
	require.Nil(t, Binding(r, &params))
	assert.EqualValues(t, 1000, params.Amount)
}

func TestBindingInvalid(t *testing.T) {
	r := httptest.NewRequest("POST", "/bids", strings.NewReader(`{"market_id":"nope"}`))

	var params bidParams
	assert.NotNil(t, Binding(r, &params))
}
