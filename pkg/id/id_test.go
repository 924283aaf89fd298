package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const asset = "c6d0c728-2624-429b-8e0d-d9d19b6592fa"

func TestDeriveIsDeterministic(t *testing.T) {
	m1, err := Market(asset)
	require.Nil(t, err)
	m2, err := Market(asset)
	require.Nil(t, err)
	assert.Equal(t, m1, m2)
	assert.True(t, Valid(m1))

	v, err := Vault(asset)
	require.Nil(t, err)
	assert.NotEqual(t, m1, v)

	a1, err := VaultAuthority(m1, DeriveVersion)
	require.Nil(t, err)
	a2, err := VaultAuthority(m1, DeriveVersion+1)
	require.Nil(t, err)
	assert.NotEqual(t, a1, a2, "version is part of the derivation")
}

func TestDeriveRecords(t *testing.T) {
	market, _ := Market(asset)
	lender, trace := GenTraceID(), GenTraceID()

	b1, err := BidOrder(market, lender, trace)
	require.Nil(t, err)
	b2, err := BidOrder(market, lender, GenTraceID())
	require.Nil(t, err)
	assert.NotEqual(t, b1, b2)

	r1, err := BorrowRecord(b1, lender, trace)
	require.Nil(t, err)
	r2, err := BorrowRecord(b2, lender, trace)
	require.Nil(t, err)
	assert.NotEqual(t, r1, r2)
}

func TestDeriveInvalidNamespace(t *testing.T) {
	_, err := Market("usdt")
	assert.NotNil(t, err)
	assert.False(t, Valid("usdt"))
	assert.False(t, Valid("00000000-0000-0000-0000-000000000000"))
}

func TestAccount(t *testing.T) {
	owner := GenTraceID()
	a1, err := Account(owner, asset)
	require.Nil(t, err)
	a2, err := Account(GenTraceID(), asset)
	require.Nil(t, err)
	assert.NotEqual(t, a1, a2)

	again, _ := Account(owner, asset)
	assert.Equal(t, a1, again)
}
