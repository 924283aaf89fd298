package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBidFill(t *testing.T) {
	bid := &BidOrder{Amount: 1000, Active: true}

	assert.Equal(t, ErrInsufficientBidLiquidity, bid.Fill(1001))
	require.Nil(t, bid.Fill(600))
	assert.True(t, bid.Active)

	require.Nil(t, bid.Fill(400))
	assert.False(t, bid.Active)
	assert.EqualValues(t, 1000, bid.FilledAmount)

	assert.Equal(t, ErrBidInactive, bid.Fill(1))
}

func TestBidFillUnderflow(t *testing.T) {
	bid := &BidOrder{Amount: 10, FilledAmount: 20, Active: true}
	assert.Equal(t, ErrMathError, bid.Fill(1))
}

func TestBidRestore(t *testing.T) {
	t.Run("reactivate", func(t *testing.T) {
		bid := &BidOrder{Amount: 1000, FilledAmount: 1000}
		require.Nil(t, bid.Restore(250))
		assert.True(t, bid.Active)
		assert.EqualValues(t, 750, bid.FilledAmount)
	})

	t.Run("saturating", func(t *testing.T) {
		bid := &BidOrder{Amount: 1000, FilledAmount: 100, Active: true}
		require.Nil(t, bid.Restore(250))
		assert.EqualValues(t, 0, bid.FilledAmount)
	})

	t.Run("cancelled stays closed", func(t *testing.T) {
		bid := &BidOrder{Amount: 1000, FilledAmount: 1000, Cancelled: true}
		require.Nil(t, bid.Restore(250))
		assert.False(t, bid.Active)
		assert.EqualValues(t, 1000, bid.FilledAmount)
		assert.EqualValues(t, 250, bid.Reclaimable)
	})
}

func TestBidClose(t *testing.T) {
	bid := &BidOrder{Amount: 1000, FilledAmount: 250, Active: true}
	unfilled, err := bid.Close()
	require.Nil(t, err)
	assert.EqualValues(t, 750, unfilled)
	assert.True(t, bid.Cancelled)
	assert.False(t, bid.Active)

	_, err = bid.Close()
	assert.Equal(t, ErrBidInactive, err)

	_, err = (&BidOrder{Amount: 10, FilledAmount: 10, Active: true}).Close()
	assert.Equal(t, ErrNoFundsToWithdraw, err)
}

func TestBidTakeReclaimable(t *testing.T) {
	bid := &BidOrder{Cancelled: true, Reclaimable: 250}
	amount, err := bid.TakeReclaimable()
	require.Nil(t, err)
	assert.EqualValues(t, 250, amount)

	_, err = bid.TakeReclaimable()
	assert.Equal(t, ErrNoFundsToWithdraw, err)
}
