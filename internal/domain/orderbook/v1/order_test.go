package orderbookv1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrder(t *testing.T) {
	order := NewOrder(7, SideBid, 200_000_000, 1_000_000_000)

	assert.Equal(t, int64(7), order.ID)
	assert.Equal(t, SideBid, order.Side)
	assert.Equal(t, int64(200_000_000), order.Price)
	assert.Equal(t, int64(1_000_000_000), order.Qty)
	assert.Equal(t, int64(1_000_000_000), order.QtyLeft)
	assert.Equal(t, int64(0), order.QtyFilled)
	assert.Equal(t, StatusOpen, order.Status)
	assert.NotZero(t, order.Timestamp)
}

func TestOrderFill(t *testing.T) {
	t.Run("partial fill keeps the order open", func(t *testing.T) {
		order := NewOrder(1, SideBid, 220_000_000, 1000)

		status := order.Fill(400, 220_000_000)

		assert.Equal(t, StatusPartialFill, status)
		assert.Equal(t, int64(600), order.QtyLeft)
		assert.Equal(t, int64(400), order.QtyFilled)
	})

	t.Run("full fill terminates the order", func(t *testing.T) {
		order := NewOrder(1, SideAsk, 220_000_000, 1000)

		order.Fill(400, 220_000_000)
		status := order.Fill(600, 220_000_000)

		assert.Equal(t, StatusFilled, status)
		assert.Equal(t, int64(0), order.QtyLeft)
		assert.Equal(t, int64(1000), order.QtyFilled)
		assert.True(t, order.Status.Terminal())
	})

	t.Run("conservation holds after every fill", func(t *testing.T) {
		order := NewOrder(1, SideBid, 300_000_000, 900)

		for _, qty := range []int64{100, 350, 450} {
			order.Fill(qty, 300_000_000)
			assert.Equal(t, order.Qty, order.QtyLeft+order.QtyFilled)
		}
		assert.Equal(t, StatusFilled, order.Status)
	})

	t.Run("average fill price blends fill prices", func(t *testing.T) {
		order := NewOrder(1, SideBid, 400_000_000, 200)

		order.Fill(100, 300_000_000)
		order.Fill(100, 400_000_000)

		require.Equal(t, int64(100*300_000_000+100*400_000_000), order.TotalCost)
		assert.InDelta(t, 350_000_000, order.AvgFillPrice, 0.0001)
	})

	t.Run("overfill panics", func(t *testing.T) {
		order := NewOrder(1, SideBid, 200_000_000, 100)

		assert.Panics(t, func() {
			order.Fill(101, 200_000_000)
		})
	})
}

func TestSideOpposite(t *testing.T) {
	assert.Equal(t, SideAsk, SideBid.Opposite())
	assert.Equal(t, SideBid, SideAsk.Opposite())
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, StatusOpen.Terminal())
	assert.False(t, StatusPartialFill.Terminal())
	assert.True(t, StatusFilled.Terminal())
	assert.True(t, StatusCancelled.Terminal())
}

func TestOrderSidePredicates(t *testing.T) {
	bid := NewOrder(1, SideBid, 100, 1)
	ask := NewOrder(2, SideAsk, 100, 1)

	assert.True(t, bid.IsBid())
	assert.False(t, bid.IsAsk())
	assert.True(t, ask.IsAsk())
	assert.False(t, ask.IsBid())
}
