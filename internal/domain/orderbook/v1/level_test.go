package orderbookv1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopRestingFilled(int64) {}

func TestLevelCanMatch(t *testing.T) {
	// Resting bid level at 2.00.
	level := NewLevel(NewOrder(0, SideBid, 200_000_000, 1000_00000000))
	level.AddOrder(NewOrder(1, SideBid, 200_000_000, 1000_00000000))

	t.Run("ask above the bid level does not cross", func(t *testing.T) {
		incoming := NewOrder(2, SideAsk, 201_000_000, 1_00000000)
		assert.False(t, level.CanMatch(incoming))

		result, fills := level.Match(incoming, noopRestingFilled)
		assert.Equal(t, CannotMatch, result)
		assert.Empty(t, fills)
	})

	t.Run("ask at the bid level crosses", func(t *testing.T) {
		incoming := NewOrder(3, SideAsk, 200_000_000, 1_00000000)
		assert.True(t, level.CanMatch(incoming))
	})

	t.Run("bid below a resting ask level does not cross", func(t *testing.T) {
		askLevel := NewLevel(NewOrder(4, SideAsk, 220_000_000, 500))
		assert.False(t, askLevel.CanMatch(NewOrder(5, SideBid, 219_000_000, 500)))
		assert.True(t, askLevel.CanMatch(NewOrder(6, SideBid, 220_000_000, 500)))
		assert.True(t, askLevel.CanMatch(NewOrder(7, SideBid, 230_000_000, 500)))
	})
}

func TestLevelMatch(t *testing.T) {
	t.Run("filled front order is removed and FIFO is preserved", func(t *testing.T) {
		// Ask level at 2.20 with two resting orders of 500 each.
		first := NewOrder(0, SideAsk, 220_000_000, 500)
		second := NewOrder(1, SideAsk, 220_000_000, 500)
		level := NewLevel(first)
		level.AddOrder(second)

		var filledIDs []int64
		incoming := NewOrder(2, SideBid, 220_000_000, 500)
		result, fills := level.Match(incoming, func(id int64) {
			filledIDs = append(filledIDs, id)
		})

		assert.Equal(t, Complete, result)
		require.Len(t, fills, 1)
		assert.Equal(t, int64(0), fills[0].MakerOrderID)
		assert.Equal(t, int64(2), fills[0].TakerOrderID)
		assert.Equal(t, int64(500), fills[0].Qty)

		assert.Equal(t, int64(500), first.QtyFilled)
		assert.Equal(t, int64(0), first.QtyLeft)
		assert.Equal(t, []int64{0}, filledIDs)

		// Only the untouched second order remains queued.
		require.Len(t, level.Orders, 1)
		assert.Same(t, second, level.Orders[0])
		assert.Equal(t, int64(500), level.TotalQty)
	})

	t.Run("incoming larger than the level exhausts it", func(t *testing.T) {
		level := NewLevel(NewOrder(0, SideAsk, 220_000_000, 300))
		level.AddOrder(NewOrder(1, SideAsk, 220_000_000, 300))

		incoming := NewOrder(2, SideBid, 220_000_000, 1000)
		result, fills := level.Match(incoming, noopRestingFilled)

		assert.Equal(t, Continuation, result)
		assert.Len(t, fills, 2)
		assert.Equal(t, int64(400), incoming.QtyLeft)
		assert.Equal(t, StatusPartialFill, incoming.Status)
		assert.True(t, level.Empty())
		assert.Equal(t, int64(0), level.TotalQty)
	})

	t.Run("fills execute at the resting level price", func(t *testing.T) {
		level := NewLevel(NewOrder(0, SideAsk, 220_000_000, 500))

		// The taker was willing to pay more; the maker's price wins.
		incoming := NewOrder(1, SideBid, 250_000_000, 500)
		_, fills := level.Match(incoming, noopRestingFilled)

		require.Len(t, fills, 1)
		assert.Equal(t, int64(220_000_000), fills[0].Price)
		assert.InDelta(t, 220_000_000, incoming.AvgFillPrice, 0.0001)
	})

	t.Run("cancelled orders are skipped and swept", func(t *testing.T) {
		cancelled := NewOrder(0, SideAsk, 220_000_000, 400)
		live := NewOrder(1, SideAsk, 220_000_000, 400)
		level := NewLevel(cancelled)
		level.AddOrder(live)

		cancelled.Status = StatusCancelled

		incoming := NewOrder(2, SideBid, 220_000_000, 400)
		result, fills := level.Match(incoming, noopRestingFilled)

		assert.Equal(t, Complete, result)
		require.Len(t, fills, 1)
		assert.Equal(t, int64(1), fills[0].MakerOrderID)

		// The cancelled order contributed nothing and is gone.
		assert.Equal(t, int64(0), cancelled.QtyFilled)
		assert.True(t, level.Empty())
		assert.Equal(t, int64(0), level.TotalQty)
	})

	t.Run("partial fill leaves the maker at the front", func(t *testing.T) {
		maker := NewOrder(0, SideAsk, 220_000_000, 1000)
		level := NewLevel(maker)

		incoming := NewOrder(1, SideBid, 220_000_000, 300)
		result, _ := level.Match(incoming, noopRestingFilled)

		assert.Equal(t, Complete, result)
		require.Len(t, level.Orders, 1)
		assert.Same(t, maker, level.Orders[0])
		assert.Equal(t, int64(700), maker.QtyLeft)
		assert.Equal(t, int64(700), level.TotalQty)
	})
}

func TestLevelTotalQty(t *testing.T) {
	level := NewLevel(NewOrder(0, SideBid, 100, 250))
	assert.Equal(t, int64(250), level.TotalQty)

	level.AddOrder(NewOrder(1, SideBid, 100, 150))
	assert.Equal(t, int64(400), level.TotalQty)
}
