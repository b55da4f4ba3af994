package orderbook

import (
	rbt "github.com/emirpasic/gods/v2/trees/redblacktree"

	orderbookv1 "github.com/sekoyo/matching-engine/internal/domain/orderbook/v1"
	snapshotv1 "github.com/sekoyo/matching-engine/internal/domain/snapshot/v1"
	"github.com/sekoyo/matching-engine/pkg/errors"
)

// Book is a price-time priority limit order book for one instrument.
//
// Both sides are red-black trees keyed by price, ordered so that in-order
// iteration always visits the best price first: descending for bids,
// ascending for asks. ordersByID covers only resting orders — an order is
// registered when it rests and dropped as soon as it fills or cancels.
//
// The book assumes a single logical writer. Callers that need concurrent
// access must serialize operations per book instance; there is no internal
// locking.
type Book struct {
	bids       *rbt.Tree[int64, *orderbookv1.Level]
	asks       *rbt.Tree[int64, *orderbookv1.Level]
	bestBid    int64
	bestAsk    int64
	orderCount int64
	ordersByID map[int64]*orderbookv1.Order
}

// PriceQty is one rung of a depth ladder.
type PriceQty struct {
	Price int64 `json:"price"`
	Qty   int64 `json:"qty"`
}

// NewBook creates an empty book.
func NewBook() *Book {
	return &Book{
		// Bids iterate high to low, asks low to high, so Left() is always
		// the best price on either tree.
		bids: rbt.NewWith[int64, *orderbookv1.Level](func(a, b int64) int {
			switch {
			case a > b:
				return -1
			case a < b:
				return 1
			default:
				return 0
			}
		}),
		asks: rbt.NewWith[int64, *orderbookv1.Level](func(a, b int64) int {
			switch {
			case a < b:
				return -1
			case a > b:
				return 1
			default:
				return 0
			}
		}),
		ordersByID: make(map[int64]*orderbookv1.Order),
	}
}

// AddOrder validates and accepts a limit order, matches it against the
// opposite side, and rests any unfilled remainder on its own side. It
// returns the order in its final state together with the fills produced.
func (b *Book) AddOrder(side orderbookv1.Side, price, qty int64) (*orderbookv1.Order, []orderbookv1.Fill, error) {
	if side != orderbookv1.SideBid && side != orderbookv1.SideAsk {
		return nil, nil, errors.NewErrorDetails("order side must be bid or ask", string(errors.OrderInvalidSide), "side")
	}
	if price <= 0 {
		return nil, nil, errors.NewErrorDetails("order price must be positive", string(errors.OrderInvalidPrice), "price")
	}
	if qty <= 0 {
		return nil, nil, errors.NewErrorDetails("order qty must be positive", string(errors.OrderInvalidQty), "qty")
	}

	orderID := b.orderCount
	b.orderCount++
	order := orderbookv1.NewOrder(orderID, side, price, qty)

	fills := b.match(order)

	if order.QtyLeft > 0 {
		b.rest(order)
		b.ordersByID[order.ID] = order
	}

	b.bestBid = bestPrice(b.bids)
	b.bestAsk = bestPrice(b.asks)

	return order, fills, nil
}

// CancelOrder marks a resting order cancelled and removes it from the id
// index. It returns false when the id is unknown — already filled, already
// cancelled, or never issued; the caller cannot distinguish which.
//
// The order stays physically queued in its level until that level is next
// scanned during matching. Cancellation itself is O(1); the removal cost is
// paid only when the price level actually trades.
func (b *Book) CancelOrder(orderID int64) bool {
	order, ok := b.ordersByID[orderID]
	if !ok {
		return false
	}

	order.Status = orderbookv1.StatusCancelled
	delete(b.ordersByID, orderID)

	return true
}

// BestBid returns the highest resting bid price, or 0 if there are no bids.
func (b *Book) BestBid() int64 {
	return b.bestBid
}

// BestAsk returns the lowest resting ask price, or 0 if there are no asks.
func (b *Book) BestAsk() int64 {
	return b.bestAsk
}

// match walks the opposite side's levels from the best price down, filling
// the incoming order until it completes or prices stop crossing. Levels
// emptied by the scan are pruned afterwards, not mid-iteration.
func (b *Book) match(incoming *orderbookv1.Order) []orderbookv1.Fill {
	opposite := b.asks
	if incoming.Side == orderbookv1.SideAsk {
		opposite = b.bids
	}

	onRestingFilled := func(orderID int64) {
		delete(b.ordersByID, orderID)
	}

	var fills []orderbookv1.Fill
	var emptied []int64

	it := opposite.Iterator()
	for it.Next() {
		level := it.Value()

		result, levelFills := level.Match(incoming, onRestingFilled)
		fills = append(fills, levelFills...)

		if level.Empty() {
			emptied = append(emptied, level.Price)
		}

		// CannotMatch or Complete. The trees are price ordered, so once a
		// level cannot match, no later level can either.
		if result != orderbookv1.Continuation {
			break
		}
	}

	for _, price := range emptied {
		opposite.Remove(price)
	}

	return fills
}

// rest queues the remainder of an order on its own side, appending to the
// existing level at that exact price or creating a new one.
func (b *Book) rest(order *orderbookv1.Order) {
	side := b.bids
	if order.Side == orderbookv1.SideAsk {
		side = b.asks
	}

	if level, ok := side.Get(order.Price); ok {
		level.AddOrder(order)
		return
	}

	side.Put(order.Price, orderbookv1.NewLevel(order))
}

func bestPrice(side *rbt.Tree[int64, *orderbookv1.Level]) int64 {
	node := side.Left()
	if node == nil {
		return 0
	}
	return node.Key
}

// Depth returns up to maxLevels price/quantity rungs for one side, best
// price first. Quantities are the levels' informational aggregates and may
// briefly include cancelled orders that have not been swept yet.
func (b *Book) Depth(side orderbookv1.Side, maxLevels int) []PriceQty {
	tree := b.bids
	if side == orderbookv1.SideAsk {
		tree = b.asks
	}

	var depth []PriceQty
	it := tree.Iterator()
	for it.Next() && len(depth) < maxLevels {
		depth = append(depth, PriceQty{Price: it.Key(), Qty: it.Value().TotalQty})
	}
	return depth
}

// BidTotalQty returns the total resting quantity on the bid side.
func (b *Book) BidTotalQty() int64 {
	return totalQty(b.bids)
}

// AskTotalQty returns the total resting quantity on the ask side.
func (b *Book) AskTotalQty() int64 {
	return totalQty(b.asks)
}

func totalQty(side *rbt.Tree[int64, *orderbookv1.Level]) int64 {
	var total int64
	it := side.Iterator()
	for it.Next() {
		total += it.Value().TotalQty
	}
	return total
}

// RestingOrders returns the number of orders currently resting in the book.
func (b *Book) RestingOrders() int {
	return len(b.ordersByID)
}

// CreateSnapshot captures every resting, non-cancelled order in level order
// so the book can be rebuilt with identical price-time priority.
func (b *Book) CreateSnapshot() *snapshotv1.Snapshot {
	var orders []snapshotv1.BookOrder

	collect := func(side *rbt.Tree[int64, *orderbookv1.Level]) {
		it := side.Iterator()
		for it.Next() {
			for _, order := range it.Value().Orders {
				if order.Status == orderbookv1.StatusCancelled {
					continue
				}
				orders = append(orders, snapshotv1.BookOrder{
					OrderID:      order.ID,
					Bid:          order.IsBid(),
					Price:        order.Price,
					Qty:          order.Qty,
					QtyLeft:      order.QtyLeft,
					QtyFilled:    order.QtyFilled,
					TotalCost:    order.TotalCost,
					AvgFillPrice: order.AvgFillPrice,
					Timestamp:    order.Timestamp,
				})
			}
		}
	}

	collect(b.bids)
	collect(b.asks)

	return &snapshotv1.Snapshot{
		Book: snapshotv1.BookSnapshot{
			OrderCount: b.orderCount,
			Orders:     orders,
		},
	}
}

// RestoreSnapshot replaces the book's state with the snapshot's. Orders are
// re-queued in snapshot order, which preserves each level's FIFO.
func (b *Book) RestoreSnapshot(snapshot *snapshotv1.Snapshot) error {
	if snapshot == nil {
		return errors.NewErrorDetails("snapshot cannot be nil", string(errors.SnapshotLoadError), "snapshot")
	}

	fresh := NewBook()
	for _, bookOrder := range snapshot.Book.Orders {
		side := orderbookv1.SideAsk
		if bookOrder.Bid {
			side = orderbookv1.SideBid
		}
		order := &orderbookv1.Order{
			ID:           bookOrder.OrderID,
			Side:         side,
			Price:        bookOrder.Price,
			Qty:          bookOrder.Qty,
			QtyLeft:      bookOrder.QtyLeft,
			QtyFilled:    bookOrder.QtyFilled,
			TotalCost:    bookOrder.TotalCost,
			AvgFillPrice: bookOrder.AvgFillPrice,
			Timestamp:    bookOrder.Timestamp,
		}
		if order.QtyFilled > 0 {
			order.Status = orderbookv1.StatusPartialFill
		} else {
			order.Status = orderbookv1.StatusOpen
		}

		fresh.rest(order)
		fresh.ordersByID[order.ID] = order
	}

	b.bids = fresh.bids
	b.asks = fresh.asks
	b.ordersByID = fresh.ordersByID
	b.orderCount = snapshot.Book.OrderCount
	b.bestBid = bestPrice(b.bids)
	b.bestAsk = bestPrice(b.asks)

	return nil
}
