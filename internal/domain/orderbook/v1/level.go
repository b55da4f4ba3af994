package orderbookv1

import "fmt"

// MatchResult is the outcome of matching an incoming order against one level.
type MatchResult int8

const (
	// CannotMatch means the level's price is not compatible with the
	// incoming order. Because levels are visited best price first, the
	// caller can stop iterating entirely.
	CannotMatch MatchResult = iota
	// Continuation means the level was exhausted without filling the
	// incoming order; the caller should move on to the next-best level.
	Continuation
	// Complete means the incoming order was fully filled.
	Complete
)

// Level holds every order resting at one price on one side, in insertion
// order. Insertion order is time priority: the front of the slice matches
// first.
type Level struct {
	Orders []*Order `json:"orders"`
	Side   Side     `json:"side"`
	Price  int64    `json:"price"`
	// TotalQty is an informational aggregate; matching never reads it.
	TotalQty int64 `json:"totalQty"`
}

// NewLevel seeds a level with its first order, copying side and price from it.
func NewLevel(first *Order) *Level {
	return &Level{
		Orders:   []*Order{first},
		Side:     first.Side,
		Price:    first.Price,
		TotalQty: first.QtyLeft,
	}
}

// AddOrder appends an order to the back of the queue. The caller (the book)
// guarantees the order shares the level's side and price.
func (l *Level) AddOrder(order *Order) {
	l.Orders = append(l.Orders, order)
	l.TotalQty += order.QtyLeft
}

// CanMatch reports whether the level can cross with an incoming order.
// The comparison always uses the level's resting price, never the incoming
// limit: a resting ask at P trades with any bid at or above P, so resting
// orders get the price they asked for or better.
func (l *Level) CanMatch(incoming *Order) bool {
	// A buy offer (bid) must be at or above the ask price.
	if incoming.Side == SideBid {
		return l.Price <= incoming.Price
	}

	// A sell offer (ask) must be at or below the bid price.
	return incoming.Price <= l.Price
}

// Match fills the incoming order against the level's queue, front first,
// trading at the level's price. onRestingFilled is invoked with the id of
// every resting order that becomes fully filled, so the book can drop it
// from its id index. The fills produced are returned in execution order.
//
// Cancelled orders encountered during the scan are skipped and removed
// afterwards: cancellation only marks an order, and the physical removal is
// deferred to this scan so the cancel path never splices mid-queue.
func (l *Level) Match(incoming *Order, onRestingFilled func(orderID int64)) (MatchResult, []Fill) {
	if !l.CanMatch(incoming) {
		return CannotMatch, nil
	}

	result := Continuation
	removeCount := 0
	var fills []Fill

	for _, resting := range l.Orders {
		if resting.Status == StatusCancelled {
			removeCount++
			continue
		}

		qtyToFill := min(resting.QtyLeft, incoming.QtyLeft)

		incoming.Fill(qtyToFill, l.Price)
		restingStatus := resting.Fill(qtyToFill, l.Price)
		l.TotalQty -= qtyToFill

		fills = append(fills, Fill{
			TakerOrderID: incoming.ID,
			MakerOrderID: resting.ID,
			TakerSide:    incoming.Side,
			Price:        l.Price,
			Qty:          qtyToFill,
		})

		if restingStatus == StatusFilled {
			onRestingFilled(resting.ID)
			removeCount++
		}

		if incoming.Status == StatusFilled {
			result = Complete
			break
		}
	}

	// The scan only advances past orders that are cancelled or just became
	// filled, so the orders to drop always form a contiguous prefix. That
	// invariant is what keeps the removal below from corrupting the FIFO.
	if removeCount > 0 {
		for _, done := range l.Orders[:removeCount] {
			if !done.Status.Terminal() {
				panic(fmt.Sprintf("orderbook: non-terminal order %d in removal prefix of level %d", done.ID, l.Price))
			}
			if done.Status == StatusCancelled {
				l.TotalQty -= done.QtyLeft
			}
		}
		l.Orders = l.Orders[removeCount:]
	}

	return result, fills
}

// Empty reports whether the level holds no orders at all. The book prunes
// empty levels from its price index.
func (l *Level) Empty() bool {
	return len(l.Orders) == 0
}
