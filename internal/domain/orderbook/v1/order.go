package orderbookv1

import (
	"fmt"
	"time"
)

// Side represents which side of the book an order sits on.
type Side int8

const (
	// SideBid represents a buy order.
	SideBid Side = iota
	// SideAsk represents a sell order.
	SideAsk
)

// Opposite returns the other side of the book.
func (s Side) Opposite() Side {
	if s == SideBid {
		return SideAsk
	}
	return SideBid
}

func (s Side) String() string {
	switch s {
	case SideBid:
		return "bid"
	case SideAsk:
		return "ask"
	default:
		return fmt.Sprintf("side(%d)", int8(s))
	}
}

// Status represents an order's position in its lifecycle. Filled and
// Cancelled are terminal; no operation moves an order out of them.
type Status int8

const (
	// StatusOpen is the initial state, before any fill.
	StatusOpen Status = iota
	// StatusPartialFill means some but not all quantity has traded.
	StatusPartialFill
	// StatusFilled means the full quantity has traded.
	StatusFilled
	// StatusCancelled means the order was cancelled before filling.
	StatusCancelled
)

// Terminal reports whether the status permits no further mutation.
func (s Status) Terminal() bool {
	return s == StatusFilled || s == StatusCancelled
}

func (s Status) String() string {
	switch s {
	case StatusOpen:
		return "open"
	case StatusPartialFill:
		return "partial_fill"
	case StatusFilled:
		return "filled"
	case StatusCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("status(%d)", int8(s))
	}
}

// Order represents a single order's full lifecycle in the book.
//
// Price and quantity fields are fixed-point integers (see pkg/fixedpoint);
// the book performs only integer arithmetic on them. AvgFillPrice is the one
// exception: it is a true quotient and may carry rounding error, which is an
// accepted approximation, not something to correct inside the book.
type Order struct {
	ID        int64   `json:"orderID"`
	Side      Side    `json:"side"`
	Price     int64   `json:"price"`
	Qty       int64   `json:"qty"`
	QtyLeft   int64   `json:"qtyLeft"`
	QtyFilled int64   `json:"qtyFilled"`
	Status    Status  `json:"status"`
	// TotalCost accumulates price*qty over fills, so it carries the product
	// of the two fixed-point scales.
	TotalCost    int64   `json:"totalCost"`
	AvgFillPrice float64 `json:"avgFillPrice"`
	// Timestamp is informational only. Time priority is determined by
	// position in the level, never by this field.
	Timestamp int64 `json:"timestamp"`
}

// NewOrder creates an open order with the given identity, side, price and
// quantity. The caller (the book) guarantees price and qty are positive.
func NewOrder(id int64, side Side, price, qty int64) *Order {
	return &Order{
		ID:        id,
		Side:      side,
		Price:     price,
		Qty:       qty,
		QtyLeft:   qty,
		Status:    StatusOpen,
		Timestamp: time.Now().UnixNano(),
	}
}

// Fill applies a fill of qty units at price, which is always the resting
// level's price rather than this order's own limit. It returns the new
// status for caller convenience.
//
// Filling more than QtyLeft is a bug in the matching algorithm, not a
// recoverable condition, so it panics.
func (o *Order) Fill(qty, price int64) Status {
	if qty > o.QtyLeft {
		panic(fmt.Sprintf("orderbook: overfill of order %d: fill %d > left %d", o.ID, qty, o.QtyLeft))
	}

	o.TotalCost += qty * price
	o.QtyLeft -= qty
	o.QtyFilled += qty
	o.AvgFillPrice = float64(o.TotalCost) / float64(o.QtyFilled)

	if o.QtyLeft == 0 {
		o.Status = StatusFilled
	} else {
		o.Status = StatusPartialFill
	}

	return o.Status
}

// IsBid checks if the order is a bid (buy) order.
func (o *Order) IsBid() bool {
	return o.Side == SideBid
}

// IsAsk checks if the order is an ask (sell) order.
func (o *Order) IsAsk() bool {
	return o.Side == SideAsk
}
