package orderreaderv1

import orderbookv1 "github.com/sekoyo/matching-engine/internal/domain/orderbook/v1"

// CommandType represents the kind of order command on the stream.
type CommandType string

const (
	// CommandPlace places a new limit order.
	CommandPlace CommandType = "place"
	// CommandCancel cancels a resting order.
	CommandCancel CommandType = "cancel"
)

// OrderCommand is one message on the order topic. Price and Qty are already
// fixed-point scaled by the producer; the engine never sees decimals.
type OrderCommand struct {
	Type    CommandType `json:"type"`
	Side    string      `json:"side"` // "bid" or "ask"
	Price   int64       `json:"price"`
	Qty     int64       `json:"qty"`
	OrderID int64       `json:"orderID"` // cancel target, ignored for place
	Offset  int64       `json:"-"`       // position in the stream, set by the reader
}

// BookSide maps the wire side onto the book's side type. ok is false for
// anything other than "bid" or "ask".
func (c *OrderCommand) BookSide() (side orderbookv1.Side, ok bool) {
	switch c.Side {
	case "bid":
		return orderbookv1.SideBid, true
	case "ask":
		return orderbookv1.SideAsk, true
	default:
		return 0, false
	}
}
