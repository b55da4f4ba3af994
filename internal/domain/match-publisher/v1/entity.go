package matchpublisherv1

import (
	"encoding/json"
	"time"

	orderbookv1 "github.com/sekoyo/matching-engine/internal/domain/orderbook/v1"
	"github.com/sekoyo/matching-engine/pkg/fixedpoint"
)

// TradeEvent is the message published for every individual fill. Price and
// Qty are fixed-point scaled; PriceDecimal and QtyDecimal carry the same
// values as decimal strings for consumers that never touch the scaled domain.
type TradeEvent struct {
	TradeID      string `json:"tradeID"`
	Pair         string `json:"pair"`
	Price        int64  `json:"price"`
	Qty          int64  `json:"qty"`
	PriceDecimal string `json:"priceDecimal"`
	QtyDecimal   string `json:"qtyDecimal"`
	TakerOrderID int64  `json:"takerOrderID"`
	MakerOrderID int64  `json:"makerOrderID"`
	TakerSide    string `json:"takerSide"`
	Timestamp    int64  `json:"timestamp"`
}

// CreateFromFill creates a trade event from a fill. TradeID is assigned by
// the publisher when the event is written out.
func CreateFromFill(pair string, fill orderbookv1.Fill) *TradeEvent {
	return &TradeEvent{
		Pair:         pair,
		Price:        fill.Price,
		Qty:          fill.Qty,
		PriceDecimal: fixedpoint.ToString(fill.Price),
		QtyDecimal:   fixedpoint.ToString(fill.Qty),
		TakerOrderID: fill.TakerOrderID,
		MakerOrderID: fill.MakerOrderID,
		TakerSide:    fill.TakerSide.String(),
		Timestamp:    time.Now().UnixNano(),
	}
}

// ToBytes converts the trade event to a byte array.
func ToBytes(event *TradeEvent) []byte {
	buf, err := json.Marshal(event)
	if err != nil {
		return nil
	}

	return buf
}

// FromBytes converts a byte array to a trade event.
func FromBytes(data []byte) *TradeEvent {
	var event TradeEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil
	}
	return &event
}
