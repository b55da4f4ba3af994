package snapshotv1

// Snapshot represents the state of the matching engine at a specific point
// in the order stream.
type Snapshot struct {
	OrderOffset int64        `json:"orderOffset"`
	Book        BookSnapshot `json:"book"`
}

// BookSnapshot represents the state of the order book at a specific point in time.
type BookSnapshot struct {
	// OrderCount is the book's id source; restoring it keeps newly issued
	// order ids unique across restarts.
	OrderCount int64       `json:"orderCount"`
	Orders     []BookOrder `json:"orders"`
}

// BookOrder represents one resting order. Orders appear in level order,
// best price first, oldest first within a level, so replaying them in
// sequence reproduces the book's price-time priority exactly.
type BookOrder struct {
	OrderID      int64   `json:"orderID"`
	Bid          bool    `json:"bid"`
	Price        int64   `json:"price"`
	Qty          int64   `json:"qty"`
	QtyLeft      int64   `json:"qtyLeft"`
	QtyFilled    int64   `json:"qtyFilled"`
	TotalCost    int64   `json:"totalCost"`
	AvgFillPrice float64 `json:"avgFillPrice"`
	Timestamp    int64   `json:"timestamp"`
}
