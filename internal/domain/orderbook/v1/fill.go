package orderbookv1

// Fill represents one execution between an incoming (taker) order and a
// resting (maker) order. The price is always the maker's level price.
type Fill struct {
	TakerOrderID int64 `json:"takerOrderID"`
	MakerOrderID int64 `json:"makerOrderID"`
	TakerSide    Side  `json:"takerSide"`
	Price        int64 `json:"price"`
	Qty          int64 `json:"qty"`
}
