package orderbookv1

import snapshotv1 "github.com/sekoyo/matching-engine/internal/domain/snapshot/v1"

// Orderbook defines the book operations the engine drives.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=orderbookv1_mock
type Orderbook interface {
	AddOrder(side Side, price, qty int64) (*Order, []Fill, error)
	CancelOrder(orderID int64) bool
	BestBid() int64
	BestAsk() int64
	CreateSnapshot() *snapshotv1.Snapshot
	RestoreSnapshot(snapshot *snapshotv1.Snapshot) error
}
