package matchpublisherv1

import "context"

// TradePublisher defines the interface for publishing trade events.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=matchpublisherv1_mock
type TradePublisher interface {
	// PublishTrade publishes a trade event to the trade topic.
	PublishTrade(ctx context.Context, event *TradeEvent) error
}
