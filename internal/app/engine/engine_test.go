package engine

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	matchpublishermock "github.com/sekoyo/matching-engine/internal/domain/match-publisher/v1/mock"
	orderreaderv1 "github.com/sekoyo/matching-engine/internal/domain/order-reader/v1"
	orderreadermock "github.com/sekoyo/matching-engine/internal/domain/order-reader/v1/mock"
	orderbookv1 "github.com/sekoyo/matching-engine/internal/domain/orderbook/v1"
	snapshotv1 "github.com/sekoyo/matching-engine/internal/domain/snapshot/v1"
	snapshotmock "github.com/sekoyo/matching-engine/internal/domain/snapshot/v1/mock"
	"github.com/sekoyo/matching-engine/internal/usecase/orderbook"
	"github.com/sekoyo/matching-engine/pkg/config"
	"github.com/sekoyo/matching-engine/pkg/logger"
)

const unit = int64(100_000_000)

// Test fixtures and helpers
type testFixture struct {
	ctrl               *gomock.Controller
	mockOrderReader    *orderreadermock.MockOrderReader
	mockSnapshotStore  *snapshotmock.MockStore
	mockTradePublisher *matchpublishermock.MockTradePublisher
	book               *orderbook.Book
	logger             *logger.Logger
	config             *config.Config
}

func setupTestFixture(t *testing.T) *testFixture {
	ctrl := gomock.NewController(t)

	log, err := logger.NewLogger()
	require.NoError(t, err)

	return &testFixture{
		ctrl:               ctrl,
		mockOrderReader:    orderreadermock.NewMockOrderReader(ctrl),
		mockSnapshotStore:  snapshotmock.NewMockStore(ctrl),
		mockTradePublisher: matchpublishermock.NewMockTradePublisher(ctrl),
		book:               orderbook.NewBook(),
		logger:             log,
		config: &config.Config{
			Pair: "BTC-USD",
			KafkaConfig: config.KafkaConfig{
				OrderTopic: "orders",
				TradeTopic: "trades",
				Brokers:    []string{"localhost:9092"},
			},
			RedisConfig: config.RedisConfig{
				Addrs: "localhost:6379",
			},
		},
	}
}

func (f *testFixture) teardown() {
	f.ctrl.Finish()
}

// Helper function to create engine with initialized context
func createTestEngine(fixture *testFixture) *Engine {
	engine := NewEngine(
		fixture.book,
		fixture.mockOrderReader,
		fixture.mockTradePublisher,
		fixture.mockSnapshotStore,
		fixture.logger,
		fixture.config,
	)

	// Initialize context to prevent nil pointer dereference
	engine.ctx = context.Background()

	return engine
}

func placeCommand(side string, price, qty int64) *orderreaderv1.OrderCommand {
	return &orderreaderv1.OrderCommand{
		Type:  orderreaderv1.CommandPlace,
		Side:  side,
		Price: price,
		Qty:   qty,
	}
}

func TestNewEngine(t *testing.T) {
	testCases := []struct {
		name                   string
		setupMocks             func(*testFixture)
		expectedOrderOffset    int64
		expectedSnapshotOffset int64
	}{
		{
			name: "no snapshot starts from a clean book",
			setupMocks: func(f *testFixture) {
				f.mockSnapshotStore.EXPECT().
					LoadStore(gomock.Any()).
					Return(nil, nil).
					Times(1)
			},
			expectedOrderOffset:    -1,
			expectedSnapshotOffset: 0,
		},
		{
			name: "existing snapshot restores the book and offset",
			setupMocks: func(f *testFixture) {
				snapshot := &snapshotv1.Snapshot{
					OrderOffset: 100,
					Book: snapshotv1.BookSnapshot{
						OrderCount: 1,
						Orders: []snapshotv1.BookOrder{
							{
								OrderID: 0,
								Bid:     true,
								Price:   4 * unit,
								Qty:     10 * unit,
								QtyLeft: 10 * unit,
							},
						},
					},
				}
				f.mockSnapshotStore.EXPECT().
					LoadStore(gomock.Any()).
					Return(snapshot, nil).
					Times(1)
			},
			expectedOrderOffset:    100,
			expectedSnapshotOffset: 100,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fixture := setupTestFixture(t)
			defer fixture.teardown()

			tc.setupMocks(fixture)

			engine := createTestEngine(fixture)

			assert.Equal(t, tc.expectedOrderOffset, engine.GetOrderOffset())
			assert.Equal(t, tc.expectedSnapshotOffset, engine.GetLastSnapshotOffset())
		})
	}
}

func TestProcessCommand(t *testing.T) {
	t.Run("place that rests publishes nothing", func(t *testing.T) {
		fixture := setupTestFixture(t)
		defer fixture.teardown()

		fixture.mockSnapshotStore.EXPECT().LoadStore(gomock.Any()).Return(nil, nil)

		engine := createTestEngine(fixture)

		err := engine.processCommand(placeCommand("bid", 4*unit, 10*unit))

		require.NoError(t, err)
		assert.Equal(t, 4*unit, fixture.book.BestBid())
		assert.Equal(t, int64(0), engine.GetTotalTrades())
	})

	t.Run("crossing place publishes one trade per fill", func(t *testing.T) {
		fixture := setupTestFixture(t)
		defer fixture.teardown()

		fixture.mockSnapshotStore.EXPECT().LoadStore(gomock.Any()).Return(nil, nil)
		fixture.mockTradePublisher.EXPECT().
			PublishTrade(gomock.Any(), gomock.Any()).
			Return(nil).
			Times(2)

		engine := createTestEngine(fixture)

		require.NoError(t, engine.processCommand(placeCommand("ask", 3*unit, 1*unit)))
		require.NoError(t, engine.processCommand(placeCommand("ask", 4*unit, 1*unit)))
		require.NoError(t, engine.processCommand(placeCommand("bid", 4*unit, 2*unit)))

		assert.Equal(t, int64(2), engine.GetTotalTrades())
		assert.Equal(t, int64(0), fixture.book.BestAsk())
	})

	t.Run("publish failure does not fail the command", func(t *testing.T) {
		fixture := setupTestFixture(t)
		defer fixture.teardown()

		fixture.mockSnapshotStore.EXPECT().LoadStore(gomock.Any()).Return(nil, nil)
		fixture.mockTradePublisher.EXPECT().
			PublishTrade(gomock.Any(), gomock.Any()).
			Return(stderrors.New("kafka unavailable")).
			Times(1)

		engine := createTestEngine(fixture)

		require.NoError(t, engine.processCommand(placeCommand("ask", 3*unit, 1*unit)))
		require.NoError(t, engine.processCommand(placeCommand("bid", 3*unit, 1*unit)))

		assert.Equal(t, int64(1), engine.GetTotalTrades())
	})

	t.Run("cancel on a resting order", func(t *testing.T) {
		fixture := setupTestFixture(t)
		defer fixture.teardown()

		fixture.mockSnapshotStore.EXPECT().LoadStore(gomock.Any()).Return(nil, nil)

		engine := createTestEngine(fixture)

		order, _, err := fixture.book.AddOrder(orderbookv1.SideBid, 4*unit, 10*unit)
		require.NoError(t, err)

		err = engine.processCommand(&orderreaderv1.OrderCommand{
			Type:    orderreaderv1.CommandCancel,
			OrderID: order.ID,
		})

		require.NoError(t, err)
		assert.Equal(t, orderbookv1.StatusCancelled, order.Status)
	})

	t.Run("cancel on an unknown order is not an error", func(t *testing.T) {
		fixture := setupTestFixture(t)
		defer fixture.teardown()

		fixture.mockSnapshotStore.EXPECT().LoadStore(gomock.Any()).Return(nil, nil)

		engine := createTestEngine(fixture)

		err := engine.processCommand(&orderreaderv1.OrderCommand{
			Type:    orderreaderv1.CommandCancel,
			OrderID: 999,
		})

		require.NoError(t, err)
	})

	t.Run("place with an unknown side is rejected", func(t *testing.T) {
		fixture := setupTestFixture(t)
		defer fixture.teardown()

		fixture.mockSnapshotStore.EXPECT().LoadStore(gomock.Any()).Return(nil, nil)

		engine := createTestEngine(fixture)

		err := engine.processCommand(placeCommand("hold", 4*unit, 10*unit))

		require.Error(t, err)
	})

	t.Run("unknown command type is skipped", func(t *testing.T) {
		fixture := setupTestFixture(t)
		defer fixture.teardown()

		fixture.mockSnapshotStore.EXPECT().LoadStore(gomock.Any()).Return(nil, nil)

		engine := createTestEngine(fixture)

		err := engine.processCommand(&orderreaderv1.OrderCommand{Type: "replace"})

		require.NoError(t, err)
	})
}

func TestShouldCreateSnapshot(t *testing.T) {
	fixture := setupTestFixture(t)
	defer fixture.teardown()

	fixture.mockSnapshotStore.EXPECT().LoadStore(gomock.Any()).Return(nil, nil)

	engine := NewEngineWithOptions(
		fixture.book,
		fixture.mockOrderReader,
		fixture.mockTradePublisher,
		fixture.mockSnapshotStore,
		fixture.logger,
		fixture.config,
		&Options{
			SnapshotInterval:    time.Second,
			SnapshotOffsetDelta: 100,
		},
	)

	// Nothing consumed yet.
	assert.False(t, engine.shouldCreateSnapshot())

	engine.setOrderOffset(50)
	assert.False(t, engine.shouldCreateSnapshot())

	engine.setOrderOffset(100)
	assert.True(t, engine.shouldCreateSnapshot())

	engine.setLastSnapshotOffset(100)
	assert.False(t, engine.shouldCreateSnapshot())

	engine.setOrderOffset(250)
	assert.True(t, engine.shouldCreateSnapshot())
}

func TestCreateAndStoreSnapshot(t *testing.T) {
	t.Run("successful store advances the snapshot offset", func(t *testing.T) {
		fixture := setupTestFixture(t)
		defer fixture.teardown()

		fixture.mockSnapshotStore.EXPECT().LoadStore(gomock.Any()).Return(nil, nil)

		engine := createTestEngine(fixture)
		engine.setOrderOffset(500)

		_, _, err := fixture.book.AddOrder(orderbookv1.SideBid, 4*unit, 10*unit)
		require.NoError(t, err)

		fixture.mockSnapshotStore.EXPECT().
			Store(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, snapshot *snapshotv1.Snapshot) error {
				assert.Equal(t, int64(500), snapshot.OrderOffset)
				assert.Len(t, snapshot.Book.Orders, 1)
				return nil
			}).
			Times(1)

		engine.createAndStoreSnapshot()

		assert.Equal(t, int64(500), engine.GetLastSnapshotOffset())
	})

	t.Run("store failure leaves the snapshot offset alone", func(t *testing.T) {
		fixture := setupTestFixture(t)
		defer fixture.teardown()

		fixture.mockSnapshotStore.EXPECT().LoadStore(gomock.Any()).Return(nil, nil)

		engine := createTestEngine(fixture)
		engine.setOrderOffset(500)

		fixture.mockSnapshotStore.EXPECT().
			Store(gomock.Any(), gomock.Any()).
			Return(stderrors.New("redis down")).
			Times(1)

		engine.createAndStoreSnapshot()

		assert.Equal(t, int64(0), engine.GetLastSnapshotOffset())
	})
}

func TestEngineStartStop(t *testing.T) {
	fixture := setupTestFixture(t)
	defer fixture.teardown()

	fixture.mockSnapshotStore.EXPECT().LoadStore(gomock.Any()).Return(nil, nil)

	engine := NewEngine(
		fixture.book,
		fixture.mockOrderReader,
		fixture.mockTradePublisher,
		fixture.mockSnapshotStore,
		fixture.logger,
		fixture.config,
	)

	fixture.mockOrderReader.EXPECT().
		SetOffset(gomock.Any()).
		Return(nil).
		Times(1)
	fixture.mockOrderReader.EXPECT().
		ReadMessage(gomock.Any()).
		DoAndReturn(func(ctx context.Context) (kafka.Message, *orderreaderv1.OrderCommand, error) {
			<-ctx.Done()
			return kafka.Message{}, nil, ctx.Err()
		}).
		AnyTimes()
	fixture.mockOrderReader.EXPECT().
		Close().
		Return(nil).
		Times(1)

	require.NoError(t, engine.Start(context.Background()))

	// Give the goroutines a moment to spin up before stopping.
	time.Sleep(50 * time.Millisecond)

	stopCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	assert.NoError(t, engine.Stop(stopCtx))
}
