package worker

import (
	"context"

	"farm-shop/internal/broker"
	"farm-shop/internal/pricing"
	"farm-shop/internal/util"

	"go.uber.org/zap"
)

// FeedWorker tails the order feed topic and logs every composed order for
// the seller console, so the operator does not have to poll LINE.
type FeedWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	logger       *zap.Logger
}

// NewFeedWorker creates a feed worker over the given consumer
func NewFeedWorker(consumer *broker.Consumer) *FeedWorker {
	w := &FeedWorker{
		consumer: consumer,
		logger:   util.NamedLogger("feed"),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnOrderComposed(w.handleOrderComposed)
	w.eventHandler = eventHandler

	return w
}

// Start consumes the feed until ctx is cancelled
func (w *FeedWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting order feed worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *FeedWorker) Stop() error {
	w.logger.Info("Stopping order feed worker")
	return w.consumer.Close()
}

func (w *FeedWorker) handleOrderComposed(_ context.Context, event *broker.OrderComposedEvent) error {
	util.OrderFeedReceivedTotal.Inc()

	w.logger.Info("Order received",
		zap.String("event_id", event.EventID),
		zap.String("session", event.Session),
		zap.String("farm_tag", event.FarmTag),
		zap.Int("kinds", len(event.Lines)),
		zap.String("total", pricing.FormatTHB(event.Total)))
	return nil
}
