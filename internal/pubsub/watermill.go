package pubsub

import (
	"context"
	"log/slog"
	"slices"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// metaKeyTopic carries Message.Topic through watermill's metadata.
const metaKeyTopic = "topic"

// WatermillBridge implements Publisher and Subscriber on watermill's in-memory GoChannel.
type WatermillBridge struct {
	pub    message.Publisher
	sub    message.Subscriber
	logger watermill.LoggerAdapter
	tracer trace.Tracer
}

// NewWatermillBridge initializes an in-memory Pub/Sub system without tracing.
func NewWatermillBridge(debug bool) *WatermillBridge {
	return NewWatermillBridgeWithTracer(debug, noop.NewTracerProvider().Tracer(tracerName))
}

// NewWatermillBridgeWithTracer is NewWatermillBridge with a span around every
// publish and every handled message.
func NewWatermillBridgeWithTracer(debug bool, tracer trace.Tracer) *WatermillBridge {
	logger := watermill.NewStdLogger(debug, false)
	goChannel := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		logger,
	)

	return &WatermillBridge{
		pub:    goChannel,
		sub:    goChannel,
		logger: logger,
		tracer: tracer,
	}
}

func mapToWatermillMessage(msg Message) *message.Message {
	wmMsg := message.NewMessage(watermill.NewUUID(), msg.Payload)
	for k, v := range msg.Metadata {
		wmMsg.Metadata.Set(k, v)
	}
	wmMsg.Metadata.Set(metaKeyTopic, msg.Topic)
	return wmMsg
}

func mapToPubSubMessage(wmMsg *message.Message) Message {
	metadata := make(map[string]string, len(wmMsg.Metadata))
	for k, v := range wmMsg.Metadata {
		if k == metaKeyTopic || slices.Contains(propagator.Fields(), k) {
			continue
		}
		metadata[k] = v
	}
	return Message{
		Topic:    wmMsg.Metadata.Get(metaKeyTopic),
		Payload:  wmMsg.Payload,
		Metadata: metadata,
	}
}

// Publish implements the Publisher interface.
func (wb *WatermillBridge) Publish(ctx context.Context, msg Message) error {
	ctx, span := startPublishSpan(ctx, wb.tracer, msg)
	wmMsg := mapToWatermillMessage(msg)
	propagator.Inject(ctx, propagation.MapCarrier(wmMsg.Metadata))

	err := wb.pub.Publish(msg.Topic, wmMsg)
	endSpan(span, err)
	return err
}

// Subscribe implements the Subscriber interface. It returns once the
// subscription is active.
func (wb *WatermillBridge) Subscribe(ctx context.Context, topic string, handler Handler) error {
	messages, err := wb.sub.Subscribe(ctx, topic)
	if err != nil {
		return err
	}

	go func() {
		for wmMsg := range messages {
			msg := mapToPubSubMessage(wmMsg)
			spanCtx, span := startProcessSpan(ctx, wb.tracer, topic, wmMsg.UUID, wmMsg.Metadata, len(wmMsg.Payload))
			err := handler(spanCtx, msg)
			endSpan(span, err)
			if err != nil {
				slog.Error("Failed to handle message", "topic", topic, "msg_id", wmMsg.UUID, "error", err)
				// The in-memory bus does not redeliver; acking keeps the subscriber moving.
				wmMsg.Ack()
				continue
			}
			wmMsg.Ack()
		}
		slog.Debug("Subscription message loop ended", "topic", topic)
	}()

	return nil
}

// Close shuts down the bridge and ends every subscription.
func (wb *WatermillBridge) Close() error {
	return wb.sub.Close()
}
