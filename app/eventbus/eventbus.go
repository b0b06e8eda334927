// Package eventbus connects the application to NATS JetStream through
// watermill, with an in-process fallback for single node and test runs.
package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Black-And-White-Club/golf-scorecard/app/shared/observability/attr"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	nc "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// EventBus publishes and consumes domain events.
type EventBus interface {
	message.Publisher
	message.Subscriber

	// CreateStream ensures a JetStream stream captures subjects.
	CreateStream(ctx context.Context, streamName string, subjects []string) error
	// Fanout delivers every message on topic to this process, bypassing the
	// queue group. Used for pushing live updates to connected clients.
	Fanout(ctx context.Context, topic string) (<-chan *message.Message, error)
}

// Config tunes the NATS connection.
type Config struct {
	URL           string
	QueueGroup    string
	DurablePrefix string
	AckWait       time.Duration
}

// natsBus implements EventBus on NATS JetStream.
type natsBus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	js         jetstream.JetStream
	natsConn   *nc.Conn
	marshaler  *nats.NATSMarshaler
	logger     *slog.Logger

	createdStreams map[string]bool
	streamMutex    sync.Mutex
}

// NewEventBus connects to NATS JetStream.
func NewEventBus(ctx context.Context, cfg Config, logger *slog.Logger) (EventBus, error) {
	if cfg.AckWait == 0 {
		cfg.AckWait = 30 * time.Second
	}
	if cfg.DurablePrefix == "" {
		cfg.DurablePrefix = "golf"
	}

	options := []nc.Option{
		nc.RetryOnFailedConnect(true),
		nc.Timeout(30 * time.Second),
		nc.ReconnectWait(1 * time.Second),
	}

	natsConn, err := nc.Connect(cfg.URL, options...)
	if err != nil {
		logger.Error("Failed to connect to NATS", attr.Error(err))
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(natsConn)
	if err != nil {
		natsConn.Close()
		logger.Error("Failed to initialize JetStream", attr.Error(err))
		return nil, fmt.Errorf("failed to initialize JetStream: %w", err)
	}

	watermillLogger := watermill.NewSlogLogger(logger)
	marshaler := &nats.NATSMarshaler{}

	publisher, err := nats.NewPublisher(
		nats.PublisherConfig{
			URL:         cfg.URL,
			NatsOptions: options,
			Marshaler:   marshaler,
			JetStream: nats.JetStreamConfig{
				Disabled:      false,
				AutoProvision: false,
				TrackMsgId:    true,
			},
		},
		watermillLogger,
	)
	if err != nil {
		natsConn.Close()
		logger.Error("Failed to create Watermill publisher", attr.Error(err))
		return nil, fmt.Errorf("failed to create Watermill publisher: %w", err)
	}

	subscriber, err := nats.NewSubscriber(
		nats.SubscriberConfig{
			URL:              cfg.URL,
			QueueGroupPrefix: cfg.QueueGroup,
			SubscribersCount: 1,
			AckWaitTimeout:   cfg.AckWait,
			CloseTimeout:     10 * time.Second,
			NatsOptions:      options,
			Unmarshaler:      marshaler,
			JetStream: nats.JetStreamConfig{
				Disabled:      false,
				AutoProvision: false,
				DurablePrefix: cfg.DurablePrefix,
				DurableCalculator: func(prefix, topic string) string {
					// durable names may not contain dots
					return prefix + "_" + strings.NewReplacer(".", "_", "*", "all", ">", "rest").Replace(topic)
				},
				SubscribeOptions: []nc.SubOpt{
					nc.DeliverNew(),
					nc.AckExplicit(),
				},
			},
		},
		watermillLogger,
	)
	if err != nil {
		_ = publisher.Close()
		natsConn.Close()
		logger.Error("Failed to create Watermill subscriber", attr.Error(err))
		return nil, fmt.Errorf("failed to create Watermill subscriber: %w", err)
	}

	logger.InfoContext(ctx, "Connected to NATS JetStream", attr.String("url", cfg.URL))
	return &natsBus{
		publisher:      publisher,
		subscriber:     subscriber,
		js:             js,
		natsConn:       natsConn,
		marshaler:      marshaler,
		logger:         logger,
		createdStreams: make(map[string]bool),
	}, nil
}

func (eb *natsBus) Publish(topic string, messages ...*message.Message) error {
	for _, msg := range messages {
		if msg.UUID == "" {
			msg.UUID = watermill.NewUUID()
		}
	}
	if err := eb.publisher.Publish(topic, messages...); err != nil {
		eb.logger.Error("Failed to publish message", attr.Topic(topic), attr.Error(err))
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	eb.logger.Debug("Message published", attr.Topic(topic), attr.Int("count", len(messages)))
	return nil
}

func (eb *natsBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	eb.logger.Info("Subscribing to subject", attr.Topic(topic))
	messages, err := eb.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to subject %s: %w", topic, err)
	}
	return messages, nil
}

func (eb *natsBus) Fanout(ctx context.Context, topic string) (<-chan *message.Message, error) {
	raw := make(chan *nc.Msg, 256)
	sub, err := eb.natsConn.ChanSubscribe(topic, raw)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to subject %s: %w", topic, err)
	}

	out := make(chan *message.Message)
	go func() {
		defer close(out)
		defer func() { _ = sub.Unsubscribe() }()
		for {
			select {
			case <-ctx.Done():
				return
			case m := <-raw:
				msg, err := eb.marshaler.Unmarshal(m)
				if err != nil {
					eb.logger.Warn("Dropping undecodable message", attr.Topic(topic), attr.Error(err))
					continue
				}
				select {
				case out <- msg:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// CreateStream creates the stream, or adds any subjects it is missing.
func (eb *natsBus) CreateStream(ctx context.Context, streamName string, subjects []string) error {
	eb.streamMutex.Lock()
	defer eb.streamMutex.Unlock()

	logger := eb.logger.With(attr.String("stream_name", streamName))

	if eb.createdStreams[streamName] {
		logger.Info("Stream already created in this process")
		return nil
	}

	stream, err := eb.js.Stream(ctx, streamName)
	switch {
	case errors.Is(err, jetstream.ErrStreamNotFound):
		_, err = eb.js.CreateStream(ctx, jetstream.StreamConfig{
			Name:      streamName,
			Subjects:  subjects,
			Retention: jetstream.LimitsPolicy,
			MaxAge:    7 * 24 * time.Hour,
			Storage:   jetstream.FileStorage,
		})
		if err != nil {
			return fmt.Errorf("failed to create stream: %w", err)
		}
		logger.Info("Stream created", attr.Any("subjects", subjects))
	case err != nil:
		return fmt.Errorf("failed to check if stream exists: %w", err)
	default:
		info, err := stream.Info(ctx)
		if err != nil {
			return fmt.Errorf("failed to get stream info: %w", err)
		}
		missing := false
		for _, subject := range subjects {
			if !slices.Contains(info.Config.Subjects, subject) {
				info.Config.Subjects = append(info.Config.Subjects, subject)
				missing = true
			}
		}
		if missing {
			if _, err := eb.js.UpdateStream(ctx, info.Config); err != nil {
				return fmt.Errorf("failed to update stream with new subjects: %w", err)
			}
			logger.Info("Stream updated with new subjects", attr.Any("subjects", info.Config.Subjects))
		}
	}

	eb.createdStreams[streamName] = true
	return nil
}

// Close closes all NATS and Watermill resources.
func (eb *natsBus) Close() error {
	var errs []error
	if err := eb.publisher.Close(); err != nil {
		eb.logger.Error("Error closing NATS publisher", attr.Error(err))
		errs = append(errs, err)
	}
	if err := eb.subscriber.Close(); err != nil {
		eb.logger.Error("Error closing NATS subscriber", attr.Error(err))
		errs = append(errs, err)
	}
	eb.natsConn.Close()
	return errors.Join(errs...)
}
