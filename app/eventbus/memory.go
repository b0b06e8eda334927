package eventbus

import (
	"context"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// memoryBus implements EventBus in process. Every subscriber sees every
// message, so Fanout is a plain subscription.
type memoryBus struct {
	*gochannel.GoChannel
}

// NewMemoryBus returns an EventBus that never leaves the process.
func NewMemoryBus(logger *slog.Logger) EventBus {
	return &memoryBus{
		GoChannel: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: 256,
		}, watermill.NewSlogLogger(logger)),
	}
}

func (b *memoryBus) CreateStream(context.Context, string, []string) error {
	return nil
}

func (b *memoryBus) Fanout(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.Subscribe(ctx, topic)
}
