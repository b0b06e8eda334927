package eventbus

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBus_PublishSubscribe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := NewMemoryBus(slog.New(slog.NewTextHandler(io.Discard, nil)))
	defer bus.Close()

	require.NoError(t, bus.CreateStream(ctx, "game", []string{"game.test.v1"}))

	sub, err := bus.Subscribe(ctx, "game.test.v1")
	require.NoError(t, err)
	fan, err := bus.Fanout(ctx, "game.test.v1")
	require.NoError(t, err)

	msg := message.NewMessage(watermill.NewUUID(), []byte(`{"ok":true}`))
	require.NoError(t, bus.Publish("game.test.v1", msg))

	for _, ch := range []<-chan *message.Message{sub, fan} {
		select {
		case got := <-ch:
			assert.Equal(t, msg.UUID, got.UUID)
			assert.JSONEq(t, `{"ok":true}`, string(got.Payload))
			got.Ack()
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for message")
		}
	}
}
