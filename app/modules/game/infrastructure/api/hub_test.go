package gameapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gameevents "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/domain/events"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFrame(t *testing.T, conn *websocket.Conn) gameevents.StandingsUpdatedPayloadV1 {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var payload gameevents.StandingsUpdatedPayloadV1
	require.NoError(t, json.Unmarshal(data, &payload))
	return payload
}

func TestLiveStandings(t *testing.T) {
	env := newTestEnv(t, RouteOptions{})
	srv := httptest.NewServer(env.server)
	defer srv.Close()

	msgs := make(chan *message.Message)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go env.hub.Consume(ctx, msgs)

	gameID := uuid.New()
	other := uuid.New()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/games/" + gameID.String() + "/live"

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	initial := readFrame(t, conn)
	assert.Equal(t, gameID.String(), initial.GameID)
	assert.Equal(t, int64(1), initial.Version)

	publish := func(id uuid.UUID, version int64) {
		payload, err := json.Marshal(gameevents.StandingsUpdatedPayloadV1{GameID: id.String(), Version: version})
		require.NoError(t, err)
		msg := message.NewMessage(watermill.NewUUID(), payload)
		msg.Metadata.Set("game_id", id.String())
		msgs <- msg
		<-msg.Acked()
	}

	// The hub registers the client before its write pump sends the initial
	// frame, so anything published from here on reaches it.
	publish(other, 9)
	publish(gameID, 2)

	got := readFrame(t, conn)
	assert.Equal(t, gameID.String(), got.GameID)
	assert.Equal(t, int64(2), got.Version)
}

func TestHubDropsMessagesWithoutGame(t *testing.T) {
	env := newTestEnv(t, RouteOptions{})
	msgs := make(chan *message.Message, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go env.hub.Consume(ctx, msgs)

	msg := message.NewMessage(watermill.NewUUID(), []byte(`{}`))
	msgs <- msg

	select {
	case <-msg.Acked():
	case <-time.After(time.Second):
		t.Fatal("message was not acked")
	}
}

func TestHubDropsSlowClients(t *testing.T) {
	h := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	slow := &Client{hub: h, gameID: "g1", send: make(chan []byte, 1)}
	fast := &Client{hub: h, gameID: "g2", send: make(chan []byte, 2)}
	h.rooms["g1"] = map[*Client]bool{slow: true}
	h.rooms["g2"] = map[*Client]bool{fast: true}

	h.deliver(broadcast{gameID: "g1", data: []byte("v2")})
	h.deliver(broadcast{gameID: "g1", data: []byte("v3")})

	assert.NotContains(t, h.rooms, "g1", "empty room is removed")
	assert.Equal(t, []byte("v2"), <-slow.send)
	_, open := <-slow.send
	assert.False(t, open)

	h.deliver(broadcast{gameID: "g2", data: []byte("v2")})
	assert.Contains(t, h.rooms, "g2")
	assert.Len(t, fast.send, 1)
}
