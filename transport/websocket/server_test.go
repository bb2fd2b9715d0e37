package websocket

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/ultimate-tictactoe-backend/internal/entity"
	"github.com/rocketscienceinc/ultimate-tictactoe-backend/internal/usecase"
	"github.com/rocketscienceinc/ultimate-tictactoe-backend/testing/suite"
)

func startServer(t *testing.T) (*Hub, string) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	manager := usecase.NewRoomManager(suite.NewLogger(), nopPersister{}, 30*time.Minute)
	hub := NewHub(suite.NewLogger(), manager, time.Minute)
	go hub.Run(ctx)

	srv := httptest.NewServer(New(suite.NewLogger(), hub).Handler())
	t.Cleanup(srv.Close)

	return hub, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = conn.Close()
	})

	return conn
}

// readUntil returns the first message with the given action, skipping the rest.
func readUntil(t *testing.T, conn *websocket.Conn, action string) *Message {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	for {
		var message Message
		require.NoError(t, conn.ReadJSON(&message))

		if message.Action == action {
			return &message
		}
	}
}

func TestServer(t *testing.T) {
	t.Run("Two connections play over websocket", func(t *testing.T) {
		// Given: a running server and two connections
		_, url := startServer(t)
		alice := dial(t, url)
		bob := dial(t, url)

		// When: Alice creates ABC123 and Bob joins it
		require.NoError(t, alice.WriteJSON(newRequest(t, ActionCreateRoom, "1", RoomRequest{RoomCode: "ABC123", Nickname: "Alice"})))
		created := decode[JoinAck](t, readUntil(t, alice, ActionCreateRoom))

		require.NoError(t, bob.WriteJSON(newRequest(t, ActionJoinRoom, "2", RoomRequest{RoomCode: "ABC123", Nickname: "Bob"})))
		joined := decode[JoinAck](t, readUntil(t, bob, ActionJoinRoom))

		// Then: they hold X and O
		require.True(t, created.OK)
		require.True(t, joined.OK)
		assert.Equal(t, entity.PlayerX, created.Role)
		assert.Equal(t, entity.PlayerO, joined.Role)

		// When: X plays
		require.NoError(t, alice.WriteJSON(newRequest(t, ActionPlayMove, "3", map[string]any{
			"roomCode": "ABC123", "subBoardIndex": 4, "cellIndex": 0, "role": "X",
		})))

		// Then: Bob receives the new state
		update := decode[StateUpdate](t, readUntil(t, bob, EventStateUpdate))
		assert.Equal(t, entity.PlayerX, update.State.SubBoards[4][0])
		assert.Equal(t, entity.PlayerO, update.State.Turn)
	})

	t.Run("Closing a connection releases its seat", func(t *testing.T) {
		// Given: Alice seated in a room and Bob watching the directory
		hub, url := startServer(t)
		alice := dial(t, url)
		bob := dial(t, url)

		require.NoError(t, bob.WriteJSON(&Message{Action: ActionListRooms, ID: "0"}))
		readUntil(t, bob, ActionListRooms)

		require.NoError(t, alice.WriteJSON(newRequest(t, ActionJoinRoom, "1", RoomRequest{RoomCode: "ROOM", Nickname: "Alice"})))
		readUntil(t, alice, ActionJoinRoom)

		seated := decode[RoomsUpdated](t, readUntil(t, bob, EventRoomsUpdated))
		require.Len(t, seated.Rooms, 1)
		require.NotNil(t, seated.Rooms[0].Players.X)

		// When: Alice's connection closes
		require.NoError(t, alice.Close())

		// Then: the directory shows the seat as free
		updated := decode[RoomsUpdated](t, readUntil(t, bob, EventRoomsUpdated))
		require.Len(t, updated.Rooms, 1)
		assert.Nil(t, updated.Rooms[0].Players.X)

		rooms, err := hub.ListRooms(context.Background())
		require.NoError(t, err)
		require.Len(t, rooms, 1)
		assert.False(t, rooms[0].IsFull)
	})

	t.Run("Do fails once the hub has stopped", func(t *testing.T) {
		// Given: a hub whose loop has exited
		manager := usecase.NewRoomManager(suite.NewLogger(), nopPersister{}, time.Minute)
		hub := NewHub(suite.NewLogger(), manager, time.Minute)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		hub.Run(ctx)

		// When: a query is submitted
		err := hub.Do(context.Background(), func() {})

		// Then: it is refused
		require.ErrorIs(t, err, ErrHubStopped)
	})
}
