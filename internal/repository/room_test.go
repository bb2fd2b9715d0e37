package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/ultimate-tictactoe-backend/internal/entity"
	"github.com/rocketscienceinc/ultimate-tictactoe-backend/internal/repository/storage"
	"github.com/rocketscienceinc/ultimate-tictactoe-backend/testing/suite"
)

// sampleRooms - two rooms, one mid-game with both seats bound.
func sampleRooms() entity.RoomSet {
	createdAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	active := entity.NewRoom("ABC123", createdAt)
	active.Bind(entity.PlayerX, "conn-alice", "Alice", "token-alice")
	active.Bind(entity.PlayerO, "conn-bob", "Bob", "token-bob")
	active.Game.SubBoards[4][0] = entity.PlayerX
	active.Game.SubBoards[0][0] = entity.PlayerO
	active.Game.SubBoards[0][1] = entity.PlayerO
	active.Game.SubBoards[0][2] = entity.PlayerO
	active.Game.BigBoard[0] = entity.PlayerO
	active.Game.DecidedSubBoards = []int{0}
	active.Game.Turn = entity.PlayerX
	active.Game.FreeMove = true
	active.Game.TargetSubBoard = 2
	active.Game.Score = entity.Score{X: 3, O: 1}
	active.Touch(createdAt.Add(5 * time.Minute))

	idle := entity.NewRoom("IDLE01", createdAt.Add(-time.Hour))

	return entity.RoomSet{
		active.Code: active,
		idle.Code:   idle,
	}
}

// exerciseRoomRepository - shared contract for every RoomRepository implementation.
func exerciseRoomRepository(ctx context.Context, t *testing.T, repo RoomRepository) {
	t.Helper()

	t.Run("LoadAll on an empty store returns no rooms", func(t *testing.T) {
		// When: nothing has been saved yet
		rooms, err := repo.LoadAll(ctx)

		// Then: the set is empty
		require.NoError(t, err)
		assert.Empty(t, rooms)
	})

	t.Run("SaveAll then LoadAll round-trips state and bindings", func(t *testing.T) {
		// Given: a room set
		rooms := sampleRooms()

		// When: saving and loading it back
		require.NoError(t, repo.SaveAll(ctx, rooms))
		loaded, err := repo.LoadAll(ctx)

		// Then: the game state and role bindings are identical
		require.NoError(t, err)
		require.Len(t, loaded, 2)
		assert.Equal(t, rooms["ABC123"].Game, loaded["ABC123"].Game)
		assert.Equal(t, rooms["ABC123"].Players, loaded["ABC123"].Players)
		assert.Equal(t, rooms["ABC123"].Sessions, loaded["ABC123"].Sessions)
		assert.Equal(t, rooms["ABC123"].Nicknames, loaded["ABC123"].Nicknames)
		assert.True(t, rooms["ABC123"].LastActivityAt.Equal(loaded["ABC123"].LastActivityAt))
		assert.True(t, rooms["IDLE01"].CreatedAt.Equal(loaded["IDLE01"].CreatedAt))
		assert.Equal(t, rooms["IDLE01"].Game, loaded["IDLE01"].Game)
	})

	t.Run("SaveAll overwrites the previous snapshot wholesale", func(t *testing.T) {
		// Given: a saved set of two rooms
		rooms := sampleRooms()
		require.NoError(t, repo.SaveAll(ctx, rooms))

		// When: saving a set without the idle room
		delete(rooms, "IDLE01")
		require.NoError(t, repo.SaveAll(ctx, rooms))

		// Then: the idle room is gone
		loaded, err := repo.LoadAll(ctx)
		require.NoError(t, err)
		assert.Len(t, loaded, 1)
		assert.Contains(t, loaded, "ABC123")
	})

	t.Run("SaveAll with no rooms clears the store", func(t *testing.T) {
		require.NoError(t, repo.SaveAll(ctx, sampleRooms()))
		require.NoError(t, repo.SaveAll(ctx, entity.RoomSet{}))

		loaded, err := repo.LoadAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, loaded)
	})
}

func TestRedisRoomRepository(t *testing.T) {
	ctx, st := suite.New(t)

	exerciseRoomRepository(ctx, t, NewRoomRepository(st.Storage, st.RoomsKey))
}

func TestSQLiteRoomRepository(t *testing.T) {
	ctx := context.Background()

	sqliteStorage, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "rooms.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sqliteStorage.Close()
	})
	require.NoError(t, sqliteStorage.Init(ctx))

	exerciseRoomRepository(ctx, t, NewSQLiteRoomRepository(sqliteStorage.Connection))
}

func TestMemoryRoomRepository(t *testing.T) {
	repo := NewMemoryRoomRepository()

	exerciseRoomRepository(context.Background(), t, repo)

	t.Run("Loaded rooms are detached from the store", func(t *testing.T) {
		ctx := context.Background()
		require.NoError(t, repo.SaveAll(ctx, sampleRooms()))

		loaded, err := repo.LoadAll(ctx)
		require.NoError(t, err)
		loaded["ABC123"].Release("conn-alice")

		again, err := repo.LoadAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, "conn-alice", again["ABC123"].Players.X)
	})
}
