package repository

import (
	"context"
	"sync"

	"github.com/rocketscienceinc/ultimate-tictactoe-backend/internal/entity"
)

type memoryRoom struct {
	mu    sync.Mutex
	rooms entity.RoomSet
}

// NewMemoryRoomRepository - keeps the snapshot in process; nothing survives a restart.
func NewMemoryRoomRepository() RoomRepository {
	return &memoryRoom{
		rooms: make(entity.RoomSet),
	}
}

func (that *memoryRoom) LoadAll(_ context.Context) (entity.RoomSet, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.rooms.Clone(), nil
}

func (that *memoryRoom) SaveAll(_ context.Context, rooms entity.RoomSet) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.rooms = rooms.Clone()

	return nil
}
