package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/ultimate-tictactoe-backend/internal/entity"
)

// RoomRepository persists the whole room set at once.
type RoomRepository interface {
	LoadAll(ctx context.Context) (entity.RoomSet, error)
	SaveAll(ctx context.Context, rooms entity.RoomSet) error
}

type dbRoom struct {
	client *redis.Client
	key    string
}

// NewRoomRepository - stores rooms in a redis hash, one field per room code.
func NewRoomRepository(client *redis.Client, key string) RoomRepository {
	return &dbRoom{
		client: client,
		key:    key,
	}
}

func (that *dbRoom) LoadAll(ctx context.Context) (entity.RoomSet, error) {
	response, err := that.client.HGetAll(ctx, that.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get rooms: %w", err)
	}

	rooms := make(entity.RoomSet, len(response))
	for code, payload := range response {
		room, err := decodeRoom(code, []byte(payload))
		if err != nil {
			return nil, err
		}

		rooms[code] = room
	}

	return rooms, nil
}

func (that *dbRoom) SaveAll(ctx context.Context, rooms entity.RoomSet) error {
	fields := make(map[string]any, len(rooms))
	for code, room := range rooms {
		roomJSON, err := json.Marshal(room)
		if err != nil {
			return fmt.Errorf("could not marshal room %s: %w", code, err)
		}

		fields[code] = roomJSON
	}

	_, err := that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, that.key)
		if len(fields) > 0 {
			pipe.HSet(ctx, that.key, fields)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to set rooms: %w", err)
	}

	return nil
}

func decodeRoom(code string, payload []byte) (*entity.Room, error) {
	var room entity.Room
	if err := json.Unmarshal(payload, &room); err != nil {
		return nil, fmt.Errorf("failed to unmarshal room %s: %w", code, err)
	}

	room.Code = code
	if room.Nicknames == nil {
		room.Nicknames = make(map[string]string)
	}
	if room.Game.DecidedSubBoards == nil {
		room.Game.DecidedSubBoards = []int{}
	}

	return &room, nil
}
