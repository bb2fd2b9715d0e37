package usecase

import (
	"cmp"
	"slices"

	"github.com/rocketscienceinc/ultimate-tictactoe-backend/internal/entity"
)

// ListRooms - summarizes every room for the lobby, most recently active first.
func (that *RoomManager) ListRooms() []entity.RoomSummary {
	summaries := make([]entity.RoomSummary, 0, len(that.rooms))
	for _, room := range that.rooms {
		summaries = append(summaries, entity.RoomSummary{
			Code: room.Code,
			Players: entity.SummaryPlayers{
				X: nicknameOf(room, entity.PlayerX),
				O: nicknameOf(room, entity.PlayerO),
			},
			IsFull:         room.Players.IsFull(),
			CreatedAt:      room.CreatedAt.UnixMilli(),
			LastActivityAt: room.LastActivityAt.UnixMilli(),
			TTLMs:          that.ttl.Milliseconds(),
		})
	}

	slices.SortFunc(summaries, func(a, b entity.RoomSummary) int {
		if c := cmp.Compare(b.LastActivityAt, a.LastActivityAt); c != 0 {
			return c
		}
		return cmp.Compare(a.Code, b.Code)
	})

	return summaries
}

func nicknameOf(room *entity.Room, role string) *string {
	player := room.PlayerFor(role)
	if player == nil {
		return nil
	}

	return &player.Nickname
}
