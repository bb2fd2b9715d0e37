package entity

import (
	"maps"
	"time"
)

const (
	DefaultNicknameX = "P1"
	DefaultNicknameO = "P2"
)

// Room wraps one game with its role bindings and activity timestamps.
type Room struct {
	Code           string            `json:"code"`
	Players        Roles             `json:"players"`
	Sessions       Roles             `json:"sessions"`
	Nicknames      map[string]string `json:"nicknames"`
	Game           Game              `json:"state"`
	CreatedAt      time.Time         `json:"createdAt"`
	LastActivityAt time.Time         `json:"lastActivityAt"`
}

// RoomSet is every active room keyed by code.
type RoomSet map[string]*Room

func NewRoom(code string, now time.Time) *Room {
	return &Room{
		Code:           code,
		Nicknames:      make(map[string]string),
		Game:           NewGame(Score{}),
		CreatedAt:      now,
		LastActivityAt: now,
	}
}

func (that *Room) Touch(now time.Time) {
	that.LastActivityAt = now
}

// RoleOf - returns the role currently bound to connID, or "" for a spectator.
func (that *Room) RoleOf(connID string) string {
	return that.Players.RoleOf(connID)
}

// Bind - binds connID to role with a nickname and session token.
func (that *Room) Bind(role, connID, nickname, token string) {
	that.Players.Set(role, connID)
	that.Sessions.Set(role, token)
	if that.Nicknames == nil {
		that.Nicknames = make(map[string]string)
	}
	that.Nicknames[connID] = nickname
}

// Release - clears every role and nickname held by connID. Session tokens stay so
// the participant can reclaim the seat.
func (that *Room) Release(connID string) bool {
	changed := false
	for _, role := range []string{PlayerX, PlayerO} {
		if that.Players.Get(role) == connID {
			that.Players.Set(role, "")
			changed = true
		}
	}

	if _, ok := that.Nicknames[connID]; ok {
		delete(that.Nicknames, connID)
		changed = true
	}

	return changed
}

// PlayerFor - returns the bound player of role, or nil when the seat is free.
func (that *Room) PlayerFor(role string) *Player {
	connID := that.Players.Get(role)
	if connID == "" {
		return nil
	}

	nickname := that.Nicknames[connID]
	if nickname == "" {
		nickname = DefaultNickname(role)
	}

	return &Player{ConnectionID: connID, Nickname: nickname}
}

func (that *Room) Clone() *Room {
	clone := *that
	clone.Nicknames = maps.Clone(that.Nicknames)
	if clone.Nicknames == nil {
		clone.Nicknames = make(map[string]string)
	}
	clone.Game = that.Game.Clone()
	return &clone
}

func (that RoomSet) Clone() RoomSet {
	clone := make(RoomSet, len(that))
	for code, room := range that {
		clone[code] = room.Clone()
	}
	return clone
}

func DefaultNickname(role string) string {
	if role == PlayerO {
		return DefaultNicknameO
	}
	return DefaultNicknameX
}

// RoomPlayers is what a room shows about its seats.
type RoomPlayers struct {
	X *Player `json:"X"`
	O *Player `json:"O"`
}

// RoomInfo is the room metadata pushed to every subscriber after a change.
type RoomInfo struct {
	Code           string      `json:"roomCode"`
	Players        RoomPlayers `json:"players"`
	Turn           string      `json:"turn"`
	Score          Score       `json:"score"`
	LastActivityAt int64       `json:"lastActivityAt"`
	TTLMs          int64       `json:"ttlMs"`
}

// SummaryPlayers lists nicknames only; connection ids never reach the lobby.
type SummaryPlayers struct {
	X *string `json:"X"`
	O *string `json:"O"`
}

// RoomSummary is one lobby entry.
type RoomSummary struct {
	Code           string         `json:"code"`
	Players        SummaryPlayers `json:"players"`
	IsFull         bool           `json:"isFull"`
	CreatedAt      int64          `json:"createdAt"`
	LastActivityAt int64          `json:"lastActivityAt"`
	TTLMs          int64          `json:"ttlMs"`
}
