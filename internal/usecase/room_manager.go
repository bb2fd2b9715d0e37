package usecase

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/rocketscienceinc/ultimate-tictactoe-backend/internal/apperror"
	"github.com/rocketscienceinc/ultimate-tictactoe-backend/internal/entity"
	"github.com/rocketscienceinc/ultimate-tictactoe-backend/internal/pkg"
	"github.com/rocketscienceinc/ultimate-tictactoe-backend/internal/tictactoe"
)

const (
	maxRoomCodeLength = 16
	maxNicknameLength = 24
	codeAttempts      = 32
)

type persister interface {
	Save(rooms entity.RoomSet)
}

// JoinResult is returned to a participant that took a seat.
// Joined is false when the connection already held the seat.
type JoinResult struct {
	Code         string
	Role         string
	Nickname     string
	SessionToken string
	State        entity.Game
	Joined       bool
}

// ResumeResult is returned to a connection that re-subscribed to a room.
// Role is empty for spectators; Rebound reports a seat reclaimed by session token.
type ResumeResult struct {
	Code    string
	Role    string
	Rebound bool
	State   entity.Game
}

type MoveResult struct {
	Code    string
	State   entity.Game
	Outcome entity.Outcome
}

// RoomManager owns every room. It is not safe for concurrent use: a single
// goroutine must make all calls.
type RoomManager struct {
	logger    *slog.Logger
	persister persister
	ttl       time.Duration

	now          func() time.Time
	generateCode func() (string, error)

	rooms entity.RoomSet
}

func NewRoomManager(logger *slog.Logger, persister persister, ttl time.Duration) *RoomManager {
	return &RoomManager{
		logger:    logger.With("component", "room-manager"),
		persister: persister,
		ttl:       ttl,

		now:          time.Now,
		generateCode: pkg.GenerateRoomCode,

		rooms: make(entity.RoomSet),
	}
}

// Restore - replaces the room set with one loaded from storage.
func (that *RoomManager) Restore(rooms entity.RoomSet) {
	that.rooms = make(entity.RoomSet, len(rooms))
	for code, room := range rooms {
		if room.Nicknames == nil {
			room.Nicknames = make(map[string]string)
		}
		room.Code = code
		that.rooms[code] = room
	}

	that.logger.Info("rooms restored", "rooms", len(that.rooms))
}

// CreateRoom - binds connID as X in a new room. An empty code asks for a generated one;
// an existing room may only be taken over while nobody holds a seat in it.
func (that *RoomManager) CreateRoom(code, nickname, connID string) (JoinResult, error) {
	log := that.logger.With("method", "CreateRoom")

	code, err := that.resolveCode(code)
	if err != nil {
		return JoinResult{}, err
	}

	if room, ok := that.rooms[code]; ok && !room.Players.IsEmpty() {
		return JoinResult{}, fmt.Errorf("%w: %s", apperror.ErrRoomExists, code)
	}

	room := that.ensureRoom(code)
	result := that.bind(room, entity.PlayerX, nickname, connID)
	that.persist()

	log.Info("room created", "roomCode", code, "connectionID", connID)

	return result, nil
}

// JoinRoom - seats connID in the room, creating it on first reference.
// X is handed out first, then O.
func (that *RoomManager) JoinRoom(code, nickname, connID string) (JoinResult, error) {
	log := that.logger.With("method", "JoinRoom")

	code, err := NormalizeCode(code)
	if err != nil {
		return JoinResult{}, err
	}

	if room, ok := that.rooms[code]; ok {
		if role := room.RoleOf(connID); role != "" {
			room.Touch(that.now())
			that.persist()

			return JoinResult{
				Code:         code,
				Role:         role,
				Nickname:     room.Nicknames[connID],
				SessionToken: room.Sessions.Get(role),
				State:        room.Game.Clone(),
			}, nil
		}

		if room.Players.IsFull() {
			return JoinResult{}, fmt.Errorf("%w: %s", apperror.ErrRoomFull, code)
		}
	}

	room := that.ensureRoom(code)

	role := entity.PlayerX
	if room.Players.X != "" {
		role = entity.PlayerO
	}

	if room.Players.Get(role) != "" {
		return JoinResult{}, fmt.Errorf("%w: %s", apperror.ErrRoleTaken, role)
	}

	result := that.bind(room, role, nickname, connID)
	that.persist()

	log.Info("player joined", "roomCode", code, "role", role, "connectionID", connID)

	return result, nil
}

// ResumeRoom - re-derives the caller's role from its current identity. A matching
// session token moves the seat to connID, replacing whichever connection held it.
func (that *RoomManager) ResumeRoom(code, connID, token, nickname string) (ResumeResult, error) {
	room, ok := that.lookup(code)
	if !ok {
		return ResumeResult{}, apperror.ErrRoomNotFound
	}

	result := ResumeResult{
		Code: room.Code,
		Role: room.RoleOf(connID),
	}

	if result.Role == "" && token != "" {
		if role := room.Sessions.RoleOf(token); role != "" {
			that.rebind(room, role, connID, nickname)
			result.Role = role
			result.Rebound = true

			that.logger.Info("seat reclaimed", "method", "ResumeRoom", "roomCode", room.Code, "role", role)
		}
	}

	room.Touch(that.now())
	that.persist()

	result.State = room.Game.Clone()

	return result, nil
}

// LeaveRoom - frees whatever seat connID holds. The room itself stays.
func (that *RoomManager) LeaveRoom(code, connID string) (string, bool) {
	room, ok := that.lookup(code)
	if !ok {
		return "", false
	}

	room.Release(connID)
	room.Touch(that.now())
	that.persist()

	return room.Code, true
}

// Disconnect - frees every seat held by connID and returns the codes of changed rooms.
func (that *RoomManager) Disconnect(connID string) []string {
	var changed []string
	for code, room := range that.rooms {
		if room.Release(connID) {
			changed = append(changed, code)
		}
	}

	slices.Sort(changed)

	if len(changed) > 0 {
		that.persist()
		that.logger.Info("connection released", "method", "Disconnect", "connectionID", connID, "rooms", changed)
	}

	return changed
}

// PlayMove - plays for role after checking that it is X or O and that connID holds it.
func (that *RoomManager) PlayMove(code, connID, role string, subBoard, cell int) (MoveResult, error) {
	room, ok := that.lookup(code)
	if !ok {
		return MoveResult{}, apperror.ErrRoomNotFound
	}

	if !entity.IsPlayer(role) {
		return MoveResult{}, fmt.Errorf("%w: %q", apperror.ErrInvalidRole, role)
	}

	if bound := room.RoleOf(connID); bound == "" || bound != role {
		return MoveResult{}, apperror.ErrNotAuthorized
	}

	next, outcome, err := tictactoe.ApplyMove(room.Game, role, subBoard, cell)
	if err != nil {
		return MoveResult{}, fmt.Errorf("failed to make move: %w", err)
	}

	room.Game = next
	room.Touch(that.now())
	that.persist()

	if outcome.IsTerminal() {
		that.logger.Info("game finished", "method", "PlayMove", "roomCode", room.Code,
			"outcome", outcome.Kind, "winner", outcome.Winner, "score", next.Score)
	}

	return MoveResult{
		Code:    room.Code,
		State:   next.Clone(),
		Outcome: outcome,
	}, nil
}

// TouchCursor - counts an advisory cursor event as activity. Nothing is persisted.
func (that *RoomManager) TouchCursor(code string) (string, bool) {
	room, ok := that.lookup(code)
	if !ok {
		return "", false
	}

	room.Touch(that.now())

	return room.Code, true
}

// RoomInfo - returns the metadata broadcast to a room's subscribers.
func (that *RoomManager) RoomInfo(code string) (entity.RoomInfo, bool) {
	room, ok := that.lookup(code)
	if !ok {
		return entity.RoomInfo{}, false
	}

	return entity.RoomInfo{
		Code: room.Code,
		Players: entity.RoomPlayers{
			X: room.PlayerFor(entity.PlayerX),
			O: room.PlayerFor(entity.PlayerO),
		},
		Turn:           room.Game.Turn,
		Score:          room.Game.Score,
		LastActivityAt: room.LastActivityAt.UnixMilli(),
		TTLMs:          that.ttl.Milliseconds(),
	}, true
}

// Snapshot - returns a deep copy of every room.
func (that *RoomManager) Snapshot() entity.RoomSet {
	return that.rooms.Clone()
}

func (that *RoomManager) bind(room *entity.Room, role, nickname, connID string) JoinResult {
	nickname = normalizeNickname(nickname, role)
	token := pkg.GenerateSessionToken()

	room.Bind(role, connID, nickname, token)
	room.Touch(that.now())

	return JoinResult{
		Code:         room.Code,
		Role:         role,
		Nickname:     nickname,
		SessionToken: token,
		State:        room.Game.Clone(),
		Joined:       true,
	}
}

func (that *RoomManager) rebind(room *entity.Room, role, connID, nickname string) {
	previous := room.Players.Get(role)
	if nickname == "" {
		nickname = room.Nicknames[previous]
	}
	if previous != "" {
		room.Release(previous)
	}

	room.Bind(role, connID, normalizeNickname(nickname, role), room.Sessions.Get(role))
}

func (that *RoomManager) ensureRoom(code string) *entity.Room {
	room, ok := that.rooms[code]
	if !ok {
		room = entity.NewRoom(code, that.now())
		that.rooms[code] = room
	}

	return room
}

func (that *RoomManager) lookup(code string) (*entity.Room, bool) {
	code, err := NormalizeCode(code)
	if err != nil {
		return nil, false
	}

	room, ok := that.rooms[code]

	return room, ok
}

// resolveCode - normalizes a requested code or generates an unused one.
func (that *RoomManager) resolveCode(requested string) (string, error) {
	if strings.TrimSpace(requested) != "" {
		return NormalizeCode(requested)
	}

	for range codeAttempts {
		code, err := that.generateCode()
		if err != nil {
			return "", fmt.Errorf("%w: %w", apperror.ErrInternal, err)
		}

		if _, taken := that.rooms[code]; !taken {
			return code, nil
		}
	}

	return "", fmt.Errorf("%w: no free room code", apperror.ErrInternal)
}

func (that *RoomManager) persist() {
	that.persister.Save(that.rooms.Clone())
}

// NormalizeCode - trims and uppercases a room code.
func NormalizeCode(code string) (string, error) {
	code = cases.Upper(language.Und).String(strings.TrimSpace(code))

	if code == "" || utf8.RuneCountInString(code) > maxRoomCodeLength || strings.ContainsAny(code, " \t\r\n") {
		return "", fmt.Errorf("%w: %q", apperror.ErrInvalidRoomCode, code)
	}

	return code, nil
}

// normalizeNickname - NFC-normalizes and trims a display name, falling back to the
// role's default.
func normalizeNickname(nickname, role string) string {
	nickname = strings.TrimSpace(norm.NFC.String(nickname))

	if utf8.RuneCountInString(nickname) > maxNicknameLength {
		nickname = string([]rune(nickname)[:maxNicknameLength])
	}

	if nickname == "" {
		return entity.DefaultNickname(role)
	}

	return nickname
}
