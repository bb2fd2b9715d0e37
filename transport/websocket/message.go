package websocket

import (
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/ultimate-tictactoe-backend/internal/apperror"
	"github.com/rocketscienceinc/ultimate-tictactoe-backend/internal/entity"
)

// requests
const (
	ActionCreateRoom = "createRoom"
	ActionJoinRoom   = "joinRoom"
	ActionResumeRoom = "resumeRoom"
	ActionPlayMove   = "playMove"
	ActionLeaveRoom  = "leaveRoom"
	ActionListRooms  = "listRooms"
	ActionCursorMove = "cursorMove"
)

// broadcasts
const (
	EventStateUpdate  = "stateUpdate"
	EventRoomInfo     = "roomInfo"
	EventPlayerJoined = "playerJoined"
	EventPlayerLeft   = "playerLeft"
	EventRoomClosed   = "roomClosed"
	EventPeerCursor   = "peerCursor"
	EventRoomsUpdated = "roomsUpdated"
)

const closeReasonInactive = "inactive"

// Message represents a WebSocket message with an action type and a payload.
// ID correlates a request with its acknowledgement.
type Message struct {
	Action  string          `json:"action"`
	ID      string          `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type RoomRequest struct {
	RoomCode string `json:"roomCode"`
	Nickname string `json:"nickname"`
}

type ResumeRequest struct {
	RoomCode     string `json:"roomCode"`
	SessionToken string `json:"sessionToken"`
	Nickname     string `json:"nickname"`
}

type MoveRequest struct {
	RoomCode      string `json:"roomCode"`
	SubBoardIndex *int   `json:"subBoardIndex"`
	CellIndex     *int   `json:"cellIndex"`
	Role          string `json:"role"`
}

type CursorRequest struct {
	RoomCode      string `json:"roomCode"`
	SubBoardIndex int    `json:"subBoardIndex"`
	CellIndex     int    `json:"cellIndex"`
}

// Ack is the common part of every acknowledgement.
type Ack struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type JoinAck struct {
	Ack
	RoomCode     string      `json:"roomCode"`
	Role         string      `json:"role"`
	Nickname     string      `json:"nickname"`
	SessionToken string      `json:"sessionToken"`
	State        entity.Game `json:"state"`
}

// ResumeAck carries a null role for spectators.
type ResumeAck struct {
	Ack
	RoomCode string      `json:"roomCode"`
	Role     *string     `json:"role"`
	State    entity.Game `json:"state"`
}

type RoomsAck struct {
	Ack
	Rooms []entity.RoomSummary `json:"rooms"`
}

type StateUpdate struct {
	State   entity.Game    `json:"state"`
	Outcome entity.Outcome `json:"outcome"`
}

type PlayerJoined struct {
	Role     string `json:"role"`
	Nickname string `json:"nickname"`
}

type PlayerLeft struct{}

type RoomClosed struct {
	Reason   string `json:"reason"`
	RoomCode string `json:"roomCode"`
}

type PeerCursor struct {
	SubBoardIndex int `json:"subBoardIndex"`
	CellIndex     int `json:"cellIndex"`
}

type RoomsUpdated struct {
	Rooms []entity.RoomSummary `json:"rooms"`
}

func newMessage(action, id string, payload any) *Message {
	return &Message{
		Action:  action,
		ID:      id,
		Payload: mustMarshal(payload),
	}
}

func mustMarshal(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

// decodePayload - unmarshals the request payload into target.
func decodePayload(message *Message, target any) error {
	if len(message.Payload) == 0 {
		return apperror.ErrInvalidPayload
	}

	if err := json.Unmarshal(message.Payload, target); err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrInvalidPayload, err)
	}

	return nil
}
