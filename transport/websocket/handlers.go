package websocket

import "github.com/rocketscienceinc/ultimate-tictactoe-backend/internal/apperror"

// Handlers run on the hub goroutine. Each acknowledges the caller before it
// broadcasts anything caused by the same request.

func (that *Hub) handleCreateRoom(client *Client, message *Message) {
	log := client.logger.With("method", "handleCreateRoom")

	var req RoomRequest
	if err := decodePayload(message, &req); err != nil {
		that.reject(client, message, err)
		return
	}

	result, err := that.rooms.CreateRoom(req.RoomCode, req.Nickname, client.id)
	if err != nil {
		log.Info("create room rejected", "roomCode", req.RoomCode, "error", err)
		that.reject(client, message, err)
		return
	}

	that.subscribe(client, result.Code)

	that.reply(client, message, JoinAck{
		Ack:          Ack{OK: true},
		RoomCode:     result.Code,
		Role:         result.Role,
		Nickname:     result.Nickname,
		SessionToken: result.SessionToken,
		State:        result.State,
	})

	that.broadcastRoomInfo(result.Code)
	that.broadcastRooms()
}

func (that *Hub) handleJoinRoom(client *Client, message *Message) {
	log := client.logger.With("method", "handleJoinRoom")

	var req RoomRequest
	if err := decodePayload(message, &req); err != nil {
		that.reject(client, message, err)
		return
	}

	result, err := that.rooms.JoinRoom(req.RoomCode, req.Nickname, client.id)
	if err != nil {
		log.Info("join room rejected", "roomCode", req.RoomCode, "error", err)
		that.reject(client, message, err)
		return
	}

	that.subscribe(client, result.Code)

	that.reply(client, message, JoinAck{
		Ack:          Ack{OK: true},
		RoomCode:     result.Code,
		Role:         result.Role,
		Nickname:     result.Nickname,
		SessionToken: result.SessionToken,
		State:        result.State,
	})

	if result.Joined {
		that.broadcastOthers(result.Code, client, newMessage(EventPlayerJoined, "", PlayerJoined{
			Role:     result.Role,
			Nickname: result.Nickname,
		}))
	}
	that.broadcastRoomInfo(result.Code)
	that.broadcastRooms()
}

func (that *Hub) handleResumeRoom(client *Client, message *Message) {
	var req ResumeRequest
	if err := decodePayload(message, &req); err != nil {
		that.reject(client, message, err)
		return
	}

	result, err := that.rooms.ResumeRoom(req.RoomCode, client.id, req.SessionToken, req.Nickname)
	if err != nil {
		that.reject(client, message, err)
		return
	}

	that.subscribe(client, result.Code)

	ack := ResumeAck{
		Ack:      Ack{OK: true},
		RoomCode: result.Code,
		State:    result.State,
	}
	if result.Role != "" {
		ack.Role = &result.Role
	}

	that.reply(client, message, ack)

	if !result.Rebound {
		if info, ok := that.rooms.RoomInfo(result.Code); ok {
			that.send(client, newMessage(EventRoomInfo, "", info))
		}
		return
	}

	that.broadcastRoomInfo(result.Code)
	that.broadcastRooms()
}

func (that *Hub) handlePlayMove(client *Client, message *Message) {
	log := client.logger.With("method", "handlePlayMove")

	var req MoveRequest
	if err := decodePayload(message, &req); err != nil {
		that.reject(client, message, err)
		return
	}

	if req.SubBoardIndex == nil || req.CellIndex == nil {
		that.reject(client, message, apperror.ErrInvalidPayload)
		return
	}

	result, err := that.rooms.PlayMove(req.RoomCode, client.id, req.Role, *req.SubBoardIndex, *req.CellIndex)
	if err != nil {
		log.Debug("move rejected", "roomCode", req.RoomCode, "error", err)
		that.reject(client, message, err)
		return
	}

	that.reply(client, message, Ack{OK: true})

	that.broadcast(result.Code, newMessage(EventStateUpdate, "", StateUpdate{
		State:   result.State,
		Outcome: result.Outcome,
	}))
	that.broadcastRoomInfo(result.Code)
}

// handleLeaveRoom - fire-and-forget: nothing is sent back to the caller.
func (that *Hub) handleLeaveRoom(client *Client, message *Message) {
	log := client.logger.With("method", "handleLeaveRoom")

	var req RoomRequest
	if err := decodePayload(message, &req); err != nil {
		log.Debug("invalid leave request", "error", err)
		return
	}

	code, ok := that.rooms.LeaveRoom(req.RoomCode, client.id)
	if !ok {
		return
	}

	that.unsubscribe(client, code)

	that.broadcast(code, newMessage(EventPlayerLeft, "", PlayerLeft{}))
	that.broadcastRoomInfo(code)
	that.broadcastRooms()
}

func (that *Hub) handleListRooms(client *Client, message *Message) {
	that.reply(client, message, RoomsAck{
		Ack:   Ack{OK: true},
		Rooms: that.rooms.ListRooms(),
	})
}

// handleCursorMove - relays the pointer position to the other room members.
func (that *Hub) handleCursorMove(client *Client, message *Message) {
	var req CursorRequest
	if err := decodePayload(message, &req); err != nil {
		return
	}

	code, ok := that.rooms.TouchCursor(req.RoomCode)
	if !ok {
		return
	}

	that.broadcastOthers(code, client, newMessage(EventPeerCursor, "", PeerCursor{
		SubBoardIndex: req.SubBoardIndex,
		CellIndex:     req.CellIndex,
	}))
}

// handleDisconnect - releases the seats of a closed connection.
func (that *Hub) handleDisconnect(client *Client) {
	for code := range client.rooms {
		that.unsubscribe(client, code)
	}

	changed := that.rooms.Disconnect(client.id)
	if len(changed) == 0 {
		return
	}

	for _, code := range changed {
		that.broadcast(code, newMessage(EventPlayerLeft, "", PlayerLeft{}))
		that.broadcastRoomInfo(code)
	}

	that.broadcastRooms()
}

func (that *Hub) reply(client *Client, message *Message, payload any) {
	that.send(client, newMessage(message.Action, message.ID, payload))
}

// reject - acknowledges with the client-facing reason of err.
func (that *Hub) reject(client *Client, message *Message, err error) {
	reason := apperror.Reason(err)
	if reason == apperror.ErrInternal.Error() {
		client.logger.Error("request failed", "action", message.Action, "error", err)
	}

	that.reply(client, message, Ack{OK: false, Error: reason})
}
