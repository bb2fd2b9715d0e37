package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/ultimate-tictactoe-backend/internal/apperror"
	"github.com/rocketscienceinc/ultimate-tictactoe-backend/internal/entity"
	"github.com/rocketscienceinc/ultimate-tictactoe-backend/internal/usecase"
)

var ErrHubStopped = errors.New("hub stopped")

type roomManager interface {
	CreateRoom(code, nickname, connID string) (usecase.JoinResult, error)
	JoinRoom(code, nickname, connID string) (usecase.JoinResult, error)
	ResumeRoom(code, connID, token, nickname string) (usecase.ResumeResult, error)
	LeaveRoom(code, connID string) (string, bool)
	Disconnect(connID string) []string
	PlayMove(code, connID, role string, subBoard, cell int) (usecase.MoveResult, error)
	TouchCursor(code string) (string, bool)

	RoomInfo(code string) (entity.RoomInfo, bool)
	ListRooms() []entity.RoomSummary

	ExpiredRooms() []string
	DeleteRoom(code string) bool
}

type request struct {
	client  *Client
	message *Message
}

// Hub serializes every room operation on the goroutine running Run.
type Hub struct {
	logger       *slog.Logger
	rooms        roomManager
	reapInterval time.Duration

	clients       map[*Client]struct{}
	subscriptions map[string]map[*Client]struct{}
	handlers      map[string]func(client *Client, message *Message)

	register   chan *Client
	unregister chan *Client
	requests   chan request
	calls      chan func()
	done       chan struct{}
}

func NewHub(logger *slog.Logger, rooms roomManager, reapInterval time.Duration) *Hub {
	hub := &Hub{
		logger:       logger.With("component", "hub"),
		rooms:        rooms,
		reapInterval: reapInterval,

		clients:       make(map[*Client]struct{}),
		subscriptions: make(map[string]map[*Client]struct{}),

		register:   make(chan *Client),
		unregister: make(chan *Client),
		requests:   make(chan request),
		calls:      make(chan func()),
		done:       make(chan struct{}),
	}

	hub.handlers = map[string]func(*Client, *Message){
		ActionCreateRoom: hub.handleCreateRoom,
		ActionJoinRoom:   hub.handleJoinRoom,
		ActionResumeRoom: hub.handleResumeRoom,
		ActionPlayMove:   hub.handlePlayMove,
		ActionLeaveRoom:  hub.handleLeaveRoom,
		ActionListRooms:  hub.handleListRooms,
		ActionCursorMove: hub.handleCursorMove,
	}

	return hub
}

// Run - processes registrations, requests, queries and reaper ticks until ctx is canceled.
func (that *Hub) Run(ctx context.Context) {
	log := that.logger.With("method", "Run")

	ticker := time.NewTicker(that.reapInterval)
	defer ticker.Stop()
	defer close(that.done)

	log.Info("hub started", "reapInterval", that.reapInterval)

	for {
		select {
		case <-ctx.Done():
			for client := range that.clients {
				that.closeClient(client)
			}
			log.Info("hub stopped")
			return
		case client := <-that.register:
			that.clients[client] = struct{}{}
		case client := <-that.unregister:
			if _, ok := that.clients[client]; ok {
				delete(that.clients, client)
				that.handleDisconnect(client)
				that.closeClient(client)
			}
		case req := <-that.requests:
			that.dispatch(req.client, req.message)
		case call := <-that.calls:
			call()
		case <-ticker.C:
			that.reap()
		}
	}
}

// Do - runs fn on the hub goroutine and waits for it to finish.
func (that *Hub) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})

	select {
	case that.calls <- func() { fn(); close(finished) }:
	case <-that.done:
		return ErrHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	<-finished

	return nil
}

// ListRooms - returns the room directory, read on the hub goroutine.
func (that *Hub) ListRooms(ctx context.Context) ([]entity.RoomSummary, error) {
	var rooms []entity.RoomSummary
	if err := that.Do(ctx, func() { rooms = that.rooms.ListRooms() }); err != nil {
		return nil, err
	}

	return rooms, nil
}

func (that *Hub) registerClient(client *Client) bool {
	select {
	case that.register <- client:
		return true
	case <-that.done:
		return false
	}
}

func (that *Hub) unregisterClient(client *Client) {
	select {
	case that.unregister <- client:
	case <-that.done:
	}
}

func (that *Hub) submit(client *Client, message *Message) bool {
	select {
	case that.requests <- request{client: client, message: message}:
		return true
	case <-that.done:
		return false
	}
}

func (that *Hub) dispatch(client *Client, message *Message) {
	handler, ok := that.handlers[message.Action]
	if !ok {
		client.logger.Warn("unknown action", "action", message.Action)
		that.reject(client, message, fmt.Errorf("%w: %s", apperror.ErrUnknownAction, message.Action))
		return
	}

	handler(client, message)
}

// reap - closes every room idle for longer than the TTL.
func (that *Hub) reap() {
	log := that.logger.With("method", "reap")

	expired := that.rooms.ExpiredRooms()
	if len(expired) == 0 {
		return
	}

	for _, code := range expired {
		that.broadcast(code, newMessage(EventRoomClosed, "", RoomClosed{
			Reason:   closeReasonInactive,
			RoomCode: code,
		}))

		that.rooms.DeleteRoom(code)

		for client := range that.subscriptions[code] {
			delete(client.rooms, code)
		}
		delete(that.subscriptions, code)

		log.Info("room closed", "roomCode", code, "reason", closeReasonInactive)
	}

	that.broadcastRooms()
}

func (that *Hub) subscribe(client *Client, code string) {
	subscribers, ok := that.subscriptions[code]
	if !ok {
		subscribers = make(map[*Client]struct{})
		that.subscriptions[code] = subscribers
	}

	subscribers[client] = struct{}{}
	client.rooms[code] = struct{}{}
}

func (that *Hub) unsubscribe(client *Client, code string) {
	delete(client.rooms, code)

	subscribers := that.subscriptions[code]
	delete(subscribers, client)
	if len(subscribers) == 0 {
		delete(that.subscriptions, code)
	}
}

// send - queues message for client. A client whose queue is full is closed.
func (that *Hub) send(client *Client, message *Message) {
	if client.closed {
		return
	}

	select {
	case client.send <- message:
	default:
		client.logger.Warn("send queue full, closing connection", "action", message.Action)
		that.closeClient(client)
	}
}

func (that *Hub) broadcast(code string, message *Message) {
	for client := range that.subscriptions[code] {
		that.send(client, message)
	}
}

func (that *Hub) broadcastOthers(code string, except *Client, message *Message) {
	for client := range that.subscriptions[code] {
		if client != except {
			that.send(client, message)
		}
	}
}

func (that *Hub) broadcastRoomInfo(code string) {
	info, ok := that.rooms.RoomInfo(code)
	if !ok {
		return
	}

	that.broadcast(code, newMessage(EventRoomInfo, "", info))
}

func (that *Hub) broadcastRooms() {
	message := newMessage(EventRoomsUpdated, "", RoomsUpdated{Rooms: that.rooms.ListRooms()})
	for client := range that.clients {
		that.send(client, message)
	}
}

func (that *Hub) closeClient(client *Client) {
	if client.closed {
		return
	}

	client.closed = true
	close(client.send)
}
