package apperror

import "errors"

// validation
var (
	ErrNotYourTurn     = errors.New("not your turn")
	ErrInvalidMove     = errors.New("invalid move")
	ErrWrongSubBoard   = errors.New("wrong sub-board")
	ErrSubBoardDecided = errors.New("sub-board already decided")
	ErrCellOccupied    = errors.New("cell occupied")
	ErrInvalidRoomCode = errors.New("invalid room code")
	ErrInvalidRole     = errors.New("invalid role")
	ErrInvalidPayload  = errors.New("invalid payload")
	ErrUnknownAction   = errors.New("unknown action")
	ErrInternal        = errors.New("internal error")
)

// authorization
var ErrNotAuthorized = errors.New("not authorized")

// not found
var ErrRoomNotFound = errors.New("room not found")

// capacity
var (
	ErrRoomExists = errors.New("room already exists")
	ErrRoomFull   = errors.New("room full")
	ErrRoleTaken  = errors.New("role unavailable")
)

var clientErrors = []error{
	ErrNotYourTurn,
	ErrInvalidMove,
	ErrWrongSubBoard,
	ErrSubBoardDecided,
	ErrCellOccupied,
	ErrInvalidRoomCode,
	ErrInvalidRole,
	ErrInvalidPayload,
	ErrUnknownAction,
	ErrNotAuthorized,
	ErrRoomNotFound,
	ErrRoomExists,
	ErrRoomFull,
	ErrRoleTaken,
}

// Reason - returns the message a client is allowed to see for err.
// Anything that is not a known rejection is reported as an internal error.
func Reason(err error) string {
	for _, known := range clientErrors {
		if errors.Is(err, known) {
			return known.Error()
		}
	}

	return ErrInternal.Error()
}
