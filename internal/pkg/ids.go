package pkg

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

const (
	roomCodeLength = 6
	roomCodeChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// GenerateRoomCode - generates a short uppercase room code.
func GenerateRoomCode() (string, error) {
	code := make([]byte, roomCodeLength)
	limit := big.NewInt(int64(len(roomCodeChars)))

	for i := range code {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("failed to generate room code: %w", err)
		}
		code[i] = roomCodeChars[n.Int64()]
	}

	return string(code), nil
}

// GenerateSessionToken - generates the token a participant uses to reclaim a seat.
func GenerateSessionToken() string {
	return uuid.NewString()
}

// GenerateConnectionID - generates the identity of one transport connection.
func GenerateConnectionID() string {
	return uuid.NewString()
}
