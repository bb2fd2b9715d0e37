package rest

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rocketscienceinc/ultimate-tictactoe-backend/internal/apperror"
)

func pingHandler(c *gin.Context) {
	c.String(http.StatusOK, "pong")
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// listRoomsHandler - serves the same directory the websocket listRooms request returns.
func listRoomsHandler(logger *slog.Logger, rooms directory) gin.HandlerFunc {
	log := logger.With("method", "listRoomsHandler")

	return func(c *gin.Context) {
		summaries, err := rooms.ListRooms(c.Request.Context())
		if err != nil {
			log.Error("failed to list rooms", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "error": apperror.ErrInternal.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true, "rooms": summaries})
	}
}
