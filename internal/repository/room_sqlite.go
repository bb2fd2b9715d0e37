package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rocketscienceinc/ultimate-tictactoe-backend/internal/entity"
)

type sqliteRoom struct {
	conn *sql.DB
}

// NewSQLiteRoomRepository - stores rooms in the rooms table created by storage.Init.
func NewSQLiteRoomRepository(conn *sql.DB) RoomRepository {
	return &sqliteRoom{
		conn: conn,
	}
}

func (that *sqliteRoom) LoadAll(ctx context.Context) (entity.RoomSet, error) {
	query := `SELECT code, payload FROM rooms`

	rows, err := that.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("can't select rooms: %w", err)
	}
	defer rows.Close()

	rooms := make(entity.RoomSet)
	for rows.Next() {
		var code, payload string
		if err = rows.Scan(&code, &payload); err != nil {
			return nil, fmt.Errorf("can't scan room: %w", err)
		}

		room, err := decodeRoom(code, []byte(payload))
		if err != nil {
			return nil, err
		}

		rooms[code] = room
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("can't read rooms: %w", err)
	}

	return rooms, nil
}

func (that *sqliteRoom) SaveAll(ctx context.Context, rooms entity.RoomSet) error {
	tx, err := that.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("can't begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint: errcheck // no-op after commit

	if _, err = tx.ExecContext(ctx, `DELETE FROM rooms`); err != nil {
		return fmt.Errorf("can't clear rooms: %w", err)
	}

	query := `INSERT INTO rooms (code, payload, updated_at) VALUES (?, ?, ?)`
	updatedAt := time.Now().UTC()

	for code, room := range rooms {
		roomJSON, err := json.Marshal(room)
		if err != nil {
			return fmt.Errorf("could not marshal room %s: %w", code, err)
		}

		if _, err = tx.ExecContext(ctx, query, code, string(roomJSON), updatedAt); err != nil {
			return fmt.Errorf("can't save room %s: %w", code, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("can't commit rooms: %w", err)
	}

	return nil
}
