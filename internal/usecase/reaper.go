package usecase

import "slices"

// ExpiredRooms - returns, in code order, the rooms idle for longer than the TTL.
func (that *RoomManager) ExpiredRooms() []string {
	now := that.now()

	var expired []string
	for code, room := range that.rooms {
		if now.Sub(room.LastActivityAt) > that.ttl {
			expired = append(expired, code)
		}
	}

	slices.Sort(expired)

	return expired
}

// DeleteRoom - removes the room from memory and storage.
func (that *RoomManager) DeleteRoom(code string) bool {
	room, ok := that.lookup(code)
	if !ok {
		return false
	}

	delete(that.rooms, room.Code)
	that.persist()

	that.logger.Info("room deleted", "method", "DeleteRoom", "roomCode", room.Code)

	return true
}
