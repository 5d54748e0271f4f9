package select_room

import "strings"

// SelectRoomRequest HTTP request model
type SelectRoomRequest struct {
	RoomID string `json:"roomId"`
}

func (r *SelectRoomRequest) roomID() string {
	return strings.TrimSpace(r.RoomID)
}
