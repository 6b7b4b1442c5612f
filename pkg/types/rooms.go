package types

import "time"

const DeviceHeader = "X-Device-ID"

type CreateRoomRequest struct {
	Cards    []string `json:"cards"`
	Seats    int      `json:"seats"`
	Packs    int      `json:"packs"`
	PackSize int      `json:"pack_size"`
}

type CreateRoomResponse struct {
	RoomID string `json:"room_id"`
}

type Room struct {
	ID        string     `json:"id"`
	Seats     int        `json:"seats"`
	Packs     int        `json:"packs"`
	PackSize  int        `json:"pack_size"`
	State     DraftState `json:"state"`
	Occupied  []int      `json:"occupied"`
	Mine      bool       `json:"mine"`
	CreatedAt time.Time  `json:"created_at"`
}
