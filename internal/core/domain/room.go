package domain

import "time"

// Room is the isolation boundary of the game: every player, transaction and
// config record belongs to exactly one room. Passwords are stored as bcrypt
// hashes only.
type Room struct {
	RoomID            string    `json:"roomID"`
	Name              string    `json:"name"` // unique among active rooms
	JoinPasswordHash  string    `json:"-"`
	AdminPasswordHash string    `json:"-"`
	CreatorID         string    `json:"creatorID"`
	CreatedAt         time.Time `json:"createdAt"`
}
