package models

import "time"

// Room mirrors the rooms table.
type Room struct {
	RoomID            string    `db:"room_id"`
	Name              string    `db:"name"`
	JoinPasswordHash  string    `db:"join_password_hash"`
	AdminPasswordHash string    `db:"admin_password_hash"`
	CreatorID         string    `db:"creator_id"`
	CreatedAt         time.Time `db:"created_at"`
}
