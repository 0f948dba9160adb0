package middleware

import "context"

// roomIDKey is the key used to store the authenticated session's room id.
const roomIDKey = contextKey("roomID")

// GetRoomIDFromCtx retrieves the session room id from the context. It
// returns the id and a boolean indicating whether a session was present.
func GetRoomIDFromCtx(ctx context.Context) (string, bool) {
	roomID, ok := ctx.Value(roomIDKey).(string)
	if !ok || roomID == "" {
		return "", false
	}
	return roomID, true
}
