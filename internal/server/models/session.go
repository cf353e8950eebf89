package models

import "time"

// Session is a user's live session token. At most one row exists per user:
// issuing a new session replaces the previous row (upsert on user_id).
type Session struct {
	UserID int64
	// ID is the opaque session token handed to the client.
	ID string
	// LastSet is the time of the last (re)issue; expiry is computed from it
	// lazily on read.
	LastSet time.Time
}
