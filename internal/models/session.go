package models

import "time"

// Session is a cached snapshot of a verified caller: the identity subject
// plus the profile last loaded for it. It lives in the cache layer, not the
// database; losing it only costs a profile re-read. Prices are never cached.
type Session struct {
	UserID    string    `json:"user_id"`
	Profile   *User     `json:"profile,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}
