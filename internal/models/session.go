package models

import "time"

// Session binds a browser session id to the backend token.
type Session struct {
	ID        string
	Token     string
	CreatedAt time.Time
}

// IsAuthenticated reports whether the session carries a token.
func (s Session) IsAuthenticated() bool {
	return s.Token != ""
}
