package app

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Session identifies one run of a binary in logs and screenshot names.
type Session struct {
	ID uuid.UUID
}

// NewSession returns a session with a random id.
func NewSession() Session {
	return Session{ID: uuid.New()}
}

// Short returns the first eight hex digits of the id.
func (s Session) Short() string {
	return s.ID.String()[:8]
}

// Field returns the session id as a log field.
func (s Session) Field() zap.Field {
	return zap.String("session", s.ID.String())
}
