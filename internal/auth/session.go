// Package auth implements the shared-secret gate that guards administrative
// operations. A Session is either anonymous or authenticated; guarded
// operations receive the caller's Session explicitly and ask the Gate.
package auth

import (
	"context"
	"errors"
	"time"
)

var ErrSessionNotFound = errors.New("session not found")

type Session struct {
	ID            string    `json:"id"`
	Authenticated bool      `json:"authenticated"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Anonymous returns a session that has not presented the shared secret.
func Anonymous() *Session {
	return &Session{}
}

type SessionStore interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, sess *Session, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

type sessionKey struct{}

func WithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, sess)
}

// SessionFromContext returns the request's session, or an anonymous one when
// none was attached.
func SessionFromContext(ctx context.Context) *Session {
	if sess, ok := ctx.Value(sessionKey{}).(*Session); ok && sess != nil {
		return sess
	}
	return Anonymous()
}
