package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "barbershop/internal/errors"
	"barbershop/internal/infrastructure/metrics"
)

const (
	msgAuthorizationRequired = "authorization required"
	msgInvalidPassword       = "invalid password"
)

type Gate struct {
	store  SessionStore
	secret string
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

func NewGate(store SessionStore, secret string, ttl time.Duration, logger *zap.Logger) *Gate {
	return &Gate{
		store:  store,
		secret: secret,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// Resolve looks up the session with the given id. Unknown, expired or
// unreadable sessions resolve to an anonymous session.
func (g *Gate) Resolve(ctx context.Context, id string) *Session {
	if id == "" {
		return Anonymous()
	}

	sess, err := g.store.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			g.logger.Warn("session lookup failed", zap.Error(err))
		}
		return Anonymous()
	}

	return sess
}

// Login compares credential with the shared secret. On a match it discards
// the current session and returns a fresh authenticated one. On a mismatch
// the caller stays anonymous and an AuthorizationError is returned.
func (g *Gate) Login(ctx context.Context, current *Session, credential string) (*Session, error) {
	if subtle.ConstantTimeCompare([]byte(credential), []byte(g.secret)) != 1 {
		metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		g.logger.Warn("admin login failed")
		return nil, apperrors.NewAuthorizationError(msgInvalidPassword)
	}

	if current != nil && current.ID != "" {
		if err := g.store.Delete(ctx, current.ID); err != nil {
			g.logger.Warn("discarding previous session failed", zap.Error(err))
		}
	}

	sess := &Session{
		ID:            uuid.New().String(),
		Authenticated: true,
		CreatedAt:     g.now().UTC(),
	}

	if err := g.store.Save(ctx, sess, g.ttl); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	g.logger.Info("admin logged in")

	return sess, nil
}

func (g *Gate) Logout(ctx context.Context, sess *Session) error {
	if sess == nil || sess.ID == "" {
		return nil
	}

	if err := g.store.Delete(ctx, sess.ID); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}

	g.logger.Info("admin logged out")
	return nil
}

func (g *Gate) Authorize(sess *Session) error {
	if sess == nil || !sess.Authenticated {
		return apperrors.NewAuthorizationError(msgAuthorizationRequired)
	}
	return nil
}

func (g *Gate) TTL() time.Duration {
	return g.ttl
}
