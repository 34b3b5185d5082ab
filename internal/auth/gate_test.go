package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "barbershop/internal/errors"
)

type mockSessionStore struct {
	GetFunc    func(ctx context.Context, id string) (*Session, error)
	SaveFunc   func(ctx context.Context, sess *Session, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, id string) error
}

func (m *mockSessionStore) Get(ctx context.Context, id string) (*Session, error) {
	return m.GetFunc(ctx, id)
}

func (m *mockSessionStore) Save(ctx context.Context, sess *Session, ttl time.Duration) error {
	return m.SaveFunc(ctx, sess, ttl)
}

func (m *mockSessionStore) Delete(ctx context.Context, id string) error {
	return m.DeleteFunc(ctx, id)
}

func newTestGate(store SessionStore) *Gate {
	return NewGate(store, "BARBERSTATUSADM", time.Hour, zap.NewNop())
}

func TestGate_AuthorizeAnonymous(t *testing.T) {
	gate := newTestGate(NewMemoryStore())

	for _, sess := range []*Session{nil, Anonymous(), {ID: "abc"}} {
		err := gate.Authorize(sess)

		ae, ok := apperrors.IsAuthorizationError(err)
		require.True(t, ok)
		assert.Equal(t, "authorization required", ae.Message)
	}
}

func TestGate_LoginWithCorrectPassword(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	gate := newTestGate(store)

	sess, err := gate.Login(ctx, Anonymous(), "BARBERSTATUSADM")
	require.NoError(t, err)

	assert.True(t, sess.Authenticated)
	assert.NotEmpty(t, sess.ID)
	assert.NoError(t, gate.Authorize(sess))

	resolved := gate.Resolve(ctx, sess.ID)
	assert.True(t, resolved.Authenticated)
	assert.Equal(t, sess.ID, resolved.ID)
}

func TestGate_LoginWithWrongPasswordStaysAnonymous(t *testing.T) {
	ctx := context.Background()
	saved := false
	store := &mockSessionStore{
		SaveFunc: func(ctx context.Context, sess *Session, ttl time.Duration) error {
			saved = true
			return nil
		},
	}
	gate := newTestGate(store)

	for _, credential := range []string{"", "barberstatusadm", "BARBERSTATUSADM "} {
		sess, err := gate.Login(ctx, Anonymous(), credential)

		assert.Nil(t, sess)
		_, ok := apperrors.IsAuthorizationError(err)
		assert.True(t, ok, "credential %q", credential)
	}
	assert.False(t, saved)
}

func TestGate_LoginRotatesSessionID(t *testing.T) {
	ctx := context.Background()
	var deleted []string
	store := &mockSessionStore{
		SaveFunc: func(ctx context.Context, sess *Session, ttl time.Duration) error {
			assert.Equal(t, time.Hour, ttl)
			return nil
		},
		DeleteFunc: func(ctx context.Context, id string) error {
			deleted = append(deleted, id)
			return nil
		},
	}
	gate := newTestGate(store)

	sess, err := gate.Login(ctx, &Session{ID: "old"}, "BARBERSTATUSADM")
	require.NoError(t, err)

	assert.NotEqual(t, "old", sess.ID)
	assert.Equal(t, []string{"old"}, deleted)
}

func TestGate_LoginSaveFailure(t *testing.T) {
	store := &mockSessionStore{
		SaveFunc: func(ctx context.Context, sess *Session, ttl time.Duration) error {
			return errors.New("redis down")
		},
	}
	gate := newTestGate(store)

	_, err := gate.Login(context.Background(), Anonymous(), "BARBERSTATUSADM")
	assert.Error(t, err)
}

func TestGate_Logout(t *testing.T) {
	ctx := context.Background()
	gate := newTestGate(NewMemoryStore())

	sess, err := gate.Login(ctx, nil, "BARBERSTATUSADM")
	require.NoError(t, err)

	require.NoError(t, gate.Logout(ctx, sess))

	resolved := gate.Resolve(ctx, sess.ID)
	assert.False(t, resolved.Authenticated)
	assert.Error(t, gate.Authorize(resolved))

	assert.NoError(t, gate.Logout(ctx, Anonymous()))
}

func TestGate_ResolveStoreError(t *testing.T) {
	store := &mockSessionStore{
		GetFunc: func(ctx context.Context, id string) (*Session, error) {
			return nil, errors.New("connection refused")
		},
	}
	gate := newTestGate(store)

	sess := gate.Resolve(context.Background(), "abc")
	assert.False(t, sess.Authenticated)
}
