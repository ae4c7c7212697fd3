package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zizi-storefront/internal/domain"
	"zizi-storefront/internal/repository/kv"
)

func newService(t *testing.T) (*Service, kv.Local) {
	t.Helper()
	storage := kv.Scope(kv.NewMemory(), "visitor")
	return New(context.Background(), storage, 0, nil), storage
}

func TestLogin_Validation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	cases := []struct{ email, password string }{
		{"ada.example.com", "secret1"},
		{"ada@example.com", "short"},
		{"", ""},
	}
	for _, tc := range cases {
		if _, err := svc.Login(ctx, tc.email, tc.password); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("Login(%q, %q): expected ErrInvalidCredentials, got %v", tc.email, tc.password, err)
		}
	}
	assert.Nil(t, svc.Current())

	u, err := svc.Login(ctx, "ada@example.com", "secret")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u.ID, "user_"))
	assert.Equal(t, "ada", u.Name)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.False(t, u.IsGuest)
	assert.True(t, svc.IsAuthenticated())
}

func TestSignupMatchesLogin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	_, err := svc.Signup(ctx, "nope", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	u, err := svc.Signup(ctx, "bea@example.com", "longenough")
	require.NoError(t, err)
	assert.Equal(t, "bea", u.Name)
}

func TestGuestLogin(t *testing.T) {
	svc, _ := newService(t)
	u, err := svc.GuestLogin(context.Background())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u.ID, "guest_"))
	assert.Equal(t, "Guest", u.Name)
	assert.True(t, u.IsGuest)
	assert.False(t, svc.IsAuthenticated())
	assert.NotNil(t, svc.Current())
}

func TestSessionPersistsAcrossReload(t *testing.T) {
	ctx := context.Background()
	svc, storage := newService(t)
	u, err := svc.Login(ctx, "ada@example.com", "secret")
	require.NoError(t, err)

	reloaded := New(ctx, storage, 0, nil)
	assert.Equal(t, u, reloaded.Current())

	reloaded.Logout(ctx)
	_, err = storage.Get(ctx, StorageKey)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, New(ctx, storage, 0, nil).Current())
}

func TestLogoutKeepsCart(t *testing.T) {
	ctx := context.Background()
	svc, storage := newService(t)
	require.NoError(t, storage.Set(ctx, "zizi_cart", `[{"id":"1","name":"Éloise","price":575,"quantity":1}]`))
	_, err := svc.Login(ctx, "ada@example.com", "secret")
	require.NoError(t, err)

	svc.Logout(ctx)
	raw, err := storage.Get(ctx, "zizi_cart")
	require.NoError(t, err)
	assert.Contains(t, raw, "Éloise")
}

// cancelAwareStorage fails under a done context, like the SQL backends.
type cancelAwareStorage struct {
	kv.Local
}

func (c cancelAwareStorage) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.Local.Set(ctx, key, value)
}

func (c cancelAwareStorage) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.Local.Remove(ctx, key)
}

func TestLogoutPersistsAfterRequestCancelled(t *testing.T) {
	storage := cancelAwareStorage{Local: kv.Scope(kv.NewMemory(), "visitor")}
	svc := New(context.Background(), storage, 0, nil)
	_, err := svc.Login(context.Background(), "ada@example.com", "secret")
	require.NoError(t, err)
	_, err = storage.Get(context.Background(), StorageKey)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc.Logout(ctx)

	_, err = storage.Get(context.Background(), StorageKey)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, New(context.Background(), storage, 0, nil).Current())
}

func TestCorruptSessionRemoved(t *testing.T) {
	ctx := context.Background()
	for _, payload := range []string{"{oops", `{"id":"","isGuest":false}`, `{"id":"user_1"}`} {
		storage := kv.Scope(kv.NewMemory(), "visitor")
		require.NoError(t, storage.Set(ctx, StorageKey, payload))
		svc := New(ctx, storage, 0, nil)
		assert.Nil(t, svc.Current(), "payload %q", payload)
		_, err := storage.Get(ctx, StorageKey)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	}
}

func TestLogin_DelayHonoursContext(t *testing.T) {
	svc := New(context.Background(), nil, time.Hour, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := svc.Login(ctx, "ada@example.com", "secret")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Nil(t, svc.Current())
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	var seen []*domain.UserSession
	stop := svc.Subscribe(func(u *domain.UserSession) { seen = append(seen, u) })
	_, _ = svc.GuestLogin(ctx)
	svc.Logout(ctx)
	stop()
	_, _ = svc.GuestLogin(ctx)

	require.Len(t, seen, 2)
	assert.True(t, seen[0].IsGuest)
	assert.Nil(t, seen[1])
}
