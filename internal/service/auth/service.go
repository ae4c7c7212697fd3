package auth

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"zizi-storefront/internal/domain"
	"zizi-storefront/internal/repository/kv"
)

// StorageKey is the local storage key holding the session.
const StorageKey = "zizi_user"

const (
	defaultDelay = 800 * time.Millisecond
	passwordMin  = 6
	guestName    = "Guest"

	persistTimeout = 5 * time.Second
)

// ErrInvalidCredentials is returned when the email/password pair is rejected.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service is a stand-in for a real identity provider. It accepts any
// email-looking address with a long enough password and keeps the session
// in local storage. It never touches the cart.
type Service struct {
	mu      sync.Mutex
	session *domain.UserSession
	storage kv.Local
	delay   time.Duration
	logger  *zap.Logger

	subs    map[int]func(*domain.UserSession)
	nextSub int
}

// New restores any stored session. A stored session that cannot be decoded
// is removed. A negative delay selects the default.
func New(ctx context.Context, storage kv.Local, delay time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if delay < 0 {
		delay = defaultDelay
	}
	s := &Service{
		storage: storage,
		delay:   delay,
		logger:  logger,
		subs:    make(map[int]func(*domain.UserSession)),
	}
	s.session = s.restore(ctx)
	return s
}

func (s *Service) restore(ctx context.Context) *domain.UserSession {
	if s.storage == nil {
		return nil
	}
	raw, err := s.storage.Get(ctx, StorageKey)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("auth: failed to read stored session", zap.Error(err))
		}
		return nil
	}
	var session domain.UserSession
	if err := json.Unmarshal([]byte(raw), &session); err != nil || !validSession(session) {
		s.logger.Warn("auth: removing unreadable stored session", zap.Error(err))
		if err := s.storage.Remove(ctx, StorageKey); err != nil {
			s.logger.Error("auth: failed to remove stored session", zap.Error(err))
		}
		return nil
	}
	return &session
}

func validSession(u domain.UserSession) bool {
	if u.ID == "" {
		return false
	}
	return u.IsGuest || u.Email != ""
}

// Login signs in after the configured delay. The context cancels the wait.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.UserSession, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	if !strings.Contains(email, "@") || len(password) < passwordMin {
		s.logger.Info("auth: login rejected")
		return nil, ErrInvalidCredentials
	}
	session := &domain.UserSession{
		ID:    "user_" + ulid.Make().String(),
		Email: email,
		Name:  strings.SplitN(email, "@", 2)[0],
	}
	s.set(ctx, session)
	s.logger.Info("auth: signed in", zap.String("user_id", session.ID))
	return clone(session), nil
}

// Signup follows the same rules as Login.
func (s *Service) Signup(ctx context.Context, email, password string) (*domain.UserSession, error) {
	return s.Login(ctx, email, password)
}

// GuestLogin starts a guest session. Guests are not authenticated.
func (s *Service) GuestLogin(ctx context.Context) (*domain.UserSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	session := &domain.UserSession{
		ID:      "guest_" + ulid.Make().String(),
		Name:    guestName,
		IsGuest: true,
	}
	s.set(ctx, session)
	s.logger.Info("auth: guest session started", zap.String("user_id", session.ID))
	return clone(session), nil
}

// Logout ends the session.
func (s *Service) Logout(ctx context.Context) {
	s.set(ctx, nil)
	s.logger.Info("auth: signed out")
}

// Current returns a copy of the session, or nil when signed out.
func (s *Service) Current() *domain.UserSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.session)
}

// IsAuthenticated reports a non-guest session.
func (s *Service) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session != nil && !s.session.IsGuest
}

// Subscribe registers fn to receive the session after every change.
func (s *Service) Subscribe(fn func(*domain.UserSession)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Service) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *Service) set(ctx context.Context, session *domain.UserSession) {
	s.mu.Lock()
	s.session = session
	s.persist(ctx, session)
	subs := make([]func(*domain.UserSession), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(clone(session))
	}
}

// persist outlives a cancelled request so storage matches the live session.
func (s *Service) persist(ctx context.Context, session *domain.UserSession) {
	if s.storage == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()
	if session == nil {
		if err := s.storage.Remove(ctx, StorageKey); err != nil {
			s.logger.Error("auth: failed to remove session", zap.Error(err))
		}
		return
	}
	data, err := json.Marshal(session)
	if err != nil {
		s.logger.Error("auth: failed to encode session", zap.Error(err))
		return
	}
	if err := s.storage.Set(ctx, StorageKey, string(data)); err != nil {
		s.logger.Error("auth: failed to persist session", zap.Error(err))
	}
}

func clone(u *domain.UserSession) *domain.UserSession {
	if u == nil {
		return nil
	}
	out := *u
	return &out
}
