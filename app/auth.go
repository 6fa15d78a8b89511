package app

import (
	"context"
	"errors"
	"time"

	"github.com/artpar/showroom/domain/auth"
	"github.com/artpar/showroom/ports"
	"github.com/rs/zerolog"
)

// SessionTTL is how long a back-office login stays valid.
const SessionTTL = 24 * time.Hour

// Errors returned by the auth service. Handlers map these to HTTP status
// codes without string matching.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateUser      = errors.New("username or email already taken")
	ErrSelfDelete         = errors.New("cannot delete your own account")
)

// AuthService manages back-office users and their login sessions.
type AuthService struct {
	users    ports.UserStore
	sessions ports.SessionStore
	hasher   ports.Hasher
	idGen    ports.IDGenerator
	clock    ports.Clock
	logger   zerolog.Logger
}

// NewAuthService creates the auth service.
func NewAuthService(
	users ports.UserStore,
	sessions ports.SessionStore,
	hasher ports.Hasher,
	idGen ports.IDGenerator,
	clock ports.Clock,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		idGen:    idGen,
		clock:    clock,
		logger:   logger,
	}
}

// Login verifies the credentials and opens a server-side session. The hash
// comparison runs even for unknown usernames so a missing account is not
// distinguishable by timing.
func (s *AuthService) Login(ctx context.Context, username, password, ip, userAgent string) (auth.Session, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			s.hasher.Compare(dummyHash, password)
			return auth.Session{}, ErrInvalidCredentials
		}
		return auth.Session{}, err
	}
	if !s.hasher.Compare(user.PasswordHash, password) {
		return auth.Session{}, ErrInvalidCredentials
	}

	now := s.clock.Now()
	sess := auth.Session{
		ID:        s.idGen.New(),
		UserID:    user.ID,
		IPAddress: ip,
		UserAgent: userAgent,
		ExpiresAt: now.Add(SessionTTL),
		CreatedAt: now,
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return auth.Session{}, err
	}

	s.logger.Info().
		Str("username", username).
		Int64("user_id", user.ID).
		Msg("user logged in")
	return sess, nil
}

// Logout removes the session. A missing session is not an error.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	err := s.sessions.Delete(ctx, sessionID)
	if errors.Is(err, ports.ErrNotFound) {
		return nil
	}
	return err
}

// Authenticate resolves a session cookie value to its user. Expired
// sessions are deleted on sight.
func (s *AuthService) Authenticate(ctx context.Context, sessionID string) (auth.User, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return auth.User{}, err
	}
	if sess.Expired(s.clock.Now()) {
		_ = s.sessions.Delete(ctx, sess.ID)
		return auth.User{}, ports.ErrNotFound
	}
	return s.users.Get(ctx, sess.UserID)
}

// CreateUser adds a back-office account, rejecting duplicate usernames and
// emails.
func (s *AuthService) CreateUser(ctx context.Context, username, email, password, role string) (auth.User, error) {
	if username == "" || email == "" || password == "" {
		return auth.User{}, errors.New("username, email and password are required")
	}
	if !auth.ValidRole(role) {
		return auth.User{}, errors.New("unknown role")
	}

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return auth.User{}, ErrDuplicateUser
	} else if !errors.Is(err, ports.ErrNotFound) {
		return auth.User{}, err
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return auth.User{}, ErrDuplicateUser
	} else if !errors.Is(err, ports.ErrNotFound) {
		return auth.User{}, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return auth.User{}, err
	}
	u := auth.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    s.clock.Now(),
	}
	id, err := s.users.Create(ctx, u)
	if err != nil {
		return auth.User{}, err
	}
	u.ID = id

	s.logger.Info().
		Str("username", username).
		Str("role", role).
		Msg("user created")
	return u, nil
}

// DeleteUser removes a back-office account. Users cannot delete themselves.
func (s *AuthService) DeleteUser(ctx context.Context, actorID, targetID int64) error {
	if actorID == targetID {
		return ErrSelfDelete
	}
	return s.users.Delete(ctx, targetID)
}

// ListUsers returns all back-office accounts.
func (s *AuthService) ListUsers(ctx context.Context) ([]auth.User, error) {
	return s.users.List(ctx)
}

// PurgeExpiredSessions removes login sessions past their deadline.
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return s.sessions.DeleteExpired(ctx, s.clock.Now())
}

// dummyHash keeps the failed-login path doing a real bcrypt comparison.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")
