package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"eventsphere/internal/model"
	"eventsphere/internal/repo"
	"eventsphere/internal/session"
)

var ErrInvalidCredentials = errors.New("invalid login credentials")

// Principal is the authenticated caller resolved from the session cookies.
type Principal struct {
	UserID string
	Email  string
}

type Config struct {
	JWTSecret     string
	Issuer        string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	SecureCookies bool
}

// Service owns credential checks and the access/refresh token pair. It plays
// the role of the hosted identity provider the application consumes: handlers
// only ever see "current user" and "refresh" operations.
type Service struct {
	repo     repo.Repository
	sessions *session.Store
	signer   *Signer
	cfg      Config
	log      *zerolog.Logger
}

func NewService(r repo.Repository, sessions *session.Store, cfg Config, log *zerolog.Logger) *Service {
	if cfg.AccessTTL == 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	if cfg.RefreshTTL == 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	return &Service{
		repo:     r,
		sessions: sessions,
		signer:   NewSigner(cfg.JWTSecret, cfg.Issuer),
		cfg:      cfg,
		log:      log,
	}
}

func (s *Service) Signup(ctx context.Context, email, password, fullName string) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &model.User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     fullName,
	}
	if _, err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*model.User, error) {
	u, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// IssueSession mints the token pair for a user and attaches it to the response.
func (s *Service) IssueSession(ctx context.Context, w http.ResponseWriter, u *model.User) error {
	refresh, err := s.sessions.Create(ctx, u.ID, s.cfg.RefreshTTL)
	if err != nil {
		return err
	}
	access, err := s.signer.Sign(u.ID, u.Email, s.cfg.AccessTTL)
	if err != nil {
		return err
	}

	setCookie(w, AccessCookieName, access, s.cfg.AccessTTL, s.cfg.SecureCookies)
	setCookie(w, RefreshCookieName, refresh, s.cfg.RefreshTTL, s.cfg.SecureCookies)
	return nil
}

// Authenticate resolves the caller from the request cookies, refreshing the
// session when the access token is gone but the refresh token still holds.
// Rotated tokens are written back onto the response.
func (s *Service) Authenticate(w http.ResponseWriter, r *http.Request) (Principal, bool) {
	if access := readCookie(r, AccessCookieName); access != "" {
		if p, err := s.signer.Verify(access); err == nil {
			return p, true
		}
	}

	refresh := readCookie(r, RefreshCookieName)
	if refresh == "" {
		return Principal{}, false
	}

	ctx := r.Context()
	newRefresh, userID, err := s.sessions.Rotate(ctx, refresh, s.cfg.RefreshTTL)
	if err != nil {
		return Principal{}, false
	}

	u, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("refresh token for unknown user")
		_ = s.sessions.Revoke(ctx, newRefresh)
		return Principal{}, false
	}

	access, err := s.signer.Sign(u.ID, u.Email, s.cfg.AccessTTL)
	if err != nil {
		return Principal{}, false
	}

	setCookie(w, AccessCookieName, access, s.cfg.AccessTTL, s.cfg.SecureCookies)
	setCookie(w, RefreshCookieName, newRefresh, s.cfg.RefreshTTL, s.cfg.SecureCookies)
	return Principal{UserID: u.ID, Email: u.Email}, true
}

// Logout revokes the refresh token and drops both cookies.
func (s *Service) Logout(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if refresh := readCookie(r, RefreshCookieName); refresh != "" {
		if err := s.sessions.Revoke(ctx, refresh); err != nil {
			s.log.Warn().Err(err).Msg("failed to revoke refresh token")
		}
	}
	clearCookie(w, AccessCookieName, s.cfg.SecureCookies)
	clearCookie(w, RefreshCookieName, s.cfg.SecureCookies)
}
