package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"eventsphere/internal/model"
	"eventsphere/internal/repo"
	"eventsphere/internal/session"
)

type fakeRepo struct {
	repo.Repository

	users map[string]*model.User // by id
}

func (f *fakeRepo) GetUserByID(_ context.Context, id string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repo.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repo.ErrUserNotFound
}

func newTestService(t *testing.T, users map[string]*model.User) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	log := zerolog.Nop()
	return NewService(
		&fakeRepo{users: users},
		session.NewStore(rdb),
		Config{JWTSecret: "test-secret", Issuer: "eventsphere"},
		&log,
	)
}

func cookieValue(t *testing.T, w *httptest.ResponseRecorder, name string) string {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func requestWithCookies(w *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestIssueSessionSetsBothCookies(t *testing.T) {
	u := &model.User{ID: "u1", Email: "u1@example.com"}
	svc := newTestService(t, map[string]*model.User{"u1": u})

	w := httptest.NewRecorder()
	require.NoError(t, svc.IssueSession(context.Background(), w, u))

	assert.NotEmpty(t, cookieValue(t, w, AccessCookieName))
	assert.NotEmpty(t, cookieValue(t, w, RefreshCookieName))
}

func TestAuthenticateWithAccessToken(t *testing.T) {
	u := &model.User{ID: "u1", Email: "u1@example.com"}
	svc := newTestService(t, map[string]*model.User{"u1": u})

	issued := httptest.NewRecorder()
	require.NoError(t, svc.IssueSession(context.Background(), issued, u))

	w := httptest.NewRecorder()
	p, ok := svc.Authenticate(w, requestWithCookies(issued))
	require.True(t, ok)
	assert.Equal(t, "u1", p.UserID)
	assert.Equal(t, "u1@example.com", p.Email)
}

func TestAuthenticateRefreshesExpiredAccess(t *testing.T) {
	u := &model.User{ID: "u1", Email: "u1@example.com"}
	svc := newTestService(t, map[string]*model.User{"u1": u})

	issued := httptest.NewRecorder()
	require.NoError(t, svc.IssueSession(context.Background(), issued, u))
	oldRefresh := cookieValue(t, issued, RefreshCookieName)

	// simulate a dropped access cookie, forcing the refresh path
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: RefreshCookieName, Value: oldRefresh})

	w := httptest.NewRecorder()
	p, ok := svc.Authenticate(w, req)
	require.True(t, ok)
	assert.Equal(t, "u1", p.UserID)

	newAccess := cookieValue(t, w, AccessCookieName)
	newRefresh := cookieValue(t, w, RefreshCookieName)
	assert.NotEmpty(t, newAccess)
	assert.NotEmpty(t, newRefresh)
	assert.NotEqual(t, oldRefresh, newRefresh)

	// the rotated-out refresh token no longer works
	req2 := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req2.AddCookie(&http.Cookie{Name: RefreshCookieName, Value: oldRefresh})
	_, ok = svc.Authenticate(httptest.NewRecorder(), req2)
	assert.False(t, ok)
}

func TestAuthenticateWithoutCookies(t *testing.T) {
	svc := newTestService(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	_, ok := svc.Authenticate(httptest.NewRecorder(), req)
	assert.False(t, ok)
}

func TestLoginChecksPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)

	u := &model.User{ID: "u1", Email: "u1@example.com", PasswordHash: string(hash)}
	svc := newTestService(t, map[string]*model.User{"u1": u})

	got, err := svc.Login(context.Background(), "u1@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)

	_, err = svc.Login(context.Background(), "u1@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	u := &model.User{ID: "u1", Email: "u1@example.com"}
	svc := newTestService(t, map[string]*model.User{"u1": u})

	issued := httptest.NewRecorder()
	require.NoError(t, svc.IssueSession(context.Background(), issued, u))
	refresh := cookieValue(t, issued, RefreshCookieName)

	logoutReq := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	logoutReq.AddCookie(&http.Cookie{Name: RefreshCookieName, Value: refresh})
	svc.Logout(context.Background(), httptest.NewRecorder(), logoutReq)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: RefreshCookieName, Value: refresh})
	_, ok := svc.Authenticate(httptest.NewRecorder(), req)
	assert.False(t, ok)
}
