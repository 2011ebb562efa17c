package service

import (
	"net/http"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/ginext"

	"eventsphere/internal/auth"
	"eventsphere/internal/dto"
	"eventsphere/internal/gate"
	"eventsphere/internal/session"
)

func newAuthRouter(t *testing.T, f *fakeRepo) (*ginext.Engine, *auth.Service) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	log := zerolog.Nop()
	authSvc := auth.NewService(
		f,
		session.NewStore(rdb),
		auth.Config{JWTSecret: "test-secret", Issuer: "eventsphere"},
		&log,
	)
	svc := NewService(f, &log, nil, authSvc, nil)

	app := ginext.New("release")
	app.Use(gate.Middleware(authSvc))
	app.POST("/auth/signup", svc.Signup)
	app.POST("/auth/login", svc.Login)
	app.POST("/auth/logout", svc.Logout)
	app.GET("/auth/me", svc.Me)
	app.GET("/user/profile", svc.GetProfile)
	app.PUT("/user/profile", svc.UpdateProfile)
	return app, authSvc
}

func TestSignupLoginRoundTrip(t *testing.T) {
	app, _ := newAuthRouter(t, newFakeRepo())

	w := doJSON(t, app, http.MethodPost, "/auth/signup", map[string]any{
		"email":     "new@example.com",
		"password":  "secret-pass",
		"full_name": "New Student",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotEmpty(t, w.Result().Cookies())

	w = doJSON(t, app, http.MethodPost, "/auth/login", map[string]any{
		"email":    "new@example.com",
		"password": "secret-pass",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeResponse(t, w).Success)
}

func TestSignupDuplicateEmail(t *testing.T) {
	f := newFakeRepo()
	app, _ := newAuthRouter(t, f)

	payload := map[string]any{
		"email":    "dup@example.com",
		"password": "secret-pass",
	}
	w := doJSON(t, app, http.MethodPost, "/auth/signup", payload)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, app, http.MethodPost, "/auth/signup", payload)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email already registered", decodeResponse(t, w).Message)
}

func TestLoginWrongPassword(t *testing.T) {
	f := newFakeRepo()
	app, _ := newAuthRouter(t, f)

	w := doJSON(t, app, http.MethodPost, "/auth/signup", map[string]any{
		"email":    "u@example.com",
		"password": "right-pass",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, app, http.MethodPost, "/auth/login", map[string]any{
		"email":    "u@example.com",
		"password": "wrong-pass",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid login credentials", decodeResponse(t, w).Message)
}

func TestLoginUnknownUser(t *testing.T) {
	app, _ := newAuthRouter(t, newFakeRepo())

	w := doJSON(t, app, http.MethodPost, "/auth/login", map[string]any{
		"email":    "ghost@example.com",
		"password": "whatever",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid login credentials", decodeResponse(t, w).Message)
}

func TestMeWithoutSession(t *testing.T) {
	app, _ := newAuthRouter(t, newFakeRepo())

	w := doJSON(t, app, http.MethodGet, "/auth/me", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.MsgUnauthorized, decodeResponse(t, w).Message)
}

func TestLogoutAlwaysSucceeds(t *testing.T) {
	app, _ := newAuthRouter(t, newFakeRepo())

	w := doJSON(t, app, http.MethodPost, "/auth/logout", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Logged out successfully", decodeResponse(t, w).Message)
}

func TestProfileRequiresSession(t *testing.T) {
	app, _ := newAuthRouter(t, newFakeRepo())

	w := doJSON(t, app, http.MethodGet, "/user/profile", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, app, http.MethodPut, "/user/profile", map[string]any{
		"full_name": "Someone",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
