package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name          string
		path          string
		authenticated bool
		want          Decision
	}{
		{
			name: "anonymous public event list passes",
			path: "/events",
			want: Decision{Action: Pass},
		},
		{
			name: "anonymous landing page passes",
			path: "/",
			want: Decision{Action: Pass},
		},
		{
			name: "anonymous dashboard redirects to login",
			path: "/dashboard",
			want: Decision{Action: RedirectLogin, Target: "/login?redirectTo=/dashboard"},
		},
		{
			name: "anonymous nested booking page redirects with full path",
			path: "/bookings/42",
			want: Decision{Action: RedirectLogin, Target: "/login?redirectTo=/bookings/42"},
		},
		{
			name: "anonymous student page redirects",
			path: "/student",
			want: Decision{Action: RedirectLogin, Target: "/login?redirectTo=/student"},
		},
		{
			name: "anonymous admin API rejected with 401",
			path: "/admin/events",
			want: Decision{Action: Unauthorized},
		},
		{
			name: "anonymous admin root rejected",
			path: "/admin",
			want: Decision{Action: Unauthorized},
		},
		{
			name: "prefix does not bleed into sibling paths",
			path: "/dashboards",
			want: Decision{Action: Pass},
		},
		{
			name: "administrator path is not the admin prefix",
			path: "/administrator",
			want: Decision{Action: Pass},
		},
		{
			name:          "authenticated login page bounces home",
			path:          "/login",
			authenticated: true,
			want:          Decision{Action: RedirectHome, Target: "/dashboard"},
		},
		{
			name:          "authenticated signup page bounces home",
			path:          "/signup",
			authenticated: true,
			want:          Decision{Action: RedirectHome, Target: "/dashboard"},
		},
		{
			name:          "login subpath is not the login page",
			path:          "/login/help",
			authenticated: true,
			want:          Decision{Action: Pass},
		},
		{
			name:          "authenticated dashboard passes",
			path:          "/dashboard",
			authenticated: true,
			want:          Decision{Action: Pass},
		},
		{
			name:          "authenticated admin API passes",
			path:          "/admin/registrations",
			authenticated: true,
			want:          Decision{Action: Pass},
		},
		{
			name: "anonymous login page passes",
			path: "/login",
			want: Decision{Action: Pass},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.path, tt.authenticated)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHasPathPrefix(t *testing.T) {
	assert.True(t, hasPathPrefix("/dashboard", "/dashboard"))
	assert.True(t, hasPathPrefix("/dashboard/events/1", "/dashboard"))
	assert.False(t, hasPathPrefix("/dashboards", "/dashboard"))
	assert.False(t, hasPathPrefix("/", "/dashboard"))
}
