// Package gate classifies incoming requests against the protected path
// sets and decides whether they pass, redirect, or get rejected. The
// decision is a pure function of (path, authenticated) so it can be tested
// without a running server.
package gate

import "strings"

const (
	LoginPath  = "/login"
	SignupPath = "/signup"
	HomePath   = "/dashboard"

	adminAPIPrefix = "/admin"
)

// protectedPagePrefixes are the page routes that require a session.
var protectedPagePrefixes = []string{"/dashboard", "/bookings", "/student"}

type Action int

const (
	Pass Action = iota
	RedirectLogin
	RedirectHome
	Unauthorized
)

type Decision struct {
	Action Action
	// Target is the redirect location for RedirectLogin and RedirectHome.
	Target string
}

// Classify applies the gate rules in fixed order and short-circuits on the
// first that matches.
func Classify(path string, authenticated bool) Decision {
	if !authenticated {
		for _, prefix := range protectedPagePrefixes {
			if hasPathPrefix(path, prefix) {
				return Decision{
					Action: RedirectLogin,
					Target: LoginPath + "?redirectTo=" + path,
				}
			}
		}
		if hasPathPrefix(path, adminAPIPrefix) {
			return Decision{Action: Unauthorized}
		}
	}

	if authenticated && (path == LoginPath || path == SignupPath) {
		return Decision{Action: RedirectHome, Target: HomePath}
	}

	return Decision{Action: Pass}
}

// hasPathPrefix matches whole path segments: "/dashboard" covers
// "/dashboard" and "/dashboard/events" but not "/dashboards".
func hasPathPrefix(path, prefix string) bool {
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+"/")
}
