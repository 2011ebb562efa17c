package gate

import (
	"net/http"

	"github.com/wb-go/wbf/ginext"

	"eventsphere/internal/auth"
	"eventsphere/internal/dto"
)

const principalKey = "gate.principal"

// Authenticator resolves the caller from a request, refreshing the session
// cookies on the response when needed.
type Authenticator interface {
	Authenticate(w http.ResponseWriter, r *http.Request) (auth.Principal, bool)
}

// Middleware refreshes the session on every request and enforces the gate
// decision before any handler runs.
func Middleware(a Authenticator) ginext.HandlerFunc {
	return func(c *ginext.Context) {
		principal, authenticated := a.Authenticate(c.Writer, c.Request)
		if authenticated {
			c.Set(principalKey, principal)
		}

		switch d := Classify(c.Request.URL.Path, authenticated); d.Action {
		case RedirectLogin, RedirectHome:
			c.Redirect(http.StatusTemporaryRedirect, d.Target)
			c.Abort()
		case Unauthorized:
			dto.UnauthorizedError(c)
			c.Abort()
		default:
			c.Next()
		}
	}
}

// PrincipalFrom returns the caller stored by Middleware, if any.
func PrincipalFrom(c *ginext.Context) (auth.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return auth.Principal{}, false
	}
	p, ok := v.(auth.Principal)
	return p, ok
}
