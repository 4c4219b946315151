package auth

import (
	"net/http"

	"github.com/oako/backoffice/internal/nav"
	"github.com/oako/backoffice/internal/shared"
)

// SessionGuard gates page navigation on a logged-in session.
type SessionGuard struct{}

// NewSessionGuard constructs a SessionGuard.
func NewSessionGuard() *SessionGuard {
	return &SessionGuard{}
}

// CanActivate reports whether the request carries an authenticated session.
func (g *SessionGuard) CanActivate(r *http.Request, path string) bool {
	return g.CurrentUser(r) != ""
}

// CurrentUser returns the session's user ID, empty when anonymous.
func (g *SessionGuard) CurrentUser(r *http.Request) string {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		return ""
	}
	return sess.User()
}

var _ nav.Guard = (*SessionGuard)(nil)
