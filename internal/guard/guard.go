package guard

import "github.com/PhumPatananiti/schooldesk/internal/model"

// Well-known entry points.
const (
	LoginPath          = "/login"
	ChangePasswordPath = "/change-password"
)

// Route is what the guard knows about a requested view: the path and
// the role it requires, if any.
type Route struct {
	Path         string
	RequiredRole model.Role
}

type Decision int

const (
	Allow Decision = iota
	RedirectLogin
	RedirectChangePassword
)

// RedirectPath is where a denied navigation lands.
func (d Decision) RedirectPath() string {
	switch d {
	case RedirectChangePassword:
		return ChangePasswordPath
	case RedirectLogin:
		return LoginPath
	default:
		return ""
	}
}

// Decide is the whole authorization check. It is deterministic and
// side-effect free; eviction and persistence live in the session
// manager. A role mismatch is treated exactly like being
// unauthenticated so paths don't leak which roles they serve.
func Decide(sess *model.Session, route Route) Decision {
	if sess == nil {
		return RedirectLogin
	}
	if sess.Identity.IsFirstLogin && route.Path != ChangePasswordPath {
		return RedirectChangePassword
	}
	if route.RequiredRole != "" && sess.Identity.Role != route.RequiredRole {
		return RedirectLogin
	}
	return Allow
}
