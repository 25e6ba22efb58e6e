// Package guard decides, per navigation, which view may mount for a given
// session state. It is a pure decision table so the routing contract can be
// tested without a server.
package guard

import (
	"strings"

	"github.com/church-member-library/admin-gateway/internal/core/domain"
)

// Well-known navigation paths.
const (
	PathLogin          = "/login"
	PathDashboard      = "/dashboard"
	PathForgotPassword = "/forgot-password"
	PathResetPassword  = "/reset-password"
)

// protectedPrefixes are the admin-only page trees.
var protectedPrefixes = []string{"/dashboard", "/members", "/documents"}

// Decision is the outcome of resolving one navigation.
type Decision struct {
	// Allow means the requested view may mount.
	Allow bool
	// Loading means the session has not resolved yet; render the neutral
	// placeholder and no real view.
	Loading bool
	// Redirect, when non-empty, is the path the navigation is sent to.
	Redirect string
}

// Resolve maps (session state, identity, path) to a navigation decision.
// A nil member is treated as "not admin", never an error.
func Resolve(state domain.SessionState, member *domain.Member, path string) Decision {
	if state == domain.StateUnknown {
		return Decision{Loading: true}
	}

	// Password recovery is reachable regardless of session state.
	if path == PathForgotPassword || path == PathResetPassword {
		return Decision{Allow: true}
	}

	admin := state == domain.StateAuthenticated && member.IsAdmin()

	if path == PathLogin {
		if admin {
			return Decision{Redirect: PathDashboard}
		}
		return Decision{Allow: true}
	}

	if isProtected(path) {
		if admin {
			return Decision{Allow: true}
		}
		return Decision{Redirect: PathLogin}
	}

	// Unmatched path: send admins home, everyone else to login.
	if admin {
		return Decision{Redirect: PathDashboard}
	}
	return Decision{Redirect: PathLogin}
}

func isProtected(path string) bool {
	for _, prefix := range protectedPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}
