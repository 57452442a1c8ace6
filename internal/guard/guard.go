// Package guard decides, per navigation, whether a screen may render for the
// current session. The decision is a pure function of its inputs: callers
// re-evaluate on every navigation and on every session change, and never cache
// an earlier verdict.
package guard

import (
	"github.com/mentra-app/mentra-cli/internal/session"
)

// Route identifies a navigable screen.
type Route int

const (
	RouteLanding Route = iota
	RouteLogin
	RouteRegister
	RouteForgotPassword
	RouteResetPassword
	RouteGoogleCallback
	RouteHome // the feed
	RouteDashboard
	RouteStudents
	RouteStudentDetail
	RouteCalendar
	RoutePayments
	RouteReports
	RouteProfile
	RouteMessages
	RouteChangePassword
	RouteAdminNews
	RoutePublicProfile
	RoutePostDetail
	RouteNewsDetail
)

// Decision is the guard's verdict for one navigation.
type Decision int

const (
	// Wait: session restore has not resolved; render a neutral loading
	// state and re-evaluate when it does.
	Wait Decision = iota
	// Render: the requested screen may render.
	Render
	// RedirectLogin: anonymous user on an authenticated-only screen.
	RedirectLogin
	// RedirectHome: the screen is not for this session (auth screens while
	// logged in, admin screens without the role).
	RedirectHome
)

// routeClass partitions routes by access policy.
type routeClass int

const (
	classPublic    routeClass = iota // reachable by anyone, any session
	classAnonOnly                    // marketing and auth screens
	classAuthed                      // requires a session
	classAdmin                       // requires the admin role
)

func classify(route Route) routeClass {
	switch route {
	case RouteLanding, RouteLogin, RouteRegister, RouteForgotPassword,
		RouteResetPassword, RouteGoogleCallback:
		return classAnonOnly
	case RoutePublicProfile, RoutePostDetail, RouteNewsDetail:
		return classPublic
	case RouteAdminNews:
		return classAdmin
	default:
		return classAuthed
	}
}

// Decide maps a session snapshot and a requested route to a verdict.
func Decide(snap session.Snapshot, route Route) Decision {
	class := classify(route)

	// Public screens never depend on session state, so they need not wait
	// for restore.
	if class == classPublic {
		return Render
	}

	if snap.Phase == session.PhaseUnknown || snap.Phase == session.PhaseRestoring {
		return Wait
	}

	authed := snap.Authenticated()
	switch class {
	case classAnonOnly:
		if authed {
			return RedirectHome
		}
		return Render
	case classAdmin:
		if !authed {
			return RedirectHome
		}
		if snap.Identity.IsAdmin() {
			return Render
		}
		return RedirectHome
	default: // classAuthed
		if authed {
			return Render
		}
		return RedirectLogin
	}
}
