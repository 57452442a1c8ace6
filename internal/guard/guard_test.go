package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mentra-app/mentra-cli/internal/model"
	"github.com/mentra-app/mentra-cli/internal/session"
)

func snap(phase session.Phase, role string) session.Snapshot {
	s := session.Snapshot{Phase: phase}
	if phase == session.PhaseAuthenticated {
		s.Identity = &model.Identity{ID: "u1", Username: "ali", Role: role}
	}
	return s
}

var (
	unknown   = snap(session.PhaseUnknown, "")
	restoring = snap(session.PhaseRestoring, "")
	anonymous = snap(session.PhaseAnonymous, "")
	teacher   = snap(session.PhaseAuthenticated, model.RoleTeacher)
	admin     = snap(session.PhaseAuthenticated, model.RoleAdmin)
)

func TestDecide_PolicyTable(t *testing.T) {
	authScreens := []Route{
		RouteLanding, RouteLogin, RouteRegister,
		RouteForgotPassword, RouteResetPassword, RouteGoogleCallback,
	}
	authedScreens := []Route{
		RouteHome, RouteDashboard, RouteStudents, RouteStudentDetail,
		RouteCalendar, RoutePayments, RouteReports, RouteProfile,
		RouteMessages, RouteChangePassword,
	}
	publicScreens := []Route{RoutePublicProfile, RoutePostDetail, RouteNewsDetail}

	for _, route := range authScreens {
		assert.Equal(t, Render, Decide(anonymous, route), "anon on auth screen %d", route)
		assert.Equal(t, RedirectHome, Decide(teacher, route), "teacher on auth screen %d", route)
		assert.Equal(t, RedirectHome, Decide(admin, route), "admin on auth screen %d", route)
	}

	for _, route := range authedScreens {
		assert.Equal(t, RedirectLogin, Decide(anonymous, route), "anon on protected screen %d", route)
		assert.Equal(t, Render, Decide(teacher, route), "teacher on protected screen %d", route)
		assert.Equal(t, Render, Decide(admin, route), "admin on protected screen %d", route)
	}

	for _, route := range publicScreens {
		assert.Equal(t, Render, Decide(anonymous, route), "anon on public screen %d", route)
		assert.Equal(t, Render, Decide(teacher, route), "teacher on public screen %d", route)
		assert.Equal(t, Render, Decide(admin, route), "admin on public screen %d", route)
	}

	assert.Equal(t, RedirectHome, Decide(anonymous, RouteAdminNews))
	assert.Equal(t, RedirectHome, Decide(teacher, RouteAdminNews))
	assert.Equal(t, Render, Decide(admin, RouteAdminNews))
}

func TestDecide_WaitsWhileRestoring(t *testing.T) {
	for _, s := range []session.Snapshot{unknown, restoring} {
		assert.Equal(t, Wait, Decide(s, RouteDashboard))
		assert.Equal(t, Wait, Decide(s, RouteLogin))
		assert.Equal(t, Wait, Decide(s, RouteAdminNews))
	}
}

func TestDecide_PublicScreensNeverWait(t *testing.T) {
	// A public profile link must load even before restore resolves.
	assert.Equal(t, Render, Decide(unknown, RoutePublicProfile))
	assert.Equal(t, Render, Decide(restoring, RoutePostDetail))
}

func TestDecide_LogoutRevokesImmediately(t *testing.T) {
	// Same route, session flips authenticated -> anonymous: the fresh
	// evaluation must redirect. Pure function, so this is just two calls.
	assert.Equal(t, Render, Decide(teacher, RouteMessages))
	assert.Equal(t, RedirectLogin, Decide(anonymous, RouteMessages))
}
