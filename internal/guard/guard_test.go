package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeSession struct {
	loading       bool
	authenticated bool
	admin         bool
}

func (s fakeSession) IsLoading() bool       { return s.loading }
func (s fakeSession) IsAuthenticated() bool { return s.authenticated }
func (s fakeSession) IsAdmin() bool         { return s.admin }

func TestRequireAuth(t *testing.T) {
	t.Run("PendingWhileResolving", func(t *testing.T) {
		d := RequireAuth(fakeSession{loading: true}, "/bookings")
		assert.Equal(t, OutcomePending, d.Outcome)
	})

	t.Run("AnonymousRedirectsToLogin", func(t *testing.T) {
		d := RequireAuth(fakeSession{}, "/bookings")
		assert.Equal(t, OutcomeRedirect, d.Outcome)
		assert.Equal(t, LoginPath, d.RedirectTo)
		assert.Equal(t, "/bookings", d.ReturnTo)
	})

	t.Run("AuthenticatedAllowed", func(t *testing.T) {
		d := RequireAuth(fakeSession{authenticated: true}, "/bookings")
		assert.Equal(t, OutcomeAllow, d.Outcome)
	})
}

func TestRequireAdmin(t *testing.T) {
	t.Run("AnonymousRedirectsToLogin", func(t *testing.T) {
		d := RequireAdmin(fakeSession{}, "/admin")
		assert.Equal(t, OutcomeRedirect, d.Outcome)
		assert.Equal(t, LoginPath, d.RedirectTo)
	})

	t.Run("NonAdminRedirectsHome", func(t *testing.T) {
		d := RequireAdmin(fakeSession{authenticated: true}, "/admin")
		assert.Equal(t, OutcomeRedirect, d.Outcome)
		assert.Equal(t, HomePath, d.RedirectTo)
	})

	t.Run("AdminAllowed", func(t *testing.T) {
		d := RequireAdmin(fakeSession{authenticated: true, admin: true}, "/admin")
		assert.Equal(t, OutcomeAllow, d.Outcome)
	})
}
