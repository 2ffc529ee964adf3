// Package guard decides whether a view may be shown for the current session.
// Guards are pure: they inspect the session and return a decision, leaving
// navigation to the caller.
package guard

import "museovini/internal/domain"

const (
	LoginPath = "/login"
	HomePath  = "/"
)

type Outcome int

const (
	// OutcomePending means the session is still resolving; show a loading
	// placeholder instead of deciding.
	OutcomePending Outcome = iota
	OutcomeAllow
	OutcomeRedirect
)

// Decision is the result of evaluating a guard.
type Decision struct {
	Outcome    Outcome
	RedirectTo string
	// ReturnTo preserves the originating location so a successful login can
	// come back to it.
	ReturnTo string
}

// RequireAuth admits authenticated sessions. Anonymous sessions are sent to
// the login view with the originating location preserved.
func RequireAuth(session domain.Session, from string) Decision {
	if session.IsLoading() {
		return Decision{Outcome: OutcomePending}
	}
	if !session.IsAuthenticated() {
		return Decision{Outcome: OutcomeRedirect, RedirectTo: LoginPath, ReturnTo: from}
	}
	return Decision{Outcome: OutcomeAllow}
}

// RequireAdmin composes RequireAuth and additionally turns authenticated
// non-admins away to the home view.
func RequireAdmin(session domain.Session, from string) Decision {
	decision := RequireAuth(session, from)
	if decision.Outcome != OutcomeAllow {
		return decision
	}
	if !session.IsAdmin() {
		return Decision{Outcome: OutcomeRedirect, RedirectTo: HomePath}
	}
	return Decision{Outcome: OutcomeAllow}
}
