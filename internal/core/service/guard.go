package service

// Decision is the outcome of guarding a protected view.
type Decision int

const (
	DecisionAllow Decision = iota
	DecisionLoading
	DecisionRedirectLogin
	DecisionDenied
)

func (d Decision) String() string {
	switch d {
	case DecisionLoading:
		return "loading"
	case DecisionRedirectLogin:
		return "redirect_login"
	case DecisionDenied:
		return "denied"
	default:
		return "allow"
	}
}

// Decide is evaluated on every navigation to a protected view and must not
// be cached: the session can change between two requests.
//
//	loading            → placeholder, no redirect yet
//	no user            → redirect to /login
//	admin view, !admin → access denied in place
//	otherwise          → render the view
func Decide(state SessionState, requiresAdmin bool) Decision {
	switch {
	case state.Loading:
		return DecisionLoading
	case state.User == nil:
		return DecisionRedirectLogin
	case requiresAdmin && !state.IsAdmin():
		return DecisionDenied
	default:
		return DecisionAllow
	}
}
