package models

type SessionState string

const (
	SessionUnauthenticated SessionState = "unauthenticated"
	SessionAuthenticating  SessionState = "authenticating"
	SessionAuthenticated   SessionState = "authenticated"
)

// Session is a snapshot of the console's authentication state.
type Session struct {
	State       SessionState
	DisplayName string
}

func (s Session) Authenticated() bool {
	return s.State == SessionAuthenticated
}
