package access

// Actor is the authenticated identity a request runs as, with its derived
// access level. Built by the auth middleware and threaded through use cases;
// nothing below the transport ever touches raw token claims.
type Actor struct {
	// Subject is the token subject (stable user id).
	Subject string

	// Username is the human-readable name claim when present.
	Username string

	// Level is the access level derived from group membership.
	Level Level
}

// Name returns the best identifier for audit trails: username when present,
// otherwise the subject.
func (a Actor) Name() string {
	if a.Username != "" {
		return a.Username
	}
	return a.Subject
}
