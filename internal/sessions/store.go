package sessions

import "errors"

// CookieName is the name of the cookie carrying the opaque session token.
const CookieName = "folio_session"

// ErrNoSession is returned by Resolve for missing, unknown or expired tokens.
// The caller cannot distinguish the three cases, and should not.
var ErrNoSession = errors.New("no active session")

// Store maps opaque session tokens to authenticated user IDs.
//
// Sessions carry an absolute, non-sliding expiry set at creation time.
// Implementations must make Destroy idempotent: destroying an unknown or
// already-destroyed token is not an error.
type Store interface {
	Create(userID string) (string, error)
	Resolve(token string) (string, error)
	Destroy(token string) error
}
