package blacklist

import "time"

// Blacklist is the persisted set of revoked token identities (jti claims).
// Logout adds the refresh token's jti; refresh and the auth middleware
// consult it before honoring a token.
type Blacklist interface {
	Add(jti string, ttl time.Duration) error
	Contains(jti string) (bool, error)
	Close() error
}
