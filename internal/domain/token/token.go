package token

import "time"

// Cache entry names.
const (
	AuthCacheKey    = "edsAuthenticationToken"
	SessionCacheKey = "edsSessionData"
)

// ExpiryMargin is subtracted from an auth token's expiry before it is
// considered valid.
const ExpiryMargin = 5 * time.Minute

// AuthToken is the cached authentication token. Expiration is a unix
// timestamp in seconds.
type AuthToken struct {
	Token      string `json:"token"`
	Expiration int64  `json:"expiration"`
}

// Grant is the authentication service's answer: a token valid for
// TimeoutSec seconds from issue.
type Grant struct {
	Token      string
	TimeoutSec int64
}

// NewAuthToken computes the absolute expiry from a timeout in seconds.
func NewAuthToken(token string, timeoutSec int64, now time.Time) AuthToken {
	return AuthToken{Token: token, Expiration: now.Unix() + timeoutSec}
}

// Valid reports whether the token can be used at now: non-empty and
// now < expiration - margin.
func (a AuthToken) Valid(now time.Time) bool {
	if a.Token == "" {
		return false
	}
	return now.Unix() < a.Expiration-int64(ExpiryMargin/time.Second)
}

// ExpiresAt returns the absolute expiry time.
func (a AuthToken) ExpiresAt() time.Time {
	return time.Unix(a.Expiration, 0)
}

// TTL returns how long the entry is worth keeping at now (zero if expired).
func (a AuthToken) TTL(now time.Time) time.Duration {
	d := a.ExpiresAt().Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// Guest flag wire values.
const (
	GuestYes = "y"
	GuestNo  = "n"
)

// GuestFlag converts a boolean to its wire value.
func GuestFlag(guest bool) string {
	if guest {
		return GuestYes
	}
	return GuestNo
}

// Session is the cached session entry. Sessions carry no client-side expiry;
// they are replaced only when the service rejects them.
type Session struct {
	Token   string `json:"token"`
	IsGuest string `json:"isGuest"`
	Profile string `json:"profile,omitempty"`
}

// Pair is the token pair attached to a remote call. AuthToken is empty under
// IP authentication.
type Pair struct {
	AuthToken    string
	SessionToken string
	AuthExpiry   time.Time
	Profile      string
}
