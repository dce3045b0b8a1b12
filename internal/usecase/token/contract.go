package token

import (
	"context"

	domtoken "github.com/kailas-cloud/edsapi/internal/domain/token"
)

// Cache persists tokens between calls. Found is false on a miss.
type Cache interface {
	GetAuth(ctx context.Context) (tok domtoken.AuthToken, found bool, err error)
	SetAuth(ctx context.Context, tok domtoken.AuthToken) error
	GetSession(ctx context.Context) (s domtoken.Session, found bool, err error)
	SetSession(ctx context.Context, s domtoken.Session) error
}

// Authenticator talks to the remote authentication service.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password, orgID string) (domtoken.Grant, error)
	CreateSession(ctx context.Context, authToken, profile string, guest bool) (string, error)
}
