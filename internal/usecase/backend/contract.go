package backend

import (
	"context"

	"github.com/kailas-cloud/edsapi/internal/domain/options"
	"github.com/kailas-cloud/edsapi/internal/domain/params"
	"github.com/kailas-cloud/edsapi/internal/domain/record"
	"github.com/kailas-cloud/edsapi/internal/domain/token"
)

// TokenSource supplies a valid token pair for one call.
type TokenSource interface {
	Tokens(ctx context.Context, profileOverride string) (token.Pair, error)
}

// Remote executes calls against the search service.
type Remote interface {
	Search(ctx context.Context, pair token.Pair, p *params.Set) (any, error)
	Retrieve(ctx context.Context, pair token.Pair, an, dbID, highlightTerms string) (any, error)
	Info(ctx context.Context, pair token.Pair) (options.Info, error)
}

// Parser converts a decoded search response into records.
type Parser interface {
	Parse(raw any) (*record.Collection, error)
}
