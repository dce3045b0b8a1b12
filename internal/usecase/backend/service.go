package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/edsapi/internal/domain"
	"github.com/kailas-cloud/edsapi/internal/domain/options"
	"github.com/kailas-cloud/edsapi/internal/domain/params"
	domquery "github.com/kailas-cloud/edsapi/internal/domain/query"
	"github.com/kailas-cloud/edsapi/internal/domain/record"
	"github.com/kailas-cloud/edsapi/internal/usecase/records"
	"github.com/kailas-cloud/edsapi/internal/usecase/request"
)

// DefaultSourceIdentifier is stamped on collections when none is configured.
const DefaultSourceIdentifier = "EDS"

// RetrieveParams are optional retrieve settings.
type RetrieveParams struct {
	Profile        string
	HighlightTerms string
}

// Service runs searches and retrievals end to end. Every error it returns
// is a *domain.BackendError.
type Service struct {
	tokens      TokenSource
	remote      Remote
	builder     *request.Builder
	parser      Parser
	sourceID    string
	errorsTotal *prometheus.CounterVec
	logger      *zap.Logger
}

// New creates a backend service.
// errorsTotal has labels "operation" and "kind" and may be nil.
func New(
	tokens TokenSource,
	remote Remote,
	builder *request.Builder,
	parser Parser,
	errorsTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		tokens:      tokens,
		remote:      remote,
		builder:     builder,
		parser:      parser,
		sourceID:    DefaultSourceIdentifier,
		errorsTotal: errorsTotal,
		logger:      logger,
	}
}

// WithSourceIdentifier sets the identifier stamped on results.
func (s *Service) WithSourceIdentifier(id string) *Service {
	if id != "" {
		s.sourceID = id
	}
	return s
}

// SourceIdentifier returns the identifier stamped on results.
func (s *Service) SourceIdentifier() string { return s.sourceID }

// Options returns the search options snapshot in use.
func (s *Service) Options() options.Options { return s.builder.Options() }

// WithOptions replaces the options snapshot used to build requests.
func (s *Service) WithOptions(o options.Options) *Service {
	s.builder = request.NewBuilder(o)
	return s
}

// DiscoverOptions overlays settings onto the criteria the service
// advertises. When the info call fails the overlay is applied to empty
// metadata and the error is returned alongside.
func (s *Service) DiscoverOptions(ctx context.Context, settings options.Settings) (options.Options, error) {
	info, err := s.Info(ctx, "")
	if err != nil {
		return options.Build(options.Info{}, settings), err
	}
	return options.Build(info, settings), nil
}

// Search translates q, pages with offset/limit and runs the search.
func (s *Service) Search(
	ctx context.Context,
	q domquery.Query,
	offset, limit int,
	sp request.SearchParams,
) (*record.Collection, error) {
	p := s.builder.Build(q, offset, limit, s.builder.BackendParams(sp))

	// The profile selects the session; it is not a search parameter.
	profile, _ := p.First(params.Profile)
	p.Remove(params.Profile)

	pair, err := s.tokens.Tokens(ctx, profile)
	if err != nil {
		return nil, s.fail("search", err)
	}

	s.logger.Debug("Searching",
		zap.Int("offset", offset),
		zap.Int("limit", limit),
		zap.String("params", p.Encode()))

	raw, err := s.remote.Search(ctx, pair, p)
	if err != nil {
		return nil, s.fail("search", err)
	}

	coll, err := s.parser.Parse(raw)
	if err != nil {
		return nil, s.fail("search", err)
	}
	coll.SetSourceIdentifier(s.sourceID)
	return coll, nil
}

// Retrieve fetches one record by "<databaseId>,<accessionNumber>".
// A malformed id fails before any remote call.
func (s *Service) Retrieve(ctx context.Context, id string, rp RetrieveParams) (*record.Collection, error) {
	dbID, an, err := record.SplitID(id)
	if err != nil {
		return nil, s.fail("retrieve", fmt.Errorf("%w: %w", domain.ErrInvalidRecordID, err))
	}

	pair, err := s.tokens.Tokens(ctx, rp.Profile)
	if err != nil {
		return nil, s.fail("retrieve", err)
	}

	raw, err := s.remote.Retrieve(ctx, pair, an, dbID, rp.HighlightTerms)
	if err != nil {
		return nil, s.fail("retrieve", err)
	}

	wrapped, err := records.WrapRetrieved(raw)
	if err != nil {
		return nil, s.fail("retrieve", err)
	}
	coll, err := s.parser.Parse(wrapped)
	if err != nil {
		return nil, s.fail("retrieve", err)
	}
	coll.SetSourceIdentifier(s.sourceID)
	return coll, nil
}

// Info fetches the search criteria the profile supports.
func (s *Service) Info(ctx context.Context, profile string) (options.Info, error) {
	pair, err := s.tokens.Tokens(ctx, profile)
	if err != nil {
		return options.Info{}, s.fail("info", err)
	}
	info, err := s.remote.Info(ctx, pair)
	if err != nil {
		return options.Info{}, s.fail("info", err)
	}
	return info, nil
}

// HealthCheck verifies the search service answers an info call.
func (s *Service) HealthCheck(ctx context.Context) error {
	_, err := s.Info(ctx, "")
	return err
}

func (s *Service) fail(op string, err error) error {
	kind := errorKind(err)
	if s.errorsTotal != nil {
		s.errorsTotal.WithLabelValues(op, kind).Inc()
	}
	s.logger.Error("Backend call failed",
		zap.String("operation", op),
		zap.String("kind", kind),
		zap.Error(err))
	return domain.NewBackendError(err)
}

func errorKind(err error) string {
	var apiErr *domain.APIError
	switch {
	case errors.Is(err, domain.ErrInvalidRecordID):
		return "input"
	case errors.As(err, &apiErr):
		return "api_" + string(apiErr.Kind())
	case errors.Is(err, domain.ErrDecode):
		return "decode"
	case errors.Is(err, domain.ErrUnexpectedType):
		return "type"
	case errors.Is(err, domain.ErrTransport):
		return "transport"
	default:
		return "other"
	}
}
