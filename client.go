package edsapi

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/edsapi/internal/db"
	"github.com/kailas-cloud/edsapi/internal/db/memory"
	dbRedis "github.com/kailas-cloud/edsapi/internal/db/redis"
	"github.com/kailas-cloud/edsapi/internal/domain"
	"github.com/kailas-cloud/edsapi/internal/domain/options"
	"github.com/kailas-cloud/edsapi/internal/repository/tokencache"
	"github.com/kailas-cloud/edsapi/internal/transport/eds"
	backenduc "github.com/kailas-cloud/edsapi/internal/usecase/backend"
	healthuc "github.com/kailas-cloud/edsapi/internal/usecase/health"
	"github.com/kailas-cloud/edsapi/internal/usecase/records"
	"github.com/kailas-cloud/edsapi/internal/usecase/request"
	tokenuc "github.com/kailas-cloud/edsapi/internal/usecase/token"
	"github.com/kailas-cloud/edsapi/internal/version"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces, replaced in tests.
type backendUseCase interface {
	Search(ctx context.Context, q Query, offset, limit int, sp SearchParams) (*Collection, error)
	Retrieve(ctx context.Context, id string, rp RetrieveParams) (*Collection, error)
	Info(ctx context.Context, profile string) (Info, error)
	Options() Options
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

type tokenClearer interface {
	Clear(ctx context.Context) error
}

// Client is the edsapi SDK entry point.
type Client struct {
	store   db.Store
	backend backendUseCase
	health  healthUseCase
	tokens  tokenClearer
	obs     *observer
}

// New creates a Client, connects the token store and, unless
// WithoutDiscovery is given, loads the profile's search options.
// A failed discovery is not fatal: settings then apply to empty metadata.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.profile == "" {
		return nil, errors.New("edsapi: profile required (use WithProfile)")
	}
	if !cfg.ipAuth && (cfg.username == "" || cfg.password == "") {
		return nil, errors.New("edsapi: credentials required (use WithCredentials or WithIPAuth)")
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("edsapi: token store not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}

	c := wireClient(store, cfg, obs)
	if cfg.discover {
		c.discoverOptions(ctx, cfg.settings)
	}
	return c, nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "memory":
		s, err := memory.NewStore(cfg.maxItems)
		if err != nil {
			return nil, fmt.Errorf("edsapi: create memory store: %w", err)
		}
		return s, nil
	case "valkey", "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.cachePass,
		})
		if err != nil {
			return nil, fmt.Errorf("edsapi: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("edsapi: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) *Client {
	logger := cfg.zapLogger
	if logger == nil {
		logger = zap.NewNop()
	}

	remote := eds.NewClient(&eds.Config{
		AuthURL:    cfg.authURL,
		APIURL:     cfg.apiURL,
		HTTPClient: cfg.httpClient,
		Timeout:    cfg.timeout,
		UserAgent:  version.UserAgent("go"),
		Logger:     logger,
	})

	cache := tokencache.New(store, cfg.keyPrefix)
	account := domain.Account{
		Username: cfg.username,
		Password: cfg.password,
		OrgID:    cfg.orgID,
		Profile:  cfg.profile,
		IPAuth:   cfg.ipAuth,
		Guest:    cfg.guest,
	}
	// The SDK reports through its own observer; internal counters stay unset.
	manager := tokenuc.New(account, cache, remote, nil, nil, logger)
	remote.WithSessionRenewer(manager)

	backend := backenduc.New(
		manager,
		remote,
		request.NewBuilder(options.Build(options.Info{}, cfg.settings)),
		records.NewFactory(records.Constructor(cfg.constructor)),
		nil,
		logger,
	).WithSourceIdentifier(cfg.sourceID)

	return &Client{
		store:   store,
		backend: backend,
		health:  healthuc.New(store, backend),
		tokens:  cache,
		obs:     obs,
	}
}

func (c *Client) discoverOptions(ctx context.Context, settings Settings) {
	b, ok := c.backend.(*backenduc.Service)
	if !ok {
		return
	}
	start := time.Now()
	opts, err := b.DiscoverOptions(ctx, settings)
	c.obs.observe("discover", start, err)
	b.WithOptions(opts)
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Search runs q and returns limit records starting at offset.
// offset is rounded down to a page boundary of limit.
func (c *Client) Search(ctx context.Context, q Query, offset, limit int, sp SearchParams) (_ *Collection, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	return c.backend.Search(ctx, q, offset, limit, sp)
}

// Retrieve fetches one record by "<databaseId>,<accessionNumber>".
func (c *Client) Retrieve(ctx context.Context, id string, rp RetrieveParams) (_ Record, err error) {
	start := time.Now()
	defer func() { c.obs.observe("retrieve", start, err) }()

	coll, err := c.backend.Retrieve(ctx, id, rp)
	if err != nil {
		return Record{}, err
	}
	recs := coll.Records()
	if len(recs) == 0 {
		return Record{}, domain.NewBackendError(fmt.Errorf("%w: retrieve returned no record", domain.ErrUnexpectedType))
	}
	return recs[0], nil
}

// Info returns the search criteria of profile, or of the default profile
// when empty.
func (c *Client) Info(ctx context.Context, profile string) (_ Info, err error) {
	start := time.Now()
	defer func() { c.obs.observe("info", start, err) }()

	return c.backend.Info(ctx, profile)
}

// Options returns the effective search options.
func (c *Client) Options() Options {
	return c.backend.Options()
}

// ClearTokens drops cached authentication and session tokens. The next call
// authenticates again.
func (c *Client) ClearTokens(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("clear_tokens", start, err) }()

	if err = c.tokens.Clear(ctx); err != nil {
		return fmt.Errorf("clear tokens: %w", err)
	}
	return nil
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Checks map[string]string // component → "ok"/"error"
}

// Health checks the token store and the remote search service.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.health.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}
