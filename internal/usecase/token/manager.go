package token

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/kailas-cloud/edsapi/internal/domain"
	domtoken "github.com/kailas-cloud/edsapi/internal/domain/token"
)

// Manager owns the authentication and session token lifecycle.
//
// The cache is the only shared state. Concurrent refreshes inside one
// process are coalesced; across processes the last writer wins.
type Manager struct {
	account      domain.Account
	cache        Cache
	auth         Authenticator
	now          func() time.Time
	flight       singleflight.Group
	refreshTotal *prometheus.CounterVec
	cacheTotal   *prometheus.CounterVec
	logger       *zap.Logger
}

// New creates a Manager.
// refreshTotal has labels "token" and "result"; cacheTotal has "entry" and
// "result". Both may be nil.
func New(
	account domain.Account,
	cache Cache,
	auth Authenticator,
	refreshTotal, cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		account:      account,
		cache:        cache,
		auth:         auth,
		now:          time.Now,
		refreshTotal: refreshTotal,
		cacheTotal:   cacheTotal,
		logger:       logger,
	}
}

// WithClock replaces the time source.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// Account returns the configured account.
func (m *Manager) Account() domain.Account { return m.account }

// Tokens returns a valid token pair. profileOverride applies to this call
// only; empty means the configured profile.
func (m *Manager) Tokens(ctx context.Context, profileOverride string) (domtoken.Pair, error) {
	auth, err := m.AuthToken(ctx)
	if err != nil {
		return domtoken.Pair{}, err
	}
	profile := m.profile(profileOverride)
	session, err := m.SessionToken(ctx, auth.Token, profile)
	if err != nil {
		return domtoken.Pair{}, err
	}
	pair := domtoken.Pair{AuthToken: auth.Token, SessionToken: session, Profile: profile}
	if auth.Token != "" {
		pair.AuthExpiry = auth.ExpiresAt()
	}
	return pair, nil
}

// AuthToken returns the cached authentication token while it is valid,
// otherwise authenticates and caches the result. Under IP authentication,
// or with no credentials configured, it returns an empty token.
func (m *Manager) AuthToken(ctx context.Context) (domtoken.AuthToken, error) {
	if m.account.IPAuth {
		return domtoken.AuthToken{}, nil
	}

	if cached, ok := m.cachedAuth(ctx); ok && cached.Valid(m.now()) {
		return cached, nil
	}

	if !m.account.HasCredentials() {
		m.logger.Debug("No credentials configured, calling without authentication token")
		return domtoken.AuthToken{}, nil
	}

	v, err := m.shared(ctx, "auth", func(ctx context.Context) (any, error) {
		return m.authenticate(ctx)
	})
	if err != nil {
		return domtoken.AuthToken{}, err
	}
	return v.(domtoken.AuthToken), nil
}

func (m *Manager) authenticate(ctx context.Context) (domtoken.AuthToken, error) {
	grant, err := m.auth.Authenticate(ctx, m.account.Username, m.account.Password, m.account.OrgID)
	if err != nil {
		m.incRefresh("auth", "error")
		return domtoken.AuthToken{}, fmt.Errorf("authenticate: %w", err)
	}
	m.incRefresh("auth", "ok")

	tok := domtoken.NewAuthToken(grant.Token, grant.TimeoutSec, m.now())
	if err := m.cache.SetAuth(ctx, tok); err != nil {
		m.logger.Warn("Failed to cache authentication token", zap.Error(err))
	}
	m.logger.Debug("Authentication token refreshed", zap.Time("expires_at", tok.ExpiresAt()))
	return tok, nil
}

// SessionToken returns the cached session when it belongs to profile,
// otherwise creates one. Sessions for a non-default profile are not cached.
func (m *Manager) SessionToken(ctx context.Context, authToken, profile string) (string, error) {
	profile = m.profile(profile)

	if s, ok := m.cachedSession(ctx); ok && s.Token != "" && m.sessionProfile(s) == profile {
		return s.Token, nil
	}
	return m.createSession(ctx, authToken, profile)
}

// RenewSession always creates a new session, replacing the cached one when
// profile is the configured default.
func (m *Manager) RenewSession(ctx context.Context, authToken, profile string) (string, error) {
	return m.createSession(ctx, authToken, m.profile(profile))
}

func (m *Manager) createSession(ctx context.Context, authToken, profile string) (string, error) {
	v, err := m.shared(ctx, "session:"+profile, func(ctx context.Context) (any, error) {
		tok, err := m.auth.CreateSession(ctx, authToken, profile, m.account.Guest)
		if err != nil {
			m.incRefresh("session", "error")
			return "", fmt.Errorf("create session: %w", err)
		}
		m.incRefresh("session", "ok")

		if profile == m.account.Profile {
			s := domtoken.Session{
				Token:   tok,
				IsGuest: domtoken.GuestFlag(m.account.Guest),
				Profile: profile,
			}
			if err := m.cache.SetSession(ctx, s); err != nil {
				m.logger.Warn("Failed to cache session token", zap.Error(err))
			}
		}
		m.logger.Debug("Session created", zap.String("profile", profile))
		return tok, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// shared runs fn once per key across concurrent callers. fn gets a context
// detached from the caller's cancellation so one caller giving up does not
// fail the others; each caller still returns on its own ctx.Done.
func (m *Manager) shared(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	detached := context.WithoutCancel(ctx)
	ch := m.flight.DoChan(key, func() (any, error) {
		return fn(detached)
	})
	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (m *Manager) cachedAuth(ctx context.Context) (domtoken.AuthToken, bool) {
	tok, found, err := m.cache.GetAuth(ctx)
	if err != nil {
		m.logger.Warn("Failed to read cached authentication token", zap.Error(err))
		found = false
	}
	m.incCache(domtoken.AuthCacheKey, found)
	return tok, found
}

func (m *Manager) cachedSession(ctx context.Context) (domtoken.Session, bool) {
	s, found, err := m.cache.GetSession(ctx)
	if err != nil {
		m.logger.Warn("Failed to read cached session", zap.Error(err))
		found = false
	}
	m.incCache(domtoken.SessionCacheKey, found)
	return s, found
}

// sessionProfile treats entries written without a profile as the default.
func (m *Manager) sessionProfile(s domtoken.Session) string {
	if s.Profile == "" {
		return m.account.Profile
	}
	return s.Profile
}

func (m *Manager) profile(override string) string {
	if override != "" {
		return override
	}
	return m.account.Profile
}

func (m *Manager) incRefresh(tok, result string) {
	if m.refreshTotal != nil {
		m.refreshTotal.WithLabelValues(tok, result).Inc()
	}
}

func (m *Manager) incCache(entry string, hit bool) {
	if m.cacheTotal == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheTotal.WithLabelValues(entry, result).Inc()
}
