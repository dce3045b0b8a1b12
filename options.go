package edsapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

// HTTPDoer is the HTTP client used for remote calls.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type clientConfig struct {
	username string
	password string
	orgID    string
	profile  string
	ipAuth   bool
	guest    bool

	authURL    string
	apiURL     string
	httpClient HTTPDoer
	timeout    time.Duration

	driver    string // "memory", "valkey" or "redis"
	addrs     []string
	cachePass string
	maxItems  int
	keyPrefix string

	settings    Settings
	discover    bool
	sourceID    string
	constructor RecordConstructor

	logger     *slog.Logger
	zapLogger  *zap.Logger
	metricsReg prometheus.Registerer
}

func defaultConfig() *clientConfig {
	return &clientConfig{
		driver:   "memory",
		discover: true,
		timeout:  30 * time.Second,
	}
}

// WithCredentials sets the account used to obtain authentication tokens.
func WithCredentials(username, password, orgID string) Option {
	return optionFunc(func(c *clientConfig) {
		c.username = username
		c.password = password
		c.orgID = orgID
	})
}

// WithProfile sets the default profile sessions are opened for.
func WithProfile(profile string) Option {
	return optionFunc(func(c *clientConfig) {
		c.profile = profile
	})
}

// WithIPAuth disables authentication tokens. The service identifies the
// institution by network address.
func WithIPAuth() Option {
	return optionFunc(func(c *clientConfig) {
		c.ipAuth = true
	})
}

// WithGuest opens guest sessions.
func WithGuest() Option {
	return optionFunc(func(c *clientConfig) {
		c.guest = true
	})
}

// WithEndpoints overrides the authentication and search service base URLs.
func WithEndpoints(authURL, apiURL string) Option {
	return optionFunc(func(c *clientConfig) {
		c.authURL = authURL
		c.apiURL = apiURL
	})
}

// WithHTTPClient sets the HTTP client for remote calls.
func WithHTTPClient(h HTTPDoer) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = h
	})
}

// WithTimeout sets the per-call timeout of the default HTTP client.
// Default: 30s. Ignored with WithHTTPClient.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithMemoryCache keeps tokens in process memory (default).
func WithMemoryCache(maxItems int) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "memory"
		c.maxItems = maxItems
	})
}

// WithValkey shares tokens through a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.cachePass = password
	})
}

// WithRedis shares tokens through a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.cachePass = password
	})
}

// WithKeyPrefix prefixes token cache keys.
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithSettings overlays search settings onto the advertised options.
func WithSettings(s Settings) Option {
	return optionFunc(func(c *clientConfig) {
		c.settings = s
	})
}

// WithoutDiscovery skips the info call New makes to learn the profile's
// search options. Settings then apply to empty metadata.
func WithoutDiscovery() Option {
	return optionFunc(func(c *clientConfig) {
		c.discover = false
	})
}

// WithSourceIdentifier sets the identifier stamped on results. Default: "EDS".
func WithSourceIdentifier(id string) Option {
	return optionFunc(func(c *clientConfig) {
		c.sourceID = id
	})
}

// WithRecordConstructor replaces the default record constructor.
func WithRecordConstructor(fn RecordConstructor) Option {
	return optionFunc(func(c *clientConfig) {
		c.constructor = fn
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithZapLogger sets the logger for internal components (token lifecycle,
// remote calls). Default: no-op.
func WithZapLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.zapLogger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
