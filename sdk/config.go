package sdk

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// DefaultBaseURL is the Zoho Subscriptions API v1 endpoint.
const DefaultBaseURL = "https://subscriptions.zoho.com/api/v1/"

// DefaultCacheTTL is applied to every cache write unless configured.
const DefaultCacheTTL = 7200 * time.Second

var validate = validator.New()

// HTTPDoer is the HTTP client used to send requests. *http.Client satisfies
// it; tests and custom transports can plug in their own.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config holds the configuration for the Zoho Subscriptions client.
// AuthToken and OrganizationID are required; every other field has a default.
//
// Configuration can be built using the fluent builder pattern:
//
//	config := sdk.DefaultConfig(token, organizationID).
//	    WithTimeout(10 * time.Second).
//	    WithCache(redisCache).
//	    WithCacheTTL(30 * time.Minute)
//
//	client, err := sdk.NewClient(config)
type Config struct {
	// AuthToken is sent as "Authorization: Zoho-authtoken <token>"
	AuthToken string `validate:"required"`

	// OrganizationID is sent as the X-com-zoho-subscriptions-organizationid header
	OrganizationID string `validate:"required"`

	// BaseURL is the API root.
	// Default: DefaultBaseURL
	BaseURL string `validate:"required,url"`

	// Timeout applies to the default HTTP client only.
	// Default: 30s
	Timeout time.Duration

	// Headers are extra headers sent with every request.
	Headers map[string]string

	// UserAgent is sent with every request.
	UserAgent string

	// HTTPClient sends the requests.
	// Default: *http.Client with Timeout
	HTTPClient HTTPDoer

	// Cache stores read responses. Nil disables caching.
	Cache Cache

	// CacheTTL is applied to every cache write.
	// Default: DefaultCacheTTL
	CacheTTL time.Duration

	// Observer is notified of requests and cache lookups.
	// Default: NoopObserver
	Observer Observer

	// Logger receives request and cache diagnostics.
	// Default: a logrus logger writing to io.Discard
	Logger logrus.FieldLogger

	// Registry resolves entity names.
	// Default: DefaultRegistry()
	Registry *Registry
}

// DefaultConfig returns a Config for the given credentials with defaults for
// everything else.
func DefaultConfig(authToken, organizationID string) *Config {
	return &Config{
		AuthToken:      authToken,
		OrganizationID: organizationID,
		BaseURL:        DefaultBaseURL,
		Timeout:        30 * time.Second,
		Headers:        make(map[string]string),
		UserAgent:      "zoho-subscription-go-sdk/1.0.0",
		CacheTTL:       DefaultCacheTTL,
		Observer:       &NoopObserver{},
	}
}

// WithBaseURL sets the API root.
func (c *Config) WithBaseURL(url string) *Config {
	c.BaseURL = url
	return c
}

// WithTimeout sets the timeout of the default HTTP client.
func (c *Config) WithTimeout(timeout time.Duration) *Config {
	c.Timeout = timeout
	return c
}

// WithHeader adds a header sent with every request.
func (c *Config) WithHeader(key, value string) *Config {
	if c.Headers == nil {
		c.Headers = make(map[string]string)
	}
	c.Headers[key] = value
	return c
}

// WithHTTPClient replaces the HTTP client.
func (c *Config) WithHTTPClient(client HTTPDoer) *Config {
	c.HTTPClient = client
	return c
}

// WithCache enables read caching.
//
// Example:
//
//	mem := cache.NewMemoryCache(nil)
//	config := sdk.DefaultConfig(token, org).WithCache(mem)
func (c *Config) WithCache(cache Cache) *Config {
	c.Cache = cache
	return c
}

// WithCacheTTL sets the TTL of cache writes.
func (c *Config) WithCacheTTL(ttl time.Duration) *Config {
	c.CacheTTL = ttl
	return c
}

// WithObserver sets the observer.
func (c *Config) WithObserver(observer Observer) *Config {
	c.Observer = observer
	return c
}

// WithLogger sets the logger.
func (c *Config) WithLogger(logger logrus.FieldLogger) *Config {
	c.Logger = logger
	return c
}

// WithRegistry sets the entity registry.
func (c *Config) WithRegistry(registry *Registry) *Config {
	c.Registry = registry
	return c
}

// Validate checks required fields and fills defaults for missing values.
// This is called automatically by NewClient.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = DefaultCacheTTL
	}
	if c.Observer == nil {
		c.Observer = &NoopObserver{}
	}
	if c.Logger == nil {
		logger := logrus.New()
		logger.SetOutput(io.Discard)
		c.Logger = logger
	}
	if c.Registry == nil {
		c.Registry = DefaultRegistry()
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	return nil
}
