package sdk

import (
	"context"
	"fmt"
)

// Client is the entry point to the Zoho Subscriptions API.
//
// A Client is safe for concurrent use; the entities it creates are not.
//
// Example:
//
//	client, err := sdk.NewClient(sdk.DefaultConfig(token, organizationID))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	plans, err := client.ListPlans(ctx, nil, false, "")
type Client struct {
	config    *Config
	transport *httpTransport
	cache     *cacheFacade
	registry  *Registry
}

// NewClient creates a client. It fails with ErrInvalidConfig when config is
// nil or lacks the auth token or organization id.
func NewClient(config *Config) (*Client, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is required", ErrInvalidConfig)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	transport, err := newHTTPTransport(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create transport: %w", err)
	}

	return &Client{
		config:    config,
		transport: transport,
		cache:     newCacheFacade(config),
		registry:  config.Registry,
	}, nil
}

// Config returns the validated configuration.
func (c *Client) Config() *Config {
	return c.config
}

// Registry returns the entity registry used by CreateEntity.
func (c *Client) Registry() *Registry {
	return c.registry
}

// CreateEntity returns a new, empty entity of a registered type.
func (c *Client) CreateEntity(name string) (*Entity, error) {
	cfg, err := c.registry.Lookup(name)
	if err != nil {
		return nil, err
	}
	return newEntity(c, cfg), nil
}

// GetEntity creates an entity of a registered type and loads it by id.
//
// Example:
//
//	sub, err := client.GetEntity(ctx, "Subscription", "903000000045027")
func (c *Client) GetEntity(ctx context.Context, name, id string) (*Entity, error) {
	entity, err := c.CreateEntity(name)
	if err != nil {
		return nil, err
	}
	if _, err := entity.Load(ctx, id); err != nil {
		return entity, err
	}
	return entity, nil
}

// Close releases idle connections of the default HTTP client.
// The cache backend is owned by the caller and is not closed.
func (c *Client) Close() error {
	return c.transport.close()
}

// builtin returns a new entity of a built-in type. A registry supplied by
// the caller may omit built-ins; their default configuration is used then.
func (c *Client) builtin(name string, fallback func() EntityConfig) *Entity {
	cfg, err := c.registry.Lookup(name)
	if err != nil {
		def := fallback()
		cfg = &def
	}
	return newEntity(c, cfg)
}
