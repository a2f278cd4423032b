package sdk

import "context"

// AddonEntity is the registry name of addons.
const AddonEntity = "Addon"

var addonTemplate = NewTemplate(
	Field("name"),
	Field("unit_name"),
	Field("pricing_scheme"),
	Object("price_brackets", Each(Fields("start_quantity", "end_quantity", "price")...)),
	Field("type"),
	Field("interval_unit"),
	Field("applicable_to_all_plans"),
	Object("plans", Each(Field("plan_code"))),
	Field("product_id"),
	Field("tax_id"),
	Field("description"),
)

// AddonConfig returns the entity configuration of addons, identified by
// their caller-assigned addon_code.
func AddonConfig() EntityConfig {
	return EntityConfig{
		Name:           AddonEntity,
		Module:         "addon",
		Command:        "addons",
		IDField:        "addon_code",
		CreateTemplate: addonTemplate.With(Field("addon_code")),
		UpdateTemplate: addonTemplate,
	}
}

// Addon is a plan addon.
type Addon struct {
	*Entity
}

// NewAddon returns an empty addon.
func (c *Client) NewAddon() *Addon {
	return &Addon{Entity: c.builtin(AddonEntity, AddonConfig)}
}

// LoadAddon fetches an addon by code, bypassing the cache.
func (c *Client) LoadAddon(ctx context.Context, code string) (*Addon, error) {
	a := c.NewAddon()
	if _, err := a.Load(ctx, code); err != nil {
		return nil, err
	}
	return a, nil
}

// Code returns the addon_code identifier.
func (a *Addon) Code() string { return a.ID() }

// Name returns the display name.
func (a *Addon) Name() string { return toString(a.Get("name")) }

// Type returns "recurring" or "one_time".
func (a *Addon) Type() string { return toString(a.Get("type")) }

// Price returns the unit price.
func (a *Addon) Price() float64 { return a.Record().Float("price") }

// GetAddon returns the addon record for code, cached under "addon_{code}".
func (c *Client) GetAddon(ctx context.Context, code string) (*Record, error) {
	key := addonCacheKey(code)

	var addon *Record
	if c.cache.get(ctx, key, &addon) && addon != nil {
		return addon, nil
	}

	env, err := c.transport.get(ctx, buildPath("addons/{0}", code), nil)
	if err != nil {
		return nil, err
	}
	addon = env.Record("addon")
	if addon == nil {
		return nil, NewError(ErrorTypeDecode, "response has no addon", nil)
	}
	c.cache.put(ctx, key, addon)
	return addon, nil
}

// ListAddons returns every addon, cached under "addons".
func (c *Client) ListAddons(ctx context.Context) ([]*Record, error) {
	var addons []*Record
	if c.cache.get(ctx, cacheKeyAddons, &addons) {
		return addons, nil
	}

	env, err := c.transport.get(ctx, "addons", nil)
	if err != nil {
		return nil, err
	}
	addons = env.Records("addons")
	c.cache.put(ctx, cacheKeyAddons, addons)
	return addons, nil
}

// InvalidateAddon drops the cached addon and the cached addon list.
func (c *Client) InvalidateAddon(ctx context.Context, code string) {
	c.cache.delete(ctx, addonCacheKey(code))
	c.cache.delete(ctx, cacheKeyAddons)
}
