package sdk

import (
	"context"
	"sort"
)

// PlanEntity is the registry name of plans.
const PlanEntity = "Plan"

// AddonTypes lists the addon types recognised by ListPlans.
var AddonTypes = []string{"recurring", "one_time"}

var planTemplate = NewTemplate(Fields(
	"name",
	"recurring_price",
	"interval",
	"interval_unit",
	"billing_cycles",
	"trial_period",
	"setup_fee",
	"product_id",
	"tax_id",
)...)

// PlanConfig returns the entity configuration of plans. Plans are identified
// by their caller-assigned plan_code.
func PlanConfig() EntityConfig {
	return EntityConfig{
		Name:           PlanEntity,
		Module:         "plan",
		Command:        "plans",
		IDField:        "plan_code",
		CreateTemplate: planTemplate.With(Field("plan_code")),
		UpdateTemplate: planTemplate.With(Field("end_of_term"), Field("prorate")),
	}
}

// Plan is a billing plan.
type Plan struct {
	*Entity
}

// NewPlan returns an empty plan. Set its code and call Create to add it.
func (c *Client) NewPlan() *Plan {
	return &Plan{Entity: c.builtin(PlanEntity, PlanConfig)}
}

// LoadPlan fetches a plan by code, bypassing the cache.
func (c *Client) LoadPlan(ctx context.Context, code string) (*Plan, error) {
	p := c.NewPlan()
	if _, err := p.Load(ctx, code); err != nil {
		return nil, err
	}
	return p, nil
}

// Code returns the plan_code identifier.
func (p *Plan) Code() string { return p.ID() }

// Name returns the display name.
func (p *Plan) Name() string { return toString(p.Get("name")) }

// Status returns "active" or "inactive".
func (p *Plan) Status() string { return toString(p.Get("status")) }

// IntervalUnit returns the billing unit, "months" or "years".
func (p *Plan) IntervalUnit() string { return toString(p.Get("interval_unit")) }

// Interval returns the number of units between renewals.
func (p *Plan) Interval() int64 { return p.Record().Int("interval") }

// RecurringPrice returns the price charged every interval.
func (p *Plan) RecurringPrice() float64 { return p.Record().Float("recurring_price") }

// Addons returns the addons attached to the plan.
func (p *Plan) Addons() []*Record { return p.Record().Records("addons") }

// SetCode assigns the plan_code. Plans are created with a caller-chosen code.
func (p *Plan) SetCode(code string) { p.SetID(code) }

// SetName sets the display name.
func (p *Plan) SetName(name string) { p.Set("name", name) }

// SetRecurringPrice sets the price charged every interval.
func (p *Plan) SetRecurringPrice(price float64) { p.Set("recurring_price", price) }

// SetInterval sets the billing frequency, e.g. 1 "months".
func (p *Plan) SetInterval(n int, unit string) {
	p.Set("interval", n)
	p.Set("interval_unit", unit)
}

// ListPlans returns every plan, cached under "plans", narrowed by filters.
//
// A filter applies only when the first remaining plan has its key; values
// are compared loosely, so "10" matches 10. Keys are applied in sorted order.
// With withAddons each plan's addons are replaced with the full addon
// records, keeping only addons of addonType when it is one of AddonTypes.
func (c *Client) ListPlans(ctx context.Context, filters map[string]any, withAddons bool, addonType string) ([]*Record, error) {
	var plans []*Record
	if !c.cache.get(ctx, cacheKeyPlans, &plans) {
		env, err := c.transport.get(ctx, "plans", nil)
		if err != nil {
			return nil, err
		}
		plans = env.Records("plans")
		c.cache.put(ctx, cacheKeyPlans, plans)
	}

	plans = FilterPlans(plans, filters)

	if withAddons {
		return c.AddonsForPlans(ctx, plans, addonType)
	}
	return plans, nil
}

// GetPlan returns the plan record for code, cached under "plan_{code}".
func (c *Client) GetPlan(ctx context.Context, code string) (*Record, error) {
	key := planCacheKey(code)

	var plan *Record
	if c.cache.get(ctx, key, &plan) && plan != nil {
		return plan, nil
	}

	env, err := c.transport.get(ctx, buildPath("plans/{0}", code), nil)
	if err != nil {
		return nil, err
	}
	plan = env.Record("plan")
	if plan == nil {
		return nil, NewError(ErrorTypeDecode, "response has no plan", nil)
	}
	c.cache.put(ctx, key, plan)
	return plan, nil
}

// InvalidatePlan drops the cached plan and the cached plan list.
func (c *Client) InvalidatePlan(ctx context.Context, code string) {
	c.cache.delete(ctx, planCacheKey(code))
	c.cache.delete(ctx, cacheKeyPlans)
}

// InvalidatePlans drops the cached plan list.
func (c *Client) InvalidatePlans(ctx context.Context) {
	c.cache.delete(ctx, cacheKeyPlans)
}

// FilterPlans keeps the plans whose fields loosely equal the filters.
// The input slice is not modified.
func FilterPlans(plans []*Record, filters map[string]any) []*Record {
	out := append([]*Record(nil), plans...)
	if len(filters) == 0 {
		return out
	}

	keys := make([]string, 0, len(filters))
	for key := range filters {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if len(out) == 0 {
			break
		}
		if !out[0].Has(key) {
			continue
		}
		kept := make([]*Record, 0, len(out))
		for _, plan := range out {
			if looseEqual(plan.Value(key), filters[key]) {
				kept = append(kept, plan)
			}
		}
		out = kept
	}
	return out
}

// AddonsForPlans returns copies of plans whose "addons" field holds the full
// addon records fetched with GetAddon. When addonType is non-empty only
// addons of that type are kept, and only if the type is one of AddonTypes.
func (c *Client) AddonsForPlans(ctx context.Context, plans []*Record, addonType string) ([]*Record, error) {
	out := make([]*Record, 0, len(plans))
	for _, plan := range plans {
		plan = plan.Clone()

		addons := make([]any, 0)
		for _, ref := range plan.Records("addons") {
			addon, err := c.GetAddon(ctx, ref.String("addon_code"))
			if err != nil {
				return nil, err
			}
			if addonType != "" && !(addon.String("type") == addonType && isAddonType(addonType)) {
				continue
			}
			addons = append(addons, addon)
		}

		plan.Set("addons", addons)
		out = append(out, plan)
	}
	return out, nil
}

func isAddonType(t string) bool {
	for _, known := range AddonTypes {
		if known == t {
			return true
		}
	}
	return false
}
