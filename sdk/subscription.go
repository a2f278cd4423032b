package sdk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// SubscriptionEntity is the registry name of subscriptions.
const SubscriptionEntity = "Subscription"

// Warnings produced when invalid parts of a subscription are dropped on save.
const (
	WarningIncompleteCard = "You must fill all required fields for a 'Card'"
	WarningPlanCode       = "You must fill 'plan_code' field for a 'Plan'"
	WarningAddonCode      = "You must fill 'addon_code' field for all 'Addons'"
)

var requiredCardFields = []string{
	"card_number",
	"cvv_number",
	"expiry_month",
	"expiry_year",
	"payment_gateway",
	"street",
	"city",
	"state",
	"zip",
	"country",
}

var oneTimeAddonTemplate = NewTemplate(Fields("addon_code", "quantity", "price", "tax_id")...)

var subscriptionTemplate = NewTemplate(
	Field("card_id"),
	Object("card", Fields(
		"card_number",
		"cvv_number",
		"expiry_month",
		"expiry_year",
		"payment_gateway",
		"first_name",
		"last_name",
		"street",
		"city",
		"state",
		"zip",
		"country",
	)...),
	Field("exchange_rate"),
	Object("plan", Fields(
		"plan_code",
		"quantity",
		"price",
		"plan_description",
		"exclude_trial",
		"exclude_setup_fee",
		"trial_days",
		"setup_fee",
		"billing_cycles",
		"tax_id",
		"setup_fee_tax_id",
	)...),
	Object("addons", Each(oneTimeAddonTemplate...)),
	Field("reference_id"),
)

// SubscriptionConfig returns the entity configuration of subscriptions.
func SubscriptionConfig() EntityConfig {
	return EntityConfig{
		Name:    SubscriptionEntity,
		Module:  "subscription",
		Command: "subscriptions",
		IDField: "subscription_id",
		CreateTemplate: subscriptionTemplate.With(Fields(
			"customer_id",
			"coupon_code",
			"auto_collect",
			"starts_at",
			"salesperson_name",
			"custom_fields",
		)...),
		UpdateTemplate: subscriptionTemplate.With(Field("end_of_term"), Field("prorate")),
		BeforeSave:     checkSubscription,
	}
}

// checkSubscription drops the parts of an outgoing subscription the API
// would reject.
func checkSubscription(data *Record) []string {
	var warnings []string

	if data.Has("card_id") && data.Value("card_id") != nil && data.Value("card") != nil {
		data.Delete("card")
	}
	if data.Value("card") != nil {
		card := data.Record("card")
		for _, field := range requiredCardFields {
			if card.Value(field) == nil {
				warnings = append(warnings, WarningIncompleteCard)
				data.Delete("card")
				break
			}
		}
	}

	if data.Value("plan") != nil && data.Record("plan").Value("plan_code") == nil {
		warnings = append(warnings, WarningPlanCode)
		data.Delete("plan")
	}

	if data.Value("addons") != nil {
		addons := data.Records("addons")
		complete := len(addons) > 0
		if items, ok := data.Value("addons").([]any); ok && len(items) != len(addons) {
			complete = false
		}
		for _, addon := range addons {
			if addon.Value("addon_code") == nil {
				complete = false
				break
			}
		}
		if !complete {
			warnings = append(warnings, WarningAddonCode)
			data.Delete("addons")
		}
	}

	return warnings
}

// Subscription is a customer's subscription to a plan.
type Subscription struct {
	*Entity
}

// NewSubscription returns an empty subscription. Saving it creates it.
func (c *Client) NewSubscription() *Subscription {
	return &Subscription{Entity: c.builtin(SubscriptionEntity, SubscriptionConfig)}
}

// LoadSubscription fetches a subscription by id.
func (c *Client) LoadSubscription(ctx context.Context, id string) (*Subscription, error) {
	s := c.NewSubscription()
	if _, err := s.Load(ctx, id); err != nil {
		return nil, err
	}
	return s, nil
}

// ListSubscriptions returns the subscriptions of a customer, or every
// subscription when customerID is empty. Results are never cached.
func (c *Client) ListSubscriptions(ctx context.Context, customerID string) ([]*Subscription, error) {
	query := url.Values{}
	if customerID != "" {
		query.Set("customer_id", customerID)
	}

	env, err := c.transport.get(ctx, "subscriptions", query)
	if err != nil {
		return nil, err
	}

	recs := env.Records("subscriptions")
	out := make([]*Subscription, 0, len(recs))
	for _, rec := range recs {
		s := c.NewSubscription()
		s.SetRecord(rec)
		out = append(out, s)
	}
	return out, nil
}

// ListByCustomer lists the subscriptions of this subscription's customer.
func (s *Subscription) ListByCustomer(ctx context.Context) ([]*Subscription, error) {
	customerID := s.CustomerID()
	if customerID == "" {
		return nil, fmt.Errorf("list subscriptions: %w: customer_id", ErrMissingID)
	}
	return s.client.ListSubscriptions(ctx, customerID)
}

// Status returns the subscription status, e.g. "live" or "non_renewing".
func (s *Subscription) Status() string { return toString(s.Get("status")) }

// CustomerID returns customer_id, falling back to the nested customer.
func (s *Subscription) CustomerID() string {
	if id := toString(s.Get("customer_id")); id != "" {
		return id
	}
	return s.Record().Record("customer").String("customer_id")
}

// PlanCode returns the code of the subscribed plan.
func (s *Subscription) PlanCode() string {
	return s.Record().Record("plan").String("plan_code")
}

// SetCustomerID sets the subscribing customer. It is sent on create only.
func (s *Subscription) SetCustomerID(id string) { s.Set("customer_id", id) }

// SetPlan subscribes to code. A quantity of 0 leaves it to the API.
func (s *Subscription) SetPlan(code string, quantity int) {
	plan := RecordOf("plan_code", code)
	if quantity > 0 {
		plan.Set("quantity", quantity)
	}
	s.Set("plan", plan)
}

// SetCard sets the card to charge. It is dropped on save when a card id is
// also set.
func (s *Subscription) SetCard(card Card) error {
	rec, err := Encode(card)
	if err != nil {
		return err
	}
	s.Set("card", rec)
	return nil
}

// SetCardID charges a card already stored in Zoho.
func (s *Subscription) SetCardID(id string) { s.Set("card_id", id) }

// AddAddon appends a recurring addon line.
func (s *Subscription) AddAddon(code string, quantity int) {
	addon := RecordOf("addon_code", code)
	if quantity > 0 {
		addon.Set("quantity", quantity)
	}
	items, _ := s.Get("addons").([]any)
	s.Set("addons", append(append([]any(nil), items...), addon))
}

// SetCouponCode applies a coupon on create.
func (s *Subscription) SetCouponCode(code string) { s.Set("coupon_code", code) }

// SetReferenceID sets the caller's own reference for the subscription.
func (s *Subscription) SetReferenceID(id string) { s.Set("reference_id", id) }

// SetAutoCollect controls whether invoices are charged automatically.
func (s *Subscription) SetAutoCollect(auto bool) { s.Set("auto_collect", auto) }

// SetStartsAt sets the start date, sent as yyyy-mm-dd.
func (s *Subscription) SetStartsAt(t time.Time) { s.Set("starts_at", t.Format(time.DateOnly)) }

// BuyOneTimeAddon charges a single one-time addon. exchangeRate may be nil.
func (s *Subscription) BuyOneTimeAddon(ctx context.Context, addon OneTimeAddon, exchangeRate *float64) (*Record, error) {
	rec, err := Encode(addon)
	if err != nil {
		return nil, s.fail(err)
	}
	return s.buyOneTimeAddons(ctx, []any{rec}, exchangeRate)
}

// BuyOneTimeAddons charges several one-time addons in one request. Each
// line is reduced to addon_code, quantity, price and tax_id.
func (s *Subscription) BuyOneTimeAddons(ctx context.Context, addons []OneTimeAddon, exchangeRate *float64) (*Record, error) {
	items := make([]any, 0, len(addons))
	for _, addon := range addons {
		rec, err := Encode(addon)
		if err != nil {
			return nil, s.fail(err)
		}
		items = append(items, ShapeRecord(rec, oneTimeAddonTemplate))
	}
	return s.buyOneTimeAddons(ctx, items, exchangeRate)
}

func (s *Subscription) buyOneTimeAddons(ctx context.Context, items []any, exchangeRate *float64) (*Record, error) {
	body := RecordOf("addons", items)
	if exchangeRate != nil {
		body.Set("exchange_rate", *exchangeRate)
	}
	return s.action(ctx, "buyonetimeaddon", body)
}

// AssociateCoupon applies a coupon to the subscription.
func (s *Subscription) AssociateCoupon(ctx context.Context, couponCode string) (*Record, error) {
	return s.action(ctx, "coupons/{1}", nil, couponCode)
}

// Cancel cancels immediately, or at the end of the current term when atEnd
// is set (the status then becomes non_renewing).
func (s *Subscription) Cancel(ctx context.Context, atEnd bool) (*Record, error) {
	return s.action(ctx, "cancel?cancel_at_end="+strconv.FormatBool(atEnd), nil)
}

// AddCharge charges a one-time amount.
func (s *Subscription) AddCharge(ctx context.Context, amount float64, description string) (*Record, error) {
	return s.action(ctx, "charge", RecordOf("amount", amount, "description", description))
}

// Reactivate reactivates a non_renewing subscription.
func (s *Subscription) Reactivate(ctx context.Context) (*Record, error) {
	return s.action(ctx, "reactivate", nil)
}

// Postpone moves the next renewal to renewalAt.
func (s *Subscription) Postpone(ctx context.Context, renewalAt time.Time) (*Record, error) {
	return s.action(ctx, "postpone", RecordOf("renewal_at", renewalAt.Format(time.DateOnly)))
}

// Delete removes the subscription.
func (s *Subscription) Delete(ctx context.Context) error {
	if s.IsNew() {
		return s.fail(fmt.Errorf("delete %s: %w", s.config.Name, ErrMissingID))
	}
	_, err := s.Do(ctx, http.MethodDelete, s.memberPath(), nil)
	return err
}
