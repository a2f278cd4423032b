package sdk

// Typed views of the built-in entities. Records remain the source of truth;
// these structs are for callers who prefer fields to lookups.
//
// Example:
//
//	plans, _ := client.ListPlans(ctx, nil, false, "")
//	infos, err := sdk.DecodeAll[sdk.PlanInfo](plans)

// PlanInfo is the typed form of a plan record.
type PlanInfo struct {
	PlanCode       string      `json:"plan_code"`
	Name           string      `json:"name"`
	Status         string      `json:"status,omitempty"`
	RecurringPrice float64     `json:"recurring_price"`
	Interval       int         `json:"interval"`
	IntervalUnit   string      `json:"interval_unit"`
	BillingCycles  int         `json:"billing_cycles,omitempty"`
	TrialPeriod    int         `json:"trial_period,omitempty"`
	SetupFee       float64     `json:"setup_fee,omitempty"`
	ProductID      string      `json:"product_id,omitempty"`
	TaxID          string      `json:"tax_id,omitempty"`
	Addons         []AddonInfo `json:"addons,omitempty"`
}

// AddonInfo is the typed form of an addon record.
type AddonInfo struct {
	AddonCode     string  `json:"addon_code"`
	Name          string  `json:"name,omitempty"`
	Type          string  `json:"type,omitempty"`
	UnitName      string  `json:"unit_name,omitempty"`
	PricingScheme string  `json:"pricing_scheme,omitempty"`
	Price         float64 `json:"price,omitempty"`
	IntervalUnit  string  `json:"interval_unit,omitempty"`
	Description   string  `json:"description,omitempty"`
}

// SubscriptionInfo is the typed form of a subscription record.
type SubscriptionInfo struct {
	SubscriptionID string  `json:"subscription_id"`
	Name           string  `json:"name,omitempty"`
	Status         string  `json:"status,omitempty"`
	Amount         float64 `json:"amount,omitempty"`
	CustomerID     string  `json:"customer_id,omitempty"`
	PlanCode       string  `json:"plan_code,omitempty"`
	CurrentTermEnd string  `json:"current_term_ends_at,omitempty"`
	NextBillingAt  string  `json:"next_billing_at,omitempty"`
	ReferenceID    string  `json:"reference_id,omitempty"`
}

// Card holds the card fields accepted when creating a subscription.
// Every field except FirstName and LastName is required by the API.
type Card struct {
	CardNumber     string `json:"card_number,omitempty"`
	CVV            string `json:"cvv_number,omitempty"`
	ExpiryMonth    int    `json:"expiry_month,omitempty"`
	ExpiryYear     int    `json:"expiry_year,omitempty"`
	PaymentGateway string `json:"payment_gateway,omitempty"`
	FirstName      string `json:"first_name,omitempty"`
	LastName       string `json:"last_name,omitempty"`
	Street         string `json:"street,omitempty"`
	City           string `json:"city,omitempty"`
	State          string `json:"state,omitempty"`
	Zip            string `json:"zip,omitempty"`
	Country        string `json:"country,omitempty"`
}

// OneTimeAddon is one line of a one-time addon purchase. Nil fields are not
// sent.
type OneTimeAddon struct {
	AddonCode string   `json:"addon_code"`
	Quantity  *int     `json:"quantity,omitempty"`
	Price     *float64 `json:"price,omitempty"`
	TaxID     string   `json:"tax_id,omitempty"`
}

// Info decodes the plan into a PlanInfo.
func (p *Plan) Info() (PlanInfo, error) { return Decode[PlanInfo](p.Record()) }

// Info decodes the addon into an AddonInfo.
func (a *Addon) Info() (AddonInfo, error) { return Decode[AddonInfo](a.Record()) }

// Info decodes the subscription into a SubscriptionInfo. The plan code is
// taken from the nested plan.
func (s *Subscription) Info() (SubscriptionInfo, error) {
	info, err := Decode[SubscriptionInfo](s.Record())
	if err != nil {
		return info, err
	}
	if info.PlanCode == "" {
		info.PlanCode = s.PlanCode()
	}
	return info, nil
}
