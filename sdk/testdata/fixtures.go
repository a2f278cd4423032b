package testdata

// Fixture catalogue served by MockServer. Every call returns fresh maps so
// tests may modify them.

const (
	AuthToken      = "ba4604e8e433g9c892e360d53463oec5"
	OrganizationID = "10234695"

	CustomerID     = "903000000000099"
	SubscriptionID = "903000000045027"
)

// Plans returns three plans: two monthly and one yearly, one of them
// inactive. basic-monthly references one addon of each type.
func Plans() []map[string]interface{} {
	return []map[string]interface{}{
		{
			"plan_code":       "basic-monthly",
			"name":            "Basic Monthly",
			"status":          "active",
			"recurring_price": 10,
			"interval":        1,
			"interval_unit":   "months",
			"trial_period":    0,
			"product_id":      "903000000037059",
			"addons": []map[string]interface{}{
				{"addon_code": "extra-user", "name": "Extra User"},
				{"addon_code": "setup-help", "name": "Setup Help"},
			},
		},
		{
			"plan_code":       "pro-monthly",
			"name":            "Pro Monthly",
			"status":          "active",
			"recurring_price": 20,
			"interval":        1,
			"interval_unit":   "months",
			"trial_period":    14,
			"product_id":      "903000000037059",
			"addons": []map[string]interface{}{
				{"addon_code": "extra-user", "name": "Extra User"},
			},
		},
		{
			"plan_code":       "basic-yearly",
			"name":            "Basic Yearly",
			"status":          "inactive",
			"recurring_price": "100",
			"interval":        1,
			"interval_unit":   "years",
			"trial_period":    0,
			"product_id":      "903000000037059",
			"addons":          []map[string]interface{}{},
		},
	}
}

// Addons returns a recurring and a one-time addon.
func Addons() []map[string]interface{} {
	return []map[string]interface{}{
		{
			"addon_code":     "extra-user",
			"name":           "Extra User",
			"type":           "recurring",
			"unit_name":      "user",
			"pricing_scheme": "unit",
			"price":          5,
			"interval_unit":  "monthly",
			"status":         "active",
		},
		{
			"addon_code":     "setup-help",
			"name":           "Setup Help",
			"type":           "one_time",
			"unit_name":      "session",
			"pricing_scheme": "unit",
			"price":          50,
			"status":         "active",
		},
	}
}

// Subscriptions returns two subscriptions of CustomerID and one of another
// customer.
func Subscriptions() []map[string]interface{} {
	return []map[string]interface{}{
		{
			"subscription_id":      SubscriptionID,
			"name":                 "Basic Monthly",
			"status":               "live",
			"amount":               10,
			"customer_id":          CustomerID,
			"current_term_ends_at": "2026-11-01",
			"next_billing_at":      "2026-11-01",
			"reference_id":         "ref-1",
			"plan": map[string]interface{}{
				"plan_code": "basic-monthly",
				"quantity":  1,
				"price":     10,
			},
			"customer": map[string]interface{}{
				"customer_id":  CustomerID,
				"display_name": "Bowman Furniture",
			},
		},
		{
			"subscription_id": "903000000045028",
			"name":            "Pro Monthly",
			"status":          "non_renewing",
			"amount":          20,
			"customer_id":     CustomerID,
			"plan": map[string]interface{}{
				"plan_code": "pro-monthly",
				"quantity":  1,
			},
		},
		{
			"subscription_id": "903000000045099",
			"name":            "Basic Yearly",
			"status":          "cancelled",
			"amount":          100,
			"customer_id":     "903000000000100",
			"plan": map[string]interface{}{
				"plan_code": "basic-yearly",
			},
		},
	}
}

// CompleteCard returns every card field the API requires.
func CompleteCard() map[string]interface{} {
	return map[string]interface{}{
		"card_number":     "4111111111111111",
		"cvv_number":      "123",
		"expiry_month":    10,
		"expiry_year":     2030,
		"payment_gateway": "test_gateway",
		"street":          "Harrington Bay Street",
		"city":            "Salt Lake City",
		"state":           "Utah",
		"zip":             "92612",
		"country":         "U.S.A",
	}
}
