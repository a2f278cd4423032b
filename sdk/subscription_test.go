package sdk

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitriy-luch/zoho-subscription-api/sdk/testdata"
)

func TestCheckSubscription(t *testing.T) {
	card := func() *Record {
		rec, _ := Encode(testdata.CompleteCard())
		return rec
	}

	tests := []struct {
		name         string
		data         *Record
		wantWarnings []string
		wantKeys     []string
	}{
		{
			name:     "complete card is kept",
			data:     RecordOf("card", card(), "plan", RecordOf("plan_code", "basic")),
			wantKeys: []string{"card", "plan"},
		},
		{
			name:     "card dropped silently when card_id is set",
			data:     RecordOf("card_id", "903", "card", card()),
			wantKeys: []string{"card_id"},
		},
		{
			name:         "incomplete card",
			data:         RecordOf("card", card().Set("zip", nil), "reference_id", "r"),
			wantWarnings: []string{WarningIncompleteCard},
			wantKeys:     []string{"reference_id"},
		},
		{
			name:         "card missing a field",
			data:         RecordOf("card", RecordOf("card_number", "4111")),
			wantWarnings: []string{WarningIncompleteCard},
			wantKeys:     []string{},
		},
		{
			name:         "plan without code",
			data:         RecordOf("plan", RecordOf("quantity", 1)),
			wantWarnings: []string{WarningPlanCode},
			wantKeys:     []string{},
		},
		{
			name:     "addons with codes",
			data:     RecordOf("addons", []any{RecordOf("addon_code", "a"), RecordOf("addon_code", "b", "quantity", 2)}),
			wantKeys: []string{"addons"},
		},
		{
			name:         "one addon without code",
			data:         RecordOf("addons", []any{RecordOf("addon_code", "a"), RecordOf("quantity", 2)}),
			wantWarnings: []string{WarningAddonCode},
			wantKeys:     []string{},
		},
		{
			name:         "empty addons",
			data:         RecordOf("addons", []any{}),
			wantWarnings: []string{WarningAddonCode},
			wantKeys:     []string{},
		},
		{
			name:         "addon that is not a record",
			data:         RecordOf("addons", []any{"a"}),
			wantWarnings: []string{WarningAddonCode},
			wantKeys:     []string{},
		},
		{
			name:         "everything wrong",
			data:         RecordOf("card", NewRecord(), "plan", NewRecord(), "addons", []any{NewRecord()}),
			wantWarnings: []string{WarningIncompleteCard, WarningPlanCode, WarningAddonCode},
			wantKeys:     []string{},
		},
		{
			name:     "nil parts are left alone",
			data:     RecordOf("card", nil, "plan", nil, "addons", nil),
			wantKeys: []string{"card", "plan", "addons"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings := checkSubscription(tt.data)
			assert.Equal(t, tt.wantWarnings, warnings)
			keys := tt.data.Keys()
			if keys == nil {
				keys = []string{}
			}
			assert.Equal(t, tt.wantKeys, keys)
		})
	}
}

func TestSubscriptionSaveDropsInvalidParts(t *testing.T) {
	client, server := newTestClient(t)

	sub := client.NewSubscription()
	sub.SetCustomerID(testdata.CustomerID)
	sub.SetPlan("basic-monthly", 1)
	require.NoError(t, sub.SetCard(Card{CardNumber: "4111111111111111"}))
	sub.AddAddon("extra-user", 2)
	sub.Set("addons", append(sub.Get("addons").([]any), RecordOf("quantity", 1)))

	result, err := sub.Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{WarningIncompleteCard, WarningAddonCode}, result.Warnings)

	body := testdata.RequireJSONBody(t, server.LastRequest())
	assert.NotContains(t, body, "card")
	assert.NotContains(t, body, "addons")
	assert.Contains(t, body, "plan")
}

func TestSubscriptionSaveWithCompleteCard(t *testing.T) {
	client, server := newTestClient(t)

	sub := client.NewSubscription()
	sub.SetCustomerID(testdata.CustomerID)
	sub.SetPlan("basic-monthly", 0)
	require.NoError(t, sub.SetCard(Card{
		CardNumber:     "4111111111111111",
		CVV:            "123",
		ExpiryMonth:    10,
		ExpiryYear:     2030,
		PaymentGateway: "test_gateway",
		FirstName:      "Ben",
		Street:         "Harrington Bay Street",
		City:           "Salt Lake City",
		State:          "Utah",
		Zip:            "92612",
		Country:        "U.S.A",
	}))
	sub.SetCouponCode("WELCOME")
	sub.SetAutoCollect(true)
	sub.SetStartsAt(time.Date(2026, 11, 1, 15, 0, 0, 0, time.UTC))

	result, err := sub.Save(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)

	body := testdata.RequireJSONBody(t, server.LastRequest())
	card := body["card"].(map[string]interface{})
	assert.Equal(t, "Ben", card["first_name"])
	assert.NotContains(t, card, "last_name")
	assert.Equal(t, "WELCOME", body["coupon_code"])
	assert.Equal(t, true, body["auto_collect"])
	assert.Equal(t, "2026-11-01", body["starts_at"])
	assert.Equal(t, map[string]interface{}{"plan_code": "basic-monthly"}, body["plan"])
}

func TestLoadSubscription(t *testing.T) {
	client, _ := newTestClient(t)

	sub, err := client.LoadSubscription(context.Background(), testdata.SubscriptionID)
	require.NoError(t, err)
	assert.Equal(t, "live", sub.Status())
	assert.Equal(t, testdata.CustomerID, sub.CustomerID())
	assert.Equal(t, "basic-monthly", sub.PlanCode())

	_, err = client.LoadSubscription(context.Background(), "missing")
	assert.True(t, IsNotFound(err))
}

func TestSubscriptionCustomerIDFallsBackToNestedCustomer(t *testing.T) {
	client, _ := newTestClient(t)

	sub := client.NewSubscription()
	sub.SetRecord(RecordOf("customer", RecordOf("customer_id", "42")))
	assert.Equal(t, "42", sub.CustomerID())
}

func TestListSubscriptions(t *testing.T) {
	client, server := newTestClient(t, withMemoryCache)
	ctx := context.Background()

	subs, err := client.ListSubscriptions(ctx, testdata.CustomerID)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, "customer_id="+testdata.CustomerID, server.LastRequest().Query)
	assert.Equal(t, testdata.SubscriptionID, subs[0].ID())
	assert.Equal(t, "non_renewing", subs[1].Status())

	all, err := client.ListSubscriptions(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Empty(t, server.LastRequest().Query)

	// never cached
	_, err = client.ListSubscriptions(ctx, testdata.CustomerID)
	require.NoError(t, err)
	assert.Equal(t, 3, server.GetRequestCount())
}

func TestListByCustomer(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	sub, err := client.LoadSubscription(ctx, testdata.SubscriptionID)
	require.NoError(t, err)

	subs, err := sub.ListByCustomer(ctx)
	require.NoError(t, err)
	assert.Len(t, subs, 2)

	_, err = client.NewSubscription().ListByCustomer(ctx)
	assert.ErrorIs(t, err, ErrMissingID)
}

func TestSubscriptionActions(t *testing.T) {
	price := 25.0
	qty := 2
	rate := 1.5

	tests := []struct {
		name      string
		run       func(ctx context.Context, s *Subscription) (*Record, error)
		wantPath  string
		wantQuery string
		wantBody  map[string]interface{}
	}{
		{
			name:      "cancel now",
			run:       func(ctx context.Context, s *Subscription) (*Record, error) { return s.Cancel(ctx, false) },
			wantPath:  "cancel",
			wantQuery: "cancel_at_end=false",
		},
		{
			name:      "cancel at end",
			run:       func(ctx context.Context, s *Subscription) (*Record, error) { return s.Cancel(ctx, true) },
			wantPath:  "cancel",
			wantQuery: "cancel_at_end=true",
		},
		{
			name: "add charge",
			run: func(ctx context.Context, s *Subscription) (*Record, error) {
				return s.AddCharge(ctx, 12.5, "Setup")
			},
			wantPath: "charge",
			wantBody: map[string]interface{}{"amount": 12.5, "description": "Setup"},
		},
		{
			name:     "reactivate",
			run:      func(ctx context.Context, s *Subscription) (*Record, error) { return s.Reactivate(ctx) },
			wantPath: "reactivate",
		},
		{
			name: "postpone",
			run: func(ctx context.Context, s *Subscription) (*Record, error) {
				return s.Postpone(ctx, time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC))
			},
			wantPath: "postpone",
			wantBody: map[string]interface{}{"renewal_at": "2026-12-01"},
		},
		{
			name: "associate coupon",
			run: func(ctx context.Context, s *Subscription) (*Record, error) {
				return s.AssociateCoupon(ctx, "SAVE 10")
			},
			wantPath: "coupons/SAVE 10",
		},
		{
			name: "buy one-time addon",
			run: func(ctx context.Context, s *Subscription) (*Record, error) {
				return s.BuyOneTimeAddon(ctx, OneTimeAddon{AddonCode: "setup-help", Quantity: &qty}, nil)
			},
			wantPath: "buyonetimeaddon",
			wantBody: map[string]interface{}{
				"addons": []interface{}{map[string]interface{}{"addon_code": "setup-help", "quantity": float64(2)}},
			},
		},
		{
			name: "buy one-time addons",
			run: func(ctx context.Context, s *Subscription) (*Record, error) {
				return s.BuyOneTimeAddons(ctx, []OneTimeAddon{
					{AddonCode: "setup-help", Price: &price, TaxID: "tax-1"},
					{AddonCode: "training"},
				}, &rate)
			},
			wantPath: "buyonetimeaddon",
			wantBody: map[string]interface{}{
				"addons": []interface{}{
					map[string]interface{}{"addon_code": "setup-help", "price": 25.0, "tax_id": "tax-1"},
					map[string]interface{}{"addon_code": "training"},
				},
				"exchange_rate": 1.5,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, server := newTestClient(t)
			server.WithResponse("POST subscriptions/", http.StatusOK, testdata.Success("subscription", map[string]interface{}{
				"subscription_id": testdata.SubscriptionID,
				"status":          "updated",
			}))

			sub := client.NewSubscription()
			sub.SetID(testdata.SubscriptionID)

			rec, err := tt.run(context.Background(), sub)
			require.NoError(t, err)
			assert.Equal(t, "updated", rec.String("status"))
			assert.Equal(t, "updated", sub.Status(), "actions replace the entity")

			req := server.LastRequest()
			assert.Equal(t, http.MethodPost, req.Method)
			assert.Equal(t, "subscriptions/"+testdata.SubscriptionID+"/"+tt.wantPath, req.Path)
			assert.Equal(t, tt.wantQuery, req.Query)
			if tt.wantBody == nil {
				assert.Empty(t, req.Body)
			} else {
				assert.Equal(t, tt.wantBody, testdata.RequireJSONBody(t, req))
			}
		})
	}
}

func TestSubscriptionActionRequiresIdentifier(t *testing.T) {
	client, server := newTestClient(t)

	sub := client.NewSubscription()
	_, err := sub.Reactivate(context.Background())
	assert.ErrorIs(t, err, ErrMissingID)
	assert.True(t, sub.HasError())
	assert.Zero(t, server.GetRequestCount())
}

func TestSubscriptionActionFailureKeepsEntity(t *testing.T) {
	client, server := newTestClient(t)
	server.WithApplicationError("POST subscriptions/", 2031, "The subscription is already cancelled.")
	ctx := context.Background()

	sub, err := client.LoadSubscription(ctx, testdata.SubscriptionID)
	require.NoError(t, err)

	rec, err := sub.Cancel(ctx, false)
	assert.Nil(t, rec)
	assert.True(t, IsApplicationError(err))
	assert.Equal(t, "live", sub.Status())
}

func TestSubscriptionDelete(t *testing.T) {
	client, server := newTestClient(t)
	server.WithResponse("DELETE subscriptions/", http.StatusOK, testdata.Failure(0, "The subscription has been deleted."))
	ctx := context.Background()

	sub := client.NewSubscription()
	sub.SetID(testdata.SubscriptionID)
	require.NoError(t, sub.Delete(ctx))

	req := server.LastRequest()
	assert.Equal(t, http.MethodDelete, req.Method)
	assert.Equal(t, "subscriptions/"+testdata.SubscriptionID, req.Path)

	assert.ErrorIs(t, client.NewSubscription().Delete(ctx), ErrMissingID)
}
