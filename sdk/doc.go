// Package sdk provides a Go client for the Zoho Subscriptions REST API.
//
// Billing entities (plans, addons, subscriptions) are exposed as Entity values
// that own an ordered Record of their fields. Outgoing payloads are shaped by
// declarative Templates, so only the fields an endpoint accepts are sent.
// Read operations can be cached through any backend implementing Cache.
//
// # Basic Usage
//
//	client, err := sdk.NewClient(sdk.DefaultConfig(token, organizationID))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	ctx := context.Background()
//
//	// Fetch a plan (cached when a Cache is configured)
//	plan, err := client.GetPlan(ctx, "basic-monthly")
//
//	// Create a subscription
//	sub := client.NewSubscription()
//	sub.SetCustomerID("903000000000099")
//	sub.SetPlan("basic-monthly", 1)
//	result, err := sub.Save(ctx)
//	if err != nil {
//	    log.Printf("save failed: %v", err)
//	}
//	for _, w := range result.Warnings {
//	    log.Printf("dropped from payload: %s", w)
//	}
//
// # Templates
//
// A Template lists the fields transmitted for one operation. Bare fields are
// copied when present and not empty, nested nodes recurse into sub-records,
// and the wildcard node applies a sub-template to every element of a
// collection:
//
//	sdk.NewTemplate(
//	    sdk.Field("reference_id"),
//	    sdk.Object("plan", sdk.Fields("plan_code", "quantity")...),
//	    sdk.Object("addons", sdk.Each(sdk.Fields("addon_code", "quantity")...)),
//	)
//
// Empty values (nil, false, 0, "", "0", empty collections) are dropped from
// bare fields. This mirrors the behavior of the service's reference client
// and is kept for compatibility.
//
// # Errors
//
// Every operation returns an error. Entities additionally keep the last
// failure in a sticky slot (HasError / Err) that is cleared only by the next
// Save or by ClearError. Use errors.Is with the exported sentinels, or
// errors.As with *Error to inspect the failure category:
//
//	var apiErr *sdk.Error
//	if errors.As(err, &apiErr) && apiErr.Type == sdk.ErrorTypeApplication {
//	    log.Printf("zoho rejected the request (code %d): %s", apiErr.Code, apiErr.Message)
//	}
//
// # Extending
//
// New entity types are described by an EntityConfig and registered in a
// Registry; the client resolves entity names through it:
//
//	registry := sdk.DefaultRegistry()
//	registry.Register(sdk.EntityConfig{
//	    Name:           "Customer",
//	    Module:         "customer",
//	    Command:        "customers",
//	    CreateTemplate: sdk.NewTemplate(sdk.Fields("display_name", "email")...),
//	})
//	client, _ := sdk.NewClient(sdk.DefaultConfig(token, org).WithRegistry(registry))
//	customer, err := client.GetEntity(ctx, "Customer", "903000000000099")
package sdk
