package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dmitriy-luch/zoho-subscription-api/sdk"
)

func main() {
	config := sdk.DefaultConfig(os.Getenv("ZOHO_AUTH_TOKEN"), os.Getenv("ZOHO_ORGANIZATION_ID")).
		WithTimeout(10 * time.Second)

	client, err := sdk.NewClient(config)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	defer client.Close()

	ctx := context.Background()

	// Example 1: List active monthly plans with their recurring addons
	fmt.Println("--- Example 1: Plans ---")
	plans, err := client.ListPlans(ctx, map[string]any{
		"status":        "active",
		"interval_unit": "months",
	}, true, "recurring")
	if err != nil {
		log.Fatalf("Failed to list plans: %v", err)
	}
	for _, plan := range plans {
		fmt.Printf("✓ %s (%s): %s/month, %d recurring addons\n",
			plan.String("name"), plan.String("plan_code"), plan.String("recurring_price"), len(plan.Records("addons")))
	}
	if len(plans) == 0 {
		fmt.Println("No active monthly plans")
		return
	}

	// Example 2: Subscribe a customer to the first plan
	fmt.Println("\n--- Example 2: New Subscription ---")
	customerID := os.Getenv("ZOHO_CUSTOMER_ID")
	if customerID == "" {
		fmt.Println("Set ZOHO_CUSTOMER_ID to create a subscription")
		return
	}

	sub := client.NewSubscription()
	sub.SetCustomerID(customerID)
	sub.SetPlan(plans[0].String("plan_code"), 1)
	sub.SetStartsAt(time.Now())
	sub.SetAutoCollect(false)

	result, err := sub.Save(ctx)
	if err != nil {
		log.Fatalf("Failed to create subscription: %v", err)
	}
	for _, w := range result.Warnings {
		fmt.Printf("! %s\n", w)
	}
	fmt.Printf("✓ Created subscription %s (status %s)\n", sub.ID(), sub.Status())

	// Example 3: One-time charge and cancellation at term end
	fmt.Println("\n--- Example 3: Actions ---")
	if _, err := sub.AddCharge(ctx, 15, "Onboarding session"); err != nil {
		log.Printf("Charge failed: %v", err)
	} else {
		fmt.Println("✓ Charged 15.00")
	}

	if _, err := sub.Cancel(ctx, true); err != nil {
		log.Printf("Cancel failed: %v", err)
	} else {
		fmt.Printf("✓ Subscription will end with the current term (status %s)\n", sub.Status())
	}

	// Example 4: Typed view
	fmt.Println("\n--- Example 4: Typed View ---")
	info, err := sub.Info()
	if err != nil {
		log.Fatalf("Failed to decode subscription: %v", err)
	}
	pretty, _ := json.MarshalIndent(info, "", "  ")
	fmt.Println(string(pretty))
}
