package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitriy-luch/zoho-subscription-api/sdk"
)

func newSubscriptionsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subscriptions",
		Aliases: []string{"subs"},
		Short:   "Inspect and manage subscriptions",
	}
	cmd.AddCommand(
		newSubscriptionsGetCmd(a),
		newSubscriptionsListCmd(a),
		newSubscriptionsCreateCmd(a),
		newSubscriptionsCancelCmd(a),
		newSubscriptionsChargeCmd(a),
		newSubscriptionsReactivateCmd(a),
		newSubscriptionsPostponeCmd(a),
		newSubscriptionsCouponCmd(a),
	)
	return cmd
}

func newSubscriptionsGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <subscription-id>",
		Short: "Show one subscription",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sub, err := a.client.LoadSubscription(cmdContext(cmd), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, sub.Record())
		},
	}
}

func newSubscriptionsListCmd(a *app) *cobra.Command {
	var customerID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List subscriptions, all or of one customer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			subs, err := a.client.ListSubscriptions(cmdContext(cmd), customerID)
			if err != nil {
				return err
			}
			records := make([]*sdk.Record, 0, len(subs))
			for _, sub := range subs {
				records = append(records, sub.Record())
			}
			return printJSON(cmd, records)
		},
	}

	cmd.Flags().StringVar(&customerID, "customer", "", "only subscriptions of this customer id")
	return cmd
}

func newSubscriptionsCreateCmd(a *app) *cobra.Command {
	var (
		customerID string
		planCode   string
		quantity   int
		cardID     string
		coupon     string
		reference  string
		startsAt   string
		addons     []string
	)

	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Create a subscription for an existing customer",
		Example: "  zohosub subscriptions create --customer 903000000000099 --plan basic-monthly --addon extra-user:2",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sub := a.client.NewSubscription()
			sub.SetCustomerID(customerID)
			sub.SetPlan(planCode, quantity)
			if cardID != "" {
				sub.SetCardID(cardID)
			}
			if coupon != "" {
				sub.SetCouponCode(coupon)
			}
			if reference != "" {
				sub.SetReferenceID(reference)
			}
			if startsAt != "" {
				t, err := time.Parse(time.DateOnly, startsAt)
				if err != nil {
					return fmt.Errorf("invalid --starts-at: %w", err)
				}
				sub.SetStartsAt(t)
			}
			for _, spec := range addons {
				code, qty, err := parseAddon(spec)
				if err != nil {
					return err
				}
				sub.AddAddon(code, qty)
			}

			result, err := sub.Create(cmdContext(cmd))
			if err != nil {
				return err
			}
			printWarnings(cmd, result.Warnings)
			return printJSON(cmd, result.Record)
		},
	}

	cmd.Flags().StringVar(&customerID, "customer", "", "customer id")
	cmd.Flags().StringVar(&planCode, "plan", "", "plan code")
	cmd.Flags().IntVar(&quantity, "quantity", 0, "plan quantity")
	cmd.Flags().StringVar(&cardID, "card-id", "", "stored card to charge")
	cmd.Flags().StringVar(&coupon, "coupon", "", "coupon code")
	cmd.Flags().StringVar(&reference, "reference", "", "reference id")
	cmd.Flags().StringVar(&startsAt, "starts-at", "", "start date (yyyy-mm-dd)")
	cmd.Flags().StringArrayVar(&addons, "addon", nil, "recurring addon as code[:quantity] (repeatable)")
	_ = cmd.MarkFlagRequired("customer")
	_ = cmd.MarkFlagRequired("plan")
	return cmd
}

// parseAddon splits "code[:quantity]".
func parseAddon(spec string) (string, int, error) {
	code, qty, found := strings.Cut(spec, ":")
	if code == "" {
		return "", 0, fmt.Errorf("invalid addon %q: want code[:quantity]", spec)
	}
	if !found {
		return code, 0, nil
	}
	n, err := strconv.Atoi(qty)
	if err != nil || n < 1 {
		return "", 0, fmt.Errorf("invalid addon quantity in %q", spec)
	}
	return code, n, nil
}

// subscriptionAction builds a command that runs fn against the subscription
// named by the first argument and prints the response envelope.
func subscriptionAction(a *app, use, short string, args cobra.PositionalArgs, fn func(cmd *cobra.Command, sub *sdk.Subscription, args []string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			sub := a.client.NewSubscription()
			sub.SetID(args[0])
			if err := fn(cmd, sub, args[1:]); err != nil {
				return err
			}
			return printJSON(cmd, sub.Envelope())
		},
	}
}

func newSubscriptionsCancelCmd(a *app) *cobra.Command {
	var atEnd bool
	cmd := subscriptionAction(a, "cancel <subscription-id>", "Cancel a subscription", cobra.ExactArgs(1),
		func(cmd *cobra.Command, sub *sdk.Subscription, _ []string) error {
			_, err := sub.Cancel(cmdContext(cmd), atEnd)
			return err
		})
	cmd.Flags().BoolVar(&atEnd, "at-end", false, "cancel at the end of the current term")
	return cmd
}

func newSubscriptionsChargeCmd(a *app) *cobra.Command {
	var (
		amount      float64
		description string
	)
	cmd := subscriptionAction(a, "charge <subscription-id>", "Charge a one-time amount", cobra.ExactArgs(1),
		func(cmd *cobra.Command, sub *sdk.Subscription, _ []string) error {
			if amount <= 0 {
				return fmt.Errorf("--amount must be positive")
			}
			_, err := sub.AddCharge(cmdContext(cmd), amount, description)
			return err
		})
	cmd.Flags().Float64Var(&amount, "amount", 0, "amount to charge")
	cmd.Flags().StringVar(&description, "description", "", "charge description")
	return cmd
}

func newSubscriptionsReactivateCmd(a *app) *cobra.Command {
	return subscriptionAction(a, "reactivate <subscription-id>", "Reactivate a non-renewing subscription", cobra.ExactArgs(1),
		func(cmd *cobra.Command, sub *sdk.Subscription, _ []string) error {
			_, err := sub.Reactivate(cmdContext(cmd))
			return err
		})
}

func newSubscriptionsPostponeCmd(a *app) *cobra.Command {
	var renewalAt string
	cmd := subscriptionAction(a, "postpone <subscription-id>", "Move the next renewal date", cobra.ExactArgs(1),
		func(cmd *cobra.Command, sub *sdk.Subscription, _ []string) error {
			t, err := time.Parse(time.DateOnly, renewalAt)
			if err != nil {
				return fmt.Errorf("invalid --renewal-at: %w", err)
			}
			_, err = sub.Postpone(cmdContext(cmd), t)
			return err
		})
	cmd.Flags().StringVar(&renewalAt, "renewal-at", "", "new renewal date (yyyy-mm-dd)")
	_ = cmd.MarkFlagRequired("renewal-at")
	return cmd
}

func newSubscriptionsCouponCmd(a *app) *cobra.Command {
	return subscriptionAction(a, "coupon <subscription-id> <coupon-code>", "Associate a coupon", cobra.ExactArgs(2),
		func(cmd *cobra.Command, sub *sdk.Subscription, args []string) error {
			_, err := sub.AssociateCoupon(cmdContext(cmd), args[0])
			return err
		})
}
