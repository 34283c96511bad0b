package cli

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aaleksaaleksic/food-ordering-system/internal/client/guard"
	"github.com/aaleksaaleksic/food-ordering-system/internal/client/model"
	"github.com/aaleksaaleksic/food-ordering-system/internal/client/query"
	"github.com/aaleksaaleksic/food-ordering-system/internal/client/resources"
	"github.com/aaleksaaleksic/food-ordering-system/internal/domain"
)

func newOrdersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Search, place, schedule, track, and cancel orders",
	}
	cmd.AddCommand(
		newOrdersListCmd(app),
		newOrdersPlaceCmd(app),
		newOrdersScheduleCmd(app),
		newOrdersTrackCmd(app),
		newOrdersCancelCmd(app),
	)
	return cmd
}

func newOrdersListCmd(app *App) *cobra.Command {
	var (
		statuses []string
		from     string
		to       string
		userID   int64
		watch    bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Search orders",
		Args:  cobra.NoArgs,
		PreRunE: requireAccess(app, "/orders", guard.Policy{
			Permissions:    []domain.Permission{domain.PermSearchOrder},
			NotifyOnDenied: true,
		}),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := resources.OrderFilter{Statuses: statuses}
			var err error
			if filter.DateFrom, err = parseFlagTime(from); err != nil {
				return err
			}
			if filter.DateTo, err = parseFlagTime(to); err != nil {
				return err
			}
			if userID > 0 {
				filter.UserID = &userID
			}

			printList := func() error {
				orders, err := app.Orders.Search(cmd.Context(), filter)
				if err != nil {
					return err
				}
				for i := range orders {
					printOrder(app, &orders[i])
				}
				return nil
			}

			if err := printList(); err != nil {
				return err
			}
			if !watch {
				return nil
			}

			poller := app.Orders.PollList(filter)
			poller.Start(cmd.Context())
			defer poller.Stop()
			return watchEntry(app, cmd, query.OrdersListInterval, printList)
		},
	}
	cmd.Flags().StringArrayVar(&statuses, "status", nil, "order status filter (repeatable)")
	cmd.Flags().StringVar(&from, "from", "", "created-after filter (RFC 3339 or YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "created-before filter (RFC 3339 or YYYY-MM-DD)")
	cmd.Flags().Int64Var(&userID, "user", 0, "owning user id (administrators only)")
	cmd.Flags().BoolVar(&watch, "watch", false, "keep the list live")
	return cmd
}

func newOrdersPlaceCmd(app *App) *cobra.Command {
	var items []string

	cmd := &cobra.Command{
		Use:   "place",
		Short: "Place an immediate order",
		Args:  cobra.NoArgs,
		PreRunE: requireAccess(app, "/orders/new", guard.Policy{
			Permissions:    []domain.Permission{domain.PermPlaceOrder},
			NotifyOnDenied: true,
		}),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := parseItems(items)
			if err != nil {
				return err
			}
			order, err := app.Orders.Place(cmd.Context(), inputs)
			if err != nil {
				return err
			}
			printOrder(app, order)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&items, "item", nil, "dish and quantity as dishID:qty (repeatable)")
	_ = cmd.MarkFlagRequired("item")
	return cmd
}

func newOrdersScheduleCmd(app *App) *cobra.Command {
	var (
		items []string
		at    string
	)

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Schedule an order for later",
		Args:  cobra.NoArgs,
		PreRunE: requireAccess(app, "/orders/schedule", guard.Policy{
			Permissions:    []domain.Permission{domain.PermScheduleOrder},
			NotifyOnDenied: true,
		}),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := parseItems(items)
			if err != nil {
				return err
			}
			when, err := time.Parse(time.RFC3339, at)
			if err != nil {
				return fmt.Errorf("invalid --at, want RFC 3339: %w", err)
			}
			order, err := app.Orders.Schedule(cmd.Context(), inputs, when)
			if err != nil {
				return err
			}
			printOrder(app, order)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&items, "item", nil, "dish and quantity as dishID:qty (repeatable)")
	cmd.Flags().StringVar(&at, "at", "", "target time, RFC 3339")
	_ = cmd.MarkFlagRequired("item")
	_ = cmd.MarkFlagRequired("at")
	return cmd
}

func newOrdersTrackCmd(app *App) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "track <id>",
		Short: "Show one order",
		Args:  cobra.ExactArgs(1),
		PreRunE: requireAccess(app, "/orders", guard.Policy{
			Permissions:    []domain.Permission{domain.PermTrackOrder},
			NotifyOnDenied: true,
		}),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid order id %q", args[0])
			}

			printDetail := func() error {
				order, err := app.Orders.Track(cmd.Context(), id)
				if err != nil {
					return err
				}
				printOrder(app, order)
				return nil
			}

			if err := printDetail(); err != nil {
				return err
			}
			if !watch {
				return nil
			}

			poller := app.Orders.PollDetail(id)
			poller.Start(cmd.Context())
			defer poller.Stop()
			return watchEntry(app, cmd, query.OrderDetailInterval, printDetail)
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "keep the order live")
	return cmd
}

func newOrdersCancelCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel an order still waiting to be prepared",
		Args:  cobra.ExactArgs(1),
		PreRunE: requireAccess(app, "/orders", guard.Policy{
			Permissions:    []domain.Permission{domain.PermCancelOrder},
			NotifyOnDenied: true,
		}),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid order id %q", args[0])
			}
			order, err := app.Orders.Cancel(cmd.Context(), id)
			if err != nil {
				return err
			}
			printOrder(app, order)
			return nil
		},
	}
}

// watchEntry reprints on every poll interval until interrupted.
func watchEntry(app *App, cmd *cobra.Command, interval time.Duration, print func() error) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-cmd.Context().Done():
			return nil
		case <-sigCh:
			return nil
		case <-ticker.C:
			fmt.Fprintln(app.Out, "---")
			if err := print(); err != nil {
				fmt.Fprintf(app.Out, "refresh failed: %v\n", err)
			}
		}
	}
}

func parseItems(raw []string) ([]model.OrderItemInput, error) {
	inputs := make([]model.OrderItemInput, 0, len(raw))
	for _, item := range raw {
		parts := strings.SplitN(item, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid --item %q, want dishID:qty", item)
		}
		dishID, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid dish id in %q", item)
		}
		qty, err := strconv.Atoi(parts[1])
		if err != nil || qty <= 0 {
			return nil, fmt.Errorf("invalid quantity in %q", item)
		}
		inputs = append(inputs, model.OrderItemInput{DishID: dishID, Quantity: qty})
	}
	return inputs, nil
}

func parseFlagTime(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		t, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, fmt.Errorf("invalid time %q, want RFC 3339 or YYYY-MM-DD", raw)
		}
	}
	return &t, nil
}

func printOrder(app *App, order *model.Order) {
	fmt.Fprintf(app.Out, "#%d %s | %s | %d items | %.2f (by %s)\n",
		order.ID, order.StatusDisplayName, order.CreatedAt.Format(time.RFC3339),
		order.TotalItems, order.TotalPrice, order.CreatedBy.FullName)
	for _, item := range order.Items {
		fmt.Fprintf(app.Out, "    %dx %s @ %.2f\n", item.Quantity, item.Dish.Name, item.PriceAtTime)
	}
	if order.ScheduledFor != nil {
		fmt.Fprintf(app.Out, "    scheduled for %s\n", order.ScheduledFor.Format(time.RFC3339))
	}
}
