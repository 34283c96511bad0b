package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aaleksaaleksic/food-ordering-system/internal/client/guard"
	"github.com/aaleksaaleksic/food-ordering-system/internal/client/model"
	"github.com/aaleksaaleksic/food-ordering-system/internal/client/permissions"
	"github.com/aaleksaaleksic/food-ordering-system/internal/domain"
)

func newErrorsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "errors",
		Short: "Browse the order failure log",
	}
	cmd.AddCommand(
		newErrorsListCmd(app),
		newErrorsCountCmd(app),
		newErrorsOperationCmd(app),
		newErrorsTimeRangeCmd(app),
		newErrorsCleanupCmd(app),
	)
	return cmd
}

func printErrorRecords(app *App, records []model.ErrorRecord) {
	for _, record := range records {
		orderRef := "-"
		if record.OrderID != nil {
			orderRef = fmt.Sprintf("#%d", *record.OrderID)
		}
		fmt.Fprintf(app.Out, "%s %s %s %s (%s)\n",
			record.Timestamp.Format(time.RFC3339), record.Operation,
			orderRef, record.Message, record.User.Email)
	}
}

func newErrorsListCmd(app *App) *cobra.Command {
	var (
		page int
		size int
	)

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List recorded order failures",
		Args:    cobra.NoArgs,
		PreRunE: requireAccess(app, "/errors", guard.Policy{}),
		RunE: func(cmd *cobra.Command, args []string) error {
			// administrators browse everyone's failures, others their own
			isAdmin := false
			if ident, err := app.Identity.Get(cmd.Context()); err == nil {
				if set, err := permissions.NewSet(ident.Permissions); err == nil {
					isAdmin = set.IsAdmin()
				}
			}

			result, err := app.Errors.List(cmd.Context(), isAdmin, page, size)
			if err != nil {
				return err
			}
			printErrorRecords(app, result.Content)
			fmt.Fprintf(app.Out, "page %d/%d, %d total\n",
				result.Number+1, result.TotalPages, result.TotalElements)
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 0, "page index, zero-based")
	cmd.Flags().IntVar(&size, "size", 10, "page size")
	return cmd
}

func newErrorsOperationCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "operation <name>",
		Short: "List failures recorded for one operation",
		Args:  cobra.ExactArgs(1),
		PreRunE: requireAccess(app, "/errors/operation", guard.Policy{
			Permissions:    []domain.Permission{domain.PermReadUsers},
			NotifyOnDenied: true,
		}),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := app.Errors.ByOperation(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printErrorRecords(app, records)
			fmt.Fprintf(app.Out, "%d total\n", len(records))
			return nil
		},
	}
}

func newErrorsTimeRangeCmd(app *App) *cobra.Command {
	var (
		from string
		to   string
	)

	cmd := &cobra.Command{
		Use:   "timerange",
		Short: "List failures recorded inside a time window",
		Args:  cobra.NoArgs,
		PreRunE: requireAccess(app, "/errors/timerange", guard.Policy{
			Permissions:    []domain.Permission{domain.PermReadUsers},
			NotifyOnDenied: true,
		}),
		RunE: func(cmd *cobra.Command, args []string) error {
			fromTime, err := time.Parse(time.RFC3339, from)
			if err != nil {
				return fmt.Errorf("invalid --from: %w", err)
			}
			toTime, err := time.Parse(time.RFC3339, to)
			if err != nil {
				return fmt.Errorf("invalid --to: %w", err)
			}
			records, err := app.Errors.ByTimeRange(cmd.Context(), fromTime, toTime)
			if err != nil {
				return err
			}
			printErrorRecords(app, records)
			fmt.Fprintf(app.Out, "%d total\n", len(records))
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "window start, RFC 3339")
	cmd.Flags().StringVar(&to, "to", "", "window end, RFC 3339")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newErrorsCleanupCmd(app *App) *cobra.Command {
	var olderThan string

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Purge failures older than a cutoff",
		Args:  cobra.NoArgs,
		PreRunE: requireAccess(app, "/errors/cleanup", guard.Policy{
			Permissions:    []domain.Permission{domain.PermDeleteUsers},
			NotifyOnDenied: true,
		}),
		RunE: func(cmd *cobra.Command, args []string) error {
			cutoff, err := time.Parse(time.RFC3339, olderThan)
			if err != nil {
				return fmt.Errorf("invalid --older-than: %w", err)
			}
			result, err := app.Errors.Cleanup(cmd.Context(), cutoff)
			if err != nil {
				return err
			}
			fmt.Fprintln(app.Out, result.Message)
			return nil
		},
	}
	cmd.Flags().StringVar(&olderThan, "older-than", "", "cutoff timestamp, RFC 3339")
	_ = cmd.MarkFlagRequired("older-than")
	return cmd
}

func newErrorsCountCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "count",
		Short:   "Count your recorded order failures",
		Args:    cobra.NoArgs,
		PreRunE: requireAccess(app, "/errors", guard.Policy{}),
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := app.Errors.Count(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(app.Out, count)
			return nil
		},
	}
}
