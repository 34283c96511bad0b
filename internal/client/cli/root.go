package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aaleksaaleksic/food-ordering-system/internal/client/guard"
)

// NewRootCmd assembles the command tree over a wired App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "foodctl",
		Short:         "Command-line client for the food ordering service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newLoginCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newOrdersCmd(app),
		newUsersCmd(app),
		newDishesCmd(app),
		newErrorsCmd(app),
	)
	return root
}

// requireAccess evaluates the guard for a command and turns anything but a
// render decision into an error, printing where a browser would have
// navigated.
func requireAccess(app *App, commandPath string, policy guard.Policy) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		decision := app.Guard.Evaluate(cmd.Context(), commandPath, policy)
		switch decision.Kind {
		case guard.Render:
			return nil
		case guard.Loading:
			return fmt.Errorf("session check still in progress, try again")
		case guard.Redirect:
			return fmt.Errorf("not allowed here, go to %s", decision.Target)
		default:
			return fmt.Errorf("access denied")
		}
	}
}
