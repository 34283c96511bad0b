package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aaleksaaleksic/food-ordering-system/internal/client/guard"
	"github.com/aaleksaaleksic/food-ordering-system/internal/client/model"
	"github.com/aaleksaaleksic/food-ordering-system/internal/client/resources"
	"github.com/aaleksaaleksic/food-ordering-system/internal/domain"
)

func newUsersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage user accounts and their permissions",
	}
	cmd.AddCommand(
		newUsersListCmd(app),
		newUsersGetCmd(app),
		newUsersCreateCmd(app),
		newUsersUpdateCmd(app),
		newUsersDeleteCmd(app),
	)
	return cmd
}

func newUsersListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		PreRunE: requireAccess(app, "/users", guard.Policy{
			Permissions:    []domain.Permission{domain.PermReadUsers},
			NotifyOnDenied: true,
		}),
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := app.Users.List(cmd.Context())
			if err != nil {
				return err
			}
			for i := range users {
				printUser(app, &users[i])
			}
			return nil
		},
	}
}

func newUsersGetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one user",
		Args:  cobra.ExactArgs(1),
		PreRunE: requireAccess(app, "/users", guard.Policy{
			Permissions:    []domain.Permission{domain.PermReadUsers},
			NotifyOnDenied: true,
		}),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseUserID(args[0])
			if err != nil {
				return err
			}
			user, err := app.Users.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			printUser(app, user)
			return nil
		},
	}
}

func newUsersCreateCmd(app *App) *cobra.Command {
	input := resources.UserInput{}
	var permissions []string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		Args:  cobra.NoArgs,
		PreRunE: requireAccess(app, "/users/new", guard.Policy{
			Permissions:    []domain.Permission{domain.PermCreateUsers},
			NotifyOnDenied: true,
		}),
		RunE: func(cmd *cobra.Command, args []string) error {
			input.Permissions = permissions
			user, err := app.Users.Create(cmd.Context(), input)
			if err != nil {
				return err
			}
			printUser(app, user)
			return nil
		},
	}
	cmd.Flags().StringVar(&input.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&input.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&input.Email, "email", "", "email address")
	cmd.Flags().StringVar(&input.Password, "password", "", "initial password")
	cmd.Flags().StringArrayVar(&permissions, "permission", nil, "granted permission tag (repeatable)")
	for _, flag := range []string{"first-name", "last-name", "email", "password"} {
		_ = cmd.MarkFlagRequired(flag)
	}
	return cmd
}

func newUsersUpdateCmd(app *App) *cobra.Command {
	input := resources.UserInput{}
	var permissions []string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a user",
		Args:  cobra.ExactArgs(1),
		PreRunE: requireAccess(app, "/users", guard.Policy{
			Permissions:    []domain.Permission{domain.PermUpdateUsers},
			NotifyOnDenied: true,
		}),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseUserID(args[0])
			if err != nil {
				return err
			}
			input.Permissions = permissions
			user, err := app.Users.Update(cmd.Context(), id, input)
			if err != nil {
				return err
			}
			printUser(app, user)
			return nil
		},
	}
	cmd.Flags().StringVar(&input.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&input.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&input.Email, "email", "", "email address")
	cmd.Flags().StringVar(&input.Password, "password", "", "new password (empty keeps the current one)")
	cmd.Flags().StringArrayVar(&permissions, "permission", nil, "granted permission tag (repeatable)")
	return cmd
}

func newUsersDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		PreRunE: requireAccess(app, "/users", guard.Policy{
			Permissions:    []domain.Permission{domain.PermDeleteUsers},
			NotifyOnDenied: true,
		}),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseUserID(args[0])
			if err != nil {
				return err
			}
			if err := app.Users.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "User %d deleted\n", id)
			return nil
		},
	}
}

func parseUserID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid user id %q", raw)
	}
	return id, nil
}

func printUser(app *App, user *model.User) {
	fmt.Fprintf(app.Out, "#%d %s <%s> [%s]\n",
		user.ID, user.FullName, user.Email, strings.Join(user.Permissions, ", "))
}
