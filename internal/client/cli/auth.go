package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = func() ([]byte, error) {
	return term.ReadPassword(int(os.Stdin.Fd()))
}

func newLoginCmd(app *App) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Log in and store the session token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				fmt.Fprint(app.Out, "Password: ")
				raw, err := readPassword()
				fmt.Fprintln(app.Out)
				if err != nil {
					return err
				}
				password = string(raw)
			}

			ident, err := app.Auth.Login(cmd.Context(), strings.TrimSpace(args[0]), password)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "Logged in as %s <%s>\n", ident.FullName, ident.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Auth.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(app.Out, "Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current identity and permissions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ident, err := app.Auth.Whoami(cmd.Context())
			if err != nil {
				return fmt.Errorf("no active session: %w", err)
			}
			fmt.Fprintf(app.Out, "%s <%s> (id %d)\n", ident.FullName, ident.Email, ident.ID)
			for _, p := range ident.Permissions {
				fmt.Fprintf(app.Out, "  %s\n", p)
			}
			return nil
		},
	}
}
