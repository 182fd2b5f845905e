package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"assessment-client/internal/app"
	"assessment-client/internal/domain"
	"github.com/spf13/cobra"
)

func newLoginCmd(opts *options) *cobra.Command {
	var regno, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(opts)
			if err != nil {
				return err
			}
			defer e.Close()

			if password == "" {
				fmt.Fprint(cmd.OutOrStdout(), "Password: ")
				in := bufio.NewScanner(cmd.InOrStdin())
				if in.Scan() {
					password = strings.TrimSpace(in.Text())
				}
			}
			sess, err := app.NewSessionService(e.client, e.store).Login(cmd.Context(), regno, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s, %s)\n", sess.Account.Name, sess.Account.RegNo, sess.Account.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&regno, "regno", "", "registration number")
	cmd.Flags().StringVar(&password, "password", "", "password (read from stdin when omitted)")
	return cmd
}

func newLogoutCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(opts)
			if err != nil {
				return err
			}
			defer e.Close()
			if err := app.NewSessionService(e.client, e.store).Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(opts)
			if err != nil {
				return err
			}
			defer e.Close()
			sess, err := app.NewSessionService(e.client, e.store).Current(cmd.Context())
			if errors.Is(err, domain.ErrNoSession) {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
				return nil
			}
			if err != nil {
				return err
			}
			a := sess.Account
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) role=%s", a.Name, a.RegNo, a.Role)
			if a.Year != "" || a.Branch != "" || a.Section != "" {
				fmt.Fprintf(cmd.OutOrStdout(), " year=%s branch=%s section=%s", a.Year, a.Branch, a.Section)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
}
