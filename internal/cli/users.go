package cli

import (
	"fmt"
	"strings"

	"assessment-client/internal/app"
	"assessment-client/internal/domain"
	"github.com/spf13/cobra"
)

func newUsersCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage student logins (admin)",
	}
	cmd.AddCommand(newUsersListCmd(opts))
	cmd.AddCommand(newUsersCreateCmd(opts))
	cmd.AddCommand(newUsersDeleteCmd(opts))
	return cmd
}

func newUsersListCmd(opts *options) *cobra.Command {
	var (
		filter     app.AccountFilter
		showValues bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List student logins",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(opts)
			if err != nil {
				return err
			}
			defer e.Close()

			roster := app.NewRoster(e.client)
			if err := roster.Load(cmd.Context()); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if showValues {
				v := roster.Values()
				fmt.Fprintf(out, "years:    %s\n", strings.Join(v.Years, ", "))
				fmt.Fprintf(out, "branches: %s\n", strings.Join(v.Branches, ", "))
				fmt.Fprintf(out, "sections: %s\n", strings.Join(v.Sections, ", "))
				return nil
			}
			accounts := roster.Accounts(filter)
			if len(accounts) == 0 {
				fmt.Fprintln(out, "No users found.")
				return nil
			}
			tw := newTable(out, "ID", "REGNO", "NAME", "YEAR", "BRANCH", "SECTION", "PHONE")
			for _, a := range accounts {
				row(tw, a.ID, a.RegNo, a.Name, a.Year, a.Branch, a.Section, a.Phone)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&filter.Year, "year", "", "only this year")
	cmd.Flags().StringVar(&filter.Branch, "branch", "", "only this branch")
	cmd.Flags().StringVar(&filter.Section, "section", "", "only this section")
	cmd.Flags().BoolVar(&showValues, "values", false, "print the available filter values instead")
	return cmd
}

func newUsersCreateCmd(opts *options) *cobra.Command {
	var acct domain.NewAccount
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a student login",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(opts)
			if err != nil {
				return err
			}
			defer e.Close()

			created, err := app.NewRoster(e.client).Create(cmd.Context(), acct)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s) id=%s\n", created.Name, created.RegNo, created.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&acct.Name, "name", "", "full name")
	cmd.Flags().StringVar(&acct.RegNo, "regno", "", "registration number")
	cmd.Flags().StringVar(&acct.Password, "password", "", "initial password")
	cmd.Flags().StringVar(&acct.Year, "year", "", "year of study")
	cmd.Flags().StringVar(&acct.Branch, "branch", "", "branch")
	cmd.Flags().StringVar(&acct.Section, "section", "", "section")
	cmd.Flags().StringVar(&acct.Phone, "phone", "", "phone number")
	return cmd
}

func newUsersDeleteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a student login",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(opts)
			if err != nil {
				return err
			}
			defer e.Close()

			if err := app.NewRoster(e.client).Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}
