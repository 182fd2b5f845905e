package cli

import (
	"fmt"

	"assessment-client/internal/app"
	"github.com/spf13/cobra"
)

func newCategoriesCmd() *cobra.Command {
	var year string
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List test categories, or the semesters and subjects of a year",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := app.DefaultCatalog()
			out := cmd.OutOrStdout()
			if year != "" {
				semesters := catalog.Semesters(year)
				if len(semesters) == 0 {
					return fmt.Errorf("unknown year %q", year)
				}
				for _, sem := range semesters {
					fmt.Fprintf(out, "%s (%s)\n", sem.Label, sem.Value)
					for _, subj := range catalog.Subjects(sem.Value) {
						fmt.Fprintf(out, "  %-8s %s\n", subj.Value, subj.Label)
					}
				}
				return nil
			}
			for _, cat := range catalog.Categories {
				fmt.Fprintf(out, "%s (%s)\n", cat.Label, cat.Value)
				for _, sub := range cat.Subcategories {
					fmt.Fprintf(out, "  %-18s %s\n", sub.Value, sub.Label)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&year, "year", "", "show semesters and subjects for a year (2nd, 3rd, 4th)")
	return cmd
}
