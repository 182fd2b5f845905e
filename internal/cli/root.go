package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// options are the persistent flags shared by every subcommand.
type options struct {
	configPath string
	apiURL     string
	profile    string
}

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envConfig := os.Getenv("ASSESS_CONFIG")
	if envConfig == "" {
		envConfig = "config/assessctl.yaml"
	}
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "assessctl",
		Short:         "Take tests, review results and administer the assessment platform",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", envConfig, "path to YAML config")
	cmd.PersistentFlags().StringVar(&opts.apiURL, "api-url", os.Getenv("ASSESS_API_URL"), "API base URL (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.profile, "profile", "", "credential profile (overrides config)")

	cmd.AddCommand(newLoginCmd(opts))
	cmd.AddCommand(newLogoutCmd(opts))
	cmd.AddCommand(newWhoamiCmd(opts))
	cmd.AddCommand(newCategoriesCmd())
	cmd.AddCommand(newUsersCmd(opts))
	cmd.AddCommand(newQuestionsCmd(opts))
	cmd.AddCommand(newTakeCmd(opts))
	cmd.AddCommand(newResultsCmd(opts))
	cmd.AddCommand(newRankingsCmd(opts))
	cmd.AddCommand(newArchiveCmd(opts))
	return cmd
}
