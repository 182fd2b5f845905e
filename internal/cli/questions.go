package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"assessment-client/internal/app"
	"github.com/spf13/cobra"
)

func newQuestionsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "questions",
		Short: "Manage the question bank (admin)",
	}
	cmd.AddCommand(newQuestionsListCmd(opts))
	cmd.AddCommand(newQuestionsUploadCmd(opts))
	cmd.AddCommand(newQuestionsDeleteCmd(opts))
	return cmd
}

func newQuestionsListCmd(opts *options) *cobra.Command {
	var category, subcategory string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List questions with their answers",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(opts)
			if err != nil {
				return err
			}
			defer e.Close()

			bank := app.NewQuestionBank(e.client)
			if err := bank.Load(cmd.Context()); err != nil {
				return err
			}
			questions := bank.Questions(category, subcategory)
			if len(questions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No questions found.")
				return nil
			}
			catalog := app.DefaultCatalog()
			tw := newTable(cmd.OutOrStdout(), "ID", "TEST", "QUESTION", "OPTIONS", "ANSWER")
			for _, q := range questions {
				row(tw, q.ID, catalog.Label(q.Category, q.Subcategory), q.Prompt, strings.Join(q.Options, " | "), q.CorrectAnswer)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "only this category")
	cmd.Flags().StringVar(&subcategory, "subcategory", "", "only this subcategory")
	return cmd
}

func newQuestionsUploadCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "upload FILE",
		Short: "Upload a question file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(opts)
			if err != nil {
				return err
			}
			defer e.Close()

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			bank := app.NewQuestionBank(e.client)
			summary, err := bank.Upload(cmd.Context(), filepath.Base(args[0]), f)
			if err != nil {
				return err
			}
			msg := summary.Message
			if msg == "" {
				msg = "Questions uploaded"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d imported, %d in bank\n", msg, summary.Imported, len(bank.Questions("", "")))
			return nil
		},
	}
}

func newQuestionsDeleteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a question",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(opts)
			if err != nil {
				return err
			}
			defer e.Close()

			if err := app.NewQuestionBank(e.client).Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}
