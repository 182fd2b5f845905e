package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"assessment-client/internal/app"
	"assessment-client/internal/domain"
	"github.com/spf13/cobra"
)

const instructions = `Instructions:
  - Answer each question by typing the option number or the answer text.
  - Press enter on an empty line to skip a question.
  - Type "q" to abandon the test; nothing is submitted.
  - The clock starts now and stops when the test is submitted.`

func newTakeCmd(opts *options) *cobra.Command {
	var category, subcategory string
	cmd := &cobra.Command{
		Use:   "take",
		Short: "Take a test interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(opts)
			if err != nil {
				return err
			}
			defer e.Close()

			flow := app.NewQuizFlow(e.questionSource(), e.client)
			return runTest(cmd, flow, app.DefaultCatalog(), category, subcategory)
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "test category (see categories)")
	cmd.Flags().StringVar(&subcategory, "subcategory", "", "test subcategory")
	return cmd
}

func runTest(cmd *cobra.Command, flow *app.QuizFlow, catalog *app.Catalog, category, subcategory string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	in := bufio.NewScanner(cmd.InOrStdin())

	if err := flow.Select(category, subcategory); err != nil {
		return fmt.Errorf("choose a test with --category and --subcategory: %w", err)
	}
	label := catalog.Label(category, subcategory)
	fmt.Fprintf(out, "%s\n\n%s\n", label, instructions)

	questions, err := flow.Start(ctx)
	if err != nil {
		return err
	}
	if len(questions) == 0 {
		_ = flow.Back()
		return fmt.Errorf("no questions available for %s", label)
	}

	for i, q := range questions {
		fmt.Fprintf(out, "\nQ%d/%d. %s\n", i+1, len(questions), q.Prompt)
		for j, opt := range q.Options {
			fmt.Fprintf(out, "  %d) %s\n", j+1, opt)
		}
		fmt.Fprint(out, "> ")
		if !in.Scan() {
			break
		}
		line := strings.TrimSpace(in.Text())
		switch line {
		case "":
			continue
		case "q":
			if err := flow.Back(); err != nil {
				return err
			}
			fmt.Fprintln(out, "Test abandoned.")
			return nil
		}
		if err := flow.Answer(q.ID, chooseOption(q, line)); err != nil {
			return err
		}
	}

	for {
		outcome, err := flow.Submit(ctx)
		if err == nil {
			return printOutcome(out, label, outcome)
		}
		fmt.Fprintf(out, "Submit failed: %v\nRetry? [y/N] ", err)
		if !in.Scan() || !strings.EqualFold(strings.TrimSpace(in.Text()), "y") {
			return err
		}
	}
}

// chooseOption maps an option number to its text; anything else is taken verbatim.
func chooseOption(q domain.Question, input string) string {
	if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(q.Options) {
		return q.Options[n-1]
	}
	return input
}

func printOutcome(w io.Writer, label string, o app.Outcome) error {
	elapsed, err := app.FormatElapsed(o.Elapsed)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\n%s complete\n", label)
	fmt.Fprintf(w, "Score: %d/%d (%.1f%%)  Grade: %s\n", o.Score.Correct, o.Score.Total, o.Score.Percentage, o.Score.Grade)
	fmt.Fprintf(w, "Time:  %s\n", elapsed)
	return nil
}
