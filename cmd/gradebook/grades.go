package main

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/Veraticus/gradebook/internal/cli"
	"github.com/Veraticus/gradebook/internal/common"
	"github.com/spf13/cobra"
)

func gradesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grades",
		Short: "Record grades",
	}

	cmd.AddCommand(addGradeCmd())

	return cmd
}

func addGradeCmd() *cobra.Command {
	var (
		subject  string
		category string
	)

	cmd := &cobra.Command{
		Use:   "add <id> <grade>",
		Short: "Add a grade for a student",
		Long: `Add a grade between 0 and 100 for a student. With --subject or
--category the grade is also recorded under that subject or category.
Either way it counts toward the overall average.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			grade, err := strconv.ParseFloat(strings.TrimSpace(args[1]), 64)
			if err != nil {
				return common.NewUserError("Invalid grade. Please enter a number.",
					fmt.Errorf("%w: grade %q", common.ErrInvalidInput, args[1]))
			}
			subject = strings.TrimSpace(subject)
			category = strings.TrimSpace(category)

			ws, err := openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = ws.Close() }()

			group := subject
			switch {
			case subject != "":
				err = ws.book.AddSubjectGrade(id, subject, grade)
			case category != "":
				group = category
				err = ws.book.AddCategoryGrade(id, category, grade)
			default:
				err = ws.book.AddGrade(id, grade)
			}
			if err != nil {
				return fmt.Errorf("failed to add grade: %w", cli.ExplainRosterError(id, err))
			}

			if group != "" && !ws.keepsBreakdown() {
				slog.Warn("The text backend keeps only overall grades; use --backend sqlite to keep the breakdown",
					"group", group)
			}
			if err := ws.save(cmd.Context()); err != nil {
				return err
			}

			student, err := ws.book.FindByID(id)
			if err != nil {
				return err
			}
			msg := fmt.Sprintf("Grade %s added for %s", strconv.FormatFloat(grade, 'f', -1, 64), student.Name())
			if group != "" {
				msg += " in " + group
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(msg))
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "record the grade under a subject")
	cmd.Flags().StringVar(&category, "category", "", "record the grade under a weighted category")
	cmd.MarkFlagsMutuallyExclusive("subject", "category")

	return cmd
}
