package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/Veraticus/gradebook/internal/cli"
	"github.com/Veraticus/gradebook/internal/common"
	"github.com/Veraticus/gradebook/internal/model"
	"github.com/Veraticus/gradebook/internal/report"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func studentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "students",
		Short: "Manage students",
		Long:  `Add, list and inspect the students on the roster.`,
	}

	cmd.AddCommand(addStudentCmd())
	cmd.AddCommand(listStudentsCmd())
	cmd.AddCommand(showStudentCmd())

	return cmd
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, common.NewUserError("Invalid ID. Please enter a number.",
			fmt.Errorf("%w: student id %q", common.ErrInvalidInput, arg))
	}
	return id, nil
}

func addStudentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name> <id>",
		Short: "Add a student",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			id, err := parseID(args[1])
			if err != nil {
				return err
			}

			ws, err := openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = ws.Close() }()

			if _, err := ws.book.AddStudent(name, id); err != nil {
				return fmt.Errorf("failed to add student: %w", cli.ExplainRosterError(id, err))
			}
			if err := ws.save(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Student %s (ID: %d) added successfully!", name, id)))
			return nil
		},
	}
}

func listStudentsCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all students",
		Long:  `Display every student with their average, letter grade and overall grades.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}

			ws, err := openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = ws.Close() }()

			out := cmd.OutOrStdout()
			students := ws.book.Students()

			if format != formatText {
				records := make([]model.StudentRecord, 0, len(students))
				for _, s := range students {
					records = append(records, s.Record())
				}
				return encode(out, format, records)
			}

			if len(students) == 0 {
				fmt.Fprintln(out, cli.InfoStyle.Render("No students in the gradebook. Use 'gradebook students add' to add one."))
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			// Header
			headerStyle := lipgloss.NewStyle().Bold(true).Foreground(cli.PrimaryColor)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				headerStyle.Render("ID"),
				headerStyle.Render("Name"),
				headerStyle.Render("Average"),
				headerStyle.Render("Grade"),
				headerStyle.Render("Grades"))

			for _, s := range students {
				fmt.Fprintf(w, "%d\t%s\t%.2f\t%s\t%s\n",
					s.ID(), s.Name(), s.Average(), cli.FormatLetter(s.LetterGrade()), s.FormatGrades())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format (text, json, yaml)")

	return cmd
}

func showStudentCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one student in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ws, err := openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = ws.Close() }()

			detail, err := ws.book.Detail(id)
			if err != nil {
				return cli.ExplainRosterError(id, err)
			}

			if format != formatText {
				return encode(cmd.OutOrStdout(), format, detail)
			}
			fmt.Fprint(cmd.OutOrStdout(), report.FormatDetail(detail))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format (text, json, yaml)")

	return cmd
}
