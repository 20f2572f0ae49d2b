package main

import (
	"fmt"
	"time"

	"github.com/Veraticus/gradebook/internal/cli"
	"github.com/Veraticus/gradebook/internal/report"
	"github.com/spf13/cobra"
)

func reportCmd() *cobra.Command {
	var (
		printOnly bool
		format    string
	)

	cmd := &cobra.Command{
		Use:   "report [file]",
		Short: "Export the class report",
		Long: `Write the full class report to a file. Without a file name the report is
written to gradebook_report_<unix-millis>.txt in the current directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}

			ws, err := openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = ws.Close() }()

			r := report.Build(ws.book, time.Now())
			out := cmd.OutOrStdout()

			if format != formatText {
				return encode(out, format, r)
			}
			if printOnly {
				fmt.Fprint(out, report.NewTextFormatter().Format(r))
				return nil
			}

			var path string
			if len(args) == 1 {
				path = args[0]
			}
			written, err := report.WriteFile(path, r)
			if err != nil {
				return fmt.Errorf("error exporting report: %w", err)
			}
			fmt.Fprintln(out, cli.FormatSuccess("Report exported to "+written))
			return nil
		},
	}

	cmd.Flags().BoolVar(&printOnly, "print", false, "print the report instead of writing a file")
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format (text, json, yaml); json and yaml print to stdout")

	return cmd
}
