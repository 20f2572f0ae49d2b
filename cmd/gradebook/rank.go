package main

import (
	"fmt"

	"github.com/Veraticus/gradebook/internal/gradebook"
	"github.com/Veraticus/gradebook/internal/report"
	"github.com/spf13/cobra"
)

func rankCmd() *cobra.Command {
	var (
		weighted bool
		format   string
	)

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank students by average",
		Long: `Rank students from the highest average down. Students with equal
averages keep the order they were added in.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}

			ws, err := openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = ws.Close() }()

			rankings, label := ws.book.RankByAverage(), "Average"
			if weighted {
				rankings, label = ws.book.RankByWeightedAverage(), "Weighted Average"
			}

			if format != formatText {
				return encode(cmd.OutOrStdout(), format, rankings)
			}
			fmt.Fprint(cmd.OutOrStdout(), report.FormatRankings(rankings, label))
			return nil
		},
	}

	cmd.Flags().BoolVar(&weighted, "weighted", false, "rank by weighted average")
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format (text, json, yaml)")

	return cmd
}

// classSummary is the machine-readable form of the stats command.
type classSummary struct {
	Distribution gradebook.Distribution    `json:"distribution" yaml:"distribution"`
	Statistics   gradebook.ClassStatistics `json:"statistics" yaml:"statistics"`
}

func statsCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show class statistics and the grade distribution",
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

			summary := classSummary{
				Statistics:   ws.book.Statistics(),
				Distribution: ws.book.Distribution(),
			}

			out := cmd.OutOrStdout()
			if format != formatText {
				return encode(out, format, summary)
			}

			fmt.Fprint(out, report.Heading("CLASS STATISTICS"))
			fmt.Fprint(out, report.FormatStatistics(summary.Statistics))
			if summary.Statistics.StudentCount == 0 {
				return nil
			}
			fmt.Fprint(out, "\n"+report.Heading("GRADE DISTRIBUTION"))
			fmt.Fprint(out, report.FormatDistribution(summary.Distribution))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format (text, json, yaml)")

	return cmd
}
