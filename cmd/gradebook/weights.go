package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/Veraticus/gradebook/internal/cli"
	"github.com/Veraticus/gradebook/internal/common"
	"github.com/Veraticus/gradebook/internal/report"
	"github.com/spf13/cobra"
)

func weightsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weights",
		Short: "Manage category weights",
		Long: `List and set the weights used for weighted averages. Weights are between
0.0 and 1.0 and need not sum to 1.`,
	}

	cmd.AddCommand(listWeightsCmd())
	cmd.AddCommand(setWeightCmd())

	return cmd
}

func listWeightsCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List category weights",
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

			weights := ws.book.SortedWeights()
			if format != formatText {
				return encode(cmd.OutOrStdout(), format, weights)
			}
			fmt.Fprint(cmd.OutOrStdout(), report.FormatWeights(weights))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format (text, json, yaml)")

	return cmd
}

func setWeightCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <category> <weight>",
		Short: "Set the weight of a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			category := strings.TrimSpace(args[0])
			if category == "" {
				return common.NewUserError("Category name cannot be empty!", common.ErrInvalidInput)
			}
			weight, err := strconv.ParseFloat(strings.TrimSpace(args[1]), 64)
			if err != nil {
				return common.NewUserError("Invalid weight. Please enter a number between 0.0 and 1.0.",
					fmt.Errorf("%w: weight %q", common.ErrInvalidInput, args[1]))
			}

			ws, err := openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = ws.Close() }()

			if err := ws.book.SetCategoryWeight(category, weight); err != nil {
				if errors.Is(err, common.ErrOutOfRange) {
					return common.NewUserError("Weight must be between 0.0 and 1.0", err)
				}
				return err
			}

			if !ws.keepsBreakdown() {
				slog.Warn("The text backend does not store weights; add them to the config file or use --backend sqlite",
					"category", category)
			}
			if err := ws.save(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Category weight for %s set to %.1f%%", category, weight*100)))
			return nil
		},
	}
}
