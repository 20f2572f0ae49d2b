package main

import (
	"errors"

	"github.com/Veraticus/gradebook/internal/cli"
	"github.com/spf13/cobra"
)

func menuCmd() *cobra.Command {
	var weighted bool

	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Run the interactive numbered menu",
		Long: `Run the interactive gradebook menu. Changes are kept in memory and only
written when "Save and Exit" is chosen.

With --weighted the menu adds category grades, category weights and the
weighted rankings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = ws.Close() }()

			out := cmd.OutOrStdout()
			handler := cli.NewInterruptHandler(out)
			ctx := handler.HandleInterrupts(cmd.Context(), true)
			defer handler.Stop()

			session := cli.NewSession(ws.book, ws.store, cmd.InOrStdin(), out, weighted)
			err = session.Run(ctx)
			if err != nil && errors.Is(err, cli.ErrInputCancelled) &&
				(handler.WasInterrupted() || cmd.Context().Err() != nil) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&weighted, "weighted", false, "use the weighted menu with category grades")

	return cmd
}
