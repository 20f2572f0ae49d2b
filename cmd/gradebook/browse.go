package main

import (
	"github.com/Veraticus/gradebook/internal/tui"
	"github.com/Veraticus/gradebook/internal/tui/themes"
	"github.com/spf13/cobra"
)

func browseCmd() *cobra.Command {
	var (
		weighted bool
		theme    string
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the rankings in a terminal table",
		Long: `Open a read-only table of the class rankings.
Press w to switch between regular and weighted ordering, q to quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = ws.Close() }()

			return tui.Run(cmd.Context(), ws.book,
				tui.WithWeighted(weighted),
				tui.WithTheme(themes.ByName(theme)),
			)
		},
	}

	cmd.Flags().BoolVar(&weighted, "weighted", false, "start with the weighted ranking")
	cmd.Flags().StringVar(&theme, "theme", "default", "color theme (default, catppuccin)")

	return cmd
}
