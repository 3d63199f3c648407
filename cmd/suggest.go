package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vzahanych/weather-widget/internal/config"
)

func suggestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <text>",
		Short: "List city suggestions for partial input",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.GetConfig()
			suggester := newSuggester(cfg.Suggestions, log.Logger.Named("suggest"))

			names, err := suggester.Suggest(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("suggestions unavailable: %w", err)
			}

			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
