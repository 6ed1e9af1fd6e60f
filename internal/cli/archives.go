package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/chessarchive/internal/api/response"
	"github.com/mcoot/chessarchive/internal/model"
)

func newIndexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index <player>",
		Short: "List a player's month archive URLs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			player, err := model.NormalizePlayer(args[0])
			if err != nil {
				return err
			}

			urls, err := app.Cache.PlayerIndex(cmd.Context(), player)
			if err != nil {
				return err
			}

			out := NewOutput(opts.Output, cmd.OutOrStdout())
			return out.Print(response.Archives{Player: player, Archives: urls})
		},
	}
}

func newMonthsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "months <player>",
		Short: "List the months cached locally for a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			player, err := model.NormalizePlayer(args[0])
			if err != nil {
				return err
			}

			keys, err := app.Cache.CachedMonths(cmd.Context(), player)
			if err != nil {
				return err
			}

			out := NewOutput(opts.Output, cmd.OutOrStdout())
			return out.Print(response.MonthsFromModel(player, keys))
		},
	}
}
