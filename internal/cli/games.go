package cli

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mcoot/chessarchive/internal/api/request"
	"github.com/mcoot/chessarchive/internal/api/response"
	"github.com/mcoot/chessarchive/internal/model"
)

// gameFlags are the filter and view flags shared by game queries. They
// are translated into the same parameters the HTTP API accepts.
type gameFlags struct {
	timeClass      string
	correctRatings bool
	rated          bool
	hasAccuracies  bool
	decisive       bool
	maxRatingDiff  int
	rules          string
	view           string
}

func (f *gameFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.timeClass, "time-class", "", "Only games of this time class: bullet, blitz, rapid, daily")
	cmd.Flags().BoolVar(&f.correctRatings, "correct-ratings", false, "Rewrite player ratings to pre-game values")
	cmd.Flags().BoolVar(&f.rated, "rated", false, "Only rated (true) or unrated (false) games")
	cmd.Flags().BoolVar(&f.hasAccuracies, "has-accuracies", false, "Only games with (true) or without (false) accuracies")
	cmd.Flags().BoolVar(&f.decisive, "decisive", false, "Only games with a winner")
	cmd.Flags().IntVar(&f.maxRatingDiff, "max-rating-diff", 0, "Only games with at most this rating difference")
	cmd.Flags().StringVar(&f.rules, "rules", "", "Only games with these rules, e.g. chess")
	cmd.Flags().StringVar(&f.view, "view", request.ViewFull, "Game view: full, simple")
}

func (f *gameFlags) values(cmd *cobra.Command) url.Values {
	v := url.Values{}
	changed := cmd.Flags().Changed

	if f.timeClass != "" {
		v.Set("time_class", f.timeClass)
	}
	if f.rules != "" {
		v.Set("rules", f.rules)
	}
	v.Set("view", f.view)
	v.Set("correct_ratings", strconv.FormatBool(f.correctRatings))
	v.Set("decisive", strconv.FormatBool(f.decisive))
	if changed("rated") {
		v.Set("rated", strconv.FormatBool(f.rated))
	}
	if changed("has-accuracies") {
		v.Set("has_accuracies", strconv.FormatBool(f.hasAccuracies))
	}
	if changed("max-rating-diff") {
		v.Set("max_rating_diff", strconv.Itoa(f.maxRatingDiff))
	}
	return v
}

func newRecentCmd() *cobra.Command {
	var (
		flags      gameFlags
		count      int
		maxScanned int
	)

	cmd := &cobra.Command{
		Use:   "recent <player>",
		Short: "Show a player's most recent games, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			player, err := model.NormalizePlayer(args[0])
			if err != nil {
				return err
			}

			v := flags.values(cmd)
			v.Set("count", strconv.Itoa(count))
			v.Set("max_scanned", strconv.Itoa(maxScanned))
			q, err := request.ParseRecent(v)
			if err != nil {
				return err
			}

			games, err := app.Scanner.MostRecent(cmd.Context(), player, q.Count, q.Options())
			if err != nil {
				return err
			}

			out := NewOutput(opts.Output, cmd.OutOrStdout())
			return out.Print(response.GamesFromModel(player, games, q.View == request.ViewSimple))
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVarP(&count, "count", "n", request.DefaultCount, fmt.Sprintf("Number of games to return (at most %d)", request.MaxCount))
	cmd.Flags().IntVar(&maxScanned, "max-scanned", 0, "Stop after examining this many games (0: ten times --count)")

	return cmd
}

func newBetweenCmd() *cobra.Command {
	var (
		flags gameFlags
		start string
		end   string
	)

	cmd := &cobra.Command{
		Use:   "between <player>",
		Short: "Show a player's games that ended within a time window",
		Long: `Show a player's games that ended within [start, end], oldest first.

Times are unix seconds, RFC 3339 timestamps or YYYY-MM-DD dates (UTC).
start defaults to the epoch and end to now.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			player, err := model.NormalizePlayer(args[0])
			if err != nil {
				return err
			}

			v := flags.values(cmd)
			if start != "" {
				v.Set("start", start)
			}
			if end != "" {
				v.Set("end", end)
			}
			q, err := request.ParseBetween(v, app.Clock.Now())
			if err != nil {
				return err
			}

			games, err := app.Scanner.Between(cmd.Context(), player, q.Start, q.End, q.Options())
			if err != nil {
				return err
			}

			out := NewOutput(opts.Output, cmd.OutOrStdout())
			return out.Print(response.GamesFromModel(player, games, q.View == request.ViewSimple))
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&start, "start", "", "Window start (inclusive)")
	cmd.Flags().StringVar(&end, "end", "", "Window end (inclusive)")

	return cmd
}
