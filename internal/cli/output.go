package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/mcoot/chessarchive/internal/api/response"
	"github.com/mcoot/chessarchive/internal/model"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) error {
	if o.format == OutputJSON {
		return o.printJSON(data)
	}
	return o.printText(data)
}

func (o *Output) printJSON(data any) error {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func (o *Output) printText(data any) error {
	switch v := data.(type) {
	case response.Archives:
		return o.printArchives(v)
	case response.Months:
		return o.printMonths(v)
	case response.Games:
		return o.printGames(v)
	default:
		// Fallback to JSON for unknown types
		return o.printJSON(data)
	}
}

func (o *Output) printArchives(a response.Archives) error {
	fmt.Fprintf(o.w, "Player: %s\n", a.Player)
	fmt.Fprintf(o.w, "Archives (%d):\n", len(a.Archives))
	for _, url := range a.Archives {
		fmt.Fprintf(o.w, "  %s\n", url)
	}
	return nil
}

func (o *Output) printMonths(m response.Months) error {
	fmt.Fprintf(o.w, "Player: %s\n", m.Player)
	if len(m.Months) == 0 {
		fmt.Fprintln(o.w, "No cached months")
		return nil
	}
	fmt.Fprintf(o.w, "Cached months (%d):\n", len(m.Months))
	for _, period := range m.Months {
		fmt.Fprintf(o.w, "  %s\n", period)
	}
	return nil
}

func (o *Output) printGames(g response.Games) error {
	fmt.Fprintf(o.w, "Player: %s\n", g.Player)
	fmt.Fprintf(o.w, "Games: %d\n", g.Count)
	if g.Count == 0 {
		return nil
	}

	var rows []gameRow
	switch games := g.Games.(type) {
	case []model.Game:
		for i := range games {
			rows = append(rows, fullRow(&games[i]))
		}
	case []model.SimpleGame:
		for _, sg := range games {
			rows = append(rows, simpleRow(sg))
		}
	default:
		return o.printJSON(g.Games)
	}

	tw := tabwriter.NewWriter(o.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\nDATE\tCLASS\tRATED\tWHITE\tBLACK\tURL")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", r.date, r.timeClass, r.rated, r.white, r.black, r.url)
	}
	return tw.Flush()
}

type gameRow struct {
	date      string
	timeClass model.TimeClass
	rated     string
	white     string
	black     string
	url       string
}

func fullRow(g *model.Game) gameRow {
	return gameRow{
		date:      g.EndedAt().Format(time.DateTime),
		timeClass: g.TimeClass,
		rated:     yesNo(g.Rated),
		white:     sideText(g.White.Username, g.White.Rating, g.White.Result),
		black:     sideText(g.Black.Username, g.Black.Rating, g.Black.Result),
		url:       g.URL,
	}
}

func simpleRow(g model.SimpleGame) gameRow {
	return gameRow{
		date:      g.Date,
		timeClass: g.TimeClass,
		rated:     yesNo(g.Rated),
		white:     sideText(g.White.Username, g.White.Rating, g.White.Result),
		black:     sideText(g.Black.Username, g.Black.Rating, g.Black.Result),
		url:       g.URL,
	}
}

func sideText(username string, rating int, result string) string {
	return fmt.Sprintf("%s (%d) %s", username, rating, result)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
