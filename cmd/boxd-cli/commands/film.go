package commands

import (
	"fmt"

	"boxd/lib/letterboxd/film"
	"boxd/lib/ratings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	ratersRating int
	ratersLimit  int
	routeRating  int
)

func init() {
	ratersCmd.Flags().IntVar(&ratersRating, "rating", 8, "The rating to look for, 1 (half a star) to 10 (five stars).")
	ratersCmd.Flags().IntVar(&ratersLimit, "limit", 0, "The most raters to list, 0 lists all of them.")
	routeCmd.Flags().IntVar(&routeRating, "rating", 8, "The rating to look for, 1 (half a star) to 10 (five stars).")

	rootCmd.AddCommand(filmCmd)
	rootCmd.AddCommand(ratersCmd)
	rootCmd.AddCommand(routeCmd)
}

// averageLines describes the averages of a rated film. The adjusted value
// mixes ten point ratings with five point padding and is printed unscaled.
func averageLines(summary film.Summary) []string {
	lines := []string{fmt.Sprintf("Average: %.2f / 10", *summary.TrueAverage)}
	if summary.Obscure && summary.AdjustedAverage != nil {
		lines = append(lines, fmt.Sprintf(
			"Adjusted average (fewer than %d ratings): %.2f",
			ratings.ObscurityThreshold, *summary.AdjustedAverage,
		))
	}
	return lines
}

var filmCmd = &cobra.Command{
	Use:   "film <slug>",
	Short: "Prints a film's details and ratings, with a fair average for obscure films.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := session(cmd, false)
		if err != nil {
			return err
		}
		summary, err := film.NewClient(c).Summary(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		info := summary.Info

		t := newTable()
		t.AppendRows([]table.Row{
			{"Name", info.Name},
			{"Id", info.Id},
			{"Year", orDash(info.ReleaseYear)},
			{"Director", orDash(info.Director)},
			{"Runtime", orDash(info.RuntimeMinutes)},
			{"Language", orDash(info.Language)},
			{"Country", orDash(info.Country)},
			{"Genres", fmt.Sprint(info.Genres)},
			{"Cast", fmt.Sprint(info.Cast)},
		})
		t.Render()

		if !summary.Rated {
			fmt.Println("Nobody has rated this film yet.")
			return nil
		}

		t = newTable()
		t.AppendHeader(table.Row{"Stars", "Ratings"})
		for bucket := 1; bucket <= ratings.BucketCount; bucket++ {
			t.AppendRow(table.Row{stars(bucket), summary.Histogram.Count(bucket)})
		}
		t.AppendFooter(table.Row{"Total", summary.Histogram.Total()})
		t.Render()

		for _, line := range averageLines(summary) {
			fmt.Println(line)
		}
		return nil
	},
}

var ratersCmd = &cobra.Command{
	Use:   "raters <slug> [--rating <1-10>] [--limit <n>]",
	Short: "Lists the members who gave a film a rating.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := session(cmd, false)
		if err != nil {
			return err
		}
		users, route, err := film.NewClient(c).CohortRaters(cmd.Context(), args[0], ratersRating, ratersLimit)
		if err != nil {
			return err
		}

		t := newTable()
		t.AppendHeader(table.Row{fmt.Sprintf("Rated %s stars (%d of %d)", stars(ratersRating), len(users), route.Count)})
		for _, u := range users {
			t.AppendRow(table.Row{u})
		}
		t.Render()
		return nil
	},
}

var routeCmd = &cobra.Command{
	Use:   "route <slug> [--rating <1-10>]",
	Short: "Shows which ratings listing pages hold a rating's raters.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := session(cmd, false)
		if err != nil {
			return err
		}
		h, _, err := film.NewClient(c).Histogram(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		route, err := ratings.Locate(h, routeRating)
		if err != nil {
			return err
		}

		t := newTable()
		t.AppendRows([]table.Row{
			{"Stars", stars(routeRating)},
			{"Raters", route.Count},
			{"Reachable", route.Reachable},
		})
		if route.Reachable {
			t.AppendRows([]table.Row{
				{"Order", route.Direction.String()},
				{"Raters before", route.Skip},
				{"Pages", fmt.Sprintf("%d-%d", route.PageStart, route.PageEnd)},
			})
		}
		t.Render()
		return nil
	},
}
