package commands

import (
	"boxd/lib/letterboxd/search"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	popular search.Popular
	watched search.Watched
)

func init() {
	popularCmd.Flags().StringVar(&popular.Genre, "genre", "", "Only films of this genre.")
	popularCmd.Flags().IntVar(&popular.Decade, "decade", 0, "Only films from this decade, 1990 for the 90s.")
	popularCmd.Flags().IntVar(&popular.Year, "year", 0, "Only films from this year.")
	popularCmd.Flags().IntVar(&popular.PageLimit, "pages", 1, "The most pages to fetch, 0 fetches all of them.")

	watchedCmd.Flags().StringVar(&watched.Username, "user", "", "The member whose films to browse, defaults to you.")
	watchedCmd.Flags().StringVar(&watched.View, "view", "", "One of ratings, diary or reviews, all watched films when empty.")
	watchedCmd.Flags().Float64Var(&watched.Rating, "rating", 0, "Only films rated this many stars, 0.5 to 5.")
	watchedCmd.Flags().IntVar(&watched.Year, "year", 0, "Only films from this year.")
	watchedCmd.Flags().IntVar(&watched.Decade, "decade", 0, "Only films from this decade.")
	watchedCmd.Flags().StringVar(&watched.Genre, "genre", "", "Only films of this genre.")
	watchedCmd.Flags().StringVar(&watched.Service, "service", "", "Only films available on this streaming service.")
	watchedCmd.Flags().StringVar(&watched.SortBy, "sort", "", "The order of the films, defaults to name.")
	watchedCmd.Flags().StringSliceVar(&watched.Filters, "filter", nil, "A filter such as hide-liked, repeat for more.")
	watchedCmd.Flags().IntVar(&watched.PageLimit, "pages", 0, "The most pages to fetch, 0 fetches all of them.")

	searchCmd.AddCommand(genresCmd, popularCmd, watchedCmd)
	rootCmd.AddCommand(searchCmd)
}

func renderFilms(films []search.Film) {
	t := newTable()
	t.AppendHeader(table.Row{"Id", "Slug"})
	for _, f := range films {
		t.AppendRow(table.Row{f.Id, f.Slug})
	}
	t.AppendFooter(table.Row{"Total", len(films)})
	t.Render()
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Browses films.",
}

var genresCmd = &cobra.Command{
	Use:   "genres",
	Short: "Lists the genres films can be browsed by.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := session(cmd, false)
		if err != nil {
			return err
		}
		genres, err := search.NewClient(c).Genres(cmd.Context())
		if err != nil {
			return err
		}
		t := newTable()
		t.AppendHeader(table.Row{"Genre"})
		for _, g := range genres {
			t.AppendRow(table.Row{g})
		}
		t.Render()
		return nil
	},
}

var popularCmd = &cobra.Command{
	Use:   "popular",
	Short: "Lists popular films.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := popular.Validate(); err != nil {
			return err
		}
		c, err := session(cmd, false)
		if err != nil {
			return err
		}
		films, err := search.NewClient(c).Popular(cmd.Context(), popular)
		if err != nil {
			return err
		}
		renderFilms(films)
		return nil
	},
}

var watchedCmd = &cobra.Command{
	Use:   "watched",
	Short: "Lists the films a member has seen.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := watched.Validate(); err != nil {
			return err
		}
		c, err := session(cmd, watched.Username == "")
		if err != nil {
			return err
		}
		films, err := search.NewClient(c).Watched(cmd.Context(), watched)
		if err != nil {
			return err
		}
		renderFilms(films)
		return nil
	},
}
