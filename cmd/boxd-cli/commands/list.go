package commands

import (
	"fmt"

	"boxd/lib/letterboxd/list"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	listFilmIds     []int64
	listTags        []string
	listPublic      bool
	listRanked      bool
	listDescription string
)

func init() {
	for _, cmd := range []*cobra.Command{listCreateCmd, listAddCmd, listRemoveCmd} {
		cmd.Flags().Int64SliceVar(&listFilmIds, "film-id", nil, "A film id, repeat or comma separate for more.")
	}
	listCreateCmd.Flags().StringSliceVar(&listTags, "tag", nil, "A tag for the list, repeat for more.")
	listCreateCmd.Flags().BoolVar(&listPublic, "public", false, "Make the list visible to everyone.")
	listCreateCmd.Flags().BoolVar(&listRanked, "ranked", false, "Number the films of the list.")
	listCreateCmd.Flags().StringVar(&listDescription, "description", "", "The list's description.")

	listCmd.AddCommand(listShowCmd, listCreateCmd, listAddCmd, listRemoveCmd)
	rootCmd.AddCommand(listCmd)
}

func renderList(r list.Reader) {
	m := r.Metadata()

	t := newTable()
	t.AppendRows([]table.Row{
		{"Name", m.Name},
		{"Owner", m.Owner},
		{"Id", orDash(m.Id)},
		{"Public", orDash(m.Public)},
		{"Ranked", m.Ranked},
		{"Tags", fmt.Sprint(m.Tags)},
		{"Description", m.Description},
	})
	t.Render()

	t = newTable()
	t.AppendHeader(table.Row{"#", "Film id", "Review"})
	for i, e := range r.Entries() {
		t.AppendRow(table.Row{i + 1, e.FilmId, e.Review})
	}
	t.Render()
}

func entriesOf(ids []int64) []list.Entry {
	entries := make([]list.Entry, len(ids))
	for i, id := range ids {
		entries[i] = list.Entry{FilmId: id}
	}
	return entries
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Reads and edits lists.",
}

var listShowCmd = &cobra.Command{
	Use:   "show <owner> <name>",
	Short: "Prints a list, your own lists are read from their edit page.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := session(cmd, false)
		if err != nil {
			return err
		}
		client := list.NewClient(c)

		if c.LoggedIn() && args[0] == c.Username {
			edit, err := client.Edit(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			renderList(edit)
			return nil
		}
		view, err := client.View(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		renderList(view)
		return nil
	},
}

var listCreateCmd = &cobra.Command{
	Use:   "create <name> [--film-id <id>...] [--tag <tag>...] [--public] [--ranked] [--description <text>]",
	Short: "Creates a list.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := session(cmd, true)
		if err != nil {
			return err
		}
		edit, err := list.NewClient(c).Create(cmd.Context(), list.Draft{
			Name:        args[0],
			Description: listDescription,
			Tags:        listTags,
			Public:      listPublic,
			Ranked:      listRanked,
			Entries:     entriesOf(listFilmIds),
		})
		if err != nil {
			return err
		}
		renderList(edit)
		return nil
	},
}

var listAddCmd = &cobra.Command{
	Use:   "add <name> --film-id <id>...",
	Short: "Adds films to one of your lists.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := session(cmd, true)
		if err != nil {
			return err
		}
		client := list.NewClient(c)
		edit, err := client.Edit(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		edit, err = client.AddEntries(cmd.Context(), edit, entriesOf(listFilmIds)...)
		if err != nil {
			return err
		}
		renderList(edit)
		return nil
	},
}

var listRemoveCmd = &cobra.Command{
	Use:   "remove <name> --film-id <id>...",
	Short: "Removes films from one of your lists.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := session(cmd, true)
		if err != nil {
			return err
		}
		client := list.NewClient(c)
		edit, err := client.Edit(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		edit, err = client.RemoveEntries(cmd.Context(), edit, listFilmIds...)
		if err != nil {
			return err
		}
		renderList(edit)
		return nil
	},
}
