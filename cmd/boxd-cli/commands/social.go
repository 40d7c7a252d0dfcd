package commands

import (
	"context"

	"boxd/lib/letterboxd/social"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	socialCmd.AddCommand(
		peopleCmd("following [user]", "Lists the members a user follows.", "Following", social.Client.Following),
		peopleCmd("followers [user]", "Lists the followers of a user.", "Followers", social.Client.Followers),
		socialBlockedCmd,
	)
	rootCmd.AddCommand(socialCmd)
}

func renderPeople(header string, people []string) {
	t := newTable()
	t.AppendHeader(table.Row{header})
	for _, p := range people {
		t.AppendRow(table.Row{p})
	}
	t.Render()
}

var socialCmd = &cobra.Command{
	Use:   "social",
	Short: "Reads follow and block lists.",
}

func peopleCmd(use, short, header string, fetch func(social.Client, context.Context, string) ([]string, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short + " Defaults to you.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user := ""
			if len(args) == 1 {
				user = args[0]
			}
			c, err := session(cmd, user == "")
			if err != nil {
				return err
			}
			people, err := fetch(social.NewClient(c), cmd.Context(), user)
			if err != nil {
				return err
			}
			renderPeople(header, people)
			return nil
		},
	}
}

var socialBlockedCmd = &cobra.Command{
	Use:   "blocked",
	Short: "Lists the members you blocked.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := session(cmd, true)
		if err != nil {
			return err
		}
		people, err := social.NewClient(c).Blocked(cmd.Context())
		if err != nil {
			return err
		}
		renderPeople("Blocked", people)
		return nil
	},
}
