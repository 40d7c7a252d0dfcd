package commands

import (
	"bufio"
	"fmt"
	"strings"

	"boxd/lib/letterboxd/list"
	"boxd/lib/letterboxd/sentence"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	sentenceList     string
	sentenceNoPrompt bool
)

func init() {
	sentenceCmd.Flags().StringVar(&sentenceList, "list", "", "Save the films as a new list with this name.")
	sentenceCmd.Flags().BoolVar(&sentenceNoPrompt, "no-prompt", false, "Fail on words without a film instead of asking for another.")
	rootCmd.AddCommand(sentenceCmd)
}

func promptReplacement(cmd *cobra.Command) func(word string) string {
	in := bufio.NewScanner(cmd.InOrStdin())
	return func(word string) string {
		fmt.Fprintf(cmd.ErrOrStderr(), "No film found for %q, enter another word or leave empty to drop it: ", word)
		if !in.Scan() {
			return ""
		}
		return strings.TrimSpace(in.Text())
	}
}

var sentenceCmd = &cobra.Command{
	Use:   "sentence <text>",
	Short: "Spells out a sentence with film titles.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := session(cmd, sentenceList != "")
		if err != nil {
			return err
		}

		maker := sentence.Maker{Search: sentence.SiteSearch(c)}
		if !sentenceNoPrompt {
			maker.Replace = promptReplacement(cmd)
		}
		entries, err := maker.Build(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if sentenceList == "" {
			t := newTable()
			t.AppendHeader(table.Row{"#", "Film id"})
			for i, e := range entries {
				t.AppendRow(table.Row{i + 1, e.FilmId})
			}
			t.Render()
			return nil
		}

		edit, err := list.NewClient(c).Create(cmd.Context(), list.Draft{
			Name:    sentenceList,
			Ranked:  true,
			Entries: entries,
		})
		if err != nil {
			return err
		}
		renderList(edit)
		return nil
	},
}
