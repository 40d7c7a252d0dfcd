package commands

import (
	"fmt"
	"os"

	"boxd/lib/ratings"

	"github.com/jedib0t/go-pretty/v6/table"
)

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

func orDash[T any](v *T) any {
	if v == nil {
		return "-"
	}
	return *v
}

// stars formats a 1..10 bucket as a star rating.
func stars(bucket int) string {
	return fmt.Sprintf("%.1f", ratings.Stars(bucket))
}
