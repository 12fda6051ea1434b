package cascade

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Render prints each group as an aligned table.
func Render(w io.Writer, groups []Group) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, g := range groups {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		fmt.Fprintf(tw, "%s (%d)\n", g.Title, g.Len())
		if g.Len() == 0 {
			fmt.Fprintln(tw, "  none")
			continue
		}
		fmt.Fprintln(tw, strings.Join(g.Headers, "\t"))
		for _, m := range g.Members {
			fmt.Fprintln(tw, strings.Join(m.Row(), "\t"))
		}
	}
	return tw.Flush()
}

// Total counts the records in every group after the first, i.e. what goes
// in addition to the roots.
func Total(groups []Group) int {
	n := 0
	for i, g := range groups {
		if i == 0 {
			continue
		}
		n += g.Len()
	}
	return n
}
