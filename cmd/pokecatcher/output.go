package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/ramonehamilton/pokemon-catcher/internal/charts"
	"github.com/ramonehamilton/pokemon-catcher/internal/collection"
)

// printCollection lists the collection, marking the entry the cursor lands
// on after focus.
func printCollection(w io.Writer, state collection.State, focus *int) {
	if state.Len() == 0 {
		fmt.Fprintln(w, "Your collection is empty.")
		return
	}

	var cursor collection.Cursor
	cursor.Sync(state, focus)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\tID\tNAME\tCOUNT\tSTAGE\tEVOLVE")
	for i, e := range state.Entries {
		marker := ""
		if i == cursor.Index() {
			marker = ">"
		}
		evolve := ""
		if state.CanEvolve(e.ID) {
			evolve = "ready"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%d\t%s\t%s\n",
			marker, e.ID, e.Name, e.Count, charts.StageLabel(e.Stage), evolve)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "\n%d Pokémon across %d species\n", state.Total(), state.Len())
}
