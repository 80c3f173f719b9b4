package main

import (
	"fmt"
	"io"

	"github.com/0xlemi/tunebox/internal/note"
	"github.com/spf13/cobra"
)

func newScalesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scales",
		Short: "List the named scales",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printScales(cmd.OutOrStdout())
		},
	}
}

func printScales(w io.Writer) {
	for _, name := range note.ScaleNames() {
		sc, _ := note.ParseScale(name)
		fmt.Fprintf(w, "%-18s %#05x  ", name, uint16(sc))
		for pc := 0; pc < note.PitchClasses; pc++ {
			if sc.Contains(pc) {
				fmt.Fprintf(w, " %s", note.ClassName(pc))
			}
		}
		fmt.Fprintln(w)
	}
}
