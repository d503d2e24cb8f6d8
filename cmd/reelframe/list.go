package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered compositions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, c := range a.reg.List() {
				fmt.Fprintf(out, "%-16s %4d frames  %2d fps  %dx%d  %.1fs\n",
					c.ID, c.DurationInFrames, c.FPS, c.Width, c.Height, c.DurationSeconds())
			}
			return nil
		},
	}
}
