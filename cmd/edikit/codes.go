package main

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newCodesCmd(ro *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "codes [table]",
		Short: "List code tables, or the entries of one table",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := ro.load()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			if len(args) == 0 {
				names := make([]string, 0, len(c.Tables))
				for n := range c.Tables {
					names = append(names, n)
				}
				sort.Strings(names)
				for _, n := range names {
					fmt.Fprintf(tw, "%s\t%d\n", n, c.Tables[n].Len())
				}
				return tw.Flush()
			}
			t, ok := c.Tables[args[0]]
			if !ok {
				return fmt.Errorf("unknown code table %q", args[0])
			}
			for _, k := range t.Keys() {
				fmt.Fprintf(tw, "%s\t%s\n", k, t.Label(k))
			}
			return tw.Flush()
		},
	}
}
