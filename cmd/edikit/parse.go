package main

import (
	"fmt"

	"github.com/spf13/cobra"

	edikit "github.com/reoring/edikit"
	"github.com/reoring/edikit/jsonview"
)

type parseOptions struct {
	typ        string
	delimiters string
	ignoreUNA  bool
	pretty     bool
}

func newParseCmd(ro *rootOptions) *cobra.Command {
	opts := parseOptions{}
	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse an interchange and print its JSON projection",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("pretty") {
				opts.pretty = isTerminal(cmd.OutOrStdout())
			}
			return runParse(cmd, ro, opts, firstArg(args))
		},
	}
	fs := cmd.Flags()
	fs.StringVarP(&opts.typ, "type", "t", "", "message type (detected from UNH when empty)")
	fs.StringVar(&opts.delimiters, "delimiters", "", "delimiter override as component, element and segment characters")
	fs.BoolVar(&opts.ignoreUNA, "ignore-una", false, "do not read delimiters from a leading UNA")
	fs.BoolVar(&opts.pretty, "pretty", false, "indent the JSON output (default when writing to a terminal)")
	return cmd
}

func runParse(cmd *cobra.Command, ro *rootOptions, opts parseOptions, name string) error {
	_, reg, err := ro.load()
	if err != nil {
		return err
	}
	d, err := parseDelims(opts.delimiters)
	if err != nil {
		return err
	}
	data, err := readInput(cmd, name)
	if err != nil {
		return err
	}
	msg, err := reg.Parse(opts.typ, string(data), edikit.ParseOpt{Delimiters: d, IgnoreUNA: opts.ignoreUNA})
	if err != nil {
		return err
	}
	def, err := lookup(reg, msg.Type)
	if err != nil {
		return err
	}
	var out []byte
	if opts.pretty {
		out, err = jsonview.MarshalIndent(def, msg, "", "  ")
	} else {
		out, err = jsonview.Marshal(def, msg)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
