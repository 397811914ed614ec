package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	edikit "github.com/reoring/edikit"
	"github.com/reoring/edikit/jsonview"
)

type formatOptions struct {
	typ        string
	delimiters string
	lineBreak  string
	una        bool
}

func newFormatCmd(ro *rootOptions) *cobra.Command {
	opts := formatOptions{}
	cmd := &cobra.Command{
		Use:   "format [file]",
		Short: "Render a JSON projection back to interchange text",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormat(cmd, ro, opts, firstArg(args))
		},
	}
	fs := cmd.Flags()
	fs.StringVarP(&opts.typ, "type", "t", "", "message type (read from the document when empty)")
	fs.StringVar(&opts.delimiters, "delimiters", "", "delimiter override as component, element and segment characters")
	fs.StringVar(&opts.lineBreak, "line-break", "\n", "separator written between segments")
	fs.BoolVar(&opts.una, "una", false, "prefix the output with a UNA service string advice")
	return cmd
}

func runFormat(cmd *cobra.Command, ro *rootOptions, opts formatOptions, name string) error {
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
	typ := opts.typ
	if typ == "" {
		if typ, err = jsonview.TypeOf(data); err != nil {
			return err
		}
		if typ == "" {
			return errors.New("document has no type: pass --type")
		}
	}
	def, err := lookup(reg, typ)
	if err != nil {
		return err
	}
	msg, err := jsonview.Unmarshal(def, data)
	if err != nil {
		return err
	}
	out, err := edikit.Format(def, msg, edikit.FormatOpt{Delimiters: d, LineBreak: &opts.lineBreak, EmitUNA: opts.una})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
	return err
}
