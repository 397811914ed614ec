package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	edikit "github.com/reoring/edikit"
)

type checkOptions struct {
	typ       string
	ignoreUNA bool
}

// checkStyles renders report lines; the zero value writes plain text.
type checkStyles struct {
	ok, fail, path lipgloss.Style
	color          bool
}

func newCheckStyles(w io.Writer) checkStyles {
	if !isTerminal(w) {
		return checkStyles{}
	}
	return checkStyles{
		ok:    lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		fail:  lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		path:  lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		color: true,
	}
}

func (s checkStyles) render(st lipgloss.Style, v string) string {
	if !s.color {
		return v
	}
	return st.Render(v)
}

func newCheckCmd(ro *rootOptions) *cobra.Command {
	opts := checkOptions{}
	cmd := &cobra.Command{
		Use:   "check [file...]",
		Short: "Validate interchanges and the catalogue rules, reporting every failing document",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"-"}
			}
			return runCheck(cmd, ro, opts, args)
		},
	}
	fs := cmd.Flags()
	fs.StringVarP(&opts.typ, "type", "t", "", "message type (detected from UNH when empty)")
	fs.BoolVar(&opts.ignoreUNA, "ignore-una", false, "do not read delimiters from a leading UNA")
	return cmd
}

func runCheck(cmd *cobra.Command, ro *rootOptions, opts checkOptions, names []string) error {
	c, reg, err := ro.load()
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	st := newCheckStyles(w)
	failed := 0
	for _, name := range names {
		data, err := readInput(cmd, name)
		if err != nil {
			return err
		}
		msg, err := reg.Parse(opts.typ, string(data), edikit.ParseOpt{IgnoreUNA: opts.ignoreUNA})
		if err == nil {
			err = c.Check(msg)
		}
		if err == nil {
			fmt.Fprintf(w, "%s %s %s\n", st.render(st.ok, "ok"), name, msg.Type)
			continue
		}
		failed++
		fmt.Fprintf(w, "%s %s\n", st.render(st.fail, "FAIL"), name)
		iss, ok := edikit.AsIssues(err)
		if !ok {
			fmt.Fprintf(w, "  %v\n", err)
			continue
		}
		for _, it := range iss {
			loc := st.render(st.path, it.Path)
			if it.Line > 0 {
				loc = fmt.Sprintf("segment %d %s", it.Line, loc)
			}
			fmt.Fprintf(w, "  %s: %s\n", loc, it.Message)
		}
		ro.logger.Debug("check failed", "file", name, "err", err)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(names))
	}
	return nil
}
