package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	edikit "github.com/reoring/edikit"
	"github.com/reoring/edikit/catalog"
	"github.com/reoring/edikit/i18n"
)

// envCatalog names the variable consulted when --catalog is not given.
const envCatalog = "EDIKIT_CATALOG"

type rootOptions struct {
	catalogPath string
	verbose     bool
	lang        string

	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:          "edikit",
		Short:        "Schema-driven EDIFACT parser and formatter",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			i18n.SetLanguage(opts.lang)
			level := slog.LevelInfo
			if opts.verbose {
				level = slog.LevelDebug
			}
			opts.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			if strings.TrimSpace(opts.catalogPath) == "" {
				opts.catalogPath = strings.TrimSpace(os.Getenv(envCatalog))
			}
			return nil
		},
	}
	fs := cmd.PersistentFlags()
	fs.StringVarP(&opts.catalogPath, "catalog", "c", "", "catalogue file or directory (default $"+envCatalog+")")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logs")
	fs.StringVar(&opts.lang, "lang", "en", "issue message language (en, ja)")

	cmd.AddCommand(
		newParseCmd(opts),
		newFormatCmd(opts),
		newCheckCmd(opts),
		newCodesCmd(opts),
		newServeCmd(opts),
	)
	return cmd
}

func (o *rootOptions) load() (*catalog.Catalog, *edikit.Registry, error) {
	if o.catalogPath == "" {
		return nil, nil, errors.New("no catalogue: pass --catalog or set " + envCatalog)
	}
	c, err := catalog.Load(o.catalogPath)
	if err != nil {
		return nil, nil, err
	}
	reg := edikit.NewRegistry()
	if err := c.Install(reg); err != nil {
		return nil, nil, fmt.Errorf("install catalogue: %w", err)
	}
	o.logger.Debug("catalogue loaded", "path", o.catalogPath, "types", c.Types(), "files", len(c.Sources))
	return c, reg, nil
}

func lookup(reg *edikit.Registry, typ string) (*edikit.MessageDef, error) {
	def, ok := reg.Lookup(typ)
	if !ok {
		it := edikit.IssueAt(edikit.RootPath(), edikit.CodeUnknownMessageType, typ)
		it.Fragment = typ
		return nil, edikit.Issues{it}
	}
	return def, nil
}

// readInput reads the named file, or the command's stdin for "" and "-".
func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "" || name == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	// #nosec G304 -- input path comes from the command line.
	return os.ReadFile(name)
}

// parseDelims reads a delimiter triad written as component, element and
// segment characters, for example ":+'".
func parseDelims(s string) (edikit.Delimiters, error) {
	if s == "" {
		return edikit.Delimiters{}, nil
	}
	r := []rune(s)
	if len(r) != 3 {
		return edikit.Delimiters{}, fmt.Errorf("delimiters must be three characters, got %q", s)
	}
	return edikit.Delimiters{Component: r[0], Element: r[1], Segment: r[2]}, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
