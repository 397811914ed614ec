package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	edikit "github.com/reoring/edikit"
	"github.com/reoring/edikit/catalog"
	"github.com/reoring/edikit/middleware"
)

type serveOptions struct {
	listen  string
	watch   bool
	h2c     bool
	maxBody int64
}

func newServeCmd(ro *rootOptions) *cobra.Command {
	opts := serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve parse and format over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, ro, opts)
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&opts.listen, "listen", ":8080", "http listen address")
	fs.BoolVar(&opts.watch, "watch", false, "reload the catalogue when its files change")
	fs.BoolVar(&opts.h2c, "h2c", false, "accept cleartext HTTP/2")
	fs.Int64Var(&opts.maxBody, "max-body", middleware.DefaultMaxBody, "maximum request body in bytes")
	return cmd
}

func runServe(cmd *cobra.Command, ro *rootOptions, opts serveOptions) error {
	c, reg, err := ro.load()
	if err != nil {
		return err
	}
	var current atomic.Pointer[catalog.Catalog]
	current.Store(c)
	if opts.watch {
		w, err := catalog.Watch(ro.catalogPath, reg, catalog.WatchOptions{
			Logger: ro.logger,
			OnReload: func(next *catalog.Catalog, err error) {
				if err == nil {
					current.Store(next)
				}
			},
		})
		if err != nil {
			return err
		}
		defer func() { _ = w.Close() }()
	}

	gin.SetMode(gin.ReleaseMode)
	var handler http.Handler = newRouter(reg, routerOptions{
		maxBody: opts.maxBody,
		logger:  ro.logger,
		check:   func(msg *edikit.Message) error { return current.Load().Check(msg) },
	})
	if opts.h2c {
		handler = h2c.NewHandler(handler, &http2.Server{})
	}
	srv := &http.Server{
		Addr:              opts.listen,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	errCh := make(chan error, 1)
	go func() {
		ro.logger.Info("listening", "addr", opts.listen, "types", reg.Types(), "h2c", opts.h2c)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ro.logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
