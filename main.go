package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"

	"github.com/oaiiae/huma-contacts-ui/cli/api"
	"github.com/oaiiae/huma-contacts-ui/cli/logger"
	"github.com/oaiiae/huma-contacts-ui/contactsapi"
	"github.com/oaiiae/huma-contacts-ui/notify"
)

// Set at build time.
var (
	version  = "dev"
	revision = ""
	created  = ""
)

type (
	BackendOptions = contactsapi.Options
	NotifyOptions  = notify.Options
	LoggerOptions  = logger.Options
)

// Options for the CLI. Pass `--port` or set the `SERVICE_PORT` env var.
type Options struct {
	api.ServerOptions
	api.RouterOptions
	api.CacheOptions
	BackendOptions
	NotifyOptions
	LoggerOptions
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, options *Options) {
		logger := logger.New(&options.LoggerOptions)
		app := api.NewApp(&options.BackendOptions, &options.CacheOptions, &options.NotifyOptions, nil, logger)
		srv := api.NewServer(&options.ServerOptions,
			api.NewRouter(&options.RouterOptions, "Contacts", version, revision, created, logger, app),
			logger,
		)
		hooks.OnStart(func() {
			logger.Info("listening", "addr", srv.Addr, "backend", options.BackendURL)
			err := srv.ListenAndServe()
			if err != http.ErrServerClosed {
				logger.Error("failed to listen and serve", "err", err)
			} else {
				logger.Info("server closed")
			}
		})
		hooks.OnStop(func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			err := srv.Shutdown(ctx)
			if err != nil {
				logger.LogAttrs(ctx, slog.LevelWarn, "could not shutdown the server", slog.Any("err", err))
			}
		})
	})

	root := cli.Root()
	root.Use = "contacts"
	root.Short = "Manage contacts stored in a REST backend"
	root.AddCommand(listCommand(), addCommand(), deleteCommand())

	cli.Run()
}
