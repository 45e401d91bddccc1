package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/babble/internal/api"
	"github.com/samcharles93/babble/internal/logger"
	"github.com/samcharles93/babble/internal/webui"
)

func serveCmd() *cli.Command {
	var (
		addr        string
		readTimeout time.Duration
		noWebUI     bool
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the HTTP API (chat completions and responses)",
		Flags: append(commonCorpusFlags(),
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Value:       "127.0.0.1:8080",
				Destination: &addr,
			},
			&cli.BoolFlag{
				Name:        "no-webui",
				Usage:       "do not serve the browser chat page",
				Destination: &noWebUI,
			},
			&cli.DurationFlag{
				Name:        "read-timeout",
				Usage:       "read header timeout",
				Value:       30 * time.Second,
				Destination: &readTimeout,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			cfg := LoadConfig()
			applyCorpusConfig(cmd, cfg)
			applyServeConfig(cmd, cfg, &addr)

			provider := api.NewCachedEngineProvider(api.EngineProviderConfig{
				DefaultCorpusPath: corpusPath,
				CorporaPath:       corporaDir(corporaPath),
				Loader:            newLoader(cfg.generationDefaults()),
			})
			if corpusPath != "" {
				// Fail fast on a broken default corpus.
				if _, err := provider.Reload(ctx, ""); err != nil {
					return cli.Exit(fmt.Sprintf("error: load corpus: %v", err), 1)
				}
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, terminateSignal)
			defer stop()
			go reloadOnSignal(ctx, provider, log)

			server := api.NewServer(api.NewResponseStore(), api.NewInferenceService(provider))
			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
				return func(c *echo.Context) error {
					r := c.Request()
					c.SetRequest(r.WithContext(logger.WithContext(r.Context(), log)))
					return next(c)
				}
			})
			server.Register(e)
			if !noWebUI {
				registerWebUI(e)
			}

			log.Info("starting server", "address", addr)
			sc := echo.StartConfig{
				Address: addr,
				BeforeServeFunc: func(srv *http.Server) error {
					srv.ReadHeaderTimeout = readTimeout
					return nil
				},
			}
			return sc.Start(ctx, e)
		},
	}
}

// registerWebUI serves the embedded chat page and its assets.
func registerWebUI(e *echo.Echo) {
	h := webui.Handler()
	serve := func(c *echo.Context) error {
		h.ServeHTTP(c.Response(), c.Request())
		return nil
	}
	for _, path := range []string{"/", "/index.html", "/app.js", "/style.css"} {
		e.GET(path, serve)
	}
}

// reloadOnSignal rebuilds every loaded model whenever the reload signal
// arrives. A failed rebuild keeps the previous model serving.
func reloadOnSignal(ctx context.Context, provider *api.CachedEngineProvider, log logger.Logger) {
	if reloadSignal == nil {
		return
	}
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, reloadSignal)
	defer signal.Stop(ch)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ch:
			log.Info("reloading models")
			if err := provider.ReloadAll(ctx); err != nil {
				log.Error("reload failed", "error", err)
			}
		}
	}
}
