package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/mchmarny/navmenu/pkg/config"
	"github.com/mchmarny/navmenu/pkg/menu"
	"github.com/mchmarny/navmenu/pkg/metric"
	"github.com/mchmarny/navmenu/pkg/nav"
	"github.com/mchmarny/navmenu/pkg/server"
	"github.com/mchmarny/navmenu/pkg/session"
	"github.com/mchmarny/navmenu/pkg/theme"
)

const (
	// NavigationPath serves the classified navigation tree.
	NavigationPath = "/api/navigation"

	// ViewPrefix prefixes the first-paint view of every navigation entry.
	ViewPrefix = "/api/view"

	// SessionPath is the WebSocket endpoint driving one menu per connection.
	SessionPath = "/ws"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the navigation menu API and WebSocket sessions",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if cmd.Flags().Changed("port") {
			cfg.Port = servePort
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return serve(ctx, cfg)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", server.DefaultPort, "port to run the server on")
	rootCmd.AddCommand(serveCmd)
}

// serve runs the server until ctx is canceled.
func serve(ctx context.Context, c *config.Config) error {
	srv, cleanup, err := newServer(c)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := srv.Serve(ctx); err != nil {
		return fmt.Errorf("serving: %w", err)
	}
	return nil
}

// newServer loads the navigation tree and wires every component into an
// HTTP server. cleanup releases the external connections it opened.
func newServer(c *config.Config) (server.Server, func(), error) {
	items, err := nav.LoadFile(c.NavigationFile, c.NavigationKey)
	if err != nil {
		return nil, nil, fmt.Errorf("loading navigation: %w", err)
	}
	for _, p := range nav.Validate(items) {
		slog.Warn("navigation problem", "problem", p)
	}

	m := &menu.Menu{
		Title:   c.Title,
		Version: Version,
		Items:   items,
	}

	reg := prometheus.NewRegistry()
	sessOpts := []session.Option{
		session.WithBreakpoint(c.Breakpoint),
		session.WithEventCounter(metric.NewCounterWithRegistry(reg,
			"events_total", "Menu events by type.", "event")),
		session.WithClickCounter(metric.NewCounterWithRegistry(reg,
			"item_clicks_total", "Selected navigation entries by resolved path.", "path")),
		session.WithSessionGauge(metric.NewGaugeWithRegistry(reg,
			"sessions", "Open menu sessions.")),
	}
	if len(c.AllowedOrigins) > 0 {
		sessOpts = append(sessOpts, session.WithCheckOrigin(originChecker(c.AllowedOrigins)))
	}

	cleanup := func() {}
	if c.RedisURL != "" {
		store, err := theme.NewRedisStore(c.RedisURL, c.RedisPrefix)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting theme store: %w", err)
		}
		sessOpts = append(sessOpts, session.WithThemeSource(store.For))
		cleanup = func() {
			if err := store.Close(); err != nil {
				slog.Error("closing theme store", "error", err)
			}
		}
	}

	sessions := session.NewManager(items, sessOpts...)

	opts := []server.Option{
		server.WithPort(c.Port),
		server.WithShutdownTimeout(c.ShutdownTimeout),
		server.WithRegistry(reg),
		server.WithPrometheusMetrics(),
		server.WithSimpleHealth(),
		server.WithReadinessCheck(sessions),
		server.WithHandler(NavigationPath, m.Handler()),
		server.WithHandler(SessionPath, sessions),
		server.WithOnShutdown(sessions.CloseAll),
	}
	if len(c.AllowedOrigins) > 0 {
		opts = append(opts, server.WithCORS(c.AllowedOrigins...))
	}

	m.RegisterHandlers(func(pattern string, h http.Handler) {
		opts = append(opts, server.WithHandler(ViewPrefix+pattern, h))
	}, m.ViewHandler)

	slog.Info("navigation loaded",
		"file", c.NavigationFile,
		"items", len(items),
		"theme_store", c.RedisURL != "")

	return server.New(opts...), cleanup, nil
}

// originChecker accepts WebSocket upgrades from the allowed origins only.
// Requests without an Origin header come from non-browser clients.
func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || slices.Contains(allowed, "*") {
			return true
		}
		return slices.Contains(allowed, origin)
	}
}
