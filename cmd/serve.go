package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"jobads-sync/core/loader"
	"jobads-sync/core/logger"
	"jobads-sync/core/middleware/auth"
	"jobads-sync/core/middleware/rayid"
	"jobads-sync/feature/jobads"
	"jobads-sync/feature/jobsync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveSync bool

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the job ads read API and metrics",
	Long: `Starts the HTTP server with the jobads read API, /metrics and /healthz.
With --sync the update loop runs in the same process and /sync/status and
/sync/run are mounted too.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		var syncer *jobsync.Syncer
		if serveSync {
			if err := a.lockWriter(); err != nil {
				return err
			}
			syncer = a.newSyncer()
		}

		srv := newServer(a, syncer)
		if err := mountFeatures(a, srv, syncer); err != nil {
			return err
		}

		var loop func(context.Context) error
		if syncer != nil {
			loop = syncer.Run
		}
		return serveUntilDone(ctx, a, srv, loop)
	},
}

// serveUntilDone serves srv and runs loop, when set, until ctx ends or the
// server fails. A running loop is waited for before the server shuts down,
// so its cycle commits while the pool and the writer lock are still held.
func serveUntilDone(ctx context.Context, a *app, srv *fiber.App, loop func(context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var loopDone chan error
	if loop != nil {
		loopDone = make(chan error, 1)
		go func() { loopDone <- loop(ctx) }()
	}

	serverDone := make(chan error, 1)
	go func() {
		a.log.Info("Starting server", zap.String("addr", a.cfg.Server.Addr()))
		serverDone <- srv.Listen(a.cfg.Server.Addr())
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-serverDone:
		cancel()
	case err := <-loopDone:
		// The loop ends on its own only at max cycles or when the store
		// was never bootstrapped; keep serving reads either way.
		logLoopEnd(a, err)
		loopDone = nil
		<-ctx.Done()
	}

	if loopDone != nil {
		a.log.Info("Waiting for the update loop to stop...")
		logLoopEnd(a, <-loopDone)
	}
	if serveErr != nil {
		return serveErr
	}

	a.log.Info("Shutting down server...")
	return srv.Shutdown()
}

func logLoopEnd(a *app, err error) {
	if err != nil && !errors.Is(err, context.Canceled) {
		a.log.Error("Update loop stopped", zap.Error(err))
	}
}

// newServer builds the Fiber app with the shared middleware chain.
func newServer(a *app, syncer *jobsync.Syncer) *fiber.App {
	srv := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	// RayID first so every later log line can carry it
	srv.Use(rayid.New())

	srv.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(a.log, c)
		l.Debug("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	})

	// Probes and scrapes stay public
	public := func(c *fiber.Ctx) bool {
		return c.Path() == "/healthz" || c.Path() == "/metrics"
	}
	srv.Use(auth.New(auth.Config{ApiKey: a.cfg.Server.ApiKey, Next: public}))

	srv.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "sync": syncer != nil})
	})
	srv.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})))

	return srv
}

func mountFeatures(a *app, srv *fiber.App, syncer *jobsync.Syncer) error {
	mgr := loader.NewManager(a.log)
	mgr.Register(jobads.NewFeature(a.db, a.log))
	mgr.Register(jobsync.NewFeature(syncer))

	_, err := mgr.LoadAll(srv)
	return err
}

func init() {
	serveCmd.Flags().BoolVar(&serveSync, "sync", false, "also run the update loop in this process")
	RootCmd.AddCommand(serveCmd)
}
