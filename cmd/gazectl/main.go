package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	retry "github.com/avast/retry-go/v5"
	"github.com/ghodss/yaml"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	serverpkg "github.com/onkernel/gaze-overlay"
	"github.com/onkernel/gaze-overlay/cmd/config"
	"github.com/onkernel/gaze-overlay/cmd/gazectl/api"
	"github.com/onkernel/gaze-overlay/lib/cdppage"
	"github.com/onkernel/gaze-overlay/lib/clickresolve"
	"github.com/onkernel/gaze-overlay/lib/devtools"
	"github.com/onkernel/gaze-overlay/lib/gazestream"
	"github.com/onkernel/gaze-overlay/lib/logger"
	oapi "github.com/onkernel/gaze-overlay/lib/oapi"
	"github.com/onkernel/gaze-overlay/lib/overlay"
	"github.com/onkernel/gaze-overlay/lib/pointer"
	"github.com/onkernel/gaze-overlay/lib/settings"
	"github.com/onkernel/gaze-overlay/lib/statusfeed"
	"github.com/onkernel/gaze-overlay/lib/xdotool"
)

// headless mode has no page to measure
var headlessViewport = pointer.Viewport{Width: 1280, Height: 720}

func main() {
	slogger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// Load configuration from environment variables
	config, err := config.Load()
	if err != nil {
		slogger.Error("failed to load configuration", "err", err)
		os.Exit(1)
	}
	slogger.Info("server configuration", "config", config)

	// context cancellation on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, config.SettingsDBPath)
	if err != nil {
		slogger.Error("failed to open settings store", "err", err)
		os.Exit(1)
	}
	defer closeStore()

	vocab, err := clickresolve.LoadVocabulary(config.VocabularyFile)
	if err != nil {
		slogger.Error("failed to load vocabulary", "err", err)
		os.Exit(1)
	}

	stream := gazestream.NewWebSocketClient(config.GazeStreamURL, gazestream.Config{
		ReconnectDelay:       config.ReconnectDelay,
		MaxReconnectAttempts: config.MaxReconnectAttempts,
	}, slogger)

	var (
		renderer overlay.Renderer
		page     clickresolve.Page
		cdp      *cdppage.Page
		upstream *devtools.UpstreamManager
	)
	if config.Headless {
		slogger.Info("running headless, overlay output is recorded in memory")
		renderer, page = overlay.NewRecordingRenderer(headlessViewport, "http://localhost"), clickresolve.NewMemoryPage()
	} else {
		upstream, err = newUpstream(ctx, config, slogger)
		if err != nil {
			slogger.Error("failed to resolve devtools upstream", "err", err)
			os.Exit(1)
		}
		upstream.Start(ctx)
		cdp = cdppage.New(upstream, cdppage.DefaultOptions(), slogger)
		renderer, page = cdp, cdp
	}

	var mirror overlay.PointerMirror
	if config.XdotoolMirror {
		mirror = xdotool.NewMirror(xdotool.New(config.DisplayNum), xdotool.Placement{
			OffsetX: config.MirrorOffsetX,
			OffsetY: config.MirrorOffsetY,
			Scale:   config.MirrorScale,
		}, slogger)
	}

	clickCfg := clickresolve.DefaultConfig()
	clickCfg.Debounce = config.BlinkDebounce
	clickCfg.Probe = clickresolve.ProbeConfig{Cardinal: config.ProbeOffset, Diagonal: config.ProbeDiagonal}

	ctrl := overlay.New(overlay.Options{
		Store:          store,
		Stream:         stream,
		Renderer:       renderer,
		Page:           page,
		Vocabulary:     vocab,
		Click:          clickCfg,
		Calibration:    pointer.Calibration{OffsetX: config.CalibrationOffsetX, OffsetY: config.CalibrationOffsetY},
		StatusAutoHide: config.StatusAutoHide,
		ScrollStep:     config.ScrollStep,
		Mirror:         mirror,
		Logger:         slogger,
	})
	feed := statusfeed.New(slogger)
	ctrl.OnSnapshot(feed.Publish)

	// the event loop outlives ctx so Shutdown can still run on it
	loopCtx, stopLoop := context.WithCancel(context.Background())
	defer stopLoop()
	go func() {
		_ = ctrl.Run(loopCtx)
	}()

	if cdp != nil {
		cdp.OnAction(func(ctx context.Context, a overlay.Action) {
			if err := ctrl.HandleAction(ctx, a); err != nil {
				slogger.Warn("overlay action failed", "kind", a.Kind, "err", err)
			}
		})
		go func() {
			if err := cdp.Run(ctx); err != nil {
				slogger.Error("devtools page stopped", "err", err)
			}
		}()
	} else if err := ctrl.Init(ctx); err != nil {
		slogger.Error("failed to initialize overlay", "err", err)
		os.Exit(1)
	}

	r := chi.NewRouter()
	r.Use(
		chiMiddleware.Logger,
		chiMiddleware.Recoverer,
		func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				ctxWithLogger := logger.AddToContext(r.Context(), slogger)
				next.ServeHTTP(w, r.WithContext(ctxWithLogger))
			})
		},
	)
	apiService := api.New(ctrl, feed)

	strictHandler := oapi.NewStrictHandler(apiService, nil)
	oapi.HandlerFromMux(strictHandler, r)
	r.Get("/overlay/status/socket", apiService.HandleStatusSocket)

	// endpoints to expose the spec
	r.Get("/spec.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/vnd.oai.openapi")
		w.Write(serverpkg.OpenAPIYAML)
	})
	r.Get("/spec.json", func(w http.ResponseWriter, r *http.Request) {
		jsonData, err := yaml.YAMLToJSON(serverpkg.OpenAPIYAML)
		if err != nil {
			http.Error(w, "failed to convert YAML to JSON", http.StatusInternalServerError)
			logger.FromContext(r.Context()).Error("failed to convert YAML to JSON", "err", err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(jsonData)
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", config.Port),
		Handler: r,
	}

	go func() {
		slogger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slogger.Error("http server failed", "err", err)
			stop()
		}
	}()

	// graceful shutdown
	<-ctx.Done()
	slogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	g, _ := errgroup.WithContext(shutdownCtx)

	g.Go(func() error {
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return apiService.Shutdown(shutdownCtx)
	})
	if upstream != nil {
		g.Go(func() error {
			upstream.Stop()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		slogger.Error("server failed to shutdown", "err", err)
	}
}

// openStore opens the SQLite settings store, or an in-memory one when no
// path is configured.
func openStore(ctx context.Context, path string) (settings.Store, func(), error) {
	if path == "" {
		return settings.NewMemoryStore(), func() {}, nil
	}
	store, err := settings.NewSQLiteStore(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { _ = store.Close() }, nil
}

// newUpstream pins DEVTOOLS_URL when set and otherwise follows the Chromium
// log for the DevTools websocket URL.
func newUpstream(ctx context.Context, cfg *config.Config, log *slog.Logger) (*devtools.UpstreamManager, error) {
	if cfg.DevToolsURL == "" {
		return devtools.NewUpstreamManager(cfg.ChromiumLogPath, log), nil
	}
	var wsURL string
	err := retry.New(
		retry.Attempts(10),
		retry.Delay(time.Second),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
	).Do(func() error {
		var err error
		wsURL, err = devtools.ResolveBrowserURL(ctx, http.DefaultClient, cfg.DevToolsURL)
		return err
	})
	if err != nil {
		return nil, err
	}
	return devtools.NewStaticUpstream(wsURL, log), nil
}
