package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/urfave/cli/v3"

	"github.com/bluebarrow/searchd/pkg/api"
	"github.com/bluebarrow/searchd/pkg/config"
	"github.com/bluebarrow/searchd/pkg/realtime"
	"github.com/bluebarrow/searchd/pkg/search"
	"github.com/bluebarrow/searchd/pkg/storage"
)

// ServeCommand creates the serve command
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the search HTTP server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "listen",
				Usage: "Listen address (overrides config)",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return serve(ctx, c.String("config"), c.String("listen"))
		},
	}
}

func serve(ctx context.Context, configPath, listenOverride string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if listenOverride != "" {
		cfg.ListenAddr = listenOverride
	}

	store, err := storage.NewStoreWithMigrations(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening catalog database: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			fmt.Printf("Warning: failed to close store: %v\n", err)
		}
	}()

	service := search.NewService(store, searchOptions(cfg))
	hub := realtime.NewSearchHub(32)
	service.AttachHub(hub)

	apiServer := api.NewServer(service, store, hub, cfg.SuppressedCallerIPs())
	mux := http.NewServeMux()
	apiServer.RegisterRoutes(mux)

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           api.CorsMiddleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Search server listening on http://%s", cfg.ListenAddr)
		log.Printf("  GET /search/v3/{term} - Aggregated search, default limit")
		log.Printf("  GET /search/v3?term=&limit= - Aggregated search, caller limit")
		log.Printf("  GET /search/{term}/{limit} - Legacy pipeline search")
		log.Printf("  GET /api/stats - Catalog statistics")
		log.Printf("  GET /api/searches/live - Live search feed (WebSocket)")
		log.Printf("  GET /health - Health check")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Signal handling - SIGHUP reloads configuration
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	// Watch the config file so edits apply without a restart. Tunables and
	// the suppressed IP list reload in place; db_path and listen_addr
	// changes still need a restart.
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("Warning: failed to create config file watcher: %v", err)
	} else {
		defer func() {
			if err := watcher.Close(); err != nil {
				log.Printf("Warning: failed to close config file watcher: %v", err)
			}
		}()
		if err := watcher.Add(configPath); err != nil {
			log.Printf("Warning: failed to watch config file %s: %v", configPath, err)
		} else {
			log.Printf("Watching config file for changes: %s", configPath)
		}
	}

	reload := func() {
		newCfg, err := config.LoadConfig(configPath)
		if err != nil {
			log.Printf("Failed to reload configuration: %v", err)
			return
		}
		service.UpdateOptions(searchOptions(newCfg))
		apiServer.UpdateSuppressed(newCfg.SuppressedCallerIPs())
		if newCfg.DBPath != cfg.DBPath || newCfg.ListenAddr != cfg.ListenAddr {
			log.Printf("db_path/listen_addr changed; restart required for those to take effect")
		}
		log.Println("Configuration reloaded")
	}

	shutdown := func() error {
		fmt.Println("\nShutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}

	var watcherEvents chan fsnotify.Event
	if watcher != nil {
		watcherEvents = watcher.Events
	}

	for {
		select {
		case err := <-serverErr:
			return fmt.Errorf("HTTP server failed: %w", err)
		case sig := <-sigCh:
			switch sig {
			case syscall.SIGHUP:
				log.Println("Received SIGHUP, reloading configuration...")
				reload()
			case syscall.SIGINT, syscall.SIGTERM:
				return shutdown()
			}
		case event, ok := <-watcherEvents:
			if !ok {
				watcherEvents = nil
				continue
			}
			// Editors often replace the file atomically, so react to
			// rename/remove as well and re-add the watch.
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				if event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
					time.Sleep(100 * time.Millisecond)
					if err := watcher.Add(configPath); err != nil {
						log.Printf("Warning: failed to re-watch config file: %v", err)
					}
				}
				log.Printf("Config file changed (%s), reloading configuration...", event.Op)
				reload()
			}
		case <-ctx.Done():
			return shutdown()
		}
	}
}

func searchOptions(cfg *config.Config) search.Options {
	return search.Options{
		DefaultLimit:     cfg.DefaultLimit,
		MaxLimit:         cfg.MaxLimit,
		SubSearchTimeout: cfg.SubsearchTimeout.Duration,
		PartialResults:   cfg.PartialResults,
	}
}
