package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/pixlet/internal/history"
	"github.com/ziadkadry99/pixlet/internal/navigation"
	"github.com/ziadkadry99/pixlet/internal/server"
	"github.com/ziadkadry99/pixlet/internal/session"
	"github.com/ziadkadry99/pixlet/internal/shell"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the start page server",
	Long:  `Starts the Pixlet HTTP server: the start page, its WebSocket event relay, the no-script fallbacks and the history API.`,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}

	database, store, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	// Pages open through their own socket; see session.Manager.
	nav, err := navigation.New(cfg.Navigation(), nil,
		navigation.WithRecorder(store),
		navigation.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("configuring navigation: %w", err)
	}

	sessions := session.NewManager(cfg.Session(), nav,
		session.WithSuggester(store),
		session.WithLogger(logger),
	)
	sh, err := shell.New(sessions, nav, shell.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("building pages: %w", err)
	}

	srv := server.New(server.Config{Port: cfg.Port}, database, logger)
	registerAllRoutes(srv, sh, store)

	// Graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sessions.Run(ctx)

	go func() {
		<-ctx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown", "error", err)
		}
	}()

	logger.Info("pixlet starting",
		"version", Version,
		"url", fmt.Sprintf("http://localhost:%d", cfg.Port),
		"database", database.Path(),
		"auto_open_home", cfg.AutoOpenHome,
	)

	return srv.Start()
}

// registerAllRoutes wires up the feature routes.
func registerAllRoutes(srv *server.Server, sh *shell.Shell, store *history.Store) {
	r := srv.Router()

	// Start page, session socket and fallbacks
	sh.RegisterRoutes(r)

	// History API
	history.RegisterRoutes(r, store)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
