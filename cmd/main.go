package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/cexll/contacts/internal/api"
	"github.com/cexll/contacts/internal/auth"
	"github.com/cexll/contacts/internal/avatar"
	"github.com/cexll/contacts/internal/config"
	"github.com/cexll/contacts/internal/store"
	"github.com/cexll/contacts/internal/web"
)

// serveFunc runs srv until ctx is cancelled
type serveFunc func(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration) error

var (
	loadDotEnv         = godotenv.Load
	openStore          = store.Open
	newWebHandler      = web.NewHandler
	newAvatarResolver  = avatar.NewGitHubResolver
	newLogger          = buildLogger
	defaultListenServe = listenAndServe
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the contacts web server",
		RunE:  runServe,
	}

	root := &cobra.Command{
		Use:   "contacts",
		Short: "Contacts - a small address book web app",
		Long: `contacts serves a searchable address book over HTTP.

Configuration is read from the environment (and a .env file if present).
Run without arguments to start the server.`,
		SilenceUsage: true,
		RunE:         runServe,
	}

	root.AddCommand(serveCmd, newTokenCmd())
	return root
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return run(ctx, defaultListenServe)
}

func newTokenCmd() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a bearer token for the JSON API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_ = loadDotEnv()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			signer, err := auth.NewSigner(cfg.APISecret)
			if err != nil {
				return fmt.Errorf("API_SECRET must be set to issue tokens: %w", err)
			}

			token, err := signer.Issue(subject, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "cli", "token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}

func buildLogger(level zapcore.Level) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	return cfg.Build()
}

func run(ctx context.Context, serve serveFunc) error {
	// Load .env file (ignore error if file doesn't exist)
	_ = loadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := newLogger(cfg.Level())
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting contacts server",
		zap.Int("port", cfg.Port),
		zap.String("store", cfg.StoreDriver),
		zap.Bool("api", cfg.APIEnabled()),
		zap.Bool("avatar_lookup", cfg.AvatarLookup))

	contactStore, err := openStore(cfg.StoreDriver, cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer contactStore.Close()

	if cfg.SeedFile != "" {
		seed, err := store.ReadSeed(cfg.SeedFile)
		if err != nil {
			return err
		}
		n, err := store.Seed(ctx, contactStore, seed)
		if err != nil {
			return fmt.Errorf("failed to seed store: %w", err)
		}
		logger.Info("seeded contacts", zap.Int("count", n), zap.String("file", cfg.SeedFile))
	}

	webHandler, err := newWebHandler(contactStore, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize web handler: %w", err)
	}

	if cfg.AvatarLookup {
		resolver, err := newAvatarResolver(cfg.GitHubToken, cfg.GitHubAPIURL)
		if err != nil {
			return fmt.Errorf("failed to initialize avatar lookup: %w", err)
		}
		webHandler.WithAvatarResolver(resolver)
	}

	r := mux.NewRouter()
	r.Use(web.LogRequests(logger))

	// Health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	if cfg.APIEnabled() {
		signer, err := auth.NewSigner(cfg.APISecret)
		if err != nil {
			return fmt.Errorf("failed to initialize API auth: %w", err)
		}
		(&api.Contacts{Store: contactStore, Signer: signer, Logger: logger}).Register(r)
	}

	webHandler.RegisterRoutes(r)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 15 * time.Second,
	}

	logger.Info("server listening", zap.String("addr", srv.Addr))
	if err := serve(ctx, srv, cfg.ShutdownTimeout); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

// listenAndServe serves until ctx is done, then shuts down gracefully
func listenAndServe(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
