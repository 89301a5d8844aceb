package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vnkhanh/learnpath-backend/config"
	"github.com/vnkhanh/learnpath-backend/middleware"
	"github.com/vnkhanh/learnpath-backend/routes"
	"github.com/vnkhanh/learnpath-backend/utils"
)

var skipMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.JWTSecret == "" {
			return errors.New("JWT_SECRET_KEY must be set")
		}

		db, err := config.InitDB(cfg)
		if err != nil {
			return err
		}
		if !skipMigrate {
			if err := config.Migrate(db); err != nil {
				return err
			}
			log.Println("database migrated")
		}

		if store, err := utils.NewSupabaseStore(cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseBucket); err == nil {
			utils.Images = store
		} else {
			log.Println("profile image upload disabled:", err)
		}

		limiter, err := newLimiter(cmd.Context())
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:    ":" + cfg.Port,
			Handler: routes.NewRouter(db, cfg, limiter),
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			log.Println("Server running at Port:" + cfg.Port)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatalf("listen: %v", err)
			}
		}()

		<-ctx.Done()
		log.Println("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

// newLimiter prefers Redis so limits are shared between instances, and
// falls back to a per-process limiter.
func newLimiter(ctx context.Context) (middleware.Limiter, error) {
	if cfg.RateLimit <= 0 {
		return nil, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	client, err := config.InitRedis(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if client != nil {
		return middleware.NewRedisLimiter(client, cfg.RateLimit, cfg.RateWindow), nil
	}
	return middleware.NewMemoryLimiter(cfg.RateLimit, cfg.RateWindow), nil
}

func init() {
	serveCmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "Do not run AutoMigrate on startup")
}
