package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/Mummayiz/Multi-user-Chat-app/internal/clock"
	"github.com/Mummayiz/Multi-user-Chat-app/internal/config"
	"github.com/Mummayiz/Multi-user-Chat-app/internal/handler"
	"github.com/Mummayiz/Multi-user-Chat-app/internal/hub"
	"github.com/Mummayiz/Multi-user-Chat-app/internal/identity"
	"github.com/Mummayiz/Multi-user-Chat-app/internal/repository"
	"github.com/Mummayiz/Multi-user-Chat-app/internal/service"
	"github.com/Mummayiz/Multi-user-Chat-app/pkg/database"
	"github.com/Mummayiz/Multi-user-Chat-app/pkg/jwt"
	"github.com/Mummayiz/Multi-user-Chat-app/pkg/log"
	"github.com/Mummayiz/Multi-user-Chat-app/pkg/middleware"
	"github.com/Mummayiz/Multi-user-Chat-app/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.L().Fatal().Err(err).Msg("failed to load configuration")
	}

	log.Init(cfg.Log)
	logger := log.L()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	logger.Info().Str("driver", cfg.Database.Driver).Msg("database connected")

	userRepo, err := repository.NewGormUserRepository(db)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate user schema")
	}

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize file storage")
	}
	logger.Info().Str("backend", cfg.Storage.Backend).Msg("file storage ready")

	clk, err := clock.New(cfg.Clock)
	if err != nil {
		logger.Fatal().Err(err).Str("timezone", cfg.Clock.Timezone).Msg("invalid timezone")
	}

	tokens := jwt.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.Issuer)
	idsvc := identity.NewService(userRepo, tokens, cfg.Auth.BcryptCost)
	authMiddleware := middleware.NewAuthMiddleware(tokens)

	room := hub.NewHub().Room(hub.DefaultRoom)
	relaySvc := service.NewRelayService(room, clk)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(log.GinMiddleware(logger))

	handler.NewHTTPHandler(idsvc, store, authMiddleware).RegisterRoutes(r)
	handler.NewWSHandler(room, relaySvc, idsvc, cfg.WebSocket).RegisterRoutes(r)

	r.Static("/static", "./web/static")
	r.StaticFile("/", "./web/index.html")

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("addr", server.Addr).Msg("chat relay listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}

	logger.Info().Msg("chat relay stopped")
}
