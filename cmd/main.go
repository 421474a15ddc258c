package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/sync/errgroup"

	_ "foodtruck/docs"
	"foodtruck/internal/caching"
	"foodtruck/internal/config"
	"foodtruck/internal/handlers"
	"foodtruck/internal/jobs/background"
	"foodtruck/internal/logger"
	"foodtruck/internal/middleware"
	"foodtruck/internal/repositories"
	"foodtruck/internal/services"
	"foodtruck/pkg/database"
)

const version = "1.0.0"

// @title                       Food Truck Ordering API
// @version                     1.0
// @description                 Menus, carts, wallet payments and order fulfilment for food trucks.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the JWT.
func main() {
	envFile := flag.String("env", ".env", "optional env file")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		bootLog := logger.New("info", "json")
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	if cfg.RunMigrations {
		if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
			return err
		}
	}

	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	cache := caching.NewRedisCacheService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer cache.Close()

	media, err := services.NewMinioService(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL, cfg.MinioBucket)
	if err != nil {
		return err
	}
	if err := media.EnsureBucketExists(ctx); err != nil {
		// uploads fail until storage is reachable, everything else keeps working
		log.Warn().Err(err).Str("bucket", cfg.MinioBucket).Msg("image bucket unavailable")
	}

	var jwks *keyfunc.JWKS
	if cfg.JWKSURL != "" {
		jwks, err = middleware.NewJWKS(cfg.JWKSURL)
		if err != nil {
			return err
		}
		defer jwks.EndBackground()
	}

	loc := cfg.Location()
	store := repositories.NewStore(pool)

	tokenSvc := services.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)
	userSvc := services.NewUserService(store)
	truckSvc := services.NewFoodTruckService(store, cache, cfg.CacheTTL)
	itemSvc := services.NewItemService(store, media, cache, cfg.CacheTTL)
	categorySvc := services.NewCategoryService(store)
	cartSvc := services.NewCartService(caching.NewCartStore(cache, cfg.CartTTL), store)
	orderSvc := services.NewOrderService(store, services.NewSettlementService(), loc)
	walletSvc := services.NewWalletService(store)
	receiptSvc := services.NewReceiptService(loc)

	scheduler, err := background.NewJobScheduler(truckSvc, cfg.CacheWarmInterval, log)
	if err != nil {
		return err
	}

	h := &handlers.Handlers{
		Health:     handlers.NewHealthHandlers(pool, cache, media),
		Auth:       handlers.NewAuthHandlers(userSvc, tokenSvc),
		Trucks:     handlers.NewFoodTruckHandlers(truckSvc, loc),
		Items:      handlers.NewItemHandlers(itemSvc),
		Categories: handlers.NewCategoryHandlers(categorySvc),
		Carts:      handlers.NewCartHandlers(cartSvc),
		Orders:     handlers.NewOrderHandlers(orderSvc, cartSvc, receiptSvc, loc),
		Users:      handlers.NewUserHandlers(userSvc),
		Wallets:    handlers.NewWalletHandlers(walletSvc),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())
	e.Use(echoMiddleware.BodyLimit("6M"))

	versions := middleware.NewVersionMiddleware()
	e.Use(versions.APIVersionResolver())

	e.GET("/swagger/*", echoSwagger.WrapHandler)
	handlers.RegisterRoutes(e, h, versions, middleware.Authenticate([]byte(cfg.JWTSecret), jwks)...)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("version", version).Str("port", cfg.Port).Str("timezone", loc.String()).Msg("food truck server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		scheduler.Start()
		<-gctx.Done()
		return scheduler.Stop()
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Dur("timeout", cfg.ShutdownTimeout).Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
