package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tradehub-be/internal/address"
	"tradehub-be/internal/analytics"
	"tradehub-be/internal/api"
	"tradehub-be/internal/auth"
	"tradehub-be/internal/blog"
	"tradehub-be/internal/cache"
	"tradehub-be/internal/cart"
	"tradehub-be/internal/category"
	"tradehub-be/internal/config"
	"tradehub-be/internal/db"
	"tradehub-be/internal/docstore"
	"tradehub-be/internal/logger"
	"tradehub-be/internal/middleware"
	"tradehub-be/internal/notification"
	"tradehub-be/internal/order"
	"tradehub-be/internal/product"
	"tradehub-be/internal/review"
	"tradehub-be/internal/rfq"
	"tradehub-be/internal/shipment"
	"tradehub-be/internal/storage"
	"tradehub-be/internal/supplier"
	"tradehub-be/internal/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	shutdownTimeout   = 10 * time.Second
	limiterSweepEvery = time.Minute
)

// Swapped in tests.
var (
	openDBFunc      = db.InitDB
	startServerFunc = func(srv *http.Server) error { return srv.ListenAndServe() }
)

func main() {
	logger.Init(os.Getenv("APP_ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}

type app struct {
	handler http.Handler
	sweeper *rfq.Sweeper
	limiter *middleware.RateLimiter
	closers []func() error
}

func (a *app) close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			logger.L().Warn("close failed", zap.Error(err))
		}
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	go a.sweeper.Run(ctx)
	go a.limiter.Run(ctx, limiterSweepEvery)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- startServerFunc(srv) }()
	logger.L().Info("http server listening",
		zap.String("addr", srv.Addr),
		zap.String("env", cfg.AppEnv),
		zap.String("docstore", cfg.DocstoreDriver),
	)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.L().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newApp builds every backend from cfg and wires the services into the
// HTTP handler.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{}

	var store docstore.Store
	switch cfg.DocstoreDriver {
	case config.DriverMemory:
		logger.L().Warn("using in-memory document store; data is lost on restart")
		store = docstore.NewMemory()
	default:
		database := openDBFunc(cfg)
		a.closers = append(a.closers, database.Close)
		store = docstore.NewPostgres(database)
	}

	var c cache.Cache = cache.NewMemory()
	if cfg.RedisAddr != "" {
		r, err := cache.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			a.close()
			return nil, err
		}
		a.closers = append(a.closers, r.Close)
		c = r
	}

	var uploader storage.Uploader = storage.NewStub()
	if cfg.Storage.Enabled() {
		s3, err := storage.NewS3(ctx, cfg.Storage)
		if err != nil {
			a.close()
			return nil, err
		}
		uploader = s3
	} else {
		logger.L().Warn("object storage not configured; images are kept in memory")
	}

	var mailer notification.Mailer = notification.LogMailer{}
	if cfg.SMTP.Enabled() {
		mailer = notification.NewSMTPMailer(cfg.SMTP)
	}

	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		a.close()
		return nil, err
	}

	userRepo := user.NewRepository(store)
	categoryRepo := category.NewRepository(store)
	productRepo := product.NewRepository(store)
	supplierRepo := supplier.NewRepository(store)
	orderRepo := order.NewRepository(store)
	rfqRepo := rfq.NewRepository(store)
	shipmentRepo := shipment.NewRepository(store)
	addressRepo := address.NewRepository(store)

	notifications := notification.NewService(notification.NewRepository(store), mailer)
	cartSvc := cart.NewService(productRepo)
	rfqSvc := rfq.NewService(rfqRepo, userRepo, notifications, cfg.RFQExpiryWindow)
	usersSvc := user.NewService(userRepo, tokens)

	svc := api.Services{
		Users:         usersSvc,
		Categories:    category.NewService(categoryRepo, productRepo, c, cfg.CacheTTL),
		Products:      product.NewService(productRepo, categoryRepo, supplierRepo, uploader, c, cfg.CacheTTL),
		Reviews:       review.NewService(review.NewRepository(store), productRepo),
		Cart:          cartSvc,
		Addresses:     address.NewService(addressRepo),
		Orders:        order.NewService(orderRepo, cartSvc, addressRepo, notifications),
		RFQs:          rfqSvc,
		Shipments:     shipment.NewService(shipmentRepo, orderRepo, notifications),
		Blog:          blog.NewService(blog.NewRepository(store)),
		Suppliers:     supplier.NewService(supplierRepo, userRepo),
		Notifications: notifications,
		Analytics:     analytics.NewService(orderRepo, rfqRepo, shipmentRepo, productRepo, supplierRepo),
	}

	h := api.NewHandler(svc, tokens.TTL(), cfg.AppEnv == "production")
	a.limiter = middleware.NewRateLimiter(cfg.InternalSecretKey)
	a.handler = api.Wrap(api.NewRouter(h), usersSvc, a.limiter, cfg.CORSOrigin)
	a.sweeper = rfq.NewSweeper(rfqSvc, cfg.RFQSweepInterval)
	return a, nil
}
