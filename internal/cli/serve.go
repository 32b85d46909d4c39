package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/handler"
	"storefront/internal/infra/cache"
	"storefront/internal/infra/kafka"
	"storefront/internal/infra/mail"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/infra/storage"
	"storefront/internal/middleware"
	repo "storefront/internal/repository"
	"storefront/internal/server"
	"storefront/internal/session"
	"storefront/internal/usecase"
	auth "storefront/internal/usecase/auth_usecase"

	"github.com/spf13/cobra"
)

const (
	uploadURLPath   = "/static/images"
	shutdownTimeout = 10 * time.Second
)

// NewServeCommand はHTTPサーバーを起動する
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "serve",
		Short:        "Run the storefront HTTP server",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, rootOpts)
		},
	}
}

func runServer(ctx context.Context, opts *RootOptions) error {
	a, err := bootstrap(opts)
	if err != nil {
		return err
	}
	defer a.close()
	cfg, l := a.cfg, a.logger

	if err := a.migrateSchema(); err != nil {
		return err
	}

	//Repository（GORM実装）生成
	var productRepo repo.ProductRepository = infraRepo.NewProductGormRepository(a.db)
	orderRepo := infraRepo.NewOrderGormRepository(a.db)
	auditRepo := infraRepo.NewAuditLogGormRepository(a.db)
	userRepo := infraRepo.NewUserGormRepository(a.db)
	txm := infraRepo.NewTxManagerGorm(a.db)

	//Redis（任意）
	if cfg.Redis.Addr != "" {
		rc := cache.NewRedisClient(cfg.Redis)
		if err := cache.Ping(ctx, rc); err != nil {
			//落ちていてもミス扱いで動く
			l.Warnf("redis unavailable, catalog cache will miss: %v", err)
		}
		a.closer.Add("redis", func(context.Context) error { return rc.Close() })
		productRepo = infraRepo.NewCachedProductRepository(productRepo, cache.NewProductCache(rc, cfg.Redis.ProductTTL, l))
	}

	//画像の保存先
	images, uploadDir, err := newImageStore(ctx, a)
	if err != nil {
		return err
	}

	//通知（メール + Kafka）
	var events usecase.OrderEventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(l, cfg.Kafka)
		a.closer.Add("kafka", func(context.Context) error { return producer.Close() })
		events = producer
	}
	notifier := usecase.NewNotificationService(
		mail.NewSMTPMailer(cfg.Mail), events,
		cfg.Mail.OwnerEmail, cfg.Mail.ShopName, cfg.Mail.Timeout, l,
	)

	//Usecase生成
	productUC := usecase.NewProductUsecase(productRepo, orderRepo, auditRepo, images, l)
	cartUC := usecase.NewCartUsecase(productRepo, l)
	checkoutUC := usecase.NewCheckoutUsecase(productRepo, txm, notifier, l)
	adminOrderUC := usecase.NewAdminOrderUsecase(txm, orderRepo, productRepo, auditRepo, l)

	issuer := auth.NewJWTIssuer(cfg.SecretKey, cfg.AdminSessionTTL)
	loginUC := auth.NewLoginUsecase(userRepo, auth.NewBcryptPasswordVerifier(), issuer, auth.SystemClock{})

	//Handler生成
	sessions := session.NewStore(cfg.SecretKey, cfg.IsProd())
	pages := handler.NewPages(sessions, cfg.Mail.ShopName, l)
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}

	e, err := server.New(l, server.Handlers{
		Pages:         pages,
		Health:        handler.NewHealthHandler(sqlDB),
		Product:       handler.NewProductHandler(pages, productUC),
		Cart:          handler.NewCartHandler(pages, cartUC),
		Checkout:      handler.NewCheckoutHandler(pages, checkoutUC),
		Auth:          handler.NewAuthHandler(pages, loginUC),
		AdminProduct:  handler.NewAdminProductHandler(pages, productUC),
		AdminOrder:    handler.NewAdminOrderHandler(pages, adminOrderUC),
		AdminGate:     middleware.AdminGate(sessions, issuer),
		UploadDir:     uploadDir,
		UploadURLPath: uploadURLPath,
	})
	if err != nil {
		return err
	}
	a.closer.Add("http", e.Shutdown)

	//Server起動
	errCh := make(chan error, 1)
	go func() {
		l.Infof("listening on :%s", cfg.Port)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	l.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return a.closer.Close(shutdownCtx)
}

// STORAGE_BACKENDに合わせた保存先。ローカルなら配信するディレクトリも返す
func newImageStore(ctx context.Context, a *app) (usecase.ImageStore, string, error) {
	sc := a.cfg.Storage
	if sc.Backend == "minio" {
		mc, err := storage.NewMinIOClient(sc)
		if err != nil {
			return nil, "", err
		}
		if err := storage.EnsureBucket(ctx, mc, sc.MinioBucket); err != nil {
			return nil, "", err
		}
		return storage.NewMinioStorage(mc, sc.MinioBucket, sc.MinioPublicURL), "", nil
	}

	ls, err := storage.NewLocalStorage(sc.UploadDir, sc.PublicBaseURL, uploadURLPath)
	if err != nil {
		return nil, "", err
	}
	return ls, sc.UploadDir, nil
}
