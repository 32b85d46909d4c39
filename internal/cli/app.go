package cli

import (
	"context"
	"errors"
	"io/fs"

	"storefront/internal/config"
	"storefront/internal/infra/db"
	"storefront/pkg/closer"
	"storefront/pkg/logger"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

// コマンドが共通で使う部品
type app struct {
	cfg    config.Config
	logger logger.Logger
	db     *gorm.DB
	closer *closer.Closer
}

// bootstrap は .env → 設定 → ロガー → DB の順に用意する
func bootstrap(opts *RootOptions) (*app, error) {
	//.envは無くてもよい
	if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	if opts.Verbose {
		level = "debug"
	}
	l := logger.NewSlogLogger(level, cfg.IsProd())

	//DB接続
	gdb, err := db.Connect(cfg.DB)
	if err != nil {
		return nil, err
	}
	c := closer.New()
	c.Add("db", func(context.Context) error {
		sqlDB, err := gdb.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	})

	return &app{cfg: cfg, logger: l, db: gdb, closer: c}, nil
}

// migrateSchema はsqliteならAutoMigrate、postgresなら埋め込みSQL
func (a *app) migrateSchema() error {
	if a.cfg.DB.Driver == "postgres" {
		return db.MigratePostgres(a.cfg.DB.DSN)
	}
	return db.AutoMigrate(a.db)
}

func (a *app) close() {
	if err := a.closer.Close(context.Background()); err != nil {
		a.logger.Errorf(err, "close resources")
	}
}
