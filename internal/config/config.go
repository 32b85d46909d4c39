package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const devSecretKey = "dev_secret_change_me"

// Configはアプリ全体の設定
type Config struct {
	Port  string // サーバーポート（8080）
	GoEnv string // dev/prod

	SecretKey       string        // セッションcookieと管理者トークンの署名鍵
	AdminSessionTTL time.Duration // 管理者ログインの有効期限

	DB      DBConfig
	Storage StorageConfig
	Mail    MailConfig
	Redis   RedisConfig
	Kafka   KafkaConfig

	LogLevel string
}

type DBConfig struct {
	Driver string // sqlite / postgres
	DSN    string
}

type StorageConfig struct {
	Backend       string // local / minio
	UploadDir     string // ローカル保存先（static/images）
	PublicBaseURL string // 画像URLの先頭

	MinioEndpoint  string
	MinioUser      string
	MinioPassword  string
	MinioBucket    string
	MinioUseSSL    bool
	MinioPublicURL string
}

type MailConfig struct {
	Server     string
	Port       int
	Username   string
	Password   string
	OwnerEmail string // 店舗オーナーへの通知先
	ShopName   string
	Timeout    time.Duration
}

type RedisConfig struct {
	Addr       string // 空ならキャッシュ無効
	Password   string
	DB         int
	ProductTTL time.Duration
}

type KafkaConfig struct {
	Brokers []string // 空ならイベント送信しない
	Topic   string
}

func (c Config) IsProd() bool {
	return c.GoEnv == "prod"
}

// Loadは環境変数
func Load() (Config, error) {
	mailPort, err := parseIntEnv("MAIL_PORT", 587)
	if err != nil {
		return Config{}, err
	}
	redisDB, err := parseIntEnv("REDIS_DB_ID", 0)
	if err != nil {
		return Config{}, err
	}
	adminTTL, err := parseDurationEnv("ADMIN_SESSION_TTL", 12*time.Hour)
	if err != nil {
		return Config{}, err
	}
	productTTL, err := parseDurationEnv("PRODUCT_TTL", 3*time.Minute)
	if err != nil {
		return Config{}, err
	}
	mailTimeout, err := parseDurationEnv("MAIL_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, err
	}
	minioSSL, err := parseBoolEnv("MINIO_USE_SSL", false)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:  getEnvOrDefault("PORT", "8080"),
		GoEnv: getEnvOrDefault("GO_ENV", "dev"),

		SecretKey:       os.Getenv("SECRET_KEY"),
		AdminSessionTTL: adminTTL,

		DB: DBConfig{
			Driver: getEnvOrDefault("DB_DRIVER", "sqlite"),
			DSN:    os.Getenv("DATABASE_URL"),
		},
		Storage: StorageConfig{
			Backend:        getEnvOrDefault("STORAGE_BACKEND", "local"),
			UploadDir:      getEnvOrDefault("UPLOAD_DIR", "static/images"),
			PublicBaseURL:  strings.TrimRight(getEnvOrDefault("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
			MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
			MinioUser:      os.Getenv("MINIO_ROOT_USER"),
			MinioPassword:  os.Getenv("MINIO_ROOT_PASSWORD"),
			MinioBucket:    os.Getenv("BUCKET_NAME"),
			MinioUseSSL:    minioSSL,
			MinioPublicURL: strings.TrimRight(os.Getenv("MINIO_PUBLIC_URL"), "/"),
		},
		Mail: MailConfig{
			Server:     getEnvOrDefault("MAIL_SERVER", "smtp.gmail.com"),
			Port:       mailPort,
			Username:   os.Getenv("MAIL_USERNAME"),
			Password:   os.Getenv("MAIL_PASSWORD"),
			OwnerEmail: os.Getenv("SHOP_OWNER_EMAIL"),
			ShopName:   getEnvOrDefault("SHOP_NAME", "SPS Sarees"),
			Timeout:    mailTimeout,
		},
		Redis: RedisConfig{
			Addr:       os.Getenv("REDIS_ADDR"),
			Password:   os.Getenv("REDIS_PASSWORD"),
			DB:         redisDB,
			ProductTTL: productTTL,
		},
		Kafka: KafkaConfig{
			Brokers: splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:   getEnvOrDefault("KAFKA_TOPIC", "orders"),
		},
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
	}

	if cfg.DB.DSN == "" {
		cfg.DB.DSN = defaultDSN(cfg.DB.Driver)
	}

	//必須チェック
	if cfg.SecretKey == "" {
		if cfg.IsProd() {
			return Config{}, fmt.Errorf("SECRET_KEY is required")
		}
		cfg.SecretKey = devSecretKey
	}
	switch cfg.DB.Driver {
	case "sqlite", "postgres":
	default:
		return Config{}, fmt.Errorf("DB_DRIVER must be sqlite or postgres: %q", cfg.DB.Driver)
	}
	switch cfg.Storage.Backend {
	case "local":
	case "minio":
		if cfg.Storage.MinioEndpoint == "" {
			return Config{}, fmt.Errorf("MINIO_ENDPOINT is required")
		}
		if cfg.Storage.MinioBucket == "" {
			return Config{}, fmt.Errorf("BUCKET_NAME is required")
		}
	default:
		return Config{}, fmt.Errorf("STORAGE_BACKEND must be local or minio: %q", cfg.Storage.Backend)
	}
	if cfg.AdminSessionTTL <= 0 {
		return Config{}, fmt.Errorf("ADMIN_SESSION_TTL must be positive")
	}

	return cfg, nil
}

// DATABASE_URLが無いときのDSN。postgresはPOSTGRES_*から組み立てる
func defaultDSN(driver string) string {
	if driver == "postgres" {
		return fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			getEnvOrDefault("POSTGRES_HOST", "localhost"),
			getEnvOrDefault("POSTGRES_PORT", "5432"),
			getEnvOrDefault("POSTGRES_USER", "postgres"),
			getEnvOrDefault("POSTGRES_PASSWORD", "postgres"),
			getEnvOrDefault("POSTGRES_DB", "app"),
			getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
		)
	}
	return "data/app.db"
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseIntEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be duration: %w", key, err)
	}
	return d, nil
}

func parseBoolEnv(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be bool: %w", key, err)
	}
	return b, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
