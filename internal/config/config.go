package config

import (
	"fmt"
	"os"
	"strconv"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	PostgresUser     string // DBユーザー
	PostgresPassword string // DBパスワード
	PostgresDB       string // DB名
	PostgresHost     string // DBホスト（localhost）
	PostgresPort     int    // DBポート（5433）

	JWTSecret string // JWT署名シークレット

	GoEnv  string // dev/prod
	AppURL string // 自分のURL（ゲートウェイのcallback先になる）
	FEURL  string // フロントURL（決済後のリダイレクト先・CORS）

	// SSLCommerz
	SSLCommerzStoreID  string // Store ID
	SSLCommerzStorePwd string // Store パスワード
	SSLCommerzLive     bool   // true=本番 false=sandbox

	Currency   string // 決済通貨（BDT）
	TranPrefix string // tran_idのプレフィックス
}

// Loadは環境変数
func Load() (Config, error) {
	pgPort, err := mustAtoi("POSTGRES_PORT")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port: os.Getenv("PORT"),

		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresHost:     os.Getenv("POSTGRES_HOST"),
		PostgresPort:     pgPort,

		JWTSecret: os.Getenv("JWT_SECRET"),

		GoEnv:  os.Getenv("GO_ENV"),
		AppURL: os.Getenv("APP_URL"),
		FEURL:  os.Getenv("FE_URL"),

		SSLCommerzStoreID:  os.Getenv("SSLCOMMERZ_STORE_ID"),
		SSLCommerzStorePwd: os.Getenv("SSLCOMMERZ_STORE_PASSWORD"),
		SSLCommerzLive:     os.Getenv("SSLCOMMERZ_IS_LIVE") == "true",

		Currency:   os.Getenv("CURRENCY"),
		TranPrefix: os.Getenv("TRAN_PREFIX"),
	}

	//必須チェック
	if cfg.Port == "" {
		return Config{}, fmt.Errorf("PORT is required")
	}
	if cfg.PostgresUser == "" {
		return Config{}, fmt.Errorf("POSTGRES_USER is required")
	}
	if cfg.PostgresPassword == "" {
		return Config{}, fmt.Errorf("POSTGRES_PASSWORD is required")
	}
	if cfg.PostgresDB == "" {
		return Config{}, fmt.Errorf("POSTGRES_DB is required")
	}
	if cfg.PostgresHost == "" {
		return Config{}, fmt.Errorf("POSTGRES_HOST is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.GoEnv == "" {
		return Config{}, fmt.Errorf("GO_ENV is required")
	}
	if cfg.AppURL == "" {
		return Config{}, fmt.Errorf("APP_URL is required")
	}
	if cfg.FEURL == "" {
		return Config{}, fmt.Errorf("FE_URL is required")
	}
	if cfg.SSLCommerzStoreID == "" {
		return Config{}, fmt.Errorf("SSLCOMMERZ_STORE_ID is required")
	}
	if cfg.SSLCommerzStorePwd == "" {
		return Config{}, fmt.Errorf("SSLCOMMERZ_STORE_PASSWORD is required")
	}

	//デフォルト
	if cfg.Currency == "" {
		cfg.Currency = "BDT"
	}
	if cfg.TranPrefix == "" {
		cfg.TranPrefix = "AYMAN"
	}

	return cfg, nil
}

func mustAtoi(key string) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}
