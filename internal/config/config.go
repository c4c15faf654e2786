package config

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	// Server-side settings
	RunAddress  string `env:"RUN_ADDRESS"`
	DatabaseDSN string `env:"DATABASE_URI"`
	AuthSecret  string `env:"AUTH_SECRET"`
	BackupDir   string `env:"BACKUP_DIR"`
	TokenTTLMin int    `env:"TOKEN_TTL_MIN"`

	// Client-side settings
	ServerURL string `env:"SERVER_URL"`
	TokenFile string `env:"TOKEN_FILE"`
	Version   bool   `env:"-"` // show client version and exit (flag only)
}

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// flags работают ТОЛЬКО если переменные из env не заданы
	// Server flags
	flag.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "адрес и порт HTTP-сервера")
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "секрет для подписи JWT")
	flag.StringVar(&cfg.BackupDir, "backup-dir", cfg.BackupDir, "каталог для файлов резервных копий")
	flag.IntVar(&cfg.TokenTTLMin, "token-ttl", cfg.TokenTTLMin, "время жизни токена в минутах")
	// Client flags
	flag.StringVar(&cfg.ServerURL, "server-url", cfg.ServerURL, "base URL of the GlucoTrack server")
	flag.StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "path to auth token file (client)")
	flag.BoolVar(&cfg.Version, "version", cfg.Version, "Show client version and exit")

	flag.Parse()

	// Defaults
	if cfg.RunAddress == "" {
		cfg.RunAddress = "localhost:8080"
	}
	if cfg.AuthSecret == "" {
		cfg.AuthSecret = "dev-secret-key"
	}
	if cfg.BackupDir == "" {
		cfg.BackupDir = "backups"
	}
	if cfg.TokenTTLMin <= 0 {
		cfg.TokenTTLMin = 24 * 60
	}
	if cfg.ServerURL == "" {
		cfg.ServerURL = "http://" + cfg.RunAddress
	}

	// Fill client defaults if empty
	if cfg.TokenFile == "" {
		home, _ := os.UserHomeDir()
		cfg.TokenFile = filepath.Join(home, ".glucotrack_token")
	}

	return cfg
}
