package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Redis (선택: 프로세스 간 레이트 리밋 공유용)
	Redis RedisConfig

	// External market data
	MarketData MarketDataConfig

	// Engine
	Engine EngineConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// MarketDataConfig holds market data provider configuration
type MarketDataConfig struct {
	ChartBaseURL   string // 일봉/분봉 차트 API
	GlobalBaseURL  string // 해외 지수/종목 시세 API
	Timeout        time.Duration
	RatePerSecond  int // 심볼당 초당 요청 한도
}

// EngineConfig holds paths and tuning for the decision engine
type EngineConfig struct {
	RefDataDir        string // 연간 캘린더/커플링 YAML 디렉토리
	WeightHistoryPath string // 가중치 성과 이력 JSON 파일
	Timezone          string // 의사결정 기준 타임존 (기본: Asia/Seoul)

	SentimentTTL time.Duration // 심리 지표 캐시
	GlobalTTL    time.Duration // 글로벌 스냅샷 캐시
	FuturesTTL   time.Duration // 선물 시세 캐시
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8091"),
		Env:  getEnv("ENV", "development"),

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		MarketData: MarketDataConfig{
			ChartBaseURL:  getEnv("MARKETDATA_CHART_URL", "https://fchart.stock.naver.com"),
			GlobalBaseURL: getEnv("MARKETDATA_GLOBAL_URL", "https://api.stock.naver.com"),
			Timeout:       getEnvAsDuration("MARKETDATA_TIMEOUT", "10s"),
			RatePerSecond: getEnvAsInt("MARKETDATA_RATE_PER_SEC", 5),
		},

		Engine: EngineConfig{
			RefDataDir:        getEnv("ARGOS_REFDATA_DIR", "config/argos"),
			WeightHistoryPath: getEnv("ARGOS_WEIGHT_HISTORY", "data/weight_history.json"),
			Timezone:          getEnv("ARGOS_TIMEZONE", "Asia/Seoul"),
			SentimentTTL:      getEnvAsDuration("ARGOS_SENTIMENT_TTL", "10m"),
			GlobalTTL:         getEnvAsDuration("ARGOS_GLOBAL_TTL", "5m"),
			FuturesTTL:        getEnvAsDuration("ARGOS_FUTURES_TTL", "60s"),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.MarketData.RatePerSecond <= 0 {
		return fmt.Errorf("MARKETDATA_RATE_PER_SEC must be positive")
	}

	return nil
}

// Location resolves the engine timezone, falling back to KST
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Engine.Timezone)
	if err != nil {
		return time.FixedZone("KST", 9*60*60)
	}
	return loc
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
		"backend/.env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	d, err := time.ParseDuration(valueStr)
	if err != nil {
		d, _ = time.ParseDuration(defaultValue)
	}

	return d
}
