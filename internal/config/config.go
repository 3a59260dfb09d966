package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Redis     RedisConfig
	Cache     CacheConfig
	Log       LogConfig
	Geocoding GeocodingConfig
	Location  LocationConfig
	Map       MapConfig
	Session   SessionConfig
	Worker    WorkerConfig
}

type ServerConfig struct {
	Host        string
	Port        int
	Env         string
	CORSOrigins string
}

type RedisConfig struct {
	Host         string
	Port         int
	Password     string
	DB           int
	PoolSize     int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type CacheConfig struct {
	SearchCacheTTL  time.Duration
	ReverseCacheTTL time.Duration
}

type LogConfig struct {
	Level string
}

// GeocodingConfig - выбор и настройки бэкенда геокодинга
type GeocodingConfig struct {
	Provider     string // nominatim | google | mapbox
	BaseURL      string // empty selects the provider default
	UserAgent    string
	APIKey       string
	CountryCodes []string
	Language     string
	Limit        int
	Timeout      time.Duration
}

// LocationConfig - настройки цепочки получения позиции
type LocationConfig struct {
	DeviceFixMaxAge time.Duration
	IPLookupURL     string
	IPStrict        bool // IP-фолбэк не отвечает на запросы высокой точности
	Timeout         time.Duration
}

// MapConfig - камера по умолчанию и тайминги взаимодействия
type MapConfig struct {
	ZoomThreshold  float64
	DefaultZoom    float64
	RecenterZoom   float64
	FallbackLat    float64
	FallbackLng    float64
	Debounce       time.Duration
	MinQueryLength int
}

type SessionConfig struct {
	TTL           time.Duration
	SweepInterval time.Duration
}

type WorkerConfig struct {
	Enabled       bool
	ConsumerGroup string
	MaxRetries    int
	BatchSize     int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("API_HOST", "0.0.0.0")
	v.SetDefault("API_PORT", 8080)
	v.SetDefault("API_ENV", "development")
	v.SetDefault("API_CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_POOL_SIZE", 20)
	v.SetDefault("REDIS_DIAL_TIMEOUT_MS", 5000)
	v.SetDefault("REDIS_READ_TIMEOUT_MS", 3000)
	v.SetDefault("REDIS_WRITE_TIMEOUT_MS", 3000)

	v.SetDefault("SEARCH_CACHE_TTL", 3600)
	v.SetDefault("REVERSE_CACHE_TTL", 86400)

	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("GEOCODING_PROVIDER", "nominatim")
	v.SetDefault("GEOCODING_USER_AGENT", "tactical-map/1.0")
	v.SetDefault("GEOCODING_COUNTRY_CODES", "br")
	v.SetDefault("GEOCODING_LANGUAGE", "pt-BR")
	v.SetDefault("GEOCODING_LIMIT", 5)
	v.SetDefault("GEOCODING_TIMEOUT_MS", 5000)

	v.SetDefault("LOCATION_DEVICE_FIX_MAX_AGE", 30)
	v.SetDefault("LOCATION_IP_LOOKUP_URL", "http://ip-api.com/json")
	v.SetDefault("LOCATION_IP_STRICT", false)
	v.SetDefault("LOCATION_TIMEOUT_MS", 10000)

	v.SetDefault("MAP_ZOOM_THRESHOLD", 15)
	v.SetDefault("MAP_DEFAULT_ZOOM", 13)
	v.SetDefault("MAP_RECENTER_ZOOM", 16)
	// центр Белу-Оризонти
	v.SetDefault("MAP_FALLBACK_LAT", -19.9191)
	v.SetDefault("MAP_FALLBACK_LNG", -43.9386)
	v.SetDefault("MAP_SEARCH_DEBOUNCE_MS", 500)
	v.SetDefault("MAP_SEARCH_MIN_LENGTH", 3)

	v.SetDefault("SESSION_TTL", 3600)
	v.SetDefault("SESSION_SWEEP_INTERVAL", 60)

	v.SetDefault("WORKER_ENABLED", false)
	v.SetDefault("WORKER_CONSUMER_GROUP", "tactical-labeling-workers")
	v.SetDefault("WORKER_MAX_RETRIES", 3)
	v.SetDefault("WORKER_BATCH_SIZE", 20)
}

// Load читает .env (если есть) и окружение процесса
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile - Load с явным путём к .env
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:        v.GetString("API_HOST"),
			Port:        v.GetInt("API_PORT"),
			Env:         v.GetString("API_ENV"),
			CORSOrigins: v.GetString("API_CORS_ORIGINS"),
		},
		Redis: RedisConfig{
			Host:         v.GetString("REDIS_HOST"),
			Port:         v.GetInt("REDIS_PORT"),
			Password:     v.GetString("REDIS_PASSWORD"),
			DB:           v.GetInt("REDIS_DB"),
			PoolSize:     v.GetInt("REDIS_POOL_SIZE"),
			DialTimeout:  time.Duration(v.GetInt("REDIS_DIAL_TIMEOUT_MS")) * time.Millisecond,
			ReadTimeout:  time.Duration(v.GetInt("REDIS_READ_TIMEOUT_MS")) * time.Millisecond,
			WriteTimeout: time.Duration(v.GetInt("REDIS_WRITE_TIMEOUT_MS")) * time.Millisecond,
		},
		Cache: CacheConfig{
			SearchCacheTTL:  time.Duration(v.GetInt("SEARCH_CACHE_TTL")) * time.Second,
			ReverseCacheTTL: time.Duration(v.GetInt("REVERSE_CACHE_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Geocoding: GeocodingConfig{
			Provider:     strings.ToLower(v.GetString("GEOCODING_PROVIDER")),
			BaseURL:      strings.TrimRight(v.GetString("GEOCODING_BASE_URL"), "/"),
			UserAgent:    v.GetString("GEOCODING_USER_AGENT"),
			APIKey:       v.GetString("GEOCODING_API_KEY"),
			CountryCodes: parseList(v.GetString("GEOCODING_COUNTRY_CODES")),
			Language:     v.GetString("GEOCODING_LANGUAGE"),
			Limit:        v.GetInt("GEOCODING_LIMIT"),
			Timeout:      time.Duration(v.GetInt("GEOCODING_TIMEOUT_MS")) * time.Millisecond,
		},
		Location: LocationConfig{
			DeviceFixMaxAge: time.Duration(v.GetInt("LOCATION_DEVICE_FIX_MAX_AGE")) * time.Second,
			IPLookupURL:     strings.TrimRight(v.GetString("LOCATION_IP_LOOKUP_URL"), "/"),
			IPStrict:        v.GetBool("LOCATION_IP_STRICT"),
			Timeout:         time.Duration(v.GetInt("LOCATION_TIMEOUT_MS")) * time.Millisecond,
		},
		Map: MapConfig{
			ZoomThreshold:  v.GetFloat64("MAP_ZOOM_THRESHOLD"),
			DefaultZoom:    v.GetFloat64("MAP_DEFAULT_ZOOM"),
			RecenterZoom:   v.GetFloat64("MAP_RECENTER_ZOOM"),
			FallbackLat:    v.GetFloat64("MAP_FALLBACK_LAT"),
			FallbackLng:    v.GetFloat64("MAP_FALLBACK_LNG"),
			Debounce:       time.Duration(v.GetInt("MAP_SEARCH_DEBOUNCE_MS")) * time.Millisecond,
			MinQueryLength: v.GetInt("MAP_SEARCH_MIN_LENGTH"),
		},
		Session: SessionConfig{
			TTL:           time.Duration(v.GetInt("SESSION_TTL")) * time.Second,
			SweepInterval: time.Duration(v.GetInt("SESSION_SWEEP_INTERVAL")) * time.Second,
		},
		Worker: WorkerConfig{
			Enabled:       v.GetBool("WORKER_ENABLED"),
			ConsumerGroup: v.GetString("WORKER_CONSUMER_GROUP"),
			MaxRetries:    v.GetInt("WORKER_MAX_RETRIES"),
			BatchSize:     v.GetInt("WORKER_BATCH_SIZE"),
		},
	}

	return cfg, nil
}

func parseList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, strings.ToLower(trimmed))
		}
	}
	return result
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// Region - основная страна для ограничения прямого геокодинга
func (c *GeocodingConfig) Region() string {
	if len(c.CountryCodes) == 0 {
		return ""
	}
	return c.CountryCodes[0]
}
