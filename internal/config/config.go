package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the whole application configuration.
type Config struct {
	LogLevel       int       `env:"LOG_LEVEL" envDefault:"0"`
	JWTSecret      string    `env:"JWT_SECRET_KEY"`
	MetricsEnabled bool      `env:"METRICS_ENABLED" envDefault:"true"`
	Server         Server    `envPrefix:"SERVER_"`
	DB             DBConfig  `envPrefix:"DB_"`
	Recaptcha      Recaptcha `envPrefix:"RECAPTCHA_"`
	Storage        Storage   `envPrefix:"STORAGE_"`
	Minio          Minio     `envPrefix:"MINIO_"`
	News           News      `envPrefix:"NEWS_"`
}

// Server contains HTTP(S) listener parameters.
type Server struct {
	Port       string `env:"PORT" envDefault:"3001"`
	HTTPSPort  string `env:"HTTPS_PORT" envDefault:"3443"`
	CertFile   string `env:"CERT_FILE" envDefault:"certificates/cert.pem"`
	KeyFile    string `env:"KEY_FILE" envDefault:"certificates/key.pem"`
	GinMode    string `env:"GIN_MODE" envDefault:"debug"`
	CORSOrigin string `env:"CORS_ORIGIN" envDefault:"*"`
}

// Recaptcha contains the CAPTCHA verification parameters.
type Recaptcha struct {
	SecretKey string        `env:"SECRET_KEY"`
	VerifyURL string        `env:"VERIFY_URL" envDefault:"https://www.google.com/recaptcha/api/siteverify"`
	Timeout   time.Duration `env:"TIMEOUT" envDefault:"5s"`
}

// Storage selects where uploaded images are kept.
type Storage struct {
	Backend    string `env:"BACKEND" envDefault:"local"`
	UploadsDir string `env:"UPLOADS_DIR" envDefault:"uploads"`
	MaxSize    int64  `env:"MAX_SIZE" envDefault:"5242880"`
}

// Minio contains object storage parameters, used when Storage.Backend is "minio".
type Minio struct {
	Endpoint  string `env:"ENDPOINT" envDefault:"localhost:9000"`
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`
	Bucket    string `env:"BUCKET" envDefault:"car-catalog-uploads"`
	UseSSL    bool   `env:"USE_SSL" envDefault:"false"`
}

// News configures the RSS aggregator.
type News struct {
	Feeds        []string      `env:"FEEDS" envSeparator:"|"`
	SearchURL    string        `env:"SEARCH_URL" envDefault:"https://news.google.com/rss/search?hl=es&gl=MX&ceid=MX:es-419"`
	CacheTTL     time.Duration `env:"CACHE_TTL" envDefault:"10m"`
	FetchTimeout time.Duration `env:"FETCH_TIMEOUT" envDefault:"10s"`
	ItemsPerFeed int           `env:"ITEMS_PER_FEED" envDefault:"8"`
}

// DefaultFeeds are the automotive news searches used when NEWS_FEEDS is empty.
var DefaultFeeds = []string{
	"https://news.google.com/rss/search?q=autom%C3%B3viles+coches+autos&hl=es&gl=ES&ceid=ES:es",
	"https://news.google.com/rss/search?q=motor+automoci%C3%B3n&hl=es&gl=MX&ceid=MX:es-419",
	"https://news.google.com/rss/search?q=industria+automotriz&hl=es&gl=AR&ceid=AR:es-419",
}

// Load reads an optional .env file and parses the environment into a Config.
func Load() (*Config, error) {
	// A missing .env is fine, the environment may already be populated.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if len(cfg.News.Feeds) == 0 {
		cfg.News.Feeds = DefaultFeeds
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET_KEY not set in environment")
	}
	if c.DB.Host == "" || c.DB.Port == "" || c.DB.User == "" || c.DB.Name == "" {
		return errors.New("database environment variables not set (DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME)")
	}
	switch c.Storage.Backend {
	case "local", "minio":
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.Storage.Backend)
	}
	return nil
}
