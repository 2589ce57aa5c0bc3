package config

import (
	"fmt"
	"log"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// AI backends understood by the ai package.
const (
	AIClientOpenAI = "openai"
	AIClientOllama = "ollama"
)

// Image backends understood by the imagegen package.
const (
	ImageProviderNone      = "none"
	ImageProviderOpenAI    = "openai"
	ImageProviderFireworks = "fireworks"
)

// Image storage backends.
const (
	ImageStoreInline = "inline"
	ImageStoreMinio  = "minio"
)

// Config holds the application configuration.
type Config struct {
	Env        string `envconfig:"ENV" default:"development"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info"`
	ServerPort string `envconfig:"SERVER_PORT" default:"8080"`
	SecretsDir string `envconfig:"SECRETS_DIR" default:"/run/secrets"`

	// Database
	DBHost        string        `envconfig:"DB_HOST" default:"localhost"`
	DBPort        string        `envconfig:"DB_PORT" default:"5432"`
	DBUser        string        `envconfig:"DB_USER" default:"postgres"`
	DBName        string        `envconfig:"DB_NAME" default:"bedtime"`
	DBSSLMode     string        `envconfig:"DB_SSL_MODE" default:"disable"`
	DBMaxConns    int           `envconfig:"DB_MAX_CONNS" default:"10"`
	DBIdleTimeout time.Duration `envconfig:"DB_IDLE_TIMEOUT" default:"5m"`
	DBPassword    string        `ignored:"true"`

	// Redis: drafts and rate limiting. Пустой адрес = in-memory.
	RedisAddr     string `envconfig:"REDIS_ADDR" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
	RedisPassword string `ignored:"true"`

	// RabbitMQ: story events. Пустой URL = события не публикуются.
	RabbitMQURL        string `envconfig:"RABBITMQ_URL" default:""`
	StoryEventExchange string `envconfig:"STORY_EVENT_EXCHANGE" default:"story_events"`

	// Session
	SessionCookieName string `envconfig:"SESSION_COOKIE_NAME" default:"session_token"`
	JWTSecret         string `ignored:"true"`

	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`

	// Language model
	AIClientType     string        `envconfig:"AI_CLIENT_TYPE" default:"openai"`
	AIBaseURL        string        `envconfig:"AI_BASE_URL" default:"https://api.openai.com/v1"`
	AIModel          string        `envconfig:"AI_MODEL" default:"gpt-3.5-turbo"`
	AITimeout        time.Duration `envconfig:"AI_TIMEOUT" default:"60s"`
	AITemperature    float64       `envconfig:"AI_TEMPERATURE" default:"0.7"`
	AIMaxTokens      int           `envconfig:"AI_MAX_TOKENS" default:"1000"`
	AITitleMaxTokens int           `envconfig:"AI_TITLE_MAX_TOKENS" default:"50"`
	AIAPIKey         string        `ignored:"true"`
	PromptsFile      string        `envconfig:"PROMPTS_FILE" default:""`

	// Illustrations
	ImageProvider    string        `envconfig:"IMAGE_PROVIDER" default:"fireworks"`
	ImageBaseURL     string        `envconfig:"IMAGE_BASE_URL" default:"https://api.fireworks.ai/inference/v1/image_generation/accounts/fireworks/models/stable-diffusion-xl-1024-v1-0"`
	ImageModel       string        `envconfig:"IMAGE_MODEL" default:"dall-e-3"`
	ImageTimeout     time.Duration `envconfig:"IMAGE_TIMEOUT" default:"90s"`
	ImageConcurrency int           `envconfig:"IMAGE_CONCURRENCY" default:"2"`
	GenerateImages   bool          `envconfig:"GENERATE_IMAGES" default:"false"`
	PlaceholderImage string        `envconfig:"PLACEHOLDER_IMAGE" default:"/placeholder.svg"`
	ImageAPIKey      string        `ignored:"true"`

	// Image storage
	ImageStore     string `envconfig:"IMAGE_STORE" default:"inline"`
	MinioEndpoint  string `envconfig:"MINIO_ENDPOINT" default:"localhost:9000"`
	MinioAccessKey string `envconfig:"MINIO_ACCESS_KEY" default:"minioadmin"`
	MinioBucket    string `envconfig:"MINIO_BUCKET" default:"story-images"`
	MinioUseSSL    bool   `envconfig:"MINIO_USE_SSL" default:"false"`
	MinioPublicURL string `envconfig:"MINIO_PUBLIC_URL" default:"http://localhost:9000"`
	MinioSecretKey string `ignored:"true"`

	// Drafts replace the browser-side cache of recently generated stories.
	DraftsMaxPerUser int           `envconfig:"DRAFTS_MAX_PER_USER" default:"10"`
	DraftTTL         time.Duration `envconfig:"DRAFT_TTL" default:"168h"`

	RateLimitPerMinute uint          `envconfig:"RATE_LIMIT_PER_MINUTE" default:"10"`
	StreamInterval     time.Duration `envconfig:"STREAM_INTERVAL" default:"1s"`
	ProxyTimeout       time.Duration `envconfig:"PROXY_TIMEOUT" default:"20s"`
	// Максимальный размер картинки, скачиваемой прокси или экспортом PDF
	ImageMaxBytes int `envconfig:"IMAGE_MAX_BYTES" default:"10485760"`
}

// GetAllowedOrigins splits the CORSAllowedOrigins string into a slice.
func (c *Config) GetAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(c.CORSAllowedOrigins, " ", ""), ",")
}

// PostgresDSN builds the connection string used by pgx and the migrator.
// Credentials are escaped, so secrets may contain any character.
func (c *Config) PostgresDSN() string {
	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     net.JoinHostPort(c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": []string{c.DBSSLMode}}.Encode(),
	}
	return dsn.String()
}

// ExportImageBaseURLs lists where the PDF exporter may download
// illustrations from. Inline storage keeps everything in data URLs.
func (c *Config) ExportImageBaseURLs() []string {
	if c.ImageStore == ImageStoreMinio && c.MinioPublicURL != "" {
		return []string{strings.TrimSuffix(c.MinioPublicURL, "/") + "/" + c.MinioBucket + "/"}
	}
	return nil
}

// HTTPWriteTimeout covers the slowest request, story generation: the body
// and title run in parallel, then up to maxImages illustrations in rounds
// of ImageConcurrency.
func (c *Config) HTTPWriteTimeout(maxImages int) time.Duration {
	const slack = 15 * time.Second
	budget := c.AITimeout + slack
	if c.GenerateImages && maxImages > 0 {
		concurrency := max(c.ImageConcurrency, 1)
		rounds := (maxImages + concurrency - 1) / concurrency
		budget += time.Duration(rounds) * c.ImageTimeout
	}
	return max(budget, 60*time.Second)
}

// LoadConfig loads configuration from environment variables and secrets.
func LoadConfig(envFilePath string) (*Config, error) {
	if _, err := os.Stat(envFilePath); err == nil {
		if err = godotenv.Load(envFilePath); err != nil {
			log.Printf("Warning: Could not load %s file: %v", envFilePath, err)
		} else {
			log.Printf("Loaded configuration from %s", envFilePath)
		}
	} else if !os.IsNotExist(err) {
		log.Printf("Warning: Error checking %s file: %v", envFilePath, err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("error processing env vars: %w", err)
	}

	if err := cfg.loadSecrets(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	log.Println("Configuration loaded successfully (secrets read from files).")
	return &cfg, nil
}

func (c *Config) loadSecrets() error {
	var err error

	// Обязательные секреты
	if c.DBPassword, err = ReadSecret(c.SecretsDir, "db_password"); err != nil {
		return err
	}
	if c.JWTSecret, err = ReadSecret(c.SecretsDir, "jwt_secret"); err != nil {
		return err
	}
	if c.AIClientType != AIClientOllama {
		if c.AIAPIKey, err = ReadSecret(c.SecretsDir, "ai_api_key"); err != nil {
			return err
		}
	}

	// Необязательные секреты
	c.ImageAPIKey = optionalSecret(c.SecretsDir, "image_api_key")
	c.RedisPassword = optionalSecret(c.SecretsDir, "redis_password")
	c.MinioSecretKey = optionalSecret(c.SecretsDir, "minio_secret_key")
	if c.ImageAPIKey == "" && c.ImageProvider == ImageProviderOpenAI {
		c.ImageAPIKey = c.AIAPIKey
	}
	return nil
}

func (c *Config) validate() error {
	switch c.AIClientType {
	case AIClientOpenAI, AIClientOllama:
	default:
		return fmt.Errorf("unsupported AI_CLIENT_TYPE %q", c.AIClientType)
	}
	switch c.ImageProvider {
	case ImageProviderNone, ImageProviderOpenAI, ImageProviderFireworks:
	default:
		return fmt.Errorf("unsupported IMAGE_PROVIDER %q", c.ImageProvider)
	}
	switch c.ImageStore {
	case ImageStoreInline, ImageStoreMinio:
	default:
		return fmt.Errorf("unsupported IMAGE_STORE %q", c.ImageStore)
	}
	if c.DraftsMaxPerUser <= 0 {
		return fmt.Errorf("DRAFTS_MAX_PER_USER must be positive, got %d", c.DraftsMaxPerUser)
	}
	if c.ImageConcurrency <= 0 {
		c.ImageConcurrency = 1
	}
	return nil
}

// ReadSecret reads a Docker-style secret file from dir.
func ReadSecret(dir, secretName string) (string, error) {
	filePath := filepath.Join(dir, secretName)
	secretBytes, err := os.ReadFile(filePath)
	if err != nil {
		// Без fallback на env var
		return "", fmt.Errorf("failed to read secret file %s: %w", filePath, err)
	}
	secret := strings.TrimSpace(string(secretBytes))
	if secret == "" {
		return "", fmt.Errorf("secret file %s is empty", filePath)
	}
	return secret, nil
}

func optionalSecret(dir, name string) string {
	value, err := ReadSecret(dir, name)
	if err != nil {
		log.Printf("Optional secret '%s' not found or failed to read: %v", name, err)
		return ""
	}
	return value
}
