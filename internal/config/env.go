package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AwsAccessKey string
	AwsSecretKey string
	AwsRegion    string
	BucketName   string
	KeyPrefix    string
	S3Endpoint   string // path-style endpoint for S3-compatible stores such as MinIO

	OCRProvider string

	AIProvider    string
	AIAPIKey      string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	EmbedModel    string
	GenModel      string
	ModelRPS      float64

	ChunkSize    int
	ChunkOverlap int
	TopK         int

	StoreTimeout time.Duration
	OCRTimeout   time.Duration
	ModelTimeout time.Duration

	Port           string
	JWTSecret      string
	AllowedOrigins []string
	MaxUploadMB    int
	LogLevel       string
}

// LoadConfig loads the environment variables and return config.
// It is called once at process start; nothing below reads the environment again.
func LoadConfig() *Config {

	_ = godotenv.Load()

	cfg := &Config{
		AwsAccessKey: getEnv("AWS_ACCESS_KEY", ""),
		AwsSecretKey: getEnv("AWS_SECRET_KEY", ""),
		AwsRegion:    getEnv("AWS_REGION", "us-east-2"),
		BucketName:   getEnv("BUCKET_NAME", "cardscan-uploads"),
		KeyPrefix:    getEnv("KEY_PREFIX", "emirates_ids"),
		S3Endpoint:   getEnv("S3_ENDPOINT", ""),

		OCRProvider: getEnv("OCR_PROVIDER", "textract"),

		AIProvider:    getEnv("AI_PROVIDER", "gemini"),
		AIAPIKey:      getEnv("GEMINI_API_KEY", ""),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		EmbedModel:    getEnv("EMBED_MODEL", ""),
		GenModel:      getEnv("GEN_MODEL", ""),
		ModelRPS:      getEnvFloat("MODEL_RPS", 0),

		ChunkSize:    getEnvInt("CHUNK_SIZE", 512),
		ChunkOverlap: getEnvInt("CHUNK_OVERLAP", 32),
		TopK:         getEnvInt("TOP_K", 4),

		StoreTimeout: getEnvDuration("STORE_TIMEOUT", 2*time.Minute),
		OCRTimeout:   getEnvDuration("OCR_TIMEOUT", time.Minute),
		ModelTimeout: getEnvDuration("MODEL_TIMEOUT", 90*time.Second),

		Port:           getEnv("PORT", "8080"),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		AllowedOrigins: getEnvList("ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:8888"}),
		MaxUploadMB:    getEnvInt("MAX_UPLOAD_MB", 10),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}

	return cfg
}

// Validate checks that the collaborators selected by the config can be built.
func (c *Config) Validate() error {
	if c.AwsRegion == "" {
		return fmt.Errorf("AWS_REGION not set")
	}
	if c.BucketName == "" {
		return fmt.Errorf("BUCKET_NAME not set")
	}

	switch c.OCRProvider {
	case "textract", "docconv":
	default:
		return fmt.Errorf("unknown OCR_PROVIDER %q", c.OCRProvider)
	}

	switch c.AIProvider {
	case "gemini":
		if c.AIAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY not set")
		}
	case "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY not set")
		}
	default:
		return fmt.Errorf("unknown AI_PROVIDER %q", c.AIProvider)
	}

	if c.ChunkSize <= 0 {
		return fmt.Errorf("CHUNK_SIZE must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("CHUNK_OVERLAP must be in [0, %d), got %d", c.ChunkSize, c.ChunkOverlap)
	}
	if c.TopK <= 0 {
		return fmt.Errorf("TOP_K must be positive, got %d", c.TopK)
	}
	return nil
}

// Helper to read environment variables with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("WARN: %s=%q not an int, using default %d", key, v, def)
		return def
	}
	return n
}

func getEnvFloat(key string, def float64) float64 {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("WARN: %s=%q not a number, using default %g", key, v, def)
		return def
	}
	return f
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("WARN: %s=%q not a duration, using default %s", key, v, def)
		return def
	}
	return d
}

func getEnvList(key string, def []string) []string {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
