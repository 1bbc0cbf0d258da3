package config

import "github.com/kelseyhightower/envconfig"

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port        int    `envconfig:"PORT" default:"8080"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	Version     string `envconfig:"VERSION" default:"dev"`

	BcryptCost       int `envconfig:"BCRYPT_COST" default:"12"`
	SessionMaxAgeSec int `envconfig:"SESSION_MAX_AGE" default:"604800"`
	SessionSweepSec  int `envconfig:"SESSION_SWEEP_INTERVAL" default:"600"`

	AdminCacheTTLSec int `envconfig:"ADMIN_CACHE_TTL" default:"30"`

	// Rate limit for credential endpoints, requests per minute per client.
	AuthRatePerMin int `envconfig:"AUTH_RATE_PER_MIN" default:"10"`
	AuthRateBurst  int `envconfig:"AUTH_RATE_BURST" default:"10"`

	GeminiAPIKey string `envconfig:"GEMINI_API_KEY" default:""`
	GeminiModel  string `envconfig:"GEMINI_MODEL" default:"gemini-1.5-flash"`

	StorageType  string `envconfig:"STORAGE_TYPE" default:"local"`
	StoragePath  string `envconfig:"STORAGE_PATH" default:"./data/documents"`
	S3Bucket     string `envconfig:"S3_BUCKET" default:""`
	S3Region     string `envconfig:"S3_REGION" default:"us-east-1"`
	AWSAccessKey string `envconfig:"AWS_ACCESS_KEY_ID" default:""`
	AWSSecretKey string `envconfig:"AWS_SECRET_ACCESS_KEY" default:""`

	// Kafka ingest for externally produced notification events.
	// Disabled when KAFKA_BROKERS is empty.
	KafkaBrokers []string `envconfig:"KAFKA_BROKERS" default:""`
	KafkaTopic   string   `envconfig:"KAFKA_TOPIC" default:"legalaid.notifications"`
	KafkaGroupID string   `envconfig:"KAFKA_GROUP_ID" default:"legalaid-backend"`
}

// Load reads configuration from environment variables into a Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
