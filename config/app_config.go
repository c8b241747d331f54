package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DEFAULT_ANALYZER_ENDPOINT = "http://localhost:5000/analyze"
	PRODUCTION_TIMEOUT        = 10 * time.Second
	DEVELOPMENT_TIMEOUT       = 60 * time.Second
)

type AppConfig struct {
	Env      string
	Analyzer AnalyzerConfig
	History  HistoryConfig
	Valkey   ValkeyConfig
	AWS      AWSConfig
	// PublishResults turns on the Kafka results producer.
	PublishResults bool
	Server         ServerConfig
}

type AnalyzerConfig struct {
	Endpoint   string
	Timeout    time.Duration
	MaxRetries uint64
	OAuth      OAuthConfig
}

// OAuthConfig enables client-credentials auth on the analyzer call when
// ClientID is set.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	Scopes       []string
}

func (o OAuthConfig) Enabled() bool {
	return o.ClientID != ""
}

type HistoryConfig struct {
	Backend   string
	Key       string
	FilePath  string
	TableName string
}

type ValkeyConfig struct {
	Address  string
	Password string
	TLS      bool
}

type AWSConfig struct {
	Endpoint string
	Region   string
}

type ServerConfig struct {
	Addr        string
	Classifier  string
	ModelName   string
	ModelDir    string
	OpenAIKey   string
	OpenAIModel string
}

func IsProduction(env string) bool {
	return env == "production" || env == "prod"
}

func GetAppConfig() AppConfig {
	env := getEnv("APP_ENV", "dev")

	timeout := DEVELOPMENT_TIMEOUT
	if IsProduction(env) {
		timeout = PRODUCTION_TIMEOUT
	}

	return AppConfig{
		Env: env,
		Analyzer: AnalyzerConfig{
			Endpoint:   getEnv("ANALYZER_ENDPOINT", DEFAULT_ANALYZER_ENDPOINT),
			Timeout:    getEnvDuration("ANALYZER_TIMEOUT", timeout),
			MaxRetries: uint64(getEnvInt("ANALYZER_MAX_RETRIES", 2)),
			OAuth: OAuthConfig{
				ClientID:     getEnv("ANALYZER_OAUTH_CLIENT_ID", ""),
				ClientSecret: getEnv("ANALYZER_OAUTH_CLIENT_SECRET", ""),
				TokenURL:     getEnv("ANALYZER_OAUTH_TOKEN_URL", ""),
				Scopes:       splitList(getEnv("ANALYZER_OAUTH_SCOPES", "")),
			},
		},
		History: HistoryConfig{
			Backend:   getEnv("HISTORY_BACKEND", "file"),
			Key:       getEnv("HISTORY_KEY", "analysisHistory"),
			FilePath:  getEnv("HISTORY_FILE", ""),
			TableName: getEnv("HISTORY_TABLE_NAME", "AnalysisHistory"),
		},
		Valkey: ValkeyConfig{
			Address:  getEnv("VALKEY_INIT_ADDRESS", "localhost:6379"),
			Password: getEnv("VALKEY_PASSWORD", ""),
			TLS:      getEnvBool("VALKEY_TLS", false),
		},
		AWS: AWSConfig{
			Endpoint: getEnv("AWS_ENDPOINT", "http://localhost:8000"),
			Region:   getEnv("AWS_REGION", "us-west-2"),
		},
		PublishResults: getEnvBool("RESULTS_PUBLISH", false),
		Server: ServerConfig{
			Addr:        getEnv("ANALYZER_ADDR", ":5000"),
			Classifier:  getEnv("CLASSIFIER", "hugot"),
			ModelName:   getEnv("MODEL_NAME", "bhadresh-savani/distilbert-base-uncased-emotion"),
			ModelDir:    getEnv("MODEL_DIR", "./models"),
			OpenAIKey:   getEnv("OPENAI_API_KEY", ""),
			OpenAIModel: getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		slog.Warn("[Config] Invalid integer, using default",
			slog.String("key", key),
			slog.String("value", raw),
			slog.Int("default", defaultValue))
		return defaultValue
	}
	return v
}

func getEnvBool(key string, defaultValue bool) bool {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		slog.Warn("[Config] Invalid boolean, using default",
			slog.String("key", key),
			slog.String("value", raw))
		return defaultValue
	}
	return v
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		slog.Warn("[Config] Invalid duration, using default",
			slog.String("key", key),
			slog.String("value", raw),
			slog.Duration("default", defaultValue))
		return defaultValue
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
