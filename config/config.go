package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	ClassifierHuggingFace = "huggingface"
	ClassifierVader       = "vader"
	ClassifierONNX        = "onnx"

	SummarizerHuggingFace = "huggingface"
	SummarizerOpenAI      = "openai"
	SummarizerNone        = "none"
)

// Config holds all commentlens configuration.
type Config struct {
	Env         string
	LogLevel    string
	Analysis    AnalysisConfig
	Cache       CacheConfig
	Backends    BackendConfig
	HuggingFace HuggingFaceConfig
	ONNX        ONNXConfig
	OpenAI      OpenAIConfig
	Valkey      ValkeyConfig
	Kafka       KafkaConfig
	Server      ServerConfig
}

// AnalysisConfig holds the tunables of the analysis pipeline.
type AnalysisConfig struct {
	NeutralThreshold    float64
	MaxCommentLength    int
	KeywordMinFrequency int
	KeywordMinLength    int
	MaxThemes           int
	MaxSuggestions      int
	SummaryMinWords     int
	SummaryMinLength    int
	SummaryMaxLength    int
}

type CacheConfig struct {
	Capacity       int
	DedupeInFlight bool
	SharedTTL      time.Duration
}

type BackendConfig struct {
	Classifier string // "huggingface", "vader", "onnx"
	Summarizer string // "huggingface", "openai", "none"
}

type HuggingFaceConfig struct {
	ClassifierEndpoint string
	SummarizerEndpoint string
	Timeout            time.Duration
	BatchSize          int
}

type ONNXConfig struct {
	ModelDir  string
	ModelName string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

type ValkeyConfig struct {
	Address  string
	Password string
	TLS      bool
}

type KafkaConfig struct {
	Broker          string
	GroupID         string
	BatchesTopic    string
	ResultsTopic    string
	PublishRetries  int
	TransactionalID string
}

type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	env := AppEnv()
	return Config{
		Env:      env,
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Analysis: AnalysisConfig{
			NeutralThreshold:    getEnvFloat("NEUTRAL_THRESHOLD", 0.8),
			MaxCommentLength:    getEnvInt("MAX_COMMENT_LENGTH", 512),
			KeywordMinFrequency: getEnvInt("KEYWORD_MIN_FREQUENCY", 2),
			KeywordMinLength:    getEnvInt("KEYWORD_MIN_LENGTH", 4),
			MaxThemes:           getEnvInt("MAX_THEMES", 5),
			MaxSuggestions:      getEnvInt("MAX_SUGGESTIONS", 3),
			SummaryMinWords:     getEnvInt("SUMMARY_MIN_WORDS", 50),
			SummaryMinLength:    getEnvInt("SUMMARY_MIN_LENGTH", 30),
			SummaryMaxLength:    getEnvInt("SUMMARY_MAX_LENGTH", 100),
		},
		Cache: CacheConfig{
			Capacity:       getEnvInt("CACHE_CAPACITY", 1000),
			DedupeInFlight: getEnvBool("CACHE_DEDUPE_IN_FLIGHT", false),
			SharedTTL:      getEnvDuration("CACHE_SHARED_TTL", 24*time.Hour),
		},
		Backends: BackendConfig{
			Classifier: strings.ToLower(getEnv("CLASSIFIER_BACKEND", ClassifierHuggingFace)),
			Summarizer: strings.ToLower(getEnv("SUMMARIZER_BACKEND", SummarizerHuggingFace)),
		},
		HuggingFace: HuggingFaceConfig{
			ClassifierEndpoint: getEnv("HF_CLASSIFIER_ENDPOINT", "https://spacesedan-sentiment-analyzer.hf.space/classify"),
			SummarizerEndpoint: getEnv("HF_SUMMARIZER_ENDPOINT", "https://spacesedan-summarizer.hf.space/summarize"),
			Timeout:            getEnvDuration("HF_TIMEOUT", defaultHFTimeout(env)),
			BatchSize:          getEnvInt("HF_BATCH_SIZE", 32),
		},
		ONNX: ONNXConfig{
			ModelDir:  getEnv("ONNX_MODEL_DIR", "./models"),
			ModelName: getEnv("ONNX_MODEL_NAME", "cardiffnlp/twitter-roberta-base-sentiment"),
		},
		OpenAI: OpenAIConfig{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			Model:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			Timeout: getEnvDuration("OPENAI_TIMEOUT", 60*time.Second),
		},
		Valkey: ValkeyConfig{
			Address:  os.Getenv("VALKEY_INIT_ADDRESS"),
			Password: os.Getenv("VALKEY_PASSWORD"),
			TLS:      os.Getenv("VALKEY_TLS") == "true",
		},
		Kafka: KafkaConfig{
			Broker:          getEnv("KAFKA_BROKER", "localhost:29092"),
			GroupID:         getEnv("KAFKA_CONSUMER_GROUP_ID", "commentlens-consumer-group"),
			BatchesTopic:    getEnv("KAFKA_TOPIC_COMMENT_BATCHES", "comment-batches"),
			ResultsTopic:    getEnv("KAFKA_TOPIC_ANALYSIS_RESULTS", "comment-analysis-results"),
			PublishRetries:  getEnvInt("KAFKA_PUBLISH_RETRIES", 3),
			TransactionalID: getEnv("KAFKA_TRANSACTIONAL_ID", "commentlens-producer-1"),
		},
		Server: ServerConfig{
			Addr:           getEnv("HTTP_ADDR", ":8000"),
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:8080"}),
		},
	}
}

func defaultHFTimeout(env string) time.Duration {
	if env == "production" {
		return 10 * time.Second
	}
	return 60 * time.Second
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
