package shared

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/subosito/gotenv"
)

type Config struct {
	AppEnv         string
	HTTPAddr       string
	MetricsAddr    string
	ReviewColumn   string
	TopKeywords    int
	MaxUploadBytes int64

	Backend      string // huggingface|vader|onnx|openai
	HFBaseURL    string
	HFModel      string
	HFToken      string
	HFRPS        int
	ONNXModelDir string
	OpenAIKey    string
	OpenAIModel  string
	OpenAIBase   string

	CacheBackend string // none|redis|valkey
	RedisAddr    string
	RedisDB      int
	RedisPass    string
	ValkeyAddr   string
	CacheTTL     time.Duration
	// ValkeyClientTTL enables server-assisted client-side caching when > 0.
	ValkeyClientTTL time.Duration

	MySQLDSN string
}

// Load reads an optional env file (ENV_FILE, default .env) and then the
// process environment. Variables already set in the process win.
func Load() Config {
	loadEnvFile(env("ENV_FILE", ".env"))

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("ignoring non-integer config value")
		}
		return def
	}
	c := Config{
		AppEnv:         env("APP_ENV", "prod"),
		HTTPAddr:       env("HTTP_ADDR", ":8080"),
		MetricsAddr:    env("METRICS_ADDR", ""),
		ReviewColumn:   env("REVIEW_COLUMN", "Ulasan"),
		TopKeywords:    atoi("TOP_KEYWORDS", 15),
		MaxUploadBytes: int64(atoi("MAX_UPLOAD_BYTES", 10<<20)),

		Backend:      strings.ToLower(env("CLASSIFIER_BACKEND", "huggingface")),
		HFBaseURL:    env("HF_BASE_URL", "https://api-inference.huggingface.co"),
		HFModel:      env("HF_MODEL", "w11wo/indonesian-roberta-base-sentiment-classifier"),
		HFToken:      env("HF_TOKEN", ""),
		HFRPS:        atoi("HF_RPS", 5),
		ONNXModelDir: env("ONNX_MODEL_DIR", "./models"),
		OpenAIKey:    env("OPENAI_API_KEY", ""),
		OpenAIModel:  env("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBase:   env("OPENAI_BASE_URL", ""),

		CacheBackend: strings.ToLower(env("CACHE_BACKEND", "none")),
		RedisAddr:    env("REDIS_ADDR", "localhost:6379"),
		RedisPass:    env("REDIS_PASSWORD", ""),
		RedisDB:      atoi("REDIS_DB", 0),
		ValkeyAddr:   env("VALKEY_ADDR", "localhost:6379"),
		CacheTTL:     time.Duration(atoi("CACHE_TTL_SECONDS", 86400)) * time.Second,

		ValkeyClientTTL: time.Duration(atoi("VALKEY_CLIENT_CACHE_TTL_SECONDS", 0)) * time.Second,

		MySQLDSN: env("MYSQL_DSN", ""),
	}
	if c.Backend == "huggingface" && c.HFToken == "" {
		log.Warn().Msg("HF_TOKEN is empty; anonymous inference is heavily rate limited")
	}
	if c.Backend == "openai" && c.OpenAIKey == "" {
		log.Warn().Msg("OPENAI_API_KEY is empty")
	}
	return c
}

func loadEnvFile(path string) {
	if path == "" {
		return
	}
	if err := gotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return
		}
		log.Warn().Err(err).Str("file", path).Msg("env file not loaded")
		return
	}
	log.Debug().Str("file", path).Msg("env file loaded")
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
