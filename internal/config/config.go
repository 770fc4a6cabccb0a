package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"ModelScout/pkg/logger"
)

const (
	configPathEnv    = "MODELSCOUT_CONFIG"
	listenAddrEnv    = "LISTEN_ADDR"
	hfTokenEnv       = "HF_TOKEN"
	llmAPIKeyEnv     = "LLM_API_KEY"
	llmModelEnv      = "LLM_MODEL"
	llmEndpointEnv   = "LLM_ENDPOINT"
	sessionDriverEnv = "SESSION_DRIVER"
	sessionDSNEnv    = "SESSION_DSN"
	logLevelEnv      = "LOG_LEVEL"
)

// Config holds high-level settings required across the application.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	HuggingFace HuggingFaceConfig `yaml:"huggingface"`
	Ranking     RankingConfig     `yaml:"ranking"`
	LLM         LLMConfig         `yaml:"llm"`
	Sessions    SessionConfig     `yaml:"sessions"`
	Cache       CacheConfig       `yaml:"cache"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// ServerConfig describes the tool server listener.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// HuggingFaceConfig points the retrieval client at the hub.
type HuggingFaceConfig struct {
	APIURL     string        `yaml:"apiUrl"`
	BaseURL    string        `yaml:"baseUrl"`
	Token      string        `yaml:"token"`
	Sort       string        `yaml:"sort"`
	FetchLimit int           `yaml:"fetchLimit"`
	Timeout    time.Duration `yaml:"timeout"`
}

// RankingConfig carries the eligibility filters and tag fallback.
type RankingConfig struct {
	FreshnessWindowDays int      `yaml:"freshnessWindowDays"`
	MinLikes            int      `yaml:"minLikes"`
	DefaultTag          string   `yaml:"defaultTag"`
	Tags                []string `yaml:"tags"`
}

// LLMConfig defines how to contact the OpenAI-compatible chat API.
type LLMConfig struct {
	Endpoint     string        `yaml:"endpoint"`
	Model        string        `yaml:"model"`
	APIKey       string        `yaml:"apiKey"`
	SystemPrompt string        `yaml:"systemPrompt"`
	Temperature  float64       `yaml:"temperature"`
	Timeout      time.Duration `yaml:"timeout"`
}

// SessionConfig selects the session log backend (memory, postgres, mysql).
type SessionConfig struct {
	Driver       string `yaml:"driver"`
	DSN          string `yaml:"dsn"`
	HistoryLimit int    `yaml:"historyLimit"`
}

// CacheConfig controls the model listing cache and its warm-up job.
type CacheConfig struct {
	TTL             time.Duration `yaml:"ttl"`
	RefreshInterval time.Duration `yaml:"refreshInterval"`
	WarmTags        []string      `yaml:"warmTags"`
}

// LoggingConfig sets the slog level and handler format (text or json).
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads .env and YAML configuration (if present) and applies
// environment overrides.
func Load() Config {
	_ = godotenv.Load()

	cfg := defaultConfig()
	log := logger.New("config")

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			merged, err := mergeConfig(cfg, raw)
			if err != nil {
				log.Printf("cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = merged
			}
		}
	}

	cfg.applyEnvOverrides()

	if len(cfg.Ranking.Tags) == 0 {
		cfg.Ranking.Tags = defaultConfig().Ranking.Tags
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(listenAddrEnv); v != "" {
		c.Server.Addr = v
	}

	if v := os.Getenv(hfTokenEnv); v != "" {
		c.HuggingFace.Token = v
	}

	if v := os.Getenv(llmAPIKeyEnv); v != "" {
		c.LLM.APIKey = v
	}

	if v := os.Getenv(llmModelEnv); v != "" {
		c.LLM.Model = v
	}

	if v := os.Getenv(llmEndpointEnv); v != "" {
		c.LLM.Endpoint = v
	}

	if v := os.Getenv(sessionDriverEnv); v != "" {
		c.Sessions.Driver = v
	}

	if v := os.Getenv(sessionDSNEnv); v != "" {
		c.Sessions.DSN = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

// mergeConfig decodes raw over a copy of base. Keys present in the file win,
// including explicit zeros such as "minLikes: 0" or "temperature: 0"; absent
// keys keep the base value.
func mergeConfig(base Config, raw []byte) (Config, error) {
	merged := base
	merged.Ranking.Tags = append([]string(nil), base.Ranking.Tags...)
	merged.Cache.WarmTags = append([]string(nil), base.Cache.WarmTags...)
	if err := yaml.Unmarshal(raw, &merged); err != nil {
		return base, err
	}
	return merged, nil
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:            "127.0.0.1:3000",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    2 * time.Minute,
			ShutdownTimeout: 10 * time.Second,
		},
		HuggingFace: HuggingFaceConfig{
			APIURL:     "https://huggingface.co/api/models",
			BaseURL:    "https://huggingface.co",
			Sort:       "downloads",
			FetchLimit: 100,
			Timeout:    20 * time.Second,
		},
		Ranking: RankingConfig{
			FreshnessWindowDays: 180,
			MinLikes:            200,
			DefaultTag:          "text-to-image",
			Tags: []string{
				"text-to-image",
				"text-generation",
				"image-segmentation",
				"text-classification",
				"summarization",
				"image-to-text",
				"question-answering",
			},
		},
		LLM: LLMConfig{
			Endpoint:     "https://generativelanguage.googleapis.com/v1beta/openai/chat/completions",
			Model:        "gemini-2.5-flash",
			SystemPrompt: "You are a helpful assistant for exploring Hugging Face models.",
			Temperature:  0.2,
			Timeout:      60 * time.Second,
		},
		Sessions: SessionConfig{Driver: "memory", HistoryLimit: 50},
		Cache:    CacheConfig{TTL: 10 * time.Minute},
		Logging:  LoggingConfig{Level: "info", Format: "text"},
	}
}
