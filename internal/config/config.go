package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	APIPort  string `yaml:"api_port"`
	LogLevel string `yaml:"log_level"`

	ResultsDir string `yaml:"results_dir"`

	// PipelineCommand is the executable (plus leading arguments) that performs
	// the actual 10-K analysis. The server appends --input-pdf and --pages.
	PipelineCommand string `yaml:"pipeline_command"`

	DefaultPages    int `yaml:"default_pages"`
	MaxPages        int `yaml:"max_pages"`
	MaxUploadBytes  int `yaml:"max_upload_bytes"`
	LogBufferLines  int `yaml:"log_buffer_lines"`
	SubscriberLines int `yaml:"subscriber_lines"`

	APIRateLimitRPS   int `yaml:"api_rate_limit_rps"`
	APIRateLimitBurst int `yaml:"api_rate_limit_burst"`

	NATSURL     string `yaml:"nats_url"`
	NATSSubject string `yaml:"nats_subject"`
}

// Load builds the configuration from environment variables, optionally seeded
// from a YAML file named by TENK_CONFIG. Environment values win over the file.
func Load() Config {
	cfg := defaults()

	if path := os.Getenv("TENK_CONFIG"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			fmt.Fprintf(os.Stderr, "config file %s ignored: %v\n", path, err)
		}
	}

	cfg.APIPort = env("API_PORT", cfg.APIPort)
	cfg.LogLevel = env("LOG_LEVEL", cfg.LogLevel)
	cfg.ResultsDir = env("RESULTS_DIR", cfg.ResultsDir)
	cfg.PipelineCommand = env("PIPELINE_COMMAND", cfg.PipelineCommand)
	cfg.DefaultPages = envInt("DEFAULT_PAGES", cfg.DefaultPages)
	cfg.MaxPages = envInt("MAX_PAGES", cfg.MaxPages)
	cfg.MaxUploadBytes = envInt("MAX_UPLOAD_BYTES", cfg.MaxUploadBytes)
	cfg.LogBufferLines = envInt("LOG_BUFFER_LINES", cfg.LogBufferLines)
	cfg.SubscriberLines = envInt("SUBSCRIBER_LINES", cfg.SubscriberLines)
	cfg.APIRateLimitRPS = envInt("API_RATE_LIMIT_RPS", cfg.APIRateLimitRPS)
	cfg.APIRateLimitBurst = envInt("API_RATE_LIMIT_BURST", cfg.APIRateLimitBurst)
	cfg.NATSURL = env("NATS_URL", cfg.NATSURL)
	cfg.NATSSubject = env("NATS_SUBJECT", cfg.NATSSubject)

	return cfg
}

func defaults() Config {
	return Config{
		APIPort:  "5000",
		LogLevel: "info",

		ResultsDir:      "./results",
		PipelineCommand: "python3 pipeline.py",

		DefaultPages:    3,
		MaxPages:        50,
		MaxUploadBytes:  64 << 20,
		LogBufferLines:  5000,
		SubscriberLines: 128,

		APIRateLimitRPS:   0,
		APIRateLimitBurst: 0,

		NATSURL:     "",
		NATSSubject: "tenk.jobs.status",
	}
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

// PipelineArgv splits PipelineCommand into an argv prefix.
func (c Config) PipelineArgv() []string {
	return strings.Fields(c.PipelineCommand)
}

func env(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envInt(key string, fallback int) int {
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
