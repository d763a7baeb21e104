// Package config loads service configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mindhaven/backend/internal/flow"
)

// Config aggregates every configurable part of the service.
type Config struct {
	Server ServerConfig
	Store  StoreConfig
	AI     AIConfig
	Flow   FlowConfig
	Speech SpeechConfig
	Log    LogConfig
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	flowCfg, err := loadFlowConfig()
	if err != nil {
		return nil, err
	}

	speech, err := loadSpeechConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server: server,
		Store:  loadStoreConfig(),
		AI:     ai,
		Flow:   flowCfg,
		Speech: speech,
		Log:    loadLogConfig(),
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Allow passing ":8080" or "127.0.0.1:8080" directly.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// StoreConfig selects the storage backend.
type StoreConfig struct {
	Driver string // memory | sqlite
	DSN    string
}

func loadStoreConfig() StoreConfig {
	return StoreConfig{
		Driver: getEnvOrDefault("STORE_DRIVER", "sqlite"),
		DSN:    getEnvOrDefault("STORE_DSN", "mindhaven.db"),
	}
}

// AIConfig describes the hosted chat-completion endpoint.
type AIConfig struct {
	Token            string
	BaseURL          string
	Model            string
	MaxTokens        int
	Temperature      float64
	TopP             float64
	PresencePenalty  float64
	FrequencyPenalty float64
	StreamResponse   bool
}

// Enabled reports whether the required credential is present.
func (c AIConfig) Enabled() bool {
	return c.Token != ""
}

func loadAIConfig() (AIConfig, error) {
	maxTokens := 320
	if override, err := parseOptionalIntEnv("AI_MAX_TOKENS"); err != nil {
		return AIConfig{}, err
	} else if override != nil {
		maxTokens = *override
	}

	temperature, err := parseFloatEnv("AI_TEMPERATURE", 0.6)
	if err != nil {
		return AIConfig{}, err
	}
	topP, err := parseFloatEnv("AI_TOP_P", 0.9)
	if err != nil {
		return AIConfig{}, err
	}
	presence, err := parseFloatEnv("AI_PRESENCE_PENALTY", 0.2)
	if err != nil {
		return AIConfig{}, err
	}
	frequency, err := parseFloatEnv("AI_FREQUENCY_PENALTY", 0.3)
	if err != nil {
		return AIConfig{}, err
	}
	stream, err := parseBoolEnv("AI_STREAM", true)
	if err != nil {
		return AIConfig{}, err
	}

	return AIConfig{
		Token:            strings.TrimSpace(os.Getenv("AI_TOKEN")),
		BaseURL:          getEnvOrDefault("AI_BASE", "https://api.groq.com/openai/v1"),
		Model:            getEnvOrDefault("AI_MODEL", "llama-3.1-8b-instant"),
		MaxTokens:        maxTokens,
		Temperature:      temperature,
		TopP:             topP,
		PresencePenalty:  presence,
		FrequencyPenalty: frequency,
		StreamResponse:   stream,
	}, nil
}

// FlowConfig overrides the journal-save flow heuristics. Empty fields keep
// the flow package defaults.
type FlowConfig struct {
	Cooldown       time.Duration
	TriggerPhrases []string
	Keywords       []string
}

func loadFlowConfig() (FlowConfig, error) {
	cfg := FlowConfig{}

	if raw := strings.TrimSpace(os.Getenv("FLOW_OFFER_COOLDOWN")); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return FlowConfig{}, fmt.Errorf("invalid FLOW_OFFER_COOLDOWN value %q: %w", raw, err)
		}
		cfg.Cooldown = d
	}
	cfg.TriggerPhrases = splitListEnv("FLOW_TRIGGER_PHRASES")
	cfg.Keywords = splitListEnv("FLOW_KEYWORDS")
	return cfg, nil
}

// Apply merges the overrides into the flow defaults.
func (c FlowConfig) Apply(base flow.Config) flow.Config {
	if c.Cooldown > 0 {
		base.Cooldown = c.Cooldown
	}
	if len(c.TriggerPhrases) > 0 {
		base.TriggerPhrases = c.TriggerPhrases
	}
	if len(c.Keywords) > 0 {
		base.Keywords = c.Keywords
	}
	return base
}

// SpeechConfig describes the speech-to-text provider.
type SpeechConfig struct {
	APIKey   string
	Language string
	Timeout  time.Duration
	Enabled  bool
}

func loadSpeechConfig() (SpeechConfig, error) {
	timeoutSeconds := 30
	if override, err := parseOptionalIntEnv("SPEECH_TIMEOUT"); err != nil {
		return SpeechConfig{}, err
	} else if override != nil {
		timeoutSeconds = *override
	}

	apiKey := strings.TrimSpace(os.Getenv("SPEECH_API_KEY"))
	return SpeechConfig{
		APIKey:   apiKey,
		Language: getEnvOrDefault("SPEECH_LANGUAGE", "en-US"),
		Timeout:  time.Duration(timeoutSeconds) * time.Second,
		Enabled:  apiKey != "",
	}, nil
}

// LogConfig describes logging output.
type LogConfig struct {
	Level  string
	Pretty bool
}

func loadLogConfig() LogConfig {
	pretty, err := parseBoolEnv("LOG_PRETTY", false)
	if err != nil {
		pretty = false
	}
	return LogConfig{
		Level:  getEnvOrDefault("LOG_LEVEL", "info"),
		Pretty: pretty,
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func splitListEnv(key string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, strings.ToLower(p))
		}
	}
	return out
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseFloatEnv(key string, defaultValue float64) (float64, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
