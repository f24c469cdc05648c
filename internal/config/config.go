package config

import (
	_ "embed"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed messages.yaml
var messagesYAML []byte

type Config struct {
	Engine   EngineConfig
	Speech   SpeechConfig
	Database DatabaseConfig
	Web      WebConfig
	Messages MessagesConfig
}

type EngineConfig struct {
	GlobalCooldown    time.Duration // minimum gap between any two playbacks
	PerPersonCooldown time.Duration // lock window after a person triggers audio
	ReappearThreshold time.Duration // absence gap that counts as leaving and returning
	SessionTimeout    time.Duration // idle time before the reaper evicts a person
	PollInterval      time.Duration // playback worker poll interval
	ReaperInterval    time.Duration // how often the reaper sweeps
	QueueLimit        int           // max pending announcements, oldest dropped beyond this
}

type SpeechConfig struct {
	Command string // external TTS binary (e.g. espeak, say); empty = auto-detect
}

type DatabaseConfig struct {
	URL          string // PostgreSQL connection URL
	MaxOpenConns int    // Maximum open connections (default 25)
	MaxIdleConns int    // Maximum idle connections (default 5)
}

type WebConfig struct {
	Port     int
	Host     string
	APIToken string // optional bearer token; empty disables auth
}

// MessagesConfig holds the announcement templates loaded from the embedded
// messages.yaml. Templates use {name} as the display-name placeholder.
type MessagesConfig struct {
	Templates MessageTemplates `yaml:"templates"`
}

type MessageTemplates struct {
	Marking       string `yaml:"marking"`
	Greeting      string `yaml:"greeting"`
	AlreadyMarked string `yaml:"already_marked"`
}

// Render substitutes the {name} placeholder in a template.
func Render(template, name string) string {
	return strings.ReplaceAll(template, "{name}", name)
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envDuration reads an environment variable and parses it as a Go duration
// string ("2s", "500ms"). Returns the default if unset, empty, or invalid.
func envDuration(key string, defaultVal time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return defaultVal
}

// envOr reads an environment variable, falling back to a default when unset.
func envOr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func Load() *Config {
	var messages MessagesConfig
	if err := yaml.Unmarshal(messagesYAML, &messages); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded messages.yaml: " + err.Error())
	}

	return &Config{
		Engine: EngineConfig{
			GlobalCooldown:    envDuration("GLOBAL_COOLDOWN", 2*time.Second),
			PerPersonCooldown: envDuration("PER_PERSON_COOLDOWN", 5*time.Second),
			ReappearThreshold: envDuration("REAPPEAR_THRESHOLD", 2*time.Second),
			SessionTimeout:    envDuration("SESSION_TIMEOUT", 5*time.Minute),
			PollInterval:      envDuration("POLL_INTERVAL", 50*time.Millisecond),
			ReaperInterval:    envDuration("REAPER_INTERVAL", time.Minute),
			QueueLimit:        envInt("QUEUE_LIMIT", 64),
		},
		Speech: SpeechConfig{
			Command: os.Getenv("SPEECH_COMMAND"),
		},
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		Web: WebConfig{
			Port:     envInt("WEB_PORT", 8080),
			Host:     envOr("WEB_HOST", "0.0.0.0"),
			APIToken: os.Getenv("API_TOKEN"),
		},
		Messages: messages,
	}
}
