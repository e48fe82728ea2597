// Package config provides configuration management for the reelforge agent.
// Configuration is loaded from environment variables with sensible defaults;
// a .env file, when present, seeds variables that are not already set.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/reelforge/reelforge-agent/internal/captions"
)

const (
	// Default values
	DefaultPort             = 8790
	DefaultLogLevel         = "info"
	DefaultDataDir          = ".reelforge"
	DefaultTTSTimeout       = 60 // seconds
	DefaultMediaItemSeconds = 5.0
	DefaultFrameIntervalMS  = 33

	// Environment variable names
	EnvPort             = "REEL_PORT"
	EnvLogLevel         = "REEL_LOG_LEVEL"
	EnvDataDir          = "REEL_DATA_DIR"
	EnvHeadless         = "REEL_HEADLESS"
	EnvTTSAPIKey        = "REEL_TTS_API_KEY"
	EnvTTSBaseURL       = "REEL_TTS_BASE_URL"
	EnvTTSModel         = "REEL_TTS_MODEL"
	EnvTTSTimeout       = "REEL_TTS_TIMEOUT_S"
	EnvTimingStrategy   = "REEL_TIMING_STRATEGY"
	EnvSentenceAware    = "REEL_SENTENCE_AWARE"
	EnvMediaItemSeconds = "REEL_MEDIA_ITEM_SECONDS"
	EnvFrameIntervalMS  = "REEL_FRAME_INTERVAL_MS"
	EnvAudioMode        = "REEL_AUDIO_MODE"
	EnvStylePresets     = "REEL_STYLE_PRESETS"

	// Database filename
	DBFilename = "reelforge.db"
)

// AudioMode selects where narration audio is played.
type AudioMode string

const (
	// AudioVirtual plays against the agent's wall clock.
	AudioVirtual AudioMode = "virtual"
	// AudioRemote follows the browser's audio element.
	AudioRemote AudioMode = "remote"
)

// Config defines the application configuration interface
type Config interface {
	Port() int
	LogLevel() string
	DataDir() string
	DBPath() string
	ExportDir() string
	Headless() bool
	TTSAPIKey() string
	TTSBaseURL() string
	TTSModel() string
	TTSTimeout() time.Duration
	TimingStrategy() captions.Strategy
	SentenceAware() bool
	MediaItemSeconds() float64
	FrameInterval() time.Duration
	AudioMode() AudioMode
	StylePresetsPath() string
}

// EnvConfig reads configuration from environment variables
type EnvConfig struct {
	port     int
	logLevel string
	dataDir  string
	headless bool

	ttsAPIKey  string
	ttsBaseURL string
	ttsModel   string
	ttsTimeout int

	timingStrategy   captions.Strategy
	sentenceAware    bool
	mediaItemSeconds float64
	frameIntervalMS  int
	audioMode        AudioMode
	stylePresets     string
}

// LoadEnvFile seeds the environment from a dotenv file. A missing file is not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// New creates a new EnvConfig with defaults and environment variable overrides
func New() (*EnvConfig, error) {
	cfg := &EnvConfig{
		port:             DefaultPort,
		logLevel:         DefaultLogLevel,
		dataDir:          defaultDataDir(),
		ttsTimeout:       DefaultTTSTimeout,
		timingStrategy:   captions.StrategyUniform,
		mediaItemSeconds: DefaultMediaItemSeconds,
		frameIntervalMS:  DefaultFrameIntervalMS,
		audioMode:        AudioVirtual,
	}

	if p := os.Getenv(EnvPort); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvPort, err)
		}
		if port < 1 || port > 65535 {
			return nil, fmt.Errorf("invalid %s: port must be between 1 and 65535", EnvPort)
		}
		cfg.port = port
	}

	if ll := os.Getenv(EnvLogLevel); ll != "" {
		cfg.logLevel = ll
	}
	if dd := os.Getenv(EnvDataDir); dd != "" {
		cfg.dataDir = dd
	}

	var err error
	if cfg.headless, err = envBool(EnvHeadless, false); err != nil {
		return nil, err
	}
	if cfg.sentenceAware, err = envBool(EnvSentenceAware, false); err != nil {
		return nil, err
	}

	cfg.ttsAPIKey = os.Getenv(EnvTTSAPIKey)
	cfg.ttsBaseURL = os.Getenv(EnvTTSBaseURL)
	cfg.ttsModel = os.Getenv(EnvTTSModel)

	if v := os.Getenv(EnvTTSTimeout); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs <= 0 {
			return nil, fmt.Errorf("invalid %s: must be a positive number of seconds", EnvTTSTimeout)
		}
		cfg.ttsTimeout = secs
	}

	if v := os.Getenv(EnvTimingStrategy); v != "" {
		strategy, err := captions.ParseStrategy(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvTimingStrategy, err)
		}
		cfg.timingStrategy = strategy
	}

	if v := os.Getenv(EnvMediaItemSeconds); v != "" {
		secs, err := strconv.ParseFloat(v, 64)
		if err != nil || secs <= 0 {
			return nil, fmt.Errorf("invalid %s: must be a positive number", EnvMediaItemSeconds)
		}
		cfg.mediaItemSeconds = secs
	}

	if v := os.Getenv(EnvFrameIntervalMS); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil || ms < 1 || ms > 1000 {
			return nil, fmt.Errorf("invalid %s: must be between 1 and 1000", EnvFrameIntervalMS)
		}
		cfg.frameIntervalMS = ms
	}

	if v := os.Getenv(EnvAudioMode); v != "" {
		switch mode := AudioMode(strings.ToLower(v)); mode {
		case AudioVirtual, AudioRemote:
			cfg.audioMode = mode
		default:
			return nil, fmt.Errorf("invalid %s: must be virtual or remote", EnvAudioMode)
		}
	}

	cfg.stylePresets = os.Getenv(EnvStylePresets)

	return cfg, nil
}

func envBool(name string, def bool) (bool, error) {
	v := os.Getenv(name)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", name, err)
	}
	return b, nil
}

// Port returns the HTTP server port
func (c *EnvConfig) Port() int {
	return c.port
}

// LogLevel returns the log level (debug, info, warn, error)
func (c *EnvConfig) LogLevel() string {
	return c.logLevel
}

func (c *EnvConfig) DataDir() string {
	return c.dataDir
}

// DBPath returns the full path to the SQLite database file
func (c *EnvConfig) DBPath() string {
	return filepath.Join(c.dataDir, DBFilename)
}

// ExportDir is where caption exports go when the request names no directory.
func (c *EnvConfig) ExportDir() string {
	return filepath.Join(c.dataDir, "exports")
}

func (c *EnvConfig) Headless() bool {
	return c.headless
}

func (c *EnvConfig) TTSAPIKey() string {
	return c.ttsAPIKey
}

func (c *EnvConfig) TTSBaseURL() string {
	return c.ttsBaseURL
}

func (c *EnvConfig) TTSModel() string {
	return c.ttsModel
}

func (c *EnvConfig) TTSTimeout() time.Duration {
	return time.Duration(c.ttsTimeout) * time.Second
}

func (c *EnvConfig) TimingStrategy() captions.Strategy {
	return c.timingStrategy
}

func (c *EnvConfig) SentenceAware() bool {
	return c.sentenceAware
}

func (c *EnvConfig) MediaItemSeconds() float64 {
	return c.mediaItemSeconds
}

func (c *EnvConfig) FrameInterval() time.Duration {
	return time.Duration(c.frameIntervalMS) * time.Millisecond
}

func (c *EnvConfig) AudioMode() AudioMode {
	return c.audioMode
}

// StylePresetsPath is an optional YAML file extending the built-in caption styles.
func (c *EnvConfig) StylePresetsPath() string {
	return c.stylePresets
}

// defaultDataDir returns the default data directory path
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultDataDir
	}
	return filepath.Join(home, DefaultDataDir)
}

// Version information (set at build time via ldflags)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)
