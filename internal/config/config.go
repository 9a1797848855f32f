// Package config loads engine configuration from the environment, with the
// same getEnv*/LEDENGINE_*-prefixed-var shape the rest of this codebase uses.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the settings needed to boot the render engine and its
// supporting subsystems (DDP transport, persistence, metrics).
type Config struct {
	// Render loop
	TargetFPS     int     // ticks per second the engine aims for
	FFTSize       int     // default DSPSettings.FFTSize
	NumBands      int     // filterbank band count fed to effects
	MinFreq       float32 // default DSPSettings.MinFreq, Hz
	MaxFreq       float32 // default DSPSettings.MaxFreq, Hz
	FilterbankType string // default DSPSettings.FilterbankType
	SmoothingK    float32 // default DSPSettings.SmoothingFactor
	AGCAttack     float32 // default DSPSettings.AGCAttack
	AGCDecay      float32 // default DSPSettings.AGCDecay
	AudioDelayMS  int     // ring-buffer delay applied before analysis, in ms
	SampleRate    int     // source sample rate, Hz
	TargetRate    int     // 0 = no resample; else resample target rate, Hz
	APIPort       int     // default EngineStateSnapshot.APIPort

	// Transport
	DDPPort    int  // destination UDP port for DDP packets (default 4048)
	DDPMaxData int  // max payload bytes per DDP chunk (default 1440)
	UseIPv4Opt bool // tune the UDP socket via golang.org/x/net/ipv4

	// Persistence
	StateDir     string // directory holding the engine-state snapshot
	StateBackend string // "json" or "sqlite"
	CompressSnap bool   // read from the environment but not passed to store.Open; both backends always brotli-compress

	// Metrics
	MetricsEnabled bool
	MetricsAddr    string // host:port for the /metrics exporter, host process binds this

	// Lifecycle
	RestartOnError bool
	RestartDelay   time.Duration
}

const (
	envTargetFPS       = "LEDENGINE_TARGET_FPS"
	envFFTSize         = "LEDENGINE_FFT_SIZE"
	envNumBands        = "LEDENGINE_NUM_BANDS"
	envMinFreq         = "LEDENGINE_MIN_FREQ"
	envMaxFreq         = "LEDENGINE_MAX_FREQ"
	envFilterbankType  = "LEDENGINE_FILTERBANK_TYPE"
	envSmoothingK      = "LEDENGINE_SMOOTHING_FACTOR"
	envAGCAttack       = "LEDENGINE_AGC_ATTACK"
	envAGCDecay        = "LEDENGINE_AGC_DECAY"
	envAudioDelayMS    = "LEDENGINE_AUDIO_DELAY_MS"
	envSampleRate      = "LEDENGINE_SAMPLE_RATE"
	envTargetRate      = "LEDENGINE_TARGET_SAMPLE_RATE"
	envAPIPort         = "LEDENGINE_API_PORT"
	envDDPPort         = "LEDENGINE_DDP_PORT"
	envDDPMaxData      = "LEDENGINE_DDP_MAX_DATA"
	envUseIPv4Opt      = "LEDENGINE_DDP_IPV4_OPT"
	envStateDir        = "LEDENGINE_STATE_DIR"
	envStateBackend    = "LEDENGINE_STATE_BACKEND"
	envCompressSnap    = "LEDENGINE_STATE_COMPRESS"
	envMetricsEnabled  = "LEDENGINE_METRICS_ENABLED"
	envMetricsAddr     = "LEDENGINE_METRICS_ADDR"
	envRestartOnError  = "LEDENGINE_RESTART_ON_ERROR"
	envRestartDelay    = "LEDENGINE_RESTART_DELAY"
)

// Load reads configuration from the environment, applying the same defaults
// the engine uses when embedded directly without a host config layer.
func Load() *Config {
	return &Config{
		TargetFPS:      getEnvInt(envTargetFPS, 60),
		FFTSize:        getEnvInt(envFFTSize, 1024),
		NumBands:       getEnvInt(envNumBands, 128),
		MinFreq:        getEnvFloat(envMinFreq, 20),
		MaxFreq:        getEnvFloat(envMaxFreq, 20000),
		FilterbankType: getEnv(envFilterbankType, "balanced"),
		SmoothingK:     getEnvFloat(envSmoothingK, 0.4),
		AGCAttack:      getEnvFloat(envAGCAttack, 0.01),
		AGCDecay:       getEnvFloat(envAGCDecay, 0.1),
		AudioDelayMS:   getEnvInt(envAudioDelayMS, 0),
		SampleRate:     getEnvInt(envSampleRate, 48000),
		TargetRate:     getEnvInt(envTargetRate, 0),
		APIPort:        getEnvInt(envAPIPort, 8080),
		DDPPort:        getEnvInt(envDDPPort, 4048),
		DDPMaxData:     getEnvInt(envDDPMaxData, 1440),
		UseIPv4Opt:     getEnvBool(envUseIPv4Opt, true),
		StateDir:       getEnv(envStateDir, "./state"),
		StateBackend:   getEnv(envStateBackend, "json"),
		CompressSnap:   getEnvBool(envCompressSnap, false),
		MetricsEnabled: getEnvBool(envMetricsEnabled, true),
		MetricsAddr:    getEnv(envMetricsAddr, ":9090"),
		RestartOnError: getEnvBool(envRestartOnError, true),
		RestartDelay:   getEnvDuration(envRestartDelay, 2*time.Second),
	}
}

// EffectiveSampleRate returns TargetRate if set, else SampleRate, mirroring
// the resample-or-passthrough rule used when converting AudioDelayMS to a
// sample count.
func (c *Config) EffectiveSampleRate() int {
	if c.TargetRate > 0 {
		return c.TargetRate
	}
	return c.SampleRate
}

// DelaySamples converts AudioDelayMS into a sample count at EffectiveSampleRate.
func (c *Config) DelaySamples() int {
	return int(float64(c.AudioDelayMS) / 1000.0 * float64(c.EffectiveSampleRate()))
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float32) float32 {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.ParseFloat(v, 32)
		if err == nil {
			return float32(n)
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		return v == "1" || strings.EqualFold(v, "true") || strings.EqualFold(v, "yes")
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
