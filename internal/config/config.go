package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/dustin/go-humanize"
)

// Asset store drivers.
const (
	AssetDriverFS     = "fs"
	AssetDriverS3     = "s3"
	AssetDriverMemory = "memory"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Classifier endpoint configuration.
	ClassifierURL       string
	ClassifierTimeout   time.Duration
	ClassifierCacheSize int
	ClassifyRate        float64 // uploads per second per process
	ClassifyBurst       int
	UploadMaxBytes      int64
	SessionCacheSize    int

	SearchDebounce time.Duration

	// Asset store configuration.
	AssetDriver      string
	AssetFSRoot      string
	AssetS3Bucket    string
	AssetS3Region    string
	AssetS3Endpoint  string
	AssetS3PathStyle bool
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	classifierTimeout, err := parsePositiveDuration("CLASSIFIER_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	debounce, err := parsePositiveDuration("SEARCH_DEBOUNCE", "200ms")
	if err != nil {
		return nil, err
	}

	classifyRate, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("CLASSIFY_RATE", "2"), 64)
	if err != nil || classifyRate <= 0 {
		return nil, errors.New("invalid CLASSIFY_RATE: must be a positive number")
	}

	classifyBurst, err := parsePositiveInt("CLASSIFY_BURST", 5)
	if err != nil {
		return nil, err
	}

	maxBytes, err := humanize.ParseBytes(sharedcfg.EnvOrDefault("UPLOAD_MAX_BYTES", "10MB"))
	if err != nil || maxBytes == 0 {
		return nil, errors.New("invalid UPLOAD_MAX_BYTES: must be a positive size such as 10MB")
	}

	pathStyle := false
	if v := os.Getenv("ASSET_S3_PATH_STYLE"); v != "" {
		pathStyle, err = strconv.ParseBool(v)
		if err != nil {
			return nil, errors.New("invalid ASSET_S3_PATH_STYLE")
		}
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		ClassifierURL:       sharedcfg.EnvOrDefault("CLASSIFIER_URL", "http://127.0.0.1:8000/predict"),
		ClassifierTimeout:   classifierTimeout,
		ClassifierCacheSize: parseCacheSize("CLASSIFIER_CACHE_SIZE", 256),
		ClassifyRate:        classifyRate,
		ClassifyBurst:       classifyBurst,
		UploadMaxBytes:      int64(maxBytes),
		SessionCacheSize:    parseCacheSize("SESSION_CACHE_SIZE", 1000),

		SearchDebounce: debounce,

		AssetDriver:      strings.ToLower(sharedcfg.EnvOrDefault("ASSET_DRIVER", AssetDriverFS)),
		AssetFSRoot:      sharedcfg.EnvOrDefault("ASSET_FS_ROOT", "public"),
		AssetS3Bucket:    os.Getenv("ASSET_S3_BUCKET"),
		AssetS3Region:    sharedcfg.EnvOrDefault("ASSET_S3_REGION", "ap-northeast-2"),
		AssetS3Endpoint:  os.Getenv("ASSET_S3_ENDPOINT"),
		AssetS3PathStyle: pathStyle,
	}

	u, err := url.Parse(cfg.ClassifierURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid CLASSIFIER_URL %q", cfg.ClassifierURL)
	}

	switch cfg.AssetDriver {
	case AssetDriverFS:
		if cfg.AssetFSRoot == "" {
			return nil, errors.New("ASSET_FS_ROOT is required for the fs asset driver")
		}
	case AssetDriverS3:
		if cfg.AssetS3Bucket == "" {
			return nil, errors.New("ASSET_S3_BUCKET is required for the s3 asset driver")
		}
	case AssetDriverMemory:
	default:
		return nil, fmt.Errorf("unknown ASSET_DRIVER %q", cfg.AssetDriver)
	}

	return cfg, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive duration", key)
	}
	return d, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid %s: must be a positive integer", key)
	}
	return n, nil
}

func parseCacheSize(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}
