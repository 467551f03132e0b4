package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable of the editor engine and the scene server.
type Config struct {
	Editor  Editor  `yaml:"editor"`
	Storage Storage `yaml:"storage"`
	Remote  Remote  `yaml:"remote"`
	Server  Server  `yaml:"server"`
	Log     Log     `yaml:"log"`
}

type Editor struct {
	SaveDebounce time.Duration `yaml:"save_debounce"`
	CacheTTL     time.Duration `yaml:"cache_ttl"`
	HistoryLimit int           `yaml:"history_limit"`
	// ModelDir holds <modelRef>.obj pick meshes. Empty uses unit boxes.
	ModelDir string `yaml:"model_dir"`
	// ViewportWidth and ViewportHeight size the pointer surface in pixels.
	ViewportWidth  int `yaml:"viewport_width"`
	ViewportHeight int `yaml:"viewport_height"`
}

// Storage selects the key-value backend. Driver is one of memory, sqlite or s3.
type Storage struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
	S3     S3     `yaml:"s3"`
}

type S3 struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	Prefix          string `yaml:"prefix"`
	PathStyle       bool   `yaml:"path_style"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

type Remote struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type Server struct {
	Port         string        `yaml:"port"`
	Environment  string        `yaml:"environment"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	BodyLimit    int           `yaml:"body_limit"`
}

type Log struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Editor: Editor{
			SaveDebounce:   time.Second,
			CacheTTL:       5 * time.Minute,
			HistoryLimit:   0,
			ViewportWidth:  800,
			ViewportHeight: 600,
		},
		Storage: Storage{
			Driver: "sqlite",
			Path:   "data/roomeditor.db",
		},
		Remote: Remote{
			Timeout: 10 * time.Second,
		},
		Server: Server{
			Port:         "3000",
			Environment:  "development",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			BodyLimit:    4 * 1024 * 1024,
		},
		Log: Log{
			Level: "info",
		},
	}
}

// Load reads the YAML file at path on top of Default and then applies
// environment overrides. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects values the engine cannot run with.
func (c Config) Validate() error {
	if c.Editor.SaveDebounce < 0 {
		return fmt.Errorf("editor.save_debounce must not be negative")
	}
	if c.Editor.CacheTTL <= 0 {
		return fmt.Errorf("editor.cache_ttl must be positive")
	}
	if c.Editor.HistoryLimit < 0 {
		return fmt.Errorf("editor.history_limit must not be negative")
	}
	if c.Editor.ViewportWidth <= 0 || c.Editor.ViewportHeight <= 0 {
		return fmt.Errorf("editor.viewport_width and viewport_height must be positive")
	}
	switch c.Storage.Driver {
	case "memory", "sqlite":
	case "s3":
		if c.Storage.S3.Bucket == "" {
			return fmt.Errorf("storage.s3.bucket required for s3 driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Remote.Timeout <= 0 {
		return fmt.Errorf("remote.timeout must be positive")
	}
	return nil
}

func applyEnv(c *Config) {
	c.Editor.SaveDebounce = getEnvAsDuration("ROOMEDITOR_SAVE_DEBOUNCE", c.Editor.SaveDebounce)
	c.Editor.CacheTTL = getEnvAsDuration("ROOMEDITOR_CACHE_TTL", c.Editor.CacheTTL)
	c.Editor.HistoryLimit = getEnvAsInt("ROOMEDITOR_HISTORY_LIMIT", c.Editor.HistoryLimit)
	c.Editor.ModelDir = getEnv("ROOMEDITOR_MODEL_DIR", c.Editor.ModelDir)
	c.Editor.ViewportWidth = getEnvAsInt("ROOMEDITOR_VIEWPORT_WIDTH", c.Editor.ViewportWidth)
	c.Editor.ViewportHeight = getEnvAsInt("ROOMEDITOR_VIEWPORT_HEIGHT", c.Editor.ViewportHeight)

	c.Storage.Driver = getEnv("ROOMEDITOR_STORAGE_DRIVER", c.Storage.Driver)
	c.Storage.Path = getEnv("ROOMEDITOR_STORAGE_PATH", c.Storage.Path)
	c.Storage.S3.Bucket = getEnv("ROOMEDITOR_S3_BUCKET", c.Storage.S3.Bucket)
	c.Storage.S3.Region = getEnv("ROOMEDITOR_S3_REGION", c.Storage.S3.Region)
	c.Storage.S3.Endpoint = getEnv("ROOMEDITOR_S3_ENDPOINT", c.Storage.S3.Endpoint)
	c.Storage.S3.Prefix = getEnv("ROOMEDITOR_S3_PREFIX", c.Storage.S3.Prefix)
	c.Storage.S3.PathStyle = getEnvAsBool("ROOMEDITOR_S3_PATH_STYLE", c.Storage.S3.PathStyle)

	c.Remote.BaseURL = getEnv("ROOMEDITOR_REMOTE_URL", c.Remote.BaseURL)
	c.Remote.Timeout = getEnvAsDuration("ROOMEDITOR_REMOTE_TIMEOUT", c.Remote.Timeout)

	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Server.Environment = getEnv("ENV", c.Server.Environment)

	c.Log.Level = getEnv("ROOMEDITOR_LOG_LEVEL", c.Log.Level)
	c.Log.Development = getEnvAsBool("ROOMEDITOR_LOG_DEVELOPMENT", c.Log.Development)
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}
