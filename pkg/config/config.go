package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Environment variables. Credentials are only ever read here, never by the
// exchange client.
const (
	EnvAPIKey        = "BINANCE_TESTNET_API_KEY"
	EnvAPISecret     = "BINANCE_TESTNET_API_SECRET"
	EnvBaseURL       = "FUTURESBOT_BASE_URL"
	EnvTimeout       = "FUTURESBOT_TIMEOUT_SECONDS"
	EnvLogLevel      = "FUTURESBOT_LOG_LEVEL"
	EnvLogFile       = "FUTURESBOT_LOG_FILE"
	EnvSecretPath    = "FUTURESBOT_SECRET_STORE"
	EnvSecretKey     = "FUTURESBOT_SECRET_KEY"
	EnvListen        = "FUTURESBOT_LISTEN"
	EnvRateLimit     = "FUTURESBOT_RATE_LIMIT"
	defaultBaseURL   = "https://testnet.binancefuture.com"
	defaultLogFile   = "logs/trading_bot.log"
	defaultListen    = ":8080"
	defaultTimeout   = 10
	defaultLogLevel  = "info"
	defaultMaxSizeMB = 5
	defaultBackups   = 2
)

var ErrMissingCredentials = errors.New(
	"API credentials not found. Set " + EnvAPIKey + " and " + EnvAPISecret + " in .env file")

type LogConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
}

type SecretStoreConfig struct {
	Path          string
	EncryptionKey string
}

type ServerConfig struct {
	Listen string
}

// Config is the resolved application configuration.
type Config struct {
	BaseURL     string
	Timeout     time.Duration
	APIKey      string
	APISecret   string
	RateLimit   bool
	Log         LogConfig
	SecretStore SecretStoreConfig
	Server      ServerConfig
}

// ConfigFile is the on-disk shape (.yaml, .yml or .json).
type ConfigFile struct {
	BaseURL        string `yaml:"base_url" json:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds" json:"timeout_seconds"`
	RateLimit      *bool  `yaml:"rate_limit" json:"rate_limit"`
	Log            struct {
		Level      string `yaml:"level" json:"level"`
		File       string `yaml:"file" json:"file"`
		MaxSizeMB  int    `yaml:"max_size_mb" json:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups" json:"max_backups"`
	} `yaml:"log" json:"log"`
	SecretStore struct {
		Path          string `yaml:"path" json:"path"`
		EncryptionKey string `yaml:"encryption_key" json:"encryption_key"`
	} `yaml:"secret_store" json:"secret_store"`
	Server struct {
		Listen string `yaml:"listen" json:"listen"`
	} `yaml:"server" json:"server"`
}

// Load resolves configuration from filePath (optional) and the environment.
// Precedence: environment > file > defaults.
func Load(filePath string) (*Config, error) {
	var cf ConfigFile
	if filePath != "" {
		loaded, err := loadConfigFile(filePath)
		if err != nil {
			return nil, err
		}
		cf = *loaded
	}

	rateLimit := true
	if cf.RateLimit != nil {
		rateLimit = *cf.RateLimit
	}

	cfg := &Config{
		BaseURL:   getEnv(EnvBaseURL, firstNonEmpty(cf.BaseURL, defaultBaseURL)),
		Timeout:   time.Duration(parseIntEnv(EnvTimeout, firstPositive(cf.TimeoutSeconds, defaultTimeout))) * time.Second,
		APIKey:    strings.TrimSpace(os.Getenv(EnvAPIKey)),
		APISecret: strings.TrimSpace(os.Getenv(EnvAPISecret)),
		RateLimit: parseBoolEnv(EnvRateLimit, rateLimit),
		Log: LogConfig{
			Level:      getEnv(EnvLogLevel, firstNonEmpty(cf.Log.Level, defaultLogLevel)),
			File:       getEnv(EnvLogFile, firstNonEmpty(cf.Log.File, defaultLogFile)),
			MaxSizeMB:  firstPositive(cf.Log.MaxSizeMB, defaultMaxSizeMB),
			MaxBackups: firstPositive(cf.Log.MaxBackups, defaultBackups),
		},
		SecretStore: SecretStoreConfig{
			Path:          getEnv(EnvSecretPath, cf.SecretStore.Path),
			EncryptionKey: getEnv(EnvSecretKey, cf.SecretStore.EncryptionKey),
		},
		Server: ServerConfig{
			Listen: getEnv(EnvListen, firstNonEmpty(cf.Server.Listen, defaultListen)),
		},
	}
	return cfg, nil
}

func loadConfigFile(filePath string) (*ConfigFile, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrap(err, "read config file")
	}

	var cf ConfigFile
	switch ext := strings.ToLower(filepath.Ext(filePath)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cf); err != nil {
			return nil, errors.Wrap(err, "parse yaml config")
		}
	case ".json":
		if err := json.Unmarshal(data, &cf); err != nil {
			return nil, errors.Wrap(err, "parse json config")
		}
	default:
		return nil, errors.Errorf("unsupported config format: %s (want .yaml, .yml or .json)", ext)
	}
	return &cf, nil
}

// CredentialLoader is satisfied by *secretstore.Store.
type CredentialLoader interface {
	LoadCredentials() (apiKey, apiSecret string, ok bool, err error)
}

// FillCredentials takes credentials from src when the environment supplied
// none. Credentials already set are left alone.
func (c *Config) FillCredentials(src CredentialLoader) error {
	if c.HasCredentials() || src == nil {
		return nil
	}
	key, secret, ok, err := src.LoadCredentials()
	if err != nil {
		return errors.Wrap(err, "load credentials from secret store")
	}
	if ok {
		c.APIKey, c.APISecret = key, secret
	}
	return nil
}

func (c *Config) HasCredentials() bool {
	return c.APIKey != "" && c.APISecret != ""
}

// Validate checks what an exchange call needs.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return errors.New("base_url is required")
	}
	if c.Timeout <= 0 {
		return errors.New("timeout_seconds must be positive")
	}
	if !c.HasCredentials() {
		return ErrMissingCredentials
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return defaultValue
	}
	return parsed
}

func parseBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
