package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Database DatabaseConfig `yaml:"database"`
	LLM      LLMConfig      `yaml:"llm"`
	Codec    CodecConfig    `yaml:"codec"`
}

type ServerConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	MaxUploadBytes int64    `yaml:"max_upload_bytes"`
}

// StorageConfig selects where artifact bytes live: memory, disk or database.
type StorageConfig struct {
	Backend  string `yaml:"backend"`
	Dir      string `yaml:"dir"`
	Compress bool   `yaml:"compress"`
}

// DatabaseConfig holds the metadata store connection. Driver is one of
// postgres (pgdriver), pq (lib/pq) or sqlite.
type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	DSN      string `yaml:"dsn"`
	Password string `yaml:"password"`
	Debug    bool   `yaml:"debug"`
}

type LLMConfig struct {
	Provider          string        `yaml:"provider"`
	BaseURL           string        `yaml:"base_url"`
	Key               string        `yaml:"key"`
	Model             string        `yaml:"model"`
	Temperature       float64       `yaml:"temperature"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
}

type CodecConfig struct {
	MaxFileSize   int64 `yaml:"max_file_size"`
	CoerceNumbers bool  `yaml:"coerce_numbers"`
}

const (
	defaultPort           = 3020
	defaultMaxUploadBytes = 50 << 20
	defaultMaxFileSize    = 100 << 20
	defaultStorageDir     = "./uploads"
	defaultGeminiModel    = "gemini-1.5-pro"
	defaultLLMTimeout     = 2 * time.Minute
)

// Default returns a configuration that runs fully in memory against Gemini.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           defaultPort,
			AllowedOrigins: []string{"*"},
			MaxUploadBytes: defaultMaxUploadBytes,
		},
		Storage: StorageConfig{
			Backend: "memory",
			Dir:     defaultStorageDir,
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    ":memory:",
		},
		LLM: LLMConfig{
			Provider: "googleai",
			Model:    defaultGeminiModel,
			Timeout:  defaultLLMTimeout,
		},
		Codec: CodecConfig{
			MaxFileSize: defaultMaxFileSize,
		},
	}
}

// LoadConfig reads a YAML file over the defaults. Fields missing from the
// file keep their default value.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.defaults()
	return cfg, nil
}

// Load is LoadConfig followed by environment overrides. An empty path skips
// the file and starts from the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		var err error
		cfg, err = LoadConfig(path)
		if err != nil {
			return nil, err
		}
	}
	ApplyEnv(cfg, newEnv())
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envBindings maps viper keys to the environment variables that set them.
// The unprefixed names are the ones the relay has always read.
var envBindings = map[string][]string{
	"port":             {"RELAY_PORT", "PORT"},
	"storage.backend":  {"RELAY_STORAGE_BACKEND"},
	"storage.dir":      {"RELAY_STORAGE_DIR", "STORAGE_DIR"},
	"database.driver":  {"RELAY_DATABASE_DRIVER"},
	"database.dsn":     {"RELAY_DATABASE_DSN", "DATABASE_URL"},
	"database.pass":    {"RELAY_DATABASE_PASSWORD"},
	"llm.provider":     {"RELAY_LLM_PROVIDER"},
	"llm.base_url":     {"RELAY_LLM_BASE_URL"},
	"llm.key":          {"RELAY_LLM_KEY", "GEMINI_API_KEY", "OPENAI_API_KEY"},
	"llm.model":        {"RELAY_LLM_MODEL"},
	"cors.origins":     {"RELAY_ALLOWED_ORIGINS"},
	"codec.coerce_num": {"RELAY_COERCE_NUMBERS"},
}

func newEnv() *viper.Viper {
	v := viper.New()
	for key, envs := range envBindings {
		_ = v.BindEnv(append([]string{key}, envs...)...)
	}
	return v
}

// ApplyEnv overlays values present in the environment onto cfg.
func ApplyEnv(cfg *Config, v *viper.Viper) {
	if v.IsSet("port") {
		cfg.Server.Port = v.GetInt("port")
	}
	if v.IsSet("storage.backend") {
		cfg.Storage.Backend = v.GetString("storage.backend")
	}
	if v.IsSet("storage.dir") {
		cfg.Storage.Dir = v.GetString("storage.dir")
	}
	if v.IsSet("database.driver") {
		cfg.Database.Driver = v.GetString("database.driver")
	}
	if v.IsSet("database.dsn") {
		cfg.Database.DSN = v.GetString("database.dsn")
	}
	if v.IsSet("database.pass") {
		cfg.Database.Password = v.GetString("database.pass")
	}
	if v.IsSet("llm.provider") {
		cfg.LLM.Provider = v.GetString("llm.provider")
	}
	if v.IsSet("llm.base_url") {
		cfg.LLM.BaseURL = v.GetString("llm.base_url")
	}
	if v.IsSet("llm.key") {
		cfg.LLM.Key = v.GetString("llm.key")
	}
	if v.IsSet("llm.model") {
		cfg.LLM.Model = v.GetString("llm.model")
	}
	if v.IsSet("cors.origins") {
		cfg.Server.AllowedOrigins = splitList(v.GetString("cors.origins"))
	}
	if v.IsSet("codec.coerce_num") {
		cfg.Codec.CoerceNumbers = v.GetBool("codec.coerce_num")
	}
}

func (c *Config) defaults() {
	if c.Server.Port == 0 {
		c.Server.Port = defaultPort
	}
	if c.Server.MaxUploadBytes <= 0 {
		c.Server.MaxUploadBytes = defaultMaxUploadBytes
	}
	if c.Codec.MaxFileSize <= 0 {
		c.Codec.MaxFileSize = defaultMaxFileSize
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = "memory"
	}
	if c.Storage.Dir == "" {
		c.Storage.Dir = defaultStorageDir
	}
	if c.LLM.Timeout == 0 {
		c.LLM.Timeout = defaultLLMTimeout
	}
}

// Validate reports settings the relay cannot start with.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "memory", "disk", "database":
	default:
		return fmt.Errorf("unknown storage backend: %q (supported: memory, disk, database)", c.Storage.Backend)
	}
	switch c.Database.Driver {
	case "postgres", "pq", "sqlite":
	default:
		return fmt.Errorf("unknown database driver: %q (supported: postgres, pq, sqlite)", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database dsn is required")
	}
	switch strings.ToLower(c.LLM.Provider) {
	case "googleai", "gemini", "openai", "ollama":
	default:
		return fmt.Errorf("unknown llm provider: %q (supported: googleai, openai, ollama)", c.LLM.Provider)
	}
	return nil
}

// ValidateLLM checks the settings needed to reach the model. Commands that
// never edit skip it.
func (c *Config) ValidateLLM() error {
	switch strings.ToLower(c.LLM.Provider) {
	case "googleai", "gemini", "openai":
		if c.LLM.Key == "" {
			return fmt.Errorf("llm key is required for provider %q (set GEMINI_API_KEY or RELAY_LLM_KEY)", c.LLM.Provider)
		}
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("llm model is required")
	}
	return nil
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() *Config {
	out := *c
	if out.LLM.Key != "" {
		out.LLM.Key = "****"
	}
	if out.Database.Password != "" {
		out.Database.Password = "****"
	}
	return &out
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
