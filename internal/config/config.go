package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/wichananm65/eco-shop-backend/internal/eco"
)

type Config struct {
	Addr        string
	DatabaseURL string
	JWTSecret   string
	ModelPath   string
	RedisAddr   string
	CacheTTL    time.Duration
	LogMode     string
	AllowReset  bool

	// Admin is created at startup when Email and Password are both set.
	Admin AdminConfig

	Narrator     NarratorConfig
	Rules        eco.RuleSet
	Alternatives AlternativesConfig
}

type AdminConfig struct {
	Name     string
	Email    string
	Password string
}

func (a AdminConfig) Enabled() bool { return a.Email != "" && a.Password != "" }

type NarratorConfig struct {
	URL     string
	APIKey  string
	Model   string
	Timeout time.Duration
}

func (n NarratorConfig) Enabled() bool { return n.URL != "" }

type AlternativesConfig struct {
	CartLimit   int `toml:"cart_limit"`
	DetailLimit int `toml:"detail_limit"`
}

// fileOverlay is the optional TOML file named by ECO_CONFIG_FILE.
type fileOverlay struct {
	Rules        eco.RuleSet        `toml:"rules"`
	Alternatives AlternativesConfig `toml:"alternatives"`
}

// Load reads .env (if present), the environment and the optional TOML
// overlay. Missing values fall back to defaults.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Addr:        getenv("ECO_ADDR", ":8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		ModelPath:   getenv("MODEL_PATH", "ml-model.json"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		LogMode:     getenv("LOG_MODE", "dev"),
		AllowReset:  os.Getenv("ALLOW_RESET_PRODUCTS") == "1",
		Admin: AdminConfig{
			Name:     getenv("ADMIN_NAME", "Admin"),
			Email:    os.Getenv("ADMIN_EMAIL"),
			Password: os.Getenv("ADMIN_PASSWORD"),
		},
		Narrator: NarratorConfig{
			URL:    os.Getenv("NARRATOR_URL"),
			APIKey: os.Getenv("NARRATOR_API_KEY"),
			Model:  getenv("NARRATOR_MODEL", "gpt-4o-mini"),
		},
		Rules: eco.DefaultRules(),
		Alternatives: AlternativesConfig{
			CartLimit:   eco.DefaultCartAlternatives,
			DetailLimit: eco.DefaultDetailAlternatives,
		},
	}

	var err error
	if cfg.CacheTTL, err = durationEnv("CACHE_TTL", 5*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.Narrator.Timeout, err = durationEnv("NARRATOR_TIMEOUT", 8*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.Alternatives.CartLimit, err = intEnv("ALTERNATIVES_CART_LIMIT", cfg.Alternatives.CartLimit); err != nil {
		return Config{}, err
	}
	if cfg.Alternatives.DetailLimit, err = intEnv("ALTERNATIVES_DETAIL_LIMIT", cfg.Alternatives.DetailLimit); err != nil {
		return Config{}, err
	}

	if path := os.Getenv("ECO_CONFIG_FILE"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return Config{}, err
		}
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	// decode over the current values so omitted keys keep them
	overlay := fileOverlay{Rules: c.Rules, Alternatives: c.Alternatives}
	if err := toml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	c.Rules = overlay.Rules
	c.Alternatives = overlay.Alternatives
	return nil
}

func (c Config) Validate() error {
	if c.Alternatives.CartLimit <= 0 || c.Alternatives.DetailLimit <= 0 {
		return fmt.Errorf("invalid config: alternative limits must be positive")
	}
	if c.Alternatives.CartLimit > eco.MaxAlternatives || c.Alternatives.DetailLimit > eco.MaxAlternatives {
		return fmt.Errorf("invalid config: alternative limits must be <= %d", eco.MaxAlternatives)
	}
	if c.Rules.ComponentMax <= 0 {
		return fmt.Errorf("invalid config: rules.component_max must be positive")
	}
	return nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
